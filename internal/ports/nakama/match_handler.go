package nakama

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"

	"tetramaster/internal/app"
	"tetramaster/internal/bot"
	"tetramaster/internal/config"
	"tetramaster/internal/deck"
	"tetramaster/internal/domain"
	"tetramaster/internal/ports"
)

// matchEpoch anchors the session timer queue; tick n maps to n tick periods after it.
var matchEpoch = time.Unix(0, 0).UTC()

// MatchState holds the authoritative runtime state for one human against one
// computer opponent.
type MatchState struct {
	HumanID   string                      `json:"human_id"`  // User ID of the seated human, empty while waiting
	Presences map[string]runtime.Presence `json:"-"`         // Map UserId -> Presence for targeted messaging
	Opponent  bot.OpponentProfile         `json:"opponent"`  // Computer opponent for this match
	Config    config.GameConfig           `json:"-"`         // Game tunables after env overrides
	Tick      int64                       `json:"tick"`      // Current tick of the match
	TickRate  int                         `json:"tick_rate"` // Ticks per second

	Session    *app.Session          `json:"-"`
	Timers     *app.TimerQueue       `json:"-"`
	Agent      *bot.Agent            `json:"-"`
	Deck       *deck.Generator       `json:"-"`
	Collection ports.CollectionPort  `json:"-"`
	Signer     *app.SettlementSigner `json:"-"`

	Settlement *app.Settlement `json:"-"` // Result of the last finished game
	Taken      map[int]bool    `json:"-"` // Slots already claimed from Settlement
	LastPhase  string          `json:"-"` // Phase carried by the last label update
	outbox     []app.Event
}

// clockAt maps a match tick onto the timer queue clock.
func (ms *MatchState) clockAt(tick int64) time.Time {
	rate := ms.TickRate
	if rate <= 0 {
		rate = 1
	}
	return matchEpoch.Add(time.Duration(tick) * time.Second / time.Duration(rate))
}

func (ms *MatchState) humanCount() int {
	if ms.HumanID == "" {
		return 0
	}
	return 1
}

// newMatchState builds a match against opponent. Session events are buffered
// in the state and dispatched after each message or tick.
func newMatchState(logger runtime.Logger, cfg config.GameConfig, opponent bot.OpponentProfile, types domain.CardTypeTable, collection ports.CollectionPort, dice *domain.Dice) (*MatchState, error) {
	strategy, err := bot.NewStrategy(opponent.SkillLevel, dice)
	if err != nil {
		return nil, err
	}

	timers := app.NewTimerQueue(matchEpoch)
	session := app.NewSession(app.Options{
		Logger:          logger,
		Dice:            dice,
		Scheduler:       timers,
		OpponentChooser: strategy,
		AnimationWindow: cfg.AnimationWindow(),
		RevealWindow:    cfg.RevealWindow(),
		MaxPlacements:   cfg.MaxPlacements,
		MaxBlockers:     cfg.MaxBlockers,
	})

	agent := &bot.Agent{
		Side:     domain.SideOpponent,
		Name:     opponent.DisplayName,
		Strategy: strategy,
		Logger:   logger,
	}
	agent.Attach(session, timers, cfg.OpponentThink())

	secret := cfg.SettlementSecret
	if secret == "" {
		secret = uuid.NewString()
	}

	state := &MatchState{
		Presences:  make(map[string]runtime.Presence),
		Opponent:   opponent,
		Config:     cfg,
		TickRate:   cfg.MatchTickRate,
		Session:    session,
		Timers:     timers,
		Agent:      agent,
		Deck:       deck.NewGenerator(dice, types),
		Collection: collection,
		Signer:     app.NewSettlementSigner(secret, cfg.SettlementIssuer, cfg.SettlementTTL()),
		Taken:      make(map[int]bool),
	}
	session.OnEvent(func(ev app.Event) {
		state.outbox = append(state.outbox, ev)
	})
	return state, nil
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	cfg := config.GetGameConfig()
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		var err error
		if cfg, err = cfg.ApplyEnv(env); err != nil {
			logger.Warn("MatchInit: Ignoring malformed env override: %v", err)
		}
	}

	types, err := config.LoadCardTypes()
	if err != nil {
		logger.Error("MatchInit: Failed to load card types: %v", err)
		return nil, 0, ""
	}

	dice := domain.NewDice(nil, logger)
	opponent := pickOpponent(params, dice, cfg)

	state, err := newMatchState(logger, cfg, opponent, types, NewNakamaCollectionAdapter(nk), dice)
	if err != nil {
		logger.Error("MatchInit: Failed to create match state: %v", err)
		return nil, 0, ""
	}

	label, err := mh.labelFor(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}
	state.LastPhase = string(domain.PhaseLobby)

	logger.Info("MatchInit: Opponent %s (skill %s, card level %d)", opponent.DisplayName, opponent.SkillLevel, opponent.CardLevel)
	return state, state.TickRate, label
}

// pickOpponent honors an "opponent" id param, otherwise picks a loaded profile
// at random. Without profiles the configured default levels apply.
func pickOpponent(params map[string]interface{}, dice *domain.Dice, cfg config.GameConfig) bot.OpponentProfile {
	if id, ok := params["opponent"].(string); ok {
		if p, found := bot.FindOpponent(id); found {
			return p
		}
	}
	return bot.GetOpponent(dice.Pick(max(bot.OpponentCount(), 1)), bot.SkillLevel(cfg.DefaultSkillLevel), cfg.DefaultCardLevel)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// The single human seat may only be retaken by the same user.
	if matchState.HumanID != "" && matchState.HumanID != presence.GetUserId() {
		return state, false, "Match full"
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		if matchState.HumanID != "" && matchState.HumanID != p.GetUserId() {
			logger.Warn("MatchJoin: User %s joined but the seat belongs to %s.", p.GetUserId(), matchState.HumanID)
			continue
		}
		matchState.HumanID = p.GetUserId()
		matchState.Presences[p.GetUserId()] = p
		logger.Debug("MatchJoin: User %s seated against %s.", p.GetUserId(), matchState.Opponent.DisplayName)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastSnapshot(matchState, dispatcher, logger)

	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())
		logger.Debug("MatchLeave: User %s left.", p.GetUserId())
	}

	if len(matchState.Presences) == 0 {
		logger.Info("MatchLeave: Terminating match with no humans.")
		return nil
	}

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	// Run battle continuations and opponent moves that fell due since the last tick.
	matchState.Timers.AdvanceTo(matchState.clockAt(tick))
	mh.flush(ctx, matchState, dispatcher, logger)

	// Handle incoming messages
	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpPlaceCard:
			mh.handlePlaceCard(ctx, matchState, dispatcher, logger, msg)
		case OpChooseDefender:
			mh.handleChooseDefender(ctx, matchState, dispatcher, logger, msg)
		case OpStealCard:
			mh.handleStealCard(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
		mh.flush(ctx, matchState, dispatcher, logger)
	}

	return matchState
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	logger.Info("StartGame: Request received from %s (state=%s)", senderID, state.Session.State())

	if senderID != state.HumanID {
		logger.Warn("StartGame: User %s is not seated in this match", senderID)
		return
	}
	if s := state.Session.State(); s != domain.GameInit && s != domain.GameEnd {
		logger.Warn("StartGame: Game already in progress (%s)", s)
		mh.sendError(state, dispatcher, logger, senderID, errCodeConflict, "game already in progress")
		return
	}

	collection, err := state.Collection.LoadCollection(ctx, senderID)
	if err != nil {
		logger.Error("StartGame: Failed to load collection for %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, errCodeInternal, "collection unavailable")
		return
	}
	playerHand := deck.PlayerHand(collection, state.Config.HandSize)
	if len(playerHand) < state.Config.HandSize {
		logger.Warn("StartGame: User %s owns %d cards, %d needed", senderID, len(collection), state.Config.HandSize)
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadRequest, "not enough cards")
		return
	}
	opponentHand := state.Deck.OpponentHand(state.Opponent.CardLevel, state.Config.HandSize)

	state.Settlement = nil
	state.Taken = make(map[int]bool)
	state.Session.StartGame(playerHand, opponentHand)
	side := state.Session.FlipCoin()

	logger.Info("StartGame: Game started against %s, %s places first.", state.Opponent.DisplayName, side)
}

func (mh *matchHandler) handlePlaceCard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if senderID != state.HumanID {
		logger.Warn("handlePlaceCard: User %s is not seated in this match", senderID)
		return
	}

	request, err := decodePayload(msg.GetData())
	if err != nil {
		logger.Warn("handlePlaceCard: Invalid request from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadRequest, err.Error())
		return
	}
	slot, okSlot := intField(request, "slot")
	location, okLoc := intField(request, "location")
	if !okSlot || !okLoc {
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadRequest, "slot and location are required")
		return
	}

	card, ok := state.Session.Hand(domain.SidePlayer).FindBySlot(slot)
	if !ok {
		logger.Warn("handlePlaceCard: User %s does not hold slot %d", senderID, slot)
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadRequest, "card not in hand")
		return
	}

	if err := state.Session.PlaceCard(card, location, domain.SidePlayer); err != nil {
		logger.Warn("handlePlaceCard: User %s failed to place slot %d at %d: %v", senderID, slot, location, err)
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadRequest, err.Error())
	}
}

func (mh *matchHandler) handleChooseDefender(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if senderID != state.HumanID {
		logger.Warn("handleChooseDefender: User %s is not seated in this match", senderID)
		return
	}

	request, err := decodePayload(msg.GetData())
	if err != nil {
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadRequest, err.Error())
		return
	}
	location, ok := intField(request, "location")
	if !ok {
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadRequest, "location is required")
		return
	}

	if err := state.Session.ChooseDefender(location); err != nil {
		logger.Warn("handleChooseDefender: User %s chose %d: %v", senderID, location, err)
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadRequest, err.Error())
	}
}

// handleStealCard moves one of the opponent's cards into the winner's
// collection. The settlement token issued at game end authorizes the claim.
func (mh *matchHandler) handleStealCard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if senderID != state.HumanID {
		logger.Warn("handleStealCard: User %s is not seated in this match", senderID)
		return
	}

	st := state.Settlement
	if st == nil || st.Draw || st.Winner != domain.SidePlayer {
		mh.sendError(state, dispatcher, logger, senderID, errCodeConflict, "nothing to claim")
		return
	}
	if len(state.Taken) >= st.StealCount {
		mh.sendError(state, dispatcher, logger, senderID, errCodeConflict, "all cards already claimed")
		return
	}

	request, err := decodePayload(msg.GetData())
	if err != nil {
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadRequest, err.Error())
		return
	}
	slot, ok := intField(request, "slot")
	if !ok {
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadRequest, "slot is required")
		return
	}

	claims, err := state.Signer.Verify(stringField(request, "token"))
	if err != nil || claims.GameID != st.GameID || claims.UserID != senderID || !claims.Allows(slot) {
		logger.Warn("handleStealCard: Rejected claim of slot %d by %s: %v", slot, senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, errCodeForbidden, "claim not authorized")
		return
	}
	if state.Taken[slot] {
		mh.sendError(state, dispatcher, logger, senderID, errCodeConflict, "card already claimed")
		return
	}
	card, ok := st.CanSteal(slot)
	if !ok {
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadRequest, "card not stealable")
		return
	}

	if err := state.Collection.AddCards(ctx, senderID, []domain.Card{card}); err != nil {
		logger.Error("handleStealCard: Failed to store card for %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, errCodeInternal, "failed to store card")
		return
	}
	state.Taken[slot] = true
	logger.Info("handleStealCard: User %s took slot %d (%s)", senderID, slot, card.Stats.Label())

	fields := settlementFields(*st)
	fields["taken"] = cardsList([]domain.Card{card})
	fields["remaining"] = st.StealCount - len(state.Taken)
	mh.send(state, dispatcher, logger, OpGameEnded, fields)
}

// flush dispatches the session events buffered since the last call.
func (mh *matchHandler) flush(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	events := state.outbox
	state.outbox = nil
	if len(events) == 0 {
		return
	}

	boardChanged := false
	ended := false
	for _, ev := range events {
		switch ev.Kind {
		case app.EventStateChanged:
			p := ev.Payload.(app.StateChangedPayload)
			mh.send(state, dispatcher, logger, OpStateChanged, map[string]interface{}{
				"state":  p.State.String(),
				"active": p.Active.String(),
			})
			boardChanged = true
		case app.EventCardPlaced, app.EventCardsCaptured, app.EventSelectionRequired, app.EventBattleSettled:
			boardChanged = true
		case app.EventBattleResolved:
			p := ev.Payload.(app.BattleResolvedPayload)
			mh.send(state, dispatcher, logger, OpBattleResolved, outcomeFields(p.Outcome))
			boardChanged = true
		case app.EventRollRevealed:
			p := ev.Payload.(app.RollRevealedPayload)
			logger.Debug("Event: roll revealed at %d (%d/%d)", p.Location, p.Stat, p.Margin)
		case app.EventPhaseAborted:
			p := ev.Payload.(app.PhaseAbortedPayload)
			logger.Error("Event: battle phase aborted at %d: %v", p.Location, p.Err)
			mh.sendError(state, dispatcher, logger, state.HumanID, errCodeInternal, p.Err.Error())
		case app.EventGameEnded:
			ended = true
		default:
			logger.Warn("Unknown event kind: %v", ev.Kind)
		}
	}

	if boardChanged {
		mh.broadcastSnapshot(state, dispatcher, logger)
	}
	if ended {
		mh.settle(ctx, state, dispatcher, logger)
	}
	if phase := string(domain.PhaseFor(state.Session.State())); phase != state.LastPhase {
		mh.updateLabel(state, dispatcher, logger)
	}
}

// settle records the result of a finished game. A human winner receives a
// signed token to claim cards with; a computer winner takes its cards at once.
func (mh *matchHandler) settle(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	st, err := state.Session.Settle()
	if err != nil {
		logger.Error("settle: %v", err)
		return
	}
	state.Settlement = &st
	state.Taken = make(map[int]bool)
	fields := settlementFields(st)

	switch {
	case st.Draw || state.HumanID == "":
	case st.Winner == domain.SidePlayer:
		token, err := state.Signer.Sign(st, state.HumanID)
		if err != nil {
			logger.Error("settle: Failed to sign settlement: %v", err)
			break
		}
		fields["token"] = token
	default:
		taken := state.Agent.Spoils(st)
		for _, c := range taken {
			removed, err := state.Collection.RemoveCard(ctx, state.HumanID, c.Identity.UniqueID)
			if err != nil {
				logger.Error("settle: Failed to remove card %s from %s: %v", c.Identity.UniqueID, state.HumanID, err)
				continue
			}
			if !removed {
				logger.Warn("settle: Card %s was not in the collection of %s", c.Identity.UniqueID, state.HumanID)
			}
		}
		fields["taken"] = cardsList(taken)
	}

	logger.Info("settle: Game %s ended %d-%d (draw=%t, perfect=%t)", st.GameID, st.PlayerScore, st.OpponentScore, st.Draw, st.Perfect)
	mh.send(state, dispatcher, logger, OpGameEnded, fields)
}

func (mh *matchHandler) broadcastSnapshot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	fields := snapshotFields(state.Session)
	fields["tick"] = state.Tick
	fields["opponent"] = state.Opponent.DisplayName
	mh.send(state, dispatcher, logger, OpBoardSnapshot, fields)
}

// send broadcasts a payload to everyone in the match.
func (mh *matchHandler) send(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, opCode int64, fields map[string]interface{}) {
	bytes, err := encodePayload(fields)
	if err != nil {
		logger.Error("Failed to marshal opcode %d: %v", opCode, err)
		return
	}
	if err := dispatcher.BroadcastMessage(opCode, bytes, nil, nil, true); err != nil {
		logger.Error("Failed to broadcast opcode %d: %v", opCode, err)
	}
}

// sendError sends a game error to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	bytes, err := encodePayload(map[string]interface{}{
		"code":    code,
		"message": message,
	})
	if err != nil {
		logger.Error("Failed to marshal game error: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	if err := dispatcher.BroadcastMessage(OpGameError, bytes, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Error("Failed to send game error to %s: %v", userID, err)
	}
}

func (mh *matchHandler) labelFor(state *MatchState) (string, error) {
	phase := domain.PhaseFor(state.Session.State())
	return labelString(domain.ComputeLabel(phase, state.humanCount(), state.Opponent.DisplayName, state.Opponent.CardLevel, int(state.Opponent.SkillLevel)))
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := mh.labelFor(state)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
		return
	}
	state.LastPhase = string(domain.PhaseFor(state.Session.State()))
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
