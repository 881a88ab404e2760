package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// GameConfig holds the tunables of a game. The battle timer fields size the
// roll reveal: it shows for BattleTimerInitialDisplayMS, then counts for
// BattleTimerMS.
type GameConfig struct {
	BattleTimerMS               int `json:"battle_timer_ms"`
	BattleTimerInitialDisplayMS int `json:"battle_timer_initial_display_ms"`
	OpponentThinkMS             int `json:"opponent_think_ms"`
	MaxPlacements               int `json:"max_placements"`
	MaxBlockers                 int `json:"max_blockers"`
	HandSize                    int `json:"hand_size"`
	DefaultSkillLevel           int `json:"default_skill_level"`
	DefaultCardLevel            int `json:"default_card_level"`
	MatchTickRate               int `json:"match_tick_rate"`

	SettlementSecret     string `json:"settlement_secret"`
	SettlementIssuer     string `json:"settlement_issuer"`
	SettlementTTLSeconds int    `json:"settlement_ttl_seconds"`
}

// Default returns the built-in configuration.
func Default() GameConfig {
	return GameConfig{
		BattleTimerMS:               1500,
		BattleTimerInitialDisplayMS: 500,
		OpponentThinkMS:             1000,
		MaxPlacements:               10,
		MaxBlockers:                 6,
		HandSize:                    5,
		DefaultSkillLevel:           1,
		DefaultCardLevel:            0,
		MatchTickRate:               10,
		SettlementIssuer:            "tetramaster",
		SettlementTTLSeconds:        3600,
	}
}

// RevealWindow is how long a battle roll stays on the cards.
func (c GameConfig) RevealWindow() time.Duration {
	return time.Duration(c.BattleTimerMS+c.BattleTimerInitialDisplayMS) * time.Millisecond
}

// AnimationWindow is how long a resolved battle waits before it settles.
func (c GameConfig) AnimationWindow() time.Duration {
	return c.RevealWindow() + 5*time.Millisecond
}

// OpponentThink is the delay before the computer opponent moves.
func (c GameConfig) OpponentThink() time.Duration {
	return time.Duration(c.OpponentThinkMS) * time.Millisecond
}

// SettlementTTL is the lifetime of a signed settlement.
func (c GameConfig) SettlementTTL() time.Duration {
	return time.Duration(c.SettlementTTLSeconds) * time.Second
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path. Missing
// fields keep their defaults.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		c := Default()
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or the defaults when
// nothing was loaded.
func GetGameConfig() GameConfig {
	if cfg == nil {
		return Default()
	}
	return *cfg
}

// ApplyEnv overrides fields from runtime environment keys such as
// tetramaster_opponent_think_ms. Malformed numbers are reported and skipped.
func (c GameConfig) ApplyEnv(env map[string]string) (GameConfig, error) {
	ints := map[string]*int{
		"tetramaster_battle_timer_ms":                 &c.BattleTimerMS,
		"tetramaster_battle_timer_initial_display_ms": &c.BattleTimerInitialDisplayMS,
		"tetramaster_opponent_think_ms":               &c.OpponentThinkMS,
		"tetramaster_max_placements":                  &c.MaxPlacements,
		"tetramaster_max_blockers":                    &c.MaxBlockers,
		"tetramaster_hand_size":                       &c.HandSize,
		"tetramaster_default_skill_level":             &c.DefaultSkillLevel,
		"tetramaster_default_card_level":              &c.DefaultCardLevel,
		"tetramaster_settlement_ttl_seconds":          &c.SettlementTTLSeconds,
	}
	var firstErr error
	for key, dst := range ints {
		raw, ok := env[key]
		if !ok || raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("invalid %s: %w", key, err)
			}
			continue
		}
		*dst = v
	}
	if v := env["tetramaster_settlement_secret"]; v != "" {
		c.SettlementSecret = v
	}
	if v := env["tetramaster_settlement_issuer"]; v != "" {
		c.SettlementIssuer = v
	}
	return c, firstErr
}
