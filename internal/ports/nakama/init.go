package nakama

import (
	"context"
	"database/sql"

	"github.com/heroiclabs/nakama-common/runtime"

	"tetramaster/internal/bot"
	"tetramaster/internal/config"
)

// InitModule wires RPCs, hooks and match handlers for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadGameConfig(gameConfigPath); err != nil {
		logger.Warn("Could not load game config, using defaults: %v", err)
	}
	if err := bot.LoadOpponents(opponentsPath); err != nil {
		logger.Warn("Could not load opponent profiles: %v", err)
	}
	if _, err := config.LoadCardTypes(); err != nil {
		return err
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameTetraMaster, NewMatch); err != nil {
		return err
	}

	logger.Info("TetraMaster Go module loaded.")
	return nil
}
