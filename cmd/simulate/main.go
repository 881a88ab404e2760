// Command simulate plays computer-versus-computer games headlessly and
// reports the settlements.
package main

import (
	"flag"
	"fmt"
	"os"

	"tetramaster/internal/bot"
	"tetramaster/internal/config"
	"tetramaster/internal/logging"
)

func main() {
	var opts options
	configPath := flag.String("config", "", "path to a game config JSON file")
	flag.Int64Var(&opts.Seed, "seed", 1, "seed of the first game; game i uses seed+i")
	flag.IntVar(&opts.Games, "games", 10, "number of games to play")
	playerSkill := flag.Int("player-skill", int(bot.SkillGreedyCapture), "skill level of the player side")
	opponentSkill := flag.Int("opponent-skill", int(bot.SkillRandom), "skill level of the opponent side")
	flag.IntVar(&opts.CardLevel, "card-level", 0, "card level of the opponent deck")
	verbose := flag.Bool("v", false, "log every state change and battle")
	flag.Parse()

	opts.PlayerSkill = bot.SkillLevel(*playerSkill)
	opts.OpponentSkill = bot.SkillLevel(*opponentSkill)

	logger, err := logging.NewDevelopment(*verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *configPath != "" {
		if err := config.LoadGameConfig(*configPath); err != nil {
			logger.Error("Failed to load game config: %v", err)
			os.Exit(1)
		}
	}
	opts.Config = config.GetGameConfig()

	types, err := config.LoadCardTypes()
	if err != nil {
		logger.Error("Failed to load card types: %v", err)
		os.Exit(1)
	}

	tally, err := runGames(logger, types, opts)
	if err != nil {
		logger.Error("Simulation failed: %v", err)
		os.Exit(1)
	}

	fmt.Printf("%s (player) vs %s (opponent), %d games: %d won, %d lost, %d drawn, %d perfect, %d cards taken\n",
		opts.PlayerSkill, opts.OpponentSkill, opts.Games, tally.PlayerWins, tally.OpponentWins, tally.Draws, tally.Perfect, tally.CardsTaken)
}
