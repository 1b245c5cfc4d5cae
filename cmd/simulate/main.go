package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/user/arena-games/config"
	"github.com/user/arena-games/internal/game"
	"github.com/user/arena-games/internal/logging"
)

var (
	rosterPath  string
	catalogPath string
	seed        int64
	maxSteps    int
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run an arena game to completion and print the chronicle",
	Long: `Run an arena game from a roster file and print every event as it happens.

The roster is a YAML or JSON list of participants. Use --seed to replay a game.

Examples:
  simulate --roster assets/data/roster.yaml
  simulate --roster roster.json --seed 42 --max-steps 200`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSimulation,
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	cfg.Log.Level = logLevel
	cfg.Log.Format = "console"
	cfg.Log.Output = "stdout"
	cfg.Game.Seed = seed

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	loader := game.NewDataLoader(".")
	roster, err := loader.LoadRoster(rosterPath)
	if err != nil {
		return err
	}

	var opts []game.Option
	if catalogPath != "" {
		catalog, err := loader.LoadCatalog(catalogPath)
		if err != nil {
			return err
		}
		opts = append(opts, game.WithCatalog(catalog))
	}

	gm := game.NewGameManager(cfg, opts...)
	gm.SetLogger(logger)
	gm.SetEventSink(game.NewWriterSink(cmd.OutOrStdout()))
	defer gm.StopEventSystem()

	g, err := gm.CreateGame(roster)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Game %s with %d tributes from %s\n",
		g.ID, len(g.State.Participants), filepath.Base(rosterPath))

	state, err := gm.RunToCompletion(g.ID, maxSteps)
	if err != nil && !errors.Is(err, game.ErrStepLimit) {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout())
	switch {
	case err != nil:
		fmt.Fprintf(cmd.OutOrStdout(), "No winner after %d steps; %d tributes still alive.\n", maxSteps, len(state.Alive()))
	case state.Winner != nil:
		fmt.Fprintf(cmd.OutOrStdout(), "The winner is %s with %d kills on day %d!\n", state.Winner.Name, state.Winner.Kills, state.Day)
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "Nobody survived.\n")
	}
	return nil
}

func init() {
	rootCmd.Flags().StringVarP(&rosterPath, "roster", "r", "", "Roster file (.yaml, .yml or .json)")
	rootCmd.Flags().StringVarP(&catalogPath, "catalog", "c", "", "Item catalog file replacing the built-in items")
	rootCmd.Flags().Int64VarP(&seed, "seed", "s", 0, "Random seed (0 uses the clock)")
	rootCmd.Flags().IntVarP(&maxSteps, "max-steps", "m", 500, "Give up after this many steps")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.MarkFlagRequired("roster")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
