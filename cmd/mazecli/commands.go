package main

import (
	"github.com/beka-birhanu/vinom-maze/config"
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	dataDir    string
	playerName string

	genWidth     int
	genHeight    int
	genLevel     int
	genAlgorithm string
	genSeed      int64
	genAnnotate  bool

	playLevel      int
	playDifficulty string
	playAlgorithm  string

	rootCmd = &cobra.Command{
		Use:           "mazecli",
		Short:         "Generate and play shifting mazes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Print a freshly carved maze",
		Args:  cobra.NoArgs,
		RunE:  runGenerate, // Defined in cmd_generate.go
	}

	playCmd = &cobra.Command{
		Use:   "play",
		Short: "Play levels in the terminal, saving progress locally",
		Args:  cobra.NoArgs,
		RunE:  runPlay, // Defined in cmd_play.go
	}

	progressCmd = &cobra.Command{
		Use:   "progress",
		Short: "Show the unlocked levels, best times and achievements of a player",
		Args:  cobra.NoArgs,
		RunE:  runProgress, // Defined in cmd_play.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.Envs.BadgerPath, "directory of the local progress store")
	rootCmd.PersistentFlags().StringVar(&playerName, "player", "local", "profile name progress is saved under")

	generateCmd.Flags().IntVar(&genWidth, "width", 15, "number of columns")
	generateCmd.Flags().IntVar(&genHeight, "height", 15, "number of rows")
	generateCmd.Flags().IntVar(&genLevel, "level", 0, "size and tune the maze for this level, overriding width and height")
	generateCmd.Flags().StringVar(&genAlgorithm, "algorithm", config.Envs.MazeAlgorithm, "backtracker, prim or wilson")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "random seed, 0 picks one from the clock")
	generateCmd.Flags().BoolVar(&genAnnotate, "annotate", false, "place entry, exit, items, traps and the transformer")

	playCmd.Flags().IntVar(&playLevel, "level", 0, "level to start, 0 resumes at the highest unlocked one")
	playCmd.Flags().StringVar(&playDifficulty, "difficulty", config.Envs.Difficulty, "easy, normal or hard")
	playCmd.Flags().StringVar(&playAlgorithm, "algorithm", config.Envs.MazeAlgorithm, "backtracker, prim or wilson")

	rootCmd.AddCommand(generateCmd, playCmd, progressCmd)
}
