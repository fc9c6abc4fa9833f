package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/beka-birhanu/vinom-maze/game"
	"github.com/beka-birhanu/vinom-maze/game/maze"
	"github.com/spf13/cobra"
)

func runGenerate(cmd *cobra.Command, _ []string) error {
	alg, err := maze.ParseAlgorithm(genAlgorithm)
	if err != nil {
		return err
	}
	seed := genSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	width, height := genWidth, genHeight
	params := maze.Params{Algorithm: alg}
	if genLevel > 0 {
		width = game.MazeSize(genLevel)
		height = width
		params = maze.LevelParams(genLevel, width, height, alg)
	}

	m, err := maze.Generate(width, height, params, rng)
	if err != nil {
		return err
	}
	if genAnnotate {
		if err := maze.Annotate(m, maze.DefaultPlacement(), rng); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, m.String())
	fmt.Fprintf(out, "%dx%d %s seed=%d passages=%d\n", width, height, alg, seed, m.OpenPassages())
	return nil
}
