package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/beka-birhanu/vinom-maze/config"
	"github.com/beka-birhanu/vinom-maze/game"
	"github.com/beka-birhanu/vinom-maze/game/maze"
	"github.com/beka-birhanu/vinom-maze/infrastruture/kvstore"
	logger "github.com/beka-birhanu/vinom-maze/infrastruture/log"
	"github.com/beka-birhanu/vinom-maze/service"
	"github.com/beka-birhanu/vinom-maze/terminal"
	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const (
	logFileName  = "mazecli.log"
	storeDirName = "store"
)

// localPlayerID gives every profile name a stable identity without an account.
func localPlayerID(name string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("vinom-maze:player:"+name))
}

// openProgress opens the local store. Logs go to a file in the data directory
// since the terminal belongs to the game while it runs.
func openProgress() (*service.ProgressStore, *logger.Logger, func(), error) {
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return nil, nil, nil, fmt.Errorf("create data directory %s: %w", dataDir, err)
	}
	logFile, err := os.OpenFile(filepath.Join(dataDir, logFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
	if err != nil {
		return nil, nil, nil, err
	}
	log, err := logger.New("MAZECLI", config.ColorCyan, logFile)
	if err != nil {
		_ = logFile.Close()
		return nil, nil, nil, err
	}

	store, err := kvstore.NewBadgerStore(kvstore.BadgerConfig{Path: filepath.Join(dataDir, storeDirName), Logger: log})
	if err != nil {
		_ = logFile.Close()
		return nil, nil, nil, err
	}
	progress, err := service.NewProgressStore(store, log)
	if err != nil {
		_ = store.Close()
		_ = logFile.Close()
		return nil, nil, nil, err
	}
	closeAll := func() {
		if err := store.Close(); err != nil {
			log.Error(fmt.Sprintf("closing store: %v", err))
		}
		_ = logFile.Close()
	}
	return progress, log, closeAll, nil
}

func runPlay(cmd *cobra.Command, _ []string) error {
	difficulty, err := game.ParseDifficulty(playDifficulty)
	if err != nil {
		return err
	}
	alg, err := maze.ParseAlgorithm(playAlgorithm)
	if err != nil {
		return err
	}

	progress, log, closeAll, err := openProgress()
	if err != nil {
		return err
	}
	defer closeAll()

	playerID := localPlayerID(playerName)
	level := playLevel
	if level <= 0 {
		p, err := progress.Load(cmd.Context(), playerID)
		if err != nil {
			return err
		}
		level = p.UnlockedLevels[len(p.UnlockedLevels)-1]
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	renderer := terminal.NewRenderer(screen)

	manager, err := service.NewGameSessionManager(service.Config{
		Progress:         progress,
		Logger:           log,
		Difficulty:       difficulty,
		InitialTime:      time.Duration(config.Envs.InitialTime) * time.Second,
		MutationInterval: time.Duration(config.Envs.MutationInterval) * time.Second,
		Algorithm:        alg,
		AutoAdvance:      config.Envs.AutoAdvance,
		NewRenderer:      func(uuid.UUID) game.Renderer { return renderer },
	})
	if err != nil {
		return err
	}
	defer manager.StopAll()

	g, err := terminal.NewGame(terminal.Config{
		Screen:   screen,
		Renderer: renderer,
		Manager:  manager,
		PlayerID: playerID,
	})
	if err != nil {
		return err
	}
	log.Info(fmt.Sprintf("player %q starts at level %d", playerName, level))
	return g.Run(cmd.Context(), level)
}

func runProgress(cmd *cobra.Command, _ []string) error {
	progress, _, closeAll, err := openProgress()
	if err != nil {
		return err
	}
	defer closeAll()

	p, err := progress.Load(cmd.Context(), localPlayerID(playerName))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Player:   %s\n", playerName)
	fmt.Fprintf(out, "Unlocked: %v\n", p.UnlockedLevels)
	levels := make([]int, 0, len(p.BestTimes))
	for level := range p.BestTimes {
		levels = append(levels, level)
	}
	slices.Sort(levels)
	for _, level := range levels {
		fmt.Fprintf(out, "Level %-3d best %.1fs\n", level, p.BestTimes[level])
	}
	if len(p.Achievements) > 0 {
		fmt.Fprintf(out, "Achievements: %v\n", p.Achievements)
	}
	return nil
}
