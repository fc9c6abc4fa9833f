package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/beka-birhanu/vinom-maze/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGenerate(t *testing.T) {
	out, err := execute(t, "generate", "--width", "15", "--height", "15", "--level", "0", "--algorithm", "backtracker", "--seed", "42", "--annotate=false")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2*15+2)
	assert.Equal(t, "+"+strings.Repeat("---+", 15), lines[0])
	assert.Equal(t, "15x15 backtracker seed=42 passages=224", lines[len(lines)-1])

	again, err := execute(t, "generate", "--width", "15", "--height", "15", "--level", "0", "--algorithm", "backtracker", "--seed", "42", "--annotate=false")
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestGenerateLevel(t *testing.T) {
	out, err := execute(t, "generate", "--level", "3", "--algorithm", "prim", "--seed", "7", "--annotate")
	require.NoError(t, err)

	assert.Contains(t, out, "18x18 prim seed=7 passages=323")
	assert.Contains(t, out, "S")
	assert.Contains(t, out, "E")
}

func TestGenerateRejects(t *testing.T) {
	_, err := execute(t, "generate", "--level", "0", "--algorithm", "kruskal")
	assert.Error(t, err)

	_, err = execute(t, "generate", "--level", "0", "--algorithm", "prim", "--width", "0")
	assert.Error(t, err)
}

func TestProgress(t *testing.T) {
	dir := t.TempDir()
	dataDir = dir
	playerName = "ada"

	progress, _, closeAll, err := openProgress()
	require.NoError(t, err)
	id := localPlayerID("ada")
	_, _, err = progress.Record(context.Background(), id, game.Result{Level: 1, Status: game.StatusWin, Seconds: 45})
	require.NoError(t, err)
	closeAll()

	out, err := execute(t, "progress", "--data", dir, "--player", "ada")
	require.NoError(t, err)
	assert.Contains(t, out, "Unlocked: [1 2]")
	assert.Contains(t, out, "Level 1   best 45.0s")
	assert.Contains(t, out, "first_win")

	out, err = execute(t, "progress", "--data", dir, "--player", "someone-else")
	require.NoError(t, err)
	assert.Contains(t, out, "Unlocked: [1]")
}

func TestLocalPlayerIDIsStable(t *testing.T) {
	assert.Equal(t, localPlayerID("ada"), localPlayerID("ada"))
	assert.NotEqual(t, localPlayerID("ada"), localPlayerID("grace"))
}
