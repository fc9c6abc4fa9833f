package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("SESSION-MANAGER", "", &buf)
	require.NoError(t, err)

	l.Info("started level 2")
	l.Warning("progress reset")
	l.Error("store down")

	out := buf.String()
	assert.Contains(t, out, "[SESSION-MANAGER]")
	assert.Contains(t, out, "[INFO]\033[0m started level 2")
	assert.Contains(t, out, "[WARNING]\033[0m progress reset")
	assert.Contains(t, out, "[ERROR]\033[0m store down")
}

func TestNewValidates(t *testing.T) {
	_, err := New("", "", &bytes.Buffer{})
	assert.Error(t, err)

	_, err = New("APP", "", nil)
	assert.Error(t, err)

	Discard().Info("dropped")
}
