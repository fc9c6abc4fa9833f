package service

import (
	"strings"
	"sync"
	"testing"

	"github.com/beka-birhanu/vinom-maze/infrastruture/kvstore"
	"github.com/stretchr/testify/require"
)

type testLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *testLogger) add(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, level+" "+msg)
}

func (l *testLogger) Info(msg string)    { l.add("INFO", msg) }
func (l *testLogger) Warning(msg string) { l.add("WARNING", msg) }
func (l *testLogger) Error(msg string)   { l.add("ERROR", msg) }

func (l *testLogger) count(level, substr string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, line := range l.lines {
		if strings.HasPrefix(line, level+" ") && strings.Contains(line, substr) {
			n++
		}
	}
	return n
}

func newMemStore(t *testing.T) *kvstore.BadgerStore {
	t.Helper()
	s, err := kvstore.NewBadgerStore(kvstore.BadgerConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}
