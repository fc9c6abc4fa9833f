package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/beka-birhanu/vinom-maze/game"
	"github.com/beka-birhanu/vinom-maze/infrastruture/metrics"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/google/uuid"
)

// ErrCorruptProgress marks a stored progress document that could not be
// decoded. It never reaches callers: the record is reset to its default.
var ErrCorruptProgress = errors.New("corrupt progress")

// ProgressStore keeps each player's progress as a JSON document under
// "progress:<player id>".
type ProgressStore struct {
	store  i.KVStore
	logger i.Logger
}

var _ i.ProgressStore = &ProgressStore{}

func NewProgressStore(store i.KVStore, logger i.Logger) (*ProgressStore, error) {
	if store == nil {
		return nil, errors.New("progress store needs a key/value store")
	}
	if logger == nil {
		return nil, errors.New("progress store needs a logger")
	}
	return &ProgressStore{store: store, logger: logger}, nil
}

func progressKey(playerID uuid.UUID) string {
	return "progress:" + playerID.String()
}

// decode turns a stored document into a usable record. A missing document is
// the default record; a malformed one is reset to the default and reported.
func (s *ProgressStore) decode(playerID uuid.UUID, raw []byte) *game.Progress {
	if raw == nil {
		return game.NewProgress()
	}
	var p *game.Progress
	err := json.Unmarshal(raw, &p)
	if err == nil && !p.Normalize() {
		err = errors.New("empty document")
	}
	if err != nil {
		err = fmt.Errorf("%w for player %s: %v", ErrCorruptProgress, playerID, err)
		s.logger.Warning(err.Error() + "; resetting to defaults")
		metrics.ProgressReset()
		return game.NewProgress()
	}
	return p
}

// Load returns the player's progress, or the default record.
func (s *ProgressStore) Load(ctx context.Context, playerID uuid.UUID) (*game.Progress, error) {
	raw, err := s.store.Get(ctx, progressKey(playerID))
	if err != nil && !errors.Is(err, i.ErrNotFound) {
		return nil, fmt.Errorf("loading progress: %w", err)
	}
	return s.decode(playerID, raw), nil
}

// modify applies fn inside a store read-modify-write. fn reports whether it
// changed the record; unchanged records are not rewritten.
func (s *ProgressStore) modify(ctx context.Context, playerID uuid.UUID, fn func(*game.Progress) bool) (*game.Progress, error) {
	var result *game.Progress
	err := s.store.Update(ctx, progressKey(playerID), func(cur []byte) ([]byte, error) {
		p := s.decode(playerID, cur)
		result = p
		if !fn(p) && cur != nil {
			return nil, nil
		}
		return json.Marshal(p)
	})
	if err != nil {
		return nil, fmt.Errorf("saving progress: %w", err)
	}
	return result, nil
}

// UnlockLevel adds level to the unlocked set. Repeated calls are no-ops.
func (s *ProgressStore) UnlockLevel(ctx context.Context, playerID uuid.UUID, level int) (*game.Progress, error) {
	return s.modify(ctx, playerID, func(p *game.Progress) bool { return p.Unlock(level) })
}

// UpdateBestTime keeps the strictly smaller of the stored and given times.
func (s *ProgressStore) UpdateBestTime(ctx context.Context, playerID uuid.UUID, level int, seconds float64) (*game.Progress, error) {
	return s.modify(ctx, playerID, func(p *game.Progress) bool { return p.UpdateBestTime(level, seconds) })
}

// Record folds a finished session into the player's progress.
func (s *ProgressStore) Record(ctx context.Context, playerID uuid.UUID, result game.Result) (*game.Progress, []game.Achievement, error) {
	var earned []game.Achievement
	p, err := s.modify(ctx, playerID, func(p *game.Progress) bool {
		earned = p.Apply(result)
		return true
	})
	if err != nil {
		return nil, nil, err
	}
	if len(earned) > 0 {
		names := make([]string, len(earned))
		for n, a := range earned {
			names[n] = string(a)
		}
		s.logger.Info(fmt.Sprintf("player %s earned %s", playerID, strings.Join(names, ", ")))
	}
	return p, earned, nil
}
