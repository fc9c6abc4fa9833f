// Package repo persists player accounts.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/beka-birhanu/vinom-maze/identity"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/google/uuid"
)

var (
	ErrPlayerNotFound   = errors.New("player not found")
	ErrUsernameConflict = errors.New("username conflict")
)

const opTimeout = 2 * time.Second

// PlayerRepo keeps players in a key/value store: the record under
// "player:<id>" and an index entry "username:<lowercase name>" holding the id.
type PlayerRepo struct {
	store i.KVStore
}

// NewPlayerRepo creates a PlayerRepo over store.
func NewPlayerRepo(store i.KVStore) *PlayerRepo {
	return &PlayerRepo{store: store}
}

func playerKey(id uuid.UUID) string { return "player:" + id.String() }

func usernameKey(name string) string { return "username:" + strings.ToLower(name) }

// Save claims the username and stores the player.
func (r *PlayerRepo) Save(player *identity.Player) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	err := r.store.Update(ctx, usernameKey(player.Username), func(cur []byte) ([]byte, error) {
		if cur != nil && string(cur) != player.ID.String() {
			return nil, ErrUsernameConflict
		}
		return []byte(player.ID.String()), nil
	})
	if err != nil {
		return err
	}

	raw, err := json.Marshal(player)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, playerKey(player.ID), raw)
}

// ByID retrieves a player by their ID.
func (r *PlayerRepo) ByID(id uuid.UUID) (*identity.Player, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	raw, err := r.store.Get(ctx, playerKey(id))
	if errors.Is(err, i.ErrNotFound) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}

	var player identity.Player
	if err := json.Unmarshal(raw, &player); err != nil {
		return nil, fmt.Errorf("decoding player %s: %w", id, err)
	}
	return &player, nil
}

// ByUsername retrieves a player by their username, case-insensitively.
func (r *PlayerRepo) ByUsername(username string) (*identity.Player, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	raw, err := r.store.Get(ctx, usernameKey(username))
	if errors.Is(err, i.ErrNotFound) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	id, err := uuid.ParseBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding username index %s: %w", username, err)
	}
	return r.ByID(id)
}
