package i

import (
	"github.com/beka-birhanu/vinom-maze/identity"
	"github.com/google/uuid"
)

// PlayerRepo defines the interface for player persistence operations.
type PlayerRepo interface {
	// Save inserts a new player. It fails when the username is taken.
	Save(player *identity.Player) error

	// ByID retrieves a player by their unique ID.
	// Returns an error if the player is not found or in case of an unexpected error.
	ByID(id uuid.UUID) (*identity.Player, error)

	// ByUsername retrieves a player by their username.
	ByUsername(username string) (*identity.Player, error)
}
