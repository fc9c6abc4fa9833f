package i

import (
	"github.com/beka-birhanu/vinom-maze/identity"
)

// Authenticator registers players and signs them in.
type Authenticator interface {
	Register(username, password string) (*identity.Player, error)
	SignIn(username, password string) (*identity.Player, string, error)
}
