package service

import (
	"errors"
	"time"

	"github.com/beka-birhanu/vinom-maze/identity"
	"github.com/beka-birhanu/vinom-maze/service/i"
)

const tokenTTL = 24 * time.Hour

type Auth struct {
	playerRepo i.PlayerRepo
	tokenizer  i.Tokenizer
}

var _ i.Authenticator = &Auth{}

func NewAuthService(repo i.PlayerRepo, tokenizer i.Tokenizer) (*Auth, error) {
	if repo == nil || tokenizer == nil {
		return nil, errors.New("auth service needs a player repo and a tokenizer")
	}
	return &Auth{playerRepo: repo, tokenizer: tokenizer}, nil
}

func (a *Auth) Register(username, password string) (*identity.Player, error) {
	player, err := identity.NewPlayer(identity.PlayerConfig{
		Username:      username,
		PlainPassword: password,
	})
	if err != nil {
		return nil, err
	}

	if err := a.playerRepo.Save(player); err != nil {
		return nil, err
	}
	return player, nil
}

func (a *Auth) SignIn(username, password string) (*identity.Player, string, error) {
	player, err := a.playerRepo.ByUsername(username)
	if err != nil {
		return nil, "", identity.ErrInvalidCredential
	}

	if !player.VerifyPassword(password) {
		return nil, "", identity.ErrInvalidCredential
	}

	token, err := a.tokenizer.Generate(i.Claims{
		"playerID": player.ID.String(),
		"username": player.Username,
	}, tokenTTL)
	if err != nil {
		return nil, "", err
	}
	return player, token, nil
}
