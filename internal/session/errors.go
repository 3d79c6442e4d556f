package session

import "errors"

var (
	ErrNotInGame       = errors.New("session: user is not in a game")
	ErrAlreadyInGame   = errors.New("session: user is already in a game")
	ErrUnknownGameCode = errors.New("session: no live game with that code")
)
