/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"errors"
	"fmt"
)

var (
	ErrVocabularyTooSmall = errors.New("vocabulary too small")
	ErrInvalidParams      = errors.New("invalid game parameters")
	ErrInvalidBoard       = errors.New("invalid board")
	ErrProtocol           = errors.New("protocol violation")
	ErrTurnLimit          = errors.New("turn limit reached")
	ErrGameOver           = errors.New("game is already over")
)

// Role names the agent on the far side of a channel.
type Role string

const (
	RoleClueGiver Role = "clue-giver"
	RoleGuesser   Role = "guesser"
)

// ProtocolError is returned when an agent breaks the line protocol: it
// closed its pipe, or sent a line the referee cannot parse. It is fatal to
// the game.
type ProtocolError struct {
	Team Team
	Role Role
	Line string
	Err  error
}

func (e *ProtocolError) Error() string {
	if e.Line != "" {
		return fmt.Sprintf("%s %s: %v: %q", e.Team, e.Role, e.Err, e.Line)
	}
	return fmt.Sprintf("%s %s: %v", e.Team, e.Role, e.Err)
}

func (e *ProtocolError) Unwrap() []error {
	return []error{ErrProtocol, e.Err}
}
