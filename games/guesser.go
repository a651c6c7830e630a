/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Guesser drives the guesser side of the protocol for one team.
type Guesser struct {
	ch   Channel
	team Team

	// set when a round was abandoned at a deadline; the agent still owes
	// one guess or *done*
	orphaned bool
}

func NewGuesser(team Team, ch Channel) *Guesser {
	return &Guesser{ch: ch, team: team}
}

// StartGame sends every card in play, sorted, with ownership withheld.
func (g *Guesser) StartGame(ctx context.Context, remaining []string) error {
	return g.send(ctx, joinSorted(remaining))
}

// Guess opens a guessing round for clue. The caller alternates Next and
// Rule until Next reports the agent is done or a non-correct verdict closes
// the round.
func (g *Guesser) Guess(ctx context.Context, clue string, count int) (*GuessRound, error) {
	if err := g.settle(ctx); err != nil {
		return nil, err
	}

	if err := g.sendMessage(ctx, CmdProduceGuess, formatClue(clue, count)); err != nil {
		return nil, err
	}

	return &GuessRound{g: g}, nil
}

// OpponentClue relays the other team's clue.
func (g *Guesser) OpponentClue(ctx context.Context, clue string, count int) error {
	if err := g.settle(ctx); err != nil {
		return err
	}
	return g.sendMessage(ctx, CmdOpponentClue, formatClue(clue, count))
}

// OpponentGuess relays one of the other team's guesses and its verdict.
func (g *Guesser) OpponentGuess(ctx context.Context, word string, v Verdict) error {
	if err := g.settle(ctx); err != nil {
		return err
	}
	return g.sendMessage(ctx, CmdOpponentGuess, word+" "+string(v))
}

// settle collects the line owed by an abandoned round. A late guess is
// answered with invalid, which ends the agent's round without touching the
// board.
func (g *Guesser) settle(ctx context.Context) error {
	if !g.orphaned {
		return nil
	}

	line, err := g.ch.ReadLine(ctx)
	if err != nil {
		if isContextErr(ctx, err) {
			return err
		}
		return g.protocolErr("", err)
	}

	g.orphaned = false

	if line == DoneSentinel {
		return nil
	}
	if _, err := parseGuess(line); err != nil {
		return g.protocolErr(line, err)
	}

	return g.send(context.WithoutCancel(ctx), string(Invalid))
}

// sendMessage sends a command and its argument line as one unit; see
// ClueGiver.sendMessage.
func (g *Guesser) sendMessage(ctx context.Context, cmd, arg string) error {
	if err := g.send(ctx, cmd); err != nil {
		return err
	}
	return g.send(context.WithoutCancel(ctx), arg)
}

func (g *Guesser) send(ctx context.Context, line string) error {
	if err := g.ch.SendLine(ctx, line); err != nil {
		if isContextErr(ctx, err) {
			return err
		}
		return g.protocolErr("", err)
	}
	return nil
}

func (g *Guesser) protocolErr(line string, err error) error {
	return &ProtocolError{Team: g.team, Role: RoleGuesser, Line: line, Err: err}
}

func parseGuess(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) != 1 {
		return "", fmt.Errorf("want a single word, got %d fields", len(fields))
	}
	return fields[0], nil
}

type roundState int

const (
	awaitingGuess roundState = iota
	awaitingVerdict
	roundClosed
)

func (s roundState) String() string {
	switch s {
	case awaitingGuess:
		return "awaiting guess"
	case awaitingVerdict:
		return "awaiting verdict"
	default:
		return "closed"
	}
}

var errRoundState = errors.New("guess round out of order")

// GuessRound is one interactive exchange with a guesser: the agent offers a
// word, the referee rules on it, and so on until the round closes.
type GuessRound struct {
	g       *Guesser
	state   roundState
	pending string
	guesses int
}

// Next reads the agent's next guess. ok is false once the agent sends
// *done*, or if the round is already closed.
func (r *GuessRound) Next(ctx context.Context) (word string, ok bool, err error) {
	switch r.state {
	case roundClosed:
		return "", false, nil
	case awaitingVerdict:
		return "", false, fmt.Errorf("%w: %q has no verdict yet", errRoundState, r.pending)
	}

	line, err := r.g.ch.ReadLine(ctx)
	if err != nil {
		r.state = roundClosed
		if isContextErr(ctx, err) {
			r.g.orphaned = true
			return "", false, err
		}
		return "", false, r.g.protocolErr("", err)
	}

	if line == DoneSentinel {
		r.state = roundClosed
		return "", false, nil
	}

	word, err = parseGuess(line)
	if err != nil {
		r.state = roundClosed
		return "", false, r.g.protocolErr(line, err)
	}

	r.pending = word
	r.state = awaitingVerdict
	r.guesses++

	return word, true, nil
}

// Rule sends the verdict on the pending guess. Anything other than correct
// closes the round. The verdict is delivered even if ctx has expired, since
// the agent is blocked waiting for it.
func (r *GuessRound) Rule(ctx context.Context, v Verdict) error {
	if r.state != awaitingVerdict {
		return fmt.Errorf("%w: no pending guess (%s)", errRoundState, r.state)
	}
	if _, ok := ParseVerdict(string(v)); !ok {
		return fmt.Errorf("unknown verdict %q", v)
	}

	if err := r.g.send(context.WithoutCancel(ctx), string(v)); err != nil {
		r.state = roundClosed
		return err
	}

	r.pending = ""
	if v == Correct {
		r.state = awaitingGuess
	} else {
		r.state = roundClosed
	}

	return nil
}

// Guesses is the number of words the agent has offered this round.
func (r *GuessRound) Guesses() int {
	return r.guesses
}

func (r *GuessRound) Closed() bool {
	return r.state == roundClosed
}
