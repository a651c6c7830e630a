/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ClueGiver drives the clue-giver side of the protocol for one team.
type ClueGiver struct {
	ch   Channel
	team Team

	// replies the agent still owes from reads abandoned at a deadline
	owed int
}

func NewClueGiver(team Team, ch Channel) *ClueGiver {
	return &ClueGiver{ch: ch, team: team}
}

// StartGame sends the four card groups, each sorted, once per game.
func (g *ClueGiver) StartGame(ctx context.Context, mine, theirs, neutral []string, assassin string) error {
	lines := []string{
		joinSorted(mine),
		joinSorted(theirs),
		joinSorted(neutral),
		assassin,
	}

	for _, line := range lines {
		if err := g.send(ctx, line); err != nil {
			return err
		}
	}

	return nil
}

// ProduceClue asks the agent for a clue. The clue is returned unvalidated;
// only its shape (a word and a positive count) is checked here.
func (g *ClueGiver) ProduceClue(ctx context.Context) (string, int, error) {
	if err := g.settle(ctx); err != nil {
		return "", 0, err
	}

	if err := g.send(ctx, CmdProduceClue); err != nil {
		return "", 0, err
	}

	line, err := g.ch.ReadLine(ctx)
	if err != nil {
		if isContextErr(ctx, err) {
			g.owed++
			return "", 0, err
		}
		return "", 0, g.protocolErr("", err)
	}

	clue, count, err := parseClue(line)
	if err != nil {
		return "", 0, g.protocolErr(line, err)
	}

	return clue, count, nil
}

// OpponentClue tells the agent what the other team's clue-giver said.
func (g *ClueGiver) OpponentClue(ctx context.Context, clue string, count int) error {
	return g.sendMessage(ctx, CmdOpponentClue, formatClue(clue, count))
}

// settle discards replies to abandoned requests so the next read lines up
// with the next request.
func (g *ClueGiver) settle(ctx context.Context) error {
	for g.owed > 0 {
		if _, err := g.ch.ReadLine(ctx); err != nil {
			if isContextErr(ctx, err) {
				return err
			}
			return g.protocolErr("", err)
		}
		g.owed--
	}

	return nil
}

// sendMessage sends a command and its argument line. Once the command is
// out the argument follows it, even if ctx expires in between.
func (g *ClueGiver) sendMessage(ctx context.Context, cmd, arg string) error {
	if err := g.send(ctx, cmd); err != nil {
		return err
	}
	return g.send(context.WithoutCancel(ctx), arg)
}

func (g *ClueGiver) send(ctx context.Context, line string) error {
	if err := g.ch.SendLine(ctx, line); err != nil {
		if isContextErr(ctx, err) {
			return err
		}
		return g.protocolErr("", err)
	}
	return nil
}

func (g *ClueGiver) protocolErr(line string, err error) error {
	return &ProtocolError{Team: g.team, Role: RoleClueGiver, Line: line, Err: err}
}

func parseClue(line string) (string, int, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return "", 0, fmt.Errorf("want \"<word> <count>\", got %d fields", len(fields))
	}

	count, err := strconv.Atoi(fields[1])
	if err != nil {
		return "", 0, fmt.Errorf("bad count: %w", err)
	}
	if count < 1 {
		return "", 0, fmt.Errorf("count must be positive, got %d", count)
	}

	return fields[0], count, nil
}

func formatClue(clue string, count int) string {
	return clue + " " + strconv.Itoa(count)
}

func joinSorted(words []string) string {
	sorted := slices.Clone(words)
	slices.Sort(sorted)
	return strings.Join(sorted, " ")
}

// isContextErr reports whether err came from ctx being done rather than
// from the agent.
func isContextErr(ctx context.Context, err error) bool {
	return ctx.Err() != nil && (errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled))
}
