/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package agents

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/Seednode/codenames/games"
)

// ClueGiver picks a random vocabulary word that is not on the board, and a
// random count no larger than its team's hand.
type ClueGiver struct {
	Vocabulary []string
	Rand       *rand.Rand
	Logf       func(format string, args ...any)
}

// Run plays until the referee closes r.
func (a *ClueGiver) Run(r io.Reader, w io.Writer) error {
	logf := a.Logf
	if logf == nil {
		logf = nopLogf
	}

	if len(a.Vocabulary) == 0 {
		return errors.New("clue-giver needs a vocabulary")
	}

	in := newLineReader(r)

	var groups [4]string
	for i := range groups {
		line, err := in.next()
		if err != nil {
			return fmt.Errorf("read board: %w", err)
		}
		groups[i] = line
	}

	mine := strings.Fields(groups[0])
	board := make(map[string]struct{})
	for _, g := range groups {
		for _, w := range strings.Fields(g) {
			board[w] = struct{}{}
		}
	}

	logf("AGENT: clue-giver holds %d cards, assassin is %q", len(mine), groups[3])

	for {
		cmd, err := in.next()
		if err != nil {
			return closed(err)
		}

		switch cmd {
		case games.CmdProduceClue:
			clue := a.pick(board)
			count := 1 + a.Rand.IntN(max(len(mine), 1))
			if err := writeLine(w, "%s %d", clue, count); err != nil {
				return err
			}
		case games.CmdOpponentClue:
			line, err := in.next()
			if err != nil {
				return closed(err)
			}
			logf("AGENT: opponent gave clue %q", line)
		default:
			return fmt.Errorf("unexpected command %q", cmd)
		}
	}
}

func (a *ClueGiver) pick(board map[string]struct{}) string {
	var word string
	for range 32 {
		word = a.Vocabulary[a.Rand.IntN(len(a.Vocabulary))]
		if _, onBoard := board[word]; !onBoard {
			return word
		}
	}
	return word
}
