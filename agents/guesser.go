/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package agents

import (
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	"github.com/Seednode/codenames/games"
)

// Guesser guesses uniformly among the cards it has not seen revealed. It
// stops a round at the first non-correct verdict, or sends *done* after
// count guesses.
type Guesser struct {
	Rand *rand.Rand
	Logf func(format string, args ...any)

	cards []string
}

func (a *Guesser) Run(r io.Reader, w io.Writer) error {
	logf := a.Logf
	if logf == nil {
		logf = nopLogf
	}

	in := newLineReader(r)

	line, err := in.next()
	if err != nil {
		return fmt.Errorf("read board: %w", err)
	}
	a.cards = strings.Fields(line)

	logf("AGENT: guesser sees %d cards", len(a.cards))

	for {
		cmd, err := in.next()
		if err != nil {
			return closed(err)
		}

		switch cmd {
		case games.CmdProduceGuess:
			line, err := in.next()
			if err != nil {
				return closed(err)
			}
			fields := strings.Fields(line)
			if len(fields) != 2 {
				return fmt.Errorf("malformed clue %q", line)
			}
			count, err := strconv.Atoi(fields[1])
			if err != nil {
				return fmt.Errorf("malformed clue %q: %w", line, err)
			}
			if err := a.round(in, w, count); err != nil {
				return closed(err)
			}
		case games.CmdOpponentClue:
			line, err := in.next()
			if err != nil {
				return closed(err)
			}
			logf("AGENT: opponent gave clue %q", line)
		case games.CmdOpponentGuess:
			line, err := in.next()
			if err != nil {
				return closed(err)
			}
			fields := strings.Fields(line)
			if len(fields) != 2 {
				return fmt.Errorf("malformed opponent guess %q", line)
			}
			a.forget(fields[0])
			logf("AGENT: opponent guessed %q which was %s", fields[0], fields[1])
		default:
			return fmt.Errorf("unexpected command %q", cmd)
		}
	}
}

func (a *Guesser) round(in *lineReader, w io.Writer, count int) error {
	for range count {
		if len(a.cards) == 0 {
			break
		}

		guess := a.cards[a.Rand.IntN(len(a.cards))]
		a.forget(guess)

		if err := writeLine(w, "%s", guess); err != nil {
			return err
		}

		verdict, err := in.next()
		if err != nil {
			return err
		}
		if verdict != string(games.Correct) {
			return nil
		}
	}

	return writeLine(w, "%s", games.DoneSentinel)
}

func (a *Guesser) forget(word string) {
	if i := slices.Index(a.cards, word); i >= 0 {
		a.cards = slices.Delete(a.cards, i, i+1)
	}
}
