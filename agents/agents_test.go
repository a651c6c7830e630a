/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package agents

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/Seednode/codenames/games"
)

func script(lines ...string) io.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func outputLines(out *bytes.Buffer) []string {
	return strings.Fields(out.String())
}

func TestClueGiverAvoidsBoard(t *testing.T) {
	agent := &ClueGiver{
		Vocabulary: []string{"ocean", "tree", "apple"},
		Rand:       rand.New(rand.NewPCG(1, 2)),
	}

	in := script(
		"apple fig", "pear", "banana", "bomb",
		games.CmdProduceClue,
		games.CmdOpponentClue, "tree 2",
		games.CmdProduceClue,
	)

	var out bytes.Buffer
	if err := agent.Run(in, &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two clues, got %q", lines)
	}

	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			t.Fatalf("malformed clue %q", line)
		}
		if fields[0] == "apple" {
			t.Fatalf("clue %q is on the board", line)
		}
		count, err := strconv.Atoi(fields[1])
		if err != nil || count < 1 || count > 2 {
			t.Fatalf("count in %q is out of range", line)
		}
	}
}

func TestClueGiverErrors(t *testing.T) {
	tests := []struct {
		name  string
		vocab []string
		in    io.Reader
	}{
		{"no vocabulary", nil, script("a", "b", "c", "d")},
		{"short board", []string{"ocean"}, script("a", "b")},
		{"unknown command", []string{"ocean"}, script("a", "b", "c", "d", "produce-guess")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := &ClueGiver{Vocabulary: tt.vocab, Rand: rand.New(rand.NewPCG(1, 2))}
			if err := agent.Run(tt.in, io.Discard); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestGuesserStopsOnNonCorrect(t *testing.T) {
	agent := &Guesser{Rand: rand.New(rand.NewPCG(3, 4))}

	in := script(
		"apple banana fig pear",
		games.CmdProduceGuess, "fruit 3",
		"correct", "neutral",
	)

	var out bytes.Buffer
	if err := agent.Run(in, &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	lines := outputLines(&out)
	if len(lines) != 2 || slices.Contains(lines, games.DoneSentinel) {
		t.Fatalf("expected two guesses and no *done*, got %q", lines)
	}
	if lines[0] == lines[1] {
		t.Fatalf("guessed %q twice", lines[0])
	}
}

func TestGuesserSendsDoneAfterCount(t *testing.T) {
	agent := &Guesser{Rand: rand.New(rand.NewPCG(5, 6))}

	in := script(
		"apple pear",
		games.CmdOpponentClue, "tree 1",
		games.CmdOpponentGuess, "apple opponent",
		games.CmdProduceGuess, "fruit 1",
		"correct",
	)

	var out bytes.Buffer
	if err := agent.Run(in, &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []string{"pear", games.DoneSentinel}
	if got := outputLines(&out); !slices.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestGuesserExitsCleanlyMidRound(t *testing.T) {
	agent := &Guesser{Rand: rand.New(rand.NewPCG(7, 8))}

	in := script("apple pear", games.CmdProduceGuess, "fruit 2")

	if err := agent.Run(in, io.Discard); err != nil {
		t.Fatalf("expected a clean exit, got %v", err)
	}
}

func TestGuesserErrors(t *testing.T) {
	tests := []struct {
		name string
		in   io.Reader
	}{
		{"no board", strings.NewReader("")},
		{"malformed clue", script("apple", games.CmdProduceGuess, "fruit")},
		{"bad count", script("apple", games.CmdProduceGuess, "fruit two")},
		{"malformed opponent guess", script("apple", games.CmdOpponentGuess, "apple")},
		{"unknown command", script("apple", games.CmdProduceClue)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := &Guesser{Rand: rand.New(rand.NewPCG(1, 1))}
			if err := agent.Run(tt.in, io.Discard); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

// pipeAgent runs agent on a pair of pipes and returns the referee's end.
func pipeAgent(run func(io.Reader, io.Writer) error) (*games.LineChannel, <-chan error) {
	toAgent, fromReferee := io.Pipe()
	fromAgent, toReferee := io.Pipe()

	errs := make(chan error, 1)
	go func() {
		err := run(toAgent, toReferee)
		_ = toReferee.Close()
		errs <- err
	}()

	return games.NewLineChannel(fromAgent, fromReferee), errs
}

func TestReferencePlayersFinishGames(t *testing.T) {
	words := make([]string, 200)
	for i := range words {
		words[i] = fmt.Sprintf("word%03d", i)
	}
	vocab := games.NewVocabulary(words)

	for seed := range uint64(10) {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			state, err := games.NewGame(vocab, rand.New(rand.NewPCG(seed, 0)), games.DefaultParams())
			if err != nil {
				t.Fatalf("new game: %v", err)
			}

			var players [2]games.Players
			var channels []*games.LineChannel
			var agentErrs []<-chan error

			for _, team := range []games.Team{games.First, games.Second} {
				clueGiver := &ClueGiver{
					Vocabulary: vocab.Words(),
					Rand:       rand.New(rand.NewPCG(seed, uint64(team)+1)),
				}
				guesser := &Guesser{Rand: rand.New(rand.NewPCG(seed, uint64(team)+3))}

				cgChan, cgErrs := pipeAgent(clueGiver.Run)
				gChan, gErrs := pipeAgent(guesser.Run)

				channels = append(channels, cgChan, gChan)
				agentErrs = append(agentErrs, cgErrs, gErrs)

				players[team] = games.Players{
					ClueGiver: games.NewClueGiver(team, cgChan),
					Guesser:   games.NewGuesser(team, gChan),
				}
			}

			engine := games.NewEngine(state, vocab, players, games.Options{
				TurnTimeout: 5 * time.Second,
				MaxTurns:    500,
			})

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			result, err := engine.Run(ctx)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if result.Turns < 1 {
				t.Fatalf("result %+v", result)
			}

			for _, ch := range channels {
				_ = ch.Close()
			}
			for _, errs := range agentErrs {
				if err := <-errs; err != nil {
					t.Fatalf("agent: %v", err)
				}
			}
		})
	}
}
