/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Seednode/codenames/games"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// run plays the configured games, with the spectator server alongside when
// a port is set.
func run(ctx context.Context, cfg *Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	matchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	group, groupCtx := errgroup.WithContext(matchCtx)

	var observer games.Observer
	if cfg.port != 0 {
		hub := newHub()
		observer = hub

		group.Go(func() error {
			return serveSpectators(groupCtx, cfg, hub)
		})
	}

	group.Go(func() error {
		defer cancel()

		if err := runMatch(groupCtx, cfg, observer, os.Stdout); err != nil {
			return err
		}

		if cfg.port != 0 && cfg.linger > 0 {
			logf(cfg, "SERVE: Lingering for %s", cfg.linger)
			select {
			case <-time.After(cfg.linger):
			case <-groupCtx.Done():
			}
		}

		return nil
	})

	return group.Wait()
}

// runMatch plays cfg.games games in a row and prints each result to out.
func runMatch(ctx context.Context, cfg *Config, observer games.Observer, out io.Writer) error {
	vocab, err := loadVocabulary(cfg)
	if err != nil {
		return err
	}

	seed := cfg.seed
	if seed == 0 {
		seed, err = newSeed()
		if err != nil {
			return err
		}
	}

	logf(cfg, "START: codenames v%s, seed %d", releaseVersion, seed)

	var wins [2]int

	for i := range cfg.games {
		rng := rand.New(rand.NewPCG(seed, uint64(i)))

		result, err := playGame(ctx, cfg, vocab, rng, observer)
		if err != nil {
			return fmt.Errorf("game %d: %w", i+1, err)
		}

		wins[result.Winner]++

		fmt.Fprintf(out, "game %d: %s team wins by %s after %d turns\n",
			i+1, result.Winner, result.Reason, result.Turns)
	}

	if cfg.games > 1 {
		fmt.Fprintf(out, "first %d, second %d\n", wins[games.First], wins[games.Second])
	}

	return nil
}

// playGame deals a board, spawns the four agents and referees the game.
// The deal happens first so a bad board never starts an agent.
func playGame(ctx context.Context, cfg *Config, vocab *games.Vocabulary, rng *rand.Rand, observer games.Observer) (games.Result, error) {
	state, err := games.NewGame(vocab, rng, cfg.params())
	if err != nil {
		return games.Result{}, err
	}

	gameID := uuid.NewString()

	var players [2]games.Players
	var procs []*games.ProcessChannel

	defer func() {
		for _, p := range procs {
			if err := p.Close(); err != nil {
				logf(cfg, "AGENT: [%s] %v", gameID, err)
			}
		}
	}()

	commands := cfg.agentCommands()

	for _, team := range []games.Team{games.First, games.Second} {
		clueGiver, err := games.StartProcess(commands[team][0], os.Stderr)
		if err != nil {
			return games.Result{}, fmt.Errorf("%s clue-giver: %w", team, err)
		}
		procs = append(procs, clueGiver)

		guesser, err := games.StartProcess(commands[team][1], os.Stderr)
		if err != nil {
			return games.Result{}, fmt.Errorf("%s guesser: %w", team, err)
		}
		procs = append(procs, guesser)

		players[team] = games.Players{
			ClueGiver: games.NewClueGiver(team, clueGiver),
			Guesser:   games.NewGuesser(team, guesser),
		}
	}

	logf(cfg, "GAMES: [%s] Started %d agents", gameID, len(procs))

	engine := games.NewEngine(state, vocab, players, games.Options{
		GameID:           gameID,
		TurnTimeout:      cfg.turnTimeout,
		MaxTurns:         cfg.maxTurns,
		UnlimitedGuesses: !cfg.enforceGuessLimit,
		Logf:             gameLogf(cfg),
		Observer:         observer,
	})

	return engine.Run(ctx)
}

func newSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return binary.LittleEndian.Uint64(b[:]), nil
}
