/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Assassinated marks the ruling on a guess of the assassin. It ends the
// game and is never sent to an agent.
const Assassinated Verdict = "assassin"

// WinReason says how a game was decided.
type WinReason string

const (
	ReasonCardsExhausted WinReason = "cards-exhausted"
	ReasonAssassin       WinReason = "assassin"
)

type Result struct {
	Winner Team
	Reason WinReason
	Turns  int
}

// Ruling is the engine's decision on one guess.
type Ruling struct {
	Word    string
	Verdict Verdict
}

// TurnOutcome summarises a played turn.
type TurnOutcome struct {
	Turn         int
	Team         Team
	Clue         string
	Count        int
	ClueAccepted bool
	Forfeited    bool
	Reason       string
	Rulings      []Ruling
	Result       *Result
}

// Players are the two agents of one team.
type Players struct {
	ClueGiver *ClueGiver
	Guesser   *Guesser
}

type Options struct {
	// GameID tags events and log lines.
	GameID string

	// TurnTimeout bounds every agent read within a turn. Zero disables it.
	TurnTimeout time.Duration

	// MaxTurns stops a game that has not been decided. Zero disables it.
	MaxTurns int

	// UnlimitedGuesses lifts the count+1 cap on guesses per clue.
	UnlimitedGuesses bool

	Logf     func(format string, args ...any)
	Observer Observer
}

// Engine referees one game between two teams of agents.
type Engine struct {
	state   *State
	vocab   *Vocabulary
	players [2]Players
	opts    Options

	started bool
	turns   int
	result  *Result
}

func NewEngine(state *State, vocab *Vocabulary, players [2]Players, opts Options) *Engine {
	return &Engine{
		state:   state,
		vocab:   vocab,
		players: players,
		opts:    opts,
	}
}

func (e *Engine) State() *State {
	return e.state
}

// Result returns the outcome once the game is decided.
func (e *Engine) Result() (Result, bool) {
	if e.result == nil {
		return Result{}, false
	}
	return *e.result, true
}

func (e *Engine) logf(format string, args ...any) {
	if e.opts.Logf == nil {
		return
	}
	if e.opts.GameID != "" {
		format = "[%s] " + format
		args = append([]any{e.opts.GameID}, args...)
	}
	e.opts.Logf(format, args...)
}

func (e *Engine) emit(ev Event) {
	if e.opts.Observer == nil {
		return
	}
	ev.Game = e.opts.GameID
	if ev.Turn == 0 {
		ev.Turn = e.turns
	}
	e.opts.Observer.Observe(ev)
}

// Start hands every agent its opening view of the board.
func (e *Engine) Start(ctx context.Context) error {
	if e.started {
		return nil
	}

	for _, team := range []Team{First, Second} {
		p := e.players[team]

		err := p.ClueGiver.StartGame(ctx,
			e.state.Cards(team),
			e.state.Cards(team.Inactive()),
			e.state.Neutral(),
			e.state.Assassin(),
		)
		if err != nil {
			return fmt.Errorf("start %s clue-giver: %w", team, err)
		}

		if err := p.Guesser.StartGame(ctx, e.state.Remaining()); err != nil {
			return fmt.Errorf("start %s guesser: %w", team, err)
		}
	}

	e.started = true

	e.logf("GAMES: Dealt %d cards, %s team starts", len(e.state.Remaining()), e.state.ActiveTeam())
	e.emit(Event{Kind: EventGameStarted, Team: e.state.ActiveTeam().String(), Board: e.state.View()})

	return nil
}

// Run plays turns until a team wins.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	if err := e.Start(ctx); err != nil {
		return Result{}, err
	}

	for {
		if e.opts.MaxTurns > 0 && e.turns >= e.opts.MaxTurns {
			return Result{}, fmt.Errorf("%w: %d turns", ErrTurnLimit, e.turns)
		}

		out, err := e.PlayTurn(ctx)
		if err != nil {
			return Result{}, err
		}
		if out.Result != nil {
			return *out.Result, nil
		}
	}
}

// PlayTurn runs one clue and guessing round for the active team. A turn
// whose deadline expires is forfeited; any earlier rulings in it stand.
// Every verdict other than correct, invalid included, ends the round; the
// guesser does not get to retry.
func (e *Engine) PlayTurn(ctx context.Context) (TurnOutcome, error) {
	if e.result != nil {
		return TurnOutcome{}, ErrGameOver
	}
	if err := e.Start(ctx); err != nil {
		return TurnOutcome{}, err
	}

	e.turns++
	out := TurnOutcome{Turn: e.turns, Team: e.state.ActiveTeam()}

	turnCtx, cancel := e.deadline(ctx)
	err := e.playTurn(turnCtx, &out)
	cancel()

	switch {
	case err == nil:
	case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		out.Forfeited = true
		out.Reason = "turn timed out"
		e.logf("RULES: %s team forfeits turn %d: timed out after %s", out.Team, out.Turn, e.opts.TurnTimeout)
	default:
		return out, err
	}

	if out.Result != nil {
		e.result = out.Result
		e.logf("GAMES: %s team wins on turn %d (%s)", out.Result.Winner, out.Turn, out.Result.Reason)
		e.emit(Event{
			Kind:   EventGameOver,
			Team:   out.Team.String(),
			Winner: out.Result.Winner.String(),
			Reason: string(out.Result.Reason),
		})
		return out, nil
	}

	if err := e.notifyIdleTeam(ctx, out); err != nil {
		return out, err
	}

	e.state.SwitchTurn()
	e.emit(Event{Kind: EventTurnEnded, Team: out.Team.String(), Reason: out.Reason, Board: e.state.View()})

	return out, nil
}

func (e *Engine) deadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.opts.TurnTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.opts.TurnTimeout)
}

func (e *Engine) playTurn(ctx context.Context, out *TurnOutcome) error {
	team := out.Team
	p := e.players[team]

	clue, count, err := p.ClueGiver.ProduceClue(ctx)
	if err != nil {
		return err
	}
	out.Clue, out.Count = clue, count

	if reason := e.rejectClue(clue); reason != "" {
		out.Forfeited = true
		out.Reason = reason
		e.logf("RULES: %s team forfeits turn %d: %s", team, out.Turn, reason)
		e.emit(Event{Kind: EventClueRejected, Team: team.String(), Clue: clue, Count: count, Reason: reason})
		return nil
	}

	out.ClueAccepted = true
	e.logf("GAMES: %s team clue %q for %d", team, clue, count)
	e.emit(Event{Kind: EventClue, Team: team.String(), Clue: clue, Count: count})

	round, err := p.Guesser.Guess(ctx, clue, count)
	if err != nil {
		return err
	}

	for {
		word, ok, err := round.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		var v Verdict
		// count+1 guesses are allowed; count may be as large as MaxInt
		if !e.opts.UnlimitedGuesses && round.Guesses()-1 > count {
			v = Invalid
			e.logf("RULES: %s team guess %q exceeds the limit of %d+1", team, word, count)
		} else {
			v, out.Result = e.rule(team, word)
		}

		out.Rulings = append(out.Rulings, Ruling{Word: word, Verdict: v})
		e.emit(Event{Kind: EventGuess, Team: team.String(), Clue: clue, Count: count, Guess: word, Verdict: v})

		if out.Result != nil {
			out.Result.Turns = out.Turn
			return nil
		}

		if err := round.Rule(ctx, v); err != nil {
			return err
		}
		if v != Correct {
			return nil
		}
	}
}

// rejectClue returns why clue forfeits the turn, or "" if it stands.
func (e *Engine) rejectClue(clue string) string {
	if !e.vocab.Contains(clue) {
		return fmt.Sprintf("clue %q is not a known word", clue)
	}
	if e.state.Contains(clue) {
		return fmt.Sprintf("clue %q is a card in play", clue)
	}
	return ""
}

// rule classifies a guess by team against the board and applies it.
func (e *Engine) rule(team Team, word string) (Verdict, *Result) {
	other := team.Inactive()

	switch e.state.Reveal(word) {
	case OwnerNone:
		e.logf("RULES: %s team guessed %q, which is not in play", team, word)
		return Invalid, nil
	case ownerOf(team):
		if e.state.CardsLeft(team) == 0 {
			return Correct, &Result{Winner: team, Reason: ReasonCardsExhausted}
		}
		return Correct, nil
	case ownerOf(other):
		if e.state.CardsLeft(other) == 0 {
			return Opponent, &Result{Winner: other, Reason: ReasonCardsExhausted}
		}
		return Opponent, nil
	case OwnerNeutral:
		return Neutral, nil
	default:
		return Assassinated, &Result{Winner: other, Reason: ReasonAssassin}
	}
}

// notifyIdleTeam tells the team that sat out this turn what happened. It
// gets the accepted clue and every guess that took a card off the board.
func (e *Engine) notifyIdleTeam(ctx context.Context, out TurnOutcome) error {
	if !out.ClueAccepted {
		return nil
	}

	ctx, cancel := e.deadline(ctx)
	defer cancel()

	idle := e.players[out.Team.Inactive()]

	err := idle.ClueGiver.OpponentClue(ctx, out.Clue, out.Count)
	if err == nil {
		err = idle.Guesser.OpponentClue(ctx, out.Clue, out.Count)
	}
	for _, r := range out.Rulings {
		if err != nil {
			break
		}
		if r.Verdict == Invalid {
			continue
		}
		err = idle.Guesser.OpponentGuess(ctx, r.Word, r.Verdict)
	}

	if err != nil && isContextErr(ctx, err) && errors.Is(err, context.DeadlineExceeded) {
		e.logf("AGENT: %s team missed turn %d updates: %v", out.Team.Inactive(), out.Turn, err)
		return nil
	}

	return err
}
