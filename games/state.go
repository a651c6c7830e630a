/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
)

const (
	DefaultTotalCards = 25
	DefaultTeamCards  = 8
)

// Params sizes a board. The starting team is dealt TeamCards+1 cards.
type Params struct {
	TotalCards int
	TeamCards  int
}

func DefaultParams() Params {
	return Params{TotalCards: DefaultTotalCards, TeamCards: DefaultTeamCards}
}

func (p Params) Validate() error {
	if p.TeamCards < 1 {
		return fmt.Errorf("%w: team cards must be at least 1, got %d", ErrInvalidParams, p.TeamCards)
	}
	if p.TotalCards < 2*p.TeamCards+2 {
		return fmt.Errorf("%w: %d total cards cannot hold %d+%d team cards and an assassin",
			ErrInvalidParams, p.TotalCards, p.TeamCards+1, p.TeamCards)
	}
	return nil
}

type cardSet map[string]struct{}

func newCardSet(words []string) cardSet {
	s := make(cardSet, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

func (s cardSet) has(w string) bool {
	_, ok := s[w]
	return ok
}

func (s cardSet) sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// State is the authoritative record of a single game. Only the Engine
// mutates it.
type State struct {
	teams    [2]cardSet
	neutral  cardSet
	assassin string
	active   Team
}

// NewGame deals a fresh board from vocab using rng. The deal is a pure
// function of rng's sequence.
func NewGame(vocab *Vocabulary, rng *rand.Rand, p Params) (*State, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if vocab.Len() < p.TotalCards {
		return nil, fmt.Errorf("%w: need %d distinct words, have %d",
			ErrVocabularyTooSmall, p.TotalCards, vocab.Len())
	}

	all := sample(rng, vocab.words, p.TotalCards)

	first := sample(rng, all, p.TeamCards+1)
	all = without(all, first)

	second := sample(rng, all, p.TeamCards)
	all = without(all, second)

	assassin := sample(rng, all, 1)
	all = without(all, assassin)

	return &State{
		teams:    [2]cardSet{newCardSet(first), newCardSet(second)},
		neutral:  newCardSet(all),
		assassin: assassin[0],
		active:   First,
	}, nil
}

// NewState builds a board from explicit card groups. The groups must be
// pairwise disjoint and both teams must hold at least one card.
func NewState(first, second, neutral []string, assassin string) (*State, error) {
	if len(first) == 0 || len(second) == 0 {
		return nil, fmt.Errorf("%w: both teams need at least one card", ErrInvalidBoard)
	}
	if assassin == "" {
		return nil, fmt.Errorf("%w: missing assassin", ErrInvalidBoard)
	}

	seen := map[string]struct{}{assassin: {}}
	for _, group := range [][]string{first, second, neutral} {
		for _, w := range group {
			if w == "" {
				return nil, fmt.Errorf("%w: empty card", ErrInvalidBoard)
			}
			if _, dup := seen[w]; dup {
				return nil, fmt.Errorf("%w: card %q dealt twice", ErrInvalidBoard, w)
			}
			seen[w] = struct{}{}
		}
	}

	return &State{
		teams:    [2]cardSet{newCardSet(first), newCardSet(second)},
		neutral:  newCardSet(neutral),
		assassin: assassin,
		active:   First,
	}, nil
}

// sample draws n distinct entries from words without replacement, leaving
// words untouched.
func sample(rng *rand.Rand, words []string, n int) []string {
	pool := slices.Clone(words)
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n:n]
}

func without(words, drop []string) []string {
	gone := newCardSet(drop)
	out := make([]string, 0, len(words)-len(drop))
	for _, w := range words {
		if !gone.has(w) {
			out = append(out, w)
		}
	}
	return out
}

func (s *State) ActiveTeam() Team {
	return s.active
}

// SwitchTurn hands the turn to the inactive team.
func (s *State) SwitchTurn() {
	s.active = s.active.Inactive()
}

// Cards returns the sorted cards team still holds.
func (s *State) Cards(t Team) []string {
	return s.teams[t].sorted()
}

func (s *State) CardsLeft(t Team) int {
	return len(s.teams[t])
}

func (s *State) Neutral() []string {
	return s.neutral.sorted()
}

func (s *State) Assassin() string {
	return s.assassin
}

// Contains reports whether word is still in play, the assassin included.
func (s *State) Contains(word string) bool {
	return s.ownerOf(word) != OwnerNone
}

// Remaining returns every card still in play, sorted.
func (s *State) Remaining() []string {
	out := make([]string, 0, len(s.teams[First])+len(s.teams[Second])+len(s.neutral)+1)
	out = append(out, s.Cards(First)...)
	out = append(out, s.Cards(Second)...)
	out = append(out, s.Neutral()...)
	out = append(out, s.assassin)
	slices.Sort(out)
	return out
}

func (s *State) ownerOf(word string) Owner {
	switch {
	case s.teams[First].has(word):
		return OwnerFirst
	case s.teams[Second].has(word):
		return OwnerSecond
	case s.neutral.has(word):
		return OwnerNeutral
	case word == s.assassin:
		return OwnerAssassin
	default:
		return OwnerNone
	}
}

// Reveal removes word from whichever group holds it and reports the group.
// The assassin stays on the board; revealing it ends the game anyway.
func (s *State) Reveal(word string) Owner {
	owner := s.ownerOf(word)

	switch owner {
	case OwnerFirst:
		delete(s.teams[First], word)
	case OwnerSecond:
		delete(s.teams[Second], word)
	case OwnerNeutral:
		delete(s.neutral, word)
	}

	return owner
}
