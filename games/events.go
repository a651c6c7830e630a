/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

// EventKind names what happened in a game.
type EventKind string

const (
	EventGameStarted  EventKind = "game_started"
	EventClue         EventKind = "clue"
	EventClueRejected EventKind = "clue_rejected"
	EventGuess        EventKind = "guess"
	EventTurnEnded    EventKind = "turn_ended"
	EventGameOver     EventKind = "game_over"
)

// Event is published to observers for every ruling the engine makes.
type Event struct {
	Kind    EventKind  `json:"kind"`
	Game    string     `json:"game,omitempty"`
	Turn    int        `json:"turn"`
	Team    string     `json:"team,omitempty"`
	Clue    string     `json:"clue,omitempty"`
	Count   int        `json:"count,omitempty"`
	Guess   string     `json:"guess,omitempty"`
	Verdict Verdict    `json:"verdict,omitempty"`
	Reason  string     `json:"reason,omitempty"`
	Winner  string     `json:"winner,omitempty"`
	Board   *BoardView `json:"board,omitempty"`
}

// BoardView is the full, unhidden board as seen by spectators.
type BoardView struct {
	First    []string `json:"first"`
	Second   []string `json:"second"`
	Neutral  []string `json:"neutral"`
	Assassin string   `json:"assassin"`
}

func (s *State) View() *BoardView {
	return &BoardView{
		First:    s.Cards(First),
		Second:   s.Cards(Second),
		Neutral:  s.Neutral(),
		Assassin: s.assassin,
	}
}

type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) {
	f(e)
}
