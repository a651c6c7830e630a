/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

// Team is one of the two sides of a game.
type Team int

const (
	First Team = iota
	Second
)

// Inactive returns the other team.
func (t Team) Inactive() Team {
	if t == First {
		return Second
	}
	return First
}

func (t Team) String() string {
	switch t {
	case First:
		return "first"
	case Second:
		return "second"
	default:
		return "unknown"
	}
}

// Owner describes which group a revealed card belonged to.
type Owner int

const (
	OwnerNone Owner = iota
	OwnerFirst
	OwnerSecond
	OwnerNeutral
	OwnerAssassin
)

func ownerOf(t Team) Owner {
	if t == First {
		return OwnerFirst
	}
	return OwnerSecond
}

// Verdict is the referee's ruling on a single guess.
type Verdict string

const (
	Correct  Verdict = "correct"
	Opponent Verdict = "opponent"
	Neutral  Verdict = "neutral"
	Invalid  Verdict = "invalid"
)

// ParseVerdict accepts exactly one of the four protocol tokens.
func ParseVerdict(s string) (Verdict, bool) {
	switch v := Verdict(s); v {
	case Correct, Opponent, Neutral, Invalid:
		return v, true
	default:
		return "", false
	}
}

// Protocol tokens exchanged with agent processes.
const (
	CmdProduceClue   = "produce-clue"
	CmdProduceGuess  = "produce-guess"
	CmdOpponentClue  = "opponent-clue"
	CmdOpponentGuess = "opponent-guess"
	DoneSentinel     = "*done*"
)
