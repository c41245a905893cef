package client

import (
	"github.com/undeconstructed/liarsdice/game"
)

// Table is what a client knows of the game. Values handed to hooks are
// copies, so personas can keep them.
type Table struct {
	// Me is set once the server has accepted a name
	Me      string
	Hand    []int
	Players []game.PlayerStatus
	Turn    string
	Bid     *game.Bid
	Started bool
	Winner  string
}

// TotalDice is how many dice are on the table, by the last status.
func (t Table) TotalDice() int {
	n := 0
	for _, p := range t.Players {
		n += p.Dice
	}
	return n
}

// MyTurn is whether the server is waiting on us.
func (t Table) MyTurn() bool {
	return t.Me != "" && t.Turn == t.Me
}

// Count is how many dice in our own hand show face.
func (t Table) Count(face int) int {
	n := 0
	for _, f := range t.Hand {
		if f == face {
			n++
		}
	}
	return n
}

func (t Table) copy() Table {
	out := t
	out.Hand = append([]int(nil), t.Hand...)
	out.Players = append([]game.PlayerStatus(nil), t.Players...)
	if t.Bid != nil {
		b := *t.Bid
		out.Bid = &b
	}
	return out
}

func (t *Table) dropPlayer(name string) {
	out := t.Players[:0]
	for _, p := range t.Players {
		if p.Name != name {
			out = append(out, p)
		}
	}
	t.Players = out
}

func (t *Table) loseDie(name string) {
	for i := range t.Players {
		if t.Players[i].Name == name && t.Players[i].Dice > 0 {
			t.Players[i].Dice--
		}
	}
}

// Actions are what a persona can do. They're all safe to call from any
// goroutine, including from inside a hook.
type Actions interface {
	SendName(name string) error
	SendStart() error
	SendBet(b game.Bid) error
	SendLiar() error
	SendSpotOn() error
	SendChat(text string) error
	Close() error
}

// Player is a persona, whether a person or not. Hooks are called one at a
// time, in the order the server sent things, after the table is updated.
type Player interface {
	// NameRequest means the server wants a username, again if the last was
	// refused.
	NameRequest(a Actions, t Table)
	// PlayRequest means it's our go: bet, liar or spot on.
	PlayRequest(a Actions, t Table)
	// CanStart means we may start the game.
	CanStart(a Actions, t Table)

	Hand(t Table)
	PlayerStatus(t Table)
	NextTurn(t Table)
	Bet(t Table, b game.Bid)
	Liar(t Table)
	SpotOn(t Table)
	PlayerLostDie(t Table, name string)
	Eliminated(t Table, name string)
	Joined(t Table, name string)
	Left(t Table, name string)
	NewRound(t Table)
	Winner(t Table, name string)
	Chat(t Table, who, text string)
}

// Base does nothing, for embedding in personas that only care about a few
// things.
type Base struct{}

func (Base) NameRequest(a Actions, t Table)     {}
func (Base) PlayRequest(a Actions, t Table)     {}
func (Base) CanStart(a Actions, t Table)        {}
func (Base) Hand(t Table)                       {}
func (Base) PlayerStatus(t Table)               {}
func (Base) NextTurn(t Table)                   {}
func (Base) Bet(t Table, b game.Bid)            {}
func (Base) Liar(t Table)                       {}
func (Base) SpotOn(t Table)                     {}
func (Base) PlayerLostDie(t Table, name string) {}
func (Base) Eliminated(t Table, name string)    {}
func (Base) Joined(t Table, name string)        {}
func (Base) Left(t Table, name string)          {}
func (Base) NewRound(t Table)                   {}
func (Base) Winner(t Table, name string)        {}
func (Base) Chat(t Table, who, text string)     {}
