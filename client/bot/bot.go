// Package bot is a persona that plays by itself. It plays plausibly, not well.
package bot

import (
	"strings"

	"github.com/undeconstructed/liarsdice/client"
	"github.com/undeconstructed/liarsdice/game"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Bot answers every request it gets straight away.
type Bot struct {
	client.Base

	name      string
	tries     int
	autoStart bool
	roller    game.Roller
	log       zerolog.Logger
}

// New makes a bot that asks to be called name. If autoStart is set it starts
// the game as soon as it's allowed to.
func New(name string, autoStart bool, r game.Roller) *Bot {
	if r == nil {
		r = game.NewRoller(0)
	}
	return &Bot{
		name:      name,
		autoStart: autoStart,
		roller:    r,
		log:       log.With().Str("bot", name).Logger(),
	}
}

// NameRequest tries the name, then the name with more and more underscores.
func (b *Bot) NameRequest(a client.Actions, t client.Table) {
	name := b.name + strings.Repeat("_", b.tries)
	b.tries++
	b.log.Debug().Msgf("asking for %s", name)
	a.SendName(name)
}

func (b *Bot) CanStart(a client.Actions, t client.Table) {
	if b.autoStart {
		b.log.Debug().Msg("starting")
		a.SendStart()
	}
}

func (b *Bot) PlayRequest(a client.Actions, t client.Table) {
	m := decide(t, b.roller)
	switch {
	case m.liar:
		b.log.Debug().Msg("calling liar")
		a.SendLiar()
	case m.spotOn:
		b.log.Debug().Msg("calling spot on")
		a.SendSpotOn()
	default:
		b.log.Debug().Msgf("bidding %d,%d", m.bid.Face, m.bid.Count)
		a.SendBet(m.bid)
	}
}

func (b *Bot) Winner(t client.Table, name string) {
	if name == t.Me {
		b.log.Info().Msg("won")
	}
}

type move struct {
	bid    game.Bid
	liar   bool
	spotOn bool
}

// expected is how many dice are likely to show face: what we hold, plus a
// sixth of what we can't see.
func expected(t client.Table, face int) float64 {
	unseen := t.TotalDice() - len(t.Hand)
	if unseen < 0 {
		unseen = 0
	}
	return float64(t.Count(face)) + float64(unseen)/game.Faces
}

// decide picks a move. Any bid it returns beats the standing one.
func decide(t client.Table, r game.Roller) move {
	if t.Bid == nil {
		return move{bid: opening(t, r)}
	}
	old := *t.Bid

	// more than there are can never be right
	if old.Count > t.TotalDice() {
		return move{liar: true}
	}

	exp := expected(t, old.Face)
	if old.Count > int(exp)+1 {
		return move{liar: true}
	}
	if old.Count == int(exp) && r.Intn(4) == 0 {
		return move{spotOn: true}
	}

	// cheapest raise for each face, keep the most believable
	best := game.Bid{}
	bestMargin := 0.0
	for f := 1; f <= game.Faces; f++ {
		c := old.Count + 1
		if f > old.Face {
			c = old.Count
		}
		margin := expected(t, f) - float64(c)
		if best.Face == 0 || margin > bestMargin {
			best = game.Bid{Face: f, Count: c}
			bestMargin = margin
		}
	}

	if bestMargin < -1 {
		return move{liar: true}
	}
	return move{bid: best}
}

// opening bids on what we have most of, a little under what's likely.
func opening(t client.Table, r game.Roller) game.Bid {
	face := 1 + r.Intn(game.Faces)
	for f := 1; f <= game.Faces; f++ {
		if t.Count(f) > t.Count(face) {
			face = f
		}
	}
	count := int(expected(t, face))
	if count < 1 {
		count = 1
	}
	return game.Bid{Face: face, Count: count}
}
