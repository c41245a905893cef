package server

import (
	"errors"
	"strings"

	"github.com/undeconstructed/liarsdice/comms"
	"github.com/undeconstructed/liarsdice/game"

	"github.com/rs/zerolog"
)

// dispatcher turns lines from connections into changes to the session, and
// changes into lines for connections. It owns one table at a time; once
// somebody wins everybody is hung up on and a fresh table is laid.
type dispatcher struct {
	handSize int
	roller   game.Roller

	session *game.Session
	reg     *registry
	// every live connection, registered or not
	conns map[string]*clientBundle

	games int
	log   zerolog.Logger
}

func newDispatcher(handSize int, roller game.Roller, log zerolog.Logger) *dispatcher {
	d := &dispatcher{
		handSize: handSize,
		roller:   roller,
		conns:    map[string]*clientBundle{},
		log:      log,
	}
	d.reset()
	return d
}

func (d *dispatcher) reset() {
	d.session = game.NewSession(d.handSize, d.roller)
	d.reg = newRegistry()
}

// lobbyOpen is whether new players can still sit down.
func (d *dispatcher) lobbyOpen() bool {
	return !d.session.Started()
}

func (d *dispatcher) table() TableState {
	t := TableState{
		Started:     d.session.Started(),
		Players:     d.session.PlayerStatus(),
		Connections: len(d.conns),
		GamesPlayed: d.games,
	}
	if t.Started {
		t.Turn = d.session.TurnPlayer()
	}
	if b, ok := d.session.Bid(); ok {
		t.Bid = &b
	}
	return t
}

func (d *dispatcher) connect(c *clientBundle) {
	if d.session.Started() {
		c.log.Info().Msg("game in progress, refusing")
		c.close()
		return
	}

	d.conns[c.id] = c
	deliver(c, comms.New(comms.Username, ""))
}

func (d *dispatcher) disconnect(id string) {
	c, ok := d.conns[id]
	if !ok {
		// refused, or left over from a finished game
		return
	}
	delete(d.conns, id)
	c.close()

	if c.name == "" {
		return
	}

	d.reg.remove(c.name)
	d.log.Info().Msgf("%s disconnected", c.name)

	seated := d.session.Has(c.name)
	if seated {
		if err := d.session.RemovePlayer(c.name); err != nil {
			d.log.Error().Err(err).Msgf("cannot remove %s", c.name)
		}
	}
	d.reg.broadcast(comms.New(comms.Left, c.name))

	if !seated {
		// was only watching
		return
	}

	if d.session.Started() {
		if d.checkWinner() {
			return
		}
		d.newRound()
		return
	}

	d.sendPlayerStatus()
	d.offerStart()
}

// closeAll hangs up on everyone.
func (d *dispatcher) closeAll() {
	for _, c := range d.conns {
		c.close()
	}
	d.conns = map[string]*clientBundle{}
}

func (d *dispatcher) receive(id, line string) {
	c, ok := d.conns[id]
	if !ok || c.closed {
		return
	}

	msg, err := comms.Parse(line)
	if err != nil {
		return
	}
	c.log.Debug().Msgf("received: %s", line)

	switch msg.Command {
	case comms.Username:
		d.receivedUsername(c, msg.Payload)
	case comms.Start:
		d.receivedStart(c)
	case comms.Chat:
		d.receivedChat(c, msg.Payload)
	case comms.Bet, comms.Liar, comms.SpotOn:
		// these can only be done by the turn player, anything else is lag or
		// confusion and is ignored
		if c.name == "" || !d.session.Started() || d.session.TurnPlayer() != c.name {
			c.log.Debug().Msgf("out of turn: %s", msg.Command)
			return
		}
		if msg.Command == comms.Bet {
			d.handleBet(c, msg.Payload)
		} else {
			d.handleChallenge(c, msg.Command)
		}
	default:
		c.log.Info().Msgf("junk from client: %s", msg.Command)
	}
}

func (d *dispatcher) receivedUsername(c *clientBundle, username string) {
	if c.name != "" {
		c.log.Debug().Msg("already has a name")
		return
	}
	if d.session.Started() {
		c.log.Info().Msg("too late to join, refusing")
		c.close()
		return
	}

	username = strings.TrimSpace(username)
	if !comms.ValidUsername(username) {
		c.log.Info().Msgf("refused username %q", username)
		deliver(c, comms.New(comms.Username, ""))
		return
	}
	if d.reg.has(username) {
		c.log.Info().Msgf("username %s already taken", username)
		deliver(c, comms.New(comms.Username, ""))
		return
	}
	if err := d.session.AddPlayer(username); err != nil {
		c.log.Info().Err(err).Msgf("cannot seat %s", username)
		deliver(c, comms.New(comms.Username, ""))
		return
	}

	c.name = username
	d.reg.add(username, c)
	d.log.Info().Msgf("%s joined the game", username)

	d.reg.broadcast(comms.New(comms.Joined, username))
	d.sendPlayerStatus()
	d.offerStart()
}

func (d *dispatcher) receivedStart(c *clientBundle) {
	if c.name == "" {
		return
	}

	players := d.session.Players()
	// only the first player can start, and not alone
	if d.session.Started() || len(players) < 2 || players[0] != c.name {
		d.log.Info().Msgf("%s cannot start the game now", c.name)
		return
	}

	d.log.Info().Msgf("game started on the request of %s", c.name)
	d.newRound()
}

func (d *dispatcher) receivedChat(c *clientBundle, text string) {
	if c.name == "" {
		return
	}
	if !comms.SingleLine(text) {
		c.log.Info().Msg("chat with line breaks, dropped")
		return
	}
	d.reg.broadcast(comms.New(comms.Chat, comms.FormatChat(c.name, text)))
}

func (d *dispatcher) handleBet(c *clientBundle, payload string) {
	bid, err := comms.ParseBid(payload)
	if err != nil {
		c.log.Info().Err(err).Msg("bad bet")
		d.reg.send(comms.New(comms.Play, ""), c.name)
		return
	}

	if err := d.session.HandleBid(bid.Face, bid.Count); err != nil {
		d.log.Info().Err(err).Msgf("%s bet %s, refused", c.name, comms.FormatBid(bid))
		d.reg.send(comms.New(comms.Play, ""), c.name)
		return
	}

	d.log.Info().Msgf("%s bet %s", c.name, comms.FormatBid(bid))
	d.reg.broadcast(comms.New(comms.Bet, comms.FormatBid(bid)))

	if err := d.session.NextTurn(); err != nil {
		d.log.Error().Err(err).Msg("cannot pass turn")
		return
	}
	d.announceTurn()
}

func (d *dispatcher) handleChallenge(c *clientBundle, cmd comms.Command) {
	var out game.Outcome
	var err error
	if cmd == comms.SpotOn {
		out, err = d.session.HandleSpotOn()
	} else {
		out, err = d.session.HandleLiar()
	}

	if errors.Is(err, game.ErrNoStandingBid) {
		// nothing to challenge, ask again
		d.reg.send(comms.New(comms.Play, ""), d.session.TurnPlayer())
		return
	}
	if err != nil {
		d.log.Error().Err(err).Msgf("cannot resolve %s", cmd)
		return
	}

	d.log.Info().Msgf("%s calls %s, %s loses a die", c.name, cmd, out.Loser)
	d.reg.broadcast(comms.New(cmd, ""))
	d.reg.broadcast(comms.New(comms.PlayerLostDie, out.Loser))

	if out.Eliminated {
		d.log.Info().Msgf("%s is eliminated", out.Loser)
		d.reg.broadcast(comms.New(comms.Eliminated, out.Loser))
	}

	if d.checkWinner() {
		return
	}
	d.newRound()
}

// checkWinner ends the game if it's over.
func (d *dispatcher) checkWinner() bool {
	winner, ok := d.session.Winner()
	if !ok {
		return false
	}

	d.log.Info().Msgf("%s wins", winner)
	d.reg.broadcast(comms.New(comms.Winner, winner))

	d.games++
	d.closeAll()
	d.reset()
	return true
}

func (d *dispatcher) newRound() {
	if err := d.session.NextRound(); err != nil {
		d.log.Error().Err(err).Msg("cannot start round")
		return
	}

	d.log.Info().Msg("new round")
	d.reg.broadcast(comms.New(comms.NextRound, ""))
	d.sendPlayerStatus()
	for _, h := range d.session.PlayerHands() {
		d.reg.send(comms.New(comms.Hand, comms.FormatHand(h.Faces)), h.Name)
	}
	d.announceTurn()
}

func (d *dispatcher) announceTurn() {
	player := d.session.TurnPlayer()
	d.log.Debug().Msgf("next turn: %s", player)
	d.reg.broadcast(comms.New(comms.NextTurn, player))
	d.reg.send(comms.New(comms.Play, ""), player)
}

func (d *dispatcher) sendPlayerStatus() {
	msg := comms.New(comms.PlayerStatus, comms.FormatPlayerStatus(d.session.PlayerStatus()))
	d.reg.broadcast(msg)
	d.log.Debug().Msgf("sent player status: %s", msg)
}

// offerStart tells the first player they may start, once there's company.
func (d *dispatcher) offerStart() {
	players := d.session.Players()
	if len(players) < 2 {
		return
	}
	d.reg.send(comms.New(comms.CanStart, ""), players[0])
}
