package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/undeconstructed/liarsdice/comms"
	"github.com/undeconstructed/liarsdice/game"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Client is one connection to a server, driving one persona.
type Client struct {
	conn   net.Conn
	up     *comms.Encoder
	down   *comms.Decoder
	player Player
	log    zerolog.Logger
	closed atomic.Bool

	// guards table and pending
	mu      sync.Mutex
	table   Table
	pending string
}

// Dial connects to a server at addr.
func Dial(ctx context.Context, addr string, p Player) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return New(conn, p), nil
}

// New wraps an existing connection.
func New(conn net.Conn, p Player) *Client {
	return &Client{
		conn:   conn,
		up:     comms.NewEncoder(conn),
		down:   comms.NewDecoder(conn),
		player: p,
		log:    log.With().Str("c", "client").Str("server", conn.RemoteAddr().String()).Logger(),
	}
}

// Run reads from the server until it hangs up, which is the normal end of a
// game, or ctx is done.
func (c *Client) Run(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			c.conn.Close()
		case <-stop:
		}
	}()
	defer c.conn.Close()

	// this is the client's main loop
	for {
		msg, err := c.down.Decode()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) || c.closed.Load() {
				return nil
			}
			return err
		}
		c.log.Debug().Msgf("received: %s", msg)
		c.handle(msg)
	}
}

// Table is a copy of what we know now.
func (c *Client) Table() Table {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.table.copy()
}

// update changes the table and returns a copy to hand to a hook.
func (c *Client) update(f func(t *Table)) Table {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f != nil {
		f(&c.table)
	}
	return c.table.copy()
}

func (c *Client) handle(msg comms.Message) {
	p := c.player
	switch msg.Command {
	case comms.Username:
		p.NameRequest(c, c.update(nil))
	case comms.Play:
		p.PlayRequest(c, c.update(nil))
	case comms.CanStart:
		p.CanStart(c, c.update(nil))
	case comms.Joined:
		name := msg.Payload
		t := c.update(func(t *Table) {
			if t.Me == "" && name == c.pending {
				t.Me = name
			}
		})
		p.Joined(t, name)
	case comms.Left:
		name := msg.Payload
		p.Left(c.update(func(t *Table) { t.dropPlayer(name) }), name)
	case comms.PlayerStatus:
		st, err := comms.ParsePlayerStatus(msg.Payload)
		if err != nil {
			c.log.Info().Err(err).Msg("bad player status")
			return
		}
		p.PlayerStatus(c.update(func(t *Table) { t.Players = st }))
	case comms.Hand:
		faces, err := comms.ParseHand(msg.Payload)
		if err != nil {
			c.log.Info().Err(err).Msg("bad hand")
			return
		}
		p.Hand(c.update(func(t *Table) { t.Hand = faces }))
	case comms.NextRound:
		p.NewRound(c.update(func(t *Table) {
			t.Started = true
			t.Bid = nil
		}))
	case comms.NextTurn:
		name := msg.Payload
		p.NextTurn(c.update(func(t *Table) { t.Turn = name }))
	case comms.Bet:
		bid, err := comms.ParseBid(msg.Payload)
		if err != nil {
			c.log.Info().Err(err).Msg("bad bet")
			return
		}
		p.Bet(c.update(func(t *Table) { t.Bid = &bid }), bid)
	case comms.Liar:
		p.Liar(c.update(nil))
	case comms.SpotOn:
		p.SpotOn(c.update(nil))
	case comms.PlayerLostDie:
		name := msg.Payload
		p.PlayerLostDie(c.update(func(t *Table) { t.loseDie(name) }), name)
	case comms.Eliminated:
		name := msg.Payload
		p.Eliminated(c.update(func(t *Table) {
			t.dropPlayer(name)
			if name == t.Me {
				t.Hand = nil
			}
		}), name)
	case comms.Winner:
		name := msg.Payload
		p.Winner(c.update(func(t *Table) { t.Winner = name }), name)
	case comms.Chat:
		who, text, err := comms.ParseChat(msg.Payload)
		if err != nil {
			c.log.Info().Err(err).Msg("bad chat")
			return
		}
		p.Chat(c.update(nil), who, text)
	default:
		c.log.Info().Msgf("junk from server: %s", msg.Command)
	}
}

// SendName asks for a username. Colons can't be sent, so they're dropped.
// The name is ours once the server says it has joined.
func (c *Client) SendName(name string) error {
	name = comms.CleanUsername(name)
	c.mu.Lock()
	c.pending = name
	c.mu.Unlock()
	return c.up.Encode(comms.Username, name)
}

func (c *Client) SendStart() error {
	return c.up.Encode(comms.Start, "")
}

func (c *Client) SendBet(b game.Bid) error {
	return c.up.Encode(comms.Bet, comms.FormatBid(b))
}

func (c *Client) SendLiar() error {
	return c.up.Encode(comms.Liar, "")
}

func (c *Client) SendSpotOn() error {
	return c.up.Encode(comms.SpotOn, "")
}

// SendChat says something to the table. It has to fit on one line.
func (c *Client) SendChat(text string) error {
	if !comms.SingleLine(text) {
		return comms.ErrLineBreak
	}
	return c.up.Encode(comms.Chat, text)
}

// Close hangs up, which ends Run.
func (c *Client) Close() error {
	c.closed.Store(true)
	return c.conn.Close()
}
