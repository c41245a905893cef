package server

import (
	"github.com/undeconstructed/liarsdice/comms"
	"github.com/undeconstructed/liarsdice/game"

	"github.com/rs/zerolog"
)

// TableState is what anyone may see of the table.
type TableState struct {
	Started     bool                `json:"started"`
	Players     []game.PlayerStatus `json:"players"`
	Turn        string              `json:"turn,omitempty"`
	Bid         *game.Bid           `json:"bid,omitempty"`
	Connections int                 `json:"connections"`
	GamesPlayed int                 `json:"games_played"`
}

type connectMsg struct {
	Client *clientBundle
}

type disconnectMsg struct {
	ID string
}

type lineFromClient struct {
	ID   string
	Line string
}

type queryTableMsg struct {
	Rep chan TableState
}

// clientBundle is the core's handle on one connection. id, log and downCh are
// fixed at creation, everything else belongs to the core loop.
type clientBundle struct {
	id     string
	addr   string
	downCh chan comms.Message
	log    zerolog.Logger

	// name is set once registered
	name   string
	closed bool
}

// close stops the writer, which hangs up the connection.
func (c *clientBundle) close() {
	if c.closed {
		return
	}
	c.closed = true
	close(c.downCh)
}
