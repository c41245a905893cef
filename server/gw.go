package server

import (
	"context"
	"errors"
	"io"

	"github.com/undeconstructed/liarsdice/comms"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// downBuffer is how far a client may fall behind before it's hung up on.
const downBuffer = 256

// lineConn is one connection as a gateway sees it, whatever carries the lines.
type lineConn interface {
	ReadLine(ctx context.Context) (string, error)
	Send(ctx context.Context, msg comms.Message) error
	Close() error
}

func newClient(log zerolog.Logger, addr string) *clientBundle {
	id := uuid.NewString()
	return &clientBundle{
		id:     id,
		addr:   addr,
		downCh: make(chan comms.Message, downBuffer),
		log:    log.With().Str("client", addr).Str("conn", id).Logger(),
	}
}

// serveConn joins a connection to the core and pumps lines both ways until
// either side gives up. It returns when reading stops.
func (s *Server) serveConn(ctx context.Context, c *clientBundle, lc lineConn) {
	log := c.log
	log.Info().Msg("connecting")

	if !s.submit(ctx, connectMsg{Client: c}) {
		lc.Close()
		return
	}

	go func() {
		// read downCh, write to conn
		defer lc.Close()
		for {
			select {
			case msg, ok := <-c.downCh:
				if !ok {
					log.Debug().Msg("hanging up")
					return
				}
				if err := lc.Send(ctx, msg); err != nil {
					log.Info().Err(err).Msg("send error")
					return
				}
			case <-s.done:
				return
			}
		}
	}()

	for {
		// read conn, despatch into server
		line, err := lc.ReadLine(ctx)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Info().Err(err).Msg("read error")
			}
			break
		}
		if !s.submit(ctx, lineFromClient{ID: c.id, Line: line}) {
			break
		}
	}

	log.Info().Msg("disconnected")
	s.submit(ctx, disconnectMsg{ID: c.id})
}
