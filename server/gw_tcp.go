package server

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/undeconstructed/liarsdice/comms"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// writeTimeout bounds a single send to a client that isn't reading.
const writeTimeout = 10 * time.Second

func runTcpGateway(ctx context.Context, server *Server, ln net.Listener) error {
	log := log.With().Str("gw", "tcp").Logger()

	log.Info().Msgf("comms listening on tcp:%v", ln.Addr())

	m := &tcpManager{
		server: server,
		log:    log,
	}
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	err := m.Serve(ctx, ln)
	if ctx.Err() == nil {
		// connections only end once the core goes, which needs this error
		// to reach the group first
		m.log.Info().Err(err).Msg("server return")
		return err
	}
	m.wg.Wait()
	return ctx.Err()
}

type tcpManager struct {
	server *Server
	log    zerolog.Logger
	wg     sync.WaitGroup
}

func (m *tcpManager) Serve(ctx context.Context, ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			return err
		}

		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			m.manageTcpConnection(ctx, conn)
		}()
	}
}

func (m *tcpManager) manageTcpConnection(ctx context.Context, conn net.Conn) {
	c := newClient(m.log, conn.RemoteAddr().String())
	m.server.serveConn(ctx, c, newTcpLineConn(conn))
}

// tcpLineConn is newline delimited text straight over the socket.
type tcpLineConn struct {
	conn net.Conn
	up   *comms.Decoder
	dn   *comms.Encoder
}

func newTcpLineConn(conn net.Conn) *tcpLineConn {
	return &tcpLineConn{
		conn: conn,
		up:   comms.NewDecoder(conn),
		dn:   comms.NewEncoder(conn),
	}
}

// ReadLine blocks until a line arrives or the socket is closed.
func (t *tcpLineConn) ReadLine(ctx context.Context) (string, error) {
	return t.up.ReadLine()
}

func (t *tcpLineConn) Send(ctx context.Context, msg comms.Message) error {
	t.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return t.dn.Send(msg)
}

func (t *tcpLineConn) Close() error {
	return t.conn.Close()
}
