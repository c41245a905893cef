package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/undeconstructed/liarsdice/game"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// TableService is the health service name that reports whether the lobby is
// taking players.
const TableService = "liarsdice.Table"

// ErrStopped is returned to callers once the core loop has gone.
var ErrStopped = errors.New("server stopped")

// Options is everything the server needs to know. Empty addresses turn off the
// optional listeners.
type Options struct {
	TCPAddr   string
	WebAddr   string
	AdminAddr string
	HandSize  int
	// Seed for the dice, 0 to seed randomly
	Seed int64
	// Origins are websocket origin patterns beyond the request's own host
	Origins []string
}

// Server serves just one table at a time, that's enough.
type Server struct {
	opts   Options
	coreCh chan interface{}
	// closed once the core loop has returned
	done   chan struct{}
	health *health.Server
	log    zerolog.Logger
}

func NewServer(opts Options) *Server {
	if opts.HandSize < 1 {
		opts.HandSize = game.DefaultHandSize
	}
	return &Server{
		opts:   opts,
		coreCh: make(chan interface{}, 100),
		done:   make(chan struct{}),
		health: health.NewServer(),
		log:    log.With().Str("c", "server").Logger(),
	}
}

type listeners struct {
	tcp   net.Listener
	web   net.Listener
	admin net.Listener
}

func (l listeners) closeAll() {
	for _, ln := range []net.Listener{l.tcp, l.web, l.admin} {
		if ln != nil {
			ln.Close()
		}
	}
}

// Run listens on everything configured and serves until ctx is done or
// something fails.
func (s *Server) Run(ctx context.Context) error {
	var lns listeners
	var err error

	lns.tcp, err = net.Listen("tcp", s.opts.TCPAddr)
	if err != nil {
		return fmt.Errorf("tcp listen: %w", err)
	}
	if s.opts.WebAddr != "" {
		lns.web, err = net.Listen("tcp", s.opts.WebAddr)
		if err != nil {
			lns.closeAll()
			return fmt.Errorf("web listen: %w", err)
		}
	}
	if s.opts.AdminAddr != "" {
		lns.admin, err = net.Listen("tcp", s.opts.AdminAddr)
		if err != nil {
			lns.closeAll()
			return fmt.Errorf("admin listen: %w", err)
		}
	}

	return s.serve(ctx, lns)
}

func (s *Server) serve(ctx context.Context, lns listeners) error {
	s.log.Info().Msg("server running")
	defer s.log.Info().Msg("server stopping")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.runCore(ctx)
	})
	g.Go(func() error {
		return runTcpGateway(ctx, s, lns.tcp)
	})
	if lns.web != nil {
		g.Go(func() error {
			return runWebGateway(ctx, s, lns.web)
		})
	}
	if lns.admin != nil {
		g.Go(func() error {
			return runAdminGateway(ctx, s, lns.admin)
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// runCore is the server's main loop. Everything touching the table happens
// here, one message at a time.
func (s *Server) runCore(ctx context.Context) error {
	d := newDispatcher(s.opts.HandSize, game.NewRoller(s.opts.Seed), s.log)
	defer close(s.done)
	defer d.closeAll()
	defer s.health.Shutdown()

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	lobby := d.lobbyOpen()
	s.setTableHealth(lobby)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case in := <-s.coreCh:
			s.process(d, in)
		}

		if open := d.lobbyOpen(); open != lobby {
			lobby = open
			s.setTableHealth(lobby)
		}
	}
}

func (s *Server) process(d *dispatcher, in interface{}) {
	switch msg := in.(type) {
	case connectMsg:
		d.connect(msg.Client)
	case disconnectMsg:
		d.disconnect(msg.ID)
	case lineFromClient:
		d.receive(msg.ID, msg.Line)
	case queryTableMsg:
		msg.Rep <- d.table()
	default:
		s.log.Warn().Msgf("nonsense in core: %#v", in)
	}
}

func (s *Server) setTableHealth(open bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if open {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(TableService, status)
}

// submit hands a message to the core, unless the server is going away.
func (s *Server) submit(ctx context.Context, msg interface{}) bool {
	select {
	case s.coreCh <- msg:
		return true
	case <-s.done:
		return false
	case <-ctx.Done():
		return false
	}
}

// QueryTable asks the core loop what the table looks like.
func (s *Server) QueryTable(ctx context.Context) (TableState, error) {
	rep := make(chan TableState, 1)
	if !s.submit(ctx, queryTableMsg{Rep: rep}) {
		return TableState{}, ErrStopped
	}
	select {
	case t := <-rep:
		return t, nil
	case <-s.done:
		return TableState{}, ErrStopped
	case <-ctx.Done():
		return TableState{}, ErrStopped
	}
}
