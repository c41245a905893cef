package server

import (
	"context"
	"errors"
	"net"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// runAdminGateway serves gRPC health checks, for whatever is watching the
// process.
func runAdminGateway(ctx context.Context, server *Server, ln net.Listener) error {
	log := log.With().Str("gw", "admin").Logger()

	log.Info().Msgf("admin listening on grpc:%v", ln.Addr())

	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, server.health)

	go func() {
		<-ctx.Done()
		srv.Stop()
	}()

	err := srv.Serve(ln)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, grpc.ErrServerStopped) {
		return nil
	}
	return err
}
