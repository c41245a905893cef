package server

import (
	"context"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func dialHealth(t *testing.T, addr string) healthpb.HealthClient {
	t.Helper()

	conn, err := grpc.NewClient(
		addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial health server: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return healthpb.NewHealthClient(conn)
}

// waitStatus polls until service reports want, since the core updates health
// after the message that changes it.
func waitStatus(t *testing.T, hc healthpb.HealthClient, service string, want healthpb.HealthCheckResponse_ServingStatus) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	var last healthpb.HealthCheckResponse_ServingStatus
	for time.Now().Before(deadline) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		res, err := hc.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
		cancel()
		if err == nil {
			last = res.GetStatus()
			if last == want {
				return
			}
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("%q: wanted %s, last saw %s", service, want, last)
}

func TestAdminGateway_health(t *testing.T) {
	ts := startServer(t, Options{}, false, true)
	hc := dialHealth(t, ts.lns.admin.Addr().String())

	waitStatus(t, hc, "", healthpb.HealthCheckResponse_SERVING)
	waitStatus(t, hc, TableService, healthpb.HealthCheckResponse_SERVING)

	addr := ts.lns.tcp.Addr().String()
	ann := dialLines(t, addr)
	ann.expect("username")
	ann.send("username:ann")
	bob := dialLines(t, addr)
	bob.expect("username")
	bob.send("username:bob")
	ann.expect("can_start")
	ann.send("start")
	ann.expect("play")

	// game on, lobby shut
	waitStatus(t, hc, TableService, healthpb.HealthCheckResponse_NOT_SERVING)
	waitStatus(t, hc, "", healthpb.HealthCheckResponse_SERVING)

	bob.conn.Close()
	ann.expect("winner:ann")
	waitStatus(t, hc, TableService, healthpb.HealthCheckResponse_SERVING)
}
