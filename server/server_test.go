package server

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/undeconstructed/liarsdice/comms"
)

type testServer struct {
	*Server
	lns  listeners
	stop func()
}

func listen(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	return ln
}

// startServer runs a server on loopback listeners until the test ends.
func startServer(t *testing.T, opts Options, web, admin bool) *testServer {
	t.Helper()

	s := NewServer(opts)
	lns := listeners{tcp: listen(t)}
	if web {
		lns.web = listen(t)
	}
	if admin {
		lns.admin = listen(t)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.serve(ctx, lns)
	}()

	ts := &testServer{Server: s, lns: lns}
	var once sync.Once
	ts.stop = func() {
		once.Do(func() {
			cancel()
			select {
			case err := <-errCh:
				if err != nil {
					t.Errorf("serve: %v", err)
				}
			case <-time.After(5 * time.Second):
				t.Errorf("server did not stop")
			}
		})
	}
	t.Cleanup(ts.stop)
	return ts
}

type lineClient struct {
	t    *testing.T
	conn net.Conn
	up   *comms.Decoder
	dn   *comms.Encoder
}

func dialLines(t *testing.T, addr string) *lineClient {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return &lineClient{t: t, conn: conn, up: comms.NewDecoder(conn), dn: comms.NewEncoder(conn)}
}

func (lc *lineClient) send(line string) {
	lc.t.Helper()
	msg, err := comms.Parse(line)
	if err != nil {
		lc.t.Fatalf("bad test line %q: %v", line, err)
	}
	if err := lc.dn.Send(msg); err != nil {
		lc.t.Fatalf("send: %v", err)
	}
}

// expect reads lines until want turns up, failing on timeout.
func (lc *lineClient) expect(want string) {
	lc.t.Helper()
	lc.until(want)
}

// until is expect, returning the lines read on the way, want included.
func (lc *lineClient) until(want string) []string {
	lc.t.Helper()
	lc.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var got []string
	for {
		line, err := lc.up.ReadLine()
		if err != nil {
			lc.t.Fatalf("waiting for %q: %v", want, err)
		}
		got = append(got, line)
		if line == want {
			return got
		}
	}
}

func TestServer_queryTable(t *testing.T) {
	ts := startServer(t, Options{HandSize: 3}, false, false)

	tab, err := ts.QueryTable(context.Background())
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if tab.Started || len(tab.Players) != 0 || tab.Connections != 0 {
		t.Errorf("bad empty table: %+v", tab)
	}

	ts.stop()
	if _, err := ts.QueryTable(context.Background()); err != ErrStopped {
		t.Errorf("expected stopped, got %v", err)
	}
}

func TestServer_defaults(t *testing.T) {
	s := NewServer(Options{})
	if s.opts.HandSize != 5 {
		t.Errorf("bad default hand size: %d", s.opts.HandSize)
	}
}
