package client

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/undeconstructed/liarsdice/comms"
	"github.com/undeconstructed/liarsdice/game"
)

// recorder notes everything and answers name and play requests.
type recorder struct {
	Base
	name   string
	events chan string
	tables chan Table
}

func newRecorder(name string) *recorder {
	return &recorder{name: name, events: make(chan string, 100), tables: make(chan Table, 100)}
}

func (r *recorder) note(t Table, f string, args ...interface{}) {
	r.events <- fmt.Sprintf(f, args...)
	r.tables <- t
}

func (r *recorder) NameRequest(a Actions, t Table) {
	r.note(t, "name?")
	a.SendName(r.name)
}

func (r *recorder) PlayRequest(a Actions, t Table) {
	r.note(t, "play?")
	a.SendBet(game.Bid{Face: 5, Count: 2})
}

func (r *recorder) Joined(t Table, name string)        { r.note(t, "joined %s", name) }
func (r *recorder) Bet(t Table, b game.Bid)            { r.note(t, "bet %d,%d", b.Face, b.Count) }
func (r *recorder) Chat(t Table, who, text string)     { r.note(t, "chat %s %s", who, text) }
func (r *recorder) PlayerLostDie(t Table, name string) { r.note(t, "lost %s", name) }
func (r *recorder) Winner(t Table, name string)        { r.note(t, "winner %s", name) }
func (r *recorder) Eliminated(t Table, name string)    { r.note(t, "out %s", name) }
func (r *recorder) PlayerStatus(t Table)               { r.note(t, "status") }
func (r *recorder) Hand(t Table)                       { r.note(t, "hand") }

func (r *recorder) expect(t *testing.T, want string) Table {
	t.Helper()
	select {
	case got := <-r.events:
		tab := <-r.tables
		if got != want {
			t.Fatalf("got event %q, want %q", got, want)
		}
		return tab
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %q", want)
	}
	return Table{}
}

type fakeServer struct {
	t    *testing.T
	conn net.Conn
	up   *comms.Decoder
	dn   *comms.Encoder
}

// startFake gives a client connected to a scripted server.
func startFake(t *testing.T, p Player) (*fakeServer, *Client, chan error) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := Dial(ctx, ln.Addr().String(), p)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	conn, err := ln.Accept()
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	done := make(chan error, 1)
	go func() {
		done <- c.Run(context.Background())
	}()

	return &fakeServer{t: t, conn: conn, up: comms.NewDecoder(conn), dn: comms.NewEncoder(conn)}, c, done
}

func (f *fakeServer) send(lines ...string) {
	f.t.Helper()
	for _, l := range lines {
		msg, err := comms.Parse(l)
		if err != nil {
			f.t.Fatalf("bad line %q", l)
		}
		if err := f.dn.Send(msg); err != nil {
			f.t.Fatalf("send: %v", err)
		}
	}
}

func (f *fakeServer) expect(want string) {
	f.t.Helper()
	f.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	line, err := f.up.ReadLine()
	if err != nil {
		f.t.Fatalf("waiting for %q: %v", want, err)
	}
	if line != want {
		f.t.Fatalf("got %q, want %q", line, want)
	}
}

func TestClient_game(t *testing.T) {
	rec := newRecorder("a:nn")
	srv, c, done := startFake(t, rec)

	srv.send("username")
	rec.expect(t, "name?")
	srv.expect("username:ann")

	// someone else joining first doesn't make us them
	srv.send("joined:bob")
	if tab := rec.expect(t, "joined bob"); tab.Me != "" {
		t.Errorf("took the wrong name: %q", tab.Me)
	}
	srv.send("joined:ann")
	if tab := rec.expect(t, "joined ann"); tab.Me != "ann" {
		t.Errorf("name not confirmed: %q", tab.Me)
	}

	srv.send("player_status:bob=2,ann=2", "next_round", "hand:5,1", "next_turn:bob", "bet:5,1", "next_turn:ann", "play")
	rec.expect(t, "status")
	if tab := rec.expect(t, "hand"); len(tab.Hand) != 2 || tab.Count(5) != 1 {
		t.Errorf("bad hand: %v", tab.Hand)
	}
	rec.expect(t, "bet 5,1")
	tab := rec.expect(t, "play?")
	if !tab.MyTurn() || !tab.Started || tab.Bid == nil || tab.Bid.Count != 1 || tab.TotalDice() != 4 {
		t.Errorf("bad table: %+v", tab)
	}
	srv.expect("bet:5,2")

	srv.send("chat:bob,hi, ann")
	rec.expect(t, "chat bob hi, ann")

	srv.send("liar", "player_lost_die:bob")
	if tab := rec.expect(t, "lost bob"); tab.TotalDice() != 3 {
		t.Errorf("die not taken: %+v", tab.Players)
	}

	// nonsense is ignored
	srv.send("hand:x", "bet:9", "wibble")

	srv.send("player_lost_die:bob", "eliminated:bob", "winner:ann")
	rec.expect(t, "lost bob")
	if tab := rec.expect(t, "out bob"); len(tab.Players) != 1 {
		t.Errorf("bob still seated: %+v", tab.Players)
	}
	rec.expect(t, "winner ann")
	srv.conn.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not end")
	}

	if tab := c.Table(); tab.Winner != "ann" {
		t.Errorf("winner not kept: %+v", tab)
	}
}

func TestClient_actions(t *testing.T) {
	srv, c, done := startFake(t, Base{})

	c.SendStart()
	srv.expect("start")
	c.SendLiar()
	srv.expect("liar")
	c.SendSpotOn()
	srv.expect("spot_on")
	c.SendChat("hello: there")
	srv.expect("chat:hello: there")
	if err := c.SendChat("hi\nwinner:me"); err != comms.ErrLineBreak {
		t.Errorf("chat over two lines should be refused, got %v", err)
	}
	c.SendName(" : ")
	srv.expect("username")

	c.Close()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("closing should end run cleanly, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not end")
	}
}

func TestTable_copy(t *testing.T) {
	tab := Table{Hand: []int{1, 2}, Bid: &game.Bid{Face: 2, Count: 1}, Players: []game.PlayerStatus{{Name: "a", Dice: 2}}}
	cp := tab.copy()
	cp.Hand[0] = 6
	cp.Bid.Count = 5
	cp.Players[0].Dice = 0
	if tab.Hand[0] != 1 || tab.Bid.Count != 1 || tab.Players[0].Dice != 2 {
		t.Errorf("copy shares state")
	}
}
