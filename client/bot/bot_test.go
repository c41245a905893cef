package bot

import (
	"testing"

	"github.com/undeconstructed/liarsdice/client"
	"github.com/undeconstructed/liarsdice/game"
)

type sent struct {
	client.Actions
	lines []string
}

func (s *sent) SendName(name string) error {
	s.lines = append(s.lines, "name "+name)
	return nil
}

func (s *sent) SendStart() error {
	s.lines = append(s.lines, "start")
	return nil
}

func (s *sent) SendLiar() error {
	s.lines = append(s.lines, "liar")
	return nil
}

func (s *sent) SendSpotOn() error {
	s.lines = append(s.lines, "spot_on")
	return nil
}

func (s *sent) SendBet(b game.Bid) error {
	s.lines = append(s.lines, "bet")
	return nil
}

func table(hand []int, others int, bid *game.Bid) client.Table {
	return client.Table{
		Me:      "me",
		Hand:    hand,
		Players: []game.PlayerStatus{{Name: "me", Dice: len(hand)}, {Name: "them", Dice: others}},
		Turn:    "me",
		Bid:     bid,
		Started: true,
	}
}

func TestBot_names(t *testing.T) {
	b := New("robo", false, game.NewRoller(1))
	a := &sent{}
	b.NameRequest(a, client.Table{})
	b.NameRequest(a, client.Table{})
	b.NameRequest(a, client.Table{})
	want := []string{"name robo", "name robo_", "name robo__"}
	for i, w := range want {
		if a.lines[i] != w {
			t.Errorf("try %d: got %q, want %q", i, a.lines[i], w)
		}
	}
}

func TestBot_start(t *testing.T) {
	a := &sent{}
	New("shy", false, nil).CanStart(a, client.Table{})
	if len(a.lines) != 0 {
		t.Errorf("shy bot started")
	}
	New("keen", true, nil).CanStart(a, client.Table{})
	if len(a.lines) != 1 || a.lines[0] != "start" {
		t.Errorf("keen bot didn't start: %v", a.lines)
	}
}

func TestDecide_opening(t *testing.T) {
	for seed := int64(1); seed < 20; seed++ {
		r := game.NewRoller(seed)
		m := decide(table([]int{4, 4, 4, 1, 2}, 5, nil), r)
		if m.liar || m.spotOn {
			t.Fatalf("can't challenge without a bid")
		}
		if m.bid.Face != 4 || !m.bid.Valid() {
			t.Errorf("should open on fours: %+v", m.bid)
		}
	}
}

func TestDecide_impossible(t *testing.T) {
	m := decide(table([]int{1, 2}, 2, &game.Bid{Face: 3, Count: 5}), game.NewRoller(1))
	if !m.liar {
		t.Errorf("five of four dice should be called: %+v", m)
	}
}

func TestDecide_alwaysLegal(t *testing.T) {
	r := game.NewRoller(42)
	for face := 1; face <= game.Faces; face++ {
		for count := 1; count <= 6; count++ {
			old := game.Bid{Face: face, Count: count}
			for seed := 0; seed < 10; seed++ {
				hand := []int{1 + r.Intn(6), 1 + r.Intn(6), 1 + r.Intn(6)}
				m := decide(table(hand, 9, &old), r)
				if m.liar || m.spotOn {
					continue
				}
				if !m.bid.Valid() || !m.bid.Beats(old) {
					t.Errorf("illegal raise %+v over %+v", m.bid, old)
				}
			}
		}
	}
}

func TestDecide_believable(t *testing.T) {
	// we hold three sixes, so two sixes is easy to beat
	m := decide(table([]int{6, 6, 6}, 3, &game.Bid{Face: 6, Count: 2}), game.NewRoller(3))
	if m.liar || m.spotOn {
		t.Fatalf("should raise, not %+v", m)
	}
	if m.bid.Face != 6 || m.bid.Count != 3 {
		t.Errorf("expected three sixes, got %+v", m.bid)
	}
}

// always gives the same number, within range.
type always int

func (a always) Intn(n int) int { return int(a) % n }

func TestDecide_spotOn(t *testing.T) {
	// two threes of our own and five unseen dice is about two and
	// five sixths threes, so two is as good as exact
	tab := table([]int{3, 3}, 5, &game.Bid{Face: 3, Count: 2})
	if m := decide(tab, always(0)); !m.spotOn {
		t.Errorf("should call spot on: %+v", m)
	}
	if m := decide(tab, always(1)); m.spotOn || m.liar {
		t.Errorf("should raise this time: %+v", m)
	}
}
