package game

import (
	"testing"
)

// scriptRoller hands out faces from a fixed list, round and round.
type scriptRoller struct {
	faces []int
	i     int
}

func (r *scriptRoller) Intn(n int) int {
	f := r.faces[r.i%len(r.faces)]
	r.i++
	return f - 1
}

func TestDie_range(t *testing.T) {
	r := NewRoller(42)
	seen := map[int]bool{}
	d := NewDie(r)
	for i := 0; i < 600; i++ {
		f := d.Roll(r)
		if !ValidFace(f) {
			t.Fatalf("bad face: %d", f)
		}
		if d.Face() != f {
			t.Errorf("face not kept: %d %d", d.Face(), f)
		}
		seen[f] = true
	}
	if len(seen) != Faces {
		t.Errorf("not all faces seen: %v", seen)
	}
}

func TestDie_scripted(t *testing.T) {
	r := &scriptRoller{faces: []int{3, 6}}
	d := NewDie(r)
	if d.Face() != 3 {
		t.Errorf("wrong first face: %d", d.Face())
	}
	if f := d.Roll(r); f != 6 {
		t.Errorf("wrong second face: %d", f)
	}
}

func TestNewRoller_seeds(t *testing.T) {
	a, b := NewRoller(7), NewRoller(7)
	for i := 0; i < 10; i++ {
		if a.Intn(Faces) != b.Intn(Faces) {
			t.Fatalf("same seed, different rolls")
		}
	}
	if NewRoller(0) == nil {
		t.Errorf("no crypto seeded roller")
	}
}
