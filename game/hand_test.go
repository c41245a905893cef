package game

import (
	"testing"
)

func TestHand_deal(t *testing.T) {
	h := NewHand(5, &scriptRoller{faces: []int{1, 2, 3, 4, 5}})
	if h.Len() != 5 || !h.HaveDie() {
		t.Fatalf("bad hand size: %d", h.Len())
	}
	for i, f := range h.Faces() {
		if f != i+1 {
			t.Errorf("bad face %d: %d", i, f)
		}
	}
}

func TestHand_reroll(t *testing.T) {
	r := &scriptRoller{faces: []int{1, 1, 1, 6, 6, 6}}
	h := NewHand(3, r)
	h.Reroll(r)
	if h.Len() != 3 {
		t.Errorf("reroll changed size: %d", h.Len())
	}
	for _, f := range h.Faces() {
		if f != 6 {
			t.Errorf("not rerolled: %v", h.Faces())
		}
	}
}

func TestHand_removeDie(t *testing.T) {
	h := NewHand(2, &scriptRoller{faces: []int{4, 5}})
	f, ok := h.RemoveDie()
	if !ok || f != 5 {
		t.Errorf("bad remove: %d %t", f, ok)
	}
	f, ok = h.RemoveDie()
	if !ok || f != 4 {
		t.Errorf("bad remove: %d %t", f, ok)
	}
	if h.HaveDie() {
		t.Errorf("hand should be empty")
	}
	if _, ok := h.RemoveDie(); ok {
		t.Errorf("removed from empty hand")
	}
}
