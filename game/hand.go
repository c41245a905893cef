package game

// Hand is the dice one player holds. It never grows after it's dealt.
type Hand struct {
	dice []Die
}

// NewHand deals size fresh dice.
func NewHand(size int, r Roller) *Hand {
	h := &Hand{dice: make([]Die, size)}
	for i := range h.dice {
		h.dice[i] = NewDie(r)
	}
	return h
}

// Len is how many dice are left.
func (h *Hand) Len() int {
	return len(h.dice)
}

// HaveDie is true while there is at least one die.
func (h *Hand) HaveDie() bool {
	return len(h.dice) > 0
}

// Reroll rolls every die, keeping the size.
func (h *Hand) Reroll(r Roller) {
	for i := range h.dice {
		h.dice[i].Roll(r)
	}
}

// RemoveDie takes the last die out, returning its face.
func (h *Hand) RemoveDie() (int, bool) {
	if len(h.dice) == 0 {
		return 0, false
	}
	last := h.dice[len(h.dice)-1]
	h.dice = h.dice[:len(h.dice)-1]
	return last.face, true
}

// Faces lists the face of each die, in order.
func (h *Hand) Faces() []int {
	out := make([]int, len(h.dice))
	for i, d := range h.dice {
		out[i] = d.face
	}
	return out
}
