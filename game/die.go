package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// Faces is how many sides a die has.
const Faces = 6

// Roller is the source of randomness for dice. *rand.Rand is one.
type Roller interface {
	// Intn returns a number in [0,n).
	Intn(n int) int
}

// NewRoller makes a Roller seeded from seed, or from crypto/rand if seed is 0.
func NewRoller(seed int64) Roller {
	if seed == 0 {
		var b [8]byte
		if _, err := crand.Read(b[:]); err == nil {
			seed = int64(binary.LittleEndian.Uint64(b[:]))
		} else {
			seed = 1
		}
	}
	return rand.New(rand.NewSource(seed))
}

// Die is a single six sided die.
type Die struct {
	face int
}

// NewDie makes a die that has already been rolled once.
func NewDie(r Roller) Die {
	d := Die{}
	d.Roll(r)
	return d
}

// Roll gives the die a new face.
func (d *Die) Roll(r Roller) int {
	d.face = r.Intn(Faces) + 1
	return d.face
}

// Face is what the die shows.
func (d Die) Face() int {
	return d.face
}

// ValidFace is whether f could be shown by a die.
func ValidFace(f int) bool {
	return f >= 1 && f <= Faces
}
