package game

// DefaultHandSize is how many dice each player starts with.
const DefaultHandSize = 5

// Bid is a claim that at least Count dice show Face, across the whole table.
type Bid struct {
	Face  int `json:"face"`
	Count int `json:"count"`
}

// Valid is whether the bid is in range at all.
func (b Bid) Valid() bool {
	return ValidFace(b.Face) && b.Count >= 1
}

// Beats is whether b may follow old: more dice, or the same number of dice on a
// higher face.
func (b Bid) Beats(old Bid) bool {
	return b.Count > old.Count || (b.Face > old.Face && b.Count == old.Count)
}

// Outcome is the result of a challenge.
type Outcome struct {
	Loser      string `json:"loser"`
	Eliminated bool   `json:"eliminated"`
}

// PlayerStatus is what everybody may know about a player.
type PlayerStatus struct {
	Name string `json:"name"`
	Dice int    `json:"dice"`
}

// PlayerHand is what only the player may know.
type PlayerHand struct {
	Name  string
	Faces []int
}

// Session is the state of one table, from the first join until somebody wins.
// It is not safe for concurrent use.
type Session struct {
	roller   Roller
	handSize int

	players map[string]*Hand
	order   []string

	// both read modulo len(order)
	roundPtr int
	turnPtr  int

	// tally[f] is how many dice show f, across all hands
	tally [Faces + 1]int
	bid   *Bid

	started bool
	running bool
}

// NewSession makes an empty table. Hands will have handSize dice.
func NewSession(handSize int, r Roller) *Session {
	if handSize < 1 {
		handSize = DefaultHandSize
	}
	return &Session{
		roller:   r,
		handSize: handSize,
		players:  map[string]*Hand{},
		// first round is opened by the first player to join
		roundPtr: -1,
		turnPtr:  -1,
		running:  true,
	}
}

// AddPlayer seats a new player with a full hand.
func (s *Session) AddPlayer(id string) error {
	if !s.running {
		return ErrGameOver
	}
	if _, exists := s.players[id]; exists {
		return ErrPlayerExists
	}

	hand := NewHand(s.handSize, s.roller)
	s.players[id] = hand
	s.order = append(s.order, id)
	for _, f := range hand.Faces() {
		s.tally[f]++
	}

	return nil
}

// RemovePlayer takes a player away from the table, whatever dice they have.
func (s *Session) RemovePlayer(id string) error {
	if !s.running {
		return ErrGameOver
	}
	hand, ok := s.players[id]
	if !ok {
		return ErrNoSuchPlayer
	}

	s.removePlayer(id, hand)
	return nil
}

func (s *Session) removePlayer(id string, hand *Hand) {
	for _, f := range hand.Faces() {
		s.tally[f]--
	}
	delete(s.players, id)

	idx := stringListIndex(s.order, id)
	n := len(s.order)
	s.turnPtr = shiftPointer(s.turnPtr, idx, n)
	s.roundPtr = shiftPointer(s.roundPtr, idx, n)
	s.order, _ = stringListWithout(s.order, id)

	if s.started && len(s.order) <= 1 {
		s.running = false
	}
}

// shiftPointer rebases p for the order that remains once index idx of n is
// gone. The pointer keeps referencing the same player, unless that is the one
// leaving, in which case it steps back one so the next advance lands on the
// successor.
func shiftPointer(p, idx, n int) int {
	at := mod(p, n)
	if idx <= at {
		at--
	}
	return at
}

// RemoveDie takes one die from a player. If that was the last die the player
// is removed too, and eliminated is true.
func (s *Session) RemoveDie(id string) (eliminated bool, err error) {
	if !s.running {
		return false, ErrGameOver
	}
	hand, ok := s.players[id]
	if !ok {
		return false, ErrNoSuchPlayer
	}

	face, ok := hand.RemoveDie()
	if !ok {
		return false, ErrNoDice
	}
	s.tally[face]--

	if !hand.HaveDie() {
		s.removePlayer(id, hand)
		return true, nil
	}

	return false, nil
}

// RollAll rerolls every hand and recounts the tally.
func (s *Session) RollAll() {
	s.tally = [Faces + 1]int{}
	for _, id := range s.order {
		hand := s.players[id]
		hand.Reroll(s.roller)
		for _, f := range hand.Faces() {
			s.tally[f]++
		}
	}
}

// TurnPlayer is whoever must act now.
func (s *Session) TurnPlayer() string {
	if len(s.order) == 0 {
		return ""
	}
	return s.order[mod(s.turnPtr, len(s.order))]
}

// PreviousTurnPlayer is whoever sits before the turn player. This is taken to
// be whoever made the standing bid.
func (s *Session) PreviousTurnPlayer() string {
	if len(s.order) == 0 {
		return ""
	}
	return s.order[mod(s.turnPtr-1, len(s.order))]
}

// HandleBid replaces the standing bid, if the new one is legal.
func (s *Session) HandleBid(face, count int) error {
	if !s.running {
		return ErrGameOver
	}

	b := Bid{Face: face, Count: count}
	if !b.Valid() {
		return ErrIllegalBid
	}
	if s.bid != nil && !b.Beats(*s.bid) {
		return ErrIllegalBid
	}

	s.bid = &b
	return nil
}

// HandleLiar resolves the turn player calling the standing bid a lie. If there
// are at least as many dice as claimed the caller loses a die, otherwise the
// bidder does.
func (s *Session) HandleLiar() (Outcome, error) {
	if !s.running {
		return Outcome{}, ErrGameOver
	}
	if s.bid == nil {
		return Outcome{}, ErrNoStandingBid
	}

	loser := s.PreviousTurnPlayer()
	if s.tally[s.bid.Face] >= s.bid.Count {
		loser = s.TurnPlayer()
	}

	return s.loseDie(loser)
}

// HandleSpotOn resolves the turn player calling the standing bid inexact. If
// the count is not exact the caller loses a die, otherwise the bidder does.
func (s *Session) HandleSpotOn() (Outcome, error) {
	if !s.running {
		return Outcome{}, ErrGameOver
	}
	if s.bid == nil {
		return Outcome{}, ErrNoStandingBid
	}

	loser := s.TurnPlayer()
	if s.tally[s.bid.Face] == s.bid.Count {
		loser = s.PreviousTurnPlayer()
	}

	return s.loseDie(loser)
}

func (s *Session) loseDie(id string) (Outcome, error) {
	eliminated, err := s.RemoveDie(id)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Loser: id, Eliminated: eliminated}, nil
}

// NextRound moves the opening to the next player, clears the bid and rolls
// everything.
func (s *Session) NextRound() error {
	if !s.running {
		return ErrGameOver
	}
	if len(s.order) == 0 {
		return ErrEmptyTable
	}

	s.roundPtr++
	s.turnPtr = s.roundPtr
	s.bid = nil
	s.RollAll()
	s.started = true

	return nil
}

// NextTurn passes the turn along.
func (s *Session) NextTurn() error {
	if !s.running {
		return ErrGameOver
	}
	if len(s.order) == 0 {
		return ErrEmptyTable
	}

	s.turnPtr++
	return nil
}

// Winner is the last player left, if there is only one.
func (s *Session) Winner() (string, bool) {
	if len(s.players) != 1 {
		return "", false
	}
	return s.order[0], true
}

// PlayerStatus lists dice counts, in turn order.
func (s *Session) PlayerStatus() []PlayerStatus {
	out := make([]PlayerStatus, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, PlayerStatus{Name: id, Dice: s.players[id].Len()})
	}
	return out
}

// PlayerHands lists every hand, in turn order. Never show these to others.
func (s *Session) PlayerHands() []PlayerHand {
	out := make([]PlayerHand, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, PlayerHand{Name: id, Faces: s.players[id].Faces()})
	}
	return out
}

// Players is the turn order.
func (s *Session) Players() []string {
	return append([]string(nil), s.order...)
}

// Has is whether id is seated.
func (s *Session) Has(id string) bool {
	_, ok := s.players[id]
	return ok
}

// Len is how many players are seated.
func (s *Session) Len() int {
	return len(s.order)
}

// Bid is the standing bid, if there is one.
func (s *Session) Bid() (Bid, bool) {
	if s.bid == nil {
		return Bid{}, false
	}
	return *s.bid, true
}

// Count is how many dice on the table show face.
func (s *Session) Count(face int) int {
	if !ValidFace(face) {
		return 0
	}
	return s.tally[face]
}

// HandSize is how many dice a new hand gets.
func (s *Session) HandSize() int {
	return s.handSize
}

// Started is whether the first round has been rolled.
func (s *Session) Started() bool {
	return s.started
}

// Running is false once there's a winner.
func (s *Session) Running() bool {
	return s.running
}
