package game

// GameError is a failure with a stable code, so that it can cross the wire
// and be recognised again.
type GameError struct {
	Code string
	Msg  string
}

func (e *GameError) ErrorCode() string { return e.Code }
func (e *GameError) Error() string     { return e.Msg }

var (
	// ErrPlayerExists means a player with the same name already is
	ErrPlayerExists = &GameError{"PLAYEREXISTS", "player exists"}
	// ErrNoSuchPlayer means the player is not seated at the table
	ErrNoSuchPlayer = &GameError{"NOSUCHPLAYER", "no such player"}
	// ErrNoDice means the player has no dice left to lose
	ErrNoDice = &GameError{"NODICE", "player has no dice"}
	// ErrEmptyTable means there is nobody to play a round with
	ErrEmptyTable = &GameError{"EMPTYTABLE", "no players at the table"}

	// ErrIllegalBid is for bids out of range or not above the standing bid
	ErrIllegalBid = &GameError{"ILLEGALBID", "illegal bid"}
	// ErrNoStandingBid means a challenge was made before anyone bid. Callers
	// are expected never to do this, it is not a normal failure.
	ErrNoStandingBid = &GameError{"NOSTANDINGBID", "no standing bid to challenge"}

	// ErrGameOver means a winner exists and the session is finished
	ErrGameOver = &GameError{"GAMEOVER", "game is over"}
)
