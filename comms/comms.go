// Package comms is the line protocol spoken between a liarsdice server and
// its clients. A line is COMMAND or COMMAND:PAYLOAD.
package comms

import (
	"errors"
	"strings"
)

// Delimiter separates a command from its payload.
const Delimiter = ":"

// Command names a message. Client and server share names, though some only
// make sense in one direction.
type Command string

const (
	Username Command = "username"
	CanStart Command = "can_start"
	Start    Command = "start"
	Joined   Command = "joined"
	Left     Command = "left"

	Eliminated   Command = "eliminated"
	PlayerStatus Command = "player_status"
	Hand         Command = "hand"

	NextTurn  Command = "next_turn"
	NextRound Command = "next_round"
	Play      Command = "play"
	Winner    Command = "winner"

	Bet           Command = "bet"
	Liar          Command = "liar"
	SpotOn        Command = "spot_on"
	PlayerLostDie Command = "player_lost_die"

	Chat Command = "chat"
)

var (
	// ErrEmptyLine is for lines with nothing in them
	ErrEmptyLine = errors.New("empty line")
	// ErrBadPayload is for payloads that don't decode
	ErrBadPayload = errors.New("bad payload")
	// ErrLineBreak is for text that would be more than one line on the wire
	ErrLineBreak = errors.New("line break in message")
)

// Message is one line.
type Message struct {
	Command Command
	Payload string
}

// New makes a message.
func New(c Command, payload string) Message {
	return Message{Command: c, Payload: payload}
}

// Parse splits a line into command and payload. The payload is everything
// after the first delimiter.
func Parse(line string) (Message, error) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return Message{}, ErrEmptyLine
	}
	if !SingleLine(line) {
		return Message{}, ErrLineBreak
	}

	parts := strings.SplitN(line, Delimiter, 2)
	msg := Message{Command: Command(parts[0])}
	if len(parts) == 2 {
		msg.Payload = parts[1]
	}
	return msg, nil
}

// SingleLine is whether s can go on the wire without splitting into more
// lines.
func SingleLine(s string) bool {
	return !strings.ContainsAny(s, "\r\n")
}

// String is the message as a line, without the newline.
func (m Message) String() string {
	if m.Payload == "" {
		return string(m.Command)
	}
	return string(m.Command) + Delimiter + m.Payload
}
