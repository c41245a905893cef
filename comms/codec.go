package comms

import (
	"bufio"
	"io"
	"sync"
)

// MaxLineLength is the longest line a Decoder will accept.
const MaxLineLength = 4096

// Encoder writes messages as lines. It is safe for concurrent use.
type Encoder struct {
	l sync.Mutex
	w *bufio.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

// Send writes one message and flushes.
func (e *Encoder) Send(msg Message) error {
	e.l.Lock()
	defer e.l.Unlock()

	if _, err := e.w.WriteString(msg.String() + "\n"); err != nil {
		return err
	}
	return e.w.Flush()
}

// Encode is Send for a command and payload.
func (e *Encoder) Encode(c Command, payload string) error {
	return e.Send(New(c, payload))
}

// Decoder reads lines and parses them. Blank lines are skipped.
type Decoder struct {
	s *bufio.Scanner
}

func NewDecoder(r io.Reader) *Decoder {
	s := bufio.NewScanner(r)
	// room for the line ending too
	s.Buffer(make([]byte, 0, 512), MaxLineLength+2)
	return &Decoder{s: s}
}

// ReadLine gets the next non-blank line, without its line ending.
func (d *Decoder) ReadLine() (string, error) {
	for d.s.Scan() {
		line := d.s.Text()
		if len(line) > 0 && line[len(line)-1] == '\r' {
			line = line[:len(line)-1]
		}
		if line == "" {
			continue
		}
		return line, nil
	}
	if err := d.s.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// Decode gets the next message.
func (d *Decoder) Decode() (Message, error) {
	line, err := d.ReadLine()
	if err != nil {
		return Message{}, err
	}
	return Parse(line)
}
