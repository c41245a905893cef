package comms

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/undeconstructed/liarsdice/game"
)

// FormatBid is face,count.
func FormatBid(b game.Bid) string {
	return fmt.Sprintf("%d,%d", b.Face, b.Count)
}

// ParseBid reads face,count. It only checks the syntax, not that the bid is
// legal.
func ParseBid(s string) (game.Bid, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return game.Bid{}, fmt.Errorf("%w: bid %q", ErrBadPayload, s)
	}
	face, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return game.Bid{}, fmt.Errorf("%w: bid face %q", ErrBadPayload, parts[0])
	}
	count, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return game.Bid{}, fmt.Errorf("%w: bid count %q", ErrBadPayload, parts[1])
	}
	return game.Bid{Face: face, Count: count}, nil
}

// FormatHand is f,f,f.
func FormatHand(faces []int) string {
	ss := make([]string, len(faces))
	for i, f := range faces {
		ss[i] = strconv.Itoa(f)
	}
	return strings.Join(ss, ",")
}

func ParseHand(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		f, err := strconv.Atoi(p)
		if err != nil || !game.ValidFace(f) {
			return nil, fmt.Errorf("%w: hand %q", ErrBadPayload, s)
		}
		out[i] = f
	}
	return out, nil
}

// FormatPlayerStatus is name=count,name=count.
func FormatPlayerStatus(st []game.PlayerStatus) string {
	ss := make([]string, len(st))
	for i, p := range st {
		ss[i] = p.Name + "=" + strconv.Itoa(p.Dice)
	}
	return strings.Join(ss, ",")
}

func ParsePlayerStatus(s string) ([]game.PlayerStatus, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]game.PlayerStatus, len(parts))
	for i, p := range parts {
		eq := strings.LastIndex(p, "=")
		if eq < 0 {
			return nil, fmt.Errorf("%w: player status %q", ErrBadPayload, p)
		}
		n, err := strconv.Atoi(p[eq+1:])
		if err != nil {
			return nil, fmt.Errorf("%w: player status %q", ErrBadPayload, p)
		}
		out[i] = game.PlayerStatus{Name: p[:eq], Dice: n}
	}
	return out, nil
}

// FormatChat is who,text, as the server sends it.
func FormatChat(who, text string) string {
	return who + "," + text
}

// ParseChat splits who,text. Usernames can't hold commas, so the first one is
// the split.
func ParseChat(s string) (who string, text string, err error) {
	i := strings.Index(s, ",")
	if i < 0 {
		return "", "", fmt.Errorf("%w: chat %q", ErrBadPayload, s)
	}
	return s[:i], s[i+1:], nil
}

// CleanUsername strips what a username cannot contain on the wire.
func CleanUsername(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, Delimiter, ""))
}

// ValidUsername is whether a name can be used as-is. Commas and equals signs
// would break player status and chat payloads.
func ValidUsername(s string) bool {
	if s == "" || strings.TrimSpace(s) != s {
		return false
	}
	return !strings.ContainsAny(s, ":,=\n\r")
}
