// Package console is a persona for a person at a terminal.
package console

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/undeconstructed/liarsdice/client"
	"github.com/undeconstructed/liarsdice/game"

	rl "github.com/chzyer/readline"
	"github.com/fatih/color"
)

var (
	info  = color.New(color.FgCyan)
	alert = color.New(color.FgYellow, color.Bold)
	good  = color.New(color.FgGreen)
	bad   = color.New(color.FgRed)
	chat  = color.New(color.FgMagenta)
)

const help = `commands:
  bet <face> <count>  claim at least count dice show face
  liar                call the last bet a lie
  spot                call the last bet exactly right
  start               start the game, if you're first
  chat <text>         say something
  name <name>         ask for a username
  status              show the table
  hand                show your dice
  quit                leave`

// Remote is the connection the console drives.
type Remote interface {
	client.Actions
	Table() client.Table
}

// Console prints what happens and reads commands.
type Console struct {
	name  string
	asked bool

	mu  sync.Mutex
	out io.Writer
	rl  *rl.Instance
}

// New makes a console on the terminal. If name is set it's asked for
// without prompting.
func New(name string) (*Console, error) {
	completer := rl.NewPrefixCompleter(
		rl.PcItem("bet"),
		rl.PcItem("liar"),
		rl.PcItem("spot"),
		rl.PcItem("start"),
		rl.PcItem("chat"),
		rl.PcItem("name"),
		rl.PcItem("status"),
		rl.PcItem("hand"),
		rl.PcItem("help"),
		rl.PcItem("quit"),
	)

	l, err := rl.NewEx(&rl.Config{
		Prompt:            "» ",
		AutoComplete:      completer,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return nil, err
	}

	c := newConsole(name, l.Stdout())
	c.rl = l
	return c, nil
}

func newConsole(name string, out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{name: name, out: out}
}

func (c *Console) println(col *color.Color, format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, col.Sprintf(format, args...))
}

func (c *Console) setPrompt(p string) {
	if c.rl != nil {
		c.rl.SetPrompt(p)
	}
}

// Run reads commands until the user quits or the terminal closes. It doesn't
// hang up by itself.
func (c *Console) Run(r Remote) error {
	if c.rl == nil {
		return errors.New("no terminal")
	}
	defer c.rl.Close()

	c.println(info, "type help for commands")

	for {
		line, err := c.rl.Readline()
		if err == rl.ErrInterrupt {
			if len(line) == 0 {
				return nil
			}
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		if quit := c.execute(r, line); quit {
			return nil
		}
	}
}

// Close stops Run.
func (c *Console) Close() error {
	if c.rl == nil {
		return nil
	}
	return c.rl.Close()
}

// execute does one command line, returning true to quit.
func (c *Console) execute(r Remote, line string) bool {
	parts := strings.SplitN(strings.TrimSpace(line), " ", 2)
	cmd := parts[0]
	rest := ""
	if len(parts) == 2 {
		rest = strings.TrimSpace(parts[1])
	}

	var err error
	switch cmd {
	case "":
		return false
	case "bet", "b":
		var bid game.Bid
		bid, err = parseBet(rest)
		if err != nil {
			c.println(bad, "%v", err)
			return false
		}
		t := r.Table()
		if t.Bid != nil && !bid.Beats(*t.Bid) {
			c.println(bad, "must beat %s", describeBid(*t.Bid))
			return false
		}
		err = r.SendBet(bid)
	case "liar", "l":
		err = r.SendLiar()
	case "spot", "s":
		err = r.SendSpotOn()
	case "start":
		err = r.SendStart()
	case "chat", "say":
		err = r.SendChat(rest)
	case "name":
		if rest == "" {
			c.println(bad, "name <name>")
			return false
		}
		err = r.SendName(rest)
	case "status":
		c.printTable(r.Table())
	case "hand":
		c.printHand(r.Table())
	case "help", "?":
		c.println(info, help)
	case "quit", "exit":
		r.Close()
		return true
	default:
		c.println(bad, "unknown command: %s", cmd)
	}

	if err != nil {
		c.println(bad, "error: %v", err)
	}
	return false
}

func parseBet(s string) (game.Bid, error) {
	f := strings.Fields(s)
	if len(f) != 2 {
		return game.Bid{}, errors.New("bet <face> <count>")
	}
	face, err1 := strconv.Atoi(f[0])
	count, err2 := strconv.Atoi(f[1])
	if err1 != nil || err2 != nil {
		return game.Bid{}, errors.New("bet <face> <count>")
	}
	b := game.Bid{Face: face, Count: count}
	if !b.Valid() {
		return game.Bid{}, fmt.Errorf("faces are 1 to %d, counts at least 1", game.Faces)
	}
	return b, nil
}

func describeBid(b game.Bid) string {
	return fmt.Sprintf("%d x %d", b.Count, b.Face)
}

func (c *Console) printTable(t client.Table) {
	if len(t.Players) == 0 {
		c.println(info, "nobody here")
		return
	}
	ss := make([]string, len(t.Players))
	for i, p := range t.Players {
		s := fmt.Sprintf("%s(%d)", p.Name, p.Dice)
		if p.Name == t.Turn && t.Started {
			s = "*" + s
		}
		ss[i] = s
	}
	c.println(info, "players: %s", strings.Join(ss, " "))
	if t.Bid != nil {
		c.println(info, "standing bet: %s", describeBid(*t.Bid))
	}
}

func (c *Console) printHand(t client.Table) {
	if len(t.Hand) == 0 {
		c.println(info, "no dice")
		return
	}
	ss := make([]string, len(t.Hand))
	for i, f := range t.Hand {
		ss[i] = strconv.Itoa(f)
	}
	c.println(good, "your dice: %s", strings.Join(ss, " "))
}

func (c *Console) NameRequest(a client.Actions, t client.Table) {
	if c.name != "" && !c.asked {
		c.asked = true
		c.println(info, "asking to be %s", c.name)
		a.SendName(c.name)
		return
	}
	c.println(alert, "pick a name: name <name>")
}

func (c *Console) PlayRequest(a client.Actions, t client.Table) {
	c.setPrompt(alert.Sprint("your go » "))
	if t.Bid == nil {
		c.println(alert, "your go: bet <face> <count>")
		return
	}
	c.println(alert, "your go: beat %s, or liar, or spot", describeBid(*t.Bid))
}

func (c *Console) CanStart(a client.Actions, t client.Table) {
	c.println(alert, "you can start the game: start")
}

func (c *Console) Hand(t client.Table) {
	c.printHand(t)
}

func (c *Console) PlayerStatus(t client.Table) {
	c.printTable(t)
}

func (c *Console) NextTurn(t client.Table) {
	if !t.MyTurn() {
		c.setPrompt("» ")
		c.println(info, "waiting for %s", t.Turn)
	}
}

func (c *Console) Bet(t client.Table, b game.Bid) {
	c.println(info, "%s bets %s", t.Turn, describeBid(b))
}

func (c *Console) Liar(t client.Table) {
	c.println(alert, "%s calls liar!", t.Turn)
}

func (c *Console) SpotOn(t client.Table) {
	c.println(alert, "%s calls spot on!", t.Turn)
}

func (c *Console) PlayerLostDie(t client.Table, name string) {
	if name == t.Me {
		c.println(bad, "you lose a die")
		return
	}
	c.println(info, "%s loses a die", name)
}

func (c *Console) Eliminated(t client.Table, name string) {
	if name == t.Me {
		c.println(bad, "you're out, but you can stay and watch")
		return
	}
	c.println(info, "%s is out", name)
}

func (c *Console) Joined(t client.Table, name string) {
	if name == t.Me {
		c.println(good, "you're in as %s", name)
		return
	}
	c.println(info, "%s joined", name)
}

func (c *Console) Left(t client.Table, name string) {
	c.println(info, "%s left", name)
}

func (c *Console) NewRound(t client.Table) {
	c.println(info, "new round")
}

func (c *Console) Winner(t client.Table, name string) {
	if name == t.Me {
		c.println(good, "you win!")
		return
	}
	c.println(alert, "%s wins", name)
}

func (c *Console) Chat(t client.Table, who, text string) {
	c.println(chat, "%s: %s", who, text)
}
