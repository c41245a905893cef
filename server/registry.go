package server

import (
	"github.com/undeconstructed/liarsdice/comms"
)

// registry maps registered names to connections. Only the core loop uses it.
type registry struct {
	clients map[string]*clientBundle
}

func newRegistry() *registry {
	return &registry{clients: map[string]*clientBundle{}}
}

func (r *registry) add(name string, c *clientBundle) {
	r.clients[name] = c
}

func (r *registry) remove(name string) {
	delete(r.clients, name)
}

func (r *registry) has(name string) bool {
	_, ok := r.clients[name]
	return ok
}

func (r *registry) len() int {
	return len(r.clients)
}

// send delivers to just the named clients.
func (r *registry) send(msg comms.Message, names ...string) {
	for _, n := range names {
		if c, ok := r.clients[n]; ok {
			deliver(c, msg)
		}
	}
}

// broadcast delivers to every registered client.
func (r *registry) broadcast(msg comms.Message) {
	for _, c := range r.clients {
		deliver(c, msg)
	}
}

// deliver never blocks the core. A client that can't keep up is hung up on,
// and its disconnect is dealt with when the gateway reports it.
func deliver(c *clientBundle, msg comms.Message) {
	if c.closed {
		return
	}
	select {
	case c.downCh <- msg:
	default:
		c.log.Warn().Msg("client lagging, hanging up")
		c.close()
	}
}
