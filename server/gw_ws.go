package server

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/undeconstructed/liarsdice/comms"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
)

type commsHandler struct {
	server  *Server
	origins []string
	log     zerolog.Logger
}

func (ch *commsHandler) serveWS(c *gin.Context) {
	addr := c.Request.RemoteAddr

	socket, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns: ch.origins,
	})
	if err != nil {
		ch.log.Info().Err(err).Str("client", addr).Msg("websocket accept error")
		return
	}
	socket.SetReadLimit(comms.MaxLineLength)

	cl := newClient(ch.log, addr)
	ch.server.serveConn(c.Request.Context(), cl, &wsLineConn{socket: socket})
}

// wsLineConn carries one line per text frame.
type wsLineConn struct {
	socket *websocket.Conn
}

func (w *wsLineConn) ReadLine(ctx context.Context) (string, error) {
	for {
		typ, data, err := w.socket.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return "", io.EOF
			}
			return "", err
		}
		if typ != websocket.MessageText {
			return "", fmt.Errorf("client sent a %v", typ)
		}
		line := strings.TrimRight(string(data), "\r\n")
		if line == "" {
			continue
		}
		if !comms.SingleLine(line) {
			return "", comms.ErrLineBreak
		}
		return line, nil
	}
}

func (w *wsLineConn) Send(ctx context.Context, msg comms.Message) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return w.socket.Write(ctx, websocket.MessageText, []byte(msg.String()))
}

func (w *wsLineConn) Close() error {
	return w.socket.Close(websocket.StatusNormalClosure, "")
}
