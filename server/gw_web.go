package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func runWebGateway(ctx context.Context, server *Server, ln net.Listener) error {
	log := log.With().Str("gw", "web").Logger()

	log.Info().Msgf("web listening on http://%v", ln.Addr())

	s := &http.Server{
		Handler:           newWebHandler(server, log),
		ReadHeaderTimeout: time.Second * 10,
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		_ = s.Shutdown(sctx)
	}()

	err := s.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return ctx.Err()
	}
	return err
}

func newWebHandler(server *Server, log zerolog.Logger) http.Handler {
	rh := restHandler{
		server: server,
		log:    log,
	}

	ch := commsHandler{
		server:  server,
		origins: server.opts.Origins,
		log:     log,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	r.GET("/healthz", rh.healthz)
	a := r.Group("/api")
	a.GET("/table", rh.getTable)
	r.GET("/ws", ch.serveWS)

	return r
}

// requestLogger is gin's access log, through zerolog.
func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}

type restHandler struct {
	server *Server
	log    zerolog.Logger
}

func (rh *restHandler) healthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (rh *restHandler) getTable(c *gin.Context) {
	t, err := rh.server.QueryTable(c.Request.Context())
	if err != nil {
		rh.log.Info().Err(err).Msg("query table error")
		c.String(http.StatusServiceUnavailable, "error: %v", err)
		return
	}

	c.JSON(http.StatusOK, t)
}
