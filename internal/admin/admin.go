// Package admin serves a read-only HTTP API over live sessions, the loaded
// question bank and stored results.
package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/attestiz/internal/bank"
	"github.com/abhisek/attestiz/internal/metrics"
	"github.com/abhisek/attestiz/internal/store"
)

// Sessions is the view of the running service the API needs.
type Sessions interface {
	Roles() []bank.RoleSet
	Active() int
}

// Deps are the collaborators of a Server. Repo may be nil when results are
// not kept in SQLite.
type Deps struct {
	Sessions Sessions
	Repo     store.EventRepo
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

// Server is the admin HTTP server.
type Server struct {
	deps   Deps
	engine *gin.Engine
}

// DefaultLimit caps result listings when no limit is given.
const DefaultLimit = 100

// New builds the router.
func New(d Deps) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{deps: d, engine: gin.New()}
	s.engine.Use(gin.Recovery(), s.requestLog())

	s.engine.GET("/healthz", s.health)
	s.engine.GET("/roles", s.roles)
	s.engine.GET("/sessions", s.sessions)
	s.engine.GET("/results", s.results)
	s.engine.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.deps.Logger.Info("admin api listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.deps.Logger.Debug("admin request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds())
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type roleInfo struct {
	Slug          string `json:"slug"`
	Title         string `json:"title"`
	Questions     int    `json:"questions"`
	BlockTwoCount int    `json:"block_two_count"`
}

func (s *Server) roles(c *gin.Context) {
	roles := s.deps.Sessions.Roles()
	out := make([]roleInfo, 0, len(roles))
	for _, r := range roles {
		out = append(out, roleInfo{
			Slug:          r.Slug,
			Title:         r.Title,
			Questions:     len(r.Questions),
			BlockTwoCount: r.BlockTwoCount,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) sessions(c *gin.Context) {
	resp := gin.H{"active": s.deps.Sessions.Active()}
	if s.deps.Repo != nil {
		limit, ok := parseLimit(c)
		if !ok {
			return
		}
		recent, err := s.deps.Repo.SessionSummaries(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		resp["recent"] = recent
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) results(c *gin.Context) {
	if s.deps.Repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "results are not stored in sqlite"})
		return
	}
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	opts := store.QueryOpts{
		Limit:     limit,
		SessionID: c.Query("session_id"),
	}
	if v := c.Query("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
			return
		}
		opts.UserID = id
	}
	if v := c.Query("after"); v != "" {
		seq, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid after"})
			return
		}
		opts.After = seq
	}

	events, err := s.deps.Repo.QueryAnswerEvents(c.Request.Context(), opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if events == nil {
		events = []store.AnswerEvent{}
	}
	c.JSON(http.StatusOK, events)
}

func parseLimit(c *gin.Context) (int, bool) {
	v := c.Query("limit")
	if v == "" {
		return DefaultLimit, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return 0, false
	}
	return n, true
}
