// Package server exposes the analyzer over HTTP and streams progress over websockets.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"poemlab/internal/analyzer"
	"poemlab/internal/form"
)

// Requests larger than this are rejected before analysis.
const maxBodyBytes = 1 << 20

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type AnalyzeRequest struct {
	Text       string `json:"text"`
	TTLSeconds int    `json:"ttlSeconds" binding:"gte=0"`
	NoCache    bool   `json:"noCache"`
}

func (r AnalyzeRequest) options() analyzer.Options {
	return analyzer.Options{TTL: time.Duration(r.TTLSeconds) * time.Second, NoCache: r.NoCache}
}

// Event is one websocket frame of a streamed analysis.
type Event struct {
	Type     string                 `json:"type"` // progress, result or error
	Stage    string                 `json:"stage,omitempty"`
	Percent  int                    `json:"percent,omitempty"`
	Detail   string                 `json:"detail,omitempty"`
	Analysis *analyzer.PoemAnalysis `json:"analysis,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

type Server struct {
	analyzer *analyzer.Analyzer
	log      *zap.Logger
	engine   *gin.Engine
}

func New(a *analyzer.Analyzer, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{analyzer: a, log: log, engine: gin.New()}
	s.engine.Use(gin.Recovery(), s.requestLog())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.healthz)
	v1 := s.engine.Group("/v1")
	{
		v1.GET("/forms", s.forms)
		v1.POST("/analyze", s.analyze)
		v1.GET("/analyze/stream", s.stream)
	}
}

func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)))
	}
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) forms(c *gin.Context) {
	c.JSON(http.StatusOK, form.Definitions())
}

func (s *Server) analyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.analyzer.Analyze(c.Request.Context(), req.Text, req.options()))
}

// stream reads one AnalyzeRequest from the socket, sends a progress event per stage and
// finishes with the result.
func (s *Server) stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxBodyBytes)

	var req AnalyzeRequest
	if err := conn.ReadJSON(&req); err != nil {
		_ = conn.WriteJSON(Event{Type: "error", Error: "invalid request: " + err.Error()})
		return
	}

	opts := req.options()
	opts.OnProgress = func(percent int, stage, detail string) {
		if err := conn.WriteJSON(Event{Type: "progress", Stage: stage, Percent: percent, Detail: detail}); err != nil {
			s.log.Debug("progress write failed", zap.Error(err))
		}
	}
	out := s.analyzer.Analyze(c.Request.Context(), req.Text, opts)
	if err := conn.WriteJSON(Event{Type: "result", Analysis: &out}); err != nil {
		s.log.Debug("result write failed", zap.Error(err))
		return
	}
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"))
}
