// Package remote serves a small HTTP API for controlling playback from
// other devices on the network.
package remote

import (
	"context"
	"crypto/subtle"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/llehouerou/wavecast/internal/playback"
	"github.com/llehouerou/wavecast/internal/state"
)

const shutdownTimeout = 5 * time.Second

// TrackSource looks tracks up by identifier and expands catalog
// collections into their tracks.
type TrackSource interface {
	Track(ctx context.Context, id string) (playback.Track, error)
	AlbumTracks(ctx context.Context, albumID string) ([]playback.Track, error)
	ArtistTracks(ctx context.Context, artistID string) ([]playback.Track, error)
	PlaylistTracks(ctx context.Context, playlistID string) ([]playback.Track, error)
}

// ErrTrackNotFound is what a TrackSource returns (or wraps) for unknown ids.
// Set with WithNotFound when the source uses its own sentinel.
var ErrTrackNotFound = errors.New("track not found")

// Server exposes a playback.Service over HTTP.
type Server struct {
	service  playback.Service
	tracks   TrackSource
	token    string
	notFound error
	sessions state.SessionStore
	extra    []gin.HandlerFunc
	logger   *log.Entry

	engine *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithToken requires "Authorization: Bearer <token>" on every request.
func WithToken(token string) Option {
	return func(s *Server) { s.token = token }
}

// WithMiddleware installs extra gin middleware ahead of the routes.
func WithMiddleware(h ...gin.HandlerFunc) Option {
	return func(s *Server) { s.extra = append(s.extra, h...) }
}

// WithNotFound sets the sentinel error the track source returns for
// unknown ids.
func WithNotFound(err error) Option {
	return func(s *Server) { s.notFound = err }
}

// WithSessions enables the /session routes, which sign the catalog account
// in and out.
func WithSessions(store state.SessionStore) Option {
	return func(s *Server) { s.sessions = store }
}

// New creates a server. Call Handler or Serve to use it.
func New(service playback.Service, tracks TrackSource, opts ...Option) *Server {
	s := &Server{
		service:  service,
		tracks:   tracks,
		notFound: ErrTrackNotFound,
		logger:   log.WithField("module", "remote"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.WithField("addr", ln.Addr().String()).Info("remote control listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests())
	r.Use(s.extra...)
	if s.token != "" {
		r.Use(s.requireToken())
	}

	r.GET("/status", s.handleStatus)
	r.GET("/queue", s.handleQueue)
	r.PUT("/queue", s.handleSetQueue)
	r.POST("/play/:id", s.handlePlay)
	r.POST("/pause", s.transport(s.service.Pause))
	r.POST("/resume", s.transport(s.service.Resume))
	r.POST("/toggle", s.transport(s.service.Toggle))
	r.POST("/stop", s.transport(s.service.Stop))
	r.POST("/next", s.transport(s.service.Next))
	r.POST("/previous", s.transport(s.service.Previous))
	r.POST("/seek", s.handleSeek)
	if s.sessions != nil {
		r.GET("/session", s.handleSession)
		r.PUT("/session", s.handleSignIn)
		r.DELETE("/session", s.handleSignOut)
	}
	return r
}

func (s *Server) requireToken() gin.HandlerFunc {
	want := []byte(s.token)
	return func(c *gin.Context) {
		got, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start).String(),
		}).Debug("request")
	}
}
