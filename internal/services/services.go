// Package services builds the long-lived components shared by the
// terminal UI and the headless daemon.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/llehouerou/wavecast/internal/catalog"
	"github.com/llehouerou/wavecast/internal/config"
	"github.com/llehouerou/wavecast/internal/lastfm"
	"github.com/llehouerou/wavecast/internal/logging"
	"github.com/llehouerou/wavecast/internal/mpris"
	"github.com/llehouerou/wavecast/internal/notify"
	"github.com/llehouerou/wavecast/internal/playback"
	"github.com/llehouerou/wavecast/internal/player"
	"github.com/llehouerou/wavecast/internal/remote"
	"github.com/llehouerou/wavecast/internal/state"
	"github.com/llehouerou/wavecast/internal/telemetry"
)

// ErrNoCatalog is returned by Open when api.base_url is not set.
var ErrNoCatalog = errors.New("catalog API is not configured (set api.base_url)")

// Options tunes Open.
type Options struct {
	Version   string
	StatePath string        // defaults to the XDG data directory
	Engine    player.Engine // defaults to a StreamEngine
}

// Services holds the shared components. Lastfm and Reporter are nil when
// not configured.
type Services struct {
	Config      *config.Config
	State       *state.Manager
	Catalog     *catalog.Client
	Coordinator *playback.Coordinator
	Lastfm      *lastfm.Client
	Reporter    *telemetry.Reporter

	logger *log.Entry
	flush  func()
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mpris  *mpris.Adapter
}

// Open wires the state store, catalog client, playback engine and
// coordinator. Nothing runs in the background until Start.
func Open(cfg *config.Config, opts Options) (*Services, error) {
	if !cfg.HasAPIConfig() {
		return nil, ErrNoCatalog
	}

	s := &Services{
		Config: cfg,
		logger: logging.Module("services"),
		flush:  func() {},
	}

	if cfg.HasSentryConfig() {
		flush, err := telemetry.Init(telemetry.Options{
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			Release:     opts.Version,
		})
		if err != nil {
			s.logger.WithError(err).Warn("error reporting disabled")
		} else {
			s.flush = flush
			s.Reporter = telemetry.NewReporter(nil)
			log.AddHook(s.Reporter)
		}
	}

	st, err := openState(opts.StatePath)
	if err != nil {
		s.flush()
		return nil, fmt.Errorf("open state: %w", err)
	}
	s.State = st

	catOpts := []catalog.Option{
		catalog.WithTimeout(cfg.APITimeout()),
		catalog.WithToken(sessionToken(st)),
	}
	if cfg.API.AssetsPath != "" {
		catOpts = append(catOpts, catalog.WithAssetsPath(cfg.API.AssetsPath))
	}
	s.Catalog = catalog.New(cfg.API.BaseURL, catOpts...)

	engine := opts.Engine
	if engine == nil {
		engine = player.NewStreamEngine()
	}
	coordOpts := []playback.Option{playback.WithLogger(logging.Module("playback"))}
	if s.Reporter != nil {
		coordOpts = append(coordOpts, playback.WithErrorReporter(s.Reporter.ReportPlayback))
	}
	s.Coordinator = playback.New(engine, coordOpts...)

	if cfg.HasLastfmConfig() {
		s.Lastfm = lastfm.New(cfg.Lastfm.APIKey, cfg.Lastfm.APISecret)
		if sess, err := st.GetLastfmSession(); err != nil {
			s.logger.WithError(err).Warn("load Last.fm session")
		} else if sess != nil {
			s.Lastfm.SetSessionKey(sess.SessionKey)
		}
	}

	return s, nil
}

func openState(path string) (*state.Manager, error) {
	if path == "" {
		return state.Open()
	}
	return state.OpenPath(path)
}

// sessionToken reads the account token from the store on every request,
// so signing in or out takes effect without rebuilding the client.
func sessionToken(st state.SessionStore) catalog.TokenFunc {
	return func() string {
		sess, err := st.Session()
		if err != nil || sess == nil {
			return ""
		}
		return sess.Token
	}
}

// Start launches the desktop integrations and the scrobbler. Each follows
// its own coordinator subscription and stops on Close.
func (s *Services) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	adapter, err := mpris.New(s.Coordinator)
	if err != nil {
		s.logger.WithError(err).Warn("MPRIS unavailable")
	} else {
		s.mpris = adapter
	}

	if s.Config.NotificationsEnabled() {
		n, err := notify.New()
		if err != nil {
			s.logger.WithError(err).Warn("notifications unavailable")
		} else {
			s.run(ctx, notify.NewTrackWatcher(n).Run)
		}
	}

	if s.Lastfm != nil {
		s.run(ctx, lastfm.NewScrobbler(s.Lastfm, s.State).Run)
	}
}

func (s *Services) run(ctx context.Context, fn func(context.Context, *playback.Subscription)) {
	sub := s.Coordinator.Subscribe()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn(ctx, sub)
	}()
}

// RemoteServer builds the remote-control server, including the /session
// routes that sign the catalog account in. Sentry middleware is added when
// error reporting is on.
func (s *Services) RemoteServer() *remote.Server {
	opts := []remote.Option{
		remote.WithNotFound(catalog.ErrNotFound),
		remote.WithSessions(s.State),
	}
	if s.Config.Remote.Token != "" {
		opts = append(opts, remote.WithToken(s.Config.Remote.Token))
	}
	if s.Reporter != nil {
		opts = append(opts, remote.WithMiddleware(telemetry.GinMiddleware()))
	}
	return remote.New(s.Coordinator, s.Catalog, opts...)
}

// Close stops background work, releases the audio handle and closes the
// store. Safe to call once.
func (s *Services) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	if err := s.Coordinator.Close(); err != nil {
		s.logger.WithError(err).Warn("close coordinator")
	}
	s.wg.Wait()
	if s.mpris != nil {
		if err := s.mpris.Close(); err != nil {
			s.logger.WithError(err).Warn("close MPRIS")
		}
	}
	if err := s.State.Close(); err != nil {
		s.logger.WithError(err).Warn("close state")
	}
	s.flush()
}
