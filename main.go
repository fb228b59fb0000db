package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/llehouerou/wavecast/internal/app"
	"github.com/llehouerou/wavecast/internal/config"
	"github.com/llehouerou/wavecast/internal/errmsg"
	"github.com/llehouerou/wavecast/internal/logging"
	"github.com/llehouerou/wavecast/internal/services"
	"github.com/llehouerou/wavecast/internal/stderr"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFile, err := logging.Setup(cfg.LogLevel(), cfg.LogFile())
	if err != nil {
		return err
	}
	defer logFile.Close()

	// Decoders and the audio backend may write to stderr, which would
	// corrupt the screen. Capture it before the engine starts.
	capture, err := stderr.Start()
	if err != nil {
		log.WithError(err).Warn("stderr capture unavailable")
	} else {
		defer capture.Stop()
	}

	svc, err := services.Open(cfg, services.Options{Version: version})
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)

	if cfg.HasRemoteConfig() {
		srv := svc.RemoteServer()
		go func() {
			if err := srv.Serve(ctx, cfg.RemoteListen()); err != nil {
				log.WithError(err).Error(errmsg.Format(errmsg.OpRemoteStart, err))
			}
		}()
	}

	deps := app.Deps{
		Service:        svc.Coordinator,
		Catalog:        svc.Catalog,
		Favorites:      svc.State,
		Lastfm:         svc.Lastfm,
		LastfmStore:    svc.State,
		LastfmCallback: cfg.Lastfm.CallbackAddr,
	}
	if capture != nil {
		deps.Stderr = capture.Lines()
	}

	p := tea.NewProgram(app.New(deps), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
