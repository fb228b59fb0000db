// Command wavecastd runs the playback coordinator without a terminal UI,
// driven by MPRIS and the remote-control HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/llehouerou/wavecast/internal/config"
	"github.com/llehouerou/wavecast/internal/errmsg"
	"github.com/llehouerou/wavecast/internal/logging"
	"github.com/llehouerou/wavecast/internal/services"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		log.WithError(err).Error("wavecastd exited")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Log to the terminal unless a file is configured.
	if cfg.Log.File != "" {
		f, err := logging.Setup(cfg.LogLevel(), cfg.LogFile())
		if err != nil {
			return err
		}
		defer f.Close()
	} else {
		logging.Configure(log.StandardLogger(), cfg.LogLevel(), os.Stderr, true)
	}

	svc, err := services.Open(cfg, services.Options{Version: version})
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer svc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	svc.Start(ctx)

	addr := cfg.RemoteListen()
	log.WithFields(log.Fields{"version": version, "addr": addr}).Info("wavecastd starting")
	if err := svc.RemoteServer().Serve(ctx, addr); err != nil {
		return errors.New(errmsg.Format(errmsg.OpRemoteStart, err))
	}
	log.Info("wavecastd stopped")
	return nil
}
