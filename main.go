// tilegrid runs the game in the local terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tilegrid/internal/config"
	"tilegrid/internal/game"
	"tilegrid/internal/level"
	"tilegrid/internal/logger"
	"tilegrid/internal/observe"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("tilegrid", os.Args[1:], os.Getenv, nil)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	// The screen owns stdout, so logs go to a file.
	logFile, err := logger.OpenFile()
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	log := logger.Init(cfg.LogLevel, cfg.LogFormat, logFile)

	levels, err := level.Load(cfg.LevelsDir)
	if err != nil {
		return err
	}
	for _, d := range levels.DanglingDoors() {
		log.WithField("door", d).Warn("door leads to an unknown level")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	opts := game.OptionsFromConfig(cfg)
	opts.Player = os.Getenv("USER")
	opts.Session = "local"
	g, err := game.New(screen, levels, opts, logrus.NewEntry(log))
	if err != nil {
		return err
	}

	if cfg.ObserveAddr != "" {
		hub := observe.NewHub()
		g.SetPublisher(hub)
		obs := observe.NewServer(hub, levels, logrus.NewEntry(log))
		go func() {
			if err := obs.ListenAndServe(ctx, cfg.ObserveAddr); err != nil {
				log.WithError(err).Error("observer stopped")
			}
		}()
	}

	return g.Run(ctx)
}
