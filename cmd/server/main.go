// tilegrid-server starts an SSH server that runs one game per connection.
// Build:
//
//	go build -o tilegrid-server ./cmd/server
//
// Usage:
//
//	./tilegrid-server [--port 2222] [--key server_host_key] [--observe :8080]
//
// Connect with:
//
//	ssh -t -p 2222 localhost
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"unicode"
	"unicode/utf8"

	"tilegrid/internal/config"
	"tilegrid/internal/game"
	"tilegrid/internal/level"
	"tilegrid/internal/logger"
	"tilegrid/internal/observe"
	internalssh "tilegrid/internal/ssh"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	xssh "golang.org/x/crypto/ssh"
)

func main() {
	var (
		port    int
		keyFile string
	)
	cfg, err := config.Load("tilegrid-server", os.Args[1:], os.Getenv, func(fs *flag.FlagSet) {
		fs.IntVar(&port, "port", 2222, "SSH server port")
		fs.StringVar(&keyFile, "key", "server_host_key", "Path to the PEM-encoded host key (auto-generated if absent)")
	})
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	levels, err := level.Load(cfg.LevelsDir)
	if err != nil {
		log.WithError(err).Fatal("load levels")
	}
	for _, d := range levels.DanglingDoors() {
		log.WithField("door", d).Warn("door leads to an unknown level")
	}

	signer, err := loadOrCreateHostKey(keyFile, log)
	if err != nil {
		log.WithError(err).Fatal("host key")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var hub *observe.Hub
	if cfg.ObserveAddr != "" {
		hub = observe.NewHub()
		obs := observe.NewServer(hub, levels, logrus.NewEntry(log))
		go func() {
			if err := obs.ListenAndServe(ctx, cfg.ObserveAddr); err != nil {
				log.WithError(err).Error("observer stopped")
			}
		}()
	}

	h := &handler{
		levels: levels,
		opts:   game.OptionsFromConfig(cfg),
		hub:    hub,
		log:    log,
	}
	srv := &gossh.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: h.handleSession,
		// Accept PTY requests from any client.
		PtyCallback: func(_ gossh.Context, _ gossh.Pty) bool { return true },
		// Accept any authentication; appropriate for a private home server.
		// Add gossh.PublicKeyAuth or gossh.PasswordAuth options for real auth.
		HostSigners: []gossh.Signer{signer},
	}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	log.Infof("tilegrid SSH server listening on :%d", port)
	log.Infof("Connect with:  ssh -t -p %d -o StrictHostKeyChecking=no localhost", port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, gossh.ErrServerClosed) {
		log.WithError(err).Fatal("ssh server")
	}
}

// allowedTerms lists the TERM values a client may request. Anything else
// falls back to xterm-256color so the value never reaches terminfo lookup.
var allowedTerms = map[string]bool{
	"xterm":                 true,
	"xterm-256color":        true,
	"screen":                true,
	"screen-256color":       true,
	"tmux":                  true,
	"tmux-256color":         true,
	"linux":                 true,
	"vt100":                 true,
	"vt220":                 true,
	"rxvt-unicode":          true,
	"rxvt-unicode-256color": true,
}

const defaultTerm = "xterm-256color"

// maxNameLen is the longest display name, in runes.
const maxNameLen = 16

// sanitizeName drops control characters from an SSH user name and
// truncates it to maxNameLen runes.
func sanitizeName(name string) string {
	out := make([]rune, 0, maxNameLen)
	for _, r := range name {
		if r == utf8.RuneError || unicode.IsControl(r) || !unicode.IsPrint(r) {
			continue
		}
		if len(out) == maxNameLen {
			break
		}
		out = append(out, r)
	}
	return string(out)
}

type handler struct {
	levels *level.Registry
	opts   game.Options
	hub    *observe.Hub
	log    *logrus.Logger
}

// termMu protects os.Setenv("TERM") around screen creation.
var termMu sync.Mutex

// handleSession is the gliderlabs SSH handler for one connection. It blocks
// for the duration of the game so the SSH session stays open.
func (h *handler) handleSession(s gossh.Session) {
	session := uuid.NewString()
	name := sanitizeName(s.User())
	log := h.log.WithFields(logrus.Fields{
		"session": session,
		"user":    name,
		"remote":  s.RemoteAddr().String(),
	})

	tty, err := internalssh.NewTty(s)
	if err != nil {
		fmt.Fprintln(s, "This game requires a PTY. Connect with: ssh -t -p 2222 <host>")
		return
	}

	term := tty.Term()
	if !allowedTerms[term] {
		log.WithField("term", term).Debug("unsupported TERM, using default")
		term = defaultTerm
	}

	// TERM must be set in the process environment before NewTerminfoScreenFromTty.
	termMu.Lock()
	_ = os.Setenv("TERM", term)
	screen, err := tcell.NewTerminfoScreenFromTty(tty)
	termMu.Unlock()
	if err != nil {
		fmt.Fprintf(s, "Terminal setup failed: %v\n", err)
		return
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(s, "Screen init failed: %v\n", err)
		return
	}
	defer screen.Fini()

	opts := h.opts
	opts.Player = name
	opts.Session = session
	g, err := game.New(screen, h.levels, opts, log)
	if err != nil {
		log.WithError(err).Error("start game")
		return
	}
	if h.hub != nil {
		g.SetPublisher(h.hub)
		defer h.hub.End(session)
	}

	log.Info("player connected")
	if err := g.Run(s.Context()); err != nil {
		log.WithError(err).Warn("game ended with error")
	}
	log.Info("player disconnected")
}

// loadOrCreateHostKey loads a PEM private key from path, or generates and
// persists a new ed25519 key if the file is absent or unreadable.
func loadOrCreateHostKey(path string, log *logrus.Logger) (gossh.Signer, error) {
	if data, err := os.ReadFile(path); err == nil {
		if signer, err := xssh.ParsePrivateKey(data); err == nil {
			log.WithField("path", path).Info("loaded host key")
			return signer, nil
		}
	}

	log.WithField("path", path).Info("generating new ed25519 host key")
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate host key: %w", err)
	}
	signer, err := xssh.NewSignerFromKey(key)
	if err != nil {
		return nil, fmt.Errorf("create signer: %w", err)
	}
	// Persist for next run (non-fatal if it fails).
	if pemBlock, err := xssh.MarshalPrivateKey(key, "tilegrid server"); err == nil {
		if err := os.WriteFile(path, pem.EncodeToMemory(pemBlock), 0o600); err != nil {
			log.WithError(err).Warn("could not save host key")
		}
	}
	return signer, nil
}
