// Package game runs the frame loop: it reads keys from a tcell screen,
// advances movement and interactions once per frame, draws the level and
// publishes snapshots.
package game

import (
	"context"
	"fmt"
	"time"

	"tilegrid/internal/config"
	"tilegrid/internal/level"
	"tilegrid/internal/render"
	"tilegrid/internal/store"
	"tilegrid/internal/system"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
)

// Options configures a Game.
type Options struct {
	TickRate        int
	Movement        string // config.MovementGrid or config.MovementFree
	MoveSpeed       float64
	FreeSpeed       float64
	HoldFrames      uint64
	ContactCooldown uint64 // frames
	StartLevel      string
	StartHealth     int
	Player          string // shown in the HUD and the run log
	Session         string // published with every snapshot
	SaveRunLog      bool
}

// OptionsFromConfig converts loaded settings into game options.
func OptionsFromConfig(c config.Config) Options {
	return Options{
		TickRate:        c.TickRate,
		Movement:        c.Movement,
		MoveSpeed:       c.MoveSpeed,
		FreeSpeed:       c.FreeSpeed,
		HoldFrames:      uint64(c.HoldFrames),
		ContactCooldown: SecsToTicks(c.ContactCooldown, c.TickRate),
		StartLevel:      c.StartLevel,
		StartHealth:     c.StartHealth,
		SaveRunLog:      c.RunLog,
	}
}

// Publisher receives a snapshot after every frame.
type Publisher interface {
	Publish(session string, snap store.Snapshot)
}

// Game is the top-level orchestrator for one player.
type Game struct {
	screen     tcell.Screen
	renderer   *render.Renderer
	store      *store.Store
	opts       Options
	log        *logrus.Entry
	publisher  Publisher
	held       *HeldKeys
	stepper    *system.Stepper
	free       *system.FreeMover
	interactor *system.Interactor

	frame    uint64
	messages []string
	runLog   RunLog
	saved    bool // runLog already written for this run
	quit     bool
}

// New creates a Game drawing to screen. The screen must already be
// initialised; the caller finalises it after Run returns.
func New(screen tcell.Screen, levels *level.Registry, opts Options, log *logrus.Entry) (*Game, error) {
	if opts.TickRate <= 0 {
		opts.TickRate = DefaultTickRate
	}
	if opts.Movement == "" {
		opts.Movement = config.MovementGrid
	}
	if opts.StartLevel == "" {
		opts.StartLevel = config.Default().StartLevel
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	st, err := store.New(levels, store.Options{StartLevel: opts.StartLevel, StartHealth: opts.StartHealth}, log)
	if err != nil {
		return nil, err
	}
	if opts.StartHealth <= 0 {
		opts.StartHealth = st.Health()
	}

	g := &Game{
		screen:     screen,
		renderer:   render.NewRenderer(screen),
		store:      st,
		opts:       opts,
		log:        log,
		held:       NewHeldKeys(opts.HoldFrames),
		stepper:    system.NewStepper(opts.MoveSpeed),
		free:       system.NewFreeMover(opts.FreeSpeed),
		interactor: system.NewInteractor(opts.ContactCooldown),
	}
	st.Subscribe(g.onEvent)
	g.resetForRun()
	return g, nil
}

// SetPublisher makes the game publish a snapshot after every frame.
func (g *Game) SetPublisher(p Publisher) { g.publisher = p }

// Store returns the game's state.
func (g *Game) Store() *store.Store { return g.store }

// resetForRun clears all per-run state in preparation for a fresh start.
func (g *Game) resetForRun() {
	g.messages = nil
	g.saved = false
	g.held.Clear()
	g.stepper.Reset()
	g.runLog = RunLog{Player: g.opts.Player, StartedAt: time.Now()}
	g.addMessage(fmt.Sprintf("You enter %s.", g.store.Level().Name))
}

// Run is the main game loop. It returns when the player quits, the screen
// is closed or ctx is cancelled.
func (g *Game) Run(ctx context.Context) error {
	defer g.finish()

	g.log.WithFields(logrus.Fields{
		"level":    g.store.LevelID(),
		"movement": g.opts.Movement,
	}).Info("game started")

	// PollEvent blocks, so keys are read on their own goroutine and handed
	// to the loop; all state changes happen here.
	events := make(chan tcell.Event, 32)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(g.opts.TickRate))
	defer ticker.Stop()

	g.draw()
	for !g.quit {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil // screen closed / disconnected
			}
			g.handleEvent(ev)
		case <-ticker.C:
			g.tick()
		}
	}
	return nil
}

func (g *Game) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		g.screen.Sync()
		g.renderer.Resize()
	case *tcell.EventKey:
		action := keyToAction(ev)
		switch action {
		case ActionQuit:
			g.quit = true
		case ActionRestart:
			if g.store.Dead() {
				g.restart()
			}
		default:
			g.held.Press(actionToDirection(action), g.frame)
		}
	}
}

// tick advances one frame.
func (g *Game) tick() {
	g.frame++
	g.store.SetFrame(g.frame)
	g.runLog.Frames++
	g.held.Expire(g.frame)

	if !g.store.Dead() {
		settled := true
		if g.opts.Movement == config.MovementFree {
			g.free.Update(g.store, g.held.Held())
		} else {
			g.stepper.Update(g.store, g.held.Current())
			settled = g.stepper.Settled()
		}
		g.interactor.Update(g.store, g.frame, settled)
	}

	g.draw()
	if g.publisher != nil {
		g.publisher.Publish(g.opts.Session, g.store.Snapshot())
	}
}

func (g *Game) draw() {
	g.renderer.DrawFrame(g.store)
	g.renderer.DrawHUD(render.HUD{
		Player:    g.opts.Player,
		Level:     g.store.Level().Name,
		Health:    g.store.Health(),
		MaxHealth: g.opts.StartHealth,
		Score:     g.store.Score(),
		Mode:      g.opts.Movement,
		Messages:  g.messages,
		Dead:      g.store.Dead(),
	})
}

func (g *Game) restart() {
	if err := g.store.Reset(); err != nil {
		g.log.WithError(err).Error("restart failed")
		return
	}
	g.log.Info("run restarted")
}

// onEvent turns store events into HUD messages and run statistics.
func (g *Game) onEvent(ev store.Event) {
	switch ev.Kind {
	case store.EventCollect:
		g.runLog.ItemsCollected++
	case store.EventScore:
		g.addMessage(fmt.Sprintf("+%d points", ev.Amount))
	case store.EventDamage:
		g.runLog.DamageTaken += ev.Amount
		g.addMessage(fmt.Sprintf("Ouch! -%d HP", ev.Amount))
	case store.EventDefeated:
		g.addMessage("You were defeated. Press R to try again or Q to quit.")
		g.endRun(OutcomeDefeat)
	case store.EventTransition:
		g.stepper.Reset()
		g.addMessage(fmt.Sprintf("You enter %s.", g.store.Level().Name))
	case store.EventReset:
		g.resetForRun()
	}
}

// endRun fills in and saves the run log once per run.
func (g *Game) endRun(outcome string) {
	if g.saved {
		return
	}
	g.saved = true
	g.runLog.Outcome = outcome
	g.runLog.LevelsVisited = g.store.Visited()
	g.runLog.Score = g.store.Score()
	g.runLog.Health = g.store.Health()

	g.log.WithFields(logrus.Fields{
		"outcome": outcome,
		"score":   g.runLog.Score,
		"frames":  g.runLog.Frames,
	}).Info("run finished")
	if !g.opts.SaveRunLog {
		return
	}
	if err := saveRunLog(g.runLog); err != nil {
		g.log.WithError(err).Warn("could not save run log")
	}
}

func (g *Game) finish() {
	g.endRun(OutcomeQuit)
}

func (g *Game) addMessage(msg string) {
	g.messages = append(g.messages, msg)
	if len(g.messages) > 50 {
		g.messages = g.messages[len(g.messages)-50:]
	}
}
