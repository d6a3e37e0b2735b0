// Package config loads game settings from defaults, an optional YAML file,
// TILEGRID_* environment variables and command-line flags, in that order of
// increasing precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned when a setting is out of range.
var ErrInvalid = errors.New("invalid config")

// Movement modes.
const (
	MovementGrid = "grid"
	MovementFree = "free"
)

// Config holds every tunable setting.
type Config struct {
	TickRate        int     `yaml:"tick_rate"`
	MoveSpeed       float64 `yaml:"move_speed"`
	FreeSpeed       float64 `yaml:"free_speed"`
	Movement        string  `yaml:"movement"`
	HoldFrames      int     `yaml:"hold_frames"`
	ContactCooldown float64 `yaml:"contact_cooldown"` // seconds
	StartHealth     int     `yaml:"start_health"`
	StartLevel      string  `yaml:"start_level"`
	LevelsDir       string  `yaml:"levels_dir"`
	ObserveAddr     string  `yaml:"observe_addr"`
	LogLevel        string  `yaml:"log_level"`
	LogFormat       string  `yaml:"log_format"`
	RunLog          bool    `yaml:"run_log"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		TickRate:        60,
		MoveSpeed:       0.02,
		FreeSpeed:       0.1,
		Movement:        MovementGrid,
		HoldFrames:      30,
		ContactCooldown: 1.0,
		StartHealth:     100,
		StartLevel:      "demo1",
		LogLevel:        "info",
		LogFormat:       "text",
		RunLog:          true,
	}
}

// Load builds a Config for the program name from args and the environment.
// extra, when non-nil, registers additional program flags on the flag set.
func Load(name string, args []string, getenv func(string) string, extra func(*flag.FlagSet)) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	// First pass only finds -config; errors surface in the second pass.
	path := getenv("TILEGRID_CONFIG")
	pre := flag.NewFlagSet(name, flag.ContinueOnError)
	pre.SetOutput(io.Discard)
	scratch := Default()
	scratch.bind(pre)
	if extra != nil {
		extra(pre)
	}
	pre.StringVar(&path, "config", path, "")
	_ = pre.Parse(args)

	cfg := Default()
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.ApplyEnv(getenv); err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	cfg.bind(fs)
	if extra != nil {
		extra(fs)
	}
	fs.String("config", path, "Path to a YAML config file (env TILEGRID_CONFIG)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// LoadFile merges the YAML file at path into c. Unknown keys are errors.
func (c *Config) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides c with any TILEGRID_* variables that are set.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	for _, e := range []struct {
		key string
		set func(string) error
	}{
		{"TILEGRID_TICK_RATE", intSetter(&c.TickRate)},
		{"TILEGRID_MOVE_SPEED", floatSetter(&c.MoveSpeed)},
		{"TILEGRID_FREE_SPEED", floatSetter(&c.FreeSpeed)},
		{"TILEGRID_MOVEMENT", stringSetter(&c.Movement)},
		{"TILEGRID_HOLD_FRAMES", intSetter(&c.HoldFrames)},
		{"TILEGRID_CONTACT_COOLDOWN", floatSetter(&c.ContactCooldown)},
		{"TILEGRID_START_HEALTH", intSetter(&c.StartHealth)},
		{"TILEGRID_START_LEVEL", stringSetter(&c.StartLevel)},
		{"TILEGRID_LEVELS_DIR", stringSetter(&c.LevelsDir)},
		{"TILEGRID_OBSERVE_ADDR", stringSetter(&c.ObserveAddr)},
		{"TILEGRID_LOG_LEVEL", stringSetter(&c.LogLevel)},
		{"TILEGRID_LOG_FORMAT", stringSetter(&c.LogFormat)},
		{"TILEGRID_RUN_LOG", boolSetter(&c.RunLog)},
	} {
		v := getenv(e.key)
		if v == "" {
			continue
		}
		if err := e.set(v); err != nil {
			return fmt.Errorf("%s: %w", e.key, err)
		}
	}
	return nil
}

func intSetter(p *int) func(string) error {
	return func(s string) error {
		v, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*p = v
		return nil
	}
}

func floatSetter(p *float64) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*p = v
		return nil
	}
}

func boolSetter(p *bool) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		*p = v
		return nil
	}
}

func stringSetter(p *string) func(string) error {
	return func(s string) error {
		*p = s
		return nil
	}
}

// bind registers one flag per setting on fs, defaulting to c's values.
func (c *Config) bind(fs *flag.FlagSet) {
	fs.IntVar(&c.TickRate, "tick-rate", c.TickRate, "Frames per second")
	fs.Float64Var(&c.MoveSpeed, "move-speed", c.MoveSpeed, "Fraction of a grid step animated per frame")
	fs.Float64Var(&c.FreeSpeed, "free-speed", c.FreeSpeed, "World units moved per frame in free movement")
	fs.StringVar(&c.Movement, "movement", c.Movement, "Movement mode: grid or free")
	fs.IntVar(&c.HoldFrames, "hold-frames", c.HoldFrames, "Frames a key counts as held after its last key event")
	fs.Float64Var(&c.ContactCooldown, "contact-cooldown", c.ContactCooldown, "Seconds between hits from the same enemy")
	fs.IntVar(&c.StartHealth, "health", c.StartHealth, "Starting health")
	fs.StringVar(&c.StartLevel, "level", c.StartLevel, "Starting level ID")
	fs.StringVar(&c.LevelsDir, "levels", c.LevelsDir, "Directory of extra YAML level files")
	fs.StringVar(&c.ObserveAddr, "observe", c.ObserveAddr, "Address for the websocket snapshot feed (empty disables it)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "Log format: text or json")
	fs.BoolVar(&c.RunLog, "run-log", c.RunLog, "Append a summary of each run to runs.jsonl")
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	switch {
	case c.TickRate < 1 || c.TickRate > 1000:
		return fmt.Errorf("%w: tick rate %d not in [1, 1000]", ErrInvalid, c.TickRate)
	case c.MoveSpeed <= 0 || c.MoveSpeed > 1:
		return fmt.Errorf("%w: move speed %v not in (0, 1]", ErrInvalid, c.MoveSpeed)
	case c.FreeSpeed <= 0 || c.FreeSpeed > 1:
		return fmt.Errorf("%w: free speed %v not in (0, 1]", ErrInvalid, c.FreeSpeed)
	case c.Movement != MovementGrid && c.Movement != MovementFree:
		return fmt.Errorf("%w: movement %q must be grid or free", ErrInvalid, c.Movement)
	case c.HoldFrames < 1:
		return fmt.Errorf("%w: hold frames %d must be positive", ErrInvalid, c.HoldFrames)
	case c.ContactCooldown < 0:
		return fmt.Errorf("%w: contact cooldown %v is negative", ErrInvalid, c.ContactCooldown)
	case c.StartHealth < 1:
		return fmt.Errorf("%w: start health %d must be positive", ErrInvalid, c.StartHealth)
	case strings.TrimSpace(c.StartLevel) == "":
		return fmt.Errorf("%w: start level is empty", ErrInvalid)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log format %q must be text or json", ErrInvalid, c.LogFormat)
	}
	return nil
}
