package game

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Run outcomes.
const (
	OutcomeDefeat = "defeat"
	OutcomeQuit   = "quit"
)

// RunLog records statistics gathered during one run.
type RunLog struct {
	Player         string    `json:"player,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	LevelsVisited  []string  `json:"levels_visited"`
	Score          int       `json:"score"`
	Health         int       `json:"health"`
	ItemsCollected int       `json:"items_collected"`
	DamageTaken    int       `json:"damage_taken"`
	Frames         uint64    `json:"frames"`
	Outcome        string    `json:"outcome"`
}

// saveRunLog appends the completed run as a single JSON line to runs.jsonl.
// Errors are returned for logging only; a disk problem never ends the game.
func saveRunLog(log RunLog) error {
	dir, err := runLogDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(dir, "runs.jsonl"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := json.Marshal(log)
	if err != nil {
		return err
	}
	_, err = f.Write(append(data, '\n'))
	return err
}

// runLogDir returns the directory where run logs are stored:
// $XDG_DATA_HOME/tilegrid, defaulting to ~/.local/share/tilegrid.
func runLogDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "tilegrid"), nil
}
