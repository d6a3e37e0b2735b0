// Package store holds the state of one game run: the current level and its
// entities, the player's position, score, health and collected items.
//
// A Store belongs to the goroutine running its frame loop and is not safe
// for concurrent use. Other goroutines only ever receive Snapshot values.
package store

import (
	"fmt"
	"sort"

	"tilegrid/internal/collision"
	"tilegrid/internal/component"
	"tilegrid/internal/ecs"
	"tilegrid/internal/factory"
	"tilegrid/internal/grid"
	"tilegrid/internal/level"

	"github.com/sirupsen/logrus"
)

// DefaultHealth is the player's starting health.
const DefaultHealth = 100

// Options configures a Store.
type Options struct {
	StartLevel  string
	StartHealth int
}

// Store is the single state container consumed by the frame loop, the
// renderer and the snapshot feed.
type Store struct {
	levels *level.Registry
	opts   Options
	log    *logrus.Entry

	def      *level.Definition
	grid     *grid.Grid
	world    *ecs.World
	playerID ecs.EntityID

	playerVisual collision.Vec3
	score        int
	health       int
	collected    map[string]bool
	visited      []string
	frame        uint64

	nextSub int
	subs    map[int]func(Event)
}

// New creates a Store positioned on opts.StartLevel.
func New(levels *level.Registry, opts Options, log *logrus.Entry) (*Store, error) {
	if opts.StartHealth <= 0 {
		opts.StartHealth = DefaultHealth
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	s := &Store{
		levels: levels,
		opts:   opts,
		log:    log,
		subs:   make(map[int]func(Event)),
	}
	if err := s.start(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) start() error {
	def, err := s.levels.Lookup(s.opts.StartLevel)
	if err != nil {
		return fmt.Errorf("start level: %w", err)
	}
	s.score = 0
	s.health = s.opts.StartHealth
	s.visited = nil
	s.load(def)
	return nil
}

// load swaps in def as the current level: a fresh world with the level's
// entities and the player on the spawn point.
func (s *Store) load(def *level.Definition) {
	s.def = def
	s.grid = grid.New(def.GroundGrid)
	s.world = ecs.NewWorld()
	s.playerID = factory.NewPlayer(s.world, def.SpawnPoint, s.grid.Dimensions())
	s.playerVisual = grid.ToWorld(def.SpawnPoint, s.grid.Dimensions(), grid.DefaultWorld)
	s.InitializeEntities(def.Entities)
	s.tripPortalsAt(def.SpawnPoint)
	s.visited = append(s.visited, def.ID)
	s.log.WithFields(logrus.Fields{"level": def.ID, "entities": s.world.Count()}).Debug("level loaded")
}

// tripPortalsAt disarms the portals on p so a player arriving on a door
// has to step off it before it can fire.
func (s *Store) tripPortalsAt(p grid.Position) {
	for _, id := range s.world.Query(component.CPortal, component.CGridPos) {
		if s.world.Get(id, component.CGridPos).(component.GridPos).Position != p {
			continue
		}
		portal := s.world.Get(id, component.CPortal).(component.Portal)
		portal.Tripped = true
		s.world.Add(id, portal)
	}
}

// Subscribe registers fn to receive every Event. The returned function
// removes the subscription.
func (s *Store) Subscribe(fn func(Event)) func() {
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

func (s *Store) emit(ev Event) {
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := s.subs[id]; ok {
			fn(ev)
		}
	}
}

// Level returns the current level definition.
func (s *Store) Level() *level.Definition { return s.def }

// LevelID returns the current level ID.
func (s *Store) LevelID() string { return s.def.ID }

// Grid returns the current level's tile grid.
func (s *Store) Grid() *grid.Grid { return s.grid }

// World returns the current level's entity world.
func (s *Store) World() *ecs.World { return s.world }

// PlayerID returns the player's entity.
func (s *Store) PlayerID() ecs.EntityID { return s.playerID }

// Score returns the accumulated score.
func (s *Store) Score() int { return s.score }

// Health returns the player's health.
func (s *Store) Health() int { return s.health }

// Dead reports whether the player has run out of health.
func (s *Store) Dead() bool { return s.health <= 0 }

// Frame returns the frame counter last set with SetFrame.
func (s *Store) Frame() uint64 { return s.frame }

// SetFrame records the current frame number.
func (s *Store) SetFrame(n uint64) { s.frame = n }

// Visited returns the IDs of levels entered this run, in order.
func (s *Store) Visited() []string {
	return append([]string(nil), s.visited...)
}

// PlayerGridPosition returns the player's logical cell.
func (s *Store) PlayerGridPosition() grid.Position {
	return s.world.Get(s.playerID, component.CGridPos).(component.GridPos).Position
}

// SetPlayerGridPosition moves the player's logical cell.
func (s *Store) SetPlayerGridPosition(p grid.Position) {
	s.world.Add(s.playerID, component.GridPos{Position: p})
}

// PlayerVisualPosition returns where the player is drawn in world space.
func (s *Store) PlayerVisualPosition() collision.Vec3 { return s.playerVisual }

// SetPlayerVisualPosition records where the player is drawn.
func (s *Store) SetPlayerVisualPosition(v collision.Vec3) {
	s.playerVisual = v
	s.world.Add(s.playerID, component.Visual{Vec3: v})
}

// InitializeEntities replaces the level entities with defs and clears the
// collected set. The player entity is kept. Definitions outside the grid
// are skipped with a warning.
func (s *Store) InitializeEntities(defs []level.EntityDefinition) {
	for _, id := range s.world.Query(component.CKind) {
		s.world.DestroyEntity(id)
	}
	inside := make([]level.EntityDefinition, 0, len(defs))
	for _, d := range defs {
		if !s.grid.InBounds(d.Position) {
			s.log.WithFields(logrus.Fields{"level": s.def.ID, "entity": d.ID()}).Warn("entity outside the grid skipped")
			continue
		}
		inside = append(inside, d)
	}
	factory.SpawnAll(s.world, inside, s.grid.Dimensions())
	s.collected = make(map[string]bool)
}

// UpdateEntityPosition moves the entity registered under id. It reports
// false when there is no such entity or p lies outside the grid.
func (s *Store) UpdateEntityPosition(id string, p grid.Position) bool {
	eid, ok := s.world.Lookup(id)
	if !ok || eid == s.playerID || !s.grid.InBounds(p) {
		return false
	}
	s.world.Add(eid, component.GridPos{Position: p})
	if sz, ok := s.world.Get(eid, component.CSize).(component.Size); ok {
		v := grid.ToWorld(p, s.grid.Dimensions(), grid.DefaultWorld)
		v.Y = sz.Y / 2
		s.world.Add(eid, component.Visual{Vec3: v})
	}
	return true
}

// RemoveEntity destroys the entity registered under id.
func (s *Store) RemoveEntity(id string) bool {
	eid, ok := s.world.Lookup(id)
	if !ok || eid == s.playerID {
		return false
	}
	s.world.DestroyEntity(eid)
	delete(s.collected, id)
	return true
}

// AddScore adds points to the score.
func (s *Store) AddScore(points int) {
	s.score += points
	s.emit(Event{Kind: EventScore, Amount: points})
}

// TakeDamage lowers health by n, never below zero. The hit that brings
// health to zero also emits EventDefeated.
func (s *Store) TakeDamage(n int) {
	if n <= 0 || s.Dead() {
		return
	}
	s.health -= n
	if s.health < 0 {
		s.health = 0
	}
	s.emit(Event{Kind: EventDamage, Amount: n})
	if s.Dead() {
		s.log.WithField("level", s.def.ID).Info("player defeated")
		s.emit(Event{Kind: EventDefeated, Level: s.def.ID})
	}
}

// CollectEntity marks id as collected. It reports whether the entity was
// newly collected; repeated calls are no-ops.
func (s *Store) CollectEntity(id string) bool {
	if s.collected[id] {
		return false
	}
	s.collected[id] = true
	s.emit(Event{Kind: EventCollect, Entity: id})
	return true
}

// IsCollected reports whether id has been collected on this level.
func (s *Store) IsCollected(id string) bool { return s.collected[id] }

// ResetCollectedEntities forgets every collected entity on this level.
func (s *Store) ResetCollectedEntities() {
	s.collected = make(map[string]bool)
}

// Active reports whether eid is a live level entity that has not been
// collected.
func (s *Store) Active(eid ecs.EntityID) bool {
	return s.world.Alive(eid) && !s.collected[s.world.Key(eid)]
}

// TransitionToLevel makes id the current level: entities are rebuilt, the
// collected set is cleared and the player moves to the spawn point. Score
// and health carry over. An unknown id logs a warning and changes nothing.
func (s *Store) TransitionToLevel(id string) error {
	def, err := s.levels.Lookup(id)
	if err != nil {
		s.log.WithField("level", id).Warn("level not found")
		return err
	}
	from := s.def.ID
	s.load(def)
	s.log.WithFields(logrus.Fields{"from": from, "level": def.ID}).Infof("Transitioned to %s", def.Name)
	s.emit(Event{Kind: EventTransition, Level: def.ID})
	return nil
}

// Reset starts a new run on the start level.
func (s *Store) Reset() error {
	if err := s.start(); err != nil {
		return err
	}
	s.emit(Event{Kind: EventReset, Level: s.def.ID})
	return nil
}
