package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"damagecontrol/internal/config"
	"damagecontrol/internal/domain"
	"damagecontrol/internal/events"
	"damagecontrol/internal/logging"
	"damagecontrol/internal/report"
	"damagecontrol/internal/repo"
)

const (
	entitySystem     = "system"
	entityDamageStep = "damage_step"
	entityDamageTask = "damage_task"

	reactivationAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	reactivationLength   = 8
)

type Engine struct {
	DB       *sql.DB
	Repo     repo.Repo
	Events   events.Writer
	Config   *config.Config
	Settings config.Settings
	Log      *logrus.Logger
	Now      func() time.Time
	Rand     report.Rand
}

// New builds an engine over an open, migrated store. A zero seed seeds the
// random source from the clock.
func New(db *sql.DB, cfg *config.Config, settings config.Settings, log *logrus.Logger) Engine {
	if log == nil {
		log = logging.Discard()
	}
	seed := settings.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return Engine{
		DB:       db,
		Repo:     repo.Repo{DB: db},
		Events:   events.Writer{Now: time.Now},
		Config:   cfg,
		Settings: settings,
		Log:      log,
		Now:      time.Now,
		Rand:     NewLockedRand(seed),
	}
}

// LockedRand is a seeded random source safe for concurrent use.
type LockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func NewLockedRand(seed int64) *LockedRand {
	return &LockedRand{r: rand.New(rand.NewSource(seed))}
}

func (l *LockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (e Engine) log() *logrus.Logger {
	if e.Log == nil {
		return logging.Discard()
	}
	return e.Log
}

func (e Engine) rand() report.Rand {
	if e.Rand == nil {
		return NewLockedRand(time.Now().UnixNano())
	}
	return e.Rand
}

func (e Engine) steps(n int) int {
	if n > 0 {
		return n
	}
	if e.Settings.Steps > 0 {
		return e.Settings.Steps
	}
	return report.DefaultSteps
}

// mutation changes a loaded system and returns the payload of its event.
type mutation func(sys *domain.System) (events.EventPayload, error)

// mutate loads the system, applies fn, saves it and appends the event in one
// transaction. Any failure rolls back, leaving the stored system as it was.
func (e Engine) mutate(ctx context.Context, systemID, actorID, evtType, entityKind string, fn mutation) (*domain.System, error) {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	sys, err := e.Repo.GetSystemTx(ctx, tx, systemID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			e.log().WithFields(logrus.Fields{"system_id": systemID, "event": evtType}).Warn("system not found")
			return nil, fmt.Errorf("system %s: %w", systemID, err)
		}
		return nil, err
	}
	payload, err := fn(sys)
	if err != nil {
		return nil, err
	}
	if err := e.Repo.SaveSystem(ctx, tx, sys); err != nil {
		return nil, fmt.Errorf("save system %s: %w", sys.ID, err)
	}
	entityID := sys.ID
	if id, ok := payload["id"].(string); ok && entityKind != entitySystem {
		entityID = id
	}
	w := e.Events
	if e.Now != nil {
		w.Now = e.Now
	}
	if err := w.Append(ctx, tx, evtType, sys.SimulatorID, entityKind, entityID, actorID, payload); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	e.log().WithFields(logrus.Fields{
		"system_id":    sys.ID,
		"simulator_id": sys.SimulatorID,
		"event":        evtType,
	}).Debug("system updated")
	return sys, nil
}

func (e Engine) GetSystem(ctx context.Context, id string) (*domain.System, error) {
	sys, err := e.Repo.GetSystem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("system %s: %w", id, err)
	}
	return sys, nil
}

// Snapshot gathers the read-only view of the system's simulator.
func (e Engine) Snapshot(ctx context.Context, sys *domain.System) (report.Snapshot, error) {
	sim, err := e.Repo.GetSimulator(ctx, sys.SimulatorID)
	if err != nil {
		return report.Snapshot{}, fmt.Errorf("simulator %s: %w", sys.SimulatorID, err)
	}
	snap := report.Snapshot{Simulator: sim}
	if snap.Decks, err = e.Repo.ListDecks(ctx, sim.ID); err != nil {
		return report.Snapshot{}, err
	}
	if snap.Rooms, err = e.Repo.RoomsByID(ctx, sys.Locations); err != nil {
		return report.Snapshot{}, err
	}
	if snap.SimulatorRooms, err = e.Repo.ListRooms(ctx, sim.ID); err != nil {
		return report.Snapshot{}, err
	}
	if snap.Crew, err = e.Repo.ListCrew(ctx, sim.ID); err != nil {
		return report.Snapshot{}, err
	}
	if snap.Inventory, err = e.Repo.ListInventory(ctx, sim.ID); err != nil {
		return report.Snapshot{}, err
	}
	if snap.Exocomps, err = e.Repo.ListExocomps(ctx, sim.ID); err != nil {
		return report.Snapshot{}, err
	}
	if snap.SoftwarePanels, err = e.Repo.ListSoftwarePanels(ctx, sim.ID); err != nil {
		return report.Snapshot{}, err
	}
	return snap, nil
}

// systemAndSnapshot reads a system and its snapshot outside any transaction.
func (e Engine) systemAndSnapshot(ctx context.Context, id string) (*domain.System, report.Snapshot, error) {
	sys, err := e.GetSystem(ctx, id)
	if err != nil {
		return nil, report.Snapshot{}, err
	}
	snap, err := e.Snapshot(ctx, sys)
	if err != nil {
		return nil, report.Snapshot{}, err
	}
	return sys, snap, nil
}

// NewReactivationCode draws a code from the engine's random source.
func (e Engine) NewReactivationCode() string {
	r := e.rand()
	b := make([]byte, reactivationLength)
	for i := range b {
		b[i] = reactivationAlphabet[r.Intn(len(reactivationAlphabet))]
	}
	return string(b)
}
