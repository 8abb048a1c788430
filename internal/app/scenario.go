package app

import (
	"context"
	"fmt"

	"damagecontrol/internal/config"
	"damagecontrol/internal/domain"
	"damagecontrol/internal/events"
	"damagecontrol/internal/repo"
)

// LoadScenario writes the scenario's simulator, surroundings and systems to
// the store in one transaction and returns the created systems.
func LoadScenario(ctx context.Context, r repo.Repo, w events.Writer, cfg *config.Config, actorID string) ([]*domain.System, error) {
	if cfg == nil {
		return nil, fmt.Errorf("scenario not loaded")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if actorID == "" {
		actorID = "local-user"
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := r.InsertSimulator(ctx, tx, cfg.Simulator); err != nil {
		return nil, fmt.Errorf("insert simulator: %w", err)
	}
	for _, d := range cfg.Decks {
		if err := r.InsertDeck(ctx, tx, d); err != nil {
			return nil, fmt.Errorf("insert deck %s: %w", d.ID, err)
		}
	}
	for _, rm := range cfg.Rooms {
		if err := r.InsertRoom(ctx, tx, rm); err != nil {
			return nil, fmt.Errorf("insert room %s: %w", rm.ID, err)
		}
	}
	for _, c := range cfg.Crew {
		if err := r.InsertCrew(ctx, tx, c); err != nil {
			return nil, fmt.Errorf("insert crew %s: %w", c.ID, err)
		}
	}
	for _, it := range cfg.Inventory {
		if err := r.InsertInventory(ctx, tx, it); err != nil {
			return nil, fmt.Errorf("insert inventory %s: %w", it.ID, err)
		}
	}
	for _, x := range cfg.Exocomps {
		if err := r.InsertExocomp(ctx, tx, x); err != nil {
			return nil, fmt.Errorf("insert exocomp %s: %w", x.ID, err)
		}
	}
	for _, p := range cfg.SoftwarePanels {
		if err := r.InsertSoftwarePanel(ctx, tx, p); err != nil {
			return nil, fmt.Errorf("insert software panel %s: %w", p.ID, err)
		}
	}
	systems := make([]*domain.System, 0, len(cfg.Systems))
	for _, params := range cfg.Systems {
		sys := domain.NewSystem(params)
		if err := r.InsertSystem(ctx, tx, sys); err != nil {
			return nil, fmt.Errorf("insert system %s: %w", sys.Name, err)
		}
		systems = append(systems, sys)
	}
	payload := events.EventPayload{
		"name":    cfg.Simulator.Name,
		"systems": len(systems),
		"rooms":   len(cfg.Rooms),
		"crew":    len(cfg.Crew),
	}
	if err := w.Append(ctx, tx, events.ScenarioLoaded, cfg.Simulator.ID, "simulator", cfg.Simulator.ID, actorID, payload); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return systems, nil
}
