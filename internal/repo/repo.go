package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"damagecontrol/internal/domain"
)

type Repo struct {
	DB *sql.DB
}

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var ErrNotFound = fmt.Errorf("store: %w", domain.ErrNotFound)

// q returns tx when set, otherwise the pool.
func (r Repo) q(tx *sql.Tx) DBTX {
	if tx != nil {
		return tx
	}
	return r.DB
}

func (r Repo) InsertSimulator(ctx context.Context, tx *sql.Tx, sim domain.Simulator) error {
	data, err := json.Marshal(sim)
	if err != nil {
		return err
	}
	_, err = r.q(tx).ExecContext(ctx, `INSERT INTO simulators(id,name,data_json) VALUES (?,?,?)`, sim.ID, sim.Name, string(data))
	return err
}

func (r Repo) GetSimulator(ctx context.Context, id string) (domain.Simulator, error) {
	var payload string
	err := r.DB.QueryRowContext(ctx, `SELECT data_json FROM simulators WHERE id=?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return domain.Simulator{}, ErrNotFound
	}
	if err != nil {
		return domain.Simulator{}, err
	}
	var sim domain.Simulator
	if err := json.Unmarshal([]byte(payload), &sim); err != nil {
		return domain.Simulator{}, fmt.Errorf("decode simulator %s: %w", id, err)
	}
	return sim, nil
}

func (r Repo) ListSimulators(ctx context.Context) ([]domain.Simulator, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT data_json FROM simulators ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Simulator
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var sim domain.Simulator
		if err := json.Unmarshal([]byte(payload), &sim); err != nil {
			return nil, err
		}
		res = append(res, sim)
	}
	return res, rows.Err()
}

func (r Repo) InsertDeck(ctx context.Context, tx *sql.Tx, d domain.Deck) error {
	_, err := r.q(tx).ExecContext(ctx, `INSERT INTO decks(id,simulator_id,number) VALUES (?,?,?)`, d.ID, d.SimulatorID, d.Number)
	return err
}

func (r Repo) ListDecks(ctx context.Context, simulatorID string) ([]domain.Deck, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,simulator_id,number FROM decks WHERE simulator_id=? ORDER BY number, id`, simulatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Deck
	for rows.Next() {
		var d domain.Deck
		if err := rows.Scan(&d.ID, &d.SimulatorID, &d.Number); err != nil {
			return nil, err
		}
		res = append(res, d)
	}
	return res, rows.Err()
}

func (r Repo) InsertRoom(ctx context.Context, tx *sql.Tx, rm domain.Room) error {
	_, err := r.q(tx).ExecContext(ctx, `INSERT INTO rooms(id,simulator_id,deck_id,name) VALUES (?,?,?,?)`, rm.ID, rm.SimulatorID, rm.DeckID, rm.Name)
	return err
}

func (r Repo) ListRooms(ctx context.Context, simulatorID string) ([]domain.Room, error) {
	return r.listRooms(ctx, `SELECT id,simulator_id,deck_id,name FROM rooms WHERE simulator_id=? ORDER BY name, id`, simulatorID)
}

// RoomsByID returns the rooms among ids that exist, in the order of ids.
func (r Repo) RoomsByID(ctx context.Context, ids []string) ([]domain.Room, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := `SELECT id,simulator_id,deck_id,name FROM rooms WHERE id IN (` + placeholders(len(ids)) + `)`
	found, err := r.listRooms(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Room, len(found))
	for _, rm := range found {
		byID[rm.ID] = rm
	}
	var res []domain.Room
	for _, id := range ids {
		if rm, ok := byID[id]; ok {
			res = append(res, rm)
			delete(byID, id)
		}
	}
	return res, nil
}

func (r Repo) listRooms(ctx context.Context, query string, args ...any) ([]domain.Room, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Room
	for rows.Next() {
		var rm domain.Room
		if err := rows.Scan(&rm.ID, &rm.SimulatorID, &rm.DeckID, &rm.Name); err != nil {
			return nil, err
		}
		res = append(res, rm)
	}
	return res, rows.Err()
}

func (r Repo) InsertCrew(ctx context.Context, tx *sql.Tx, c domain.Crew) error {
	_, err := r.q(tx).ExecContext(ctx, `INSERT INTO crew(id,simulator_id,first_name,last_name,position) VALUES (?,?,?,?,?)`,
		c.ID, c.SimulatorID, c.FirstName, c.LastName, c.Position)
	return err
}

func (r Repo) ListCrew(ctx context.Context, simulatorID string) ([]domain.Crew, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,simulator_id,first_name,last_name,position FROM crew WHERE simulator_id=? ORDER BY rowid`, simulatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Crew
	for rows.Next() {
		var c domain.Crew
		if err := rows.Scan(&c.ID, &c.SimulatorID, &c.FirstName, &c.LastName, &c.Position); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (r Repo) InsertInventory(ctx context.Context, tx *sql.Tx, it domain.InventoryItem) error {
	_, err := r.q(tx).ExecContext(ctx, `INSERT INTO inventory(id,simulator_id,name,type,count) VALUES (?,?,?,?,?)`,
		it.ID, it.SimulatorID, it.Name, it.Type, it.Count)
	return err
}

func (r Repo) ListInventory(ctx context.Context, simulatorID string) ([]domain.InventoryItem, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,simulator_id,name,type,count FROM inventory WHERE simulator_id=? ORDER BY rowid`, simulatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.InventoryItem
	for rows.Next() {
		var it domain.InventoryItem
		if err := rows.Scan(&it.ID, &it.SimulatorID, &it.Name, &it.Type, &it.Count); err != nil {
			return nil, err
		}
		res = append(res, it)
	}
	return res, rows.Err()
}

func (r Repo) InsertExocomp(ctx context.Context, tx *sql.Tx, e domain.Exocomp) error {
	parts := e.Parts
	if parts == nil {
		parts = []string{}
	}
	data, err := json.Marshal(parts)
	if err != nil {
		return err
	}
	_, err = r.q(tx).ExecContext(ctx, `INSERT INTO exocomps(id,simulator_id,parts_json) VALUES (?,?,?)`, e.ID, e.SimulatorID, string(data))
	return err
}

func (r Repo) ListExocomps(ctx context.Context, simulatorID string) ([]domain.Exocomp, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,simulator_id,parts_json FROM exocomps WHERE simulator_id=? ORDER BY rowid`, simulatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Exocomp
	for rows.Next() {
		var e domain.Exocomp
		var parts string
		if err := rows.Scan(&e.ID, &e.SimulatorID, &parts); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(parts), &e.Parts); err != nil {
			return nil, fmt.Errorf("decode exocomp %s parts: %w", e.ID, err)
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

func (r Repo) InsertSoftwarePanel(ctx context.Context, tx *sql.Tx, p domain.SoftwarePanel) error {
	_, err := r.q(tx).ExecContext(ctx, `INSERT INTO software_panels(id,simulator_id,name) VALUES (?,?,?)`, p.ID, p.SimulatorID, p.Name)
	return err
}

func (r Repo) ListSoftwarePanels(ctx context.Context, simulatorID string) ([]domain.SoftwarePanel, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,simulator_id,name FROM software_panels WHERE simulator_id=? ORDER BY rowid`, simulatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.SoftwarePanel
	for rows.Next() {
		var p domain.SoftwarePanel
		if err := rows.Scan(&p.ID, &p.SimulatorID, &p.Name); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
