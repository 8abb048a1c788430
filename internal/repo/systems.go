package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"damagecontrol/internal/domain"
)

// Systems are stored whole as JSON; class, name and damaged are copied into
// columns for filtering.

func (r Repo) InsertSystem(ctx context.Context, tx *sql.Tx, s *domain.System) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = r.q(tx).ExecContext(ctx, `INSERT INTO systems(id,simulator_id,class,name,damaged,data_json) VALUES (?,?,?,?,?,?)`,
		s.ID, s.SimulatorID, s.Class, s.Name, s.Damage.Damaged, string(data))
	return err
}

// SaveSystem overwrites a stored system.
func (r Repo) SaveSystem(ctx context.Context, tx *sql.Tx, s *domain.System) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	res, err := r.q(tx).ExecContext(ctx, `UPDATE systems SET class=?, name=?, damaged=?, data_json=? WHERE id=?`,
		s.Class, s.Name, s.Damage.Damaged, string(data), s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) GetSystem(ctx context.Context, id string) (*domain.System, error) {
	return r.GetSystemTx(ctx, nil, id)
}

func (r Repo) GetSystemTx(ctx context.Context, tx *sql.Tx, id string) (*domain.System, error) {
	var payload string
	err := r.q(tx).QueryRowContext(ctx, `SELECT data_json FROM systems WHERE id=?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeSystem(id, payload)
}

// FindSystem resolves ref as a system id, then as a system name within the simulator.
func (r Repo) FindSystem(ctx context.Context, simulatorID, ref string) (*domain.System, error) {
	s, err := r.GetSystem(ctx, ref)
	if !errors.Is(err, ErrNotFound) {
		return s, err
	}
	var id, payload string
	err = r.DB.QueryRowContext(ctx, `SELECT id,data_json FROM systems WHERE simulator_id=? AND name=? ORDER BY id LIMIT 1`,
		simulatorID, ref).Scan(&id, &payload)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeSystem(id, payload)
}

type SystemFilters struct {
	SimulatorID string
	Class       string
	DamagedOnly bool
}

func (r Repo) ListSystems(ctx context.Context, f SystemFilters) ([]*domain.System, error) {
	query := `SELECT id,data_json FROM systems WHERE 1=1`
	var args []any
	if f.SimulatorID != "" {
		query += ` AND simulator_id=?`
		args = append(args, f.SimulatorID)
	}
	if f.Class != "" {
		query += ` AND class=?`
		args = append(args, f.Class)
	}
	if f.DamagedOnly {
		query += ` AND damaged=1`
	}
	query += ` ORDER BY name, id`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []*domain.System
	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, err
		}
		s, err := decodeSystem(id, payload)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

func decodeSystem(id, payload string) (*domain.System, error) {
	var s domain.System
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		return nil, fmt.Errorf("decode system %s: %w", id, err)
	}
	return &s, nil
}
