package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"damagecontrol/internal/domain"
)

type EventFilters struct {
	SimulatorID string
	Type        string
	EntityKind  string
	EntityID    string
	Limit       int
}

// LatestEvents returns the newest matching events first.
func (r Repo) LatestEvents(ctx context.Context, f EventFilters) ([]domain.Event, error) {
	return r.listEvents(ctx, f, "DESC")
}

// EventLog returns matching events in the order they were written.
func (r Repo) EventLog(ctx context.Context, f EventFilters) ([]domain.Event, error) {
	return r.listEvents(ctx, f, "ASC")
}

func (r Repo) listEvents(ctx context.Context, f EventFilters, order string) ([]domain.Event, error) {
	clauses := []string{"1=1"}
	var args []any
	if f.SimulatorID != "" {
		clauses = append(clauses, "simulator_id=?")
		args = append(args, f.SimulatorID)
	}
	if f.Type != "" {
		clauses = append(clauses, "type=?")
		args = append(args, f.Type)
	}
	if f.EntityKind != "" {
		clauses = append(clauses, "entity_kind=?")
		args = append(args, f.EntityKind)
	}
	if f.EntityID != "" {
		clauses = append(clauses, "entity_id=?")
		args = append(args, f.EntityID)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = -1
	}
	where := "WHERE " + strings.Join(clauses, " AND ")
	query := fmt.Sprintf(`SELECT id,ts,type,simulator_id,entity_kind,entity_id,actor_id,payload_json FROM events %s ORDER BY id %s LIMIT ?`, where, order)
	args = append(args, limit)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Event
	for rows.Next() {
		var e domain.Event
		var simID, entityID sql.NullString
		if err := rows.Scan(&e.ID, &e.TS, &e.Type, &simID, &e.EntityKind, &entityID, &e.ActorID, &e.Payload); err != nil {
			return nil, err
		}
		e.SimulatorID = simID.String
		e.EntityID = entityID.String
		res = append(res, e)
	}
	return res, rows.Err()
}
