package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Event types written by the engine.
const (
	SystemBreak                = "system.break"
	SystemRepair               = "system.repair"
	SystemReportRequested      = "system.report.requested"
	SystemReportFiled          = "system.report.filed"
	SystemStepUpdated          = "system.step.current"
	SystemReactivationCode     = "system.reactivation.code"
	SystemReactivationResponse = "system.reactivation.response"
	SystemPower                = "system.power"
	SystemLocations            = "system.locations"
	SystemUpgrade              = "system.upgrade"
	SystemRenamed              = "system.renamed"
	SystemInternalCall         = "system.internal_call"
	SystemExocompPart          = "system.exocomp_part"
	DamageStepAdded            = "damage_step.added"
	DamageStepUpdated          = "damage_step.updated"
	DamageStepRemoved          = "damage_step.removed"
	DamageTaskAdded            = "damage_task.added"
	DamageTaskUpdated          = "damage_task.updated"
	DamageTaskRemoved          = "damage_task.removed"
	ScenarioLoaded             = "scenario.loaded"
)

type Writer struct {
	Now func() time.Time
}

type EventPayload map[string]any

// Append writes an event inside tx, so it commits or rolls back with the
// mutation it describes.
func (w Writer) Append(ctx context.Context, tx *sql.Tx, evtType, simulatorID, entityKind, entityID, actorID string, payload EventPayload) error {
	now := w.Now
	if now == nil {
		now = time.Now
	}
	ts := now().UTC().Format(time.RFC3339)
	if payload == nil {
		payload = EventPayload{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO events(ts,type,simulator_id,entity_kind,entity_id,actor_id,payload_json) VALUES (?,?,?,?,?,?,?)`,
		ts, evtType, nullable(simulatorID), entityKind, nullable(entityID), actorID, string(data))
	return err
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
