package engine

import (
	"context"

	"damagecontrol/internal/domain"
	"damagecontrol/internal/events"
)

// AddDamageStep appends a step to the system's required or optional catalog.
func (e Engine) AddDamageStep(ctx context.Context, systemID string, list domain.StepList, step domain.DamageStep, actorID string) (domain.DamageStep, error) {
	var added domain.DamageStep
	_, err := e.mutate(ctx, systemID, actorID, events.DamageStepAdded, entityDamageStep, func(s *domain.System) (events.EventPayload, error) {
		st, err := s.AddDamageStep(list, step)
		if err != nil {
			return nil, err
		}
		added = st
		return events.EventPayload{"id": st.ID, "name": string(st.Name()), "list": string(list), "end": st.End}, nil
	})
	if err != nil {
		return domain.DamageStep{}, err
	}
	return added, nil
}

// UpdateDamageStep changes the args or end flag of a catalog step. An
// unknown step id fails with domain.ErrNotFound and nothing is written.
func (e Engine) UpdateDamageStep(ctx context.Context, systemID, stepID string, u domain.DamageStepUpdate, actorID string) (*domain.System, error) {
	return e.mutate(ctx, systemID, actorID, events.DamageStepUpdated, entityDamageStep, func(s *domain.System) (events.EventPayload, error) {
		st, err := s.UpdateDamageStep(stepID, u)
		if err != nil {
			return nil, err
		}
		return events.EventPayload{"id": st.ID, "name": string(st.Name()), "end": st.End}, nil
	})
}

func (e Engine) RemoveDamageStep(ctx context.Context, systemID, stepID, actorID string) (*domain.System, error) {
	return e.mutate(ctx, systemID, actorID, events.DamageStepRemoved, entityDamageStep, func(s *domain.System) (events.EventPayload, error) {
		s.RemoveDamageStep(stepID)
		return events.EventPayload{"id": stepID}, nil
	})
}

// AddDamageTask adds a repair task. Tasks without an id, or with an id the
// system already tracks, are ignored.
func (e Engine) AddDamageTask(ctx context.Context, systemID string, task domain.DamageTask, actorID string) (*domain.System, error) {
	return e.mutate(ctx, systemID, actorID, events.DamageTaskAdded, entityDamageTask, func(s *domain.System) (events.EventPayload, error) {
		if task.ID != "" {
			if err := task.Validate(); err != nil {
				return nil, err
			}
		}
		before := len(s.DamageTasks)
		s.AddDamageTask(task)
		return events.EventPayload{"id": task.ID, "added": len(s.DamageTasks) > before}, nil
	})
}

func (e Engine) UpdateDamageTask(ctx context.Context, systemID string, update domain.DamageTaskUpdate, actorID string) (*domain.System, error) {
	return e.mutate(ctx, systemID, actorID, events.DamageTaskUpdated, entityDamageTask, func(s *domain.System) (events.EventPayload, error) {
		if err := update.Validate(); err != nil {
			return nil, err
		}
		if err := s.UpdateDamageTask(update); err != nil {
			return nil, err
		}
		return events.EventPayload{"id": update.ID}, nil
	})
}

func (e Engine) RemoveDamageTask(ctx context.Context, systemID, taskID, actorID string) (*domain.System, error) {
	return e.mutate(ctx, systemID, actorID, events.DamageTaskRemoved, entityDamageTask, func(s *domain.System) (events.EventPayload, error) {
		s.RemoveDamageTask(taskID)
		return events.EventPayload{"id": taskID}, nil
	})
}
