package engine

import (
	"context"
	"fmt"

	"damagecontrol/internal/domain"
	"damagecontrol/internal/events"
	"damagecontrol/internal/repo"
)

func (e Engine) SetPower(ctx context.Context, systemID string, level int, actorID string) (*domain.System, error) {
	return e.mutate(ctx, systemID, actorID, events.SystemPower, entitySystem, func(s *domain.System) (events.EventPayload, error) {
		s.SetPower(level)
		return events.EventPayload{"power": level}, nil
	})
}

func (e Engine) SetPowerLevels(ctx context.Context, systemID string, levels []int, actorID string) (*domain.System, error) {
	return e.mutate(ctx, systemID, actorID, events.SystemPower, entitySystem, func(s *domain.System) (events.EventPayload, error) {
		s.SetPowerLevels(levels)
		return events.EventPayload{"powerLevels": s.Power.PowerLevels, "defaultLevel": s.Power.DefaultLevel}, nil
	})
}

func (e Engine) SetDefaultPowerLevel(ctx context.Context, systemID string, level int, actorID string) (*domain.System, error) {
	return e.mutate(ctx, systemID, actorID, events.SystemPower, entitySystem, func(s *domain.System) (events.EventPayload, error) {
		if err := s.SetDefaultPowerLevel(level); err != nil {
			return nil, err
		}
		return events.EventPayload{"defaultLevel": level}, nil
	})
}

func (e Engine) UpdateLocations(ctx context.Context, systemID string, locations []string, actorID string) (*domain.System, error) {
	return e.mutate(ctx, systemID, actorID, events.SystemLocations, entitySystem, func(s *domain.System) (events.EventPayload, error) {
		s.UpdateLocations(locations)
		return events.EventPayload{"locations": s.Locations}, nil
	})
}

func (e Engine) Upgrade(ctx context.Context, systemID, actorID string) (*domain.System, error) {
	return e.mutate(ctx, systemID, actorID, events.SystemUpgrade, entitySystem, func(s *domain.System) (events.EventPayload, error) {
		s.Upgrade()
		return events.EventPayload{"upgraded": true, "macros": len(s.UpgradeMacros)}, nil
	})
}

func (e Engine) SetUpgradeBoard(ctx context.Context, systemID, board, actorID string) (*domain.System, error) {
	return e.mutate(ctx, systemID, actorID, events.SystemUpgrade, entitySystem, func(s *domain.System) (events.EventPayload, error) {
		s.SetUpgradeBoard(board)
		return events.EventPayload{"upgradeBoard": board}, nil
	})
}

func (e Engine) SetUpgradeMacros(ctx context.Context, systemID string, macros []domain.Macro, actorID string) (*domain.System, error) {
	return e.mutate(ctx, systemID, actorID, events.SystemUpgrade, entitySystem, func(s *domain.System) (events.EventPayload, error) {
		s.SetUpgradeMacros(macros)
		return events.EventPayload{"macros": len(s.UpgradeMacros)}, nil
	})
}

func (e Engine) UpdateName(ctx context.Context, systemID string, u domain.NameUpdate, actorID string) (*domain.System, error) {
	return e.mutate(ctx, systemID, actorID, events.SystemRenamed, entitySystem, func(s *domain.System) (events.EventPayload, error) {
		s.UpdateName(u)
		return events.EventPayload{"name": s.Name, "displayName": s.DisplayName()}, nil
	})
}

func (e Engine) SetWing(ctx context.Context, systemID, wing, actorID string) (*domain.System, error) {
	return e.mutate(ctx, systemID, actorID, events.SystemRenamed, entitySystem, func(s *domain.System) (events.EventPayload, error) {
		s.SetWing(wing)
		return events.EventPayload{"wing": wing}, nil
	})
}

// InternalCallOp names an operation on the internal comm call line.
type InternalCallOp string

const (
	CallIncoming       InternalCallOp = "callIncoming"
	CallOutgoing       InternalCallOp = "callOutgoing"
	ConnectIncoming    InternalCallOp = "connectIncoming"
	ConnectOutgoing    InternalCallOp = "connectOutgoing"
	CancelIncomingCall InternalCallOp = "cancelIncoming"
	CancelOutgoingCall InternalCallOp = "cancelOutgoing"
)

// InternalCall runs a call line operation on an internal comm system. Other
// system classes are rejected with domain.ErrInvalidArgument.
func (e Engine) InternalCall(ctx context.Context, systemID string, op InternalCallOp, location, actorID string) (*domain.System, error) {
	return e.mutate(ctx, systemID, actorID, events.SystemInternalCall, entitySystem, func(s *domain.System) (events.EventPayload, error) {
		ic, ok := s.InternalComm()
		if !ok {
			return nil, fmt.Errorf("%w: system %s is not an internal comm system", domain.ErrInvalidArgument, s.ID)
		}
		switch op {
		case CallIncoming:
			ic.CallIncoming(location)
		case CallOutgoing:
			ic.CallOutgoing(location)
		case ConnectIncoming:
			ic.ConnectIncoming()
		case ConnectOutgoing:
			ic.ConnectOutgoing()
		case CancelIncomingCall:
			ic.CancelIncomingCall()
		case CancelOutgoingCall:
			ic.CancelOutgoingCall()
		default:
			return nil, fmt.Errorf("%w: unknown internal call operation %q", domain.ErrInvalidArgument, op)
		}
		return events.EventPayload{"op": string(op), "state": ic.State, "incoming": ic.Incoming, "outgoing": ic.Outgoing}, nil
	})
}

func (e Engine) ListSystems(ctx context.Context, f repo.SystemFilters) ([]*domain.System, error) {
	return e.Repo.ListSystems(ctx, f)
}

// FindSystem resolves a system by id or by name within a simulator.
func (e Engine) FindSystem(ctx context.Context, simulatorID, ref string) (*domain.System, error) {
	sys, err := e.Repo.FindSystem(ctx, simulatorID, ref)
	if err != nil {
		return nil, fmt.Errorf("system %s: %w", ref, err)
	}
	return sys, nil
}
