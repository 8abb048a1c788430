package engine

import (
	"context"

	"damagecontrol/internal/domain"
	"damagecontrol/internal/events"
	"damagecontrol/internal/report"
)

type BreakOptions struct {
	// Report is the immediate report text; placeholders are filled in.
	Report    string
	Destroyed bool
	Which     string
}

// BreakSystem damages the system and stores the processed immediate report.
func (e Engine) BreakSystem(ctx context.Context, systemID string, opts BreakOptions, actorID string) (*domain.System, error) {
	sys, snap, err := e.systemAndSnapshot(ctx, systemID)
	if err != nil {
		return nil, err
	}
	text := report.Process(opts.Report, sys, snap)
	return e.mutate(ctx, systemID, actorID, events.SystemBreak, entitySystem, func(s *domain.System) (events.EventPayload, error) {
		s.Break(text, opts.Destroyed, opts.Which)
		return events.EventPayload{"destroyed": s.Damage.Destroyed, "which": s.Damage.Which}, nil
	})
}

// RepairSystem restores the damage record to its baseline.
func (e Engine) RepairSystem(ctx context.Context, systemID, actorID string) (*domain.System, error) {
	return e.mutate(ctx, systemID, actorID, events.SystemRepair, entitySystem, func(s *domain.System) (events.EventPayload, error) {
		s.Repair()
		return nil, nil
	})
}

func (e Engine) RequestReport(ctx context.Context, systemID, actorID string) (*domain.System, error) {
	return e.mutate(ctx, systemID, actorID, events.SystemReportRequested, entitySystem, func(s *domain.System) (events.EventPayload, error) {
		s.RequestReport()
		return events.EventPayload{"requested": s.Damage.Requested}, nil
	})
}

func (e Engine) UpdateCurrentStep(ctx context.Context, systemID string, step int, actorID string) (*domain.System, error) {
	return e.mutate(ctx, systemID, actorID, events.SystemStepUpdated, entitySystem, func(s *domain.System) (events.EventPayload, error) {
		s.UpdateCurrentStep(step)
		return events.EventPayload{"currentStep": s.Damage.CurrentStep}, nil
	})
}

// ReactivationCode records the code a station sent for the damaged system.
func (e Engine) ReactivationCode(ctx context.Context, systemID, code, station, actorID string) (*domain.System, error) {
	return e.mutate(ctx, systemID, actorID, events.SystemReactivationCode, entitySystem, func(s *domain.System) (events.EventPayload, error) {
		s.ReactivationCode(code, station)
		return events.EventPayload{"station": station}, nil
	})
}

// ReactivationCodeResponse clears the pending code. Matched reports whether
// the submitted code equalled the needed one; it is informational only.
func (e Engine) ReactivationCodeResponse(ctx context.Context, systemID, response, actorID string) (*domain.System, error) {
	return e.mutate(ctx, systemID, actorID, events.SystemReactivationResponse, entitySystem, func(s *domain.System) (events.EventPayload, error) {
		matched := s.Damage.ReactivationCode != nil && s.Damage.NeededReactivationCode != nil &&
			*s.Damage.ReactivationCode == *s.Damage.NeededReactivationCode
		s.ReactivationCodeResponse(response)
		return events.EventPayload{"response": response, "matched": matched}, nil
	})
}

// AddExocompPart records a part delivered to the damaged system.
func (e Engine) AddExocompPart(ctx context.Context, systemID, part, actorID string) (*domain.System, error) {
	return e.mutate(ctx, systemID, actorID, events.SystemExocompPart, entitySystem, func(s *domain.System) (events.EventPayload, error) {
		s.Damage.AddExocompPart(part)
		return events.EventPayload{"part": part}, nil
	})
}

type ReportOptions struct {
	// Steps is the target body length; zero uses the configured default.
	Steps int
	// ReactivationCode is shown by the finish step. GenerateDamageReport
	// falls back to the system's needed code.
	ReactivationCode string
}

// GenerateDamageReport composes a report for the system without storing it.
func (e Engine) GenerateDamageReport(ctx context.Context, systemID string, opts ReportOptions) (report.Result, error) {
	sys, snap, err := e.systemAndSnapshot(ctx, systemID)
	if err != nil {
		return report.Result{}, err
	}
	code := opts.ReactivationCode
	if code == "" && sys.Damage.NeededReactivationCode != nil {
		code = *sys.Damage.NeededReactivationCode
	}
	return report.NewComposer(e.rand()).Compose(sys, snap, report.Options{
		Steps:            e.steps(opts.Steps),
		ReactivationCode: code,
	}), nil
}

type FileReportOptions struct {
	// Text files a hand-written report instead of composing one.
	Text  string
	Steps int
	// Reactivation draws a needed reactivation code for the finish step.
	Reactivation bool
}

// FileDamageReport stores a report on the damage record and clears the
// pending request. Without Text the report is composed.
func (e Engine) FileDamageReport(ctx context.Context, systemID string, opts FileReportOptions, actorID string) (*domain.System, error) {
	sys, snap, err := e.systemAndSnapshot(ctx, systemID)
	if err != nil {
		return nil, err
	}
	var code, text string
	if opts.Text != "" {
		text = report.Process(opts.Text, sys, snap)
	} else {
		if opts.Reactivation {
			code = e.NewReactivationCode()
		}
		res := report.NewComposer(e.rand()).Compose(sys, snap, report.Options{
			Steps:            e.steps(opts.Steps),
			ReactivationCode: code,
		})
		text = res.Text
	}
	return e.mutate(ctx, systemID, actorID, events.SystemReportFiled, entitySystem, func(s *domain.System) (events.EventPayload, error) {
		if code != "" {
			s.Damage.SetNeededReactivationCode(code)
		}
		s.DamageReport(text)
		return events.EventPayload{"composed": opts.Text == "", "reactivation": code != ""}, nil
	})
}
