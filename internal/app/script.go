package app

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"damagecontrol/internal/domain"
	"damagecontrol/internal/engine"
)

// Script is an ordered list of operations run against a loaded scenario.
type Script struct {
	Actor string `yaml:"actor"`
	Ops   []Op   `yaml:"ops"`
}

// Op is one script operation. Op selects the engine call; System names the
// target by id or name. Other fields apply to the operations that read them.
type Op struct {
	Op           string             `yaml:"op"`
	System       string             `yaml:"system"`
	Report       string             `yaml:"report"`
	Destroyed    bool               `yaml:"destroyed"`
	Which        string             `yaml:"which"`
	Step         int                `yaml:"step"`
	Steps        int                `yaml:"steps"`
	Reactivation bool               `yaml:"reactivation"`
	Code         string             `yaml:"code"`
	Station      string             `yaml:"station"`
	Response     string             `yaml:"response"`
	Part         string             `yaml:"part"`
	Level        int                `yaml:"level"`
	Levels       []int              `yaml:"levels"`
	Locations    []string           `yaml:"locations"`
	Board        string             `yaml:"board"`
	Macros       []domain.Macro     `yaml:"macros"`
	Wing         string             `yaml:"wing"`
	Name         *string            `yaml:"name"`
	DisplayName  *string            `yaml:"displayName"`
	UpgradeName  *string            `yaml:"upgradeName"`
	Call         string             `yaml:"call"`
	Location     string             `yaml:"location"`
	List         string             `yaml:"list"`
	DamageStep   *domain.DamageStep `yaml:"damageStep"`
	StepID       string             `yaml:"stepId"`
	End          *bool              `yaml:"end"`
	Task         *domain.DamageTask `yaml:"task"`
	TaskUpdate   *TaskUpdate        `yaml:"taskUpdate"`
	TaskID       string             `yaml:"taskId"`
}

// TaskUpdate is the script form of domain.DamageTaskUpdate.
type TaskUpdate struct {
	ID              string            `yaml:"id"`
	Definition      *string           `yaml:"definition"`
	Values          map[string]string `yaml:"values"`
	Verified        *bool             `yaml:"verified"`
	VerifyRequested *bool             `yaml:"verifyRequested"`
	Assigned        *bool             `yaml:"assigned"`
	NextSteps       []string          `yaml:"nextSteps"`
}

func (u TaskUpdate) toDomain() domain.DamageTaskUpdate {
	return domain.DamageTaskUpdate{
		ID:              u.ID,
		Definition:      u.Definition,
		Values:          u.Values,
		Verified:        u.Verified,
		VerifyRequested: u.VerifyRequested,
		Assigned:        u.Assigned,
		NextSteps:       u.NextSteps,
	}
}

// ScriptFromYAML parses a script.
func ScriptFromYAML(data []byte) (Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Script{}, fmt.Errorf("invalid script yaml: %w", err)
	}
	for i, op := range s.Ops {
		if op.Op == "" {
			return Script{}, fmt.Errorf("script op %d: op is required", i+1)
		}
		if op.System == "" {
			return Script{}, fmt.Errorf("script op %d (%s): system is required", i+1, op.Op)
		}
	}
	return s, nil
}

// ScriptFromFile reads a YAML script from path.
func ScriptFromFile(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, err
	}
	return ScriptFromYAML(data)
}

// RunScript applies the script's operations in order and stops at the first
// failure. Operations already applied stay applied.
func RunScript(ctx context.Context, e engine.Engine, simulatorID string, s Script) error {
	actor := s.Actor
	if actor == "" {
		actor = "script"
	}
	for i, op := range s.Ops {
		if err := runOp(ctx, e, simulatorID, op, actor); err != nil {
			return fmt.Errorf("script op %d (%s %s): %w", i+1, op.Op, op.System, err)
		}
	}
	return nil
}

func runOp(ctx context.Context, e engine.Engine, simulatorID string, op Op, actor string) error {
	sys, err := e.FindSystem(ctx, simulatorID, op.System)
	if err != nil {
		return err
	}
	id := sys.ID
	switch op.Op {
	case "break":
		_, err = e.BreakSystem(ctx, id, engine.BreakOptions{Report: op.Report, Destroyed: op.Destroyed, Which: op.Which}, actor)
	case "repair":
		_, err = e.RepairSystem(ctx, id, actor)
	case "requestReport":
		_, err = e.RequestReport(ctx, id, actor)
	case "fileReport":
		_, err = e.FileDamageReport(ctx, id, engine.FileReportOptions{Text: op.Report, Steps: op.Steps, Reactivation: op.Reactivation}, actor)
	case "currentStep":
		_, err = e.UpdateCurrentStep(ctx, id, op.Step, actor)
	case "reactivationCode":
		_, err = e.ReactivationCode(ctx, id, op.Code, op.Station, actor)
	case "reactivationResponse":
		_, err = e.ReactivationCodeResponse(ctx, id, op.Response, actor)
	case "exocompPart":
		_, err = e.AddExocompPart(ctx, id, op.Part, actor)
	case "setPower":
		_, err = e.SetPower(ctx, id, op.Level, actor)
	case "setPowerLevels":
		_, err = e.SetPowerLevels(ctx, id, op.Levels, actor)
	case "setDefaultPowerLevel":
		_, err = e.SetDefaultPowerLevel(ctx, id, op.Level, actor)
	case "updateLocations":
		_, err = e.UpdateLocations(ctx, id, op.Locations, actor)
	case "upgrade":
		_, err = e.Upgrade(ctx, id, actor)
	case "setUpgradeBoard":
		_, err = e.SetUpgradeBoard(ctx, id, op.Board, actor)
	case "setUpgradeMacros":
		_, err = e.SetUpgradeMacros(ctx, id, op.Macros, actor)
	case "setWing":
		_, err = e.SetWing(ctx, id, op.Wing, actor)
	case "rename":
		_, err = e.UpdateName(ctx, id, domain.NameUpdate{Name: op.Name, DisplayName: op.DisplayName, UpgradeName: op.UpgradeName}, actor)
	case "internalCall":
		_, err = e.InternalCall(ctx, id, engine.InternalCallOp(op.Call), op.Location, actor)
	case "addDamageStep":
		if op.DamageStep == nil {
			return fmt.Errorf("%w: damageStep is required", domain.ErrInvalidArgument)
		}
		list := domain.StepList(op.List)
		if list == "" {
			list = domain.OptionalSteps
		}
		_, err = e.AddDamageStep(ctx, id, list, *op.DamageStep, actor)
	case "updateDamageStep":
		if op.DamageStep == nil && op.End == nil {
			return fmt.Errorf("%w: damageStep or end is required", domain.ErrInvalidArgument)
		}
		u := domain.DamageStepUpdate{End: op.End}
		stepID := op.StepID
		if op.DamageStep != nil {
			u.Args = op.DamageStep.Args
			if stepID == "" {
				stepID = op.DamageStep.ID
			}
		}
		_, err = e.UpdateDamageStep(ctx, id, stepID, u, actor)
	case "removeDamageStep":
		_, err = e.RemoveDamageStep(ctx, id, op.StepID, actor)
	case "addDamageTask":
		if op.Task == nil {
			return fmt.Errorf("%w: task is required", domain.ErrInvalidArgument)
		}
		_, err = e.AddDamageTask(ctx, id, *op.Task, actor)
	case "updateDamageTask":
		if op.TaskUpdate == nil {
			return fmt.Errorf("%w: taskUpdate is required", domain.ErrInvalidArgument)
		}
		_, err = e.UpdateDamageTask(ctx, id, op.TaskUpdate.toDomain(), actor)
	case "removeDamageTask":
		_, err = e.RemoveDamageTask(ctx, id, op.TaskID, actor)
	default:
		return fmt.Errorf("%w: unknown op %q", domain.ErrInvalidArgument, op.Op)
	}
	return err
}
