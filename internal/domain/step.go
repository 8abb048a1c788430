package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// StepKind names a damage step renderer.
type StepKind string

const (
	StepPower             StepKind = "power"
	StepDamageTeam        StepKind = "damageTeam"
	StepDamageTeamMessage StepKind = "damageTeamMessage"
	StepRemoteAccess      StepKind = "remoteAccess"
	StepSendInventory     StepKind = "sendInventory"
	StepLongRangeMessage  StepKind = "longRangeMessage"
	StepProbeLaunch       StepKind = "probeLaunch"
	StepGeneric           StepKind = "generic"
	StepSecurityTeam      StepKind = "securityTeam"
	StepSecurityEvac      StepKind = "securityEvac"
	StepInternalCall      StepKind = "internalCall"
	StepExocomps          StepKind = "exocomps"
	StepSoftwarePanel     StepKind = "softwarePanel"
	StepComputerCore      StepKind = "computerCore"
	StepFinish            StepKind = "finish"
)

// StepKinds lists every kind, one per StepVisitor method.
var StepKinds = []StepKind{
	StepPower, StepDamageTeam, StepDamageTeamMessage, StepRemoteAccess,
	StepSendInventory, StepLongRangeMessage, StepProbeLaunch, StepGeneric,
	StepSecurityTeam, StepSecurityEvac, StepInternalCall, StepExocomps,
	StepSoftwarePanel, StepComputerCore, StepFinish,
}

// StepVisitor has one method per step kind. A renderer that implements it
// covers every kind.
type StepVisitor interface {
	Power(PowerArgs) string
	DamageTeam(DamageTeamArgs) string
	DamageTeamMessage(DamageTeamMessageArgs) string
	RemoteAccess(RemoteAccessArgs) string
	SendInventory(SendInventoryArgs) string
	LongRangeMessage(LongRangeMessageArgs) string
	ProbeLaunch(ProbeLaunchArgs) string
	Generic(GenericArgs) string
	SecurityTeam(SecurityTeamArgs) string
	SecurityEvac(SecurityEvacArgs) string
	InternalCall(InternalCallArgs) string
	Exocomps(ExocompsArgs) string
	SoftwarePanel(SoftwarePanelArgs) string
	ComputerCore(ComputerCoreArgs) string
	Finish(FinishArgs) string
}

// StepArgs is the typed argument payload of one step kind. The set of
// implementations is closed to this package.
type StepArgs interface {
	Kind() StepKind
	Accept(v StepVisitor) string
	stepArgs()
}

type PowerArgs struct {
	Preamble string `json:"preamble,omitempty" yaml:"preamble,omitempty"`
	End      bool   `json:"end,omitempty" yaml:"end,omitempty"`
}

type DamageTeamArgs struct {
	Preamble string `json:"preamble,omitempty" yaml:"preamble,omitempty"`
	Orders   string `json:"orders,omitempty" yaml:"orders,omitempty"`
	Room     string `json:"room,omitempty" yaml:"room,omitempty"`
	Type     string `json:"type,omitempty" yaml:"type,omitempty"`
	End      bool   `json:"end,omitempty" yaml:"end,omitempty"`
	Cleanup  bool   `json:"cleanup,omitempty" yaml:"cleanup,omitempty"`
}

type DamageTeamMessageArgs struct {
	Preamble string `json:"preamble,omitempty" yaml:"preamble,omitempty"`
	Message  string `json:"message,omitempty" yaml:"message,omitempty"`
}

type RemoteAccessArgs struct {
	Preamble string `json:"preamble,omitempty" yaml:"preamble,omitempty"`
	Code     string `json:"code,omitempty" yaml:"code,omitempty"`
	Backup   string `json:"backup,omitempty" yaml:"backup,omitempty"`
}

type InventoryRequest struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

type SendInventoryArgs struct {
	Preamble    string             `json:"preamble,omitempty" yaml:"preamble,omitempty"`
	Inventory   []InventoryRequest `json:"inventory,omitempty" yaml:"inventory,omitempty"`
	Destination string             `json:"destination,omitempty" yaml:"destination,omitempty"`
}

type LongRangeMessageArgs struct {
	Preamble    string `json:"preamble,omitempty" yaml:"preamble,omitempty"`
	Destination string `json:"destination,omitempty" yaml:"destination,omitempty"`
	Message     string `json:"message,omitempty" yaml:"message,omitempty"`
}

type ProbeLaunchArgs struct {
	Preamble  string `json:"preamble,omitempty" yaml:"preamble,omitempty"`
	Equipment string `json:"equipment,omitempty" yaml:"equipment,omitempty"`
	Query     string `json:"query,omitempty" yaml:"query,omitempty"`
}

type GenericArgs struct {
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

type SecurityTeamArgs struct {
	Preamble string `json:"preamble,omitempty" yaml:"preamble,omitempty"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Orders   string `json:"orders,omitempty" yaml:"orders,omitempty"`
	Room     string `json:"room,omitempty" yaml:"room,omitempty"`
}

type SecurityEvacArgs struct {
	Preamble string `json:"preamble,omitempty" yaml:"preamble,omitempty"`
	Room     string `json:"room,omitempty" yaml:"room,omitempty"`
}

type InternalCallArgs struct {
	Preamble string `json:"preamble,omitempty" yaml:"preamble,omitempty"`
	Room     string `json:"room,omitempty" yaml:"room,omitempty"`
	Message  string `json:"message,omitempty" yaml:"message,omitempty"`
}

type ExocompsArgs struct {
	Preamble    string `json:"preamble,omitempty" yaml:"preamble,omitempty"`
	Destination string `json:"destination,omitempty" yaml:"destination,omitempty"`
}

type SoftwarePanelArgs struct {
	Preamble string `json:"preamble,omitempty" yaml:"preamble,omitempty"`
}

type ComputerCoreArgs struct {
	Preamble string `json:"preamble,omitempty" yaml:"preamble,omitempty"`
}

type FinishArgs struct {
	Preamble   string `json:"preamble,omitempty" yaml:"preamble,omitempty"`
	Reactivate bool   `json:"reactivate,omitempty" yaml:"reactivate,omitempty"`
}

func (PowerArgs) Kind() StepKind             { return StepPower }
func (DamageTeamArgs) Kind() StepKind        { return StepDamageTeam }
func (DamageTeamMessageArgs) Kind() StepKind { return StepDamageTeamMessage }
func (RemoteAccessArgs) Kind() StepKind      { return StepRemoteAccess }
func (SendInventoryArgs) Kind() StepKind     { return StepSendInventory }
func (LongRangeMessageArgs) Kind() StepKind  { return StepLongRangeMessage }
func (ProbeLaunchArgs) Kind() StepKind       { return StepProbeLaunch }
func (GenericArgs) Kind() StepKind           { return StepGeneric }
func (SecurityTeamArgs) Kind() StepKind      { return StepSecurityTeam }
func (SecurityEvacArgs) Kind() StepKind      { return StepSecurityEvac }
func (InternalCallArgs) Kind() StepKind      { return StepInternalCall }
func (ExocompsArgs) Kind() StepKind          { return StepExocomps }
func (SoftwarePanelArgs) Kind() StepKind     { return StepSoftwarePanel }
func (ComputerCoreArgs) Kind() StepKind      { return StepComputerCore }
func (FinishArgs) Kind() StepKind            { return StepFinish }

func (a PowerArgs) Accept(v StepVisitor) string             { return v.Power(a) }
func (a DamageTeamArgs) Accept(v StepVisitor) string        { return v.DamageTeam(a) }
func (a DamageTeamMessageArgs) Accept(v StepVisitor) string { return v.DamageTeamMessage(a) }
func (a RemoteAccessArgs) Accept(v StepVisitor) string      { return v.RemoteAccess(a) }
func (a SendInventoryArgs) Accept(v StepVisitor) string     { return v.SendInventory(a) }
func (a LongRangeMessageArgs) Accept(v StepVisitor) string  { return v.LongRangeMessage(a) }
func (a ProbeLaunchArgs) Accept(v StepVisitor) string       { return v.ProbeLaunch(a) }
func (a GenericArgs) Accept(v StepVisitor) string           { return v.Generic(a) }
func (a SecurityTeamArgs) Accept(v StepVisitor) string      { return v.SecurityTeam(a) }
func (a SecurityEvacArgs) Accept(v StepVisitor) string      { return v.SecurityEvac(a) }
func (a InternalCallArgs) Accept(v StepVisitor) string      { return v.InternalCall(a) }
func (a ExocompsArgs) Accept(v StepVisitor) string          { return v.Exocomps(a) }
func (a SoftwarePanelArgs) Accept(v StepVisitor) string     { return v.SoftwarePanel(a) }
func (a ComputerCoreArgs) Accept(v StepVisitor) string      { return v.ComputerCore(a) }
func (a FinishArgs) Accept(v StepVisitor) string            { return v.Finish(a) }

func (PowerArgs) stepArgs()             {}
func (DamageTeamArgs) stepArgs()        {}
func (DamageTeamMessageArgs) stepArgs() {}
func (RemoteAccessArgs) stepArgs()      {}
func (SendInventoryArgs) stepArgs()     {}
func (LongRangeMessageArgs) stepArgs()  {}
func (ProbeLaunchArgs) stepArgs()       {}
func (GenericArgs) stepArgs()           {}
func (SecurityTeamArgs) stepArgs()      {}
func (SecurityEvacArgs) stepArgs()      {}
func (InternalCallArgs) stepArgs()      {}
func (ExocompsArgs) stepArgs()          {}
func (SoftwarePanelArgs) stepArgs()     {}
func (ComputerCoreArgs) stepArgs()      {}
func (FinishArgs) stepArgs()            {}

// DamageStep is one named, parameterized unit of a damage report. End only
// matters for required steps: it places the step after the randomized body.
type DamageStep struct {
	ID   string
	End  bool
	Args StepArgs
}

// NewDamageStep wraps args in a step with a fresh id.
func NewDamageStep(args StepArgs) DamageStep {
	return DamageStep{ID: uuid.NewString(), Args: args}
}

// Name returns the registry key of the step, or "" when it has no args.
func (s DamageStep) Name() StepKind {
	if s.Args == nil {
		return ""
	}
	return s.Args.Kind()
}

func (s DamageStep) Is(kind StepKind) bool {
	return s.Name() == kind
}

// Validate checks the argument payload of the step.
func (s DamageStep) Validate() error {
	if s.Args == nil {
		return fmt.Errorf("%w: step %q has no args", ErrInvalidArgument, s.ID)
	}
	if a, ok := s.Args.(SendInventoryArgs); ok {
		for _, inv := range a.Inventory {
			if inv.Name == "" {
				return fmt.Errorf("%w: sendInventory entry without name", ErrInvalidArgument)
			}
			if inv.Count < 0 {
				return fmt.Errorf("%w: sendInventory %s count %d", ErrInvalidArgument, inv.Name, inv.Count)
			}
		}
	}
	return nil
}

type stepWire struct {
	ID   string          `json:"id"`
	Name StepKind        `json:"name"`
	End  bool            `json:"end,omitempty"`
	Args json.RawMessage `json:"args,omitempty"`
}

func (s DamageStep) MarshalJSON() ([]byte, error) {
	if s.Args == nil {
		return nil, fmt.Errorf("%w: step %q has no args", ErrInvalidArgument, s.ID)
	}
	args, err := json.Marshal(s.Args)
	if err != nil {
		return nil, err
	}
	return json.Marshal(stepWire{ID: s.ID, Name: s.Args.Kind(), End: s.End, Args: args})
}

func (s *DamageStep) UnmarshalJSON(data []byte) error {
	var w stepWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	args, err := DecodeStepArgs(w.Name, w.Args)
	if err != nil {
		return err
	}
	*s = DamageStep{ID: w.ID, End: w.End, Args: args}
	return s.Validate()
}

func (s DamageStep) MarshalYAML() (any, error) {
	if s.Args == nil {
		return nil, fmt.Errorf("%w: step %q has no args", ErrInvalidArgument, s.ID)
	}
	return struct {
		ID   string   `yaml:"id,omitempty"`
		Name StepKind `yaml:"name"`
		End  bool     `yaml:"end,omitempty"`
		Args StepArgs `yaml:"args,omitempty"`
	}{s.ID, s.Args.Kind(), s.End, s.Args}, nil
}

// UnmarshalYAML routes the args mapping through the strict JSON decoder so
// both encodings reject the same malformed payloads.
func (s *DamageStep) UnmarshalYAML(node *yaml.Node) error {
	var w struct {
		ID   string         `yaml:"id"`
		Name StepKind       `yaml:"name"`
		End  bool           `yaml:"end"`
		Args map[string]any `yaml:"args"`
	}
	if err := node.Decode(&w); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	var raw json.RawMessage
	if w.Args != nil {
		b, err := json.Marshal(w.Args)
		if err != nil {
			return fmt.Errorf("%w: %s args: %v", ErrInvalidArgument, w.Name, err)
		}
		raw = b
	}
	args, err := DecodeStepArgs(w.Name, raw)
	if err != nil {
		return err
	}
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	*s = DamageStep{ID: w.ID, End: w.End, Args: args}
	return s.Validate()
}

// DecodeStepArgs decodes raw JSON into the args type of kind. Unknown kinds
// and unknown fields are rejected with ErrInvalidArgument.
func DecodeStepArgs(kind StepKind, raw json.RawMessage) (StepArgs, error) {
	switch kind {
	case StepPower:
		return decodeArgs[PowerArgs](raw)
	case StepDamageTeam:
		return decodeArgs[DamageTeamArgs](raw)
	case StepDamageTeamMessage:
		return decodeArgs[DamageTeamMessageArgs](raw)
	case StepRemoteAccess:
		return decodeArgs[RemoteAccessArgs](raw)
	case StepSendInventory:
		return decodeArgs[SendInventoryArgs](raw)
	case StepLongRangeMessage:
		return decodeArgs[LongRangeMessageArgs](raw)
	case StepProbeLaunch:
		return decodeArgs[ProbeLaunchArgs](raw)
	case StepGeneric:
		return decodeArgs[GenericArgs](raw)
	case StepSecurityTeam:
		return decodeArgs[SecurityTeamArgs](raw)
	case StepSecurityEvac:
		return decodeArgs[SecurityEvacArgs](raw)
	case StepInternalCall:
		return decodeArgs[InternalCallArgs](raw)
	case StepExocomps:
		return decodeArgs[ExocompsArgs](raw)
	case StepSoftwarePanel:
		return decodeArgs[SoftwarePanelArgs](raw)
	case StepComputerCore:
		return decodeArgs[ComputerCoreArgs](raw)
	case StepFinish:
		return decodeArgs[FinishArgs](raw)
	}
	return nil, fmt.Errorf("%w: unknown damage step %q", ErrInvalidArgument, kind)
}

func decodeArgs[T StepArgs](raw json.RawMessage) (StepArgs, error) {
	var args T
	if len(raw) == 0 || string(raw) == "null" {
		return args, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&args); err != nil {
		return nil, fmt.Errorf("%w: %s args: %v", ErrInvalidArgument, args.Kind(), err)
	}
	return args, nil
}
