package domain

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

const (
	ClassSystem        = "System"
	ClassInternalComm  = "InternalComm"
	ClassLongRangeComm = "LongRangeComm"
	ClassProbes        = "Probes"
)

// compromisedStealthFactor is the stealth factor of a system whose stealth is compromised.
const compromisedStealthFactor = 0.8

type Power struct {
	Power        int   `json:"power" yaml:"power"`
	PowerLevels  []int `json:"powerLevels" yaml:"powerLevels"`
	DefaultLevel int   `json:"defaultLevel" yaml:"defaultLevel"`
}

// Validate checks that the default level indexes the levels. A system
// without levels keeps default level 0.
func (p Power) Validate() error {
	if p.DefaultLevel == 0 {
		return nil
	}
	if p.DefaultLevel < 0 || p.DefaultLevel >= len(p.PowerLevels) {
		return fmt.Errorf("%w: default power level %d is outside %d levels", ErrInvalidArgument, p.DefaultLevel, len(p.PowerLevels))
	}
	return nil
}

func (p *Power) clampDefaultLevel() {
	if p.DefaultLevel >= len(p.PowerLevels) {
		p.DefaultLevel = len(p.PowerLevels) - 1
	}
	if p.DefaultLevel < 0 {
		p.DefaultLevel = 0
	}
}

// StepList selects the required or optional damage step catalog of a system.
type StepList string

const (
	RequiredSteps StepList = "required"
	OptionalSteps StepList = "optional"
)

// Extension carries kind-specific state and hooks of a system. The hooks run
// at the same transition points for every kind.
type Extension interface {
	Class() string
	OnBreak(s *System)
	OnSetPower(s *System, level int)
}

// System is a simulated ship subsystem and the aggregate that owns its
// damage record, damage step catalogs and damage tasks.
type System struct {
	ID                  string       `json:"id"`
	Class               string       `json:"class"`
	Type                string       `json:"type"`
	SimulatorID         string       `json:"simulatorId"`
	Name                string       `json:"name"`
	StoredDisplayName   string       `json:"storedDisplayName"`
	UpgradeName         string       `json:"upgradeName"`
	Upgraded            bool         `json:"upgraded"`
	UpgradeBoard        string       `json:"upgradeBoard,omitempty"`
	UpgradeMacros       []Macro      `json:"upgradeMacros"`
	Wing                string       `json:"wing"`
	Power               Power        `json:"power"`
	Damage              Damage       `json:"damage"`
	Extra               bool         `json:"extra"`
	Locations           []string     `json:"locations"`
	RequiredDamageSteps []DamageStep `json:"requiredDamageSteps"`
	OptionalDamageSteps []DamageStep `json:"optionalDamageSteps"`
	DamageTasks         []DamageTask `json:"damageTasks"`
	StealthCompromised  bool         `json:"stealthCompromised"`
	Ext                 Extension    `json:"-"`
}

// SystemParams is the definition a system is created from.
type SystemParams struct {
	ID                  string       `json:"id" yaml:"id"`
	Class               string       `json:"class" yaml:"class"`
	SimulatorID         string       `json:"simulatorId" yaml:"simulatorId"`
	Name                string       `json:"name" yaml:"name"`
	DisplayName         string       `json:"displayName" yaml:"displayName"`
	UpgradeName         string       `json:"upgradeName" yaml:"upgradeName"`
	Upgraded            bool         `json:"upgraded" yaml:"upgraded"`
	UpgradeBoard        string       `json:"upgradeBoard" yaml:"upgradeBoard"`
	UpgradeMacros       []Macro      `json:"upgradeMacros" yaml:"upgradeMacros"`
	Wing                string       `json:"wing" yaml:"wing"`
	Power               *Power       `json:"power" yaml:"power"`
	Extra               bool         `json:"extra" yaml:"extra"`
	Locations           []string     `json:"locations" yaml:"locations"`
	RequiredDamageSteps []DamageStep `json:"requiredDamageSteps" yaml:"requiredDamageSteps"`
	OptionalDamageSteps []DamageStep `json:"optionalDamageSteps" yaml:"optionalDamageSteps"`
	DamageTasks         []DamageTask `json:"damageTasks" yaml:"damageTasks"`
	Damage              *Damage      `json:"damage" yaml:"damage"`
}

// NewSystem builds a system from its definition, filling defaults and
// attaching the extension for its class.
func NewSystem(p SystemParams) *System {
	s := &System{
		ID:          p.ID,
		Class:       p.Class,
		SimulatorID: p.SimulatorID,
		Name:        p.Name,
		Upgraded:    p.Upgraded,
		Wing:        p.Wing,
		Extra:       p.Extra,
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Class == "" {
		s.Class = ClassSystem
	}
	s.Type = s.Class
	if s.Wing == "" {
		s.Wing = "left"
	}
	s.Ext = newExtension(s.Class)
	display := p.DisplayName
	if _, ok := s.Ext.(*InternalComm); ok {
		if s.Name == "" {
			s.Name = "Internal Communications"
		}
		if display == "" {
			display = "Internal Comm"
		}
	}
	if display == "" {
		display = s.Name
	}
	s.StoredDisplayName = display
	s.UpgradeName = p.UpgradeName
	if s.UpgradeName == "" {
		s.UpgradeName = s.StoredDisplayName
	}
	s.UpgradeBoard = p.UpgradeBoard
	s.UpgradeMacros = make([]Macro, 0, len(p.UpgradeMacros))
	for _, m := range p.UpgradeMacros {
		s.UpgradeMacros = append(s.UpgradeMacros, NewMacro(m))
	}
	if p.Power != nil {
		s.Power = Power{
			Power:        p.Power.Power,
			PowerLevels:  append([]int{}, p.Power.PowerLevels...),
			DefaultLevel: p.Power.DefaultLevel,
		}
		s.Power.clampDefaultLevel()
	} else {
		s.Power = Power{Power: 5, PowerLevels: []int{5}}
		if s.Extra {
			s.Power.PowerLevels = []int{}
		}
	}
	if p.Damage != nil {
		s.Damage = p.Damage.clone()
		s.Damage.SystemID = s.ID
		if s.Damage.Which == "" {
			s.Damage.Which = DefaultWhich
		}
	} else {
		s.Damage = NewDamage(s.ID)
	}
	s.Locations = append([]string{}, p.Locations...)
	s.RequiredDamageSteps = withStepIDs(p.RequiredDamageSteps)
	s.OptionalDamageSteps = withStepIDs(p.OptionalDamageSteps)
	s.DamageTasks = []DamageTask{}
	for _, t := range p.DamageTasks {
		s.DamageTasks = append(s.DamageTasks, t.clone())
	}
	return s
}

// NewMacro fills macro defaults.
func NewMacro(m Macro) Macro {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Args == "" {
		m.Args = "{}"
	}
	return m
}

func withStepIDs(in []DamageStep) []DamageStep {
	out := make([]DamageStep, 0, len(in))
	for _, st := range in {
		if st.ID == "" {
			st.ID = uuid.NewString()
		}
		out = append(out, st)
	}
	return out
}

// DisplayName is the upgraded name once upgraded, otherwise the stored one.
func (s *System) DisplayName() string {
	if s.Upgraded && s.UpgradeName != "" {
		return s.UpgradeName
	}
	return s.StoredDisplayName
}

// StealthFactor returns the fixed factor when stealth is compromised.
func (s *System) StealthFactor() (float64, bool) {
	if s.StealthCompromised {
		return compromisedStealthFactor, true
	}
	return 0, false
}

func (s *System) SetWing(wing string) {
	s.Wing = wing
}

// NameUpdate holds the names to change; nil fields stay as they are.
type NameUpdate struct {
	Name        *string
	DisplayName *string
	UpgradeName *string
}

func (s *System) UpdateName(u NameUpdate) {
	if u.Name != nil {
		s.Name = *u.Name
	}
	if u.DisplayName != nil {
		s.StoredDisplayName = *u.DisplayName
	}
	if u.UpgradeName != nil {
		s.UpgradeName = *u.UpgradeName
	}
}

func (s *System) SetUpgradeMacros(macros []Macro) {
	s.UpgradeMacros = make([]Macro, 0, len(macros))
	for _, m := range macros {
		s.UpgradeMacros = append(s.UpgradeMacros, NewMacro(m))
	}
}

func (s *System) SetUpgradeBoard(board string) {
	s.UpgradeBoard = board
}

func (s *System) Upgrade() {
	s.Upgraded = true
}

func (s *System) UpdateLocations(locations []string) {
	s.Locations = append([]string{}, locations...)
}

func (s *System) SetPower(level int) {
	if s.Ext != nil {
		s.Ext.OnSetPower(s, level)
	}
	s.Power.Power = level
}

// SetPowerLevels replaces the selectable levels and pulls the default level
// back inside the new list.
func (s *System) SetPowerLevels(levels []int) {
	s.Power.PowerLevels = append([]int{}, levels...)
	s.Power.clampDefaultLevel()
}

// SetDefaultPowerLevel selects the default level by index. An index outside
// the levels fails with ErrInvalidArgument and changes nothing.
func (s *System) SetDefaultPowerLevel(level int) error {
	next := s.Power
	next.DefaultLevel = level
	if err := next.Validate(); err != nil {
		return err
	}
	s.Power.DefaultLevel = level
	return nil
}

// HasPowerLevels reports whether the system exposes selectable power levels.
func (s *System) HasPowerLevels() bool {
	return len(s.Power.PowerLevels) > 0
}

// Break damages the system with an already rendered report.
func (s *System) Break(report string, destroyed bool, which string) {
	if s.Ext != nil {
		s.Ext.OnBreak(s)
	}
	s.Damage.Break(report, destroyed, which)
}

func (s *System) Repair() {
	s.Damage.Repair()
}

func (s *System) RequestReport() {
	s.Damage.RequestReport()
}

// DamageReport files a composed report on the damage record.
func (s *System) DamageReport(report string) {
	s.Damage.FileReport(report)
}

func (s *System) UpdateCurrentStep(step int) {
	s.Damage.UpdateCurrentStep(step)
}

func (s *System) ReactivationCode(code, station string) {
	s.Damage.RequestReactivation(code, station)
}

func (s *System) ReactivationCodeResponse(response string) {
	s.Damage.ReactivationResponse(response)
}

// AddDamageStep appends a validated step to the selected catalog.
func (s *System) AddDamageStep(list StepList, step DamageStep) (DamageStep, error) {
	if err := step.Validate(); err != nil {
		return DamageStep{}, err
	}
	if step.ID == "" {
		step.ID = uuid.NewString()
	}
	switch list {
	case RequiredSteps:
		s.RequiredDamageSteps = append(s.RequiredDamageSteps, step)
	case OptionalSteps:
		s.OptionalDamageSteps = append(s.OptionalDamageSteps, step)
	default:
		return DamageStep{}, fmt.Errorf("%w: unknown step list %q", ErrInvalidArgument, list)
	}
	return step, nil
}

// DamageStepUpdate changes a catalog step. Nil Args keeps the step's args
// and nil End keeps its end flag.
type DamageStepUpdate struct {
	Args StepArgs
	End  *bool
}

// UpdateDamageStep applies u to the step with the given id, looking in the
// required catalog first, and returns the updated step.
func (s *System) UpdateDamageStep(id string, u DamageStepUpdate) (DamageStep, error) {
	if u.Args != nil {
		if err := (DamageStep{ID: id, Args: u.Args}).Validate(); err != nil {
			return DamageStep{}, err
		}
	}
	for _, list := range [][]DamageStep{s.RequiredDamageSteps, s.OptionalDamageSteps} {
		for i := range list {
			if list[i].ID != id {
				continue
			}
			if u.Args != nil {
				list[i].Args = u.Args
			}
			if u.End != nil {
				list[i].End = *u.End
			}
			return list[i], nil
		}
	}
	return DamageStep{}, fmt.Errorf("damage step %s: %w", id, ErrNotFound)
}

// RemoveDamageStep drops the step from both catalogs.
func (s *System) RemoveDamageStep(id string) {
	s.RequiredDamageSteps = filterSteps(s.RequiredDamageSteps, id)
	s.OptionalDamageSteps = filterSteps(s.OptionalDamageSteps, id)
}

func filterSteps(in []DamageStep, id string) []DamageStep {
	out := in[:0:0]
	for _, st := range in {
		if st.ID != id {
			out = append(out, st)
		}
	}
	return out
}

// AddDamageTask appends the task unless it has no id or the id is taken.
func (s *System) AddDamageTask(t DamageTask) {
	if t.ID == "" || s.findTask(t.ID) >= 0 {
		return
	}
	s.DamageTasks = append(s.DamageTasks, t.clone())
}

func (s *System) UpdateDamageTask(u DamageTaskUpdate) error {
	i := s.findTask(u.ID)
	if i < 0 {
		return fmt.Errorf("damage task %s: %w", u.ID, ErrNotFound)
	}
	s.DamageTasks[i].apply(u)
	return nil
}

func (s *System) RemoveDamageTask(id string) {
	out := s.DamageTasks[:0:0]
	for _, t := range s.DamageTasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	s.DamageTasks = out
}

func (s *System) findTask(id string) int {
	for i, t := range s.DamageTasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy that shares no mutable state with s.
func (s *System) Clone() *System {
	c := *s
	c.UpgradeMacros = append([]Macro{}, s.UpgradeMacros...)
	c.Power.PowerLevels = append([]int{}, s.Power.PowerLevels...)
	c.Damage = s.Damage.clone()
	c.Locations = append([]string{}, s.Locations...)
	c.RequiredDamageSteps = append([]DamageStep{}, s.RequiredDamageSteps...)
	c.OptionalDamageSteps = append([]DamageStep{}, s.OptionalDamageSteps...)
	c.DamageTasks = make([]DamageTask, 0, len(s.DamageTasks))
	for _, t := range s.DamageTasks {
		c.DamageTasks = append(c.DamageTasks, t.clone())
	}
	if s.Ext != nil {
		c.Ext = cloneExtension(s.Ext)
	}
	return &c
}

type systemAlias System

type systemWire struct {
	systemAlias
	InternalComm *InternalComm `json:"internalComm,omitempty"`
}

func (s System) MarshalJSON() ([]byte, error) {
	w := systemWire{systemAlias: systemAlias(s)}
	if ic, ok := s.Ext.(*InternalComm); ok {
		w.InternalComm = ic
	}
	return json.Marshal(w)
}

func (s *System) UnmarshalJSON(data []byte) error {
	var w systemWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = System(w.systemAlias)
	if w.InternalComm != nil {
		s.Ext = w.InternalComm
	} else {
		s.Ext = newExtension(s.Class)
	}
	return nil
}
