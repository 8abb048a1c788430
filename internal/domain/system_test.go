package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestNewSystemDefaults(t *testing.T) {
	s := NewSystem(SystemParams{Name: "Sensors"})
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, ClassSystem, s.Class)
	assert.Equal(t, ClassSystem, s.Type)
	assert.Equal(t, "left", s.Wing)
	assert.Equal(t, "Sensors", s.DisplayName())
	assert.Equal(t, "Sensors", s.UpgradeName)
	assert.Equal(t, Power{Power: 5, PowerLevels: []int{5}}, s.Power)
	assert.Equal(t, s.ID, s.Damage.SystemID)
	assert.True(t, s.Damage.Nominal())
	assert.Nil(t, s.Ext)

	extra := NewSystem(SystemParams{Name: "Tractor Beam", Extra: true})
	assert.False(t, extra.HasPowerLevels())
}

func TestNewSystemInternalCommDefaults(t *testing.T) {
	s := NewSystem(SystemParams{Class: ClassInternalComm})
	assert.Equal(t, "Internal Communications", s.Name)
	assert.Equal(t, "Internal Comm", s.DisplayName())
	ic, ok := s.InternalComm()
	require.True(t, ok)
	assert.Equal(t, CommIdle, ic.State)
}

func TestDisplayNameAfterUpgrade(t *testing.T) {
	s := NewSystem(SystemParams{Name: "Phasers", UpgradeName: "Phaser Array Mk II"})
	assert.Equal(t, "Phasers", s.DisplayName())
	s.Upgrade()
	assert.Equal(t, "Phaser Array Mk II", s.DisplayName())

	s.UpdateName(NameUpdate{UpgradeName: ptr("")})
	assert.Equal(t, "Phasers", s.DisplayName(), "empty upgrade name falls back")
}

func TestStealthFactor(t *testing.T) {
	s := NewSystem(SystemParams{Name: "Engines"})
	_, ok := s.StealthFactor()
	assert.False(t, ok)
	s.StealthCompromised = true
	f, ok := s.StealthFactor()
	assert.True(t, ok)
	assert.InDelta(t, 0.8, f, 1e-9)
}

func TestDefaultPowerLevelStaysInsideLevels(t *testing.T) {
	s := NewSystem(SystemParams{Name: "Sensors", Power: &Power{Power: 5, PowerLevels: []int{5}, DefaultLevel: 3}})
	assert.Equal(t, 0, s.Power.DefaultLevel)

	s = NewSystem(SystemParams{Name: "Engines", Power: &Power{Power: 5, PowerLevels: []int{5, 10}}})
	err := s.SetDefaultPowerLevel(9)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.ErrorIs(t, s.SetDefaultPowerLevel(-1), ErrInvalidArgument)
	assert.Equal(t, 0, s.Power.DefaultLevel)

	require.NoError(t, s.SetDefaultPowerLevel(1))
	assert.Equal(t, 1, s.Power.DefaultLevel)

	extra := NewSystem(SystemParams{Name: "Tractor", Extra: true})
	assert.NoError(t, extra.SetDefaultPowerLevel(0))
	assert.ErrorIs(t, extra.SetDefaultPowerLevel(1), ErrInvalidArgument)
}

func TestSetPowerLevelsClampsDefault(t *testing.T) {
	s := NewSystem(SystemParams{Name: "Engines", Power: &Power{Power: 5, PowerLevels: []int{5, 10, 15}, DefaultLevel: 2}})
	s.SetPowerLevels([]int{4, 8})
	assert.Equal(t, 1, s.Power.DefaultLevel)
	s.SetPowerLevels(nil)
	assert.Equal(t, 0, s.Power.DefaultLevel)
	assert.False(t, s.HasPowerLevels())
}

func TestUpdateLocationsAndMacrosNeverNil(t *testing.T) {
	s := NewSystem(SystemParams{Name: "Engines", Locations: []string{"a"}})
	s.UpdateLocations(nil)
	assert.NotNil(t, s.Locations)
	assert.Empty(t, s.Locations)
	s.SetUpgradeMacros(nil)
	assert.NotNil(t, s.UpgradeMacros)

	s.SetUpgradeMacros([]Macro{{Event: "setSpeed"}})
	require.Len(t, s.UpgradeMacros, 1)
	assert.NotEmpty(t, s.UpgradeMacros[0].ID)
	assert.Equal(t, "{}", s.UpgradeMacros[0].Args)
}

func TestInternalCommHooks(t *testing.T) {
	s := NewSystem(SystemParams{Class: ClassInternalComm, Power: &Power{Power: 5, PowerLevels: []int{3, 6}}})
	ic, _ := s.InternalComm()

	ic.CallIncoming("Deck 4")
	ic.ConnectIncoming()
	assert.Equal(t, CommConnected, ic.State)
	assert.Equal(t, "Deck 4", ic.Outgoing)

	s.SetPower(4)
	assert.Equal(t, CommConnected, ic.State, "power above the first level keeps the call")
	s.SetPower(2)
	assert.Equal(t, CommIdle, ic.State)
	assert.Equal(t, 2, s.Power.Power)

	ic.ConnectOutgoing()
	s.Break("static on the line", false, "")
	assert.Equal(t, CommIdle, ic.State)
	assert.True(t, s.Damage.Damaged)
}

func TestInternalCommCancel(t *testing.T) {
	ic := &InternalComm{State: CommIdle}
	ic.CallOutgoing("Sickbay")
	ic.ConnectOutgoing()
	assert.Equal(t, "Sickbay", ic.Incoming)
	ic.CancelOutgoingCall()
	assert.Equal(t, InternalComm{State: CommIdle}, *ic)

	ic.CallIncoming("Cargo Bay")
	ic.CancelIncomingCall()
	assert.Equal(t, InternalComm{State: CommIdle}, *ic)
}

func TestDamageTaskLifecycle(t *testing.T) {
	s := NewSystem(SystemParams{Name: "Engines"})

	s.AddDamageTask(DamageTask{Definition: "no id"})
	assert.Empty(t, s.DamageTasks)

	s.AddDamageTask(DamageTask{ID: "t1", Definition: "Replace coil", Values: map[string]string{"coil": "A"}})
	s.AddDamageTask(DamageTask{ID: "t1", Definition: "duplicate"})
	require.Len(t, s.DamageTasks, 1)
	assert.Equal(t, "Replace coil", s.DamageTasks[0].Definition)

	err := s.UpdateDamageTask(DamageTaskUpdate{ID: "t1", Verified: ptr(true), Values: map[string]string{"coil": "B"}})
	require.NoError(t, err)
	assert.True(t, s.DamageTasks[0].Verified)
	assert.Equal(t, "Replace coil", s.DamageTasks[0].Definition)
	assert.Equal(t, map[string]string{"coil": "B"}, s.DamageTasks[0].Values)

	before := s.Clone()
	err = s.UpdateDamageTask(DamageTaskUpdate{ID: "missing", Assigned: ptr(true)})
	require.True(t, errors.Is(err, ErrNotFound))
	if diff := cmp.Diff(before, s); diff != "" {
		t.Fatalf("failed update changed the system (-before +after):\n%s", diff)
	}

	s.RemoveDamageTask("missing")
	assert.Len(t, s.DamageTasks, 1)
	s.RemoveDamageTask("t1")
	assert.Empty(t, s.DamageTasks)
}

func TestDamageStepCatalog(t *testing.T) {
	s := NewSystem(SystemParams{Name: "Engines"})
	st, err := s.AddDamageStep(RequiredSteps, DamageStep{End: true, Args: GenericArgs{Message: "Vent the plasma."}})
	require.NoError(t, err)
	assert.NotEmpty(t, st.ID)
	_, err = s.AddDamageStep(OptionalSteps, DamageStep{Args: ProbeLaunchArgs{}})
	require.NoError(t, err)
	require.Len(t, s.RequiredDamageSteps, 1)
	require.Len(t, s.OptionalDamageSteps, 1)

	_, err = s.AddDamageStep("sideways", DamageStep{Args: GenericArgs{}})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = s.AddDamageStep(OptionalSteps, DamageStep{})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = s.UpdateDamageStep(st.ID, DamageStepUpdate{Args: GenericArgs{Message: "Seal the breach."}})
	require.NoError(t, err)
	assert.Equal(t, GenericArgs{Message: "Seal the breach."}, s.RequiredDamageSteps[0].Args)
	assert.True(t, s.RequiredDamageSteps[0].End)

	updated, err := s.UpdateDamageStep(st.ID, DamageStepUpdate{End: ptr(false)})
	require.NoError(t, err)
	assert.False(t, updated.End)
	assert.False(t, s.RequiredDamageSteps[0].End)
	assert.Equal(t, GenericArgs{Message: "Seal the breach."}, s.RequiredDamageSteps[0].Args)

	_, err = s.UpdateDamageStep("missing", DamageStepUpdate{Args: GenericArgs{}})
	assert.ErrorIs(t, err, ErrNotFound)

	s.RemoveDamageStep(st.ID)
	assert.Empty(t, s.RequiredDamageSteps)
	assert.Len(t, s.OptionalDamageSteps, 1)
}

func TestSystemJSONKeepsExtension(t *testing.T) {
	s := NewSystem(SystemParams{ID: "ic", Class: ClassInternalComm})
	ic, _ := s.InternalComm()
	ic.CallIncoming("Bridge")
	_, err := s.AddDamageStep(OptionalSteps, NewDamageStep(SendInventoryArgs{Inventory: []InventoryRequest{{Name: "Coil", Count: 2}}}))
	require.NoError(t, err)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"internalComm"`)

	var back System
	require.NoError(t, json.Unmarshal(data, &back))
	if diff := cmp.Diff(s, &back); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	plain := NewSystem(SystemParams{ID: "eng", Name: "Engines"})
	data, err = json.Marshal(plain)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "internalComm")
}

func TestCloneIsDeep(t *testing.T) {
	s := NewSystem(SystemParams{Class: ClassInternalComm, Locations: []string{"bridge"}})
	s.Break("broken", false, "")
	c := s.Clone()
	c.Locations[0] = "elsewhere"
	*c.Damage.Report = "changed"
	cic, _ := c.InternalComm()
	cic.State = CommConnected

	assert.Equal(t, "bridge", s.Locations[0])
	assert.Equal(t, "broken", *s.Damage.Report)
	ic, _ := s.InternalComm()
	assert.Equal(t, CommIdle, ic.State)
}
