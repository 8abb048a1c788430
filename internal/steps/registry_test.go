package steps

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"damagecontrol/internal/domain"
)

func testContext() Context {
	sim := domain.Simulator{
		ID:   "sim",
		Name: "Voyager",
		Stations: []domain.Station{
			{Name: "Engineering", Cards: []domain.Card{{Name: "Power", Component: "PowerDistribution"}}, Widgets: []string{"remote"}},
			{Name: "Captain", Cards: []domain.Card{{Name: "Damage Teams", Component: "DamageTeams"}}, Widgets: []string{"messages"}},
		},
	}
	sys := domain.NewSystem(domain.SystemParams{
		ID:    "eng",
		Name:  "Engines",
		Power: &domain.Power{Power: 5, PowerLevels: []int{5, 10}, DefaultLevel: 1},
	})
	deck := domain.Deck{ID: "deck-3", SimulatorID: "sim", Number: 3}
	room := domain.Room{ID: "me", SimulatorID: "sim", DeckID: "deck-3", Name: "Main Engineering"}
	return Context{
		System:              *sys,
		Simulator:           sim,
		Decks:               []domain.Deck{deck},
		Deck:                &deck,
		Room:                &room,
		Location:            "Main Engineering, Deck 3",
		DamageTeamCrew:      []string{"Electrician", "Welder"},
		DamageTeamCrewCount: map[string]int{"Electrician": 2, "Welder": 1},
		SecurityTeamCrew:    []string{"Security Officer"},
		Inventory:           []domain.InventoryItem{{ID: "i1", SimulatorID: "sim", Name: "Coil", Type: "repair", Count: 3}},
		SoftwarePanels:      []domain.SoftwarePanel{{ID: "p1", SimulatorID: "sim", Name: "Reactor Bypass"}},
		ReactivationCode:    "ABCD2345",
	}
}

var allArgs = []domain.StepArgs{
	domain.PowerArgs{},
	domain.DamageTeamArgs{},
	domain.DamageTeamMessageArgs{},
	domain.RemoteAccessArgs{},
	domain.SendInventoryArgs{},
	domain.LongRangeMessageArgs{},
	domain.ProbeLaunchArgs{},
	domain.GenericArgs{},
	domain.SecurityTeamArgs{},
	domain.SecurityEvacArgs{},
	domain.InternalCallArgs{},
	domain.ExocompsArgs{},
	domain.SoftwarePanelArgs{},
	domain.ComputerCoreArgs{},
	domain.FinishArgs{Reactivate: true},
}

func TestEveryKindRenders(t *testing.T) {
	require.Len(t, allArgs, len(domain.StepKinds))
	ctx := testContext()
	for i, args := range allArgs {
		text := Render(domain.DamageStep{Args: args}, ctx, i)
		assert.NotEmpty(t, text, args.Kind())
	}
}

func TestRenderIsDeterministicByIndex(t *testing.T) {
	ctx := testContext()
	for i, args := range allArgs {
		st := domain.DamageStep{Args: args}
		assert.Equal(t, Render(st, ctx, i), Render(st, ctx, i), args.Kind())
	}
}

func TestPowerRestoresDefaultLevel(t *testing.T) {
	ctx := testContext()
	open := Render(domain.DamageStep{Args: domain.PowerArgs{}}, ctx, 0)
	assert.Contains(t, open, "the Engineering officer")
	assert.Contains(t, open, "to 0.")
	closing := Render(domain.DamageStep{Args: domain.PowerArgs{End: true}}, ctx, 5)
	assert.Contains(t, closing, "to 10.")
}

func TestDamageTeamText(t *testing.T) {
	ctx := testContext()
	open := Render(domain.DamageStep{Args: domain.DamageTeamArgs{}}, ctx, 0)
	assert.Contains(t, open, "damage team of 2 Electricians to Main Engineering, Deck 3")
	assert.Contains(t, open, "the Captain officer")

	cleanup := Render(domain.DamageStep{Args: domain.DamageTeamArgs{Cleanup: true, Type: "Welder"}}, ctx, 0)
	assert.Contains(t, cleanup, "cleanup team of 1 Welder to")

	recall := Render(domain.DamageStep{Args: domain.DamageTeamArgs{End: true}}, ctx, 3)
	assert.Contains(t, recall, "recall the damage team from Main Engineering, Deck 3")

	ctx.DamageTeamCrew = nil
	assert.Empty(t, Render(domain.DamageStep{Args: domain.DamageTeamArgs{}}, ctx, 0))
}

func TestRoomOverrideResolvesDeck(t *testing.T) {
	ctx := testContext()
	text := Render(domain.DamageStep{Args: domain.SecurityTeamArgs{Room: "deck-3"}}, ctx, 0)
	assert.Contains(t, text, "to Deck 3.")
	text = Render(domain.DamageStep{Args: domain.ExocompsArgs{Destination: "Jefferies Tube 7"}}, ctx, 0)
	assert.Contains(t, text, "to Jefferies Tube 7 to repair")
}

func TestStepsThatDropOut(t *testing.T) {
	ctx := testContext()
	ctx.Inventory = nil
	ctx.SoftwarePanels = nil
	ctx.Location = noLocation
	assert.Empty(t, Render(domain.DamageStep{Args: domain.SendInventoryArgs{}}, ctx, 0))
	assert.Empty(t, Render(domain.DamageStep{Args: domain.SoftwarePanelArgs{}}, ctx, 0))
	assert.Empty(t, Render(domain.DamageStep{Args: domain.SecurityEvacArgs{}}, ctx, 0))
	assert.Empty(t, Render(domain.DamageStep{}, ctx, 0))

	call := Render(domain.DamageStep{Args: domain.InternalCallArgs{}}, ctx, 0)
	assert.Contains(t, call, "Location: All Decks")
}

func TestSendInventoryExplicitItems(t *testing.T) {
	ctx := testContext()
	text := Render(domain.DamageStep{Args: domain.SendInventoryArgs{
		Inventory: []domain.InventoryRequest{{Name: "Hyperspanner", Count: 2}},
	}}, ctx, 0)
	assert.True(t, strings.HasSuffix(text, "\n- 2 Hyperspanner"), text)
	assert.Contains(t, text, "the person in charge of cargo")
}

func TestFinishShowsReactivationCode(t *testing.T) {
	ctx := testContext()
	text := Render(domain.DamageStep{Args: domain.FinishArgs{Reactivate: true}}, ctx, 0)
	assert.Contains(t, text, "reactivation code: ABCD2345")
	ctx.ReactivationCode = ""
	text = Render(domain.DamageStep{Args: domain.FinishArgs{Reactivate: true}}, ctx, 0)
	assert.Contains(t, text, "Reactivate the Engines system.")
	text = Render(domain.DamageStep{Args: domain.FinishArgs{}}, ctx, 0)
	assert.Contains(t, text, "ready for use")
}

func TestGenericUsesMessage(t *testing.T) {
	ctx := testContext()
	assert.Equal(t, "Vent the plasma.", Render(domain.DamageStep{Args: domain.GenericArgs{Message: "Vent the plasma."}}, ctx, 2))
	text := Render(domain.DamageStep{Args: domain.GenericArgs{}}, ctx, 0)
	assert.Equal(t, "Run a level 1 diagnostic on the Engines system.", text)
	assert.NotContains(t, Render(domain.DamageStep{Args: domain.GenericArgs{}}, ctx, 1), "EXTRA")
}
