// Package report composes multi-step damage reports for ship systems.
package report

import (
	"fmt"
	"strings"

	"damagecontrol/internal/domain"
	"damagecontrol/internal/steps"
)

const (
	// DefaultSteps is the target step count when none is given.
	DefaultSteps = 5
	// MaxPicks bounds the random draws for the report body. The pool can be
	// smaller than the target, or hold only steps already used, so the loop
	// must stop on its own.
	MaxPicks = 50
)

// Rand is the random source of the composer. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// DefaultOptionalSteps is the optional pool every system draws from before
// its own and its simulator's optional steps are added.
var DefaultOptionalSteps = []domain.DamageStep{
	{Args: domain.DamageTeamArgs{}},
	{Args: domain.DamageTeamArgs{}},
	{Args: domain.DamageTeamMessageArgs{}},
	{Args: domain.RemoteAccessArgs{}},
	{Args: domain.SendInventoryArgs{}},
	{Args: domain.LongRangeMessageArgs{}},
	{Args: domain.ProbeLaunchArgs{}},
	{Args: domain.GenericArgs{}},
	{Args: domain.GenericArgs{}},
	{Args: domain.GenericArgs{}},
	{Args: domain.GenericArgs{}},
	{Args: domain.GenericArgs{}},
	{Args: domain.SecurityTeamArgs{}},
	{Args: domain.SecurityEvacArgs{}},
	{Args: domain.InternalCallArgs{}},
	{Args: domain.ExocompsArgs{}},
	{Args: domain.SoftwarePanelArgs{}},
	{Args: domain.ComputerCoreArgs{}},
}

type Options struct {
	// Steps is the target length of the step sequence before the closing steps.
	Steps int
	// ReactivationCode is shown by the finish step when set.
	ReactivationCode string
}

// RenderedStep is a step that produced text, numbered as it appears in the report.
type RenderedStep struct {
	Number int
	Step   domain.DamageStep
	Text   string
}

type Result struct {
	Text     string
	Steps    []domain.DamageStep
	Rendered []RenderedStep
	Location string
}

// Composer builds damage reports. It reads the system and snapshot and
// never writes to either.
type Composer struct {
	Rand Rand
}

func NewComposer(r Rand) Composer {
	return Composer{Rand: r}
}

// Compose selects, orders and renders the steps of a damage report for sys.
// A pool too small to reach opts.Steps yields a shorter report.
func (c Composer) Compose(sys *domain.System, snap Snapshot, opts Options) Result {
	target := opts.Steps
	if target <= 0 {
		target = DefaultSteps
	}
	env := newEnvironment(snap)
	seq := c.sequence(sys, snap, env, target)
	room, deck, location := c.resolveLocation(sys, snap)

	ctx := steps.Context{
		System:              *sys,
		Simulator:           snap.Simulator,
		Decks:               snap.Decks,
		Deck:                deck,
		Room:                room,
		Location:            location,
		Crew:                snap.Crew,
		DamageTeamCrew:      env.damageTeamCrew,
		DamageTeamCrewCount: env.damageTeamCrewCount,
		SecurityTeamCrew:    env.securityTeamCrew,
		Inventory:           snap.Inventory,
		Exocomps:            snap.Exocomps,
		SoftwarePanels:      snap.SoftwarePanels,
		Steps:               seq,
		ReactivationCode:    opts.ReactivationCode,
	}
	res := Result{Steps: seq, Location: location}
	var b strings.Builder
	for i, st := range seq {
		text := steps.Render(st, ctx, i)
		if text == "" {
			continue
		}
		n := len(res.Rendered) + 1
		res.Rendered = append(res.Rendered, RenderedStep{Number: n, Step: st, Text: text})
		fmt.Fprintf(&b, "Step %d:\n%s\n\n", n, text)
	}
	res.Text = b.String()
	return res
}

func (c Composer) sequence(sys *domain.System, snap Snapshot, env environment, target int) []domain.DamageStep {
	var seq []domain.DamageStep
	if sys.HasPowerLevels() && env.has("PowerDistribution") {
		seq = append(seq, domain.DamageStep{Args: domain.PowerArgs{End: false}})
	}
	required := append(append([]domain.DamageStep{}, sys.RequiredDamageSteps...), snap.Simulator.RequiredDamageSteps...)
	for _, st := range required {
		if !st.End {
			seq = append(seq, st)
		}
	}

	pool := eligibleSteps(sys, snap, env)
	picks := 0
	if containsKind(pool, domain.StepDamageTeam) {
		seq = append(seq, domain.DamageStep{Args: domain.DamageTeamArgs{}})
		picks = 1
	}
	for len(seq) < target && picks < MaxPicks && len(pool) > 0 {
		picks++
		i := c.Rand.Intn(len(pool))
		st := pool[i]
		switch {
		case st.Is(domain.StepGeneric) || !containsKind(seq, st.Name()):
			seq = append(seq, st)
			// Damage teams stay in the pool so a cleanup visit can follow.
			if !st.Is(domain.StepDamageTeam) {
				pool = append(pool[:i:i], pool[i+1:]...)
			}
		case st.Is(domain.StepDamageTeam) && countKind(seq, domain.StepDamageTeam) == 1 && len(seq)+2 <= target:
			seq = append(seq,
				domain.DamageStep{Args: domain.DamageTeamArgs{End: true}},
				domain.DamageStep{Args: domain.DamageTeamArgs{End: false, Cleanup: true}},
			)
		}
	}

	for _, st := range required {
		if st.End {
			seq = append(seq, st)
		}
	}
	if containsKind(seq, domain.StepDamageTeam) {
		seq = append(seq, domain.DamageStep{Args: domain.DamageTeamArgs{End: true}})
	}
	if containsKind(seq, domain.StepPower) {
		seq = append(seq, domain.DamageStep{Args: domain.PowerArgs{End: true}})
	}
	return append(seq, domain.DamageStep{Args: domain.FinishArgs{Reactivate: true}})
}

// eligibleSteps filters the optional candidates down to the steps the
// simulator can actually carry out.
func eligibleSteps(sys *domain.System, snap Snapshot, env environment) []domain.DamageStep {
	candidates := append(append(append([]domain.DamageStep{}, DefaultOptionalSteps...),
		sys.OptionalDamageSteps...), snap.Simulator.OptionalDamageSteps...)
	hasDamageTeam := false
	var out []domain.DamageStep
	for _, st := range candidates {
		var ok bool
		switch st.Name() {
		case domain.StepDamageTeam:
			ok = len(env.damageTeamCrew) > 0 && len(sys.Locations) > 0 && env.has("DamageTeams")
			hasDamageTeam = hasDamageTeam || ok
		case domain.StepDamageTeamMessage:
			ok = (env.has("Messaging") || env.widget("messages")) && len(env.damageTeamCrew) > 0 && hasDamageTeam
		case domain.StepRemoteAccess:
			ok = env.widget("remote")
		case domain.StepSendInventory:
			ok = snap.hasRepairInventory()
		case domain.StepLongRangeMessage:
			ok = env.widget("composer") && env.has("LongRangeComm") && sys.Class != domain.ClassLongRangeComm
		case domain.StepProbeLaunch:
			ok = env.has("ProbeConstruction") && sys.Class != domain.ClassProbes
		case domain.StepGeneric:
			ok = true
		case domain.StepSecurityTeam:
			ok = env.has("SecurityTeams")
		case domain.StepSecurityEvac:
			ok = env.has("SecurityDecks") && len(snap.Decks) > 0
		case domain.StepInternalCall:
			ok = env.has("CommInternal") && len(snap.Decks) > 0 && sys.Class != domain.ClassInternalComm
		case domain.StepExocomps:
			ok = env.has("Exocomps") && snap.hasExocomp()
		case domain.StepSoftwarePanel:
			ok = snap.hasSoftwarePanel()
		case domain.StepComputerCore:
			ok = env.has("ComputerCore")
		}
		if ok {
			out = append(out, st)
		}
	}
	return out
}

// resolveLocation picks the room that anchors location-dependent text: one
// of the system's own rooms, else any room of the simulator.
func (c Composer) resolveLocation(sys *domain.System, snap Snapshot) (*domain.Room, *domain.Deck, string) {
	var room *domain.Room
	if len(sys.Locations) > 0 {
		room = snap.room(sys.Locations[c.Rand.Intn(len(sys.Locations))])
	}
	if room == nil && len(snap.SimulatorRooms) > 0 {
		r := snap.SimulatorRooms[c.Rand.Intn(len(snap.SimulatorRooms))]
		room = &r
	}
	if room == nil {
		return nil, nil, "None"
	}
	deck := snap.deck(room.DeckID)
	if deck == nil {
		return room, nil, room.Name
	}
	return room, deck, fmt.Sprintf("%s, Deck %d", room.Name, deck.Number)
}

func containsKind(list []domain.DamageStep, kind domain.StepKind) bool {
	return countKind(list, kind) > 0
}

func countKind(list []domain.DamageStep, kind domain.StepKind) int {
	n := 0
	for _, st := range list {
		if st.Is(kind) {
			n++
		}
	}
	return n
}
