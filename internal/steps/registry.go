package steps

import (
	"fmt"
	"strings"

	"damagecontrol/internal/domain"
)

var greekLetters = []string{
	"Alpha", "Beta", "Gamma", "Delta", "Epsilon", "Zeta", "Eta", "Theta",
	"Iota", "Kappa", "Lambda", "Mu", "Nu", "Xi", "Omicron", "Pi", "Rho",
	"Sigma", "Tau", "Upsilon", "Phi", "Chi", "Psi", "Omega",
}

var genericMessages = []string{
	"Run a level %d diagnostic on the %s system.",
	"Flush the coolant lines feeding the %[2]s system and check for residual charge.",
	"Reseat the isolinear chips in the %[2]s control junction.",
	"Realign the plasma conduits between the %[2]s system and the main bus.",
	"Check the %[2]s system for microfractures and seal any you find.",
}

// Render produces the text of one step. index is the step's position in the
// unfiltered sequence. An empty result means the step is dropped.
func Render(step domain.DamageStep, ctx Context, index int) string {
	if step.Args == nil {
		return ""
	}
	return step.Args.Accept(renderer{ctx: ctx, index: index})
}

// renderer implements domain.StepVisitor; a new step kind does not compile
// until it has a method here.
type renderer struct {
	ctx   Context
	index int
}

var _ domain.StepVisitor = renderer{}

func pick(list []string, index int) string {
	if len(list) == 0 {
		return ""
	}
	return list[index%len(list)]
}

func or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func (r renderer) Power(a domain.PowerArgs) string {
	officer := r.ctx.officer("PowerDistribution", "power distribution")
	sys := r.ctx.systemName()
	if !a.End {
		return fmt.Sprintf("%s Ask %s to reduce the power to the %s system to 0.",
			or(a.Preamble, "Power to the system must be cut before repairs can begin."), officer, sys)
	}
	target := r.ctx.System.Power.Power
	levels := r.ctx.System.Power.PowerLevels
	if def := r.ctx.System.Power.DefaultLevel; def >= 0 && def < len(levels) {
		target = levels[def]
	}
	return fmt.Sprintf("%s Ask %s to restore the power to the %s system to %d.",
		or(a.Preamble, "With the repairs in place, the system can be powered back up."), officer, sys, target)
}

func (r renderer) DamageTeam(a domain.DamageTeamArgs) string {
	officer := r.ctx.officer("DamageTeams", "damage teams")
	loc := r.ctx.location(a.Room)
	if a.End {
		return fmt.Sprintf("%s Ask %s to recall the damage team from %s.",
			or(a.Preamble, "The damage team has finished its work."), officer, loc)
	}
	position := a.Type
	if position == "" {
		position = pick(r.ctx.DamageTeamCrew, r.index)
	}
	if position == "" {
		return ""
	}
	count := r.ctx.DamageTeamCrewCount[position]
	if count < 1 {
		count = 1
	}
	if a.Cleanup {
		return fmt.Sprintf("%s Ask %s to send a cleanup team of %d %s to %s.\nOrders: %s",
			or(a.Preamble, "A cleanup team should make sure the area is safe and the repairs hold."),
			officer, count, plural(position, count), loc,
			or(a.Orders, "Clean up the debris and verify the repairs to the "+r.ctx.systemName()+" system."))
	}
	return fmt.Sprintf("%s Ask %s to send a damage team of %d %s to %s.\nOrders: %s",
		or(a.Preamble, "A damage team should be sent to inspect the damage."),
		officer, count, plural(position, count), loc,
		or(a.Orders, "Inspect and repair the "+r.ctx.systemName()+" system."))
}

func plural(position string, count int) string {
	if count == 1 {
		return position
	}
	return position + "s"
}

func (r renderer) DamageTeamMessage(a domain.DamageTeamMessageArgs) string {
	officer := r.ctx.officer("Messaging", "internal messaging")
	if _, ok := r.ctx.Simulator.StationFor("Messaging"); !ok && r.ctx.hasWidget("messages") {
		officer = "the officer with the messaging widget"
	}
	msg := a.Message
	if msg == "" {
		msg = fmt.Sprintf("Report the status of the %s repairs at %s.", r.ctx.systemName(), r.ctx.Location)
	}
	return fmt.Sprintf("%s Ask %s to send the following message to the damage team:\n%q",
		or(a.Preamble, "The damage team needs further instructions."), officer, msg)
}

func (r renderer) RemoteAccess(a domain.RemoteAccessArgs) string {
	code := a.Code
	if code == "" {
		code = fmt.Sprintf("%s-%s-%d", strings.ToUpper(firstN(r.ctx.systemName(), 3)), pick(greekLetters, r.index), 100+r.index*37%900)
	}
	text := fmt.Sprintf("%s Ask the officer with the remote access widget to send the following code: %s",
		or(a.Preamble, "The system's safety interlocks must be disengaged remotely."), code)
	if a.Backup != "" {
		text += fmt.Sprintf("\nIf the code is rejected, use the backup code: %s", a.Backup)
	}
	return text
}

func firstN(s string, n int) string {
	s = strings.ReplaceAll(s, " ", "")
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func (r renderer) SendInventory(a domain.SendInventoryArgs) string {
	items := a.Inventory
	if len(items) == 0 {
		var repair []domain.InventoryItem
		for _, it := range r.ctx.Inventory {
			if it.Type == "repair" && it.Count > 0 {
				repair = append(repair, it)
			}
		}
		for i := 0; i < len(repair) && i < 2; i++ {
			it := repair[(r.index+i)%len(repair)]
			items = append(items, domain.InventoryRequest{Name: it.Name, Count: min(it.Count, 1+r.index%3)})
		}
	}
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s Ask %s to send the following items to %s:",
		or(a.Preamble, "Replacement parts are needed to complete the repairs."),
		r.ctx.officer("CargoControl", "cargo"), r.ctx.location(a.Destination))
	for _, it := range items {
		fmt.Fprintf(&b, "\n- %d %s", it.Count, it.Name)
	}
	return b.String()
}

func (r renderer) LongRangeMessage(a domain.LongRangeMessageArgs) string {
	return fmt.Sprintf("%s Ask %s to send a long range message to %s:\n%q",
		or(a.Preamble, "Starfleet engineers may have seen this fault before."),
		r.ctx.officer("LongRangeComm", "long range communications"),
		or(a.Destination, "Starbase Command"),
		or(a.Message, fmt.Sprintf("Requesting technical schematics for the %s system of the %s.", r.ctx.systemName(), r.ctx.Simulator.Name)))
}

func (r renderer) ProbeLaunch(a domain.ProbeLaunchArgs) string {
	return fmt.Sprintf("%s Ask %s to launch a probe equipped with %s.\nQuery: %s",
		or(a.Preamble, "Outside interference may be disrupting the system."),
		r.ctx.officer("ProbeConstruction", "probes"),
		or(a.Equipment, "a radiation sensor"),
		or(a.Query, "Scan the hull around "+r.ctx.Location+" for subspace distortion."))
}

func (r renderer) Generic(a domain.GenericArgs) string {
	if a.Message != "" {
		return a.Message
	}
	return fmt.Sprintf(pick(genericMessages, r.index), 1+r.index%5, r.ctx.systemName())
}

func (r renderer) SecurityTeam(a domain.SecurityTeamArgs) string {
	team := a.Name
	if team == "" {
		team = or(pick(r.ctx.SecurityTeamCrew, r.index), "security")
		team += " team"
	}
	return fmt.Sprintf("%s Ask %s to send a %s to %s.\nOrders: %s",
		or(a.Preamble, "The damage may have been sabotage."),
		r.ctx.officer("SecurityTeams", "security teams"), team, r.ctx.location(a.Room),
		or(a.Orders, "Secure the area around the "+r.ctx.systemName()+" system and look for signs of tampering."))
}

func (r renderer) SecurityEvac(a domain.SecurityEvacArgs) string {
	loc := r.ctx.location(a.Room)
	if loc == "" || loc == noLocation {
		return ""
	}
	return fmt.Sprintf("%s Ask %s to evacuate and seal %s.",
		or(a.Preamble, "The area around the damage is unsafe for the crew."),
		r.ctx.officer("SecurityDecks", "deck security"), loc)
}

func (r renderer) InternalCall(a domain.InternalCallArgs) string {
	msg := a.Message
	if msg == "" {
		switch r.index % 3 {
		case 0:
			msg = fmt.Sprintf("Run a level %d diagnostic.", 1+r.index%5)
		case 1:
			msg = fmt.Sprintf("Activate the %s protocol.", pick(greekLetters, r.index))
		default:
			msg = "Ensure there is no residual power flow in the junction capacitors."
		}
	}
	loc := r.ctx.location(a.Room)
	if loc == "" || loc == noLocation {
		loc = "All Decks"
	}
	return fmt.Sprintf("%s Ask %s to make the following internal call:\n\nLocation: %s\nMessage: %s",
		or(a.Preamble, "A call must be made within the ship."),
		r.ctx.officer("CommInternal", "internal communication"), loc, msg)
}

func (r renderer) Exocomps(a domain.ExocompsArgs) string {
	return fmt.Sprintf("%s Ask %s to send an exocomp to %s to repair the %s system.",
		or(a.Preamble, "The damage is in a space too dangerous for the crew."),
		r.ctx.officer("Exocomps", "exocomps"), r.ctx.location(a.Destination), r.ctx.systemName())
}

func (r renderer) SoftwarePanel(a domain.SoftwarePanelArgs) string {
	if len(r.ctx.SoftwarePanels) == 0 {
		return ""
	}
	panel := r.ctx.SoftwarePanels[r.index%len(r.ctx.SoftwarePanels)]
	return fmt.Sprintf("%s Reconfigure the %s software panel to reroute the %s control circuits.",
		or(a.Preamble, "The system's control software has to be reset."), panel.Name, r.ctx.systemName())
}

func (r renderer) ComputerCore(a domain.ComputerCoreArgs) string {
	return fmt.Sprintf("%s Ask %s to restore the %s control files from the last backup.",
		or(a.Preamble, "Corrupted files in the computer core are preventing the repair."),
		r.ctx.officer("ComputerCore", "the computer core"), r.ctx.systemName())
}

func (r renderer) Finish(a domain.FinishArgs) string {
	sys := r.ctx.systemName()
	if a.Reactivate && r.ctx.ReactivationCode != "" {
		return fmt.Sprintf("%s Reactivate the %s system using the following reactivation code: %s",
			or(a.Preamble, "The repairs are complete."), sys, r.ctx.ReactivationCode)
	}
	if a.Reactivate {
		return fmt.Sprintf("%s Reactivate the %s system.", or(a.Preamble, "The repairs are complete."), sys)
	}
	return fmt.Sprintf("%s The %s system is ready for use.", or(a.Preamble, "The repairs are complete."), sys)
}

// noLocation is what the composer reports when no room can be resolved.
const noLocation = "None"
