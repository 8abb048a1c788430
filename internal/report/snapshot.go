package report

import (
	"strings"

	"damagecontrol/internal/domain"
)

// DamagePositions are the crew positions that make up damage teams.
var DamagePositions = []string{
	"Computer Specialist",
	"Custodian",
	"Quality Assurance",
	"Electrician",
	"Explosive Expert",
	"Fire Control",
	"General Engineer",
	"Hazardous Waste Expert",
	"Maintenance Officer",
	"Mechanic",
	"Plumber",
	"Structural Engineer",
	"Welder",
}

// Snapshot is the read-only view of the simulator a report is composed
// against. Rooms holds only the rooms the system occupies; SimulatorRooms
// holds every room of the simulator.
type Snapshot struct {
	Simulator      domain.Simulator
	Decks          []domain.Deck
	Rooms          []domain.Room
	SimulatorRooms []domain.Room
	Crew           []domain.Crew
	Inventory      []domain.InventoryItem
	Exocomps       []domain.Exocomp
	SoftwarePanels []domain.SoftwarePanel
}

// environment is derived from a snapshot once per composition.
type environment struct {
	components          map[string]bool
	widgets             map[string]bool
	damageTeamCrew      []string
	damageTeamCrewCount map[string]int
	securityTeamCrew    []string
}

func newEnvironment(snap Snapshot) environment {
	env := environment{
		components:          map[string]bool{},
		widgets:             map[string]bool{},
		damageTeamCrewCount: map[string]int{},
	}
	for _, st := range snap.Simulator.Stations {
		for _, c := range st.Cards {
			env.components[c.Component] = true
		}
		for _, w := range st.Widgets {
			env.widgets[w] = true
		}
	}
	for _, c := range snap.Crew {
		if isDamagePosition(c.Position) {
			if env.damageTeamCrewCount[c.Position] == 0 {
				env.damageTeamCrew = append(env.damageTeamCrew, c.Position)
			}
			env.damageTeamCrewCount[c.Position]++
		}
		if strings.Contains(c.Position, "Security") {
			env.securityTeamCrew = append(env.securityTeamCrew, c.Position)
		}
	}
	return env
}

func isDamagePosition(position string) bool {
	for _, p := range DamagePositions {
		if p == position {
			return true
		}
	}
	return false
}

func (e environment) has(component string) bool { return e.components[component] }

func (e environment) widget(name string) bool { return e.widgets[name] }

// Components lists the distinct card components installed on the simulator's stations.
func (s Snapshot) Components() []string {
	seen := map[string]bool{}
	var out []string
	for _, st := range s.Simulator.Stations {
		for _, c := range st.Cards {
			if !seen[c.Component] {
				seen[c.Component] = true
				out = append(out, c.Component)
			}
		}
	}
	return out
}

func (s Snapshot) deck(id string) *domain.Deck {
	for i := range s.Decks {
		if s.Decks[i].ID == id {
			d := s.Decks[i]
			return &d
		}
	}
	return nil
}

func (s Snapshot) room(id string) *domain.Room {
	for i := range s.Rooms {
		if s.Rooms[i].ID == id {
			r := s.Rooms[i]
			return &r
		}
	}
	return nil
}

func (s Snapshot) hasRepairInventory() bool {
	for _, it := range s.Inventory {
		if it.SimulatorID == s.Simulator.ID && it.Type == "repair" {
			return true
		}
	}
	return false
}

func (s Snapshot) hasExocomp() bool {
	for _, e := range s.Exocomps {
		if e.SimulatorID == s.Simulator.ID {
			return true
		}
	}
	return false
}

func (s Snapshot) hasSoftwarePanel() bool {
	for _, p := range s.SoftwarePanels {
		if p.SimulatorID == s.Simulator.ID {
			return true
		}
	}
	return false
}
