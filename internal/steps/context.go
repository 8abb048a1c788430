// Package steps renders individual damage report steps.
package steps

import (
	"fmt"

	"damagecontrol/internal/domain"
)

// Context is everything a step renderer may read. It is built once per
// composed report and never mutated by renderers.
type Context struct {
	System              domain.System
	Simulator           domain.Simulator
	Decks               []domain.Deck
	Deck                *domain.Deck
	Room                *domain.Room
	Location            string
	Crew                []domain.Crew
	DamageTeamCrew      []string
	DamageTeamCrewCount map[string]int
	SecurityTeamCrew    []string
	Inventory           []domain.InventoryItem
	Exocomps            []domain.Exocomp
	SoftwarePanels      []domain.SoftwarePanel
	Steps               []domain.DamageStep
	ReactivationCode    string
}

// officer names who performs an action on the station carrying the component.
func (c Context) officer(component, fallback string) string {
	if st, ok := c.Simulator.StationFor(component); ok {
		return fmt.Sprintf("the %s officer", st.Name)
	}
	return "the person in charge of " + fallback
}

func (c Context) systemName() string {
	s := c.System
	if name := s.DisplayName(); name != "" {
		return name
	}
	return s.Name
}

func (c Context) location(override string) string {
	if override == "" {
		return c.Location
	}
	for _, r := range c.Decks {
		if r.ID == override {
			return fmt.Sprintf("Deck %d", r.Number)
		}
	}
	return override
}

func (c Context) hasWidget(widget string) bool {
	for _, st := range c.Simulator.Stations {
		for _, w := range st.Widgets {
			if w == widget {
				return true
			}
		}
	}
	return false
}
