package domain

import "strings"

type Simulator struct {
	ID                  string       `json:"id" yaml:"id"`
	Name                string       `json:"name" yaml:"name"`
	Stations            []Station    `json:"stations" yaml:"stations"`
	RequiredDamageSteps []DamageStep `json:"requiredDamageSteps,omitempty" yaml:"requiredDamageSteps,omitempty"`
	OptionalDamageSteps []DamageStep `json:"optionalDamageSteps,omitempty" yaml:"optionalDamageSteps,omitempty"`
}

type Station struct {
	Name    string   `json:"name" yaml:"name"`
	Cards   []Card   `json:"cards" yaml:"cards"`
	Widgets []string `json:"widgets,omitempty" yaml:"widgets,omitempty"`
}

type Card struct {
	Name      string `json:"name" yaml:"name"`
	Component string `json:"component" yaml:"component"`
}

// HasCard reports whether the station carries a card for the component.
func (s Station) HasCard(component string) bool {
	for _, c := range s.Cards {
		if c.Component == component {
			return true
		}
	}
	return false
}

// StationFor returns the first station with a card for the component.
func (s Simulator) StationFor(component string) (Station, bool) {
	for _, st := range s.Stations {
		if st.HasCard(component) {
			return st, true
		}
	}
	return Station{}, false
}

type Deck struct {
	ID          string `json:"id" yaml:"id"`
	SimulatorID string `json:"simulatorId" yaml:"simulatorId"`
	Number      int    `json:"number" yaml:"number"`
}

type Room struct {
	ID          string `json:"id" yaml:"id"`
	SimulatorID string `json:"simulatorId" yaml:"simulatorId"`
	DeckID      string `json:"deckId" yaml:"deckId"`
	Name        string `json:"name" yaml:"name"`
}

type Crew struct {
	ID          string `json:"id" yaml:"id"`
	SimulatorID string `json:"simulatorId" yaml:"simulatorId"`
	FirstName   string `json:"firstName" yaml:"firstName"`
	LastName    string `json:"lastName" yaml:"lastName"`
	Position    string `json:"position" yaml:"position"`
}

func (c Crew) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

type InventoryItem struct {
	ID          string `json:"id" yaml:"id"`
	SimulatorID string `json:"simulatorId" yaml:"simulatorId"`
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Count       int    `json:"count" yaml:"count"`
}

type Exocomp struct {
	ID          string   `json:"id" yaml:"id"`
	SimulatorID string   `json:"simulatorId" yaml:"simulatorId"`
	Parts       []string `json:"parts,omitempty" yaml:"parts,omitempty"`
}

type SoftwarePanel struct {
	ID          string `json:"id" yaml:"id"`
	SimulatorID string `json:"simulatorId" yaml:"simulatorId"`
	Name        string `json:"name" yaml:"name"`
}

// Macro is an event fired when a system is upgraded.
type Macro struct {
	ID              string `json:"id" yaml:"id"`
	Event           string `json:"event" yaml:"event"`
	Args            string `json:"args" yaml:"args"`
	Delay           int    `json:"delay" yaml:"delay"`
	NoCancelOnReset bool   `json:"noCancelOnReset" yaml:"noCancelOnReset"`
}

type Event struct {
	ID          int64  `json:"id"`
	TS          string `json:"ts" format:"date-time"`
	Type        string `json:"type"`
	SimulatorID string `json:"simulator_id,omitempty"`
	EntityKind  string `json:"entity_kind"`
	EntityID    string `json:"entity_id,omitempty"`
	ActorID     string `json:"actor_id"`
	Payload     string `json:"payload_json"`
}
