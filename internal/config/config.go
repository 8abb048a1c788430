package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"damagecontrol/internal/domain"
)

// Config models scenario.yml: one simulator, its surroundings and its systems.
type Config struct {
	Simulator      domain.Simulator       `yaml:"simulator"`
	Decks          []domain.Deck          `yaml:"decks"`
	Rooms          []domain.Room          `yaml:"rooms"`
	Crew           []domain.Crew          `yaml:"crew"`
	Inventory      []domain.InventoryItem `yaml:"inventory"`
	Exocomps       []domain.Exocomp       `yaml:"exocomps"`
	SoftwarePanels []domain.SoftwarePanel `yaml:"softwarePanels"`
	Systems        []domain.SystemParams  `yaml:"systems"`
}

// Load reads and validates the scenario from workspace.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("scenario %s not found; create one with dc scenario init", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// normalize fills simulator ids left blank on the simulator's entities.
func (c *Config) normalize() {
	sim := c.Simulator.ID
	for i := range c.Decks {
		if c.Decks[i].SimulatorID == "" {
			c.Decks[i].SimulatorID = sim
		}
	}
	for i := range c.Rooms {
		if c.Rooms[i].SimulatorID == "" {
			c.Rooms[i].SimulatorID = sim
		}
	}
	for i := range c.Crew {
		if c.Crew[i].SimulatorID == "" {
			c.Crew[i].SimulatorID = sim
		}
	}
	for i := range c.Inventory {
		if c.Inventory[i].SimulatorID == "" {
			c.Inventory[i].SimulatorID = sim
		}
	}
	for i := range c.Exocomps {
		if c.Exocomps[i].SimulatorID == "" {
			c.Exocomps[i].SimulatorID = sim
		}
	}
	for i := range c.SoftwarePanels {
		if c.SoftwarePanels[i].SimulatorID == "" {
			c.SoftwarePanels[i].SimulatorID = sim
		}
	}
	for i := range c.Systems {
		if c.Systems[i].SimulatorID == "" {
			c.Systems[i].SimulatorID = sim
		}
	}
}

// Validate ensures the scenario is internally consistent.
func (c *Config) Validate() error {
	if c.Simulator.ID == "" {
		return fmt.Errorf("scenario.simulator.id is required")
	}
	if c.Simulator.Name == "" {
		return fmt.Errorf("scenario.simulator.name is required")
	}
	for _, st := range append(append([]domain.DamageStep{}, c.Simulator.RequiredDamageSteps...), c.Simulator.OptionalDamageSteps...) {
		if err := st.Validate(); err != nil {
			return fmt.Errorf("simulator damage step: %w", err)
		}
	}
	decks := map[string]bool{}
	numbers := map[int]bool{}
	for _, d := range c.Decks {
		if d.ID == "" {
			return fmt.Errorf("deck %d has empty id", d.Number)
		}
		if decks[d.ID] {
			return fmt.Errorf("duplicate deck id %s", d.ID)
		}
		if numbers[d.Number] {
			return fmt.Errorf("duplicate deck number %d", d.Number)
		}
		decks[d.ID] = true
		numbers[d.Number] = true
	}
	rooms := map[string]bool{}
	for _, r := range c.Rooms {
		if r.ID == "" {
			return fmt.Errorf("room %q has empty id", r.Name)
		}
		if rooms[r.ID] {
			return fmt.Errorf("duplicate room id %s", r.ID)
		}
		if !decks[r.DeckID] {
			return fmt.Errorf("room %s references unknown deck %s", r.ID, r.DeckID)
		}
		rooms[r.ID] = true
	}
	ids := map[string]bool{}
	for _, cr := range c.Crew {
		if cr.ID == "" {
			return fmt.Errorf("crew member %q has empty id", cr.FullName())
		}
		if ids[cr.ID] {
			return fmt.Errorf("duplicate crew id %s", cr.ID)
		}
		ids[cr.ID] = true
	}
	for _, it := range c.Inventory {
		if it.ID == "" || it.Name == "" {
			return fmt.Errorf("inventory item requires id and name")
		}
		if it.Count < 0 {
			return fmt.Errorf("inventory item %s has negative count", it.ID)
		}
	}
	for _, e := range c.Exocomps {
		if e.ID == "" {
			return fmt.Errorf("exocomp has empty id")
		}
	}
	for _, p := range c.SoftwarePanels {
		if p.ID == "" {
			return fmt.Errorf("software panel %q has empty id", p.Name)
		}
	}
	systems := map[string]bool{}
	for _, s := range c.Systems {
		if s.Name == "" && s.Class != domain.ClassInternalComm {
			return fmt.Errorf("system %s requires a name", s.ID)
		}
		if s.ID != "" {
			if systems[s.ID] {
				return fmt.Errorf("duplicate system id %s", s.ID)
			}
			systems[s.ID] = true
		}
		if s.Power != nil {
			if err := s.Power.Validate(); err != nil {
				return fmt.Errorf("system %s power: %w", s.Name, err)
			}
		}
		for _, loc := range s.Locations {
			if !rooms[loc] {
				return fmt.Errorf("system %s references unknown room %s", s.Name, loc)
			}
		}
		for _, st := range append(append([]domain.DamageStep{}, s.RequiredDamageSteps...), s.OptionalDamageSteps...) {
			if err := st.Validate(); err != nil {
				return fmt.Errorf("system %s damage step: %w", s.Name, err)
			}
		}
		for _, t := range s.DamageTasks {
			if err := t.Validate(); err != nil {
				return fmt.Errorf("system %s damage task: %w", s.Name, err)
			}
		}
	}
	return nil
}

// Path returns the scenario file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "scenario.yml")
}

// GenerateDefault returns the default scenario YAML for a simulator.
func GenerateDefault(simulatorID string) string {
	return fmt.Sprintf(defaultTemplate, simulatorID)
}

// Default returns the default scenario for a simulator.
func Default(simulatorID string) *Config {
	cfg, err := FromYAML([]byte(GenerateDefault(simulatorID)))
	if err != nil {
		panic(fmt.Sprintf("default scenario: %v", err))
	}
	return cfg
}

// FromYAML parses and validates a scenario from raw YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid scenario yaml: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromFile reads a YAML scenario from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

const defaultTemplate = `simulator:
  id: %s
  name: Voyager
  stations:
    - name: Captain
      cards:
        - {name: Damage Control, component: DamageControl}
        - {name: Damage Teams, component: DamageTeams}
      widgets: [messages, composer]
    - name: Engineering
      cards:
        - {name: Power Distribution, component: PowerDistribution}
        - {name: Exocomps, component: Exocomps}
        - {name: Computer Core, component: ComputerCore}
      widgets: [remote]
    - name: Security
      cards:
        - {name: Security Teams, component: SecurityTeams}
        - {name: Security Decks, component: SecurityDecks}
    - name: Communications
      cards:
        - {name: Internal Comm, component: CommInternal}
        - {name: Long Range Comm, component: LongRangeComm}
        - {name: Messaging, component: Messaging}
    - name: Science
      cards:
        - {name: Probe Construction, component: ProbeConstruction}

decks:
  - {id: deck-1, number: 1}
  - {id: deck-2, number: 2}
  - {id: deck-3, number: 3}

rooms:
  - {id: bridge, deckId: deck-1, name: Bridge}
  - {id: sensor-array, deckId: deck-1, name: Sensor Array}
  - {id: main-engineering, deckId: deck-3, name: Main Engineering}
  - {id: cargo-bay, deckId: deck-3, name: Cargo Bay 1}
  - {id: computer-core, deckId: deck-2, name: Computer Core}

crew:
  - {id: crew-1, firstName: Rosa, lastName: Vance, position: Electrician}
  - {id: crew-2, firstName: Tomas, lastName: Ilyin, position: Electrician}
  - {id: crew-3, firstName: Imani, lastName: Okafor, position: Mechanic}
  - {id: crew-4, firstName: Lee, lastName: Park, position: Security Officer}
  - {id: crew-5, firstName: Ada, lastName: Marsh, position: Structural Engineer}

inventory:
  - {id: inv-1, name: Hyperspanner, type: repair, count: 4}
  - {id: inv-2, name: Coolant Canister, type: repair, count: 12}
  - {id: inv-3, name: Ration Pack, type: general, count: 200}

exocomps:
  - {id: exo-1, parts: []}

softwarePanels:
  - {id: panel-1, name: Reactor Bypass}

systems:
  - id: engines
    name: Engines
    class: System
    locations: [main-engineering]
    power:
      power: 5
      powerLevels: [5, 10, 15]
      defaultLevel: 0
  - id: sensors
    name: Sensors
    locations: [sensor-array]
  - id: internal-comm
    class: InternalComm
    locations: [bridge]
  - id: long-range-comm
    name: Long Range Communications
    displayName: Long Range Comm
    class: LongRangeComm
    locations: [bridge]
  - id: probes
    name: Probe Launcher
    class: Probes
    locations: [cargo-bay]
`
