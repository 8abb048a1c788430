package domain

// DefaultWhich is the damage profile used when break does not name one.
const DefaultWhich = "default"

// Damage is the per-system damage record. When Damaged is false every other
// field sits at its baseline; only Repair restores that baseline.
type Damage struct {
	SystemID               string   `json:"systemId" yaml:"systemId"`
	Damaged                bool     `json:"damaged" yaml:"damaged"`
	Destroyed              bool     `json:"destroyed" yaml:"destroyed"`
	Report                 *string  `json:"report" yaml:"report"`
	Requested              bool     `json:"requested" yaml:"requested"`
	CurrentStep            int      `json:"currentStep" yaml:"currentStep"`
	ReactivationCode       *string  `json:"reactivationCode" yaml:"reactivationCode"`
	ReactivationRequester  *string  `json:"reactivationRequester" yaml:"reactivationRequester"`
	NeededReactivationCode *string  `json:"neededReactivationCode" yaml:"neededReactivationCode"`
	ExocompParts           []string `json:"exocompParts" yaml:"exocompParts"`
	Which                  string   `json:"which" yaml:"which"`
}

func NewDamage(systemID string) Damage {
	return Damage{
		SystemID:     systemID,
		ExocompParts: []string{},
		Which:        DefaultWhich,
	}
}

// Nominal reports whether the record is at the undamaged baseline.
func (d Damage) Nominal() bool {
	return !d.Damaged &&
		!d.Destroyed &&
		d.Report == nil &&
		!d.Requested &&
		d.CurrentStep == 0 &&
		d.ReactivationCode == nil &&
		d.ReactivationRequester == nil &&
		d.NeededReactivationCode == nil &&
		len(d.ExocompParts) == 0
}

// Break marks the system damaged (or destroyed) and stores the immediate report.
func (d *Damage) Break(report string, destroyed bool, which string) {
	d.Damaged = true
	if destroyed {
		d.Destroyed = true
	}
	d.Report = &report
	d.Requested = false
	d.CurrentStep = 0
	if which == "" {
		which = DefaultWhich
	}
	d.Which = which
}

// Repair resets every field to the baseline. Calling it twice is the same as once.
func (d *Damage) Repair() {
	d.Damaged = false
	d.Destroyed = false
	d.Report = nil
	d.Requested = false
	d.NeededReactivationCode = nil
	d.ReactivationCode = nil
	d.ReactivationRequester = nil
	d.ExocompParts = []string{}
	d.CurrentStep = 0
	d.Which = DefaultWhich
}

// The sub-flag operations below only apply to a damaged record; on a nominal
// record they are no-ops so the baseline holds until the next Break.

func (d *Damage) RequestReport() {
	if !d.Damaged {
		return
	}
	d.Requested = true
}

// FileReport stores a composed report and clears the pending request.
func (d *Damage) FileReport(report string) {
	if !d.Damaged {
		return
	}
	d.Report = &report
	d.Requested = false
}

// UpdateCurrentStep moves the step cursor. Range checks are the caller's job.
func (d *Damage) UpdateCurrentStep(step int) {
	if !d.Damaged {
		return
	}
	d.CurrentStep = step
}

func (d *Damage) SetNeededReactivationCode(code string) {
	if !d.Damaged {
		return
	}
	d.NeededReactivationCode = &code
}

// RequestReactivation records the code a station sent and who sent it.
func (d *Damage) RequestReactivation(code, station string) {
	if !d.Damaged {
		return
	}
	d.ReactivationCode = &code
	d.ReactivationRequester = &station
}

// ReactivationResponse clears the pending handshake. The response is not
// compared with the needed code; callers validate before responding.
func (d *Damage) ReactivationResponse(string) {
	d.ReactivationCode = nil
	d.ReactivationRequester = nil
}

// AddExocompPart records a part delivered by an exocomp, once.
func (d *Damage) AddExocompPart(part string) {
	if !d.Damaged {
		return
	}
	for _, p := range d.ExocompParts {
		if p == part {
			return
		}
	}
	d.ExocompParts = append(d.ExocompParts, part)
}

func (d Damage) clone() Damage {
	d.Report = clonePtr(d.Report)
	d.ReactivationCode = clonePtr(d.ReactivationCode)
	d.ReactivationRequester = clonePtr(d.ReactivationRequester)
	d.NeededReactivationCode = clonePtr(d.NeededReactivationCode)
	d.ExocompParts = append([]string{}, d.ExocompParts...)
	return d
}

func clonePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
