package domain

import "fmt"

// DamageTask is a trackable repair work item, independent of the narrative report.
type DamageTask struct {
	ID              string            `json:"id" yaml:"id"`
	Definition      string            `json:"definition" yaml:"definition"`
	Values          map[string]string `json:"values,omitempty" yaml:"values,omitempty"`
	Verified        bool              `json:"verified" yaml:"verified"`
	VerifyRequested bool              `json:"verifyRequested" yaml:"verifyRequested"`
	Assigned        bool              `json:"assigned" yaml:"assigned"`
	NextSteps       []string          `json:"nextSteps,omitempty" yaml:"nextSteps,omitempty"`
}

// DamageTaskUpdate carries the fields to change on an existing task; nil
// fields are left untouched.
type DamageTaskUpdate struct {
	ID              string
	Definition      *string
	Values          map[string]string
	Verified        *bool
	VerifyRequested *bool
	Assigned        *bool
	NextSteps       []string
}

func (t DamageTask) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: damage task id is required", ErrInvalidArgument)
	}
	for k := range t.Values {
		if k == "" {
			return fmt.Errorf("%w: damage task %s has an empty value key", ErrInvalidArgument, t.ID)
		}
	}
	return nil
}

func (u DamageTaskUpdate) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("%w: damage task id is required", ErrInvalidArgument)
	}
	for k := range u.Values {
		if k == "" {
			return fmt.Errorf("%w: damage task %s has an empty value key", ErrInvalidArgument, u.ID)
		}
	}
	return nil
}

func (t *DamageTask) apply(u DamageTaskUpdate) {
	if u.Definition != nil {
		t.Definition = *u.Definition
	}
	if u.Values != nil {
		t.Values = copyValues(u.Values)
	}
	if u.Verified != nil {
		t.Verified = *u.Verified
	}
	if u.VerifyRequested != nil {
		t.VerifyRequested = *u.VerifyRequested
	}
	if u.Assigned != nil {
		t.Assigned = *u.Assigned
	}
	if u.NextSteps != nil {
		t.NextSteps = append([]string(nil), u.NextSteps...)
	}
}

func (t DamageTask) clone() DamageTask {
	t.Values = copyValues(t.Values)
	if t.NextSteps != nil {
		t.NextSteps = append([]string(nil), t.NextSteps...)
	}
	return t
}

func copyValues(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
