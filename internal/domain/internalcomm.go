package domain

const (
	CommIdle      = "idle"
	CommConnected = "connected"
)

// InternalComm is the extension of the internal communications system: a
// single call line between the bridge and a location on the ship.
type InternalComm struct {
	State    string `json:"state"`
	Outgoing string `json:"outgoing,omitempty"`
	Incoming string `json:"incoming,omitempty"`
}

func newExtension(class string) Extension {
	switch class {
	case ClassInternalComm:
		return &InternalComm{State: CommIdle}
	}
	return nil
}

func cloneExtension(e Extension) Extension {
	switch v := e.(type) {
	case *InternalComm:
		c := *v
		return &c
	}
	return e
}

func (c *InternalComm) Class() string { return ClassInternalComm }

// OnBreak drops any call in progress.
func (c *InternalComm) OnBreak(*System) {
	c.State = CommIdle
}

// OnSetPower drops the call when power falls below the lowest level.
func (c *InternalComm) OnSetPower(s *System, level int) {
	if len(s.Power.PowerLevels) > 0 && level < s.Power.PowerLevels[0] {
		c.State = CommIdle
	}
}

func (c *InternalComm) ConnectOutgoing() {
	c.State = CommConnected
	c.Incoming = c.Outgoing
}

func (c *InternalComm) ConnectIncoming() {
	c.State = CommConnected
	c.Outgoing = c.Incoming
}

func (c *InternalComm) CallIncoming(location string) {
	c.Incoming = location
}

func (c *InternalComm) CallOutgoing(location string) {
	c.Outgoing = location
}

func (c *InternalComm) CancelIncomingCall() {
	c.State = CommIdle
	if c.Outgoing == c.Incoming {
		c.Outgoing = ""
	}
	c.Incoming = ""
}

func (c *InternalComm) CancelOutgoingCall() {
	c.State = CommIdle
	if c.Incoming == c.Outgoing {
		c.Incoming = ""
	}
	c.Outgoing = ""
}

// InternalComm returns the internal comm extension, if the system has one.
func (s *System) InternalComm() (*InternalComm, bool) {
	ic, ok := s.Ext.(*InternalComm)
	return ic, ok
}
