package types

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type SystemType string

const (
	SystemCore     SystemType = "core"
	SystemCoreLite SystemType = "core-lite"
)

type ChannelSource string

const (
	SourceCore     ChannelSource = "core"
	SourceCoreLite ChannelSource = "core-lite"
	SourceGenesis  ChannelSource = "genesis"
)

type ControlType string

const (
	ControlNotUsed         ControlType = "not-used"
	ControlPushButton      ControlType = "push-button"
	ControlToggleButton    ControlType = "toggle-button"
	ControlSlider          ControlType = "slider"
	ControlHalfBridge      ControlType = "half-bridge"
	ControlDimmer          ControlType = "dimmer"
	ControlSpecialFunction ControlType = "special-function"
	ControlSignalValue     ControlType = "signal-value"
)

// RequiresSignal reports whether a channel of this control type must end
// up with a signal id.
func (c ControlType) RequiresSignal() bool {
	return c != ControlNotUsed && c != ControlSignalValue
}

// SignalRole selects one of the per-role signal ids of a channel.
type SignalRole string

const (
	SignalToggle    SignalRole = "toggle"
	SignalMomentary SignalRole = "momentary"
	SignalDimmer    SignalRole = "dimmer"
)

// DefaultSignalRole is the role a channel answers to when the binding
// itself does not imply one.
func (c ControlType) DefaultSignalRole() SignalRole {
	switch c {
	case ControlToggleButton, ControlSpecialFunction:
		return SignalToggle
	case ControlPushButton, ControlHalfBridge:
		return SignalMomentary
	case ControlDimmer, ControlSlider:
		return SignalDimmer
	default:
		return ""
	}
}

// HardwareConfig describes the outputs of one controller installation.
type HardwareConfig struct {
	SystemType      SystemType       `json:"systemType"`
	Outputs         []OutputChannel  `json:"outputs"`
	HalfBridgePairs []HalfBridgePair `json:"halfBridgePairs,omitempty"`
	SignalMap       SignalMap        `json:"signalMap,omitempty"`
	GenesisBoards   int              `json:"genesisBoards"`
}

// ChannelNumber is a physical channel number, or a string identifier for
// fixed sensor channels.
type ChannelNumber struct {
	Number int
	Name   string
}

func (n ChannelNumber) IsNamed() bool { return n.Name != "" }

func (n ChannelNumber) String() string {
	if n.IsNamed() {
		return n.Name
	}
	return strconv.Itoa(n.Number)
}

func (n ChannelNumber) MarshalJSON() ([]byte, error) {
	if n.IsNamed() {
		return json.Marshal(n.Name)
	}
	return json.Marshal(n.Number)
}

func (n *ChannelNumber) UnmarshalJSON(data []byte) error {
	var num int
	if err := json.Unmarshal(data, &num); err == nil {
		*n = ChannelNumber{Number: num}
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("channel must be a number or a string identifier")
	}
	*n = ChannelNumber{Name: name}
	return nil
}

type ChannelSignals struct {
	Toggle    *int `json:"toggle"`
	Momentary *int `json:"momentary"`
	Dimmer    *int `json:"dimmer"`
}

// For returns the explicit signal id for role, if one is set.
func (s *ChannelSignals) For(role SignalRole) (int, bool) {
	if s == nil {
		return 0, false
	}
	var v *int
	switch role {
	case SignalToggle:
		v = s.Toggle
	case SignalMomentary:
		v = s.Momentary
	case SignalDimmer:
		v = s.Dimmer
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

type OutputChannel struct {
	ID      string          `json:"id"`
	Source  ChannelSource   `json:"source"`
	Channel ChannelNumber   `json:"channel"`
	Control ControlType     `json:"control"`
	Label   string          `json:"label,omitempty"`
	Signals *ChannelSignals `json:"signals,omitempty"`
	Min     *float64        `json:"min,omitempty"`
	Max     *float64        `json:"max,omitempty"`
	Step    *float64        `json:"step,omitempty"`
}

type HalfBridgePair struct {
	Source   ChannelSource `json:"source"`
	ChannelA int           `json:"channelA"`
	ChannelB int           `json:"channelB"`
	Enabled  *bool         `json:"enabled,omitempty"`
}

// IsEnabled treats an absent flag as enabled.
func (p HalfBridgePair) IsEnabled() bool {
	return p.Enabled == nil || *p.Enabled
}

// SignalEntry is either a flat signal id or a set of ids keyed by role.
type SignalEntry struct {
	Flat   *int
	ByRole map[SignalRole]int
}

func (e SignalEntry) MarshalJSON() ([]byte, error) {
	if e.Flat != nil {
		return json.Marshal(*e.Flat)
	}
	return json.Marshal(e.ByRole)
}

func (e *SignalEntry) UnmarshalJSON(data []byte) error {
	var flat int
	if err := json.Unmarshal(data, &flat); err == nil {
		*e = SignalEntry{Flat: &flat}
		return nil
	}
	var byRole map[SignalRole]int
	if err := json.Unmarshal(data, &byRole); err != nil {
		return fmt.Errorf("signal map entry must be a number or an object of numbers")
	}
	*e = SignalEntry{ByRole: byRole}
	return nil
}

type SignalMap map[string]SignalEntry

func (h *HardwareConfig) Output(id string) (*OutputChannel, bool) {
	if h == nil {
		return nil, false
	}
	for i := range h.Outputs {
		if h.Outputs[i].ID == id {
			return &h.Outputs[i], true
		}
	}
	return nil, false
}

// OutputByNumber finds a numbered channel on the given source board.
func (h *HardwareConfig) OutputByNumber(source ChannelSource, number int) (*OutputChannel, bool) {
	if h == nil {
		return nil, false
	}
	for i := range h.Outputs {
		out := &h.Outputs[i]
		if out.Source == source && !out.Channel.IsNamed() && out.Channel.Number == number {
			return out, true
		}
	}
	return nil, false
}

func (h *HardwareConfig) Clone() *HardwareConfig {
	if h == nil {
		return nil
	}
	out := *h
	if h.Outputs != nil {
		out.Outputs = make([]OutputChannel, len(h.Outputs))
		for i, o := range h.Outputs {
			o.Min, o.Max, o.Step = cloneFloat(o.Min), cloneFloat(o.Max), cloneFloat(o.Step)
			if o.Signals != nil {
				sig := ChannelSignals{
					Toggle:    cloneInt(o.Signals.Toggle),
					Momentary: cloneInt(o.Signals.Momentary),
					Dimmer:    cloneInt(o.Signals.Dimmer),
				}
				o.Signals = &sig
			}
			out.Outputs[i] = o
		}
	}
	if h.HalfBridgePairs != nil {
		out.HalfBridgePairs = make([]HalfBridgePair, len(h.HalfBridgePairs))
		for i, p := range h.HalfBridgePairs {
			p.Enabled = cloneBool(p.Enabled)
			out.HalfBridgePairs[i] = p
		}
	}
	if h.SignalMap != nil {
		out.SignalMap = make(SignalMap, len(h.SignalMap))
		for k, e := range h.SignalMap {
			entry := SignalEntry{Flat: cloneInt(e.Flat)}
			if e.ByRole != nil {
				entry.ByRole = make(map[SignalRole]int, len(e.ByRole))
				for r, v := range e.ByRole {
					entry.ByRole[r] = v
				}
			}
			out.SignalMap[k] = entry
		}
	}
	return &out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
