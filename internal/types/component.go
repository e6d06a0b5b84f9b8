package types

import (
	"encoding/json"
	"fmt"
)

type ComponentKind string

const (
	ComponentToggle                ComponentKind = "toggle"
	ComponentButton                ComponentKind = "button"
	ComponentDimmer                ComponentKind = "dimmer"
	ComponentGauge                 ComponentKind = "gauge"
	ComponentIndicator             ComponentKind = "indicator"
	ComponentSlider                ComponentKind = "slider"
	ComponentMultiplusControl      ComponentKind = "multiplus-control"
	ComponentMultiplusTestControls ComponentKind = "multiplus-test-controls"
)

// ComponentKinds lists every variant in declaration order.
var ComponentKinds = []ComponentKind{
	ComponentToggle,
	ComponentButton,
	ComponentDimmer,
	ComponentGauge,
	ComponentIndicator,
	ComponentSlider,
	ComponentMultiplusControl,
	ComponentMultiplusTestControls,
}

// Component is implemented by one struct per component kind. Code that
// needs per-kind behaviour type-switches over the concrete types; the
// switch in decodeComponent is the single place a new kind must be added
// for it to be parsed at all.
type Component interface {
	Kind() ComponentKind
	Common() *ComponentBase
	RoleBindings() []RoleBinding
	Clone() Component
}

// ComponentBase holds the fields every component kind shares.
type ComponentBase struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Icon     *IconRef `json:"icon,omitempty"`
	Tooltip  string   `json:"tooltip,omitempty"`
	Disabled *bool    `json:"disabled,omitempty"`
	Visible  *bool    `json:"visible,omitempty"`
}

func (b *ComponentBase) Common() *ComponentBase { return b }

func (b ComponentBase) clone() ComponentBase {
	out := b
	out.Icon = b.Icon.Clone()
	out.Disabled = cloneBool(b.Disabled)
	out.Visible = cloneBool(b.Visible)
	return out
}

type Orientation string

const (
	OrientationHorizontal Orientation = "horizontal"
	OrientationVertical   Orientation = "vertical"
)

type Toggle struct {
	ComponentBase
	Bindings ToggleBindings `json:"bindings"`
}

type ToggleBindings struct {
	State *Binding `json:"state,omitempty"`
}

type Button struct {
	ComponentBase
	Bindings ButtonBindings `json:"bindings"`
}

type ButtonBindings struct {
	State  *Binding `json:"state,omitempty"`
	Action *Binding `json:"action,omitempty"`
}

type Dimmer struct {
	ComponentBase
	Bindings  DimmerBindings `json:"bindings"`
	Min       *float64       `json:"min,omitempty"`
	Max       *float64       `json:"max,omitempty"`
	Step      *float64       `json:"step,omitempty"`
	ShowValue *bool          `json:"showValue,omitempty"`
}

type DimmerBindings struct {
	Intensity *Binding `json:"intensity,omitempty"`
}

type Gauge struct {
	ComponentBase
	Bindings ValueBindings `json:"bindings"`
	Min      *float64      `json:"min,omitempty"`
	Max      *float64      `json:"max,omitempty"`
	Unit     string        `json:"unit,omitempty"`
	Decimals *int          `json:"decimals,omitempty"`
}

type ValueBindings struct {
	Value *Binding `json:"value,omitempty"`
}

type Indicator struct {
	ComponentBase
	Bindings ToggleBindings `json:"bindings"`
	OnColor  string         `json:"onColor,omitempty"`
	OffColor string         `json:"offColor,omitempty"`
}

type Slider struct {
	ComponentBase
	Bindings    ValueBindings `json:"bindings"`
	Min         *float64      `json:"min,omitempty"`
	Max         *float64      `json:"max,omitempty"`
	Step        *float64      `json:"step,omitempty"`
	Unit        string        `json:"unit,omitempty"`
	ShowValue   *bool         `json:"showValue,omitempty"`
	Orientation Orientation   `json:"orientation,omitempty"`
}

// MultiplusControl drives an inverter/charger; every role is optional.
type MultiplusControl struct {
	ComponentBase
	Bindings MultiplusBindings `json:"bindings"`
}

type MultiplusBindings struct {
	State        *Binding `json:"state,omitempty"`
	Mode         *Binding `json:"mode,omitempty"`
	CurrentLimit *Binding `json:"currentLimit,omitempty"`
	ACInput      *Binding `json:"acInput,omitempty"`
	ChargeState  *Binding `json:"chargeState,omitempty"`
	Load         *Binding `json:"load,omitempty"`
}

type MultiplusTestControls struct {
	ComponentBase
	Bindings MultiplusTestBindings `json:"bindings"`
}

type MultiplusTestBindings struct {
	State *Binding `json:"state,omitempty"`
	Mode  *Binding `json:"mode,omitempty"`
}

func (*Toggle) Kind() ComponentKind                { return ComponentToggle }
func (*Button) Kind() ComponentKind                { return ComponentButton }
func (*Dimmer) Kind() ComponentKind                { return ComponentDimmer }
func (*Gauge) Kind() ComponentKind                 { return ComponentGauge }
func (*Indicator) Kind() ComponentKind             { return ComponentIndicator }
func (*Slider) Kind() ComponentKind                { return ComponentSlider }
func (*MultiplusControl) Kind() ComponentKind      { return ComponentMultiplusControl }
func (*MultiplusTestControls) Kind() ComponentKind { return ComponentMultiplusTestControls }

func (c *Toggle) RoleBindings() []RoleBinding {
	return collectBindings(RoleBinding{RoleState, c.Bindings.State})
}

func (c *Button) RoleBindings() []RoleBinding {
	return collectBindings(
		RoleBinding{RoleState, c.Bindings.State},
		RoleBinding{RoleAction, c.Bindings.Action},
	)
}

func (c *Dimmer) RoleBindings() []RoleBinding {
	return collectBindings(RoleBinding{RoleIntensity, c.Bindings.Intensity})
}

func (c *Gauge) RoleBindings() []RoleBinding {
	return collectBindings(RoleBinding{RoleValue, c.Bindings.Value})
}

func (c *Indicator) RoleBindings() []RoleBinding {
	return collectBindings(RoleBinding{RoleState, c.Bindings.State})
}

func (c *Slider) RoleBindings() []RoleBinding {
	return collectBindings(RoleBinding{RoleValue, c.Bindings.Value})
}

func (c *MultiplusControl) RoleBindings() []RoleBinding {
	b := c.Bindings
	return collectBindings(
		RoleBinding{RoleState, b.State},
		RoleBinding{RoleMode, b.Mode},
		RoleBinding{RoleCurrentLimit, b.CurrentLimit},
		RoleBinding{RoleACInput, b.ACInput},
		RoleBinding{RoleChargeState, b.ChargeState},
		RoleBinding{RoleLoad, b.Load},
	)
}

func (c *MultiplusTestControls) RoleBindings() []RoleBinding {
	return collectBindings(
		RoleBinding{RoleState, c.Bindings.State},
		RoleBinding{RoleMode, c.Bindings.Mode},
	)
}

func (c *Toggle) Clone() Component {
	out := &Toggle{ComponentBase: c.ComponentBase.clone()}
	out.Bindings.State = c.Bindings.State.Clone()
	return out
}

func (c *Button) Clone() Component {
	out := &Button{ComponentBase: c.ComponentBase.clone()}
	out.Bindings.State = c.Bindings.State.Clone()
	out.Bindings.Action = c.Bindings.Action.Clone()
	return out
}

func (c *Dimmer) Clone() Component {
	out := *c
	out.ComponentBase = c.ComponentBase.clone()
	out.Bindings.Intensity = c.Bindings.Intensity.Clone()
	out.Min, out.Max, out.Step = cloneFloat(c.Min), cloneFloat(c.Max), cloneFloat(c.Step)
	out.ShowValue = cloneBool(c.ShowValue)
	return &out
}

func (c *Gauge) Clone() Component {
	out := *c
	out.ComponentBase = c.ComponentBase.clone()
	out.Bindings.Value = c.Bindings.Value.Clone()
	out.Min, out.Max = cloneFloat(c.Min), cloneFloat(c.Max)
	if c.Decimals != nil {
		d := *c.Decimals
		out.Decimals = &d
	}
	return &out
}

func (c *Indicator) Clone() Component {
	out := *c
	out.ComponentBase = c.ComponentBase.clone()
	out.Bindings.State = c.Bindings.State.Clone()
	return &out
}

func (c *Slider) Clone() Component {
	out := *c
	out.ComponentBase = c.ComponentBase.clone()
	out.Bindings.Value = c.Bindings.Value.Clone()
	out.Min, out.Max, out.Step = cloneFloat(c.Min), cloneFloat(c.Max), cloneFloat(c.Step)
	out.ShowValue = cloneBool(c.ShowValue)
	return &out
}

func (c *MultiplusControl) Clone() Component {
	b := c.Bindings
	return &MultiplusControl{
		ComponentBase: c.ComponentBase.clone(),
		Bindings: MultiplusBindings{
			State:        b.State.Clone(),
			Mode:         b.Mode.Clone(),
			CurrentLimit: b.CurrentLimit.Clone(),
			ACInput:      b.ACInput.Clone(),
			ChargeState:  b.ChargeState.Clone(),
			Load:         b.Load.Clone(),
		},
	}
}

func (c *MultiplusTestControls) Clone() Component {
	return &MultiplusTestControls{
		ComponentBase: c.ComponentBase.clone(),
		Bindings: MultiplusTestBindings{
			State: c.Bindings.State.Clone(),
			Mode:  c.Bindings.Mode.Clone(),
		},
	}
}

// ComponentList is the JSON-aware sequence of components in a section.
type ComponentList []Component

func (l ComponentList) MarshalJSON() ([]byte, error) {
	items := make([]json.RawMessage, 0, len(l))
	for i, c := range l {
		raw, err := encodeComponent(c)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		items = append(items, raw)
	}
	return json.Marshal(items)
}

func (l *ComponentList) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	out := make(ComponentList, 0, len(items))
	for i, raw := range items {
		c, err := decodeComponent(raw)
		if err != nil {
			return fmt.Errorf("component %d: %w", i, err)
		}
		out = append(out, c)
	}
	*l = out
	return nil
}

func (l ComponentList) Clone() ComponentList {
	if l == nil {
		return nil
	}
	out := make(ComponentList, len(l))
	for i, c := range l {
		out[i] = c.Clone()
	}
	return out
}

func decodeComponent(raw json.RawMessage) (Component, error) {
	var head struct {
		Type ComponentKind `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, err
	}

	var c Component
	switch head.Type {
	case ComponentToggle:
		c = &Toggle{}
	case ComponentButton:
		c = &Button{}
	case ComponentDimmer:
		c = &Dimmer{}
	case ComponentGauge:
		c = &Gauge{}
	case ComponentIndicator:
		c = &Indicator{}
	case ComponentSlider:
		c = &Slider{}
	case ComponentMultiplusControl:
		c = &MultiplusControl{}
	case ComponentMultiplusTestControls:
		c = &MultiplusTestControls{}
	default:
		return nil, fmt.Errorf("unknown component type %q", head.Type)
	}

	if err := json.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("%s: %w", head.Type, err)
	}
	return c, nil
}

func encodeComponent(c Component) ([]byte, error) {
	switch v := c.(type) {
	case *Toggle:
		return json.Marshal(struct {
			Type ComponentKind `json:"type"`
			*Toggle
		}{ComponentToggle, v})
	case *Button:
		return json.Marshal(struct {
			Type ComponentKind `json:"type"`
			*Button
		}{ComponentButton, v})
	case *Dimmer:
		return json.Marshal(struct {
			Type ComponentKind `json:"type"`
			*Dimmer
		}{ComponentDimmer, v})
	case *Gauge:
		return json.Marshal(struct {
			Type ComponentKind `json:"type"`
			*Gauge
		}{ComponentGauge, v})
	case *Indicator:
		return json.Marshal(struct {
			Type ComponentKind `json:"type"`
			*Indicator
		}{ComponentIndicator, v})
	case *Slider:
		return json.Marshal(struct {
			Type ComponentKind `json:"type"`
			*Slider
		}{ComponentSlider, v})
	case *MultiplusControl:
		return json.Marshal(struct {
			Type ComponentKind `json:"type"`
			*MultiplusControl
		}{ComponentMultiplusControl, v})
	case *MultiplusTestControls:
		return json.Marshal(struct {
			Type ComponentKind `json:"type"`
			*MultiplusTestControls
		}{ComponentMultiplusTestControls, v})
	default:
		return nil, fmt.Errorf("unsupported component %T", c)
	}
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
