package types

import (
	"encoding/json"
	"fmt"
)

type BindingKind string

const (
	BindingEmpirBus BindingKind = "empirbus"
	BindingNMEA2000 BindingKind = "nmea2000"
	BindingStatic   BindingKind = "static"
)

// BindingRole is the behavioural role a binding plays on its component.
type BindingRole string

const (
	RoleState        BindingRole = "state"
	RoleAction       BindingRole = "action"
	RoleIntensity    BindingRole = "intensity"
	RoleValue        BindingRole = "value"
	RoleMode         BindingRole = "mode"
	RoleCurrentLimit BindingRole = "currentLimit"
	RoleACInput      BindingRole = "acInput"
	RoleChargeState  BindingRole = "chargeState"
	RoleLoad         BindingRole = "load"
)

type ChannelProperty string

const (
	PropertyState     ChannelProperty = "state"
	PropertyIntensity ChannelProperty = "intensity"
	PropertyValue     ChannelProperty = "value"
)

// BindingSource is one case of the binding union. The unexported marker
// keeps the set of cases closed to this package.
type BindingSource interface {
	Kind() BindingKind
	bindingSource()
}

// EmpirBusSource points at a physical output channel by its channel id.
type EmpirBusSource struct {
	Channel  string          `json:"channel"`
	Property ChannelProperty `json:"property,omitempty"`
}

// NMEA2000Source points at a field of a vessel-network message.
type NMEA2000Source struct {
	PGN      int    `json:"pgn"`
	Field    string `json:"field"`
	Instance *int   `json:"instance,omitempty"`
}

// StaticSource carries a literal value. Only valid in mock/test fixtures.
type StaticSource struct {
	Value any `json:"value"`
}

func (EmpirBusSource) Kind() BindingKind { return BindingEmpirBus }
func (NMEA2000Source) Kind() BindingKind { return BindingNMEA2000 }
func (StaticSource) Kind() BindingKind   { return BindingStatic }

func (EmpirBusSource) bindingSource() {}
func (NMEA2000Source) bindingSource() {}
func (StaticSource) bindingSource()   {}

// Binding wraps one BindingSource and encodes it as a "type"-tagged object.
type Binding struct {
	Source BindingSource
}

func EmpirBus(channel string) *Binding {
	return &Binding{Source: EmpirBusSource{Channel: channel}}
}

func NMEA2000(pgn int, field string) *Binding {
	return &Binding{Source: NMEA2000Source{PGN: pgn, Field: field}}
}

func Static(value any) *Binding {
	return &Binding{Source: StaticSource{Value: value}}
}

func (b *Binding) Kind() BindingKind {
	if b == nil || b.Source == nil {
		return ""
	}
	return b.Source.Kind()
}

func (b *Binding) Clone() *Binding {
	if b == nil {
		return nil
	}
	out := &Binding{Source: b.Source}
	if n, ok := b.Source.(NMEA2000Source); ok && n.Instance != nil {
		instance := *n.Instance
		n.Instance = &instance
		out.Source = n
	}
	return out
}

func (b Binding) MarshalJSON() ([]byte, error) {
	switch s := b.Source.(type) {
	case EmpirBusSource:
		return json.Marshal(struct {
			Type BindingKind `json:"type"`
			EmpirBusSource
		}{BindingEmpirBus, s})
	case NMEA2000Source:
		return json.Marshal(struct {
			Type BindingKind `json:"type"`
			NMEA2000Source
		}{BindingNMEA2000, s})
	case StaticSource:
		return json.Marshal(struct {
			Type BindingKind `json:"type"`
			StaticSource
		}{BindingStatic, s})
	case nil:
		return []byte("null"), nil
	default:
		return nil, fmt.Errorf("unsupported binding source %T", s)
	}
}

func (b *Binding) UnmarshalJSON(data []byte) error {
	var head struct {
		Type BindingKind `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}

	switch head.Type {
	case BindingEmpirBus:
		var s EmpirBusSource
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		b.Source = s
	case BindingNMEA2000:
		var s NMEA2000Source
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		b.Source = s
	case BindingStatic:
		var s StaticSource
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		b.Source = s
	default:
		return fmt.Errorf("unknown binding type %q", head.Type)
	}
	return nil
}

// RoleBinding pairs a present binding with the role it is declared under.
type RoleBinding struct {
	Role    BindingRole
	Binding *Binding
}

// collectBindings keeps declaration order and drops absent roles.
func collectBindings(pairs ...RoleBinding) []RoleBinding {
	out := make([]RoleBinding, 0, len(pairs))
	for _, p := range pairs {
		if p.Binding != nil && p.Binding.Source != nil {
			out = append(out, p)
		}
	}
	return out
}
