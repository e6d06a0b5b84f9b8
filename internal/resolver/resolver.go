// Package resolver maps the symbolic bindings of a UI schema onto concrete
// hardware references. Resolution is pure and total: every binding ends
// up resolved or carries the reason it is not.
package resolver

import (
	"github.com/KevinKickass/PanelSchema/internal/types"
)

type Status string

const (
	StatusResolved   Status = "resolved"
	StatusUnresolved Status = "unresolved"
)

// GapReason explains why a well-formed binding did not resolve.
type GapReason string

const (
	GapMissingChannel GapReason = "missing-channel"
	GapNoSignal       GapReason = "no-signal"
)

// SignalOrigin records which precedence step produced a signal id.
type SignalOrigin string

const (
	OriginChannelSignal SignalOrigin = "channel-signal"
	OriginSignalMapRole SignalOrigin = "signal-map-role"
	OriginSignalMapFlat SignalOrigin = "signal-map-flat"
)

// ChannelRef is the resolved (channel id, signal id) pair.
type ChannelRef struct {
	ChannelID string           `json:"channelId"`
	SignalID  int              `json:"signalId"`
	Role      types.SignalRole `json:"role,omitempty"`
	Origin    SignalOrigin     `json:"origin"`
}

// NetworkRef is a trusted vessel-network reference.
type NetworkRef struct {
	PGN      int    `json:"pgn"`
	Field    string `json:"field"`
	Instance *int   `json:"instance,omitempty"`
}

// ResolvedBinding is the outcome for one binding, located in the document.
type ResolvedBinding struct {
	Path           string              `json:"path"`
	TabIndex       int                 `json:"tabIndex"`
	SectionIndex   int                 `json:"sectionIndex"`
	ComponentIndex int                 `json:"componentIndex"`
	TabID          string              `json:"tabId"`
	SectionID      string              `json:"sectionId"`
	ComponentID    string              `json:"componentId"`
	Label          string              `json:"label"`
	Kind           types.ComponentKind `json:"componentKind"`
	Role           types.BindingRole   `json:"role"`
	Binding        *types.Binding      `json:"binding"`

	Status  Status      `json:"status"`
	Reason  GapReason   `json:"reason,omitempty"`
	Channel *ChannelRef `json:"channel,omitempty"`
	Network *NetworkRef `json:"network,omitempty"`
	Literal any         `json:"literal,omitempty"`

	// SignalRole is the signal kind looked up on an existing channel.
	SignalRole types.SignalRole `json:"signalRole,omitempty"`
}

func (b ResolvedBinding) Resolved() bool { return b.Status == StatusResolved }

// ChannelID returns the referenced channel id for empirbus bindings.
func (b ResolvedBinding) ChannelID() (string, bool) {
	if s, ok := b.Binding.Source.(types.EmpirBusSource); ok {
		return s.Channel, true
	}
	return "", false
}

// ResolvedChannel is the signal resolution of one output channel using
// its control type's default role.
type ResolvedChannel struct {
	Index   int                  `json:"index"`
	Output  *types.OutputChannel `json:"-"`
	ID      string               `json:"id"`
	Role    types.SignalRole     `json:"role,omitempty"`
	Signal  *ChannelRef          `json:"signal,omitempty"`
	Missing bool                 `json:"missing"`
}

// ResolvedSchema is the resolver output consumed by the checker.
type ResolvedSchema struct {
	Schema   *types.UISchema       `json:"-"`
	Hardware *types.HardwareConfig `json:"-"`
	Bindings []ResolvedBinding     `json:"bindings"`
	Channels []ResolvedChannel     `json:"channels"`
}

// Unresolved returns the bindings that did not resolve, in document order.
func (r *ResolvedSchema) Unresolved() []ResolvedBinding {
	var out []ResolvedBinding
	for _, b := range r.Bindings {
		if !b.Resolved() {
			out = append(out, b)
		}
	}
	return out
}

// Resolve walks every component binding of schema in document order. hw may
// be nil, in which case every empirbus binding is a missing channel.
func Resolve(schema *types.UISchema, hw *types.HardwareConfig) *ResolvedSchema {
	if hw == nil {
		hw = &types.HardwareConfig{}
	}
	out := &ResolvedSchema{Schema: schema, Hardware: hw}

	for ti, tab := range schema.Tabs {
		for si, section := range tab.Sections {
			for ci, c := range section.Components {
				base := c.Common()
				at := types.ComponentPath(ti, si, ci)
				for _, rb := range c.RoleBindings() {
					r := ResolvedBinding{
						Path:           at + types.Pointer("bindings", rb.Role),
						TabIndex:       ti,
						SectionIndex:   si,
						ComponentIndex: ci,
						TabID:          tab.ID,
						SectionID:      section.ID,
						ComponentID:    base.ID,
						Label:          base.Label,
						Kind:           c.Kind(),
						Role:           rb.Role,
						Binding:        rb.Binding,
					}
					resolveBinding(&r, hw)
					out.Bindings = append(out.Bindings, r)
				}
			}
		}
	}

	for i := range hw.Outputs {
		ch := &hw.Outputs[i]
		rc := ResolvedChannel{Index: i, Output: ch, ID: ch.ID, Role: ch.Control.DefaultSignalRole()}
		if ch.Control.RequiresSignal() {
			ref, ok := lookupSignal(hw, ch, rc.Role)
			if ok {
				rc.Signal = &ref
			} else {
				rc.Missing = true
			}
		}
		out.Channels = append(out.Channels, rc)
	}
	return out
}

func resolveBinding(r *ResolvedBinding, hw *types.HardwareConfig) {
	switch s := r.Binding.Source.(type) {
	case types.EmpirBusSource:
		ch, ok := hw.Output(s.Channel)
		if !ok {
			r.Status, r.Reason = StatusUnresolved, GapMissingChannel
			return
		}
		role := RoleSignal(r.Kind, r.Role)
		if role == "" {
			role = ch.Control.DefaultSignalRole()
		}
		r.SignalRole = role
		ref, ok := lookupSignal(hw, ch, role)
		if !ok {
			r.Status, r.Reason = StatusUnresolved, GapNoSignal
			return
		}
		r.Status, r.Channel = StatusResolved, &ref
	case types.NMEA2000Source:
		r.Status = StatusResolved
		r.Network = &NetworkRef{PGN: s.PGN, Field: s.Field, Instance: s.Instance}
	case types.StaticSource:
		r.Status, r.Literal = StatusResolved, s.Value
	}
}

// lookupSignal applies the signal precedence: explicit channel signal for
// the role, then the role entry in the signal map, then a flat signal map
// number.
func lookupSignal(hw *types.HardwareConfig, ch *types.OutputChannel, role types.SignalRole) (ChannelRef, bool) {
	ref := ChannelRef{ChannelID: ch.ID, Role: role}

	if role != "" {
		if id, ok := ch.Signals.For(role); ok {
			ref.SignalID, ref.Origin = id, OriginChannelSignal
			return ref, true
		}
	}

	entry, ok := hw.SignalMap[ch.ID]
	if !ok {
		return ChannelRef{}, false
	}
	if role != "" {
		if id, ok := entry.ByRole[role]; ok {
			ref.SignalID, ref.Origin = id, OriginSignalMapRole
			return ref, true
		}
	}
	if entry.Flat != nil {
		ref.SignalID, ref.Origin = *entry.Flat, OriginSignalMapFlat
		return ref, true
	}
	return ChannelRef{}, false
}

// RoleSignal is the signal role a component role drives on its channel.
// An empty result defers to the channel's control type.
func RoleSignal(kind types.ComponentKind, role types.BindingRole) types.SignalRole {
	switch kind {
	case types.ComponentToggle:
		return types.SignalToggle
	case types.ComponentButton:
		return types.SignalMomentary
	case types.ComponentDimmer, types.ComponentSlider:
		return types.SignalDimmer
	case types.ComponentMultiplusControl:
		if role == types.RoleState {
			return types.SignalToggle
		}
	}
	return ""
}
