// Package checker cross-validates a resolved schema against the hardware
// capability rules and the document's icon registry.
//
// Rules run in a fixed order and the report keeps that order:
//
//  1. channel existence (MissingChannel)
//  2. half-bridge pairing (InvalidHalfBridgePair, InvalidHalfBridgeChannel)
//  3. signal assignment (MissingSignalAssignment)
//  4. icon resolution (StaleIconReference, UnknownIconReference)
//  5. id uniqueness (DuplicateId)
//  6. production bindings (StaticBindingDisallowed), only WithProduction
//
// Within a rule violations follow document order. Per-tab work runs
// concurrently and is stitched back together in tab order.
package checker

import (
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/KevinKickass/PanelSchema/internal/resolver"
	"github.com/KevinKickass/PanelSchema/internal/types"
)

// HardwarePath is the pointer prefix used for hardware violations.
const HardwarePath = "/hardware"

type options struct {
	production  bool
	parallelism int
}

type Option func(*options)

// WithProduction enables the production-only binding rules.
func WithProduction() Option {
	return func(o *options) { o.production = true }
}

// WithParallelism bounds the number of tabs checked at once. n <= 0 means
// no limit.
func WithParallelism(n int) Option {
	return func(o *options) { o.parallelism = n }
}

// tabResult collects the per-tab violations of the rules that walk tabs.
type tabResult struct {
	missing []Violation
	icons   []Violation
	static  []Violation
}

// Check runs every rule over resolved and returns the aggregated report.
func Check(resolved *resolver.ResolvedSchema, opts ...Option) Report {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	doc := resolved.Schema
	byTab := bindingsByTab(resolved.Bindings, len(doc.Tabs))
	registry := doc.IconIDs()
	results := make([]tabResult, len(doc.Tabs))

	var g errgroup.Group
	if o.parallelism > 0 {
		g.SetLimit(o.parallelism)
	}
	for ti := range doc.Tabs {
		ti := ti
		g.Go(func() error {
			res := &results[ti]
			res.missing = checkChannels(byTab[ti])
			res.icons = checkTabIcons(&doc.Tabs[ti], ti, registry)
			if o.production {
				res.static = checkStatic(byTab[ti])
			}
			return nil
		})
	}
	_ = g.Wait()

	var rep Report
	for _, res := range results {
		for _, v := range res.missing {
			rep.addBlocking(v)
		}
	}
	checkHalfBridges(resolved.Hardware, &rep)
	checkSignals(resolved, &rep)
	for _, res := range results {
		for _, v := range res.icons {
			if v.Code == CodeStaleIconReference {
				rep.addAdvisory(v)
			} else {
				rep.addBlocking(v)
			}
		}
	}
	checkUniqueness(doc, resolved.Hardware, &rep)
	for _, res := range results {
		for _, v := range res.static {
			rep.addBlocking(v)
		}
	}

	rep.finalize()
	return rep
}

// CheckProduction runs only the production binding rules.
func CheckProduction(resolved *resolver.ResolvedSchema) Report {
	var rep Report
	for _, v := range checkStatic(resolved.Bindings) {
		rep.addBlocking(v)
	}
	rep.finalize()
	return rep
}

func bindingsByTab(bindings []resolver.ResolvedBinding, tabs int) [][]resolver.ResolvedBinding {
	out := make([][]resolver.ResolvedBinding, tabs)
	for _, b := range bindings {
		if b.TabIndex >= 0 && b.TabIndex < tabs {
			out[b.TabIndex] = append(out[b.TabIndex], b)
		}
	}
	return out
}

func bindingViolation(b resolver.ResolvedBinding) Violation {
	return Violation{
		Path:        b.Path,
		TabID:       b.TabID,
		SectionID:   b.SectionID,
		ComponentID: b.ComponentID,
		Label:       b.Label,
		Location: Location{
			TabIndex:       b.TabIndex,
			SectionIndex:   b.SectionIndex,
			ComponentIndex: b.ComponentIndex,
		},
	}
}

func checkChannels(bindings []resolver.ResolvedBinding) []Violation {
	var out []Violation
	for _, b := range bindings {
		if b.Reason != resolver.GapMissingChannel {
			continue
		}
		channel, _ := b.ChannelID()
		v := bindingViolation(b)
		v.Code = CodeMissingChannel
		v.ChannelID = channel
		v.Fixable = true
		v.Message = fmt.Sprintf("component %q (%s) binds %s to unknown channel %q", b.ComponentID, b.Label, b.Role, channel)
		v.Hint = "Add the channel to hardware.outputs or remove the component"
		v.Meta = map[string]any{"role": string(b.Role), "kind": string(b.Kind)}
		out = append(out, v)
	}
	return out
}

func checkHalfBridges(hw *types.HardwareConfig, rep *Report) {
	if hw == nil {
		return
	}
	for i, pair := range hw.HalfBridgePairs {
		if !pair.IsEnabled() {
			continue
		}
		at := HardwarePath + types.Pointer("halfBridgePairs", i)
		meta := map[string]any{"source": string(pair.Source), "channelA": pair.ChannelA, "channelB": pair.ChannelB}

		channels := []int{pair.ChannelA, pair.ChannelB}
		if pair.ChannelA == pair.ChannelB {
			rep.addBlocking(Violation{
				Code:     CodeInvalidHalfBridgePair,
				Message:  fmt.Sprintf("half-bridge pair uses channel %d twice", pair.ChannelA),
				Path:     at,
				Hint:     "channelA and channelB must be different channels",
				Meta:     meta,
				Location: noLocation,
			})
			channels = channels[:1]
		}

		for _, n := range channels {
			v := Violation{
				Code:     CodeInvalidHalfBridgeChannel,
				Path:     at,
				Meta:     meta,
				Location: noLocation,
			}
			out, ok := hw.OutputByNumber(pair.Source, n)
			switch {
			case !ok:
				v.Message = fmt.Sprintf("half-bridge pair references %s channel %d, which is not an output", pair.Source, n)
			case out.Control != types.ControlHalfBridge:
				v.ChannelID = out.ID
				v.Label = out.Label
				v.Message = fmt.Sprintf("half-bridge pair references channel %q with control type %s", out.ID, out.Control)
				v.Hint = "Set the channel's control to half-bridge"
			default:
				continue
			}
			rep.addBlocking(v)
		}
	}
}

// checkSignals reports channels missing the signal for their control's
// default role, then bindings whose component needs a signal kind the
// channel lacks and that no channel entry already covers.
func checkSignals(resolved *resolver.ResolvedSchema, rep *Report) {
	reported := map[signalKey]bool{}
	for _, ch := range resolved.Channels {
		if !ch.Missing {
			continue
		}
		reported[signalKey{ch.ID, ch.Role}] = true
		label := ""
		if ch.Output != nil {
			label = ch.Output.Label
		}
		rep.addAdvisory(Violation{
			Code:      CodeMissingSignalAssignment,
			Message:   fmt.Sprintf("channel %q has no %s signal assigned", ch.ID, ch.Role),
			Path:      HardwarePath + types.Pointer("outputs", ch.Index),
			ChannelID: ch.ID,
			Label:     label,
			Hint:      "Set signals on the channel or add a signalMap entry",
			Meta:      map[string]any{"role": string(ch.Role)},
			Location:  noLocation,
		})
	}

	for _, b := range resolved.Bindings {
		if b.Reason != resolver.GapNoSignal {
			continue
		}
		channel, _ := b.ChannelID()
		if reported[signalKey{channel, b.SignalRole}] {
			continue
		}
		v := bindingViolation(b)
		v.Code = CodeMissingSignalAssignment
		v.ChannelID = channel
		v.Message = fmt.Sprintf("%s %q needs a %s signal on channel %q, none is assigned", b.Kind, b.ComponentID, b.SignalRole, channel)
		v.Hint = "Assign the signal on the channel, add a signalMap entry, or bind a component matching the channel's control"
		v.Meta = map[string]any{"role": string(b.SignalRole), "componentKind": string(b.Kind)}
		rep.addAdvisory(v)
	}
}

type signalKey struct {
	channel string
	role    types.SignalRole
}

func checkTabIcons(tab *types.Tab, ti int, registry map[string]struct{}) []Violation {
	var out []Violation
	loc := Location{TabIndex: ti, SectionIndex: -1, ComponentIndex: -1}
	if v, bad := checkIcon(tab.Icon, registry); bad {
		v.Path, v.TabID, v.Label, v.Location = types.TabPath(ti)+"/icon", tab.ID, tab.Title, loc
		out = append(out, v)
	}
	for si, section := range tab.Sections {
		loc.SectionIndex, loc.ComponentIndex = si, -1
		if v, bad := checkIcon(section.Icon, registry); bad {
			v.Path, v.TabID, v.SectionID, v.Label, v.Location = types.SectionPath(ti, si)+"/icon", tab.ID, section.ID, section.Title, loc
			out = append(out, v)
		}
		for ci, c := range section.Components {
			loc.ComponentIndex = ci
			base := c.Common()
			if v, bad := checkIcon(base.Icon, registry); bad {
				v.Path, v.TabID, v.SectionID, v.ComponentID, v.Label, v.Location = types.ComponentPath(ti, si, ci)+"/icon", tab.ID, section.ID, base.ID, base.Label, loc
				out = append(out, v)
			}
		}
	}
	return out
}

// checkIcon reports whether ref fails to resolve. Emoji never reach the
// registry.
func checkIcon(ref *types.IconRef, registry map[string]struct{}) (Violation, bool) {
	if ref == nil || ref.IsEmoji() {
		return Violation{}, false
	}
	if _, ok := registry[ref.Value]; ok {
		return Violation{}, false
	}
	meta := map[string]any{"icon": ref.Value, "iconKind": string(ref.Kind)}
	if IsLegacyIconPath(ref.Value) {
		return Violation{
			Code:    CodeStaleIconReference,
			Message: fmt.Sprintf("icon %q is a legacy file path", ref.Value),
			Fixable: true,
			Hint:    "The icon field will be stripped",
			Meta:    meta,
		}, true
	}
	return Violation{
		Code:    CodeUnknownIconReference,
		Message: fmt.Sprintf("icon %q is not declared in icons", ref.Value),
		Hint:    "Declare the icon in the document's icons array",
		Meta:    meta,
	}, true
}

// IsLegacyIconPath matches the file-path icon values older documents used.
func IsLegacyIconPath(s string) bool {
	return strings.HasPrefix(s, "/icons/") || strings.HasSuffix(strings.ToLower(s), ".svg")
}

func checkUniqueness(doc *types.UISchema, hw *types.HardwareConfig, rep *Report) {
	dup := func(kind, id, first, at string, v Violation) {
		v.Code = CodeDuplicateID
		v.Path = at
		v.Message = fmt.Sprintf("duplicate %s id %q", kind, id)
		v.Meta = map[string]any{"scope": kind, "firstPath": first}
		rep.addBlocking(v)
	}

	tabs := map[string]string{}
	components := map[string]string{}
	for ti, tab := range doc.Tabs {
		at := types.TabPath(ti)
		if first, seen := tabs[tab.ID]; seen {
			dup("tab", tab.ID, first, at, Violation{
				TabID: tab.ID, Label: tab.Title,
				Location: Location{TabIndex: ti, SectionIndex: -1, ComponentIndex: -1},
			})
		} else {
			tabs[tab.ID] = at
		}

		sections := map[string]string{}
		for si, section := range tab.Sections {
			at := types.SectionPath(ti, si)
			if first, seen := sections[section.ID]; seen {
				dup("section", section.ID, first, at, Violation{
					TabID: tab.ID, SectionID: section.ID, Label: section.Title,
					Location: Location{TabIndex: ti, SectionIndex: si, ComponentIndex: -1},
				})
			} else {
				sections[section.ID] = at
			}

			for ci, c := range section.Components {
				base := c.Common()
				at := types.ComponentPath(ti, si, ci)
				if first, seen := components[base.ID]; seen {
					dup("component", base.ID, first, at, Violation{
						TabID: tab.ID, SectionID: section.ID, ComponentID: base.ID, Label: base.Label,
						Location: Location{TabIndex: ti, SectionIndex: si, ComponentIndex: ci},
					})
				} else {
					components[base.ID] = at
				}
			}
		}
	}

	if hw == nil {
		return
	}
	outputs := map[string]string{}
	for i, out := range hw.Outputs {
		at := HardwarePath + types.Pointer("outputs", i)
		if first, seen := outputs[out.ID]; seen {
			dup("output channel", out.ID, first, at, Violation{
				ChannelID: out.ID, Label: out.Label, Location: noLocation,
			})
		} else {
			outputs[out.ID] = at
		}
	}
}

// productionRoles are the roles that must read live data on a shipped
// panel.
var productionRoles = map[types.BindingRole]bool{
	types.RoleValue:     true,
	types.RoleState:     true,
	types.RoleIntensity: true,
}

func checkStatic(bindings []resolver.ResolvedBinding) []Violation {
	var out []Violation
	for _, b := range bindings {
		if b.Binding.Kind() != types.BindingStatic || !productionRoles[b.Role] {
			continue
		}
		v := bindingViolation(b)
		v.Code = CodeStaticBindingDisallowed
		v.Message = fmt.Sprintf("component %q binds %s to a static value", b.ComponentID, b.Role)
		v.Hint = "Bind to an empirbus channel or an nmea2000 field"
		v.Meta = map[string]any{"role": string(b.Role), "value": b.Literal}
		out = append(out, v)
	}
	return out
}
