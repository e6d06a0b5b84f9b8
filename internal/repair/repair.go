// Package repair applies the fixes a checker report marks as safe: it
// removes components bound to missing channels and strips stale icon
// paths. Every other violation is left for the caller to reject.
package repair

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/KevinKickass/PanelSchema/internal/checker"
	"github.com/KevinKickass/PanelSchema/internal/types"
)

type Action string

const (
	ActionRemoveComponent Action = "remove-component"
	ActionStripIcon       Action = "strip-icon"
	ActionPruneSection    Action = "prune-section"
	ActionPruneTab        Action = "prune-tab"
)

// Fix records one change made to the document. Path points into the
// document as it was before repair.
type Fix struct {
	Code    checker.Code `json:"code,omitempty"`
	Action  Action       `json:"action"`
	Path    string       `json:"path"`
	ID      string       `json:"id"`
	Label   string       `json:"label,omitempty"`
	Message string       `json:"message"`
}

type Result struct {
	Schema *types.UISchema `json:"schema"`
	// Applied holds one entry per repaired violation.
	Applied []Fix `json:"applied"`
	// Pruned lists sections and tabs dropped because repair emptied them.
	Pruned []Fix `json:"pruned,omitempty"`
	// Emptied is set when the last tab lost all of its sections. The
	// document then no longer passes structural validation.
	Emptied bool `json:"emptied,omitempty"`
}

func (r *Result) Changed() bool {
	return len(r.Applied) > 0 || len(r.Pruned) > 0
}

type Option func(*repairer)

// WithLogger logs every fix at info level.
func WithLogger(logger *zap.Logger) Option {
	return func(r *repairer) { r.logger = logger }
}

type repairer struct {
	logger *zap.Logger
	result *Result
}

type componentKey struct{ tab, section, component int }

// Repair returns a repaired copy of schema. schema is not modified.
func Repair(schema *types.UISchema, report checker.Report, opts ...Option) *Result {
	r := &repairer{logger: zap.NewNop(), result: &Result{Schema: schema.Clone(), Applied: []Fix{}}}
	for _, opt := range opts {
		opt(r)
	}
	doc := r.result.Schema

	removals := map[componentKey]checker.Violation{}
	for _, v := range report.Violations {
		switch v.Code {
		case checker.CodeStaleIconReference:
			r.stripIcon(doc, v)
		case checker.CodeMissingChannel:
			key := componentKey{v.Location.TabIndex, v.Location.SectionIndex, v.Location.ComponentIndex}
			if _, ok := removals[key]; !ok && componentAt(doc, key, v.ComponentID) != nil {
				removals[key] = v
			}
		}
	}
	r.removeComponents(doc, removals)
	r.prune(doc)
	return r.result
}

func (r *repairer) stripIcon(doc *types.UISchema, v checker.Violation) {
	loc := v.Location
	var slot **types.IconRef
	switch {
	case loc.ComponentIndex >= 0:
		c := componentAt(doc, componentKey{loc.TabIndex, loc.SectionIndex, loc.ComponentIndex}, v.ComponentID)
		if c == nil {
			return
		}
		slot = &c.Common().Icon
	case loc.SectionIndex >= 0:
		if !inRange(loc.TabIndex, len(doc.Tabs)) || !inRange(loc.SectionIndex, len(doc.Tabs[loc.TabIndex].Sections)) {
			return
		}
		slot = &doc.Tabs[loc.TabIndex].Sections[loc.SectionIndex].Icon
	case loc.TabIndex >= 0:
		if !inRange(loc.TabIndex, len(doc.Tabs)) {
			return
		}
		slot = &doc.Tabs[loc.TabIndex].Icon
	default:
		return
	}

	if *slot == nil || (v.Meta != nil && v.Meta["icon"] != (*slot).Value) {
		return
	}
	value := (*slot).Value
	*slot = nil
	r.apply(Fix{
		Code:    checker.CodeStaleIconReference,
		Action:  ActionStripIcon,
		Path:    v.Path,
		ID:      v.NodeID(),
		Label:   v.Label,
		Message: fmt.Sprintf("stripped stale icon %q", value),
	})
}

// removeComponents deletes from the highest index down so earlier indexes
// stay valid.
func (r *repairer) removeComponents(doc *types.UISchema, removals map[componentKey]checker.Violation) {
	keys := make([]componentKey, 0, len(removals))
	for k := range removals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.tab != b.tab {
			return a.tab < b.tab
		}
		if a.section != b.section {
			return a.section < b.section
		}
		return a.component < b.component
	})

	for i := len(keys) - 1; i >= 0; i-- {
		k := keys[i]
		section := &doc.Tabs[k.tab].Sections[k.section]
		section.Components = append(section.Components[:k.component], section.Components[k.component+1:]...)
	}

	// Log in document order.
	for _, k := range keys {
		v := removals[k]
		r.apply(Fix{
			Code:    checker.CodeMissingChannel,
			Action:  ActionRemoveComponent,
			Path:    types.ComponentPath(k.tab, k.section, k.component),
			ID:      v.ComponentID,
			Label:   v.Label,
			Message: fmt.Sprintf("removed component bound to missing channel %q", v.ChannelID),
		})
	}
}

// prune drops sections and tabs left without children. The document keeps
// at least one tab.
func (r *repairer) prune(doc *types.UISchema) {
	var tabs []types.Tab
	for ti, tab := range doc.Tabs {
		var sections []types.Section
		for si, section := range tab.Sections {
			if len(section.Components) == 0 {
				r.pruned(Fix{
					Action:  ActionPruneSection,
					Path:    types.SectionPath(ti, si),
					ID:      section.ID,
					Label:   section.Title,
					Message: "pruned empty section",
				})
				continue
			}
			sections = append(sections, section)
		}
		tab.Sections = sections
		tabs = append(tabs, tab)
	}

	kept := tabs[:0]
	for ti, tab := range tabs {
		if len(tab.Sections) == 0 && !(len(kept) == 0 && ti == len(tabs)-1) {
			r.pruned(Fix{
				Action:  ActionPruneTab,
				Path:    types.TabPath(ti),
				ID:      tab.ID,
				Label:   tab.Title,
				Message: "pruned empty tab",
			})
			continue
		}
		kept = append(kept, tab)
	}
	doc.Tabs = kept

	if len(doc.Tabs) == 1 && len(doc.Tabs[0].Sections) == 0 {
		if doc.Tabs[0].Sections == nil {
			doc.Tabs[0].Sections = []types.Section{}
		}
		r.result.Emptied = true
		r.logger.Warn("Repair left the document without sections", zap.String("tab_id", doc.Tabs[0].ID))
	}
}

func (r *repairer) apply(f Fix) {
	r.result.Applied = append(r.result.Applied, f)
	r.logger.Info("Applied fix",
		zap.String("action", string(f.Action)),
		zap.String("path", f.Path),
		zap.String("id", f.ID),
		zap.String("label", f.Label),
		zap.String("detail", f.Message))
}

func (r *repairer) pruned(f Fix) {
	r.result.Pruned = append(r.result.Pruned, f)
	r.logger.Info("Pruned empty container",
		zap.String("action", string(f.Action)),
		zap.String("path", f.Path),
		zap.String("id", f.ID))
}

func componentAt(doc *types.UISchema, k componentKey, id string) types.Component {
	if !inRange(k.tab, len(doc.Tabs)) {
		return nil
	}
	tab := doc.Tabs[k.tab]
	if !inRange(k.section, len(tab.Sections)) {
		return nil
	}
	section := tab.Sections[k.section]
	if !inRange(k.component, len(section.Components)) {
		return nil
	}
	c := section.Components[k.component]
	if c.Common().ID != id {
		return nil
	}
	return c
}

func inRange(i, n int) bool { return i >= 0 && i < n }
