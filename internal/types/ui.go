package types

// UISchema is the root of a control-panel document.
type UISchema struct {
	SchemaVersion string          `json:"schemaVersion"`
	Metadata      Metadata        `json:"metadata"`
	Theme         *Theme          `json:"theme,omitempty"`
	LightingTab   *FeatureTab     `json:"lightingTab,omitempty"`
	HVACTab       *FeatureTab     `json:"hvacTab,omitempty"`
	SwitchingTab  *FeatureTab     `json:"switchingTab,omitempty"`
	Tabs          []Tab           `json:"tabs"`
	Hardware      *HardwareConfig `json:"hardware,omitempty"`
	Icons         []Icon          `json:"icons,omitempty"`
}

type Metadata struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Author      string `json:"author,omitempty"`
	Description string `json:"description,omitempty"`
}

type Theme struct {
	Preset          string   `json:"preset,omitempty"`
	PrimaryColor    string   `json:"primaryColor,omitempty"`
	AccentColor     string   `json:"accentColor,omitempty"`
	BackgroundColor string   `json:"backgroundColor,omitempty"`
	FontScale       *float64 `json:"fontScale,omitempty"`
}

// FeatureTab controls which subtabs a feature area shows.
type FeatureTab struct {
	Subtabs map[string]Subtab `json:"subtabs"`
}

type Subtab struct {
	Enabled bool   `json:"enabled"`
	Title   string `json:"title,omitempty"`
}

type TabPreset string

const (
	TabPresetHome      TabPreset = "home"
	TabPresetLighting  TabPreset = "lighting"
	TabPresetPower     TabPreset = "power"
	TabPresetHVAC      TabPreset = "hvac"
	TabPresetSwitching TabPreset = "switching"
	TabPresetPlumbing  TabPreset = "plumbing"
	TabPresetRVSystems TabPreset = "rv-systems"
	TabPresetSettings  TabPreset = "settings"
)

type Tab struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Preset   TabPreset `json:"preset,omitempty"`
	Enabled  *bool     `json:"enabled,omitempty"`
	Icon     *IconRef  `json:"icon,omitempty"`
	Sections []Section `json:"sections"`
}

// SectionType is grouping metadata only; it is not checked against the
// kinds of the components inside.
type SectionType string

const (
	SectionSwitching    SectionType = "switching"
	SectionSignalValues SectionType = "signal-values"
	SectionImage        SectionType = "image"
	SectionMixed        SectionType = "mixed"
)

type Section struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Enabled    *bool         `json:"enabled,omitempty"`
	Type       SectionType   `json:"type,omitempty"`
	Icon       *IconRef      `json:"icon,omitempty"`
	Components ComponentList `json:"components"`
}

// Clone returns a deep copy. Static binding literals are shared; they are
// treated as immutable.
func (s *UISchema) Clone() *UISchema {
	if s == nil {
		return nil
	}
	out := *s
	if s.Theme != nil {
		theme := *s.Theme
		theme.FontScale = cloneFloat(s.Theme.FontScale)
		out.Theme = &theme
	}
	out.LightingTab = s.LightingTab.Clone()
	out.HVACTab = s.HVACTab.Clone()
	out.SwitchingTab = s.SwitchingTab.Clone()
	if s.Tabs != nil {
		out.Tabs = make([]Tab, len(s.Tabs))
		for i := range s.Tabs {
			out.Tabs[i] = s.Tabs[i].Clone()
		}
	}
	out.Hardware = s.Hardware.Clone()
	if s.Icons != nil {
		out.Icons = append([]Icon(nil), s.Icons...)
	}
	return &out
}

func (f *FeatureTab) Clone() *FeatureTab {
	if f == nil {
		return nil
	}
	out := &FeatureTab{}
	if f.Subtabs != nil {
		out.Subtabs = make(map[string]Subtab, len(f.Subtabs))
		for k, v := range f.Subtabs {
			out.Subtabs[k] = v
		}
	}
	return out
}

func (t Tab) Clone() Tab {
	out := t
	out.Enabled = cloneBool(t.Enabled)
	out.Icon = t.Icon.Clone()
	if t.Sections != nil {
		out.Sections = make([]Section, len(t.Sections))
		for i := range t.Sections {
			out.Sections[i] = t.Sections[i].Clone()
		}
	}
	return out
}

func (s Section) Clone() Section {
	out := s
	out.Enabled = cloneBool(s.Enabled)
	out.Icon = s.Icon.Clone()
	out.Components = s.Components.Clone()
	return out
}

// IconIDs returns the set of registry ids declared by the document.
func (s *UISchema) IconIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(s.Icons))
	for _, icon := range s.Icons {
		ids[icon.ID] = struct{}{}
	}
	return ids
}
