// Package defaults applies the layered defaults of a UI schema in one
// explicit pass.
//
// Merge order:
//
//  1. document: theme preset, then the lightingTab, hvacTab and switchingTab
//     subtab blocks, each only when the whole block is absent;
//  2. tabs and sections: enabled=true when absent;
//  3. components: visible/disabled, then the per-kind numeric and display
//     defaults below.
//
// Every rule fills an absent field and never overwrites a present one, so
// Merge(Merge(s)) equals Merge(s). The input is never modified.
package defaults

import (
	"github.com/KevinKickass/PanelSchema/internal/types"
)

const (
	ThemePreset = "default"

	RangeMin      = 0.0
	RangeMax      = 100.0
	Step          = 1.0
	GaugeDecimals = 0
)

// Subtab blocks installed when a feature area has none.
func LightingSubtabs() map[string]types.Subtab {
	return map[string]types.Subtab{
		"interior": {Enabled: true, Title: "Interior"},
		"exterior": {Enabled: true, Title: "Exterior"},
		"rgb":      {Enabled: true, Title: "RGB"},
	}
}

func HVACSubtabs() map[string]types.Subtab {
	return map[string]types.Subtab{
		"heating":     {Enabled: true, Title: "Heating"},
		"cooling":     {Enabled: true, Title: "Cooling"},
		"ventilation": {Enabled: true, Title: "Ventilation"},
	}
}

func SwitchingSubtabs() map[string]types.Subtab {
	return map[string]types.Subtab{
		"switches":    {Enabled: true, Title: "Switches"},
		"pumps":       {Enabled: true, Title: "Pumps"},
		"accessories": {Enabled: true, Title: "Accessories"},
	}
}

// Merge returns a copy of s with every default applied.
func Merge(s *types.UISchema) *types.UISchema {
	out := s.Clone()
	if out == nil {
		return nil
	}

	if out.Theme == nil {
		out.Theme = &types.Theme{Preset: ThemePreset}
	} else if out.Theme.Preset == "" {
		out.Theme.Preset = ThemePreset
	}

	if out.LightingTab == nil {
		out.LightingTab = &types.FeatureTab{Subtabs: LightingSubtabs()}
	}
	if out.HVACTab == nil {
		out.HVACTab = &types.FeatureTab{Subtabs: HVACSubtabs()}
	}
	if out.SwitchingTab == nil {
		out.SwitchingTab = &types.FeatureTab{Subtabs: SwitchingSubtabs()}
	}

	for ti := range out.Tabs {
		tab := &out.Tabs[ti]
		setBool(&tab.Enabled, true)
		for si := range tab.Sections {
			section := &tab.Sections[si]
			setBool(&section.Enabled, true)
			for _, c := range section.Components {
				mergeComponent(c)
			}
		}
	}
	return out
}

func mergeComponent(c types.Component) {
	base := c.Common()
	setBool(&base.Visible, true)
	setBool(&base.Disabled, false)

	switch v := c.(type) {
	case *types.Slider:
		setRange(&v.Min, &v.Max)
		setFloat(&v.Step, Step)
		setBool(&v.ShowValue, true)
		if v.Orientation == "" {
			v.Orientation = types.OrientationHorizontal
		}
	case *types.Dimmer:
		setRange(&v.Min, &v.Max)
		setFloat(&v.Step, Step)
		setBool(&v.ShowValue, true)
	case *types.Gauge:
		setRange(&v.Min, &v.Max)
		if v.Decimals == nil {
			d := GaugeDecimals
			v.Decimals = &d
		}
	case *types.Toggle, *types.Button, *types.Indicator,
		*types.MultiplusControl, *types.MultiplusTestControls:
	}
}

// setRange fills min and max only when both are absent; a lone bound is
// left alone so a default can never produce min >= max.
func setRange(min, max **float64) {
	if *min != nil || *max != nil {
		return
	}
	lo, hi := RangeMin, RangeMax
	*min, *max = &lo, &hi
}

func setFloat(dst **float64, v float64) {
	if *dst == nil {
		*dst = &v
	}
}

func setBool(dst **bool, v bool) {
	if *dst == nil {
		*dst = &v
	}
}
