package schema

import (
	"fmt"

	"github.com/KevinKickass/PanelSchema/internal/types"
)

func refineUISchema(doc *types.UISchema) StructuralErrors {
	var errs StructuralErrors

	for ti, tab := range doc.Tabs {
		for si, section := range tab.Sections {
			for ci, c := range section.Components {
				errs = append(errs, refineComponent(c, types.ComponentPath(ti, si, ci))...)
			}
		}
	}

	for i, icon := range doc.Icons {
		hasData, hasURL := icon.Data != "", icon.URL != ""
		if hasData == hasURL {
			errs = append(errs, StructuralError{
				Path:    types.Pointer("icons", i),
				Rule:    "data-xor-url",
				Message: fmt.Sprintf("icon %q must set exactly one of data or url", icon.ID),
			})
		}
	}

	if doc.Hardware != nil {
		errs = append(errs, refineHardware(doc.Hardware, "/hardware")...)
	}
	return errs
}

func refineComponent(c types.Component, at string) StructuralErrors {
	switch v := c.(type) {
	case *types.Button:
		if v.Bindings.State == nil && v.Bindings.Action == nil {
			return StructuralErrors{{
				Path:    at + "/bindings",
				Rule:    "state-or-action",
				Message: "button needs a state or an action binding",
			}}
		}
	case *types.Dimmer:
		return refineRange(v.Min, v.Max, at)
	case *types.Slider:
		return refineRange(v.Min, v.Max, at)
	case *types.Toggle, *types.Gauge, *types.Indicator,
		*types.MultiplusControl, *types.MultiplusTestControls:
	default:
		return StructuralErrors{{
			Path:    at,
			Rule:    "type",
			Message: fmt.Sprintf("unsupported component %T", c),
		}}
	}
	return nil
}

func refineRange(min, max *float64, at string) StructuralErrors {
	if min == nil || max == nil || *min < *max {
		return nil
	}
	return StructuralErrors{{
		Path:    at + "/max",
		Rule:    "min-lt-max",
		Message: fmt.Sprintf("min (%g) must be less than max (%g)", *min, *max),
	}}
}

func refineHardware(hw *types.HardwareConfig, base string) StructuralErrors {
	var errs StructuralErrors
	for i, out := range hw.Outputs {
		errs = append(errs, refineRange(out.Min, out.Max, base+types.Pointer("outputs", i))...)
	}
	return errs
}
