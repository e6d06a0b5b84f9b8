package hardware

import (
	"fmt"

	"github.com/KevinKickass/PanelSchema/internal/jsondoc"
	"github.com/KevinKickass/PanelSchema/internal/types"
)

// MergeSummary describes what Merge copied into the schema.
type MergeSummary struct {
	SystemType      types.SystemType `json:"systemType"`
	Outputs         int              `json:"outputs"`
	HalfBridgePairs int              `json:"halfBridgePairs"`
	SignalMap       int              `json:"signalMap"`
	GenesisBoards   int              `json:"genesisBoards"`
	// Replaced is set when the schema already carried a hardware block.
	Replaced bool `json:"replaced"`
}

// Merge returns a copy of s whose hardware block carries the outputs,
// half-bridge pairs, signal map and genesis board count of hw. A system
// type already set on the schema is kept. Neither input is modified.
func Merge(s *types.UISchema, hw *types.HardwareConfig) (*types.UISchema, MergeSummary) {
	out := s.Clone()
	src := hw.Clone()
	if src == nil {
		src = &types.HardwareConfig{}
	}

	summary := MergeSummary{Replaced: out.Hardware != nil}

	target := out.Hardware
	if target == nil {
		target = &types.HardwareConfig{}
	}
	if target.SystemType == "" {
		target.SystemType = src.SystemType
	}
	target.Outputs = src.Outputs
	if target.Outputs == nil {
		target.Outputs = []types.OutputChannel{}
	}
	target.HalfBridgePairs = src.HalfBridgePairs
	target.SignalMap = src.SignalMap
	target.GenesisBoards = src.GenesisBoards
	out.Hardware = target

	summary.SystemType = target.SystemType
	summary.Outputs = len(target.Outputs)
	summary.HalfBridgePairs = len(target.HalfBridgePairs)
	summary.SignalMap = len(target.SignalMap)
	summary.GenesisBoards = target.GenesisBoards
	return out, summary
}

// mergedKeys are the hardware members Merge owns. Other members of an
// existing hardware block are left alone.
var mergedKeys = []string{"systemType", "outputs", "halfBridgePairs", "signalMap", "genesisBoards"}

// MergeDocument is Merge applied to the raw schema data that s was parsed
// from. Only the members Merge owns are replaced, everything else in the
// document keeps its content and order.
func MergeDocument(data []byte, s *types.UISchema, hw *types.HardwareConfig) ([]byte, MergeSummary, error) {
	merged, summary := Merge(s, hw)

	doc, err := jsondoc.Decode(data)
	if err != nil {
		return nil, summary, fmt.Errorf("failed to parse schema: %w", err)
	}
	fresh, err := jsondoc.FromValue(merged.Hardware)
	if err != nil {
		return nil, summary, fmt.Errorf("failed to encode hardware: %w", err)
	}
	src, ok := fresh.(*jsondoc.Object)
	if !ok {
		return nil, summary, fmt.Errorf("hardware encoded as %T", fresh)
	}

	block := jsondoc.NewObject()
	if existing, ok := doc.Get("hardware"); ok {
		if obj, ok := existing.(*jsondoc.Object); ok {
			block = obj
		}
	}
	for _, key := range mergedKeys {
		if v, ok := src.Get(key); ok {
			block.Set(key, v)
		} else {
			block.Delete(key)
		}
	}
	doc.Set("hardware", block)

	out, err := jsondoc.Encode(doc)
	if err != nil {
		return nil, summary, fmt.Errorf("failed to encode schema: %w", err)
	}
	return out, summary, nil
}
