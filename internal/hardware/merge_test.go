package hardware

import (
	"encoding/json"
	"testing"

	"github.com/KevinKickass/PanelSchema/internal/types"
)

func TestMerge(t *testing.T) {
	var s types.UISchema
	if err := json.Unmarshal([]byte(`{
		"schemaVersion": "1.0",
		"metadata": {"name": "Test", "version": "1.0"},
		"tabs": [{"id": "home", "title": "Home", "sections": []}],
		"hardware": {"systemType": "core-lite", "outputs": [{"id": "old", "source": "core", "channel": 9, "control": "not-used"}]}
	}`), &s); err != nil {
		t.Fatal(err)
	}
	var hw types.HardwareConfig
	if err := json.Unmarshal([]byte(`{
		"systemType": "core",
		"outputs": [
			{"id": "core-01", "source": "core", "channel": 1, "control": "toggle-button"},
			{"id": "core-02", "source": "core", "channel": 2, "control": "half-bridge"}
		],
		"halfBridgePairs": [{"source": "core", "channelA": 2, "channelB": 3}],
		"signalMap": {"core-01": 1},
		"genesisBoards": 1
	}`), &hw); err != nil {
		t.Fatal(err)
	}

	out, summary := Merge(&s, &hw)

	want := MergeSummary{SystemType: types.SystemCoreLite, Outputs: 2, HalfBridgePairs: 1, SignalMap: 1, GenesisBoards: 1, Replaced: true}
	if summary != want {
		t.Errorf("summary = %+v, want %+v", summary, want)
	}
	if out.Hardware.Outputs[0].ID != "core-01" {
		t.Errorf("outputs = %+v", out.Hardware.Outputs)
	}
	if s.Hardware.Outputs[0].ID != "old" {
		t.Error("Merge modified the schema")
	}

	out.Hardware.Outputs[0].ID = "mutated"
	if hw.Outputs[0].ID != "core-01" {
		t.Error("merged schema shares outputs with the hardware config")
	}
}

func TestMergeIntoEmptySchema(t *testing.T) {
	s := &types.UISchema{SchemaVersion: "1.0"}
	out, summary := Merge(s, &types.HardwareConfig{SystemType: types.SystemCore})

	if summary.Replaced || summary.SystemType != types.SystemCore {
		t.Errorf("summary = %+v", summary)
	}
	if out.Hardware == nil || out.Hardware.Outputs == nil {
		t.Error("outputs should be an empty list, not absent")
	}
	if s.Hardware != nil {
		t.Error("Merge modified the schema")
	}
}

func TestMergeDocumentKeepsUnknownMembers(t *testing.T) {
	data := []byte(`{
		"schemaVersion": "1.0",
		"metadata": {"name": "Test", "version": "1.0", "owner": "yard"},
		"tabs": [{"id": "home", "title": "Home", "sections": [], "accent": "teal"}],
		"hardware": {"notes": "refit 2024", "systemType": "core-lite", "outputs": [], "halfBridgePairs": [{"source": "core", "channelA": 2, "channelB": 3}]}
	}`)
	var s types.UISchema
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatal(err)
	}
	hw := &types.HardwareConfig{SystemType: types.SystemCore, Outputs: []types.OutputChannel{
		{ID: "core-01", Source: types.SourceCore, Channel: types.ChannelNumber{Number: 1}, Control: types.ControlToggleButton},
	}}

	out, summary, err := MergeDocument(data, &s, hw)
	if err != nil {
		t.Fatalf("MergeDocument: %v", err)
	}
	if summary.Outputs != 1 || summary.SystemType != types.SystemCoreLite || !summary.Replaced {
		t.Errorf("summary = %+v", summary)
	}

	var got struct {
		Metadata map[string]any   `json:"metadata"`
		Tabs     []map[string]any `json:"tabs"`
		Hardware map[string]any   `json:"hardware"`
	}
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if got.Metadata["owner"] != "yard" || got.Tabs[0]["accent"] != "teal" || got.Hardware["notes"] != "refit 2024" {
		t.Errorf("unknown members dropped:\n%s", out)
	}
	if outputs, _ := got.Hardware["outputs"].([]any); len(outputs) != 1 {
		t.Errorf("outputs = %v", got.Hardware["outputs"])
	}
	if _, ok := got.Hardware["halfBridgePairs"]; ok {
		t.Error("stale half-bridge pairs kept")
	}
	if got.Hardware["systemType"] != "core-lite" {
		t.Errorf("systemType = %v", got.Hardware["systemType"])
	}
}
