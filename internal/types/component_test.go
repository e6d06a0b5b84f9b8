package types

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestBindingJSON(t *testing.T) {
	tests := []struct {
		in   string
		kind BindingKind
	}{
		{`{"type":"empirbus","channel":"core-01","property":"state"}`, BindingEmpirBus},
		{`{"type":"nmea2000","pgn":127508,"field":"voltage","instance":1}`, BindingNMEA2000},
		{`{"type":"static","value":42}`, BindingStatic},
	}
	for _, tt := range tests {
		var b Binding
		if err := json.Unmarshal([]byte(tt.in), &b); err != nil {
			t.Fatalf("Unmarshal(%s): %v", tt.in, err)
		}
		if b.Kind() != tt.kind {
			t.Errorf("Kind() = %s, want %s", b.Kind(), tt.kind)
		}
		out, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if string(out) != tt.in {
			t.Errorf("Marshal = %s, want %s", out, tt.in)
		}
	}

	var b Binding
	if err := json.Unmarshal([]byte(`{"type":"modbus"}`), &b); err == nil {
		t.Error("expected error for unknown binding type")
	}
}

func TestBindingCloneCopiesInstance(t *testing.T) {
	instance := 2
	b := &Binding{Source: NMEA2000Source{PGN: 127508, Field: "voltage", Instance: &instance}}
	c := b.Clone()
	instance = 5

	src := c.Source.(NMEA2000Source)
	if *src.Instance != 2 {
		t.Errorf("clone instance = %d, want 2", *src.Instance)
	}
}

func TestComponentListJSON(t *testing.T) {
	in := `[
		{"type":"toggle","id":"t1","label":"Cabin","bindings":{"state":{"type":"empirbus","channel":"core-01"}}},
		{"type":"button","id":"b1","label":"Horn","bindings":{"action":{"type":"empirbus","channel":"core-02"}}},
		{"type":"dimmer","id":"d1","label":"Dim","min":0,"max":10,"bindings":{"intensity":{"type":"empirbus","channel":"core-03"}}},
		{"type":"gauge","id":"g1","label":"Volts","unit":"V","bindings":{"value":{"type":"nmea2000","pgn":127508,"field":"voltage"}}},
		{"type":"indicator","id":"i1","label":"Bilge","onColor":"red","bindings":{"state":{"type":"static","value":true}}},
		{"type":"slider","id":"s1","label":"Fan","orientation":"vertical","bindings":{"value":{"type":"empirbus","channel":"core-04"}}},
		{"type":"multiplus-control","id":"m1","label":"Inverter","bindings":{"state":{"type":"empirbus","channel":"core-05"},"load":{"type":"nmea2000","pgn":127505,"field":"load"}}},
		{"type":"multiplus-test-controls","id":"m2","label":"Test","bindings":{}}
	]`

	var list ComponentList
	if err := json.Unmarshal([]byte(in), &list); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(list) != len(ComponentKinds) {
		t.Fatalf("decoded %d components, want %d", len(list), len(ComponentKinds))
	}
	for i, c := range list {
		if c.Kind() != ComponentKinds[i] {
			t.Errorf("component %d kind = %s, want %s", i, c.Kind(), ComponentKinds[i])
		}
	}

	dimmer := list[2].(*Dimmer)
	if dimmer.Min == nil || *dimmer.Max != 10 {
		t.Errorf("dimmer range not decoded: %+v", dimmer)
	}
	if got := list[5].(*Slider).Orientation; got != OrientationVertical {
		t.Errorf("slider orientation = %s", got)
	}

	roles := list[6].RoleBindings()
	if len(roles) != 2 || roles[0].Role != RoleState || roles[1].Role != RoleLoad {
		t.Errorf("multiplus roles = %+v", roles)
	}
	if len(list[7].RoleBindings()) != 0 {
		t.Error("empty bindings should yield no role bindings")
	}

	out, err := json.Marshal(list)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(out), `"type":"multiplus-test-controls"`) {
		t.Errorf("type tag missing from %s", out)
	}

	var back ComponentList
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	if len(back) != len(list) {
		t.Errorf("re-decoded %d components", len(back))
	}
}

func TestComponentListUnknownKind(t *testing.T) {
	var list ComponentList
	err := json.Unmarshal([]byte(`[{"type":"knob","id":"k","label":"K","bindings":{}}]`), &list)
	if err == nil || !strings.Contains(err.Error(), "knob") {
		t.Errorf("err = %v, want unknown component type", err)
	}
}

func TestUISchemaCloneIsDeep(t *testing.T) {
	visible := true
	s := &UISchema{
		SchemaVersion: "1.0",
		Tabs: []Tab{{
			ID: "home", Title: "Home",
			Icon: RegistryIcon("home"),
			Sections: []Section{{
				ID: "main", Title: "Main",
				Components: ComponentList{&Toggle{
					ComponentBase: ComponentBase{ID: "t1", Label: "Light", Visible: &visible},
					Bindings:      ToggleBindings{State: EmpirBus("core-01")},
				}},
			}},
		}},
		Hardware: &HardwareConfig{Outputs: []OutputChannel{{ID: "core-01"}}},
	}

	c := s.Clone()
	c.Tabs[0].Icon.Value = "other"
	c.Tabs[0].Sections[0].Components[0].Common().Label = "Changed"
	*c.Tabs[0].Sections[0].Components[0].Common().Visible = false
	c.Hardware.Outputs[0].ID = "core-99"

	if s.Tabs[0].Icon.Value != "home" {
		t.Error("icon shared with clone")
	}
	base := s.Tabs[0].Sections[0].Components[0].Common()
	if base.Label != "Light" || !*base.Visible {
		t.Error("component shared with clone")
	}
	if s.Hardware.Outputs[0].ID != "core-01" {
		t.Error("hardware shared with clone")
	}
}
