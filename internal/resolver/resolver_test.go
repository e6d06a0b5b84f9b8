package resolver

import (
	"encoding/json"
	"testing"

	"github.com/KevinKickass/PanelSchema/internal/types"
)

func parseSchema(t *testing.T, components string) *types.UISchema {
	t.Helper()
	var s types.UISchema
	data := `{
		"schemaVersion": "1.0",
		"metadata": {"name": "Test", "version": "1.0"},
		"tabs": [{"id": "home", "title": "Home", "sections": [
			{"id": "main", "title": "Main", "components": ` + components + `}
		]}]
	}`
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	return &s
}

func parseHardware(t *testing.T, data string) *types.HardwareConfig {
	t.Helper()
	var hw types.HardwareConfig
	if err := json.Unmarshal([]byte(data), &hw); err != nil {
		t.Fatalf("parse hardware: %v", err)
	}
	return &hw
}

func toggleOn(channel string) string {
	return `[{"type": "toggle", "id": "light", "label": "Light", "bindings": {"state": {"type": "empirbus", "channel": "` + channel + `"}}}]`
}

func TestResolveNoSignal(t *testing.T) {
	hw := parseHardware(t, `{"systemType": "core", "outputs": [
		{"id": "core-01", "source": "core", "channel": 1, "control": "toggle-button"}
	]}`)
	r := Resolve(parseSchema(t, toggleOn("core-01")), hw)

	if len(r.Bindings) != 1 {
		t.Fatalf("got %d bindings, want 1", len(r.Bindings))
	}
	b := r.Bindings[0]
	if b.Status != StatusUnresolved || b.Reason != GapNoSignal {
		t.Errorf("binding = %s/%s, want unresolved/no-signal", b.Status, b.Reason)
	}
	if b.Path != "/tabs/0/sections/0/components/0/bindings/state" {
		t.Errorf("path = %s", b.Path)
	}
	if len(r.Channels) != 1 || !r.Channels[0].Missing {
		t.Errorf("channel resolution = %+v", r.Channels)
	}
}

func TestResolveMissingChannel(t *testing.T) {
	hw := parseHardware(t, `{"systemType": "core", "outputs": [
		{"id": "core-01", "source": "core", "channel": 1, "control": "toggle-button"}
	]}`)
	r := Resolve(parseSchema(t, toggleOn("core-99")), hw)

	b := r.Bindings[0]
	if b.Reason != GapMissingChannel {
		t.Errorf("reason = %s, want missing-channel", b.Reason)
	}
	if id, _ := b.ChannelID(); id != "core-99" {
		t.Errorf("channel id = %s", id)
	}
	if len(r.Unresolved()) != 1 {
		t.Errorf("Unresolved() = %d", len(r.Unresolved()))
	}
}

func TestResolveNilHardware(t *testing.T) {
	r := Resolve(parseSchema(t, toggleOn("core-01")), nil)
	if r.Bindings[0].Reason != GapMissingChannel {
		t.Errorf("reason = %s, want missing-channel", r.Bindings[0].Reason)
	}
}

func TestSignalPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		output string
		sigmap string
		id     int
		origin SignalOrigin
	}{
		{
			name:   "channel signal wins",
			output: `{"id": "core-01", "source": "core", "channel": 1, "control": "toggle-button", "signals": {"toggle": 11}}`,
			sigmap: `{"core-01": {"toggle": 22}}`,
			id:     11,
			origin: OriginChannelSignal,
		},
		{
			name:   "role entry beats flat",
			output: `{"id": "core-01", "source": "core", "channel": 1, "control": "toggle-button", "signals": {"momentary": 5}}`,
			sigmap: `{"core-01": {"toggle": 22}}`,
			id:     22,
			origin: OriginSignalMapRole,
		},
		{
			name:   "flat entry",
			output: `{"id": "core-01", "source": "core", "channel": 1, "control": "toggle-button"}`,
			sigmap: `{"core-01": 33}`,
			id:     33,
			origin: OriginSignalMapFlat,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hw := parseHardware(t, `{"systemType": "core", "outputs": [`+tt.output+`], "signalMap": `+tt.sigmap+`}`)
			r := Resolve(parseSchema(t, toggleOn("core-01")), hw)

			b := r.Bindings[0]
			if !b.Resolved() {
				t.Fatalf("binding unresolved: %s", b.Reason)
			}
			if b.Channel.SignalID != tt.id || b.Channel.Origin != tt.origin {
				t.Errorf("signal = %d via %s, want %d via %s", b.Channel.SignalID, b.Channel.Origin, tt.id, tt.origin)
			}
			if b.Channel.Role != types.SignalToggle {
				t.Errorf("role = %s", b.Channel.Role)
			}
		})
	}
}

func TestRoleEntryForOtherRoleDoesNotResolve(t *testing.T) {
	hw := parseHardware(t, `{"systemType": "core",
		"outputs": [{"id": "core-01", "source": "core", "channel": 1, "control": "dimmer"}],
		"signalMap": {"core-01": {"toggle": 4}}}`)
	dimmer := `[{"type": "dimmer", "id": "dim", "label": "Dim", "bindings": {"intensity": {"type": "empirbus", "channel": "core-01"}}}]`
	r := Resolve(parseSchema(t, dimmer), hw)

	if r.Bindings[0].Reason != GapNoSignal {
		t.Errorf("reason = %s, want no-signal", r.Bindings[0].Reason)
	}
}

func TestRoleWithoutSignalKindUsesControlType(t *testing.T) {
	hw := parseHardware(t, `{"systemType": "core",
		"outputs": [{"id": "core-07", "source": "core", "channel": 7, "control": "push-button", "signals": {"momentary": 70}}]}`)
	mp := `[{"type": "multiplus-control", "id": "inv", "label": "Inverter", "bindings": {"mode": {"type": "empirbus", "channel": "core-07"}}}]`
	r := Resolve(parseSchema(t, mp), hw)

	b := r.Bindings[0]
	if !b.Resolved() || b.Channel.SignalID != 70 || b.Channel.Role != types.SignalMomentary {
		t.Errorf("binding = %+v channel %+v", b, b.Channel)
	}
}

func TestResolveNetworkAndStatic(t *testing.T) {
	components := `[
		{"type": "gauge", "id": "volts", "label": "Volts", "bindings": {"value": {"type": "nmea2000", "pgn": 127508, "field": "voltage", "instance": 1}}},
		{"type": "indicator", "id": "bilge", "label": "Bilge", "bindings": {"state": {"type": "static", "value": true}}}
	]`
	r := Resolve(parseSchema(t, components), nil)

	if len(r.Bindings) != 2 {
		t.Fatalf("got %d bindings", len(r.Bindings))
	}
	net := r.Bindings[0]
	if !net.Resolved() || net.Network.PGN != 127508 || net.Network.Field != "voltage" || *net.Network.Instance != 1 {
		t.Errorf("network binding = %+v", net.Network)
	}
	lit := r.Bindings[1]
	if !lit.Resolved() || lit.Literal != true {
		t.Errorf("static binding = %+v", lit)
	}
	if lit.ComponentIndex != 1 || lit.ComponentID != "bilge" || lit.Label != "Bilge" {
		t.Errorf("location = %+v", lit)
	}
}

func TestChannelsSkipSignallessControls(t *testing.T) {
	hw := parseHardware(t, `{"systemType": "core", "outputs": [
		{"id": "core-01", "source": "core", "channel": 1, "control": "not-used"},
		{"id": "tank", "source": "core", "channel": "tank1", "control": "signal-value"}
	]}`)
	r := Resolve(parseSchema(t, toggleOn("core-01")), hw)
	for _, ch := range r.Channels {
		if ch.Missing {
			t.Errorf("channel %s reported missing", ch.ID)
		}
	}
}

func TestRoleSignal(t *testing.T) {
	tests := []struct {
		kind types.ComponentKind
		role types.BindingRole
		want types.SignalRole
	}{
		{types.ComponentToggle, types.RoleState, types.SignalToggle},
		{types.ComponentButton, types.RoleAction, types.SignalMomentary},
		{types.ComponentButton, types.RoleState, types.SignalMomentary},
		{types.ComponentDimmer, types.RoleIntensity, types.SignalDimmer},
		{types.ComponentSlider, types.RoleValue, types.SignalDimmer},
		{types.ComponentMultiplusControl, types.RoleState, types.SignalToggle},
		{types.ComponentMultiplusControl, types.RoleCurrentLimit, ""},
		{types.ComponentGauge, types.RoleValue, ""},
		{types.ComponentIndicator, types.RoleState, ""},
	}
	for _, tt := range tests {
		if got := RoleSignal(tt.kind, tt.role); got != tt.want {
			t.Errorf("RoleSignal(%s, %s) = %q, want %q", tt.kind, tt.role, got, tt.want)
		}
	}
}
