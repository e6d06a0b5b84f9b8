package types

import (
	"encoding/json"
	"testing"
)

func TestClassifyIcon(t *testing.T) {
	tests := []struct {
		in   string
		want IconKind
	}{
		{"💡", IconEmoji},
		{"👍🏽", IconEmoji},
		{"👨‍👩‍👧", IconEmoji},
		{"🇳🇴", IconEmoji},
		{"1️⃣", IconEmoji},
		{"⚡", IconEmoji},
		{"\u2764\ufe0f", IconEmoji},
		{"\u2122\ufe0f", IconEmoji},
		{"★", IconRegistry},
		{"™", IconRegistry},
		{"©", IconRegistry},
		{"fan", IconRegistry},
		{"abc", IconRegistry},
		{"ab", IconRegistry},
		{"bulb-outline", IconRegistry},
		{"💡💡", IconRegistry},
		{"/icons/bulb.svg", IconPath},
		{"bulb.svg", IconPath},
		{"assets/pump", IconPath},
		{"photo.JPG", IconPath},
	}
	for _, tt := range tests {
		if got := ClassifyIcon(tt.in); got != tt.want {
			t.Errorf("ClassifyIcon(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestIconRefUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want IconRef
	}{
		{`"💡"`, IconRef{Kind: IconEmoji, Value: "💡"}},
		{`"bulb"`, IconRef{Kind: IconRegistry, Value: "bulb"}},
		{`"/icons/bulb.svg"`, IconRef{Kind: IconPath, Value: "/icons/bulb.svg"}},
		{`{"emoji": "ok"}`, IconRef{Kind: IconEmoji, Value: "ok"}},
		{`{"id": "x.svg"}`, IconRef{Kind: IconRegistry, Value: "x.svg"}},
		{`{"path": "bulb"}`, IconRef{Kind: IconPath, Value: "bulb"}},
	}
	for _, tt := range tests {
		var got IconRef
		if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
			t.Fatalf("Unmarshal(%s): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Unmarshal(%s) = %+v, want %+v", tt.in, got, tt.want)
		}
	}

	var ref IconRef
	if err := json.Unmarshal([]byte(`{"name": "bulb"}`), &ref); err == nil {
		t.Error("expected error for object without a known key")
	}
}

func TestIconRefMarshal(t *testing.T) {
	tests := []struct {
		in   *IconRef
		want string
	}{
		{RegistryIcon("bulb"), `"bulb"`},
		{EmojiIcon("💡"), `"💡"`},
		{PathIcon("/icons/a.svg"), `"/icons/a.svg"`},
		{RegistryIcon("x.svg"), `{"id":"x.svg"}`},
		{EmojiIcon("ok"), `{"emoji":"ok"}`},
		{PathIcon("bulb"), `{"path":"bulb"}`},
	}
	for _, tt := range tests {
		got, err := json.Marshal(tt.in)
		if err != nil {
			t.Fatalf("Marshal(%+v): %v", tt.in, err)
		}
		if string(got) != tt.want {
			t.Errorf("Marshal(%+v) = %s, want %s", tt.in, got, tt.want)
		}

		var back IconRef
		if err := json.Unmarshal(got, &back); err != nil {
			t.Fatalf("Unmarshal(%s): %v", got, err)
		}
		if back != *tt.in {
			t.Errorf("decode of %s = %+v, want %+v", got, back, *tt.in)
		}
	}
}
