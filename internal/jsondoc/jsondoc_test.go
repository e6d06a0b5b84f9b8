package jsondoc

import (
	"encoding/json"
	"testing"
)

func TestDecodeKeepsOrderAndLiterals(t *testing.T) {
	doc, err := Decode([]byte(`{
		// editor state
		"z": 1.50,
		"a": [3, {"y": "<b>", "x": null}],
	}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if keys := doc.Keys(); len(keys) != 2 || keys[0] != "z" || keys[1] != "a" {
		t.Errorf("keys = %v", keys)
	}
	out, err := Encode(doc)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := "{\n  \"z\": 1.50,\n  \"a\": [\n    3,\n    {\n      \"y\": \"<b>\",\n      \"x\": null\n    }\n  ]\n}\n"
	if string(out) != want {
		t.Errorf("Encode =\n%s\nwant\n%s", out, want)
	}

	for _, bad := range []string{`[1, 2]`, `{"a": 1} {"b": 2}`, `{"a": `} {
		if _, err := Decode([]byte(bad)); err == nil {
			t.Errorf("Decode(%s) accepted", bad)
		}
	}
}

func TestRemove(t *testing.T) {
	doc, err := Decode([]byte(`{"tabs": [{"id": "a", "icon": "x"}, {"id": "b"}, {"id": "c"}], "a~b/c": 1}`))
	if err != nil {
		t.Fatal(err)
	}
	if err := doc.Remove("/tabs/1"); err != nil {
		t.Fatalf("remove element: %v", err)
	}
	if err := doc.Remove("/tabs/0/icon"); err != nil {
		t.Fatalf("remove member: %v", err)
	}
	if err := doc.Remove("/a~0b~1c"); err != nil {
		t.Fatalf("remove escaped member: %v", err)
	}
	out, _ := json.Marshal(doc)
	if string(out) != `{"tabs":[{"id":"a"},{"id":"c"}]}` {
		t.Errorf("document = %s", out)
	}

	for _, p := range []string{"", "/tabs/5", "/tabs/x", "/missing", "/tabs/0/id/deeper"} {
		if err := doc.Remove(p); err == nil {
			t.Errorf("Remove(%q) accepted", p)
		}
	}
}

func TestCanonicalize(t *testing.T) {
	doc, err := Decode([]byte(`{"a": 1.0, "b": 2e3, "c": 1.5, "d": [-4.00, 7], "e": "1.0"}`))
	if err != nil {
		t.Fatal(err)
	}
	out, _ := json.Marshal(Canonicalize(doc))
	if string(out) != `{"a":1,"b":2000,"c":1.5,"d":[-4,7],"e":"1.0"}` {
		t.Errorf("Canonicalize = %s", out)
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"/tabs/2", "/tabs/10", -1},
		{"/tabs/10", "/tabs/2", 1},
		{"/tabs/1", "/tabs/1/sections/0", -1},
		{"/tabs/1/icon", "/tabs/1/icon", 0},
		{"", "/tabs", -1},
		{"/hardware", "/tabs", -1},
	}
	for _, tt := range tests {
		got := Compare(tt.a, tt.b)
		if (got < 0) != (tt.want < 0) || (got > 0) != (tt.want > 0) {
			t.Errorf("Compare(%q, %q) = %d, want sign of %d", tt.a, tt.b, got, tt.want)
		}
	}
}
