package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

const cleanPanel = `{
	"schemaVersion": "1.0",
	"metadata": {"name": "Clean", "version": "1.0"},
	"tabs": [{"id": "home", "title": "Home", "sections": [
		{"id": "main", "title": "Main", "components": [
			{"type": "toggle", "id": "light", "label": "Light", "bindings": {"state": {"type": "empirbus", "channel": "core-01"}}}
		]}
	]}]
}`

const brokenPanel = `{
	"schemaVersion": "1.0",
	"metadata": {"name": "Broken", "version": "1.0"},
	"tabs": [{"id": "home", "title": "Home", "icon": "/icons/home.svg", "sections": [
		{"id": "main", "title": "Main", "components": [
			{"type": "toggle", "id": "light", "label": "Light", "bindings": {"state": {"type": "empirbus", "channel": "core-01"}}},
			{"type": "toggle", "id": "deck", "label": "Deck lights", "bindings": {"state": {"type": "empirbus", "channel": "core-99"}}}
		]}
	]}]
}`

const coreHardware = `{"systemType": "core", "outputs": [
	{"id": "core-01", "source": "core", "channel": 1, "control": "toggle-button", "signals": {"toggle": 1}}
]}`

type harness struct {
	app    *App
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	dir    string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("PANEL_CONFIG", "")
	h := &harness{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}, dir: t.TempDir()}
	h.app = &App{Stdout: h.stdout, Stderr: h.stderr, Logger: zap.NewNop()}
	return h
}

func (h *harness) write(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(h.dir, name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func (h *harness) run(args ...string) int {
	h.stdout.Reset()
	h.stderr.Reset()
	return h.app.Run(args)
}

func TestUsage(t *testing.T) {
	h := newHarness(t)
	if code := h.run(); code != ExitFailure || !strings.Contains(h.stderr.String(), "missing command") {
		t.Errorf("no args = %d %s", code, h.stderr)
	}
	if code := h.run("deploy"); code != ExitFailure || !strings.Contains(h.stderr.String(), "Usage: panelctl") {
		t.Errorf("unknown command = %d %s", code, h.stderr)
	}
	if code := h.run("check"); code != ExitFailure || !strings.Contains(h.stderr.String(), "no schema files") {
		t.Errorf("no files = %d %s", code, h.stderr)
	}
	if code := h.run("help"); code != ExitOK {
		t.Errorf("help = %d", code)
	}
}

func TestValidateCommand(t *testing.T) {
	h := newHarness(t)
	good := h.write(t, "good.json", cleanPanel)
	bad := h.write(t, "bad.json", `{"schemaVersion": "1.0", "tabs": []}`)

	if code := h.run("validate", good); code != ExitOK || !strings.Contains(h.stdout.String(), good+": ok") {
		t.Errorf("validate good = %d %s", code, h.stdout)
	}
	if code := h.run("validate", good, bad); code != ExitFailure || !strings.Contains(h.stderr.String(), "structural") {
		t.Errorf("validate bad = %d %s", code, h.stderr)
	}
}

func TestCheckCommand(t *testing.T) {
	h := newHarness(t)
	hw := h.write(t, "core.json", coreHardware)
	clean := h.write(t, "clean.json", cleanPanel)
	broken := h.write(t, "broken.json", brokenPanel)

	if code := h.run("check", "--hardware", hw, clean); code != ExitOK {
		t.Errorf("check clean = %d %s %s", code, h.stdout, h.stderr)
	}

	code := h.run("check", "--hardware", hw, clean, broken)
	if code != ExitBlocking {
		t.Errorf("check broken = %d", code)
	}
	out := h.stdout.String()
	if !strings.Contains(out, broken+": BLOCKED (1 blocking, 1 advisory)") || !strings.Contains(out, "core-99") {
		t.Errorf("output = %s", out)
	}

	data, _ := os.ReadFile(broken)
	if string(data) != brokenPanel {
		t.Error("check modified a schema")
	}

	if code := h.run("check", "--json", "--hardware", hw, broken); code != ExitBlocking {
		t.Errorf("check --json = %d", code)
	}
	var reports map[string]struct {
		Valid bool `json:"valid"`
	}
	if err := json.Unmarshal(h.stdout.Bytes(), &reports); err != nil {
		t.Fatalf("decode --json output: %v\n%s", err, h.stdout)
	}
	if r, ok := reports[broken]; !ok || r.Valid {
		t.Errorf("reports = %+v", reports)
	}
}

func TestFixCommand(t *testing.T) {
	h := newHarness(t)
	hw := h.write(t, "core.json", coreHardware)
	broken := h.write(t, "broken.json", brokenPanel)

	if code := h.run("fix", "--dry-run", "--hardware", hw, broken); code != ExitOK {
		t.Errorf("fix --dry-run = %d %s", code, h.stdout)
	}
	if !strings.Contains(h.stdout.String(), "Would fix 2 issues in 1 file") {
		t.Errorf("dry run output = %s", h.stdout)
	}
	if data, _ := os.ReadFile(broken); string(data) != brokenPanel {
		t.Fatal("dry run wrote the schema")
	}

	if code := h.run("fix", "--hardware", hw, broken); code != ExitOK {
		t.Fatalf("fix = %d %s %s", code, h.stdout, h.stderr)
	}
	out := h.stdout.String()
	for _, want := range []string{"2 auto-fixed, 0 still-blocking", "remove-component", "strip-icon", "Fixed 2 issues in 1 file"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}

	if code := h.run("check", "--hardware", hw, broken); code != ExitOK {
		t.Errorf("check after fix = %d %s", code, h.stdout)
	}
	data, _ := os.ReadFile(broken)
	if strings.Contains(string(data), "core-99") || strings.Contains(string(data), "/icons/") {
		t.Errorf("written schema = %s", data)
	}
	if !strings.HasSuffix(string(data), "}\n") {
		t.Error("written schema lacks a trailing newline")
	}
}

func TestFixKeepsUnknownMembers(t *testing.T) {
	h := newHarness(t)
	hw := h.write(t, "core.json", coreHardware)
	panel := strings.Replace(brokenPanel, `"label": "Light",`, `"label": "Light", "color": "#ff0000",`, 1)
	panel = strings.Replace(panel, `"schemaVersion": "1.0",`, `"schemaVersion": "1.0", "x-editor": {"grid": 8},`, 1)
	broken := h.write(t, "broken.json", panel)

	if code := h.run("fix", "--hardware", hw, broken); code != ExitOK {
		t.Fatalf("fix = %d %s %s", code, h.stdout, h.stderr)
	}

	data, _ := os.ReadFile(broken)
	var got struct {
		Editor map[string]any `json:"x-editor"`
		Tabs   []struct {
			Icon     *string `json:"icon"`
			Sections []struct {
				Components []map[string]any `json:"components"`
			} `json:"sections"`
		} `json:"tabs"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode written schema: %v\n%s", err, data)
	}
	if got.Editor["grid"] != float64(8) {
		t.Errorf("top-level member dropped:\n%s", data)
	}
	components := got.Tabs[0].Sections[0].Components
	if len(components) != 1 || components[0]["id"] != "light" || components[0]["color"] != "#ff0000" {
		t.Errorf("components = %v", components)
	}
	if got.Tabs[0].Icon != nil {
		t.Error("stale icon kept")
	}
}

func TestFixLeavesEmptiedSchema(t *testing.T) {
	h := newHarness(t)
	hw := h.write(t, "core.json", coreHardware)
	only := h.write(t, "only.json", `{
		"schemaVersion": "1.0",
		"metadata": {"name": "Only", "version": "1.0"},
		"tabs": [{"id": "home", "title": "Home", "sections": [
			{"id": "main", "title": "Main", "components": [
				{"type": "toggle", "id": "deck", "label": "Deck", "bindings": {"state": {"type": "empirbus", "channel": "core-99"}}}
			]}
		]}]
	}`)
	before, _ := os.ReadFile(only)

	if code := h.run("fix", "--hardware", hw, only); code != ExitBlocking {
		t.Errorf("fix = %d", code)
	}
	if !strings.Contains(h.stdout.String(), "not written") {
		t.Errorf("output = %s", h.stdout)
	}
	if after, _ := os.ReadFile(only); !bytes.Equal(before, after) {
		t.Error("emptied schema was written")
	}
}

func TestCopyConfigsCommand(t *testing.T) {
	h := newHarness(t)
	hwDir := filepath.Join(h.dir, "hardware")
	if err := os.Mkdir(hwDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(hwDir, "core.yaml"), []byte(`systemType: core
outputs:
  - id: core-01
    source: core
    channel: 1
    control: toggle-button
    signals:
      toggle: 1
`), 0o644); err != nil {
		t.Fatal(err)
	}
	panel := h.write(t, "panel.json", strings.Replace(cleanPanel, `"name": "Clean",`, `"name": "Clean", "owner": "yard",`, 1))
	outDir := filepath.Join(h.dir, "out")

	if code := h.run("copy-configs", panel); code != ExitFailure || !strings.Contains(h.stderr.String(), "--hardware is required") {
		t.Errorf("without hardware = %d %s", code, h.stderr)
	}

	code := h.run("copy-configs", "--hardware", "core", "--hardware-dir", hwDir, "-o", outDir, panel)
	if code != ExitOK {
		t.Fatalf("copy-configs = %d %s", code, h.stderr)
	}
	if !strings.Contains(h.stdout.String(), "copied 1 outputs, 0 half-bridge pairs, 0 signal map entries, 0 genesis boards (core)") {
		t.Errorf("output = %s", h.stdout)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "panel.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"hardware"`) || !strings.Contains(string(data), `"owner": "yard"`) {
		t.Errorf("merged schema = %s", data)
	}
	if orig, _ := os.ReadFile(panel); strings.Contains(string(orig), `"hardware"`) {
		t.Error("source schema modified with --output")
	}

	if code := h.run("check", panel); code != ExitBlocking {
		t.Errorf("check without hardware = %d", code)
	}
	if code := h.run("check", filepath.Join(outDir, "panel.json")); code != ExitOK {
		t.Errorf("check merged schema = %d %s", code, h.stdout)
	}
}
