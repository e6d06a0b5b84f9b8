package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/KevinKickass/PanelSchema/internal/checker"
	"github.com/KevinKickass/PanelSchema/internal/pipeline"
	"github.com/KevinKickass/PanelSchema/internal/repair"
)

func (a *App) printReport(file string, rep checker.Report) {
	blocking, advisory := rep.Blocking(), rep.Advisory()
	status := "ok"
	if len(blocking) > 0 {
		status = "BLOCKED"
	}
	fmt.Fprintf(a.Stdout, "%s: %s (%d blocking, %d advisory)\n", file, status, len(blocking), len(advisory))
	for _, v := range rep.Violations {
		fmt.Fprintf(a.Stdout, "  %s\n", v)
	}
}

// printFixes keeps auto-fixed items apart from what still blocks the
// document.
func (a *App) printFixes(file string, res *pipeline.Result) {
	blocking := res.Remaining.Blocking()
	fmt.Fprintf(a.Stdout, "%s: %d auto-fixed, %d still-blocking\n", file, len(res.Applied), len(blocking))

	if len(res.Applied) > 0 {
		fmt.Fprintln(a.Stdout, "  auto-fixed:")
		for _, f := range res.Applied {
			fmt.Fprintf(a.Stdout, "    %s\n", formatFix(f))
		}
	}
	if len(res.Pruned) > 0 {
		fmt.Fprintln(a.Stdout, "  pruned:")
		for _, f := range res.Pruned {
			fmt.Fprintf(a.Stdout, "    %s\n", formatFix(f))
		}
	}
	if len(blocking) > 0 {
		fmt.Fprintln(a.Stdout, "  still-blocking:")
		for _, v := range blocking {
			fmt.Fprintf(a.Stdout, "    %s\n", v)
		}
	}
	if advisory := res.Remaining.Advisory(); len(advisory) > 0 {
		fmt.Fprintln(a.Stdout, "  advisory:")
		for _, v := range advisory {
			fmt.Fprintf(a.Stdout, "    %s\n", v)
		}
	}
}

func formatFix(f repair.Fix) string {
	s := fmt.Sprintf("%s %s (id=%s", f.Action, f.Path, f.ID)
	if f.Label != "" {
		s += fmt.Sprintf(", label=%q", f.Label)
	}
	return s + "): " + f.Message
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
