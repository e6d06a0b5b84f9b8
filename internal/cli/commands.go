package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/KevinKickass/PanelSchema/internal/checker"
	"github.com/KevinKickass/PanelSchema/internal/hardware"
	"github.com/KevinKickass/PanelSchema/internal/repair"
	"github.com/KevinKickass/PanelSchema/internal/schema"
	"github.com/KevinKickass/PanelSchema/internal/types"
)

// validate runs structural validation only.
func (a *App) validate(args []string) error {
	var flags commonFlags
	files, err := a.parse("validate", args, flags.register)
	if err != nil {
		return err
	}
	e, err := a.setup(flags)
	if err != nil {
		return err
	}

	failed := 0
	for _, file := range files {
		if _, _, ok := a.readSchema(e, file); !ok {
			failed++
			continue
		}
		fmt.Fprintf(a.Stdout, "%s: ok\n", file)
	}
	if failed > 0 {
		return &ExitError{Code: ExitFailure}
	}
	return nil
}

// check is the CI gate: it never writes and fails on any blocking
// violation.
func (a *App) check(args []string) error {
	var flags commonFlags
	var asJSON bool
	files, err := a.parse("check", args, func(fs *pflag.FlagSet) {
		flags.register(fs)
		fs.BoolVar(&asJSON, "json", false, "print the reports as JSON")
	})
	if err != nil {
		return err
	}
	e, err := a.setup(flags)
	if err != nil {
		return err
	}
	hw, err := e.loadHardware(flags.hardware)
	if err != nil {
		return err
	}

	code := ExitOK
	reports := make(map[string]checker.Report, len(files))
	for _, file := range files {
		doc, _, ok := a.readSchema(e, file)
		if !ok {
			code = ExitFailure
			continue
		}
		res := e.engine.RunParsed(doc, hw)
		reports[file] = res.Report
		if !asJSON {
			a.printReport(file, res.Report)
		}
		if res.Report.HasBlocking() && code == ExitOK {
			code = ExitBlocking
		}
	}

	if asJSON {
		if err := writeJSON(a.Stdout, reports); err != nil {
			return err
		}
	}

	if code != ExitOK {
		return &ExitError{Code: code}
	}
	return nil
}

// fix applies the safe repairs and writes a schema back only when a fix
// was applied.
func (a *App) fix(args []string) error {
	var flags commonFlags
	var dryRun bool
	files, err := a.parse("fix", args, func(fs *pflag.FlagSet) {
		flags.register(fs)
		fs.BoolVarP(&dryRun, "dry-run", "n", false, "report fixes without writing")
	})
	if err != nil {
		return err
	}
	e, err := a.setup(flags)
	if err != nil {
		return err
	}
	hw, err := e.loadHardware(flags.hardware)
	if err != nil {
		return err
	}

	code := ExitOK
	total := 0
	for _, file := range files {
		doc, data, ok := a.readSchema(e, file)
		if !ok {
			code = ExitFailure
			continue
		}
		res := e.engine.RunParsed(doc, hw)
		a.printFixes(file, res)
		total += len(res.Applied)

		if res.Blocked && code == ExitOK {
			code = ExitBlocking
		}
		if res.Repaired == nil || dryRun {
			continue
		}
		if res.Emptied {
			fmt.Fprintf(a.Stdout, "%s: not written, repair would leave no sections\n", file)
			continue
		}
		out, err := repair.Rewrite(data, res.Applied, res.Pruned)
		if err != nil {
			return fmt.Errorf("failed to rewrite %s: %w", file, err)
		}
		if err := writeSchema(file, out); err != nil {
			return err
		}
		e.logger.Info("Wrote repaired schema", zap.String("path", file), zap.Int("fixes", len(res.Applied)))
	}

	verb := "Fixed"
	if dryRun {
		verb = "Would fix"
	}
	fmt.Fprintf(a.Stdout, "%s %d %s in %d %s\n", verb, total, plural(total, "issue", "issues"), len(files), plural(len(files), "file", "files"))

	if code != ExitOK {
		return &ExitError{Code: code}
	}
	return nil
}

// copyConfigs merges one hardware document into every schema given.
func (a *App) copyConfigs(args []string) error {
	var flags commonFlags
	var outDir string
	files, err := a.parse("copy-configs", args, func(fs *pflag.FlagSet) {
		flags.register(fs)
		fs.StringVarP(&outDir, "output", "o", "", "write merged schemas to this directory instead of in place")
	})
	if err != nil {
		return err
	}
	if flags.hardware == "" {
		return usagef("copy-configs: --hardware is required")
	}
	e, err := a.setup(flags)
	if err != nil {
		return err
	}
	hw, err := e.loadHardware(flags.hardware)
	if err != nil {
		return err
	}

	code := ExitOK
	for _, file := range files {
		doc, data, ok := a.readSchema(e, file)
		if !ok {
			code = ExitFailure
			continue
		}
		merged, summary, err := hardware.MergeDocument(data, doc, hw)
		if err != nil {
			return fmt.Errorf("failed to merge %s: %w", file, err)
		}

		target := file
		if outDir != "" {
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("failed to create output dir: %w", err)
			}
			target = filepath.Join(outDir, filepath.Base(file))
		}
		if err := writeSchema(target, merged); err != nil {
			return err
		}
		fmt.Fprintf(a.Stdout, "%s: copied %d outputs, %d half-bridge pairs, %d signal map entries, %d genesis boards (%s)\n",
			target, summary.Outputs, summary.HalfBridgePairs, summary.SignalMap, summary.GenesisBoards, summary.SystemType)
	}

	if code != ExitOK {
		return &ExitError{Code: code}
	}
	return nil
}

// readSchema prints structural errors itself and reports success. The
// raw data is returned for writes that must keep unknown members.
func (a *App) readSchema(e *env, file string) (*types.UISchema, []byte, bool) {
	data, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(a.Stderr, "%s: %v\n", file, err)
		return nil, nil, false
	}
	doc, err := e.validator.ValidateUISchema(data)
	if err != nil {
		var serrs schema.StructuralErrors
		if errors.As(err, &serrs) {
			fmt.Fprintf(a.Stderr, "%s: %d structural %s\n", file, len(serrs), plural(len(serrs), "error", "errors"))
			for _, se := range serrs {
				fmt.Fprintf(a.Stderr, "  %s\n", se)
			}
		} else {
			fmt.Fprintf(a.Stderr, "%s: %v\n", file, err)
		}
		return nil, nil, false
	}
	return doc, data, true
}

func writeSchema(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
