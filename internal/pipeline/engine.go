// Package pipeline runs the whole engine over one document pair:
// validate, merge defaults, resolve, check and repair.
package pipeline

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/KevinKickass/PanelSchema/internal/checker"
	"github.com/KevinKickass/PanelSchema/internal/defaults"
	"github.com/KevinKickass/PanelSchema/internal/repair"
	"github.com/KevinKickass/PanelSchema/internal/resolver"
	"github.com/KevinKickass/PanelSchema/internal/schema"
	"github.com/KevinKickass/PanelSchema/internal/types"
)

type Options struct {
	Production  bool
	Parallelism int
}

type Engine struct {
	validator *schema.Validator
	logger    *zap.Logger
	opts      Options
}

func NewEngine(validator *schema.Validator, opts Options, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		validator: validator,
		logger:    logger,
		opts:      opts,
	}
}

func (e *Engine) Validator() *schema.Validator {
	return e.validator
}

// Production reports whether the production-only rules are enabled.
func (e *Engine) Production() bool {
	return e.opts.Production
}

type Result struct {
	RunID string `json:"runId"`
	// Source is the parsed document before defaults were merged.
	Source *types.UISchema `json:"-"`
	// Schema is the validated document with defaults merged in.
	Schema   *types.UISchema          `json:"schema"`
	Hardware *types.HardwareConfig    `json:"hardware"`
	Resolved *resolver.ResolvedSchema `json:"resolved"`
	Report   checker.Report           `json:"report"`
	// Repaired is the source document after the safe fixes. Nil when no
	// fix applied.
	Repaired *types.UISchema `json:"repaired,omitempty"`
	Applied  []repair.Fix    `json:"applied"`
	Pruned   []repair.Fix    `json:"pruned,omitempty"`
	Emptied  bool            `json:"emptied,omitempty"`
	// Remaining is the report after repair; Blocked follows it.
	Remaining checker.Report `json:"remaining"`
	Blocked   bool           `json:"blocked"`
}

// Run validates schemaJSON and checks it against hardwareJSON. hardwareJSON
// may be nil, in which case the schema's own hardware block is used, or an
// empty configuration when it has none. Structural failures are returned
// as schema.StructuralErrors.
func (e *Engine) Run(schemaJSON, hardwareJSON []byte) (*Result, error) {
	doc, err := e.validator.ValidateUISchema(schemaJSON)
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}

	var hw *types.HardwareConfig
	if hardwareJSON != nil {
		hw, err = e.validator.ValidateHardware(hardwareJSON)
		if err != nil {
			return nil, fmt.Errorf("hardware: %w", err)
		}
	}
	return e.RunParsed(doc, hw), nil
}

// RunParsed runs everything after structural validation. doc is not
// modified.
func (e *Engine) RunParsed(doc *types.UISchema, hw *types.HardwareConfig) *Result {
	res := &Result{RunID: uuid.New().String(), Source: doc}
	log := e.logger.With(zap.String("run_id", res.RunID), zap.String("schema", doc.Metadata.Name))

	if hw == nil {
		hw = doc.Hardware
	}
	if hw == nil {
		hw = &types.HardwareConfig{}
	}
	res.Hardware = hw

	res.Schema = defaults.Merge(doc)
	res.Resolved = resolver.Resolve(res.Schema, hw)
	res.Report = checker.Check(res.Resolved, e.checkOptions()...)

	log.Debug("Checked schema",
		zap.Int("bindings", len(res.Resolved.Bindings)),
		zap.Int("unresolved", len(res.Resolved.Unresolved())),
		zap.Int("violations", len(res.Report.Violations)))

	// Repair the source document so no defaults leak into written files.
	// Merging never changes structure, so report paths match.
	fixed := repair.Repair(doc, res.Report, repair.WithLogger(log))
	res.Applied, res.Pruned, res.Emptied = fixed.Applied, fixed.Pruned, fixed.Emptied
	res.Remaining = res.Report
	if fixed.Changed() {
		res.Repaired = fixed.Schema
		res.Remaining = checker.Check(resolver.Resolve(defaults.Merge(fixed.Schema), hw), e.checkOptions()...)
	}
	res.Blocked = res.Remaining.HasBlocking() || res.Emptied

	if res.Blocked {
		log.Warn("Schema blocked",
			zap.Int("blocking", len(res.Remaining.Blocking())),
			zap.Int("fixes", len(res.Applied)))
	} else {
		log.Info("Schema passed",
			zap.Int("advisory", len(res.Remaining.Advisory())),
			zap.Int("fixes", len(res.Applied)))
	}
	return res
}

func (e *Engine) checkOptions() []checker.Option {
	opts := []checker.Option{checker.WithParallelism(e.opts.Parallelism)}
	if e.opts.Production {
		opts = append(opts, checker.WithProduction())
	}
	return opts
}
