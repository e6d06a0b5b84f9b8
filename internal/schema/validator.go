// Package schema parses raw UI schema and hardware documents into the typed
// model, rejecting anything malformed with path-qualified errors.
//
// Validation runs in three stages: the embedded JSON Schema (shape, id
// patterns, lengths, enums, per-kind required bindings), a typed decode,
// and refinements that JSON Schema cannot express (min < max, a button's
// state-or-action rule, an icon's data-xor-url rule). Unknown fields are
// ignored at every level. Any failure fails the whole document.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	_ "embed"

	"github.com/KevinKickass/PanelSchema/internal/jsondoc"
	"github.com/KevinKickass/PanelSchema/internal/types"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/jsonc"
)

//go:embed schema/panel-schema-v1.json
var panelSchemaJSON string

const panelSchemaURL = "https://schemas.panelschema.dev/panel-schema-v1.json"

// Document returns the embedded JSON Schema the validator compiles.
func Document() []byte {
	return []byte(panelSchemaJSON)
}

// Validator holds the compiled schemas. It is immutable after
// construction and safe for concurrent use.
type Validator struct {
	ui       *jsonschema.Schema
	hardware *jsonschema.Schema
}

func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	if err := compiler.AddResource(panelSchemaURL, strings.NewReader(panelSchemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	ui, err := compiler.Compile(panelSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile ui schema: %w", err)
	}

	hardware, err := compiler.Compile(panelSchemaURL + "#/$defs/hardwareConfig")
	if err != nil {
		return nil, fmt.Errorf("failed to compile hardware schema: %w", err)
	}

	return &Validator{ui: ui, hardware: hardware}, nil
}

// ValidateUISchema parses a UI schema document. data may be JSON or JSONC.
// On failure the error is a StructuralErrors and the schema is nil.
func (v *Validator) ValidateUISchema(data []byte) (*types.UISchema, error) {
	if errs := v.validateShape(v.ui, data); len(errs) > 0 {
		return nil, errs
	}

	var doc types.UISchema
	if err := decode(data, &doc); err != nil {
		return nil, err
	}

	errs := refineUISchema(&doc)
	if len(errs) > 0 {
		sortErrors(errs)
		return nil, errs
	}
	return &doc, nil
}

// ValidateHardware parses a standalone hardware configuration document.
func (v *Validator) ValidateHardware(data []byte) (*types.HardwareConfig, error) {
	if errs := v.validateShape(v.hardware, data); len(errs) > 0 {
		return nil, errs
	}

	var hw types.HardwareConfig
	if err := decode(data, &hw); err != nil {
		return nil, err
	}

	errs := refineHardware(&hw, "")
	if len(errs) > 0 {
		sortErrors(errs)
		return nil, errs
	}
	return &hw, nil
}

// decode runs the typed decode on a document that already passed the
// JSON Schema stage. "integer" there admits 1.0, so integral numbers are
// canonicalized first.
func decode(data []byte, v any) error {
	doc, err := jsondoc.Decode(data)
	if err != nil {
		return StructuralErrors{{Rule: "decode", Message: err.Error()}}
	}
	canonical, err := json.Marshal(jsondoc.Canonicalize(doc))
	if err != nil {
		return StructuralErrors{{Rule: "decode", Message: err.Error()}}
	}
	if err := json.Unmarshal(canonical, v); err != nil {
		return StructuralErrors{{Rule: "decode", Message: err.Error()}}
	}
	return nil
}

func (v *Validator) validateShape(sch *jsonschema.Schema, data []byte) StructuralErrors {
	var doc interface{}
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return StructuralErrors{{Rule: "json", Message: fmt.Sprintf("invalid JSON: %v", err)}}
	}

	err := sch.Validate(doc)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return StructuralErrors{{Rule: "schema", Message: err.Error()}}
	}

	var errs StructuralErrors
	collectLeaves(verr, &errs)
	sortErrors(errs)
	return errs
}

// collectLeaves flattens the cause tree. Only leaves name a concrete rule;
// inner nodes just say "doesn't validate with ...".
func collectLeaves(verr *jsonschema.ValidationError, out *StructuralErrors) {
	if len(verr.Causes) == 0 {
		*out = append(*out, StructuralError{
			Path:    verr.InstanceLocation,
			Rule:    path.Base(verr.KeywordLocation),
			Message: verr.Message,
		})
		return
	}
	for _, cause := range verr.Causes {
		collectLeaves(cause, out)
	}
}
