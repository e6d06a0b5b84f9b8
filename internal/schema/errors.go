package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KevinKickass/PanelSchema/internal/jsondoc"
)

// StructuralError is one rule violation found while parsing a document.
// Path is a JSON pointer into the raw input ("" is the document root).
type StructuralError struct {
	Path    string `json:"path"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (e StructuralError) String() string {
	path := e.Path
	if path == "" {
		path = "/"
	}
	return fmt.Sprintf("%s: %s (%s)", path, e.Message, e.Rule)
}

// StructuralErrors is returned whenever a document fails to parse. No
// partial document accompanies it.
type StructuralErrors []StructuralError

func (e StructuralErrors) Error() string {
	if len(e) == 0 {
		return "invalid document"
	}
	parts := make([]string, 0, len(e))
	for _, se := range e {
		parts = append(parts, se.String())
	}
	return fmt.Sprintf("invalid document (%d problems): %s", len(e), strings.Join(parts, "; "))
}

// sortErrors orders errors by pointer, comparing array indexes numerically
// so /tabs/2 sorts before /tabs/10.
func sortErrors(errs StructuralErrors) {
	sort.SliceStable(errs, func(i, j int) bool {
		if c := jsondoc.Compare(errs[i].Path, errs[j].Path); c != 0 {
			return c < 0
		}
		return errs[i].Rule < errs[j].Rule
	})
}
