package repair

import (
	"fmt"
	"sort"

	"github.com/KevinKickass/PanelSchema/internal/jsondoc"
)

// Rewrite replays applied and pruned fixes on the raw document data, so
// members the typed model does not know survive the write. Member order
// and number literals are kept as read.
func Rewrite(data []byte, applied, pruned []Fix) ([]byte, error) {
	doc, err := jsondoc.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	var removals []string
	for _, f := range applied {
		switch f.Action {
		case ActionStripIcon:
			if err := doc.Remove(f.Path); err != nil {
				return nil, err
			}
		case ActionRemoveComponent:
			removals = append(removals, f.Path)
		}
	}
	for _, f := range pruned {
		removals = append(removals, f.Path)
	}

	// Fix paths point into the original document. Removing the highest
	// pointer first keeps every remaining one valid, and a component sorts
	// after the section that holds it.
	sort.Slice(removals, func(i, j int) bool {
		return jsondoc.Compare(removals[i], removals[j]) > 0
	})
	for _, p := range removals {
		if err := doc.Remove(p); err != nil {
			return nil, err
		}
	}
	return jsondoc.Encode(doc)
}
