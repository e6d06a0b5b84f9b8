package checker

import "fmt"

type Severity string

const (
	SevBlocking Severity = "blocking"
	SevAdvisory Severity = "advisory"
)

type Code string

const (
	CodeMissingChannel           Code = "MissingChannel"
	CodeInvalidHalfBridgePair    Code = "InvalidHalfBridgePair"
	CodeInvalidHalfBridgeChannel Code = "InvalidHalfBridgeChannel"
	CodeMissingSignalAssignment  Code = "MissingSignalAssignment"
	CodeStaleIconReference       Code = "StaleIconReference"
	CodeUnknownIconReference     Code = "UnknownIconReference"
	CodeDuplicateID              Code = "DuplicateId"
	CodeStaticBindingDisallowed  Code = "StaticBindingDisallowed"
)

// Location holds the document indexes of the node a violation is about.
// Unused indexes are -1.
type Location struct {
	TabIndex       int `json:"tabIndex"`
	SectionIndex   int `json:"sectionIndex"`
	ComponentIndex int `json:"componentIndex"`
}

var noLocation = Location{TabIndex: -1, SectionIndex: -1, ComponentIndex: -1}

type Violation struct {
	Code        Code           `json:"code"`
	Severity    Severity       `json:"severity"`
	Message     string         `json:"message"`
	Path        string         `json:"path"` // JSON pointer ("/tabs/0/sections/1/components/2")
	TabID       string         `json:"tabId,omitempty"`
	SectionID   string         `json:"sectionId,omitempty"`
	ComponentID string         `json:"componentId,omitempty"`
	Label       string         `json:"label,omitempty"`
	ChannelID   string         `json:"channelId,omitempty"`
	Fixable     bool           `json:"fixable,omitempty"`
	Hint        string         `json:"hint,omitempty"`
	Meta        map[string]any `json:"meta,omitempty"`
	Location    Location       `json:"location"`
}

// NodeID is the most specific id the violation names.
func (v Violation) NodeID() string {
	switch {
	case v.ComponentID != "":
		return v.ComponentID
	case v.SectionID != "":
		return v.SectionID
	case v.TabID != "":
		return v.TabID
	}
	return v.ChannelID
}

func (v Violation) String() string {
	s := fmt.Sprintf("[%s] %s %s: %s", v.Severity, v.Code, v.Path, v.Message)
	if id := v.NodeID(); id != "" {
		s += fmt.Sprintf(" (id=%s", id)
		if v.Label != "" {
			s += fmt.Sprintf(", label=%q", v.Label)
		}
		s += ")"
	}
	return s
}

// Report lists violations in rule order, and in document order within a
// rule.
type Report struct {
	Valid      bool        `json:"valid"`
	Violations []Violation `json:"violations"`
}

func (r *Report) addBlocking(v Violation) {
	v.Severity = SevBlocking
	r.Violations = append(r.Violations, v)
}

func (r *Report) addAdvisory(v Violation) {
	v.Severity = SevAdvisory
	r.Violations = append(r.Violations, v)
}

func (r *Report) finalize() {
	if r.Violations == nil {
		r.Violations = []Violation{}
	}
	r.Valid = !r.HasBlocking()
}

func (r Report) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SevBlocking {
			return true
		}
	}
	return false
}

func (r Report) Blocking() []Violation {
	return r.filter(func(v Violation) bool { return v.Severity == SevBlocking })
}

func (r Report) Advisory() []Violation {
	return r.filter(func(v Violation) bool { return v.Severity == SevAdvisory })
}

// ByCode returns the violations carrying code, in report order.
func (r Report) ByCode(code Code) []Violation {
	return r.filter(func(v Violation) bool { return v.Code == code })
}

func (r Report) Counts() map[Code]int {
	counts := make(map[Code]int)
	for _, v := range r.Violations {
		counts[v.Code]++
	}
	return counts
}

func (r Report) filter(keep func(Violation) bool) []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
