package types

import (
	"fmt"
	"strings"
)

// Pointer builds a JSON pointer (RFC 6901) from path tokens.
func Pointer(tokens ...any) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteByte('/')
		s := fmt.Sprint(t)
		s = strings.ReplaceAll(s, "~", "~0")
		s = strings.ReplaceAll(s, "/", "~1")
		b.WriteString(s)
	}
	return b.String()
}

func TabPath(tab int) string {
	return Pointer("tabs", tab)
}

func SectionPath(tab, section int) string {
	return Pointer("tabs", tab, "sections", section)
}

func ComponentPath(tab, section, component int) string {
	return Pointer("tabs", tab, "sections", section, "components", component)
}
