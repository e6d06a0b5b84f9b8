package types

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

type IconType string

const (
	IconTypeSVG IconType = "svg"
	IconTypePNG IconType = "png"
	IconTypeJPG IconType = "jpg"
)

// Icon is a registry entry. Exactly one of Data and URL is set.
type Icon struct {
	ID   string   `json:"id"`
	Type IconType `json:"type"`
	Data string   `json:"data,omitempty"`
	URL  string   `json:"url,omitempty"`
}

// IconKind says how an icon reference is meant to be looked up.
type IconKind string

const (
	IconEmoji    IconKind = "emoji"
	IconRegistry IconKind = "registry"
	IconPath     IconKind = "path"
)

// IconRef is an icon value on a tab, section or component.
//
// On the wire it is either a bare string, classified with ClassifyIcon, or
// an object tagging the kind explicitly: {"emoji": "…"}, {"id": "…"} or
// {"path": "…"}. Marshaling emits the bare string whenever classification
// would recover the same kind, so decode/encode is stable.
type IconRef struct {
	Kind  IconKind
	Value string
}

func EmojiIcon(v string) *IconRef    { return &IconRef{Kind: IconEmoji, Value: v} }
func RegistryIcon(v string) *IconRef { return &IconRef{Kind: IconRegistry, Value: v} }
func PathIcon(v string) *IconRef     { return &IconRef{Kind: IconPath, Value: v} }

func (r *IconRef) Clone() *IconRef {
	if r == nil {
		return nil
	}
	out := *r
	return &out
}

// IsEmoji reports whether the reference bypasses registry lookup.
func (r *IconRef) IsEmoji() bool {
	return r != nil && r.Kind == IconEmoji
}

var iconObjectKeys = map[IconKind]string{
	IconEmoji:    "emoji",
	IconRegistry: "id",
	IconPath:     "path",
}

func (r IconRef) MarshalJSON() ([]byte, error) {
	if ClassifyIcon(r.Value) == r.Kind {
		return json.Marshal(r.Value)
	}
	key, ok := iconObjectKeys[r.Kind]
	if !ok {
		return nil, fmt.Errorf("unsupported icon kind %q", r.Kind)
	}
	return json.Marshal(map[string]string{key: r.Value})
}

func (r *IconRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = IconRef{Kind: ClassifyIcon(s), Value: s}
		return nil
	}

	var obj map[string]string
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("icon must be a string or a tagged object: %w", err)
	}
	for _, kind := range []IconKind{IconEmoji, IconRegistry, IconPath} {
		if v, ok := obj[iconObjectKeys[kind]]; ok {
			*r = IconRef{Kind: kind, Value: v}
			return nil
		}
	}
	return fmt.Errorf("icon object needs one of emoji, id or path")
}

var imageExtensions = map[string]struct{}{
	".svg": {}, ".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".webp": {},
}

// ClassifyIcon decides the kind of an untagged icon string by content:
// anything with a slash or an image extension is a path, a single grapheme
// cluster made of pictographic runes is an emoji, everything else is a
// registry id. A short ASCII id such as "fan" stays a registry id.
func ClassifyIcon(s string) IconKind {
	if strings.Contains(s, "/") {
		return IconPath
	}
	if _, ok := imageExtensions[strings.ToLower(path.Ext(s))]; ok {
		return IconPath
	}
	if isEmoji(s) {
		return IconEmoji
	}
	return IconRegistry
}

// isEmoji reports whether s is a single emoji grapheme. Pictographs with
// a text default such as ™ or © only count when followed by U+FE0F.
func isEmoji(s string) bool {
	if s == "" || uniseg.GraphemeClusterCount(s) != 1 {
		return false
	}
	keycap := strings.ContainsRune(s, 0x20E3)
	selector := strings.ContainsRune(s, 0xFE0F)
	emoji := keycap
	for _, r := range s {
		switch {
		case r == 0x200D || r == 0xFE0F || r == 0x20E3:
			// joiner, variation selector, keycap mark
		case r >= 0x1F3FB && r <= 0x1F3FF:
			// skin tone modifiers
		case r >= 0xE0020 && r <= 0xE007F:
			// tag characters of subdivision flags
		case unicode.Is(emojiPresentation, r):
			emoji = true
		case unicode.Is(extendedPictographic, r):
			emoji = emoji || selector
		case r <= unicode.MaxASCII && keycap:
			// keycap base: 0-9, # or *
		default:
			return false
		}
	}
	return emoji
}
