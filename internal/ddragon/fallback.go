package ddragon

import (
	"regexp"
	"strings"
	"unicode"
)

// setPrefix matches the set-scoped unit prefix, e.g. "TFT14_" in
// "TFT14_Ahri" or "TFT_" in "TFT_Item_InfinityEdge".
var setPrefix = regexp.MustCompile(`^TFT\d*_`)

// FallbackName derives a readable display name from an opaque tracker id
// when the registry has no entry for it: known prefix patterns are stripped,
// the last underscore segment is kept, and CamelCase is spaced out
// ("TFT_Item_InfinityEdge" becomes "Infinity Edge"). The derivation is
// deterministic so unknown ids still render stably across runs.
func FallbackName(id string) string {
	if id == "" {
		return ""
	}

	name := setPrefix.ReplaceAllString(id, "")
	name = strings.TrimPrefix(name, "Item_")
	if i := strings.LastIndex(name, "_"); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return id
	}
	return spaceCamel(name)
}

// spaceCamel inserts spaces at lower-to-upper case boundaries.
func spaceCamel(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(runes[i-1]) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
