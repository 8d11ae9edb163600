package compile

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// RefKey translates a $ref pointer string into a namespace key. The transform
// is purely syntactic: no existence check happens here, and an unknown key
// surfaces later as an unresolved-reference failure at bind time.
//
// Local references ("#/$defs/Address/$defs/Country") drop the definition
// container keywords, join the remaining segments with "_" and normalize case
// ("Address_country"). External references degrade to their final path
// segment. The case normalization is a naive first-rune-upper/rest-lower
// transform with no escaping of non-identifier characters, so adversarial
// definition names can collide.
func RefKey(ref string) string {
	if strings.HasPrefix(ref, "#/") {
		parts := strings.Split(ref[2:], "/")
		names := parts[:0]
		for _, p := range parts {
			if p == "$defs" || p == "definitions" {
				continue
			}
			names = append(names, p)
		}
		return capitalize(strings.Join(names, "_"))
	}
	parts := strings.Split(ref, "/")
	return capitalize(parts[len(parts)-1])
}

// NormalizeKey derives the namespace key for a collected definition path
// ("Address/Country" -> "Address_country"), matching RefKey's normalization so
// references and definitions meet on the same key.
func NormalizeKey(path string) string {
	return capitalize(strings.ReplaceAll(path, "/", "_"))
}

// capitalize uppercases the first rune and lowercases the remainder.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
