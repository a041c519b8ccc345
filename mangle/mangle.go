// Package mangle maps parameter lists to the short suffixes that keep
// generated overload accessors from colliding.
package mangle

import (
	"regexp"
	"strings"
)

var constRe = regexp.MustCompile(`\bconst\b`)
var multiSpaceRe = regexp.MustCompile(`\s+`)

// The codes are part of the generated accessor names, so this table must
// not change.
var primitiveCodes = map[string]string{
	"void": "V",

	"char":        "C",
	"signed char": "C",
	"int8_t":      "C",

	"unsigned char": "c",
	"uint8_t":       "c",

	"short":          "S",
	"signed short":   "S",
	"short int":      "S",
	"int16_t":        "S",
	"unsigned short": "s",
	"uint16_t":       "s",

	"int":          "I",
	"signed":       "I",
	"signed int":   "I",
	"int32_t":      "I",
	"unsigned":     "i",
	"unsigned int": "i",
	"uint32_t":     "i",

	"long long":              "L",
	"signed long long":       "L",
	"int64_t":                "L",
	"unsigned long long":     "L",
	"uint64_t":               "L",
	"unsigned long long int": "L",

	"float":  "F",
	"double": "D",
}

// Qualifiers are the markers found on a raw parameter type.
type Qualifiers struct {
	Pointer   bool
	Const     bool
	Reference bool
}

// Split separates the qualifier markers from a raw type string and returns
// the bare type name.
func Split(raw string) (string, Qualifiers) {
	q := Qualifiers{
		Pointer:   strings.Contains(raw, "*"),
		Const:     constRe.MatchString(raw),
		Reference: strings.Contains(raw, "&"),
	}

	bare := strings.NewReplacer("*", " ", "&", " ").Replace(raw)
	bare = constRe.ReplaceAllString(bare, " ")
	bare = multiSpaceRe.ReplaceAllString(bare, " ")

	return strings.TrimSpace(bare), q
}

// Code returns the token for a single parameter: pointer, const and
// reference markers in that order, followed by the base code.
func Code(raw string) string {
	bare, q := Split(raw)

	var b strings.Builder
	if q.Pointer {
		b.WriteByte('P')
	}
	if q.Const {
		b.WriteByte('Q')
	}
	if q.Reference {
		b.WriteByte('R')
	}

	if code, ok := primitiveCodes[bare]; ok {
		b.WriteString(code)
	} else {
		b.WriteString("_" + bare + "_")
	}

	return b.String()
}

// Suffix returns the disambiguating suffix for an ordered parameter list.
// An empty list yields "V".
func Suffix(params []string) string {
	if len(params) == 0 {
		return "V"
	}

	var b strings.Builder
	for _, p := range params {
		b.WriteString(Code(p))
	}

	return b.String()
}
