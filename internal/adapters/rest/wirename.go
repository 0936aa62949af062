package rest

import (
	"strings"
	"unicode"
)

// charClass partitions identifier characters for wire-name conversion.
type charClass int

const (
	classOther charClass = iota
	classUpper
	classLower
	classDigit
)

func classify(r rune) charClass {
	switch {
	case unicode.IsUpper(r):
		return classUpper
	case unicode.IsLower(r):
		return classLower
	case unicode.IsDigit(r):
		return classDigit
	default:
		return classOther
	}
}

// wireName converts a Go-style identifier to the dash-separated lower-case
// form the router uses for field names: SharedUsers -> shared-users,
// HTTPServer -> http-server, Transfer2Limit -> transfer-2-limit. Single
// left-to-right pass over the runes; the classes of the neighbouring runes
// decide where a dash goes.
func wireName(name string) string {
	if name == "" {
		return name
	}

	runes := []rune(name)

	var b strings.Builder
	b.Grow(len(name) + 4)

	for i, r := range runes {
		if i > 0 {
			next := classOther
			if i+1 < len(runes) {
				next = classify(runes[i+1])
			}
			if needsSeparator(classify(runes[i-1]), classify(r), next) {
				b.WriteByte('-')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

func needsSeparator(prev, curr, next charClass) bool {
	// Non-alphanumeric characters pass through with no adjacent dashes.
	if prev == classOther || curr == classOther {
		return false
	}
	// Letter/digit boundary, both directions: http2 -> http-2, 2nd -> 2-nd.
	if (prev == classDigit) != (curr == classDigit) {
		return true
	}
	// Camel boundary: fooBar -> foo-bar.
	if prev == classLower && curr == classUpper {
		return true
	}
	// An acronym run stays joined until its last upper starts a lower-case
	// word: the S of HTTPServer begins "server".
	if prev == classUpper && curr == classUpper && next == classLower {
		return true
	}
	return false
}
