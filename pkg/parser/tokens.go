package parser

import "strings"

// Tokens is the whitespace-split view of a log line.
type Tokens []string

// Tokenize splits a line into whitespace-delimited words.
func Tokenize(line string) Tokens {
	return Tokens(strings.Fields(line))
}

// Len returns the number of words.
func (t Tokens) Len() int {
	return len(t)
}

// At returns the word at offset k. Negative offsets count from the end,
// so -1 is the last word. ok is false when the offset is out of range.
func (t Tokens) At(k int) (word string, ok bool) {
	if k < 0 {
		k += len(t)
	}
	if k < 0 || k >= len(t) {
		return "", false
	}
	return t[k], true
}

// Is reports whether the word at offset k equals w.
// An absent word never equals anything.
func (t Tokens) Is(k int, w string) bool {
	got, ok := t.At(k)
	return ok && got == w
}

// Absent reports whether offset k is beyond the line.
func (t Tokens) Absent(k int) bool {
	_, ok := t.At(k)
	return !ok
}

// IsNumeric reports whether the word at offset k consists only of digits.
func (t Tokens) IsNumeric(k int) bool {
	w, ok := t.At(k)
	return ok && IsDigits(w)
}

// Message returns the tokens with a leading solver severity prefix removed.
//
//	*** warning: node 23641 has a boundary condition ...
//	*** error - element inside out at element 102460 ...
//
// both start at "node" / "element" in the message view. Lines without a
// prefix are returned unchanged.
func (t Tokens) Message() Tokens {
	if len(t) < 2 || t[0] != "***" {
		return t
	}
	switch strings.ToLower(strings.TrimSuffix(t[1], ":")) {
	case "warning", "error":
	default:
		return t
	}
	rest := t[2:]
	if len(rest) > 0 && (rest[0] == "-" || rest[0] == ":") {
		rest = rest[1:]
	}
	return rest
}

// IsDigits reports whether s is a non-empty run of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
