package scanner

import "github.com/ccollicutt/outcheck/pkg/parser"

// buffer holds the read log with its tokens computed once per line.
type buffer struct {
	lines []parser.LogLine
	raw   []parser.Tokens
	msg   []parser.Tokens
}

func newBuffer(lines []parser.LogLine) *buffer {
	b := &buffer{
		lines: lines,
		raw:   make([]parser.Tokens, len(lines)),
		msg:   make([]parser.Tokens, len(lines)),
	}
	for i := range lines {
		b.raw[i] = parser.Tokenize(lines[i].Content)
		b.msg[i] = b.raw[i].Message()
	}
	return b
}

// View is the scanner's position in the line buffer. Every accessor is
// bounds-checked: anything outside the buffer or the line is reported as
// absent rather than failing.
type View struct {
	buf *buffer
	idx int
}

// Index returns the 0-based buffer position of the current line.
func (v View) Index() int {
	return v.idx
}

// Line returns the current line.
func (v View) Line() parser.LogLine {
	return v.buf.lines[v.idx]
}

// Tokens returns the message view of the current line.
func (v View) Tokens() parser.Tokens {
	return v.buf.msg[v.idx]
}

// Word returns word k of the current line's message view.
func (v View) Word(k int) (string, bool) {
	return v.buf.msg[v.idx].At(k)
}

// Prev returns word k of the preceding line. Negative k counts from its end.
func (v View) Prev(k int) (string, bool) {
	return v.Ahead(-1, k)
}

// Ahead returns word k of the line n positions away (n may be negative).
func (v View) Ahead(n, k int) (string, bool) {
	j := v.idx + n
	if j < 0 || j >= len(v.buf.raw) {
		return "", false
	}
	return v.buf.raw[j].At(k)
}

// LineAt returns the raw text of the line n positions away.
func (v View) LineAt(n int) (string, bool) {
	j := v.idx + n
	if j < 0 || j >= len(v.buf.lines) {
		return "", false
	}
	return v.buf.lines[j].Content, true
}

// Stream returns the word k positions into the word stream that starts at
// the first word of the current message and continues through the following
// lines. Negative k walks backwards into the preceding lines, -1 being the
// last word of the previous line. Solver messages often wrap, so values that
// belong to a message may sit on the next line.
func (v View) Stream(k int) (string, bool) {
	if k >= 0 {
		cur := v.buf.msg[v.idx]
		if k < len(cur) {
			return cur[k], true
		}
		k -= len(cur)
		for j := v.idx + 1; j < len(v.buf.raw); j++ {
			if k < len(v.buf.raw[j]) {
				return v.buf.raw[j][k], true
			}
			k -= len(v.buf.raw[j])
		}
		return "", false
	}

	need := -k
	for j := v.idx - 1; j >= 0; j-- {
		words := v.buf.raw[j]
		if need <= len(words) {
			return words[len(words)-need], true
		}
		need -= len(words)
	}
	return "", false
}
