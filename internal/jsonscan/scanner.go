// Package jsonscan finds JSON object boundaries inside free-form text.
//
// The scanner walks bytes and tracks whether it is inside a double-quoted
// string, honoring backslash escapes, so braces that appear in string values
// never change the depth. Iterating bytes is safe for the ASCII delimiters
// involved because UTF-8 never reuses them inside multi-byte sequences.
package jsonscan

// Span is a half-open byte range [Start, End) of an object in the scanned text.
type Span struct {
	Start int
	End   int
}

// Text returns the slice of s covered by the span.
func (sp Span) Text(s string) string {
	return s[sp.Start:sp.End]
}

// walker is the string-aware depth state machine shared by the scanners.
type walker struct {
	depth    int
	inString bool
	escape   bool
}

// step consumes one byte and reports whether it closed the outermost object.
func (w *walker) step(b byte) (closed bool) {
	if w.escape {
		w.escape = false
		return false
	}
	if w.inString {
		switch b {
		case '\\':
			w.escape = true
		case '"':
			w.inString = false
		}
		return false
	}

	switch b {
	case '"':
		w.inString = true
	case '{':
		w.depth++
	case '}':
		if w.depth > 0 {
			w.depth--
			return w.depth == 0
		}
	}
	return false
}

// MatchingBrace returns the index of the '}' that closes the '{' at open, or -1
// when s[open] is not '{' or the object is never closed. The scan starts
// outside any string.
func MatchingBrace(s string, open int) int {
	if open < 0 || open >= len(s) || s[open] != '{' {
		return -1
	}

	var w walker
	for i := open; i < len(s); i++ {
		if w.step(s[i]) {
			return i
		}
	}
	return -1
}

// Object returns the span of the object opening at open, if it closes.
func Object(s string, open int) (Span, bool) {
	end := MatchingBrace(s, open)
	if end < 0 {
		return Span{}, false
	}
	return Span{Start: open, End: end + 1}, true
}

// Objects returns every complete top-level object in s, in order of appearance.
// String state is only tracked inside objects, so stray quotes in surrounding
// prose do not hide the objects that follow. Objects left open at the end of s
// are not reported.
func Objects(s string) []Span {
	var spans []Span
	for i := 0; i < len(s); i++ {
		if s[i] != '{' {
			continue
		}
		end := MatchingBrace(s, i)
		if end < 0 {
			// A stray '{' in prose; later braces may still open real objects.
			continue
		}
		spans = append(spans, Span{Start: i, End: end + 1})
		i = end
	}
	return spans
}

// OpenBracesBefore returns the indexes of every '{' in s before limit, nearest
// first. Callers use it to walk back from a marker to candidate object openings.
func OpenBracesBefore(s string, limit int) []int {
	if limit > len(s) {
		limit = len(s)
	}
	var out []int
	for i := limit - 1; i >= 0; i-- {
		if s[i] == '{' {
			out = append(out, i)
		}
	}
	return out
}
