package extract

import "strings"

// Fence is one fenced code region of a response.
type Fence struct {
	// Lang is the declared language tag, lower-cased. Empty when none.
	Lang string
	// Body is the text between the fence markers.
	Body string
	// Terminated is false when the text ended before a closing marker.
	Terminated bool
}

type fenceOpen struct {
	marker byte
	width  int
	info   string
	lang   string
}

// parseFenceLine reports whether line opens or closes a fence: three or more
// backticks or tildes after optional indentation.
func parseFenceLine(line string) (fenceOpen, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if len(trimmed) < 3 {
		return fenceOpen{}, false
	}
	marker := trimmed[0]
	if marker != '`' && marker != '~' {
		return fenceOpen{}, false
	}
	width := 0
	for width < len(trimmed) && trimmed[width] == marker {
		width++
	}
	if width < 3 {
		return fenceOpen{}, false
	}
	info := strings.TrimSpace(trimmed[width:])
	if marker == '`' && strings.Contains(info, "`") {
		return fenceOpen{}, false
	}
	lang := info
	if i := strings.IndexAny(lang, " \t{"); i >= 0 {
		lang = lang[:i]
	}
	return fenceOpen{marker: marker, width: width, info: info, lang: strings.ToLower(lang)}, true
}

// closesFence reports whether line is a bare marker at least as wide as open's.
func closesFence(line string, open fenceOpen) bool {
	f, ok := parseFenceLine(line)
	return ok && f.marker == open.marker && f.width >= open.width && f.info == ""
}

// FencedRegions returns every fenced code region of text in order, whatever its
// declared language. A fence left open runs to the end of the text.
func FencedRegions(text string) []Fence {
	lines := strings.SplitAfter(text, "\n")

	var (
		regions []Fence
		open    *fenceOpen
		body    strings.Builder
	)
	for _, line := range lines {
		bare := strings.TrimRight(line, "\r\n")
		if open == nil {
			if f, ok := parseFenceLine(bare); ok {
				open = &f
				body.Reset()
			}
			continue
		}
		if closesFence(bare, *open) {
			regions = append(regions, Fence{Lang: open.lang, Body: trimFinalNewline(body.String()), Terminated: true})
			open = nil
			continue
		}
		body.WriteString(line)
	}
	if open != nil {
		regions = append(regions, Fence{Lang: open.lang, Body: trimFinalNewline(body.String()), Terminated: false})
	}
	return regions
}

func trimFinalNewline(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

// StripFence removes at most one surrounding fence from text: an opening fence
// line at the start and, if present, a closing fence line at the end. Text that
// does not start with a fence is returned trimmed.
func StripFence(text string) string {
	trimmed := strings.TrimSpace(text)
	first, rest, found := strings.Cut(trimmed, "\n")
	open, ok := parseFenceLine(first)
	if !ok {
		return trimmed
	}
	if !found {
		// A lone fence line carries no content.
		return ""
	}
	rest = strings.TrimRight(rest, " \t\r\n")
	if i := strings.LastIndex(rest, "\n"); i >= 0 {
		if closesFence(rest[i+1:], open) {
			rest = rest[:i]
		}
	} else if closesFence(rest, open) {
		rest = ""
	}
	return strings.TrimSpace(rest)
}

// outsideFences returns the prose of text with fenced regions removed.
func outsideFences(text string) string {
	var (
		out  strings.Builder
		open *fenceOpen
	)
	for _, line := range strings.SplitAfter(text, "\n") {
		bare := strings.TrimRight(line, "\r\n")
		if open == nil {
			if f, ok := parseFenceLine(bare); ok {
				open = &f
				continue
			}
			out.WriteString(line)
			continue
		}
		if closesFence(bare, *open) {
			open = nil
		}
	}
	return strings.TrimSpace(out.String())
}
