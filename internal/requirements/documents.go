package requirements

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mrz1836/forge/internal/constants"
	"github.com/mrz1836/forge/internal/domain"
	forgeerrors "github.com/mrz1836/forge/internal/errors"
)

// RawDocument is an attachment as handed over by the ingestion collaborator:
// already converted to plain text, not yet capped.
type RawDocument struct {
	Name string
	MIME string
	Text string
}

// IngestDocuments caps each attachment at capRunes runes, appending a
// truncation marker to the ones that were cut. A non-positive cap uses the
// default.
func IngestDocuments(raw []RawDocument, capRunes int) []domain.Document {
	if capRunes <= 0 {
		capRunes = constants.DefaultDocumentCharCap
	}
	docs := make([]domain.Document, 0, len(raw))
	for _, r := range raw {
		docs = append(docs, domain.Document{
			Name: r.Name,
			MIME: r.MIME,
			Text: truncateRunes(r.Text, capRunes),
		})
	}
	return docs
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i] + constants.TruncationMarker
		}
		count++
	}
	return s
}

// ValidateRequest rejects empty requests and requests longer than maxLen runes.
// A non-positive maxLen uses the default limit.
func ValidateRequest(text string, maxLen int) error {
	if maxLen <= 0 {
		maxLen = constants.DefaultMaxRequestLength
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: request is empty", forgeerrors.ErrValidation)
	}
	if n := utf8.RuneCountInString(text); n > maxLen {
		return fmt.Errorf("%w: request is %d characters, limit is %d", forgeerrors.ErrValidation, n, maxLen)
	}
	return nil
}
