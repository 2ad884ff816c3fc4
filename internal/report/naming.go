package report

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// SafeName folds accents and replaces anything outside [A-Za-z0-9_-] with
// underscores, so "João da Silva" becomes "Joao_da_Silva". A name with no
// usable characters yields a short random id.
func SafeName(name string) string {
	folded := foldAccents(strings.TrimSpace(name))
	folded = strings.ReplaceAll(folded, " ", "_")
	folded = unsafeChars.ReplaceAllString(folded, "")
	folded = strings.Trim(folded, "_-")
	if folded == "" {
		return uuid.NewString()[:8]
	}
	return folded
}

// foldAccents strips combining marks, so "comunicação" becomes
// "comunicacao". Input that fails to transform is returned unchanged.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// FileBase returns "{safe-name}_{YYYYMMDD_HHMMSS}" for export files.
func FileBase(name string, at time.Time) string {
	return SafeName(name) + "_" + at.Format("20060102_150405")
}
