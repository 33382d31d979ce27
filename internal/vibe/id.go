package vibe

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// ID names an anchor or a derived point. Values are produced by ParseID so two
// spellings of the same vibe ("Calm", " calm ") compare equal.
type ID string

// ParseID validates and canonicalises s: surrounding space is trimmed, the
// text is NFC-normalised and case-folded. Letters, digits, '-', '_' and '.'
// are accepted.
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty id", ErrConfiguration)
	}
	// Casers carry state and are not shared across goroutines.
	s = cases.Fold().String(norm.NFC.String(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) {
			continue
		}
		switch r {
		case '-', '_', '.':
			continue
		}
		return "", fmt.Errorf("%w: invalid character %q in id %q", ErrConfiguration, r, s)
	}
	return ID(s), nil
}

// MustID is ParseID for static tables; it panics on a malformed id.
func MustID(s string) ID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id ID) String() string { return string(id) }
