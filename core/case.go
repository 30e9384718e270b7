package core

import (
	"fmt"
	"strings"
	"unicode"
)

// CaseMatching is the case sensitivity policy handed to engine factories.
type CaseMatching int

const (
	// CaseSmart is case sensitive only when the query contains an upper-case letter.
	CaseSmart CaseMatching = iota
	// CaseRespect is always case sensitive.
	CaseRespect
	// CaseIgnore is never case sensitive.
	CaseIgnore
)

// ParseCaseMatching parses "smart", "respect" or "ignore".
func ParseCaseMatching(text string) (CaseMatching, error) {
	switch strings.ToLower(text) {
	case "", "smart":
		return CaseSmart, nil
	case "respect":
		return CaseRespect, nil
	case "ignore":
		return CaseIgnore, nil
	default:
		return CaseSmart, fmt.Errorf("%w: %q", ErrUnknownCaseMatching, text)
	}
}

// Sensitive reports whether matching query under this policy is case sensitive.
func (c CaseMatching) Sensitive(query string) bool {
	switch c {
	case CaseRespect:
		return true
	case CaseIgnore:
		return false
	default:
		return strings.IndexFunc(query, unicode.IsUpper) >= 0
	}
}

func (c CaseMatching) String() string {
	switch c {
	case CaseRespect:
		return "respect"
	case CaseIgnore:
		return "ignore"
	default:
		return "smart"
	}
}
