package model

import (
	"errors"
	"strings"
)

// Related says which collection a meeting's attendees are drawn from.
type Related string

const (
	RelatedNone    Related = ""
	RelatedContact Related = "Contact"
	RelatedLead    Related = "Lead"
)

var ErrInvalidRelated = errors.New("related must be one of Contact, Lead")

// ParseRelated accepts any casing and returns the canonical value.
func ParseRelated(s string) (Related, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return RelatedNone, nil
	case "contact":
		return RelatedContact, nil
	case "lead":
		return RelatedLead, nil
	default:
		return RelatedNone, ErrInvalidRelated
	}
}

// Canonical maps legacy lower-case values to their canonical form. Unknown
// values are returned untouched so that reads never fail on old data.
func (r Related) Canonical() Related {
	if c, err := ParseRelated(string(r)); err == nil {
		return c
	}
	return r
}
