// Package directory filters and paginates the member directory.
//
// Everything here is synchronous and side-effect free except Browser, which
// carries one visitor's criteria and page between events.
package directory

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter returns the candidates matching every predicate of c, in source order.
func Filter(candidates []Candidate, c Criteria) []Candidate {
	m := newMatcher(c)
	out := make([]Candidate, 0, len(candidates))
	for _, cand := range candidates {
		if m.match(cand) {
			out = append(out, cand)
		}
	}
	return out
}

// Matches reports whether a single candidate passes c.
func Matches(cand Candidate, c Criteria) bool {
	return newMatcher(c).match(cand)
}

type matcher struct {
	c    Criteria
	fold cases.Caser
	term string
}

func newMatcher(c Criteria) *matcher {
	m := &matcher{c: c, fold: cases.Fold()}
	if c.Search != "" {
		m.term = m.fold.String(c.Search)
	}
	return m
}

func (m *matcher) match(cand Candidate) bool {
	c := m.c
	if c.Gender != GenderAny && cand.Gender != c.Gender {
		return false
	}
	if !c.Age.Contains(cand.Age) || !c.Height.Contains(cand.Height) {
		return false
	}
	if c.Education != "" && cand.Education != c.Education {
		return false
	}
	if c.Income != "" && cand.Income != c.Income {
		return false
	}
	if c.Location != "" && cand.Location != c.Location {
		return false
	}
	if m.term == "" {
		return true
	}
	return m.contains(cand.Name) || m.contains(cand.Occupation) || m.contains(cand.Description)
}

func (m *matcher) contains(field string) bool {
	return strings.Contains(m.fold.String(field), m.term)
}
