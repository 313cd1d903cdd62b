// Package linkage resolves loosely formatted legislator names to
// politician rows. Matching is deliberately shallow: exact name+state
// first, then substring containment, first row wins. The Candidates
// count on a match lets callers surface ambiguity instead of silently
// misattributing records.
package linkage

import (
	"strings"

	"github.com/civicscope/civicscope/internal/database"
)

// SplitName normalizes a free-text name into a (first, last) pair.
// Accepts "Last, First" and "First Last"; punctuation is stripped. A
// single-token name is treated as a last name. Both orderings of a
// two-token name produce identical output.
func SplitName(raw string) (first, last string) {
	raw = strings.TrimSpace(raw)

	if before, after, found := strings.Cut(raw, ","); found {
		return cleanPart(after), cleanPart(before)
	}

	fields := strings.Fields(cleanPart(raw))
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return "", fields[0]
	default:
		return strings.Join(fields[:len(fields)-1], " "), fields[len(fields)-1]
	}
}

// cleanPart strips everything except letters, digits and spaces.
func cleanPart(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == ' ' || r == '\t':
			b.WriteRune(' ')
		case r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9'):
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Match is the outcome of a linkage attempt. Candidates counts every
// row that qualified; anything above 1 means the winner was arbitrary.
type Match struct {
	Politician *database.Politician
	Candidates int
	Exact      bool
}

// Matcher links names to politician rows in one database.
type Matcher struct {
	db *database.DB
}

// NewMatcher creates a Matcher backed by db.
func NewMatcher(db *database.DB) *Matcher {
	return &Matcher{db: db}
}

// Match finds the best politician for a normalized (first, last) pair.
// With a state, an exact first+last+state match is tried before the
// substring fallback. An empty name yields an empty match.
func (m *Matcher) Match(first, last, state string) (*Match, error) {
	if first == "" && last == "" {
		return &Match{}, nil
	}

	if state != "" && first != "" && last != "" {
		p, err := m.db.FindPoliticianExact(first, last, state)
		if err != nil {
			return nil, err
		}
		if p != nil {
			return &Match{Politician: p, Candidates: 1, Exact: true}, nil
		}
	}

	candidates, err := m.db.FindPoliticiansByNameContains(first, last)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return &Match{}, nil
	}
	return &Match{Politician: &candidates[0], Candidates: len(candidates)}, nil
}

// MatchName is Match over a raw free-text name.
func (m *Matcher) MatchName(raw, state string) (*Match, error) {
	first, last := SplitName(raw)
	return m.Match(first, last, state)
}
