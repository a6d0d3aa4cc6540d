package catalog

import (
	"fmt"
	"strings"
	"time"

	"assembly-directory.backend/pkg/apiclient"
	"assembly-directory.backend/pkg/utils"
)

const dayLayout = "2006-01-02"

// Category restricts the search text to one member field
type Category string

const (
	CategoryAll          Category = ""
	CategoryName         Category = "name"
	CategoryPartyName    Category = "partyName"
	CategoryConstituency Category = "constituency"
	CategorySessionName  Category = "sessionName"
	CategorySessionDate  Category = "sessionDate"
)

var categories = []Category{
	CategoryName, CategoryPartyName, CategoryConstituency, CategorySessionName, CategorySessionDate,
}

// Categories lists the selectable search fields
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// ParseCategory accepts a field name case-insensitively; "" and "all" select every field.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return CategoryAll, nil
	}
	for _, c := range categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return CategoryAll, fmt.Errorf("unknown search category %q", s)
}

// Criteria is the full client-side filter state
type Criteria struct {
	SessionName string
	SessionDate string
	SearchText  string
	Category    Category
}

// IsZero reports whether no filter is active
func (c Criteria) IsZero() bool {
	return c.SessionName == "" && strings.TrimSpace(c.SessionDate) == "" &&
		strings.TrimSpace(c.SearchText) == ""
}

// Day formats t as its UTC calendar day
func Day(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dayLayout)
}

// NormalizeDay reduces a date or timestamp string to its UTC calendar day.
// Unparseable input is returned trimmed.
func NormalizeDay(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if t, err := utils.ParseDate(s); err == nil {
		return Day(t)
	}
	return s
}

// Apply returns the members matching c in their input order. It does not modify members.
func Apply(members []apiclient.Member, c Criteria) []apiclient.Member {
	day := NormalizeDay(c.SessionDate)
	needle := strings.ToLower(strings.TrimSpace(c.SearchText))

	out := make([]apiclient.Member, 0, len(members))
	for _, m := range members {
		if c.SessionName != "" && m.SessionName != c.SessionName {
			continue
		}
		if day != "" && Day(m.SessionDate) != day {
			continue
		}
		if needle != "" && !matches(m, needle, c.Category) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func matches(m apiclient.Member, needle string, category Category) bool {
	for _, field := range searchFields(m, category) {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func searchFields(m apiclient.Member, category Category) []string {
	switch category {
	case CategoryName:
		return []string{m.Name}
	case CategoryPartyName:
		return []string{m.PartyName}
	case CategoryConstituency:
		return []string{m.Constituency}
	case CategorySessionName:
		return []string{m.SessionName}
	case CategorySessionDate:
		return []string{Day(m.SessionDate)}
	default:
		return []string{m.Name, m.PartyName, m.Constituency, m.SessionName, Day(m.SessionDate), m.SpeechGiven}
	}
}
