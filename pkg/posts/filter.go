package posts

import (
	"fmt"
	"strings"
	"time"
)

// All disables a category or status selector.
const All = "all"

type Filter struct {
	Query      string
	CategoryID string
	Status     string
}

// ParseStatusSelector accepts "", "all", "new" and "old".
func ParseStatusSelector(s string) (string, error) {
	switch s {
	case "", All:
		return All, nil
	case string(StatusNew), string(StatusOld):
		return s, nil
	}

	return "", fmt.Errorf("unknown status %q", s)
}

func (f Filter) Match(p *Post, now time.Time) bool {
	return f.matchesQuery(p) && f.matchesCategory(p) && f.matchesStatus(p, now)
}

func (f Filter) matchesQuery(p *Post) bool {
	if f.Query == "" {
		return true
	}

	q := strings.ToLower(f.Query)
	if strings.Contains(strings.ToLower(p.Content), q) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Location.Address), q) {
		return true
	}
	for _, tag := range p.Hashtags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}

	return false
}

func (f Filter) matchesCategory(p *Post) bool {
	if f.CategoryID == "" || f.CategoryID == All {
		return true
	}

	return p.Category != nil && p.Category.ID == f.CategoryID
}

func (f Filter) matchesStatus(p *Post, now time.Time) bool {
	if f.Status == "" || f.Status == All {
		return true
	}

	return string(Classify(p.Created, now)) == f.Status
}

// Apply returns the posts matching f in their original order.
func Apply(posts []*Post, f Filter, now time.Time) []*Post {
	res := make([]*Post, 0, len(posts))
	for _, p := range posts {
		if f.Match(p, now) {
			res = append(res, p)
		}
	}

	return res
}
