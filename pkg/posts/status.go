package posts

import (
	"fmt"
	"math"
	"time"
)

type Status string

const (
	StatusNew Status = "new"
	StatusOld Status = "old"
)

// FreshDays is the largest age, in whole days, still classified as new.
const FreshDays = 7

// Clock supplies the current instant. Status depends on it, so it is always
// passed in rather than read from time.Now deep inside the package.
type Clock func() time.Time

var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02"}

type ParseError struct {
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse timestamp %q: %v", e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func ParseTimestamp(s string) (time.Time, error) {
	var err error
	for _, layout := range timestampLayouts {
		var t time.Time
		t, err = time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, &ParseError{Value: s, Err: err}
}

// AgeInDays is the number of whole days elapsed between created and now,
// floor of elapsed hours / 24.
func AgeInDays(created, now time.Time) int {
	return int(math.Floor(now.Sub(created).Hours() / 24))
}

func Classify(created, now time.Time) Status {
	if AgeInDays(created, now) <= FreshDays {
		return StatusNew
	}

	return StatusOld
}

func ClassifyTimestamp(ts string, now time.Time) (Status, error) {
	created, err := ParseTimestamp(ts)
	if err != nil {
		return "", err
	}

	return Classify(created, now), nil
}

// TimeAgo renders the elapsed time the way the feed shows it.
func TimeAgo(created, now time.Time) string {
	hours := int(math.Floor(now.Sub(created).Hours()))
	switch {
	case hours < 1:
		return "just now"
	case hours == 1:
		return "1 hour ago"
	case hours < 24:
		return fmt.Sprintf("%d hours ago", hours)
	case hours < 48:
		return "1 day ago"
	}

	return fmt.Sprintf("%d days ago", hours/24)
}
