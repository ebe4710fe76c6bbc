package service

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"cscportal/api/internal/models"
)

// Admin forms post every field as text. The helpers below turn those fields
// into typed values and record a validation problem instead of failing.

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseTime(v *models.Validator, field, raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	v.Add(field, "must be a date (YYYY-MM-DD or RFC 3339)")
	return time.Time{}, false
}

func parseFloat(v *models.Validator, field, raw string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		v.Add(field, "must be a number")
		return 0, false
	}
	return f, true
}

func parseBool(v *models.Validator, field, raw string) (bool, bool) {
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		v.Add(field, "must be true or false")
		return false, false
	}
	return b, true
}

// parseList accepts a JSON array of strings or a comma separated list.
func parseList(v *models.Validator, field, raw string) ([]string, bool) {
	raw = strings.TrimSpace(raw)
	out := []string{}
	if raw == "" {
		return out, true
	}
	if strings.HasPrefix(raw, "[") {
		var items []string
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			v.Add(field, "must be a JSON array of strings")
			return nil, false
		}
		for _, item := range items {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out, true
	}
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out, true
}
