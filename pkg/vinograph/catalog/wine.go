// Package catalog holds wine metadata: the tolerant JSONL loader, accent
// folded search, per-wine review counts and the winery region map.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Wine is one catalog record. Only ID is required; every other field has a
// usable zero value.
type Wine struct {
	ID      WineID     `json:"id"`
	Name    string     `json:"name,omitempty"`
	Winery  string     `json:"winery,omitempty"`
	Country string     `json:"country,omitempty"`
	Region  StringList `json:"region,omitempty"`
	Grapes  StringList `json:"grapes,omitempty"`
	Style   FlexString `json:"wine_style,omitempty"`
	Alcohol FlexString `json:"alcohol,omitempty"`
	Rating  *float64   `json:"rating,omitempty"`

	// Structural scores on a 0-100 scale; nil when the source omits them.
	Body      *float64 `json:"body_score,omitempty"`
	Tannin    *float64 `json:"tannin_score,omitempty"`
	Sweetness *float64 `json:"sweetness_score,omitempty"`
	Acidity   *float64 `json:"acidity_score,omitempty"`

	Vintage *Vintage `json:"vintage,omitempty"`
}

// Vintage carries the source's own review statistics.
type Vintage struct {
	ReviewsCount int `json:"reviews_count"`
}

// ReviewsCount returns the source-reported review count, 0 when absent.
func (w Wine) ReviewsCount() int {
	if w.Vintage == nil {
		return 0
	}
	return w.Vintage.ReviewsCount
}

// RatingValue returns the rating or 0.
func (w Wine) RatingValue() float64 {
	if w.Rating == nil {
		return 0
	}
	return *w.Rating
}

// CountryOrUnknown returns the country, or "Unknown" when it is blank.
func (w Wine) CountryOrUnknown() string {
	if c := strings.TrimSpace(w.Country); c != "" {
		return c
	}
	return "Unknown"
}

// WineID accepts both JSON strings and JSON numbers.
type WineID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *WineID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = WineID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("wine id: %w", err)
	}
	*id = WineID(n.String())
	return nil
}

// MarshalJSON writes numeric ids as numbers and everything else as strings.
func (id WineID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id WineID) String() string { return string(id) }

// StringList accepts a JSON string, a list of strings, or null.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*l = nil
		return nil
	case len(data) > 0 && data[0] == '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		out := make([]string, 0, len(raw))
		for _, r := range raw {
			var s FlexString
			if err := s.UnmarshalJSON(r); err != nil {
				return err
			}
			if s != "" {
				out = append(out, string(s))
			}
		}
		*l = out
		return nil
	default:
		var s FlexString
		if err := s.UnmarshalJSON(data); err != nil {
			return err
		}
		if s == "" {
			*l = nil
		} else {
			*l = StringList{string(s)}
		}
		return nil
	}
}

// Join returns the items separated by sep.
func (l StringList) Join(sep string) string { return strings.Join(l, sep) }

// FlexString accepts a JSON string, number, bool or null.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(strings.TrimSpace(v))
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case float64:
		*s = FlexString(strconv.FormatFloat(t, 'f', -1, 64))
	case bool:
		*s = FlexString(strconv.FormatBool(t))
	default:
		return fmt.Errorf("unsupported value %s", data)
	}
	return nil
}
