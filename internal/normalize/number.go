package normalize

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// number accepts whatever the backend puts in a numeric field. Numbers and numeric
// strings keep their value; null, booleans, objects and anything unparseable become 0.
type number float64

func (n *number) UnmarshalJSON(data []byte) error {
	*n = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			*n = number(v)
		}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		if v, err := strconv.ParseFloat(string(data), 64); err == nil {
			*n = number(v)
		}
	}
	return nil
}

func (n number) float() float64 {
	return float64(n)
}

// count rounds to the nearest whole number; negative counts are clamped to 0
func (n number) count() int {
	v := math.Round(float64(n))
	if v < 0 {
		return 0
	}
	return int(v)
}

// text accepts strings and renders numbers as their literal; everything else is empty
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	*t = ""
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			*t = text(s)
		}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		*t = text(data)
	}
	return nil
}

// optional returns nil for an absent or empty value
func (t *text) optional() *string {
	if t == nil {
		return nil
	}
	s := strings.TrimSpace(string(*t))
	if s == "" {
		return nil
	}
	return &s
}
