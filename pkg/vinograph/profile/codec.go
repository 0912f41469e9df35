package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/cognicore/vinograph/pkg/vinograph/internalerr"
)

// Marshal encodes p as an indented JSON object with sorted keys and every
// numeric array on a single line:
//
//	{
//	    "cherry": {
//	        "x": [0.1, 0.35],
//	        "w": [0.5, 0.5],
//	        "count": 2
//	    }
//	}
func Marshal(p Profile) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes the Marshal form of p to w.
func Encode(w io.Writer, p Profile) error {
	var buf bytes.Buffer
	if len(p) == 0 {
		buf.WriteString("{}")
	} else {
		buf.WriteString("{\n")
		keys := p.Keys()
		for i, k := range keys {
			s := p[k]
			if len(s.X) != len(s.W) {
				return fmt.Errorf("encode %q: %d positions vs %d weights: %w", k, len(s.X), len(s.W), internalerr.ErrMalformedInput)
			}
			name, err := json.Marshal(k)
			if err != nil {
				return fmt.Errorf("encode key %q: %w", k, err)
			}
			buf.WriteString("    ")
			buf.Write(name)
			buf.WriteString(": {\n")
			buf.WriteString(`        "x": `)
			if err := writeFloats(&buf, s.X); err != nil {
				return fmt.Errorf("encode %q: %w", k, err)
			}
			buf.WriteString(",\n")
			buf.WriteString(`        "w": `)
			if err := writeFloats(&buf, s.W); err != nil {
				return fmt.Errorf("encode %q: %w", k, err)
			}
			buf.WriteString(",\n")
			buf.WriteString(`        "count": `)
			buf.WriteString(strconv.Itoa(s.Count))
			buf.WriteString("\n    }")
			if i < len(keys)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteByte('}')
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func writeFloats(buf *bytes.Buffer, vs []float64) error {
	buf.WriteByte('[')
	for i, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite value %v: %w", v, internalerr.ErrMalformedInput)
		}
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(formatFloat(v))
	}
	buf.WriteByte(']')
	return nil
}

// formatFloat prints the shortest form that round-trips, always with a
// decimal point so integral weights read as 1.0 rather than 1.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !bytes.ContainsAny([]byte(s), ".eE") {
		s += ".0"
	}
	return s
}

// Unmarshal decodes a profile in any JSON layout. A series without "count"
// gets len(x); a series whose x and w lengths differ is malformed.
func Unmarshal(data []byte) (Profile, error) {
	var raw map[string]struct {
		X     []float64 `json:"x"`
		W     []float64 `json:"w"`
		Count *int      `json:"count"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode profile: %v: %w", err, internalerr.ErrMalformedInput)
	}

	p := make(Profile, len(raw))
	for k, r := range raw {
		if len(r.X) != len(r.W) {
			return nil, fmt.Errorf("decode profile %q: %d positions vs %d weights: %w", k, len(r.X), len(r.W), internalerr.ErrMalformedInput)
		}
		count := len(r.X)
		if r.Count != nil {
			count = *r.Count
		}
		p[k] = Series{X: r.X, W: r.W, Count: count}
	}
	return p, nil
}

// Decode reads a whole profile from r.
func Decode(r io.Reader) (Profile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read profile: %v: %w", err, internalerr.ErrIOFailure)
	}
	return Unmarshal(data)
}
