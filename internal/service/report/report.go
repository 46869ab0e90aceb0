package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// ErrMalformed marks output that is not a well-formed mtr JSON report
var ErrMalformed = errors.New("malformed mtr report")

// Report is the "report" object of mtr's JSON output
type Report struct {
	Mtr  Metadata `json:"mtr"`
	Hubs []Hop    `json:"hubs"`
}

// Metadata describes the run. mtr versions differ on whether numbers are quoted.
type Metadata struct {
	Src        FlexString `json:"src"`
	Dst        FlexString `json:"dst"`
	Tos        FlexString `json:"tos"`
	Tests      FlexString `json:"tests"`
	Psize      FlexString `json:"psize"`
	Bitpattern FlexString `json:"bitpattern"`
}

// FlexString accepts a JSON string, number or boolean and keeps its text
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*s = ""
	case b[0] == '"':
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = FlexString(str)
	case b[0] == '{' || b[0] == '[':
		return fmt.Errorf("%w: expected scalar, got %s", ErrMalformed, b)
	default:
		*s = FlexString(b)
	}
	return nil
}

// Or returns s, or def when s is empty
func (s FlexString) Or(def string) string {
	if s == "" {
		return def
	}
	return string(s)
}

// Field is a single column of a hop, in the order mtr emitted it
type Field struct {
	Column  string
	Raw     string
	Number  float64
	Numeric bool
}

// Hop is one row of the report. Field order follows the JSON key order.
type Hop struct {
	Fields []Field
}

// Columns returns the column names in order
func (h Hop) Columns() []string {
	return lo.Map(h.Fields, func(f Field, _ int) string { return f.Column })
}

// Get returns the field for column
func (h Hop) Get(column string) (Field, bool) {
	return lo.Find(h.Fields, func(f Field) bool { return f.Column == column })
}

// Host returns the hop's host, or "???" as mtr prints for silent hops
func (h Hop) Host() string {
	if f, ok := h.Get(ColumnHost); ok && f.Raw != "" {
		return f.Raw
	}
	return "???"
}

func (h *Hop) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: hub is not an object", ErrMalformed)
	}

	h.Fields = nil
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: unexpected token %v in hub", ErrMalformed, tok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return err
		}
		field, err := newField(key, value)
		if err != nil {
			return err
		}
		h.Fields = append(h.Fields, field)
	}
	_, err = dec.Token()
	return err
}

func newField(column string, value any) (Field, error) {
	f := Field{Column: column}
	switch v := value.(type) {
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return f, fmt.Errorf("%w: column %s: %v", ErrMalformed, column, err)
		}
		f.Raw, f.Number, f.Numeric = v.String(), n, true
	case string:
		f.Raw = v
		if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			f.Number, f.Numeric = n, true
		}
	case bool:
		f.Raw = strconv.FormatBool(v)
	case nil:
	default:
		return f, fmt.Errorf("%w: column %s holds a nested value", ErrMalformed, column)
	}
	return f, nil
}

// Parse decodes mtr -j output and validates the hub schema
func Parse(data []byte) (*Report, error) {
	var envelope struct {
		Report *Report `json:"report"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		if errors.Is(err, ErrMalformed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if envelope.Report == nil {
		return nil, fmt.Errorf("%w: missing \"report\" object", ErrMalformed)
	}
	if err := envelope.Report.Validate(); err != nil {
		return nil, err
	}
	return envelope.Report, nil
}

// Validate checks every hub against the known column set and the first hub's layout
func (r *Report) Validate() error {
	if len(r.Hubs) == 0 {
		return nil
	}
	header := r.Hubs[0].Columns()
	for i, hop := range r.Hubs {
		columns := hop.Columns()
		if !slices.Equal(columns, header) {
			return fmt.Errorf("%w: hub %d has columns %v, want %v", ErrMalformed, i+1, columns, header)
		}
		for _, f := range hop.Fields {
			if !IsKnownColumn(f.Column) {
				return fmt.Errorf("%w: hub %d has unknown column %q", ErrMalformed, i+1, f.Column)
			}
			if IsNumericColumn(f.Column) && !f.Numeric {
				return fmt.Errorf("%w: hub %d column %s is not numeric: %q", ErrMalformed, i+1, f.Column, f.Raw)
			}
		}
	}
	return nil
}

// Headers returns the column names of the first hub
func (r *Report) Headers() []string {
	if len(r.Hubs) == 0 {
		return nil
	}
	return r.Hubs[0].Columns()
}
