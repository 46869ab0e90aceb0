package report

// Summary is the JSON view of a classified report
type Summary struct {
	Start string       `json:"start"`
	End   string       `json:"end"`
	Mtr   Metadata     `json:"mtr"`
	Hubs  []HopSummary `json:"hubs"`
}

type HopSummary struct {
	Host   string         `json:"host"`
	Fields []FieldSummary `json:"fields"`
}

// FieldSummary carries a severity only for loss and latency columns
type FieldSummary struct {
	Column   string    `json:"column"`
	Value    any       `json:"value"`
	Severity *Severity `json:"severity,omitempty"`
}

// Summarize classifies every hop of rep. Hop and field order are preserved.
func Summarize(rep *Report, classifier Classifier, start, end string) Summary {
	s := Summary{
		Start: start,
		End:   end,
		Mtr:   rep.Mtr,
		Hubs:  make([]HopSummary, 0, len(rep.Hubs)),
	}
	for _, hop := range rep.Hubs {
		hs := HopSummary{
			Host:   hop.Host(),
			Fields: make([]FieldSummary, 0, len(hop.Fields)),
		}
		for _, f := range hop.Fields {
			fs := FieldSummary{Column: f.Column, Value: f.Raw}
			if f.Numeric && IsNumericColumn(f.Column) {
				fs.Value = f.Number
			}
			if v, ok := classifier.ClassifyField(f); ok {
				severity := v.Severity
				fs.Severity = &severity
			}
			hs.Fields = append(hs.Fields, fs)
		}
		s.Hubs = append(s.Hubs, hs)
	}
	return s
}
