package report

import (
	"strconv"

	"github.com/MladenSU/color-mtr/config"

	"github.com/jedib0t/go-pretty/v6/text"
)

// Severity is the display classification of a metric value
type Severity int

const (
	SeverityNormal   Severity = iota // green
	SeverityWarn                     // yellow
	SeverityCritical                 // red
)

func (s Severity) String() string {
	switch s {
	case SeverityWarn:
		return "warn"
	case SeverityCritical:
		return "critical"
	default:
		return "normal"
	}
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Colors returns the terminal colors for the severity
func (s Severity) Colors() text.Colors {
	switch s {
	case SeverityWarn:
		return text.Colors{text.FgYellow}
	case SeverityCritical:
		return text.Colors{text.FgRed}
	default:
		return text.Colors{text.FgGreen}
	}
}

// ClassifiedValue is a metric tagged with its severity. Value is never modified.
type ClassifiedValue struct {
	Value    float64
	Severity Severity
}

// String formats the value with the shortest exact representation, without rounding
func (v ClassifiedValue) String() string {
	return strconv.FormatFloat(v.Value, 'f', -1, 64)
}

// Classify compares value against limits; both boundaries are inclusive.
func Classify(value float64, limits config.Limits) Severity {
	if value >= limits.Crit {
		return SeverityCritical
	}
	if value >= limits.Warn {
		return SeverityWarn
	}
	return SeverityNormal
}

// Classifier holds the resolved loss and latency threshold sets for one run
type Classifier struct {
	Loss    config.Limits
	Latency config.Limits
}

// NewClassifier resolves thresholds from cfg, falling back to the metric defaults
func NewClassifier(cfg *config.Config) Classifier {
	return Classifier{
		Loss:    cfg.LossLimits(),
		Latency: cfg.LatencyLimits(),
	}
}

// DefaultClassifier uses the built-in thresholds
func DefaultClassifier() Classifier {
	return Classifier{
		Loss:    config.DefaultLossLimits,
		Latency: config.DefaultLatencyLimits,
	}
}

func (c Classifier) ClassifyLoss(value float64) ClassifiedValue {
	return ClassifiedValue{Value: value, Severity: Classify(value, c.Loss)}
}

func (c Classifier) ClassifyLatency(value float64) ClassifiedValue {
	return ClassifiedValue{Value: value, Severity: Classify(value, c.Latency)}
}

// ClassifyField classifies f if its column is a loss or latency column.
// The second result is false for every other column.
func (c Classifier) ClassifyField(f Field) (ClassifiedValue, bool) {
	switch {
	case IsLossColumn(f.Column):
		return c.ClassifyLoss(f.Number), true
	case IsLatencyColumn(f.Column):
		return c.ClassifyLatency(f.Number), true
	default:
		return ClassifiedValue{}, false
	}
}
