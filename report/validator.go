// Package report validates and persists daily sales-call reports.
package report

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RequiredFields are the report payload keys, in validation order.
var RequiredFields = []string{"calls_count", "kp_plus", "kp", "rejections", "inadequate"}

// Kind identifies a validation failure.
type Kind int

const (
	KindMissingField Kind = iota
	KindInvalidType
	KindNegativeValue
	KindZeroCalls
	KindResultativeExceedsTotal
)

// ValidationError is a client-correctable rejection of a report
// payload. Its message is surfaced to the submitter verbatim.
type ValidationError struct {
	Kind  Kind
	Field string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindMissingField:
		return "missing field: " + e.Field
	case KindInvalidType:
		return "all fields must contain whole numbers"
	case KindNegativeValue:
		return "all values must be non-negative"
	case KindZeroCalls:
		return "calls count cannot be zero"
	case KindResultativeExceedsTotal:
		return "resultative calls exceed total calls"
	}
	return "invalid report"
}

// Fields is a normalized, validated report payload.
type Fields struct {
	CallsCount int
	KPPlus     int
	KP         int
	Rejections int
	Inadequate int
}

// Validate checks a raw payload and returns the normalized field
// values. Checks run in a fixed order and the first failure wins:
// presence, integer-ness, non-negativity, calls_count > 0, and finally
// kp_plus + kp <= calls_count. Pure: no side effects.
func Validate(payload map[string]any) (Fields, error) {
	if err := checkRequired(payload); err != nil {
		return Fields{}, err
	}

	values := make(map[string]int, len(RequiredFields))
	for _, name := range RequiredFields {
		n, ok := toInt(payload[name])
		if !ok {
			return Fields{}, &ValidationError{Kind: KindInvalidType, Field: name}
		}
		values[name] = n
	}

	for _, name := range RequiredFields {
		if values[name] < 0 {
			return Fields{}, &ValidationError{Kind: KindNegativeValue, Field: name}
		}
	}

	f := Fields{
		CallsCount: values["calls_count"],
		KPPlus:     values["kp_plus"],
		KP:         values["kp"],
		Rejections: values["rejections"],
		Inadequate: values["inadequate"],
	}
	if f.CallsCount == 0 {
		return Fields{}, &ValidationError{Kind: KindZeroCalls, Field: "calls_count"}
	}
	if f.KPPlus+f.KP > f.CallsCount {
		return Fields{}, &ValidationError{Kind: KindResultativeExceedsTotal}
	}
	return f, nil
}

// checkRequired verifies every required key is present, in order.
func checkRequired(payload map[string]any) error {
	for _, name := range RequiredFields {
		if _, ok := payload[name]; !ok {
			return &ValidationError{Kind: KindMissingField, Field: name}
		}
	}
	return nil
}

// toInt accepts the integer encodings a JSON payload can carry: float64
// from encoding/json, json.Number from a UseNumber decoder, numeric
// strings from the Mini App form, and native ints. Fractional values
// are rejected.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if math.Trunc(n) != n || math.Abs(n) > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}
