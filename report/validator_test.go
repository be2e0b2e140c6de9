package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payload(calls, kpPlus, kp, rejections, inadequate any) map[string]any {
	return map[string]any{
		"calls_count": calls,
		"kp_plus":     kpPlus,
		"kp":          kp,
		"rejections":  rejections,
		"inadequate":  inadequate,
	}
}

func TestValidateAccepts(t *testing.T) {
	f, err := Validate(payload(10, 3, 2, 4, 1))
	require.NoError(t, err)
	assert.Equal(t, Fields{CallsCount: 10, KPPlus: 3, KP: 2, Rejections: 4, Inadequate: 1}, f)

	// Resultative may equal the total.
	_, err = Validate(payload(5, 3, 2, 0, 0))
	assert.NoError(t, err)
}

func TestValidateNumericEncodings(t *testing.T) {
	// encoding/json decodes numbers as float64.
	f, err := Validate(payload(float64(10), float64(3), float64(2), float64(4), float64(1)))
	require.NoError(t, err)
	assert.Equal(t, 10, f.CallsCount)

	// A UseNumber decoder yields json.Number.
	f, err = Validate(payload(json.Number("10"), json.Number("3"), json.Number("2"), json.Number("4"), json.Number("1")))
	require.NoError(t, err)
	assert.Equal(t, 3, f.KPPlus)

	// The Mini App form posts numeric strings.
	f, err = Validate(payload("10", "3", "2", "4", " 1 "))
	require.NoError(t, err)
	assert.Equal(t, 1, f.Inadequate)
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		kind    Kind
		field   string
	}{
		{
			name:    "missing field",
			payload: map[string]any{"calls_count": 10, "kp_plus": 3, "kp": 2, "rejections": 4},
			kind:    KindMissingField,
			field:   "inadequate",
		},
		{
			name:    "invalid type",
			payload: payload(10, "three", 2, 4, 1),
			kind:    KindInvalidType,
			field:   "kp_plus",
		},
		{
			name:    "fractional value",
			payload: payload(10.5, 3, 2, 4, 1),
			kind:    KindInvalidType,
			field:   "calls_count",
		},
		{
			name:    "negative value",
			payload: payload(10, 3, -2, 4, 1),
			kind:    KindNegativeValue,
			field:   "kp",
		},
		{
			name:    "zero calls",
			payload: payload(0, 0, 0, 0, 0),
			kind:    KindZeroCalls,
			field:   "calls_count",
		},
		{
			name:    "resultative exceeds total",
			payload: payload(5, 4, 3, 0, 0),
			kind:    KindResultativeExceedsTotal,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Validate(tc.payload)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.kind, vErr.Kind)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
}

func TestValidateFirstFailureWins(t *testing.T) {
	// A missing field outranks a type failure elsewhere in the payload.
	_, err := Validate(map[string]any{
		"calls_count": "garbage",
		"kp_plus":     3,
		"kp":          2,
		"rejections":  4,
	})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, KindMissingField, vErr.Kind)
	assert.Equal(t, "inadequate", vErr.Field)

	// All types are checked before any sign check.
	_, err = Validate(payload(-1, "x", 2, 4, 1))
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, KindInvalidType, vErr.Kind)
}
