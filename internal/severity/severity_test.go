package severity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityString(t *testing.T) {
	tests := []struct {
		severity Severity
		expected string
	}{
		{SeverityError, "error"},
		{SeverityWarning, "warning"},
		{SeverityInfo, "info"},
		{Severity(-1), "unknown"},
		{Severity(999), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.severity.String())
	}
}

func TestSeverityRank(t *testing.T) {
	assert.Less(t, SeverityInfo.Rank(), SeverityWarning.Rank())
	assert.Less(t, SeverityWarning.Rank(), SeverityError.Rank())
}

func TestParse(t *testing.T) {
	for in, want := range map[string]Severity{
		"error":    SeverityError,
		" Warning": SeverityWarning,
		"warn":     SeverityWarning,
		"INFO":     SeverityInfo,
	} {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := Parse("critical")
	assert.ErrorContains(t, err, "unknown level")
}

func TestSeverityText(t *testing.T) {
	type report struct {
		Level Severity `json:"level"`
	}
	data, err := json.Marshal(report{Level: SeverityWarning})
	require.NoError(t, err)
	assert.JSONEq(t, `{"level":"warning"}`, string(data))

	var back report
	require.NoError(t, json.Unmarshal([]byte(`{"level":"info"}`), &back))
	assert.Equal(t, SeverityInfo, back.Level)

	assert.Error(t, json.Unmarshal([]byte(`{"level":"fatal"}`), &back))
}
