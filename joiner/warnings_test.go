package joiner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erraggy/oascompose/internal/severity"
)

func TestJoinWarningConstructors(t *testing.T) {
	tests := []struct {
		name     string
		warning  *JoinWarning
		category WarningCategory
		path     string
		contains string
		sev      severity.Severity
	}{
		{
			name:     "merged",
			warning:  NewOperationMergedWarning("/pets/{id}", "GET", "a.yaml", "b.yaml"),
			category: WarnOperationMerged,
			path:     "paths./pets/{id}.get",
			contains: "merged: a.yaml + b.yaml",
			sev:      severity.SeverityInfo,
		},
		{
			name:     "replaced",
			warning:  NewOperationReplacedWarning("/pets", "POST", "a.yaml", "b.yaml"),
			category: WarnOperationReplaced,
			path:     "paths./pets.post",
			contains: "replaced by b.yaml",
			sev:      severity.SeverityWarning,
		},
		{
			name:     "tag description",
			warning:  NewTagDescriptionWarning("pet", "Pets", "Animals", "b.yaml"),
			category: WarnTagDescription,
			path:     "tags.pet",
			contains: `keeping "Pets"`,
			sev:      severity.SeverityWarning,
		},
		{
			name:     "schema dedup",
			warning:  NewSchemaDedupWarning("User", "schemas", "b.yaml"),
			category: WarnSchemaDeduplicated,
			path:     "components.schemas.User",
			contains: "identical",
			sev:      severity.SeverityInfo,
		},
		{
			name:     "metadata ignored",
			warning:  NewMetadataOverrideWarning("info", "Shop 1", "Billing 2", "b.yaml", false),
			category: WarnMetadataOverride,
			path:     "info",
			contains: "ignored (kept 'Shop 1')",
			sev:      severity.SeverityInfo,
		},
		{
			name:     "metadata replaced",
			warning:  NewMetadataOverrideWarning("info", "Shop 1", "Billing 2", "b.yaml", true),
			category: WarnMetadataOverride,
			path:     "info",
			contains: "replaced by 'Billing 2'",
			sev:      severity.SeverityInfo,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, tt.warning.Category)
			assert.Equal(t, tt.path, tt.warning.Location())
			assert.Contains(t, tt.warning.String(), tt.contains)
			assert.Equal(t, tt.sev, tt.warning.Severity)
		})
	}
}

func TestGenericSourceName(t *testing.T) {
	assert.True(t, IsGenericSourceName(""))
	assert.True(t, IsGenericSourceName("ParseBytes"))
	assert.True(t, IsGenericSourceName("ParseReader.yaml"))
	assert.False(t, IsGenericSourceName("users.yaml"))

	w := NewGenericSourceNameWarning("", 3)
	assert.Contains(t, w.Message, "source 3 has no name")
	assert.Empty(t, w.Location())
	w = NewGenericSourceNameWarning("ParseBytes", 1)
	assert.Equal(t, "ParseBytes", w.Location())
}

func TestJoinWarningsFilters(t *testing.T) {
	ws := JoinWarnings{
		NewOperationMergedWarning("/a", "GET", "x", "y"),
		NewOperationReplacedWarning("/b", "GET", "x", "y"),
		NewSchemaDedupWarning("User", "schemas", "y"),
	}
	assert.Len(t, ws.ByCategory(WarnOperationMerged), 1)
	assert.Len(t, ws.BySeverity(severity.SeverityInfo), 2)
	assert.Len(t, ws.BySeverity(severity.SeverityError), 0)
	assert.Len(t, ws.Strings(), 3)
	assert.Contains(t, ws.Summary(), "3 warning(s):")
	assert.Empty(t, JoinWarnings(nil).Summary())
}
