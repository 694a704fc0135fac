package joiner

import (
	"fmt"
	"strings"

	"github.com/erraggy/oascompose/internal/severity"
)

// WarningCategory identifies the type of warning.
type WarningCategory string

const (
	// WarnOperationMerged indicates a duplicate (path, method) was merged.
	WarnOperationMerged WarningCategory = "operation_merged"
	// WarnOperationReplaced indicates a duplicate (path, method) overwrote the earlier one.
	WarnOperationReplaced WarningCategory = "operation_replaced"
	// WarnTagDescription indicates two tags shared a name but differed in description.
	WarnTagDescription WarningCategory = "tag_description"
	// WarnSchemaDeduplicated indicates an identical schema was registered again.
	WarnSchemaDeduplicated WarningCategory = "schema_deduplicated"
	// WarnMetadataOverride indicates info metadata was replaced or ignored.
	WarnMetadataOverride WarningCategory = "metadata_override"
	// WarnGenericSourceName indicates a source has a generic or empty name,
	// which makes conflict reports less useful.
	WarnGenericSourceName WarningCategory = "generic_source_name"
)

// JoinWarning is a non-fatal event recorded while joining documents.
type JoinWarning struct {
	// Category identifies the type of warning.
	Category WarningCategory
	// Path is the dotted location of the affected element.
	Path string
	// Message is a human-readable description.
	Message string
	// SourceFile names the source that triggered the warning.
	SourceFile string
	// Severity indicates warning severity.
	Severity severity.Severity
	// Context provides additional details.
	Context map[string]any
}

// String returns the warning message.
func (w *JoinWarning) String() string {
	return w.Message
}

// Location returns the element path, falling back to the source name.
func (w *JoinWarning) Location() string {
	if w.Path != "" {
		return w.Path
	}
	return w.SourceFile
}

// NewOperationMergedWarning records a (path, method) merge.
func NewOperationMergedWarning(path, method, firstSource, secondSource string) *JoinWarning {
	return &JoinWarning{
		Category:   WarnOperationMerged,
		Path:       fmt.Sprintf("paths.%s.%s", path, strings.ToLower(method)),
		Message:    fmt.Sprintf("operation %s %s merged: %s + %s", method, path, firstSource, secondSource),
		SourceFile: secondSource,
		Severity:   severity.SeverityInfo,
		Context: map[string]any{
			"first_file":  firstSource,
			"second_file": secondSource,
		},
	}
}

// NewOperationReplacedWarning records a (path, method) overwrite.
func NewOperationReplacedWarning(path, method, firstSource, secondSource string) *JoinWarning {
	return &JoinWarning{
		Category:   WarnOperationReplaced,
		Path:       fmt.Sprintf("paths.%s.%s", path, strings.ToLower(method)),
		Message:    fmt.Sprintf("operation %s %s from %s replaced by %s", method, path, firstSource, secondSource),
		SourceFile: secondSource,
		Severity:   severity.SeverityWarning,
		Context: map[string]any{
			"first_file":  firstSource,
			"second_file": secondSource,
		},
	}
}

// NewTagDescriptionWarning records a tag whose later description was not used.
func NewTagDescriptionWarning(name, kept, ignored, sourceFile string) *JoinWarning {
	return &JoinWarning{
		Category:   WarnTagDescription,
		Path:       "tags." + name,
		Message:    fmt.Sprintf("tag '%s' from %s has a different description; keeping %q", name, sourceFile, kept),
		SourceFile: sourceFile,
		Severity:   severity.SeverityWarning,
		Context: map[string]any{
			"kept":    kept,
			"ignored": ignored,
		},
	}
}

// NewSchemaDedupWarning records an identical re-registration of a component.
func NewSchemaDedupWarning(name, section, sourceFile string) *JoinWarning {
	return &JoinWarning{
		Category:   WarnSchemaDeduplicated,
		Path:       fmt.Sprintf("components.%s.%s", section, name),
		Message:    fmt.Sprintf("%s '%s' from %s is identical to the registered one", section, name, sourceFile),
		SourceFile: sourceFile,
		Severity:   severity.SeverityInfo,
		Context: map[string]any{
			"section": section,
		},
	}
}

// NewMetadataOverrideWarning records info metadata that was replaced (or
// ignored, when replaced is false).
func NewMetadataOverrideWarning(field, firstValue, secondValue, secondFile string, replaced bool) *JoinWarning {
	msg := fmt.Sprintf("%s '%s' from %s ignored (kept '%s')", field, secondValue, secondFile, firstValue)
	if replaced {
		msg = fmt.Sprintf("%s '%s' replaced by '%s' from %s", field, firstValue, secondValue, secondFile)
	}
	return &JoinWarning{
		Category:   WarnMetadataOverride,
		Path:       field,
		Message:    msg,
		SourceFile: secondFile,
		Severity:   severity.SeverityInfo,
		Context: map[string]any{
			"first_value":  firstValue,
			"second_value": secondValue,
			"replaced":     replaced,
		},
	}
}

// IsGenericSourceName reports whether name is empty or one of the parser's
// placeholder names.
func IsGenericSourceName(name string) bool {
	switch {
	case name == "":
		return true
	case strings.HasPrefix(name, "ParseBytes"), strings.HasPrefix(name, "ParseReader"):
		return true
	default:
		return false
	}
}

// NewGenericSourceNameWarning records a source that should be given a
// meaningful name (see parser.WithSourceName).
func NewGenericSourceNameWarning(name string, index int) *JoinWarning {
	msg := fmt.Sprintf("source %d has no name; conflict reports will be unclear", index)
	if name != "" {
		msg = fmt.Sprintf("source %d has generic name '%s'; conflict reports may be unclear", index, name)
	}
	return &JoinWarning{
		Category:   WarnGenericSourceName,
		Message:    msg,
		SourceFile: name,
		Severity:   severity.SeverityInfo,
		Context:    map[string]any{"index": index},
	}
}

// JoinWarnings is a collection of JoinWarning.
type JoinWarnings []*JoinWarning

// Strings returns the warning messages.
func (ws JoinWarnings) Strings() []string {
	result := make([]string, 0, len(ws))
	for _, w := range ws {
		if w != nil {
			result = append(result, w.String())
		}
	}
	return result
}

// ByCategory filters warnings by category.
func (ws JoinWarnings) ByCategory(cat WarningCategory) JoinWarnings {
	var result JoinWarnings
	for _, w := range ws {
		if w.Category == cat {
			result = append(result, w)
		}
	}
	return result
}

// BySeverity filters warnings by severity.
func (ws JoinWarnings) BySeverity(sev severity.Severity) JoinWarnings {
	var result JoinWarnings
	for _, w := range ws {
		if w.Severity == sev {
			result = append(result, w)
		}
	}
	return result
}

// Summary returns a formatted summary of warnings.
func (ws JoinWarnings) Summary() string {
	if len(ws) == 0 {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d warning(s):", len(ws))
	for _, w := range ws {
		sb.WriteString("\n  - ")
		sb.WriteString(w.String())
	}
	return sb.String()
}
