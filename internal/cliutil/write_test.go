package cliutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oascompose/serializer"
)

func TestWritef(t *testing.T) {
	var buf bytes.Buffer
	Writef(&buf, "Hello, %s!", "World")
	if got := buf.String(); got != "Hello, World!" {
		t.Errorf("Writef() = %q, want %q", got, "Hello, World!")
	}
}

func TestWritef_NoArgs(t *testing.T) {
	var buf bytes.Buffer
	Writef(&buf, "Simple message")
	if got := buf.String(); got != "Simple message" {
		t.Errorf("Writef() = %q, want %q", got, "Simple message")
	}
}

func TestWritef_MultipleArgs(t *testing.T) {
	var buf bytes.Buffer
	Writef(&buf, "%s: %d items, %v active", "Status", 42, true)
	want := "Status: 42 items, true active"
	if got := buf.String(); got != want {
		t.Errorf("Writef() = %q, want %q", got, want)
	}
}

// errorWriter is a writer that always returns an error
type errorWriter struct{}

func (e errorWriter) Write(p []byte) (n int, err error) {
	return 0, &writeError{}
}

type writeError struct{}

func (e *writeError) Error() string {
	return "simulated write error"
}

func TestWritef_WriteError(t *testing.T) {
	// This test verifies that Writef handles write errors gracefully
	// by logging to stderr rather than panicking
	var ew errorWriter
	// Should not panic
	Writef(ew, "This will fail")
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name, flag, path string
		want             serializer.Format
	}{
		{"flag wins", "json", "out.yaml", serializer.FormatJSON},
		{"extension", "", "out.json", serializer.FormatJSON},
		{"yml extension", "", "out.yml", serializer.FormatYAML},
		{"fallback", "", "out.txt", serializer.FormatYAML},
		{"stdout", "", "", serializer.FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveFormat(tt.flag, tt.path, serializer.FormatYAML)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ResolveFormat("xml", "", serializer.FormatYAML)
	assert.Error(t, err)
}

func TestWriteOutput(t *testing.T) {
	var buf bytes.Buffer
	written, err := WriteOutput(&buf, "-", []byte("openapi: 3.1.0\n"))
	require.NoError(t, err)
	assert.Empty(t, written)
	assert.Equal(t, "openapi: 3.1.0\n", buf.String())

	path := filepath.Join(t.TempDir(), "out.yaml")
	written, err = WriteOutput(&buf, path, []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, path, written)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))

	_, err = WriteOutput(errorWriter{}, "", []byte("x"))
	assert.ErrorContains(t, err, "simulated write error")
}
