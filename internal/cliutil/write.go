// Package cliutil provides utilities for CLI operations.
package cliutil

import (
	"fmt"
	"io"
	"os"

	"github.com/erraggy/oascompose/internal/pathutil"
	"github.com/erraggy/oascompose/serializer"
)

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr (useful for debugging).
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// ResolveFormat picks the output encoding. An explicit name wins, then the
// extension of outputPath, then fallback.
func ResolveFormat(name, outputPath string, fallback serializer.Format) (serializer.Format, error) {
	if name != "" {
		return serializer.ParseFormat(name)
	}
	if ext := pathutil.FormatFromExtension(outputPath); ext != "" {
		return serializer.Format(ext), nil
	}
	return fallback, nil
}

// WriteOutput writes data to outputPath, or to w when outputPath is empty
// or "-". It returns the cleaned path that was written, or "" for w.
func WriteOutput(w io.Writer, outputPath string, data []byte) (string, error) {
	if outputPath == "" || outputPath == "-" {
		if _, err := w.Write(data); err != nil {
			return "", fmt.Errorf("write output: %w", err)
		}
		return "", nil
	}
	clean, err := pathutil.SanitizeOutputPath(outputPath)
	if err != nil {
		return "", fmt.Errorf("invalid output path: %w", err)
	}
	if err := os.WriteFile(clean, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write output file: %w", err)
	}
	return clean, nil
}
