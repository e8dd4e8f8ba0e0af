package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/roomforge/pkg/layout"
)

// solutionsFile is the export envelope for solved layouts.
type solutionsFile struct {
	Solutions []layout.Solution `json:"solutions"`
}

// WriteSolutions encodes solutions as indented JSON and writes them to w.
// The output can be re-read with [ReadPlacements] (per solution) for
// validation round trips.
func WriteSolutions(solutions []layout.Solution, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(solutionsFile{Solutions: solutions}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportSolutions writes solutions to the file at path, creating or
// truncating it.
func ExportSolutions(solutions []layout.Solution, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteSolutions(solutions, f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// ExportJSON writes any JSON-marshalable document to the file at path,
// indented. Used for validation reports and debug dumps.
func ExportJSON(v any, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
