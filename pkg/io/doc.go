// Package io provides JSON import and export for room plans, furniture
// catalogs, and solved layouts.
//
// # Overview
//
// The engine exchanges three document kinds with external tools:
//
//   - Room plans: the meters-based scan output consumed by the solver
//   - Placements: existing layouts submitted for re-validation
//   - Solutions: solved layouts with placements, scores, and metrics
//
// All are plain JSON. Import functions validate structure on read
// (geometry constraints for plans) so malformed documents fail at the
// file boundary rather than mid-solve. Furniture catalogs have their own
// reader in the catalog package.
//
// # Import
//
// Use [ImportPlan] and [ImportPlacements] to read from a file path, or
// the Read variants to read from any io.Reader:
//
//	plan, err := io.ImportPlan("living_room.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Export
//
// Use [ExportSolutions] to write solved layouts to a file, or
// [WriteSolutions] to write to any io.Writer. Output is indented for
// readability; round-tripping through [ReadPlacements] preserves every
// placement field.
package io
