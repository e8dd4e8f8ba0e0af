// Package pkg provides the core libraries of the RoomForge layout engine.
//
// # Overview
//
// RoomForge turns scanned room plans and furniture catalogs into ranked,
// constraint-checked furniture arrangements. The pkg directory is organized
// into five main areas:
//
//  1. [geometry] / [catalog] - Input domain (room model, furniture items)
//  2. [layout] - The engine (constraint model, seeding, solving, refining,
//     flow scoring, validation, ranking)
//  3. [cache] / [progress] / [observability] - Infrastructure
//  4. [pipeline] - Orchestration (seed → solve → refine → validate → rank)
//  5. [io] - JSON import and export of plans, catalogs, and solutions
//
// # Architecture
//
// The typical data flow through RoomForge:
//
//	Room Plan + Furniture Catalog
//	         ↓
//	    [layout/model] package (variables + hard constraints)
//	         ↓
//	    [layout/seed] package (strategy-driven starting arrangements)
//	         ↓
//	    [layout/solve] + [layout/anneal] (search and refinement)
//	         ↓
//	    [layout/validate] + [layout/rank] (checking and selection)
//	         ↓
//	    Ranked solution JSON
//
// # Quick Start
//
// Solve layouts for a rectangular demo room:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/roomforge/pkg/catalog"
//	    "github.com/matzehuels/roomforge/pkg/geometry"
//	    "github.com/matzehuels/roomforge/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	defer runner.Close()
//
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    Room:      geometry.RectangularPlan(5, 4),
//	    Furniture: catalog.Builtin(),
//	})
//
// # Units
//
// Wire formats (room plans) use meters; every internal computation uses
// centimeters with the origin at the room's minimum corner. Prices are
// integer cents throughout.
package pkg
