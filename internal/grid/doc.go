// Package grid owns the raster data model shared by every filter engine.
//
// A Grid is a dense row-major array of float64 samples with an aligned
// validity mask (true = no-data) and enough georeferencing to round-trip
// ESRI ASCII files. All transforms in this package and in the engine
// packages return freshly allocated grids; caller-owned data is never
// mutated in place.
//
// Dependency rule: grid may depend only on the standard library and
// gonum. No I/O, no persistence, no rendering code is allowed here.
package grid
