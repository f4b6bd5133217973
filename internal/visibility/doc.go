// Package visibility implements windowed horizon-angle visibility as a
// textural measure over a raster. For each interior cell it sweeps the
// eight rays of four principal axes (rows, columns, both diagonals),
// counting points whose elevation angle from an offset observer meets
// the running horizon maximum. Ties count as visible, so flat terrain
// saturates every ray; this matches the published algorithm and is
// asserted literally by the tests.
package visibility
