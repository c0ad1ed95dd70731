// Package isocube samples a cubic grid of coherent noise and approximates
// its isosurface with one polygon per grid cell.
//
// A cell polygon is built from the midpoints of the cell edges that cross the
// threshold, chained greedily by nearest distance. This is not the 256 case
// Marching Cubes triangulation: vertices are not interpolated along the
// edge and cells with six or more crossings may produce self intersecting
// polygons. See the render package for a full Marching Cubes mesher to
// compare against.
package isocube
