// Package geometry holds the minimal geometry used by the print pipeline: triangle meshes,
// polygons with holes, planar slicing of meshes and STL input.
//
// 2D points are seehuhn.de/go/geom vectors and 2D placements are expressed as
// seehuhn.de/go/geom matrices, so slices can be transformed per instance before rasterization.
package geometry
