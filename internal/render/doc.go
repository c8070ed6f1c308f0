// Package render turns a trajectory into animation frames.
//
// The pipeline is split in three steps so each can be tested alone:
//
//   - [Project]/[Frames]: angle to Cartesian bob position, pivot at origin
//   - [Canvas]: a fixed-extent [-2L, 2L] raster that draws rod and bob
//   - [Animator]: walks the precomputed positions and feeds a [FrameSink]
//
// Frames are drawn into a single reused buffer; sinks must consume a frame
// before the next one is requested.
package render
