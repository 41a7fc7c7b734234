// Package imaging implements the frame composition pipeline behind stackpng.
//
// A run is a single synchronous pass through three stages:
//
//   - Load: decode every input path into a Frame (abort on the first failure)
//   - Reconcile: make every Frame match the first Frame's dimensions,
//     resizing with nearest-neighbor sampling when allowed
//   - Composite: stack the reconciled Frames top to bottom into one canvas
//
// Frames are never mutated. Reconcile substitutes resized copies, so the
// Sequence it returns may share Frames with its input but never alters them.
//
// Errors are returned as typed values (DecodeError, DimensionMismatchError,
// AspectRatioMismatchError) and never printed; presentation and exit
// behavior belong to the caller.
package imaging
