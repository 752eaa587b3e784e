// Package transform maps real-space images on a grid to interferometer
// visibilities at a fixed set of uv baselines, and back to dirty images.
//
// The sign convention is V(u, v) = sum I(x, y) exp(-2 pi i (x u + y v)) with
// x, y in radians and u, v in wavelengths:
//
//   - [DFT]: direct evaluation, exact, O(pixels x baselines)
//   - [FFT]: FFT of the zero-padded image sampled at the nearest uv cell
//
// Both return the dirty image through the adjoint direct transform, without
// normalisation.
package transform
