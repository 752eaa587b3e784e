// Package profiles provides parametric 2D light profiles of galaxy
// components.
//
// Every profile is a pure value: it evaluates surface brightness at a set of
// (y, x) arcsecond coordinates and never mutates itself.
//
//   - [Sersic]: general Sersic profile with index n
//   - [Exponential]: Sersic with n = 1, typical of disks
//   - [DevVaucouleurs]: Sersic with n = 4, typical of bulges
//
// Profiles are registered by kind so a serialised scene can be rebuilt with
// [Decode].
package profiles
