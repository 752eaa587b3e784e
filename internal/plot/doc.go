// Package plot renders dataset diagnostics to PNG files.
//
// Arrays are drawn as viridis heat maps with a colour bar, one dimensional
// quantities as go-chart scatter and line charts. Subplot tiles any of these
// panels into a single figure. PlanePlotter and InterferometerPlotter write
// the standard figure sets for a scene and for a simulated dataset.
package plot
