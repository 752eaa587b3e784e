// Package viz renders datasets in the terminal.
//
//   - [Summary]: lipgloss panel of a dataset's metadata with an asciigraph
//     plot of amplitude against baseline length
//   - [Canvas]: braille canvas used for uv coverage
//   - [HeatMap]: coloured block rendering of an image
//   - [NewViewer]: Bubble Tea program cycling through the dataset panels
//
// # Key Bindings
//
//	Tab, l, →    - Next panel
//	Shift+Tab, h, ← - Previous panel
//	q            - Quit
package viz
