package plot

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
)

const panelGap = 8

// Subplot tiles panels row by row into cols columns under a title. Every cell
// takes the size of the largest panel.
func Subplot(title string, cols int, panels ...image.Image) (*image.RGBA, error) {
	if len(panels) == 0 {
		return nil, fmt.Errorf("%w: subplot %q has no panels", ErrEmpty, title)
	}
	if cols <= 0 || cols > len(panels) {
		cols = len(panels)
	}
	rows := (len(panels) + cols - 1) / cols

	var cw, ch int
	for _, p := range panels {
		b := p.Bounds()
		cw = max(cw, b.Dx())
		ch = max(ch, b.Dy())
	}

	w := cols*cw + (cols+1)*panelGap
	h := titleHeight + rows*ch + (rows+1)*panelGap
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{background}, image.Point{}, draw.Src)

	for k, p := range panels {
		x := panelGap + (k%cols)*(cw+panelGap)
		y := titleHeight + panelGap + (k/cols)*(ch+panelGap)
		b := p.Bounds()
		draw.Draw(img, image.Rect(x, y, x+b.Dx(), y+b.Dy()), p, b.Min, draw.Src)
	}
	label(img, panelGap, 14, title)
	return img, nil
}

// SavePNG encodes img to path, creating parent directories. Existing figures
// are replaced.
func SavePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create plot directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create plot: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
