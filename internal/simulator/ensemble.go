package simulator

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/uvsim/internal/dataset"
	"github.com/san-kum/uvsim/internal/grid"
	"github.com/san-kum/uvsim/internal/plane"
)

// Ensemble simulates n noise realisations of one scene with seeds seedStart,
// seedStart+1, ... The scene is rendered and transformed once.
func (s *Simulator) Ensemble(ctx context.Context, p *plane.Plane, g *grid.Grid2D, n int, seedStart int64) ([]*dataset.Interferometer, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: ensemble needs at least one realisation, got %d", ErrInvalidConfig, n)
	}
	if seedStart < 0 {
		return nil, fmt.Errorf("%w: ensemble seeds must not be negative, got %d", ErrInvalidConfig, seedStart)
	}

	img, err := p.Image2DFrom(g)
	if err != nil {
		return nil, err
	}
	clean, err := s.visibilities(ctx, img, g)
	if err != nil {
		return nil, err
	}

	results := make([]*dataset.Interferometer, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = s.observe(clean, g, seedStart+int64(idx))
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, ctx.Err()
}
