package plane

import (
	"errors"
	"fmt"

	"github.com/san-kum/uvsim/internal/grid"
	"github.com/san-kum/uvsim/internal/profiles"
)

var (
	ErrDuplicateRole = errors.New("plane: duplicate profile role")
	ErrEmptyRole     = errors.New("plane: empty profile role")
)

// NamedProfile binds a light profile to its role in a galaxy, e.g. "bulge".
type NamedProfile struct {
	Role    string
	Profile profiles.LightProfile
}

// Galaxy is a redshift plus an ordered set of named light profiles.
type Galaxy struct {
	Redshift float64
	profiles []NamedProfile
}

func NewGalaxy(redshift float64, named ...NamedProfile) (*Galaxy, error) {
	seen := make(map[string]bool, len(named))
	for _, np := range named {
		if np.Role == "" {
			return nil, ErrEmptyRole
		}
		if seen[np.Role] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRole, np.Role)
		}
		seen[np.Role] = true
		if err := np.Profile.Validate(); err != nil {
			return nil, fmt.Errorf("galaxy %s: %w", np.Role, err)
		}
	}
	g := &Galaxy{Redshift: redshift, profiles: make([]NamedProfile, len(named))}
	copy(g.profiles, named)
	return g, nil
}

// Profiles returns the named profiles in construction order.
func (g *Galaxy) Profiles() []NamedProfile {
	out := make([]NamedProfile, len(g.profiles))
	copy(out, g.profiles)
	return out
}

// Profile returns the profile with the given role.
func (g *Galaxy) Profile(role string) (profiles.LightProfile, bool) {
	for _, np := range g.profiles {
		if np.Role == role {
			return np.Profile, true
		}
	}
	return nil, false
}

// SubImage2DFrom sums every profile at the given coordinates.
func (g *Galaxy) SubImage2DFrom(coords []grid.Coord) []float64 {
	out := make([]float64, len(coords))
	for _, np := range g.profiles {
		for i, v := range np.Profile.Image2D(coords) {
			out[i] += v
		}
	}
	return out
}

// Image2DFrom renders the galaxy on the sub-grid and bins it to pixels.
func (g *Galaxy) Image2DFrom(gr *grid.Grid2D) ([]float64, error) {
	return gr.Bin(g.SubImage2DFrom(gr.SubCoordinates()))
}
