package plane

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/san-kum/uvsim/internal/profiles"
)

const (
	typePlane  = "plane"
	typeGalaxy = "galaxy"
)

var ErrFormat = errors.New("plane: malformed scene description")

// node is one typed entry of the scene description. Arguments hold the
// constructor parameters of Type.
type node struct {
	Type      string          `json:"type"`
	Arguments json.RawMessage `json:"arguments"`
}

type planeArgs struct {
	Galaxies []node `json:"galaxies"`
}

type galaxyArgs struct {
	Redshift float64       `json:"redshift"`
	Profiles []profileNode `json:"profiles"`
}

type profileNode struct {
	Role      string          `json:"role"`
	Type      string          `json:"type"`
	Arguments json.RawMessage `json:"arguments"`
}

func marshalNode(typ string, args any) (node, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return node{}, err
	}
	return node{Type: typ, Arguments: raw}, nil
}

func (p *Plane) MarshalJSON() ([]byte, error) {
	args := planeArgs{Galaxies: make([]node, 0, len(p.galaxies))}
	for _, g := range p.galaxies {
		gn, err := g.node()
		if err != nil {
			return nil, err
		}
		args.Galaxies = append(args.Galaxies, gn)
	}
	n, err := marshalNode(typePlane, args)
	if err != nil {
		return nil, err
	}
	return json.Marshal(n)
}

func (g *Galaxy) node() (node, error) {
	args := galaxyArgs{Redshift: g.Redshift, Profiles: make([]profileNode, 0, len(g.profiles))}
	for _, np := range g.profiles {
		raw, err := json.Marshal(np.Profile)
		if err != nil {
			return node{}, err
		}
		args.Profiles = append(args.Profiles, profileNode{Role: np.Role, Type: np.Profile.Kind(), Arguments: raw})
	}
	return marshalNode(typeGalaxy, args)
}

func (p *Plane) UnmarshalJSON(data []byte) error {
	var n node
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if n.Type != typePlane {
		return fmt.Errorf("%w: expected type %q, got %q", ErrFormat, typePlane, n.Type)
	}
	var args planeArgs
	if err := json.Unmarshal(n.Arguments, &args); err != nil {
		return fmt.Errorf("%w: %v", ErrFormat, err)
	}

	galaxies := make([]*Galaxy, 0, len(args.Galaxies))
	for i, gn := range args.Galaxies {
		g, err := galaxyFromNode(gn)
		if err != nil {
			return fmt.Errorf("galaxy %d: %w", i, err)
		}
		galaxies = append(galaxies, g)
	}
	built, err := New(galaxies...)
	if err != nil {
		return err
	}
	*p = *built
	return nil
}

func galaxyFromNode(n node) (*Galaxy, error) {
	if n.Type != typeGalaxy {
		return nil, fmt.Errorf("%w: expected type %q, got %q", ErrFormat, typeGalaxy, n.Type)
	}
	var args galaxyArgs
	if err := json.Unmarshal(n.Arguments, &args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	named := make([]NamedProfile, 0, len(args.Profiles))
	for _, pn := range args.Profiles {
		lp, err := profiles.Decode(pn.Type, pn.Arguments)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", pn.Role, err)
		}
		named = append(named, NamedProfile{Role: pn.Role, Profile: lp})
	}
	return NewGalaxy(args.Redshift, named...)
}

// OutputToJSON writes the scene description to path, replacing any existing
// file.
func (p *Plane) OutputToJSON(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return err
	}
	return file.Close()
}

// Load reads a scene description written by OutputToJSON.
func Load(path string) (*Plane, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Plane
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
