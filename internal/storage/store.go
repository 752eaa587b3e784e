package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/uvsim/internal/dataset"
)

const (
	MetadataFile = "metadata.json"
	TableFile    = "visibilities.csv"
)

var ErrNoMetadata = errors.New("storage: dataset has no metadata")

// Store lays datasets out as <root>/<type>/<name>.
type Store struct {
	root string
}

func New(root string) *Store {
	return &Store{root: root}
}

func (s *Store) Root() string { return s.root }

func (s *Store) Init() error {
	return os.MkdirAll(s.root, 0755)
}

func (s *Store) DatasetDir(datasetType, name string) string {
	return filepath.Join(s.root, datasetType, name)
}

type Metadata struct {
	ID           string             `json:"id"`
	Type         string             `json:"type"`
	Name         string             `json:"name"`
	Timestamp    time.Time          `json:"timestamp"`
	Transformer  string             `json:"transformer"`
	Seed         int64              `json:"seed"`
	ExposureTime float64            `json:"exposure_time"`
	NoiseSigma   float64            `json:"noise_sigma"`
	Shape        [2]int             `json:"shape"`
	PixelScales  float64            `json:"pixel_scales"`
	SubSize      int                `json:"sub_size"`
	UVPath       string             `json:"uv_wavelengths_path"`
	Visibilities int                `json:"visibilities"`
	Files        []string           `json:"files"`
	Stats        map[string]float64 `json:"stats"`
	Config       any                `json:"config,omitempty"`
}

// SaveMetadata writes metadata.json into the dataset directory. A new id and
// timestamp are assigned when missing.
func (s *Store) SaveMetadata(meta *Metadata) (string, error) {
	if meta.ID == "" {
		meta.ID = uuid.New().String()
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}

	dir := s.DatasetDir(meta.Type, meta.Name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, MetadataFile)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}
	return path, nil
}

// SaveTable writes one csv row per visibility.
func (s *Store) SaveTable(datasetType, name string, d *dataset.Interferometer) (string, error) {
	dir := s.DatasetDir(datasetType, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, TableFile)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"u", "v", "real", "imag", "noise_real", "noise_imag"}); err != nil {
		return "", err
	}
	for i, uv := range d.UVWavelengths {
		vis, noise := d.Visibilities[i], d.NoiseMap[i]
		row := []string{
			formatFloat(uv[0]), formatFloat(uv[1]),
			formatFloat(real(vis)), formatFloat(imag(vis)),
			formatFloat(real(noise)), formatFloat(imag(noise)),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	return path, w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns the metadata of every dataset under the root. Directories
// without readable metadata are skipped.
func (s *Store) List() ([]Metadata, error) {
	types, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return []Metadata{}, nil
		}
		return nil, err
	}

	out := make([]Metadata, 0)
	for _, t := range types {
		if !t.IsDir() {
			continue
		}
		names, err := os.ReadDir(filepath.Join(s.root, t.Name()))
		if err != nil {
			continue
		}
		for _, n := range names {
			if !n.IsDir() {
				continue
			}
			meta, err := LoadDir(filepath.Join(s.root, t.Name(), n.Name()))
			if err != nil {
				continue
			}
			out = append(out, *meta)
		}
	}
	return out, nil
}

func (s *Store) Load(datasetType, name string) (*Metadata, error) {
	return LoadDir(s.DatasetDir(datasetType, name))
}

// LoadDir reads metadata.json from a dataset directory.
func LoadDir(dir string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoMetadata, dir)
		}
		return nil, err
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}
	return &meta, nil
}

// LoadTable reads visibilities.csv back as rows of floats, header excluded.
func (s *Store) LoadTable(datasetType, name string) ([][]float64, error) {
	f, err := os.Open(filepath.Join(s.DatasetDir(datasetType, name), TableFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return [][]float64{}, nil
	}

	rows := make([][]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", TableFile, err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}
