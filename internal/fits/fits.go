// Package fits reads and writes numeric arrays as FITS primary images.
//
// Arrays follow the FITS axis convention: Axes[0] is NAXIS1, the fastest
// varying dimension. A list of N (real, imag) or (u, v) pairs is therefore
// stored with Axes {2, N}.
package fits

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/astrogo/fitsio"
)

var (
	// ErrFormat indicates the file is not a FITS image holding numeric data
	// of the expected shape.
	ErrFormat = errors.New("fits: malformed array")

	// ErrAlreadyExists indicates an output file exists and overwrite is off.
	ErrAlreadyExists = fmt.Errorf("fits: output already exists: %w", fs.ErrExist)
)

// Array is an n-dimensional float64 array in FITS axis order.
type Array struct {
	Axes []int
	Data []float64
}

func (a *Array) Len() int {
	if len(a.Axes) == 0 {
		return 0
	}
	n := 1
	for _, d := range a.Axes {
		n *= d
	}
	return n
}

func (a *Array) validate() error {
	if len(a.Axes) == 0 {
		return fmt.Errorf("%w: no axes", ErrFormat)
	}
	for _, d := range a.Axes {
		if d <= 0 {
			return fmt.Errorf("%w: axes %v", ErrFormat, a.Axes)
		}
	}
	if a.Len() != len(a.Data) {
		return fmt.Errorf("%w: axes %v hold %d values, got %d", ErrFormat, a.Axes, a.Len(), len(a.Data))
	}
	return nil
}

// ReadArray reads the image in HDU index hdu of the file at path.
func ReadArray(path string, hdu int) (*Array, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	f, err := fitsio.Open(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFormat, path, err)
	}
	defer f.Close()

	hdus := f.HDUs()
	if hdu < 0 || hdu >= len(hdus) {
		return nil, fmt.Errorf("%w: %s has %d HDUs, requested %d", ErrFormat, path, len(hdus), hdu)
	}
	img, ok := hdus[hdu].(fitsio.Image)
	if !ok {
		return nil, fmt.Errorf("%w: %s HDU %d is not an image", ErrFormat, path, hdu)
	}

	hdr := img.Header()
	axes := append([]int(nil), hdr.Axes()...)
	arr := &Array{Axes: axes}
	n := arr.Len()
	if n == 0 {
		return nil, fmt.Errorf("%w: %s HDU %d is empty", ErrFormat, path, hdu)
	}

	data, err := readFloat64(img, hdr.Bitpix(), n)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFormat, path, err)
	}
	arr.Data = data
	if err := arr.validate(); err != nil {
		return nil, err
	}
	return arr, nil
}

func readFloat64(img fitsio.Image, bitpix, n int) ([]float64, error) {
	switch bitpix {
	case -64:
		data := make([]float64, n)
		err := img.Read(&data)
		return data, err
	case -32:
		raw := make([]float32, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		return widen(raw), nil
	case 8:
		raw := make([]uint8, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		return widen(raw), nil
	case 16:
		raw := make([]int16, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		return widen(raw), nil
	case 32:
		raw := make([]int32, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		return widen(raw), nil
	case 64:
		raw := make([]int64, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		return widen(raw), nil
	default:
		return nil, fmt.Errorf("unsupported BITPIX %d", bitpix)
	}
}

func widen[T uint8 | int16 | int32 | int64 | float32](raw []T) []float64 {
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = float64(v)
	}
	return out
}

// WriteArray writes arr as a BITPIX -64 primary image. Missing parent
// directories are created. With overwrite false an existing file is left
// untouched and ErrAlreadyExists is returned.
func WriteArray(path string, arr *Array, overwrite bool) error {
	if err := arr.validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	file, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, path)
		}
		return err
	}
	defer file.Close()

	f, err := fitsio.Create(file)
	if err != nil {
		return err
	}

	img := fitsio.NewImage(-64, arr.Axes)
	defer img.Close()

	data := arr.Data
	if err := img.Write(&data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Write(img); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return file.Close()
}
