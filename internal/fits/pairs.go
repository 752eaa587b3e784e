package fits

import "fmt"

// Pairs converts an array with Axes {2, N} into N pairs.
func Pairs(a *Array) ([][2]float64, error) {
	if len(a.Axes) != 2 || a.Axes[0] != 2 {
		return nil, fmt.Errorf("%w: expected shape (N, 2), got axes %v", ErrFormat, a.Axes)
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	out := make([][2]float64, a.Axes[1])
	for i := range out {
		out[i] = [2]float64{a.Data[2*i], a.Data[2*i+1]}
	}
	return out, nil
}

// FromPairs packs N pairs into an array with Axes {2, N}.
func FromPairs(pairs [][2]float64) *Array {
	data := make([]float64, 0, 2*len(pairs))
	for _, p := range pairs {
		data = append(data, p[0], p[1])
	}
	return &Array{Axes: []int{2, len(pairs)}, Data: data}
}

// Complex converts an array with Axes {2, N} of (real, imag) pairs.
func Complex(a *Array) ([]complex128, error) {
	pairs, err := Pairs(a)
	if err != nil {
		return nil, err
	}
	out := make([]complex128, len(pairs))
	for i, p := range pairs {
		out[i] = complex(p[0], p[1])
	}
	return out, nil
}

func FromComplex(values []complex128) *Array {
	data := make([]float64, 0, 2*len(values))
	for _, v := range values {
		data = append(data, real(v), imag(v))
	}
	return &Array{Axes: []int{2, len(values)}, Data: data}
}

// ReadPairs reads an (N, 2) array of pairs from HDU hdu.
func ReadPairs(path string, hdu int) ([][2]float64, error) {
	arr, err := ReadArray(path, hdu)
	if err != nil {
		return nil, err
	}
	return Pairs(arr)
}

// ReadComplex reads an (N, 2) array of (real, imag) pairs from HDU hdu.
func ReadComplex(path string, hdu int) ([]complex128, error) {
	arr, err := ReadArray(path, hdu)
	if err != nil {
		return nil, err
	}
	return Complex(arr)
}
