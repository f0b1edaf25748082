package main

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
)

// tensorFile is the on-disk form of a complex matrix: row-major real and
// imaginary parts. Real-valued grids (the ground-truth inputs) carry only
// the "re" array.
type tensorFile struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Re   []float64 `json:"re"`
	Im   []float64 `json:"im,omitempty"`
}

func loadComplexMatrix(path string) (*mat.CDense, error) {
	tf, err := loadTensorFile(path)
	if err != nil {
		return nil, err
	}
	data := make([]complex128, tf.Rows*tf.Cols)
	for k := range data {
		var im float64
		if tf.Im != nil {
			im = tf.Im[k]
		}
		data[k] = complex(tf.Re[k], im)
	}
	return mat.NewCDense(tf.Rows, tf.Cols, data), nil
}

func loadRealGrid(path string, n int) ([]float64, error) {
	tf, err := loadTensorFile(path)
	if err != nil {
		return nil, err
	}
	if tf.Rows*tf.Cols != n {
		return nil, fmt.Errorf("%s: grid is %dx%d, domain has %d cells", path, tf.Rows, tf.Cols, n)
	}
	return tf.Re, nil
}

func loadTensorFile(path string) (*tensorFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tensor: %w", err)
	}
	tf := &tensorFile{}
	if err := json.Unmarshal(raw, tf); err != nil {
		return nil, fmt.Errorf("parsing tensor %s: %w", path, err)
	}
	if tf.Rows < 1 || tf.Cols < 1 {
		return nil, fmt.Errorf("%s: bad dimensions %dx%d", path, tf.Rows, tf.Cols)
	}
	if len(tf.Re) != tf.Rows*tf.Cols {
		return nil, fmt.Errorf("%s: re has %d entries, want %d", path, len(tf.Re), tf.Rows*tf.Cols)
	}
	if tf.Im != nil && len(tf.Im) != tf.Rows*tf.Cols {
		return nil, fmt.Errorf("%s: im has %d entries, want %d", path, len(tf.Im), tf.Rows*tf.Cols)
	}
	return tf, nil
}
