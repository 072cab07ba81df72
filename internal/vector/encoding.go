// Package vector encodes frame embeddings for the frames.embedding column.
//
// An embedding of dim components is stored as dim little-endian float32
// values and nothing else, so a column holding 384-component embeddings is
// always 1536 bytes wide.
package vector

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// BytesPerValue is the encoded width of one embedding component.
const BytesPerValue = 4

// ErrDimension is returned when a stored embedding does not have the
// expected number of components.
var ErrDimension = errors.New("embedding dimension mismatch")

// EncodedLen is the byte length of an encoded embedding of dim components.
func EncodedLen(dim int) int {
	return dim * BytesPerValue
}

// Encode packs an embedding for storage.
func Encode(embedding []float32) []byte {
	buf := make([]byte, EncodedLen(len(embedding)))
	for i, v := range embedding {
		binary.LittleEndian.PutUint32(buf[i*BytesPerValue:], math.Float32bits(v))
	}
	return buf
}

// Dim reports how many components a stored embedding holds.
func Dim(stored []byte) (int, error) {
	if len(stored)%BytesPerValue != 0 {
		return 0, fmt.Errorf("%w: %d bytes is not a whole number of float32 values", ErrDimension, len(stored))
	}
	return len(stored) / BytesPerValue, nil
}

// Decode unpacks a stored embedding that must hold exactly dim components.
func Decode(stored []byte, dim int) ([]float32, error) {
	got, err := Dim(stored)
	if err != nil {
		return nil, err
	}
	if got != dim {
		return nil, fmt.Errorf("%w: got %d components, want %d", ErrDimension, got, dim)
	}

	embedding := make([]float32, dim)
	for i := range embedding {
		embedding[i] = math.Float32frombits(binary.LittleEndian.Uint32(stored[i*BytesPerValue:]))
	}
	return embedding, nil
}
