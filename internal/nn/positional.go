package nn

import (
	"fmt"
	"math"

	"github.com/loom-ml/loom/internal/tensor"
)

// SinusoidalPositionalEncoding holds fixed sinusoidal position encodings
// (Vaswani et al., 2017):
//
//	PE(pos, 2i)   = sin(pos / 10000^(2i/d))
//	PE(pos, 2i+1) = cos(pos / 10000^(2i/d))
//
// The encodings are pre-computed up to MaxLen and are not learned.
type SinusoidalPositionalEncoding[B tensor.Backend] struct {
	Encoding *tensor.Tensor[float32, B] // [MaxLen, Dim]
	MaxLen   int
	Dim      int
	backend  B
}

// NewSinusoidalPositionalEncoding pre-computes encodings for positions
// [0, maxLen).
func NewSinusoidalPositionalEncoding[B tensor.Backend](maxLen, dim int, backend B) *SinusoidalPositionalEncoding[B] {
	if maxLen <= 0 {
		panic(fmt.Sprintf("SinusoidalPositionalEncoding: maxLen must be positive, got %d", maxLen))
	}
	if dim <= 0 {
		panic(fmt.Sprintf("SinusoidalPositionalEncoding: dim must be positive, got %d", dim))
	}

	encodings := make([]float32, maxLen*dim)
	for pos := 0; pos < maxLen; pos++ {
		for i := 0; i < dim; i++ {
			angle := float64(pos) / math.Pow(10000.0, float64(2*(i/2))/float64(dim))
			if i%2 == 0 {
				encodings[pos*dim+i] = float32(math.Sin(angle))
			} else {
				encodings[pos*dim+i] = float32(math.Cos(angle))
			}
		}
	}

	encoding, err := tensor.FromSlice[float32, B](encodings, tensor.Shape{maxLen, dim}, backend)
	if err != nil {
		panic(fmt.Sprintf("SinusoidalPositionalEncoding: %v", err))
	}

	return &SinusoidalPositionalEncoding[B]{
		Encoding: encoding,
		MaxLen:   maxLen,
		Dim:      dim,
		backend:  backend,
	}
}

// Forward returns encodings for the first seqLen positions with shape
// [1, seqLen, Dim]; the leading 1 broadcasts over the batch when added to
// token embeddings. Panics if seqLen exceeds MaxLen.
func (s *SinusoidalPositionalEncoding[B]) Forward(seqLen int) *tensor.Tensor[float32, B] {
	if seqLen <= 0 || seqLen > s.MaxLen {
		panic(fmt.Sprintf("SinusoidalPositionalEncoding: seqLen %d out of range (0, %d]", seqLen, s.MaxLen))
	}

	encData := s.Encoding.Data()
	seqData := make([]float32, seqLen*s.Dim)
	copy(seqData, encData[:seqLen*s.Dim])

	seqEnc, err := tensor.FromSlice[float32, B](seqData, tensor.Shape{1, seqLen, s.Dim}, s.backend)
	if err != nil {
		panic(fmt.Sprintf("SinusoidalPositionalEncoding: %v", err))
	}
	return seqEnc
}
