package nn

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// Embedding is a lookup table that maps discrete indices to dense vectors.
// It converts token IDs to continuous embeddings; the vectors are learnable
// parameters.
type Embedding[B tensor.Backend] struct {
	Weight   *Parameter[B] // embedding matrix [NumEmbed, EmbedDim]
	NumEmbed int           // vocabulary size
	EmbedDim int           // vector size
	backend  B
}

// NewEmbedding creates an embedding layer with weights drawn from N(0, 1).
// Use NewEmbeddingWithWeight for custom or pretrained initialization.
func NewEmbedding[B tensor.Backend](numEmbeddings, embeddingDim int, backend B) *Embedding[B] {
	if numEmbeddings <= 0 {
		panic(fmt.Sprintf("Embedding: numEmbeddings must be positive, got %d", numEmbeddings))
	}
	if embeddingDim <= 0 {
		panic(fmt.Sprintf("Embedding: embeddingDim must be positive, got %d", embeddingDim))
	}

	weight := Randn[B](tensor.Shape{numEmbeddings, embeddingDim}, backend)

	return &Embedding[B]{
		Weight:   NewParameter[B]("embedding.weight", weight),
		NumEmbed: numEmbeddings,
		EmbedDim: embeddingDim,
		backend:  backend,
	}
}

// NewEmbeddingWithWeight creates an embedding layer around a pre-initialized
// weight tensor [numEmbeddings, embeddingDim].
func NewEmbeddingWithWeight[B tensor.Backend](weight *tensor.Tensor[float32, B]) *Embedding[B] {
	shape := weight.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("Embedding: weight must be 2D, got shape %v", shape))
	}

	return &Embedding[B]{
		Weight:   NewParameter[B]("embedding.weight", weight),
		NumEmbed: shape[0],
		EmbedDim: shape[1],
		backend:  weight.Backend(),
	}
}

// Forward maps each index to its embedding row. indices may have any shape;
// the result has shape [..., EmbedDim]. Panics if an index falls outside
// [0, NumEmbed).
func (e *Embedding[B]) Forward(indices *tensor.Tensor[int32, B]) *tensor.Tensor[float32, B] {
	idx := indices.Data()
	weight := e.Weight.Tensor().Data()

	out := make([]float32, len(idx)*e.EmbedDim)
	for i, id := range idx {
		if id < 0 || int(id) >= e.NumEmbed {
			panic(fmt.Sprintf("Embedding: index %d out of range [0, %d)", id, e.NumEmbed))
		}
		copy(out[i*e.EmbedDim:(i+1)*e.EmbedDim], weight[int(id)*e.EmbedDim:(int(id)+1)*e.EmbedDim])
	}

	outShape := append(indices.Shape().Clone(), e.EmbedDim)
	result, err := tensor.FromSlice[float32, B](out, outShape, e.backend)
	if err != nil {
		panic(fmt.Sprintf("Embedding: %v", err))
	}
	return result
}

// Parameters returns the embedding matrix.
func (e *Embedding[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{e.Weight}
}

// PaddingMaskFromIDs derives a boolean validity mask from token IDs: true
// where the ID differs from padID, false at padding positions. ids must be
// [batch, seq]; the result has the same shape and feeds EncoderBlock.Forward.
func PaddingMaskFromIDs[B tensor.Backend](ids *tensor.Tensor[int32, B], padID int32) *tensor.Tensor[bool, B] {
	if len(ids.Shape()) != 2 {
		panic(fmt.Sprintf("PaddingMaskFromIDs: ids must be 2D [batch, seq], got %v", ids.Shape()))
	}

	src := ids.Data()
	valid := make([]bool, len(src))
	for i, id := range src {
		valid[i] = id != padID
	}

	mask, err := tensor.FromSlice[bool, B](valid, ids.Shape().Clone(), ids.Backend())
	if err != nil {
		panic(fmt.Sprintf("PaddingMaskFromIDs: %v", err))
	}
	return mask
}
