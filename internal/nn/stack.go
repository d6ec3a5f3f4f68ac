package nn

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// EncoderStackConfig describes a full encoder: token embedding, positional
// encoding, and a stack of encoder blocks sharing one block config.
type EncoderStackConfig struct {
	VocabSize int           `json:"vocab_size"`
	MaxLen    int           `json:"max_len"`
	NumLayers int           `json:"num_layers"`
	PadID     int32         `json:"pad_id"`
	Block     EncoderConfig `json:"block"`
}

// Validate checks the config for structural errors.
func (c EncoderStackConfig) Validate() error {
	if c.VocabSize <= 0 {
		return fmt.Errorf("encoder stack config: vocab_size must be positive, got %d", c.VocabSize)
	}
	if c.MaxLen <= 0 {
		return fmt.Errorf("encoder stack config: max_len must be positive, got %d", c.MaxLen)
	}
	if c.NumLayers <= 0 {
		return fmt.Errorf("encoder stack config: num_layers must be positive, got %d", c.NumLayers)
	}
	return c.Block.Validate()
}

// Encoder turns token IDs into contextual embeddings. It embeds the IDs,
// adds sinusoidal position encodings, derives the padding mask from the pad
// ID, and runs the result through NumLayers encoder blocks.
type Encoder[B tensor.Backend] struct {
	Embedding  *Embedding[B]
	Positional *SinusoidalPositionalEncoding[B]
	Blocks     []*EncoderBlock[B]
	config     EncoderStackConfig
	backend    B
}

// NewEncoder creates an encoder from a config. Panics when the config is
// invalid.
func NewEncoder[B tensor.Backend](config EncoderStackConfig, backend B) *Encoder[B] {
	if err := config.Validate(); err != nil {
		panic(err.Error())
	}

	blocks := make([]*EncoderBlock[B], config.NumLayers)
	for i := range blocks {
		blocks[i] = NewEncoderBlock[B](config.Block, backend)
	}

	return &Encoder[B]{
		Embedding:  NewEmbedding[B](config.VocabSize, config.Block.EmbedDim, backend),
		Positional: NewSinusoidalPositionalEncoding[B](config.MaxLen, config.Block.EmbedDim, backend),
		Blocks:     blocks,
		config:     config,
		backend:    backend,
	}
}

// Forward encodes a batch of token ID sequences [batch, seq] into contextual
// embeddings [batch, seq, embed_dim]. Positions holding the configured pad ID
// are masked out of attention in every block.
func (e *Encoder[B]) Forward(ids *tensor.Tensor[int32, B]) *tensor.Tensor[float32, B] {
	if len(ids.Shape()) != 2 {
		panic(fmt.Sprintf("Encoder: ids must be 2D [batch, seq], got %v", ids.Shape()))
	}
	seqLen := ids.Shape()[1]

	padding := PaddingMaskFromIDs(ids, e.config.PadID)

	x := e.Embedding.Forward(ids)
	x = x.Add(e.Positional.Forward(seqLen))

	for _, block := range e.Blocks {
		x = block.Forward(x, padding)
	}
	return x
}

// Config returns the config the encoder was built from, with the block's
// epsilon default applied.
func (e *Encoder[B]) Config() EncoderStackConfig {
	c := e.config
	c.Block.NormEps = c.Block.normEps()
	return c
}

// Parameters returns all trainable parameters: the embedding matrix and every
// block's parameters. The positional encoding is fixed and contributes none.
func (e *Encoder[B]) Parameters() []*Parameter[B] {
	params := e.Embedding.Parameters()
	for _, block := range e.Blocks {
		params = append(params, block.Parameters()...)
	}
	return params
}
