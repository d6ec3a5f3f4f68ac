package nn

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// DefaultNormEps is the layer normalization epsilon used when EncoderConfig
// leaves NormEps zero.
const DefaultNormEps float32 = 1e-5

// EncoderConfig holds the hyperparameters of an encoder block. It is the
// serializable description of the block: a block built from a config and a
// config exported from a block round-trip exactly.
type EncoderConfig struct {
	NumHeads  int     `json:"num_heads"`
	EmbedDim  int     `json:"embed_dim"`
	HiddenDim int     `json:"hidden_dim"`
	NormEps   float32 `json:"norm_eps,omitempty"`
}

// Validate checks the config for structural errors. It returns an error
// rather than panicking so callers can reject deserialized configs.
func (c EncoderConfig) Validate() error {
	if c.NumHeads <= 0 {
		return fmt.Errorf("encoder config: num_heads must be positive, got %d", c.NumHeads)
	}
	if c.EmbedDim <= 0 {
		return fmt.Errorf("encoder config: embed_dim must be positive, got %d", c.EmbedDim)
	}
	if c.HiddenDim <= 0 {
		return fmt.Errorf("encoder config: hidden_dim must be positive, got %d", c.HiddenDim)
	}
	if c.EmbedDim%c.NumHeads != 0 {
		return fmt.Errorf("encoder config: embed_dim (%d) must be divisible by num_heads (%d)", c.EmbedDim, c.NumHeads)
	}
	if c.NormEps < 0 {
		return fmt.Errorf("encoder config: norm_eps must be non-negative, got %g", c.NormEps)
	}
	return nil
}

// normEps returns the effective epsilon, applying the default when unset.
func (c EncoderConfig) normEps() float32 {
	if c.NormEps == 0 {
		return DefaultNormEps
	}
	return c.NormEps
}

// EncoderBlock is a post-norm transformer encoder block:
//
//	attn = MHA(x, x, x, mask)
//	x1   = LayerNorm(x + attn)
//	ffn  = Linear(ReLU(Linear(x1)))
//	out  = LayerNorm(x1 + ffn)
//
// Self-attention uses the input as query, key, and value. The two layer norms
// hold independent parameters. The block preserves shape:
// [batch, seq, embed_dim] in, [batch, seq, embed_dim] out.
type EncoderBlock[B tensor.Backend] struct {
	Attention *MultiHeadAttention[B]
	AttnNorm  *LayerNorm[B]
	FFN       *FeedForward[B]
	OutNorm   *LayerNorm[B]
	config    EncoderConfig
	backend   B
}

// NewEncoderBlock creates an encoder block from a config. Panics when the
// config is invalid; use config.Validate first when the config comes from
// untrusted input.
func NewEncoderBlock[B tensor.Backend](config EncoderConfig, backend B) *EncoderBlock[B] {
	if err := config.Validate(); err != nil {
		panic(err.Error())
	}
	eps := config.normEps()

	return &EncoderBlock[B]{
		Attention: NewMultiHeadAttention[B](config.EmbedDim, config.NumHeads, backend),
		AttnNorm:  NewLayerNorm[B](config.EmbedDim, eps, backend),
		FFN:       NewFeedForward[B](config.EmbedDim, config.HiddenDim, backend),
		OutNorm:   NewLayerNorm[B](config.EmbedDim, eps, backend),
		config:    config,
		backend:   backend,
	}
}

// Forward runs the block on x [batch, seq, embed_dim]. padding is an optional
// boolean mask [batch, seq] where true marks a real token and false marks
// padding; nil means no masking. Padding positions receive zero attention
// weight from every query position.
func (e *EncoderBlock[B]) Forward(
	x *tensor.Tensor[float32, B],
	padding *tensor.Tensor[bool, B],
) *tensor.Tensor[float32, B] {
	if len(x.Shape()) != 3 {
		panic(fmt.Sprintf("EncoderBlock: input must be 3D [batch, seq, embed_dim], got %v", x.Shape()))
	}
	if x.Shape()[2] != e.config.EmbedDim {
		panic(fmt.Sprintf("EncoderBlock: input embed_dim %d does not match config embed_dim %d",
			x.Shape()[2], e.config.EmbedDim))
	}

	var mask *tensor.Tensor[float32, B]
	if padding != nil {
		if len(padding.Shape()) != 2 || padding.Shape()[0] != x.Shape()[0] || padding.Shape()[1] != x.Shape()[1] {
			panic(fmt.Sprintf("EncoderBlock: padding mask must be [batch, seq] = [%d, %d], got %v",
				x.Shape()[0], x.Shape()[1], padding.Shape()))
		}
		mask = PaddingMask(padding)
	}

	attnOut := e.Attention.Forward(x, x, x, mask)
	x1 := e.AttnNorm.Forward(x.Add(attnOut))

	ffnOut := e.FFN.Forward(x1)
	return e.OutNorm.Forward(x1.Add(ffnOut))
}

// Config returns the config the block was built from, with the epsilon
// default applied. NewEncoderBlock(block.Config(), backend) rebuilds a block
// with identical structure.
func (e *EncoderBlock[B]) Config() EncoderConfig {
	c := e.config
	c.NormEps = c.normEps()
	return c
}

// Parameters returns all trainable parameters: the four attention
// projections, both feed-forward layers, and both layer norms.
func (e *EncoderBlock[B]) Parameters() []*Parameter[B] {
	params := make([]*Parameter[B], 0, 16)
	params = append(params, e.Attention.Parameters()...)
	params = append(params, e.AttnNorm.Parameters()...)
	params = append(params, e.FFN.Parameters()...)
	params = append(params, e.OutNorm.Parameters()...)
	return params
}
