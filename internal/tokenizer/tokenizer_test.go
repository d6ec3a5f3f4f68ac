package tokenizer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wordTokenizer is a deterministic test tokenizer: each whitespace-separated
// word maps to its length as a token ID.
type wordTokenizer struct{}

func (wordTokenizer) Encode(text string) ([]int32, error) {
	words := strings.Fields(text)
	ids := make([]int32, len(words))
	for i, w := range words {
		ids[i] = int32(len(w))
	}
	return ids, nil
}

func (wordTokenizer) Decode(tokens []int32) (string, error) {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = strings.Repeat("x", int(tok))
	}
	return strings.Join(parts, " "), nil
}

func (wordTokenizer) VocabSize() int  { return 100 }
func (wordTokenizer) EosToken() int32 { return -1 }
func (wordTokenizer) PadToken() int32 { return 0 }

type failingTokenizer struct{ wordTokenizer }

func (failingTokenizer) Encode(string) ([]int32, error) {
	return nil, fmt.Errorf("encode failed")
}

func TestPadBatch(t *testing.T) {
	batch, err := PadBatch(wordTokenizer{}, []string{"a bb ccc", "dddd"}, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, batch.Batch)
	assert.Equal(t, 3, batch.SeqLen)
	assert.Equal(t, []int32{1, 2, 3, 4, 0, 0}, batch.IDs)
	assert.Equal(t, []bool{true, true, true, true, false, false}, batch.Valid)
}

func TestPadBatchMaxLen(t *testing.T) {
	t.Run("truncates long sequences", func(t *testing.T) {
		batch, err := PadBatch(wordTokenizer{}, []string{"a bb ccc dddd"}, 0, 2)
		require.NoError(t, err)

		assert.Equal(t, 2, batch.SeqLen)
		assert.Equal(t, []int32{1, 2}, batch.IDs)
		assert.Equal(t, []bool{true, true}, batch.Valid)
	})

	t.Run("pads to maxLen", func(t *testing.T) {
		batch, err := PadBatch(wordTokenizer{}, []string{"a bb"}, 9, 4)
		require.NoError(t, err)

		assert.Equal(t, 4, batch.SeqLen)
		assert.Equal(t, []int32{1, 2, 9, 9}, batch.IDs)
		assert.Equal(t, []bool{true, true, false, false}, batch.Valid)
	})
}

func TestPadBatchEncodeError(t *testing.T) {
	_, err := PadBatch(failingTokenizer{}, []string{"anything"}, 0, 0)
	assert.Error(t, err)
}

func TestPadBatchEmptyTexts(t *testing.T) {
	batch, err := PadBatch(wordTokenizer{}, nil, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, 0, batch.Batch)
	assert.Empty(t, batch.IDs)
}
