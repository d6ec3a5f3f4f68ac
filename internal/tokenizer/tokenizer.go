package tokenizer

// Tokenizer converts text to token IDs and back.
type Tokenizer interface {
	// Encode converts text to token IDs.
	Encode(text string) ([]int32, error)

	// Decode converts token IDs back to text.
	Decode(tokens []int32) (string, error)

	// VocabSize returns the total vocabulary size.
	VocabSize() int

	// EosToken returns the end-of-sequence token ID, or -1 if not applicable.
	EosToken() int32

	// PadToken returns the padding token ID, or -1 if the tokenizer does not
	// define one.
	PadToken() int32
}

// Batch is a padded batch of encoded sequences.
//
// IDs is row-major [Batch x SeqLen] token IDs with padding appended to short
// sequences. Valid mirrors IDs: true at real tokens, false at padding. Both
// feed directly into tensor construction for encoder input.
type Batch struct {
	IDs    []int32
	Valid  []bool
	Batch  int
	SeqLen int
}

// PadBatch encodes texts with tok and pads them to a common length with
// padID. When maxLen is positive, sequences longer than maxLen are truncated
// and the batch is padded to exactly maxLen; otherwise the longest sequence
// sets the width.
func PadBatch(tok Tokenizer, texts []string, padID int32, maxLen int) (*Batch, error) {
	encoded := make([][]int32, len(texts))
	width := 0
	for i, text := range texts {
		ids, err := tok.Encode(text)
		if err != nil {
			return nil, err
		}
		if maxLen > 0 && len(ids) > maxLen {
			ids = ids[:maxLen]
		}
		encoded[i] = ids
		if len(ids) > width {
			width = len(ids)
		}
	}
	if maxLen > 0 {
		width = maxLen
	}

	batch := &Batch{
		IDs:    make([]int32, len(texts)*width),
		Valid:  make([]bool, len(texts)*width),
		Batch:  len(texts),
		SeqLen: width,
	}
	for i, ids := range encoded {
		row := i * width
		for j := 0; j < width; j++ {
			if j < len(ids) {
				batch.IDs[row+j] = ids[j]
				batch.Valid[row+j] = true
			} else {
				batch.IDs[row+j] = padID
			}
		}
	}
	return batch, nil
}
