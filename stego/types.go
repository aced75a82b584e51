package stego

// QuantTable is an 8x8 quantization table in natural (row-major) order,
// matching jpeg/common and jpeg/baseline's coefficient layout.
type QuantTable = [64]int32

// Block is one 8x8 quantized DCT coefficient block in natural order.
type Block = [64]int32

// numEmbedFreqs is the number of coefficients a single byte is packed
// into: two bits per coefficient, four coefficients per byte.
const numEmbedFreqs = 4

// FrequencySpec holds the embedding frequency selection (C1) and the
// permutation state (C4) for one image. A FrequencySpec is created
// once per Embed/Extract call and its PRNG state advances across every
// block visited, never resetting per block.
type FrequencySpec struct {
	NLevels int
	Freqs   [numEmbedFreqs]int
	NFreqs  int

	inUse [numEmbedFreqs]int
	rng   lcg
	seed  uint32
}

// NewFrequencySpec selects the embedding frequencies for a quant table
// and prepares permutation state for the given seed. A zero seed
// disables permutation: frequencies are always used in the fixed order
// findFreqs produced them.
func NewFrequencySpec(q *QuantTable, nlevels int, seed uint32) (*FrequencySpec, error) {
	fs := &FrequencySpec{NLevels: nlevels, seed: seed}
	fs.Freqs, fs.NFreqs = findFreqs(q, nlevels)
	if seed != 0 {
		fs.rng = lcg{state: seed}
	}
	if fs.NFreqs < numEmbedFreqs {
		return fs, ErrInsufficientFrequencies
	}
	return fs, nil
}
