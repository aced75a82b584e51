package stego

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// newUsableComponent builds a synthetic component of n blocks, all
// usable (dc == 128) and all offering frequencies {63,62,61,60} at a
// flat, maximally fine quantization table, so tests can focus on the
// embed/extract driver logic rather than on frequency selection.
func newUsableComponent(n int) *ComponentView {
	q := &QuantTable{}
	for i := range q {
		q[i] = 1
	}
	blocks := make([]Block, n)
	return &ComponentView{
		WidthBlocks:  n,
		HeightBlocks: 1,
		QuantTable:   q,
		Blocks:       blocks,
	}
}

func TestEmbedExtractRoundTripNoECCNoLength(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		payload := rapid.SliceOfN(rapid.Byte(), 0, 64).Draw(rt, "payload")

		comp := newUsableComponent(512)
		cfg := Config{NLevels: 4}

		ectx, err := NewEmbedContext(comp, cfg)
		require.NoError(t, err)
		n, err := Embed(ectx, payload)
		require.NoError(t, err)
		assert.Equal(t, len(payload), n)

		xctx, err := NewExtractContext(comp, cfg)
		require.NoError(t, err)
		result, err := Extract(xctx, len(payload))
		require.NoError(t, err)
		assert.Equal(t, payload, result.Payload)
	})
}

func TestEmbedExtractRoundTripNoECCWithLength(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		payload := rapid.SliceOfN(rapid.Byte(), 0, 64).Draw(rt, "payload")

		comp := newUsableComponent(512)
		cfg := Config{NLevels: 4, EmbedLength: true}

		ectx, err := NewEmbedContext(comp, cfg)
		require.NoError(t, err)
		_, err = Embed(ectx, payload)
		require.NoError(t, err)

		xctx, err := NewExtractContext(comp, cfg)
		require.NoError(t, err)
		// expectedRawLen is ignored once EmbedLength is set: the driver
		// reads the real length back out of the image itself.
		result, err := Extract(xctx, 0)
		require.NoError(t, err)
		assert.Equal(t, payload, result.Payload)
	})
}

func TestEmbedExtractEmptyPayloadWithLengthWritesLengthHeader(t *testing.T) {
	comp := newUsableComponent(512)
	cfg := Config{NLevels: 4, EmbedLength: true}

	ectx, err := NewEmbedContext(comp, cfg)
	require.NoError(t, err)
	n, err := Embed(ectx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	xctx, err := NewExtractContext(comp, cfg)
	require.NoError(t, err)
	result, err := Extract(xctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, result.BytesExtracted)
}

func TestEmbedExtractRoundTripWithECC(t *testing.T) {
	payloads := [][]byte{
		[]byte("a"),
		[]byte("the quick brown fox"),
		make([]byte, 37),
	}

	for _, withLength := range []bool{false, true} {
		for _, payload := range payloads {
			comp := newUsableComponent(4096)
			cfg := Config{NLevels: 4, ECCMethod: ECCReedSolomon, EmbedLength: withLength}

			ectx, err := NewEmbedContext(comp, cfg)
			require.NoError(t, err)
			n, err := Embed(ectx, payload)
			require.NoError(t, err)
			assert.Equal(t, len(payload), n)

			xctx, err := NewExtractContext(comp, cfg)
			require.NoError(t, err)
			result, err := Extract(xctx, len(payload))
			require.NoError(t, err)
			assert.Equal(t, payload, result.Payload)
		}
	}
}

func TestEmbedInsufficientFrequenciesAtLowQuality(t *testing.T) {
	q := &QuantTable{}
	for i := range q {
		q[i] = 200 // 255/200 == 1, below the minimum 4 distinguishable levels
	}
	comp := &ComponentView{WidthBlocks: 8, HeightBlocks: 1, QuantTable: q, Blocks: make([]Block, 8)}

	_, err := NewEmbedContext(comp, Config{NLevels: 4})
	assert.ErrorIs(t, err, ErrInsufficientFrequencies)
}

// TestEmbedReturnsPartialCountWhenPayloadExceedsCapacity covers spec.md
// §8 scenario 6: embedding a payload larger than the image can hold
// must return a partial count bounded by the number of usable blocks,
// with no out-of-bounds writes into comp.Blocks.
func TestEmbedReturnsPartialCountWhenPayloadExceedsCapacity(t *testing.T) {
	const usableBlocks = 4
	comp := newUsableComponent(usableBlocks)
	cfg := Config{NLevels: 4}

	ectx, err := NewEmbedContext(comp, cfg)
	require.NoError(t, err)
	payload := make([]byte, 64)
	for i := range payload {
		payload[i] = byte(i)
	}

	n, err := Embed(ectx, payload)
	require.NoError(t, err)
	assert.LessOrEqual(t, n, usableBlocks)
	assert.LessOrEqual(t, n, Capacity(comp))
	assert.Less(t, n, len(payload))
}

func TestExtractReportsTruncationWhenCapacityFallsShort(t *testing.T) {
	comp := newUsableComponent(4) // far fewer usable blocks than the payload needs
	cfg := Config{NLevels: 4}

	ectx, err := NewEmbedContext(comp, cfg)
	require.NoError(t, err)
	payload := make([]byte, 64)
	for i := range payload {
		payload[i] = byte(i)
	}
	n, err := Embed(ectx, payload)
	require.NoError(t, err)
	require.LessOrEqual(t, n, 4)

	xctx, err := NewExtractContext(comp, cfg)
	require.NoError(t, err)
	result, err := Extract(xctx, len(payload))
	assert.ErrorIs(t, err, ErrPayloadTruncated)
	assert.Less(t, result.BytesExtracted, len(payload))
}

func TestCapacityMatchesUsableBlockCount(t *testing.T) {
	comp := newUsableComponent(100)
	assert.Equal(t, 100, Capacity(comp))

	// Make half the blocks unusable by pushing their DC level out of range.
	for i := 0; i < 50; i++ {
		comp.Blocks[i][0] = 1000
	}
	assert.Equal(t, 50, Capacity(comp))
}

func TestPrintEnergiesDoesNotAffectCapacity(t *testing.T) {
	comp := newUsableComponent(32)
	before := Capacity(comp)

	PrintEnergies(comp, 4, NoopLogger{})

	assert.Equal(t, before, Capacity(comp))
}
