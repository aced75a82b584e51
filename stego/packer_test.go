package stego

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestInsertExtractByteRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		v := byte(rapid.IntRange(0, 255).Draw(rt, "v"))

		freq := [numEmbedFreqs]int{
			rapid.IntRange(0, 63).Draw(rt, "f0"),
			rapid.IntRange(0, 63).Draw(rt, "f1"),
			rapid.IntRange(0, 63).Draw(rt, "f2"),
			rapid.IntRange(0, 63).Draw(rt, "f3"),
		}
		// A real FrequencySpec always hands out 4 distinct positions;
		// collisions here would overwrite one nibble with another and
		// aren't a case insertByte/extractByte need to handle.
		seen := map[int]bool{}
		for _, f := range freq {
			if seen[f] {
				rt.Skip("frequency collision")
			}
			seen[f] = true
		}

		var block Block
		insertByte(v, freq, &block)
		got := extractByte(freq, &block)

		assert.Equal(t, v, got)
	})
}

func TestInsertByteOnlyTouchesNamedPositions(t *testing.T) {
	freq := [numEmbedFreqs]int{10, 20, 30, 40}
	var block Block
	for i := range block {
		block[i] = -999
	}

	insertByte(0xAB, freq, &block)

	for i := range block {
		touched := i == 10 || i == 20 || i == 30 || i == 40
		if !touched {
			assert.Equal(t, int32(-999), block[i], "position %d should be untouched", i)
		}
	}
}

func TestInsertByteNibblesAreTwoBits(t *testing.T) {
	freq := [numEmbedFreqs]int{0, 1, 2, 3}
	var block Block
	insertByte(0xFF, freq, &block)

	for _, f := range freq {
		assert.Equal(t, int32(0x3), block[f])
	}
}
