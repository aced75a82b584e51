package stego

import (
	"encoding/binary"

	"github.com/klauspost/reedsolomon"
)

// Shard geometry for the Reed-Solomon bridge: a fixed number of
// parity shards over a variable number of equal-size data shards,
// mirroring the per-call reedsolomon.New(dataShards, parityShards)
// pattern used by the pack's own FEC layer (xtaci/kcp-go's fec.go).
const (
	eccDataShards   = 16
	eccParityShards = 4
	eccTotalShards  = eccDataShards + eccParityShards

	// lengthPrefixSize is the size of the little-endian plaintext
	// length embedded ahead of the payload in framed mode.
	lengthPrefixSize = 4
)

// eccBlockLength rounds k up to a whole number of RS shards, matching
// ijel_ecc_block_length's role of aligning an observed extracted byte
// count to the codeword's true shard boundary before reconstruction.
func eccBlockLength(k int) int {
	shardSize := (k + eccTotalShards - 1) / eccTotalShards
	if shardSize == 0 {
		shardSize = 1
	}
	return shardSize * eccTotalShards
}

// eccMessageLength returns the length of the RS codeword that encoding
// a plaintext of length k (optionally length-framed) will produce.
func eccMessageLength(k int, framed bool) int {
	n := k
	if framed {
		n += lengthPrefixSize
	}
	shardSize := divCeil(n, eccDataShards)
	if shardSize == 0 {
		shardSize = 1
	}
	return shardSize * eccTotalShards
}

func divCeil(a, b int) int {
	return (a + b - 1) / b
}

// eccEncode wraps raw in a Reed-Solomon codeword. When framed is true,
// a 4-byte little-endian length prefix is embedded in the plaintext
// ahead of RS encoding so eccDecode can recover the length without an
// external hint. On any failure to build a valid codeword (e.g. an
// empty payload, which cannot form a non-degenerate shard split), ok
// is false and the caller falls back to plaintext, per the "on encode
// failure" rule.
func eccEncode(raw []byte, framed bool) (codeword []byte, ok bool) {
	plain := raw
	if framed {
		plain = make([]byte, lengthPrefixSize+len(raw))
		binary.LittleEndian.PutUint32(plain, uint32(len(raw)))
		copy(plain[lengthPrefixSize:], raw)
	}

	if len(raw) == 0 {
		return nil, false
	}

	shardSize := divCeil(len(plain), eccDataShards)
	if shardSize == 0 {
		return nil, false
	}

	shards := make([][]byte, eccTotalShards)
	for i := range shards {
		shards[i] = make([]byte, shardSize)
	}
	for i := 0; i < eccDataShards; i++ {
		start := i * shardSize
		if start >= len(plain) {
			break
		}
		end := start + shardSize
		if end > len(plain) {
			end = len(plain)
		}
		copy(shards[i], plain[start:end])
	}

	enc, err := reedsolomon.New(eccDataShards, eccParityShards)
	if err != nil {
		return nil, false
	}
	if err := enc.Encode(shards); err != nil {
		return nil, false
	}

	out := make([]byte, 0, eccTotalShards*shardSize)
	for _, s := range shards {
		out = append(out, s...)
	}
	return out, true
}

// eccDecode recovers the framed plaintext from a codeword of
// blockLen bytes, trusting the embedded length prefix.
func eccDecode(codeword []byte, blockLen int) (raw []byte, n int, ok bool) {
	plain, ok := eccDataPortion(codeword, blockLen)
	if !ok || len(plain) < lengthPrefixSize {
		return nil, 0, false
	}
	rawLen := int(binary.LittleEndian.Uint32(plain[:lengthPrefixSize]))
	if rawLen < 0 || lengthPrefixSize+rawLen > len(plain) {
		return nil, 0, false
	}
	return plain[lengthPrefixSize : lengthPrefixSize+rawLen], rawLen, true
}

// eccDecodeNoLength recovers rawLen bytes of plaintext from a codeword
// of blockLen bytes, where rawLen is a shared secret supplied by the
// caller rather than embedded in the stream.
func eccDecodeNoLength(codeword []byte, blockLen, rawLen int) (raw []byte, ok bool) {
	plain, ok := eccDataPortion(codeword, blockLen)
	if !ok || rawLen < 0 || rawLen > len(plain) {
		return nil, false
	}
	return plain[:rawLen], true
}

// eccDataPortion extracts the data-shard concatenation of a codeword.
// No erasure information is threaded through the embed/extract driver,
// so this bridge reads the data shards directly; the parity shards
// exist for an external repair pass over a recompressed image, not for
// in-process correction.
func eccDataPortion(codeword []byte, blockLen int) ([]byte, bool) {
	if blockLen <= 0 || blockLen%eccTotalShards != 0 {
		return nil, false
	}
	if len(codeword) < blockLen {
		return nil, false
	}
	shardSize := blockLen / eccTotalShards
	return codeword[:shardSize*eccDataShards], true
}
