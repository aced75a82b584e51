package common

import (
	"bytes"
	"testing"
)

func TestBuildHuffmanCodesMatchesDecoderTable(t *testing.T) {
	table := BuildStandardHuffmanTable(StandardDCLuminanceBits, StandardDCLuminanceValues)
	codes := BuildHuffmanCodes(table)

	for _, v := range StandardDCLuminanceValues {
		if codes[v].Len == 0 {
			t.Fatalf("value %d has no assigned code", v)
		}
	}

	// Round-trip every symbol through the decoder.
	for _, v := range StandardDCLuminanceValues {
		c := codes[v]
		var buf bytes.Buffer
		enc := NewHuffmanEncoder(&buf)
		if err := enc.WriteBits(c.Code, c.Len); err != nil {
			t.Fatalf("WriteBits: %v", err)
		}
		if err := enc.Flush(); err != nil {
			t.Fatalf("Flush: %v", err)
		}

		dec := NewHuffmanDecoder(&buf)
		got, err := dec.Decode(table)
		if err != nil {
			t.Fatalf("Decode value %d: %v", v, err)
		}
		if got != v {
			t.Fatalf("Decode round-trip = %d, want %d", got, v)
		}
	}
}

func TestHuffmanEncoderByteStuffing(t *testing.T) {
	var buf bytes.Buffer
	enc := NewHuffmanEncoder(&buf)
	if err := enc.WriteBits(0xFF, 8); err != nil {
		t.Fatalf("WriteBits: %v", err)
	}
	if err := enc.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	want := []byte{0xFF, 0x00}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("got % x, want % x", buf.Bytes(), want)
	}
}

func TestHuffmanEncoderFlushPadsWithOnes(t *testing.T) {
	var buf bytes.Buffer
	enc := NewHuffmanEncoder(&buf)
	if err := enc.WriteBits(0x1, 1); err != nil {
		t.Fatalf("WriteBits: %v", err)
	}
	if err := enc.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	want := byte(0xFF) // 1 followed by seven 1-bits of padding
	if buf.Bytes()[0] != want {
		t.Fatalf("got %#x, want %#x", buf.Bytes()[0], want)
	}
}

func TestEncodeCategoryRoundTripsThroughReceiveExtend(t *testing.T) {
	enc := NewHuffmanEncoder(&bytes.Buffer{})

	for _, v := range []int{0, 1, -1, 5, -5, 127, -127, 1023, -1023} {
		cat, bits := enc.EncodeCategory(v)

		var buf bytes.Buffer
		writeEnc := NewHuffmanEncoder(&buf)
		if cat > 0 {
			if err := writeEnc.WriteBits(bits, cat); err != nil {
				t.Fatalf("WriteBits: %v", err)
			}
		}
		if err := writeEnc.Flush(); err != nil {
			t.Fatalf("Flush: %v", err)
		}

		dec := NewHuffmanDecoder(&buf)
		got, err := dec.ReceiveExtend(cat)
		if err != nil {
			t.Fatalf("ReceiveExtend(%d): %v", cat, err)
		}
		if got != v {
			t.Fatalf("round trip of %d: got %d (cat=%d)", v, got, cat)
		}
	}
}
