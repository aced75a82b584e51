package common

import (
	"bytes"
	"testing"
)

func TestWriterReaderRoundTripSegment(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	payload := []byte{1, 2, 3, 4, 5}
	if err := w.WriteSegment(MarkerDQT, payload); err != nil {
		t.Fatalf("WriteSegment: %v", err)
	}

	r := NewReader(&buf)
	marker, err := r.ReadMarker()
	if err != nil {
		t.Fatalf("ReadMarker: %v", err)
	}
	if marker != MarkerDQT {
		t.Fatalf("marker = %#x, want %#x", marker, MarkerDQT)
	}

	got, err := r.ReadSegment()
	if err != nil {
		t.Fatalf("ReadSegment: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("ReadSegment = %v, want %v", got, payload)
	}
}

func TestReaderSkipsFillBytesBeforeMarker(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0xFF, 0xFF, 0xFF, 0xD8})
	r := NewReader(buf)

	marker, err := r.ReadMarker()
	if err != nil {
		t.Fatalf("ReadMarker: %v", err)
	}
	if marker != MarkerSOI {
		t.Fatalf("marker = %#x, want %#x", marker, MarkerSOI)
	}
}

func TestReaderReadUint16BigEndian(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x01, 0x02})
	r := NewReader(buf)

	v, err := r.ReadUint16()
	if err != nil {
		t.Fatalf("ReadUint16: %v", err)
	}
	if v != 0x0102 {
		t.Fatalf("ReadUint16 = %#x, want %#x", v, 0x0102)
	}
}

func TestReaderReadSegmentRejectsShortLength(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x00, 0x01})
	r := NewReader(buf)

	if _, err := r.ReadSegment(); err == nil {
		t.Fatal("expected an error for a length field < 2")
	}
}

func TestReaderSkipAndReadFull(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0xAA, 0xBB, 0xCC, 0xDD})
	r := NewReader(buf)

	if err := r.Skip(2); err != nil {
		t.Fatalf("Skip: %v", err)
	}

	rest := make([]byte, 2)
	if err := r.ReadFull(rest); err != nil {
		t.Fatalf("ReadFull: %v", err)
	}
	if !bytes.Equal(rest, []byte{0xCC, 0xDD}) {
		t.Fatalf("ReadFull = %v, want [0xCC 0xDD]", rest)
	}
}
