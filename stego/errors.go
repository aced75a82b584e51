package stego

import "errors"

// Sentinel errors for the coefficient-domain embedding engine.
var (
	// ErrInsufficientFrequencies is returned when a quantization table
	// yields fewer than 4 usable embedding frequencies at the
	// configured level count.
	ErrInsufficientFrequencies = errors.New("stego: insufficient usable frequencies at this quality")

	// ErrPayloadTruncated is returned by Extract when the image ran out
	// of usable blocks before the declared message length was reached.
	ErrPayloadTruncated = errors.New("stego: payload truncated, image capacity exhausted")

	// ErrECCSanityFailed is returned by Embed only when
	// Config.StrictECCSanity is set; otherwise the same condition is
	// logged and embedding proceeds without ECC.
	ErrECCSanityFailed = errors.New("stego: ECC sanity check failed")

	// ErrECCDecodeFailed indicates the Reed-Solomon codeword could not
	// be decoded into a plaintext payload.
	ErrECCDecodeFailed = errors.New("stego: ECC decode failed")

	// ErrNoComponents is returned when an image has no usable color
	// component to embed into.
	ErrNoComponents = errors.New("stego: image has no components")
)
