package baseline

import (
	"fmt"

	"github.com/cocosip/go-jpeg-steg/codec"
)

var _ codec.Codec = (*BaselineCodec)(nil)

const baselineUID = "jpeg-baseline-steg"

// BaselineCodec implements the local codec.Codec interface for JPEG
// Baseline, operating on plain pixel buffers rather than DICOM frames.
type BaselineCodec struct {
	quality int // Default quality (1-100)
}

// NewBaselineCodec creates a new JPEG Baseline codec.
// quality: 1-100, where 100 is best quality (default: 85)
func NewBaselineCodec(quality int) *BaselineCodec {
	if quality < 1 || quality > 100 {
		quality = 85 // default
	}
	return &BaselineCodec{quality: quality}
}

// Name returns the codec name
func (c *BaselineCodec) Name() string {
	return fmt.Sprintf("JPEG Baseline (Quality %d)", c.quality)
}

// UID returns a locally-minted codec identifier.
func (c *BaselineCodec) UID() string {
	return baselineUID
}

// GetDefaultParameters returns the default codec parameters
func (c *BaselineCodec) GetDefaultParameters() *JPEGBaselineParameters {
	params := NewBaselineParameters()
	params.Quality = c.quality
	return params
}

// Encode encodes pixel data to JPEG Baseline format
func (c *BaselineCodec) Encode(params codec.EncodeParams) ([]byte, error) {
	quality := c.quality
	if opts, ok := params.Options.(*JPEGBaselineParameters); ok && opts != nil {
		if err := opts.Validate(); err == nil {
			quality = opts.Quality
		}
	} else if params.Options != nil {
		if err := params.Options.Validate(); err != nil {
			return nil, err
		}
	}

	return Encode(params.PixelData, params.Width, params.Height, params.Components, quality)
}

// Decode decodes JPEG Baseline data to uncompressed pixel data
func (c *BaselineCodec) Decode(data []byte) (*codec.DecodeResult, error) {
	pixelData, width, height, components, err := Decode(data)
	if err != nil {
		return nil, err
	}

	return &codec.DecodeResult{
		PixelData:  pixelData,
		Width:      width,
		Height:     height,
		Components: components,
		BitDepth:   8,
	}, nil
}

// DecodeCoefficients decodes JPEG data down to its quantized DCT
// coefficient blocks, the facade the stego package's coefficient-domain
// embedding kernel operates over. Unlike Decode, it never dequantizes or
// runs the IDCT.
func (c *BaselineCodec) DecodeCoefficients(data []byte) (*CoefficientImage, error) {
	return DecodeCoefficients(data)
}

// EncodeCoefficients re-encodes a (possibly stego-mutated) coefficient
// image straight from its already-quantized blocks, skipping the
// forward DCT and quantization step so embedded bits survive.
func (c *BaselineCodec) EncodeCoefficients(ci *CoefficientImage) ([]byte, error) {
	return EncodeCoefficients(ci)
}

// RegisterBaselineCodec registers the JPEG Baseline codec with the global registry
func RegisterBaselineCodec(quality int) {
	codec.Register(NewBaselineCodec(quality))
}

func init() {
	RegisterBaselineCodec(85)
}
