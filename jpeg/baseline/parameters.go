package baseline

import "github.com/cocosip/go-jpeg-steg/codec"

// Ensure JPEGBaselineParameters implements codec.Options
var _ codec.Options = (*JPEGBaselineParameters)(nil)

// JPEGBaselineParameters contains parameters for JPEG Baseline compression
type JPEGBaselineParameters struct {
	// Quality controls the JPEG compression quality (1-100)
	// - 100: Best quality, minimal compression
	// - 85:  High quality (default)
	// - 75:  Medium quality, good balance
	// - 50:  Lower quality, higher compression
	// - 1:   Lowest quality, maximum compression
	Quality int

	// internal storage for forward-compatible custom parameters
	params map[string]interface{}
}

// NewBaselineParameters creates a new JPEGBaselineParameters with default values
func NewBaselineParameters() *JPEGBaselineParameters {
	return &JPEGBaselineParameters{
		Quality: 85, // Default high quality
		params:  make(map[string]interface{}),
	}
}

// GetParameter retrieves a parameter by name
func (p *JPEGBaselineParameters) GetParameter(name string) interface{} {
	switch name {
	case "quality":
		return p.Quality
	default:
		return p.params[name]
	}
}

// SetParameter sets a parameter value
func (p *JPEGBaselineParameters) SetParameter(name string, value interface{}) {
	switch name {
	case "quality":
		if v, ok := value.(int); ok {
			p.Quality = v
		}
	default:
		p.params[name] = value
	}
}

// Validate checks if the parameters are valid
func (p *JPEGBaselineParameters) Validate() error {
	if p.Quality < 1 || p.Quality > 100 {
		return codec.ErrInvalidQuality
	}
	return nil
}

// WithQuality sets the quality and returns the parameters for chaining
func (p *JPEGBaselineParameters) WithQuality(quality int) *JPEGBaselineParameters {
	p.Quality = quality
	return p
}
