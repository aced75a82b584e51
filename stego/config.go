package stego

// ECCMethod selects the error-correction strategy applied to a payload
// before it is embedded.
type ECCMethod int

const (
	// ECCNone embeds the payload verbatim.
	ECCNone ECCMethod = iota
	// ECCReedSolomon wraps the payload in a Reed-Solomon codeword
	// before embedding.
	ECCReedSolomon
)

// minNLevels is the floor below which a frequency cannot reliably
// carry a 2-bit nibble at 8-bit sample precision: a coefficient whose
// quantization step leaves fewer than 4 representable levels cannot
// distinguish the 4 values 0..3 that insert_byte relies on.
const minNLevels = 4

// Config is the caller-facing configuration surface for an embed or
// extract operation. It mirrors the option set named in the
// specification: frequency-level count, whether the payload length is
// embedded alongside it, the ECC method, the PRNG seed used to permute
// frequency assignment, a hard cap on extracted length, and verbosity.
type Config struct {
	// NLevels is the minimum number of distinguishable quantization
	// levels a frequency must offer to be selected for embedding.
	// Defaults to 4 (the 2-bit-per-coefficient packing floor).
	NLevels int

	// EmbedLength, when true, embeds a 4-byte little-endian length
	// prefix ahead of the payload so Extract is self-describing.
	// When false, the caller must pass the expected length to Extract.
	EmbedLength bool

	// ECCMethod selects the error-correction strategy.
	ECCMethod ECCMethod

	// FreqSeed seeds the per-image frequency permutation (C4). Zero
	// disables permutation: frequencies are always used in the fixed
	// order ijel_find_freqs produced them.
	FreqSeed uint32

	// MaxLen hard-clamps the number of payload bytes Extract will
	// return, even if a (possibly forged) embedded length prefix asks
	// for more.
	MaxLen int

	// StrictECCSanity promotes a failed ECC sanity pre-check from a
	// logged warning to ErrECCSanityFailed returned from Embed.
	StrictECCSanity bool

	// Verbose enables diagnostic logging through Logger.
	Verbose bool

	// Logger receives diagnostic output. Defaults to NoopLogger.
	Logger Logger
}

// Validate normalizes defaults: a non-positive NLevels becomes
// minNLevels, a negative MaxLen becomes 0, and a nil Logger becomes
// NoopLogger. Positive NLevels values below minNLevels are kept as
// given. It never returns an error.
func (c *Config) Validate() error {
	if c.NLevels <= 0 {
		c.NLevels = minNLevels
	}
	if c.MaxLen < 0 {
		c.MaxLen = 0
	}
	if c.Logger == nil {
		c.Logger = NoopLogger{}
	}
	return nil
}

func (c *Config) logf(format string, args ...interface{}) {
	if c.Verbose && c.Logger != nil {
		c.Logger.Logf(format, args...)
	}
}
