package stego

// EmbedContext holds everything one Embed call needs: the component to
// write into, its configuration, and the frequency selection/PRNG state
// for the image (constructed once, advanced per block).
type EmbedContext struct {
	Comp   *ComponentView
	Config Config
	freqs  *FrequencySpec
}

// NewEmbedContext validates cfg and selects embedding frequencies for
// comp's quantization table. It returns ErrInsufficientFrequencies
// (with a context still usable for inspection) if the table can't
// support 2-bit-per-coefficient embedding at cfg.NLevels.
func NewEmbedContext(comp *ComponentView, cfg Config) (*EmbedContext, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	fs, err := NewFrequencySpec(comp.QuantTable, cfg.NLevels, cfg.FreqSeed)
	ctx := &EmbedContext{Comp: comp, Config: cfg, freqs: fs}
	return ctx, err
}

// Embed writes payload into ctx.Comp's usable blocks in raster order,
// optionally wrapping it in a Reed-Solomon codeword and/or prefixing a
// 4-byte embedded length, and returns the number of plaintext bytes
// actually embedded.
//
// Grounded on ijel_stuff_message: the plaintext length is captured
// before ECC framing, ECC encode failure silently falls back to
// plaintext, and the length-prefix bytes (when enabled) are written
// into the first 4 usable blocks ahead of the payload itself.
func Embed(ctx *EmbedContext, payload []byte) (int, error) {
	cfg := &ctx.Config
	if ctx.freqs == nil || ctx.freqs.NFreqs < numEmbedFreqs {
		return 0, ErrInsufficientFrequencies
	}

	plainLen := len(payload)
	message := payload
	eccInUse := false

	if cfg.ECCMethod == ECCReedSolomon {
		if !eccSanityCheck(payload) {
			cfg.logf("embed: ECC sanity check failed for a %d-byte payload", len(payload))
			if cfg.StrictECCSanity {
				return 0, ErrECCSanityFailed
			}
		}

		codeword, ok := eccEncode(payload, cfg.EmbedLength)
		if ok {
			message = codeword
			eccInUse = true
		}
		// On encode failure, message stays the raw payload and ECC is
		// silently disabled for this call, per the "on encode failure"
		// fallback rule.
	}

	embedK := 0
	lengthIn := uint32(0)
	if cfg.EmbedLength {
		embedK = lengthPrefixSize
		lengthIn = uint32(len(message))
		cfg.logf("embed: embedded length = %d bytes", lengthIn)
	}

	k := 0
	msglen := len(message)

	for i := range ctx.Comp.Blocks {
		if embedK <= 0 && k >= msglen {
			break
		}
		block := &ctx.Comp.Blocks[i]
		if !usableBlock(block, ctx.Comp.QuantTable) {
			continue
		}

		flist := ctx.freqs.freqsForBlock()

		if embedK > 0 {
			insertByte(byte(lengthIn&0xFF), flist, block)
			lengthIn >>= 8
			embedK--
		} else {
			insertByte(message[k], flist, block)
			k++
		}
	}

	if eccInUse {
		k = plainLen
	}

	return k, nil
}

// eccSanityCheck is a cheap pre-flight consistency check before ECC
// encoding: the original logs a warning and continues when it looks
// suspect rather than aborting, so this only ever gates a log line
// (or, under Config.StrictECCSanity, a returned error) — it never
// blocks the fallback-to-plaintext path.
func eccSanityCheck(payload []byte) bool {
	return len(payload) > 0
}
