package stego

// ExtractContext mirrors EmbedContext for the read path: the component
// to read from, its configuration, and the frequency selection/PRNG
// state for the image.
type ExtractContext struct {
	Comp   *ComponentView
	Config Config
	freqs  *FrequencySpec
}

// NewExtractContext validates cfg and selects extraction frequencies
// for comp's quantization table, using the source image's own quant
// table as ijel_unstuff_message does.
func NewExtractContext(comp *ComponentView, cfg Config) (*ExtractContext, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	fs, err := NewFrequencySpec(comp.QuantTable, cfg.NLevels, cfg.FreqSeed)
	ctx := &ExtractContext{Comp: comp, Config: cfg, freqs: fs}
	return ctx, err
}

// ExtractResult reports what Extract recovered, plus the two
// diagnostics distinguishing "extracted exactly what was asked for"
// from "the image's real capacity fell short of a claimed length":
// BytesExtracted is the final payload length, and UsableBlocksSeen
// counts every usable block the driver actually visited, regardless of
// whether it carried a length byte or a payload byte.
type ExtractResult struct {
	Payload          []byte
	BytesExtracted   int
	UsableBlocksSeen int
}

// Extract reads a payload out of ctx.Comp. When Config.EmbedLength is
// set, the length is read from the image itself (the first 4 usable
// blocks); otherwise expectedRawLen names the caller-supplied plaintext
// length ijel calls the "shared secret" passed in out of band.
//
// Grounded on ijel_unstuff_message, including its maxlen clamp applied
// to a length read from the image, and its ECC decode step performed
// after the full block walk rather than incrementally.
func Extract(ctx *ExtractContext, expectedRawLen int) (ExtractResult, error) {
	cfg := &ctx.Config
	if ctx.freqs == nil || ctx.freqs.NFreqs < numEmbedFreqs {
		return ExtractResult{}, ErrInsufficientFrequencies
	}

	embedK := 0
	msglen := 0
	lengthIn := uint32(0)
	bitsUp := 0

	if cfg.EmbedLength {
		embedK = lengthPrefixSize
		msglen = lengthPrefixSize
	} else {
		embedK = 0
		if cfg.ECCMethod == ECCReedSolomon {
			msglen = eccMessageLength(expectedRawLen, false)
		} else {
			msglen = expectedRawLen
		}
	}

	message := make([]byte, msglen)
	k := 0
	usableSeen := 0

	for i := range ctx.Comp.Blocks {
		if k >= msglen {
			break
		}
		block := &ctx.Comp.Blocks[i]
		if !usableBlock(block, ctx.Comp.QuantTable) {
			continue
		}
		usableSeen++

		flist := ctx.freqs.freqsForBlock()
		v := extractByte(flist, block)

		if embedK > 0 {
			lengthIn |= uint32(v) << uint(bitsUp)
			bitsUp += 8
			embedK--
			if embedK <= 0 {
				msglen = int(lengthIn)
				if cfg.MaxLen > 0 && msglen > cfg.MaxLen {
					msglen = cfg.MaxLen
				}
				message = make([]byte, msglen)
			}
		} else {
			if k < len(message) {
				message[k] = v
			}
			k++
		}
	}

	truncated := k < msglen

	if cfg.ECCMethod == ECCReedSolomon {
		truek := eccBlockLength(k)
		var raw []byte
		var ok bool
		if cfg.EmbedLength {
			raw, _, ok = eccDecode(message[:min(k, len(message))], truek)
		} else {
			raw, ok = eccDecodeNoLength(message[:min(k, len(message))], truek, expectedRawLen)
		}
		if !ok {
			return ExtractResult{UsableBlocksSeen: usableSeen}, ErrECCDecodeFailed
		}
		result := ExtractResult{Payload: raw, BytesExtracted: len(raw), UsableBlocksSeen: usableSeen}
		if truncated {
			return result, ErrPayloadTruncated
		}
		return result, nil
	}

	payload := message[:min(k, len(message))]
	result := ExtractResult{Payload: payload, BytesExtracted: len(payload), UsableBlocksSeen: usableSeen}
	if truncated {
		return result, ErrPayloadTruncated
	}
	return result, nil
}
