package stego

// lcg is the linear congruential generator used to drive the
// frequency permutation, chosen to match the original implementation's
// PRNG draws bit for bit: state = state*1103515245 + 12345, with the
// usable draw being the low 31 bits.
type lcg struct {
	state uint32
}

func (r *lcg) next() uint32 {
	r.state = r.state*1103515245 + 12345
	return r.state & 0x7fffffff
}

// freqsForBlock returns the frequency order to use for the next block,
// advancing the permutation PRNG state held in fs. The PRNG is NOT
// reseeded per block: it is seeded once per image (when FrequencySpec
// is constructed) and its state persists across every block visited by
// the embed/extract driver, so successive blocks take their
// permutations of the same 4 positions from one continuing PRNG
// stream. Permutations can recur from block to block.
//
// This is an inside-out Fisher-Yates built incrementally into inUse,
// ported from ijel_freqs: the swap index is next() % i, so it is drawn
// from [0, i), and the i==0 guard (rand() % 0 would be a division by
// zero) makes i==0 always take index 0 directly.
func (fs *FrequencySpec) freqsForBlock() [numEmbedFreqs]int {
	if fs.seed == 0 {
		copy(fs.inUse[:], fs.Freqs[:])
		return fs.inUse
	}

	for i := 0; i < numEmbedFreqs; i++ {
		var j int
		if i > 0 {
			j = int(fs.rng.next() % uint32(i))
		} else {
			j = 0
		}
		if j != i {
			fs.inUse[i] = fs.inUse[j]
		}
		fs.inUse[j] = fs.Freqs[i]
	}
	return fs.inUse
}
