package stego

// findFreqs selects up to numEmbedFreqs AC coefficient positions
// (natural order) usable for 2-bit embedding at the given quantization
// table and level count. It walks natural-order index 63 down to 1,
// never considering the DC position 0, taking a position only if its
// quantization step leaves at least nlevels distinguishable values in
// the legal 8-bit coefficient range.
//
// This is grounded directly on ijel_find_freqs: quanta = 255/q[j], and
// a position qualifies when quanta >= nlevels.
func findFreqs(q *QuantTable, nlevels int) (freqs [numEmbedFreqs]int, nfound int) {
	for j := 63; j >= 1 && nfound < numEmbedFreqs; j-- {
		if q[j] == 0 {
			continue
		}
		quanta := 255 / q[j]
		if int(quanta) >= nlevels {
			freqs[nfound] = j
			nfound++
		}
	}
	return freqs, nfound
}
