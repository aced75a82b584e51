package stego

// ComponentView is the coefficient-domain surface Embed/Extract/Capacity
// operate over: one color component's quantized coefficient blocks plus
// the quantization table that produced them. Embedding only ever
// targets the luminance (first) component, per ijel_capacity's fixed
// compnum == 0 and the explicit non-goal of chroma embedding.
type ComponentView struct {
	WidthBlocks  int
	HeightBlocks int
	QuantTable   *QuantTable
	Blocks       []Block
}

// Capacity returns the number of admissible (usable) blocks in comp —
// an upper bound on the number of payload bytes Embed can carry,
// grounded on ijel_capacity.
func Capacity(comp *ComponentView) int {
	n := 0
	for i := range comp.Blocks {
		if usableBlock(&comp.Blocks[i], comp.QuantTable) {
			n++
		}
	}
	return n
}

// EnergyReport is one block's diagnostic entry, as produced by
// PrintEnergies.
type EnergyReport struct {
	BlockIndex int
	DC         int
	Usable     bool
	PeakACEnergy int
}

// PrintEnergies walks every block of comp and logs its DC level and
// peak out-of-band AC energy through logger, mirroring
// ijel_print_energies. It never affects embedding or extraction; it is
// a read-only diagnostic.
func PrintEnergies(comp *ComponentView, nlevels int, logger Logger) []EnergyReport {
	freqs, nfreqs := findFreqs(comp.QuantTable, nlevels)
	if nfreqs < numEmbedFreqs {
		logger.Logf("print_energies: not enough good frequencies at this quality factor")
		return nil
	}

	reports := make([]EnergyReport, len(comp.Blocks))
	for i := range comp.Blocks {
		dc := dcValue(&comp.Blocks[i], comp.QuantTable)
		usable := dc > 15 && dc < 240
		energy := acEnergy(&comp.Blocks[i], comp.QuantTable, freqs, nfreqs)
		reports[i] = EnergyReport{BlockIndex: i, DC: dc, Usable: usable, PeakACEnergy: energy}
		logger.Logf("block %d: dc=%d usable=%v peak_ac_energy=%d", i, dc, usable, energy)
	}
	return reports
}
