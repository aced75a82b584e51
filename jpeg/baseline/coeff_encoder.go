package baseline

import (
	"bytes"

	"github.com/cocosip/go-jpeg-steg/jpeg/common"
)

// EncodeCoefficients re-encodes a CoefficientImage directly from its
// (possibly mutated) quantized coefficient blocks, skipping the
// forward DCT and quantization steps entirely. This is the entry
// point a coefficient-domain mutator uses to produce valid JPEG bytes
// without re-quantizing over whatever it wrote into the blocks.
func EncodeCoefficients(ci *CoefficientImage) ([]byte, error) {
	if len(ci.Components) == 0 {
		return nil, common.ErrInvalidComponents
	}

	var buf bytes.Buffer
	writer := common.NewWriter(&buf)

	if err := writer.WriteMarker(common.MarkerSOI); err != nil {
		return nil, err
	}

	usedTq := usedQuantTables(ci)
	if err := writeCoeffDQT(writer, ci, usedTq); err != nil {
		return nil, err
	}

	if err := writeCoeffSOF0(writer, ci); err != nil {
		return nil, err
	}

	dcCodes, acCodes, err := writeCoeffDHT(writer, ci)
	if err != nil {
		return nil, err
	}

	if err := writeCoeffSOS(writer, ci, dcCodes, acCodes); err != nil {
		return nil, err
	}

	if err := writer.WriteMarker(common.MarkerEOI); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func usedQuantTables(ci *CoefficientImage) []int {
	seen := map[int]bool{}
	var out []int
	for _, comp := range ci.Components {
		if !seen[comp.Tq] {
			seen[comp.Tq] = true
			out = append(out, comp.Tq)
		}
	}
	return out
}

func writeCoeffDQT(writer *common.Writer, ci *CoefficientImage, tqs []int) error {
	for _, tq := range tqs {
		data := make([]byte, 1+64)
		data[0] = byte(tq)
		for j := 0; j < 64; j++ {
			data[1+j] = byte(ci.QuantTables[tq][common.ZigZag[j]])
		}
		if err := writer.WriteSegment(common.MarkerDQT, data); err != nil {
			return err
		}
	}
	return nil
}

func writeCoeffSOF0(writer *common.Writer, ci *CoefficientImage) error {
	n := len(ci.Components)
	data := make([]byte, 6+n*3)

	data[0] = 8
	data[1] = byte(ci.Height >> 8)
	data[2] = byte(ci.Height)
	data[3] = byte(ci.Width >> 8)
	data[4] = byte(ci.Width)
	data[5] = byte(n)

	for i, comp := range ci.Components {
		off := 6 + i*3
		data[off] = comp.ID
		data[off+1] = byte(comp.H<<4 | comp.V)
		data[off+2] = byte(comp.Tq)
	}

	return writer.WriteSegment(common.MarkerSOF0, data)
}

type dhtEntry struct {
	class byte
	id    byte
	table *common.HuffmanTable
}

// writeCoeffDHT writes the retained Huffman tables and returns the
// per-table-index canonical codes the scan encoder needs.
func writeCoeffDHT(writer *common.Writer, ci *CoefficientImage) (dcCodes, acCodes [4][]common.HuffmanCode, err error) {
	var entries []dhtEntry
	var usedDC, usedAC [4]bool

	for _, comp := range ci.Components {
		usedDC[dcSelector(comp, ci)] = true
		usedAC[acSelector(comp, ci)] = true
	}

	for i := 0; i < 4; i++ {
		if usedDC[i] && ci.DCTables[i] != nil {
			entries = append(entries, dhtEntry{0, byte(i), ci.DCTables[i]})
			dcCodes[i] = common.BuildHuffmanCodes(ci.DCTables[i])
		}
		if usedAC[i] && ci.ACTables[i] != nil {
			entries = append(entries, dhtEntry{1, byte(i), ci.ACTables[i]})
			acCodes[i] = common.BuildHuffmanCodes(ci.ACTables[i])
		}
	}

	for _, e := range entries {
		total := 0
		for _, c := range e.table.Bits {
			total += c
		}
		data := make([]byte, 1+16+total)
		data[0] = (e.class << 4) | e.id
		for i := 0; i < 16; i++ {
			data[1+i] = byte(e.table.Bits[i])
		}
		copy(data[17:], e.table.Values)
		if werr := writer.WriteSegment(common.MarkerDHT, data); werr != nil {
			return dcCodes, acCodes, werr
		}
	}

	return dcCodes, acCodes, nil
}

// dcSelector/acSelector assign table index 0 to the first component
// (luminance) and 1 to the rest (chrominance), matching how the
// baseline encoder originally laid SOS selectors out.
func dcSelector(comp *CoeffComponent, ci *CoefficientImage) int {
	if comp == ci.Components[0] {
		return 0
	}
	return 1
}

func acSelector(comp *CoeffComponent, ci *CoefficientImage) int {
	return dcSelector(comp, ci)
}

func writeCoeffSOS(writer *common.Writer, ci *CoefficientImage, dcCodes, acCodes [4][]common.HuffmanCode) error {
	n := len(ci.Components)
	data := make([]byte, 1+n*2+3)
	data[0] = byte(n)

	for i, comp := range ci.Components {
		sel := dcSelector(comp, ci)
		data[1+i*2] = comp.ID
		data[1+i*2+1] = byte(sel<<4 | sel)
	}
	data[1+n*2] = 0
	data[2+n*2] = 63
	data[3+n*2] = 0

	if err := writer.WriteSegment(common.MarkerSOS, data); err != nil {
		return err
	}

	var scanBuf bytes.Buffer
	huffEnc := common.NewHuffmanEncoder(&scanBuf)

	maxH, maxV := 1, 1
	for _, comp := range ci.Components {
		if comp.H > maxH {
			maxH = comp.H
		}
		if comp.V > maxV {
			maxV = comp.V
		}
	}
	mcuCols := common.DivCeil(ci.Width, maxH*8)
	mcuRows := common.DivCeil(ci.Height, maxV*8)

	dcPred := make([]int, n)

	for mcuY := 0; mcuY < mcuRows; mcuY++ {
		for mcuX := 0; mcuX < mcuCols; mcuX++ {
			for ci_, comp := range ci.Components {
				sel := dcSelector(comp, ci)
				for v := 0; v < comp.V; v++ {
					for h := 0; h < comp.H; h++ {
						bx := mcuX*comp.H + h
						by := mcuY*comp.V + v
						if err := encodeCoeffBlock(huffEnc, comp, bx, by, dcCodes[sel], acCodes[sel], &dcPred[ci_]); err != nil {
							return err
						}
					}
				}
			}
		}
	}

	if err := huffEnc.Flush(); err != nil {
		return err
	}

	return writer.WriteBytes(scanBuf.Bytes())
}

func encodeCoeffBlock(huffEnc *common.HuffmanEncoder, comp *CoeffComponent, blockX, blockY int, dcCodes, acCodes []common.HuffmanCode, dcPred *int) error {
	idx := blockY*comp.WidthBlocks + blockX
	if idx < 0 || idx >= len(comp.Blocks) {
		return nil
	}
	block := comp.Blocks[idx]

	dcDiff := int(block[0]) - *dcPred
	*dcPred = int(block[0])

	cat, bits := huffEnc.EncodeCategory(dcDiff)
	dcCode := dcCodes[cat]
	if err := huffEnc.WriteBits(uint32(dcCode.Code), dcCode.Len); err != nil {
		return err
	}
	if cat > 0 {
		if err := huffEnc.WriteBits(bits, cat); err != nil {
			return err
		}
	}

	zeroRun := 0
	for k := 1; k < 64; k++ {
		val := int(block[common.ZigZag[k]])

		if val == 0 {
			zeroRun++
			continue
		}

		for zeroRun >= 16 {
			code := acCodes[0xF0]
			if err := huffEnc.WriteBits(uint32(code.Code), code.Len); err != nil {
				return err
			}
			zeroRun -= 16
		}

		cat, bits := huffEnc.EncodeCategory(val)
		rs := byte((zeroRun << 4) | cat)
		code := acCodes[rs]
		if err := huffEnc.WriteBits(uint32(code.Code), code.Len); err != nil {
			return err
		}
		if err := huffEnc.WriteBits(bits, cat); err != nil {
			return err
		}

		zeroRun = 0
	}

	if zeroRun > 0 {
		code := acCodes[0x00]
		if err := huffEnc.WriteBits(uint32(code.Code), code.Len); err != nil {
			return err
		}
	}

	return nil
}
