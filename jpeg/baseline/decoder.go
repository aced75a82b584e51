package baseline

import (
	"bytes"
	"fmt"
	"io"

	"github.com/cocosip/go-jpeg-steg/jpeg/common"
)

// Component represents a color component in the image
type Component struct {
	ID              byte   // Component identifier
	H               int    // Horizontal sampling factor
	V               int    // Vertical sampling factor
	Tq              int    // Quantization table selector
	width           int    // Component width in blocks
	height          int    // Component height in blocks
	dcTableSelector int    // DC Huffman table selector
	acTableSelector int    // AC Huffman table selector
	dcPred          int    // DC prediction value
	coefBlocks      [][64]int32 // quantized coefficients, one block per entry, natural order
}

// CoeffComponent is the coefficient-domain view of a decoded component,
// handed to callers that need to inspect or mutate quantized DCT
// coefficients before reconstruction (or re-encoding).
type CoeffComponent struct {
	ID          byte
	H, V        int
	Tq          int
	WidthBlocks  int
	HeightBlocks int
	Blocks      [][64]int32 // natural order, row-major by block
}

// CoefficientImage is a decoded JPEG retained in the quantized
// coefficient domain instead of being reconstructed to pixels.
type CoefficientImage struct {
	Width, Height int
	QuantTables   [4][64]int32
	DCTables      [4]*common.HuffmanTable
	ACTables      [4]*common.HuffmanTable
	RestartInterval int
	Components    []*CoeffComponent
}

// Decoder represents a JPEG Baseline decoder
type Decoder struct {
	width      int                     // Image width
	height     int                     // Image height
	components []*Component            // Color components
	qtables    [4][64]int32            // Quantization tables
	dcTables   [4]*common.HuffmanTable // DC Huffman tables
	acTables   [4]*common.HuffmanTable // AC Huffman tables
	mcuWidth   int                     // MCU width in blocks
	mcuHeight  int                     // MCU height in blocks
	restartInt int                     // Restart interval
	precision  int                     // Sample precision (bits)
}

// Decode decodes JPEG Baseline data directly to pixels.
func Decode(jpegData []byte) (pixelData []byte, width, height, components int, err error) {
	ci, err := DecodeCoefficients(jpegData)
	if err != nil {
		return nil, 0, 0, 0, err
	}
	pixelData = reconstructPixels(ci)
	return pixelData, ci.Width, ci.Height, len(ci.Components), nil
}

// DecodeCoefficients decodes JPEG Baseline data and returns the
// quantized coefficient blocks instead of reconstructing pixels,
// letting a caller inspect or mutate coefficients in place.
func DecodeCoefficients(jpegData []byte) (*CoefficientImage, error) {
	r := bytes.NewReader(jpegData)
	reader := common.NewReader(r)

	decoder := &Decoder{}

	marker, err := reader.ReadMarker()
	if err != nil {
		return nil, err
	}
	if marker != common.MarkerSOI {
		return nil, common.ErrInvalidSOI
	}

	for {
		marker, err := reader.ReadMarker()
		if err != nil {
			return nil, err
		}

		switch marker {
		case common.MarkerSOF0:
			if err := decoder.parseSOF(reader); err != nil {
				return nil, err
			}

		case common.MarkerDQT:
			if err := decoder.parseDQT(reader); err != nil {
				return nil, err
			}

		case common.MarkerDHT:
			if err := decoder.parseDHT(reader); err != nil {
				return nil, err
			}

		case common.MarkerDRI:
			if err := decoder.parseDRI(reader); err != nil {
				return nil, err
			}

		case common.MarkerSOS:
			if err := decoder.parseSOS(reader); err != nil {
				return nil, err
			}
			if err := decoder.decodeScan(reader); err != nil {
				return nil, err
			}
			return decoder.coefficientImage(), nil

		case common.MarkerEOI:
			return decoder.coefficientImage(), nil

		default:
			if common.HasLength(marker) {
				if _, err := reader.ReadSegment(); err != nil {
					return nil, err
				}
			}
		}
	}
}

func (d *Decoder) coefficientImage() *CoefficientImage {
	ci := &CoefficientImage{
		Width:           d.width,
		Height:          d.height,
		QuantTables:     d.qtables,
		DCTables:        d.dcTables,
		ACTables:        d.acTables,
		RestartInterval: d.restartInt,
		Components:      make([]*CoeffComponent, len(d.components)),
	}
	for i, comp := range d.components {
		ci.Components[i] = &CoeffComponent{
			ID:           comp.ID,
			H:            comp.H,
			V:            comp.V,
			Tq:           comp.Tq,
			WidthBlocks:  comp.width,
			HeightBlocks: comp.height,
			Blocks:       comp.coefBlocks,
		}
	}
	return ci
}

// parseSOF parses Start of Frame marker
func (d *Decoder) parseSOF(reader *common.Reader) error {
	data, err := reader.ReadSegment()
	if err != nil {
		return err
	}

	if len(data) < 6 {
		return common.ErrInvalidSOF
	}

	d.precision = int(data[0])
	if d.precision != 8 {
		return fmt.Errorf("unsupported precision: %d (only 8-bit supported for baseline)", d.precision)
	}

	d.height = int(data[1])<<8 | int(data[2])
	d.width = int(data[3])<<8 | int(data[4])
	numComponents := int(data[5])

	if d.width <= 0 || d.height <= 0 {
		return common.ErrInvalidDimensions
	}

	if numComponents != 1 && numComponents != 3 {
		return common.ErrInvalidComponents
	}

	if len(data) < 6+numComponents*3 {
		return common.ErrInvalidSOF
	}

	// Parse component specifications
	maxH, maxV := 1, 1
	d.components = make([]*Component, numComponents)

	for i := 0; i < numComponents; i++ {
		offset := 6 + i*3
		comp := &Component{
			ID: data[offset],
			H:  int(data[offset+1] >> 4),
			V:  int(data[offset+1] & 0x0F),
			Tq: int(data[offset+2]),
		}

		if comp.H <= 0 || comp.H > 4 || comp.V <= 0 || comp.V > 4 {
			return common.ErrInvalidSOF
		}

		if comp.H > maxH {
			maxH = comp.H
		}
		if comp.V > maxV {
			maxV = comp.V
		}

		d.components[i] = comp
	}

	// Calculate component dimensions and MCU size
	d.mcuWidth = maxH * 8
	d.mcuHeight = maxV * 8

	for _, comp := range d.components {
		comp.width = common.DivCeil(d.width*comp.H, maxH*8)
		comp.height = common.DivCeil(d.height*comp.V, maxV*8)
		comp.coefBlocks = make([][64]int32, comp.width*comp.height)
	}

	return nil
}

// parseDQT parses Define Quantization Table marker
func (d *Decoder) parseDQT(reader *common.Reader) error {
	data, err := reader.ReadSegment()
	if err != nil {
		return err
	}

	offset := 0
	for offset < len(data) {
		if offset >= len(data) {
			break
		}

		pqTq := data[offset]
		pq := pqTq >> 4   // Precision (0=8-bit, 1=16-bit)
		tq := pqTq & 0x0F // Table ID

		if tq > 3 {
			return common.ErrInvalidDQT
		}

		offset++

		if pq == 0 {
			if offset+64 > len(data) {
				return common.ErrInvalidDQT
			}
			for i := 0; i < 64; i++ {
				d.qtables[tq][common.ZigZag[i]] = int32(data[offset+i])
			}
			offset += 64
		} else {
			if offset+128 > len(data) {
				return common.ErrInvalidDQT
			}
			for i := 0; i < 64; i++ {
				d.qtables[tq][common.ZigZag[i]] = int32(data[offset+i*2])<<8 | int32(data[offset+i*2+1])
			}
			offset += 128
		}
	}

	return nil
}

// parseDHT parses Define Huffman Table marker
func (d *Decoder) parseDHT(reader *common.Reader) error {
	data, err := reader.ReadSegment()
	if err != nil {
		return err
	}

	offset := 0
	for offset < len(data) {
		if offset >= len(data) {
			break
		}

		tcTh := data[offset]
		tc := tcTh >> 4   // Table class (0=DC, 1=AC)
		th := tcTh & 0x0F // Table ID

		if th > 3 {
			return common.ErrInvalidDHT
		}

		offset++

		table := &common.HuffmanTable{}
		totalCodes := 0
		for i := 0; i < 16; i++ {
			if offset >= len(data) {
				return common.ErrInvalidDHT
			}
			table.Bits[i] = int(data[offset])
			totalCodes += table.Bits[i]
			offset++
		}

		if offset+totalCodes > len(data) {
			return common.ErrInvalidDHT
		}
		table.Values = make([]byte, totalCodes)
		copy(table.Values, data[offset:offset+totalCodes])
		offset += totalCodes

		if err := table.Build(); err != nil {
			return err
		}

		if tc == 0 {
			d.dcTables[th] = table
		} else {
			d.acTables[th] = table
		}
	}

	return nil
}

// parseDRI parses Define Restart Interval marker
func (d *Decoder) parseDRI(reader *common.Reader) error {
	data, err := reader.ReadSegment()
	if err != nil {
		return err
	}

	if len(data) != 2 {
		return common.ErrInvalidData
	}

	d.restartInt = int(data[0])<<8 | int(data[1])
	return nil
}

// parseSOS parses Start of Scan marker
func (d *Decoder) parseSOS(reader *common.Reader) error {
	data, err := reader.ReadSegment()
	if err != nil {
		return err
	}

	if len(data) < 1 {
		return common.ErrInvalidSOS
	}

	ns := int(data[0])
	if len(data) < 1+ns*2+3 {
		return common.ErrInvalidSOS
	}

	for i := 0; i < ns; i++ {
		cs := data[1+i*2]
		tdTa := data[1+i*2+1]
		td := int(tdTa >> 4)
		ta := int(tdTa & 0x0F)

		var comp *Component
		for _, c := range d.components {
			if c.ID == cs {
				comp = c
				break
			}
		}

		if comp == nil {
			return common.ErrInvalidSOS
		}

		comp.dcTableSelector = td
		comp.acTableSelector = ta
	}

	return nil
}

// decodeScan decodes the scan data
func (d *Decoder) decodeScan(reader *common.Reader) error {
	var scanData bytes.Buffer
	for {
		b, err := reader.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		if b == 0xFF {
			b2, err := reader.ReadByte()
			if err == io.EOF {
				scanData.WriteByte(b)
				break
			}
			if err != nil {
				return err
			}

			if b2 == 0x00 {
				scanData.WriteByte(b)
				scanData.WriteByte(b2)
			} else if common.IsRST(uint16(0xFF00) | uint16(b2)) {
				continue
			} else {
				break
			}
		} else {
			scanData.WriteByte(b)
		}
	}

	huffDec := common.NewHuffmanDecoder(bytes.NewReader(scanData.Bytes()))

	mcuCols := common.DivCeil(d.width, d.mcuWidth)
	mcuRows := common.DivCeil(d.height, d.mcuHeight)

	for mcuY := 0; mcuY < mcuRows; mcuY++ {
		for mcuX := 0; mcuX < mcuCols; mcuX++ {
			for _, comp := range d.components {
				for v := 0; v < comp.V; v++ {
					for h := 0; h < comp.H; h++ {
						if err := d.decodeBlock(huffDec, comp, mcuX*comp.H+h, mcuY*comp.V+v); err != nil {
							return err
						}
					}
				}
			}
		}
	}

	return nil
}

// decodeBlock decodes a single 8x8 block into its quantized coefficients.
func (d *Decoder) decodeBlock(huffDec *common.HuffmanDecoder, comp *Component, blockX, blockY int) error {
	var coef [64]int32

	dcTable := d.dcTables[comp.dcTableSelector]
	if dcTable == nil {
		return common.ErrInvalidDHT
	}

	s, err := huffDec.Decode(dcTable)
	if err != nil {
		return err
	}

	diff, err := huffDec.ReceiveExtend(int(s))
	if err != nil {
		return err
	}

	comp.dcPred += diff
	coef[0] = int32(comp.dcPred)

	acTable := d.acTables[comp.acTableSelector]
	if acTable == nil {
		return common.ErrInvalidDHT
	}

	k := 1
	for k < 64 {
		rs, err := huffDec.Decode(acTable)
		if err != nil {
			return err
		}

		r := int(rs >> 4)
		s := int(rs & 0x0F)

		if s == 0 {
			if r == 15 {
				k += 16
			} else {
				break
			}
		} else {
			k += r

			if k >= 64 {
				return common.ErrInvalidData
			}

			val, err := huffDec.ReceiveExtend(s)
			if err != nil {
				return err
			}

			coef[common.ZigZag[k]] = int32(val)
			k++
		}
	}

	blockIdx := blockY*comp.width + blockX
	if blockIdx < 0 || blockIdx >= len(comp.coefBlocks) {
		return nil
	}
	comp.coefBlocks[blockIdx] = coef

	return nil
}

// reconstructPixels dequantizes and inverse-transforms every block of a
// CoefficientImage into interleaved pixel data.
func reconstructPixels(ci *CoefficientImage) []byte {
	numComponents := len(ci.Components)
	compData := make([][]byte, numComponents)

	for ci_, comp := range ci.Components {
		data := make([]byte, comp.WidthBlocks*comp.HeightBlocks*64)
		qtable := &ci.QuantTables[comp.Tq]

		for b, block := range comp.Blocks {
			var dq [64]int32
			for i := 0; i < 64; i++ {
				dq[i] = block[i] * qtable[i]
			}
			blockX := b % comp.WidthBlocks
			blockY := b / comp.WidthBlocks
			off := (blockY*comp.WidthBlocks + blockX) * 64
			common.IDCT(dq[:], data[off:], 8)
		}

		compData[ci_] = data
	}

	pixelData := make([]byte, ci.Width*ci.Height*numComponents)

	switch numComponents {
	case 1:
		comp := ci.Components[0]
		data := compData[0]
		for y := 0; y < ci.Height; y++ {
			for x := 0; x < ci.Width; x++ {
				blockX := x / 8
				blockY := y / 8
				if blockX < comp.WidthBlocks && blockY < comp.HeightBlocks {
					off := (blockY*comp.WidthBlocks + blockX) * 64
					pixelData[y*ci.Width+x] = data[off+(y%8)*8+(x%8)]
				}
			}
		}
	case 3:
		maxH := ci.Components[0].H
		maxV := ci.Components[0].V
		for y := 0; y < ci.Height; y++ {
			for x := 0; x < ci.Width; x++ {
				var yy, cb, cr byte
				for i, comp := range ci.Components {
					sx := (x * comp.H) / maxH
					sy := (y * comp.V) / maxV
					blockX := sx / 8
					blockY := sy / 8
					if blockX < comp.WidthBlocks && blockY < comp.HeightBlocks {
						off := (blockY*comp.WidthBlocks + blockX) * 64
						val := compData[i][off+(sy%8)*8+(sx%8)]
						switch i {
						case 0:
							yy = val
						case 1:
							cb = val
						case 2:
							cr = val
						}
					}
				}

				r, g, b := ycbcrToRGB(yy, cb, cr)
				off := (y*ci.Width + x) * 3
				pixelData[off+0] = r
				pixelData[off+1] = g
				pixelData[off+2] = b
			}
		}
	}

	return pixelData
}

// ycbcrToRGB converts YCbCr to RGB
func ycbcrToRGB(yy, cb, cr byte) (byte, byte, byte) {
	y := int(yy)
	cbVal := int(cb) - 128
	crVal := int(cr) - 128

	r := y + (91881*crVal)>>16
	g := y - ((22554*cbVal + 46802*crVal) >> 16)
	b := y + (116130*cbVal)>>16

	return byte(common.Clamp(r, 0, 255)),
		byte(common.Clamp(g, 0, 255)),
		byte(common.Clamp(b, 0, 255))
}
