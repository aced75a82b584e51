package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/cocosip/go-jpeg-steg/codec"
	"github.com/cocosip/go-jpeg-steg/jpeg/baseline"
	"github.com/cocosip/go-jpeg-steg/stego"
)

// luminanceComponent returns the first (luminance) component of a
// decoded image, per spec.md's non-goal of chroma embedding.
func luminanceComponent(ci *baseline.CoefficientImage) (*baseline.CoeffComponent, error) {
	if len(ci.Components) == 0 {
		return nil, stego.ErrNoComponents
	}
	return ci.Components[0], nil
}

// componentView adapts a decoded CoeffComponent into the minimal view
// the stego package operates over. The returned Blocks slice aliases
// comp.Blocks directly, so Embed's in-place mutations are visible to
// the caller without copying anything back.
func componentView(ci *baseline.CoefficientImage, comp *baseline.CoeffComponent) *stego.ComponentView {
	q := ci.QuantTables[comp.Tq]
	return &stego.ComponentView{
		WidthBlocks:  comp.WidthBlocks,
		HeightBlocks: comp.HeightBlocks,
		QuantTable:   &q,
		Blocks:       comp.Blocks,
	}
}

// prepareCommand builds a carrier JPEG at a chosen quality from raw
// 8-bit grayscale pixel data, through the generic pixel-domain
// codec.Codec.Encode path rather than the coefficient-domain one embed
// and extract use. A carrier prepared this way is encoded once at the
// exact quality it will be embedded at and never re-quantized before
// embedding, which is what lets a later re-encode at that same quality
// (embedCommand's EncodeCoefficients call) leave the embedded bits
// intact.
func prepareCommand() *cli.Command {
	return &cli.Command{
		Name:  "prepare",
		Usage: "encode raw 8-bit grayscale pixel data into a JPEG carrier image",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Required: true, Usage: "raw 8-bit grayscale pixel file (width*height bytes)"},
			&cli.StringFlag{Name: "out", Required: true, Usage: "destination JPEG file"},
			&cli.IntFlag{Name: "width", Required: true, Usage: "image width in pixels"},
			&cli.IntFlag{Name: "height", Required: true, Usage: "image height in pixels"},
			&cli.IntFlag{Name: "quality", Value: 85, Usage: "JPEG quality (1-100) the carrier is prepared at"},
		},
		Action: func(c *cli.Context) error {
			pixels, err := os.ReadFile(c.String("in"))
			if err != nil {
				return fmt.Errorf("read %s: %w", c.String("in"), err)
			}

			width, height := c.Int("width"), c.Int("height")
			if len(pixels) != width*height {
				return fmt.Errorf("pixel file has %d bytes, want %d for a %dx%d grayscale image",
					len(pixels), width*height, width, height)
			}

			cd, err := codec.Get("jpeg-baseline-steg")
			if err != nil {
				return fmt.Errorf("codec lookup: %w", err)
			}

			out, err := cd.Encode(codec.EncodeParams{
				PixelData:  pixels,
				Width:      width,
				Height:     height,
				Components: 1,
				BitDepth:   8,
				Options:    baseline.NewBaselineParameters().WithQuality(c.Int("quality")),
			})
			if err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			if err := os.WriteFile(c.String("out"), out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", c.String("out"), err)
			}

			fmt.Println(color.GreenString("wrote %d-byte carrier JPEG to %s at quality %d",
				len(out), c.String("out"), c.Int("quality")))
			return nil
		},
	}
}
