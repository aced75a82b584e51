// Command jpegsteg embeds and extracts payloads in the quantized DCT
// coefficients of a JPEG file, surviving re-encoding at the same
// quality the image was embedded at.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/cocosip/go-jpeg-steg/codec"
	"github.com/cocosip/go-jpeg-steg/jpeg/baseline"
	"github.com/cocosip/go-jpeg-steg/stego"
)

// coefficientCodec names the coefficient-domain facade the stego
// package needs that codec.Codec's pixel-oriented Encode/Decode can't
// provide. jpeg/baseline.BaselineCodec implements it; looking it up
// through codec.Get keeps cmd/jpegsteg off a hardcoded constructor the
// same way the teacher's own examples resolve a codec by UID before
// calling it.
type coefficientCodec interface {
	DecodeCoefficients(data []byte) (*baseline.CoefficientImage, error)
	EncodeCoefficients(ci *baseline.CoefficientImage) ([]byte, error)
}

func coefficientCodecFromRegistry() (coefficientCodec, error) {
	c, err := codec.Get("jpeg-baseline-steg")
	if err != nil {
		return nil, fmt.Errorf("codec lookup: %w", err)
	}
	cc, ok := c.(coefficientCodec)
	if !ok {
		return nil, fmt.Errorf("codec %q does not expose coefficient access", c.Name())
	}
	return cc, nil
}

func main() {
	app := &cli.App{
		Name:  "jpegsteg",
		Usage: "embed and extract payloads in JPEG DCT coefficients",
		Commands: []*cli.Command{
			prepareCommand(),
			embedCommand(),
			extractCommand(),
			capacityCommand(),
			energiesCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("jpegsteg: %v", err))
		os.Exit(1)
	}
}

var configFlags = []cli.Flag{
	&cli.IntFlag{Name: "nlevels", Value: 4, Usage: "minimum distinguishable quantization levels a frequency must offer"},
	&cli.BoolFlag{Name: "embed-length", Usage: "embed a 4-byte length prefix alongside the payload"},
	&cli.BoolFlag{Name: "ecc", Usage: "wrap the payload in a Reed-Solomon codeword"},
	&cli.UintFlag{Name: "freq-seed", Usage: "seed for per-image frequency permutation (0 disables permutation)"},
	&cli.IntFlag{Name: "maxlen", Usage: "hard cap on extracted payload length (0 disables)"},
	&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log diagnostic output"},
}

func configFromContext(c *cli.Context) stego.Config {
	eccMethod := stego.ECCNone
	if c.Bool("ecc") {
		eccMethod = stego.ECCReedSolomon
	}
	cfg := stego.Config{
		NLevels:     c.Int("nlevels"),
		EmbedLength: c.Bool("embed-length"),
		ECCMethod:   eccMethod,
		FreqSeed:    uint32(c.Uint("freq-seed")),
		MaxLen:      c.Int("maxlen"),
		Verbose:     c.Bool("verbose"),
	}
	if cfg.Verbose {
		cfg.Logger = newColorLogger()
	}
	return cfg
}

// decodeLuminance reads and decodes a JPEG file, returning its
// coefficient image alongside a stego.ComponentView over the
// luminance component ready for Embed/Extract/Capacity.
func decodeLuminance(path string) (*baseline.CoefficientImage, *stego.ComponentView, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	cc, err := coefficientCodecFromRegistry()
	if err != nil {
		return nil, nil, err
	}
	ci, err := cc.DecodeCoefficients(data)
	if err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", path, err)
	}
	comp, err := luminanceComponent(ci)
	if err != nil {
		return nil, nil, err
	}
	return ci, componentView(ci, comp), nil
}

func embedCommand() *cli.Command {
	return &cli.Command{
		Name:  "embed",
		Usage: "embed a payload file into a JPEG's DCT coefficients",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "in", Required: true, Usage: "source JPEG file"},
			&cli.StringFlag{Name: "out", Required: true, Usage: "destination JPEG file"},
			&cli.StringFlag{Name: "payload", Required: true, Usage: "file containing the payload to embed"},
		}, configFlags...),
		Action: func(c *cli.Context) error {
			ci, view, err := decodeLuminance(c.String("in"))
			if err != nil {
				return err
			}

			payload, err := os.ReadFile(c.String("payload"))
			if err != nil {
				return fmt.Errorf("read payload: %w", err)
			}

			cfg := configFromContext(c)
			ectx, err := stego.NewEmbedContext(view, cfg)
			if err != nil {
				return fmt.Errorf("embed context: %w", err)
			}

			n, err := stego.Embed(ectx, payload)
			if err != nil {
				return fmt.Errorf("embed: %w", err)
			}

			cc, err := coefficientCodecFromRegistry()
			if err != nil {
				return err
			}
			out, err := cc.EncodeCoefficients(ci)
			if err != nil {
				return fmt.Errorf("re-encode: %w", err)
			}
			if err := os.WriteFile(c.String("out"), out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", c.String("out"), err)
			}

			fmt.Println(color.GreenString("embedded %d bytes into %s", n, c.String("out")))
			return nil
		},
	}
}

func extractCommand() *cli.Command {
	return &cli.Command{
		Name:  "extract",
		Usage: "extract a payload from a JPEG's DCT coefficients",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "in", Required: true, Usage: "source JPEG file"},
			&cli.StringFlag{Name: "out", Usage: "destination file for the extracted payload (stdout if omitted)"},
			&cli.IntFlag{Name: "len", Usage: "expected plaintext length when --embed-length was not used"},
		}, configFlags...),
		Action: func(c *cli.Context) error {
			_, view, err := decodeLuminance(c.String("in"))
			if err != nil {
				return err
			}

			cfg := configFromContext(c)
			xctx, err := stego.NewExtractContext(view, cfg)
			if err != nil {
				return fmt.Errorf("extract context: %w", err)
			}

			result, err := stego.Extract(xctx, c.Int("len"))
			if err != nil && !errors.Is(err, stego.ErrPayloadTruncated) {
				return fmt.Errorf("extract: %w", err)
			}
			if errors.Is(err, stego.ErrPayloadTruncated) {
				fmt.Fprintln(os.Stderr, color.YellowString(
					"warning: extracted payload truncated (%d bytes recovered, %d usable blocks seen)",
					result.BytesExtracted, result.UsableBlocksSeen))
			}

			if out := c.String("out"); out != "" {
				if werr := os.WriteFile(out, result.Payload, 0o644); werr != nil {
					return fmt.Errorf("write %s: %w", out, werr)
				}
				fmt.Println(color.GreenString("extracted %d bytes to %s", result.BytesExtracted, out))
				return nil
			}

			_, werr := os.Stdout.Write(result.Payload)
			return werr
		},
	}
}

func capacityCommand() *cli.Command {
	return &cli.Command{
		Name:  "capacity",
		Usage: "report how many payload bytes a JPEG can carry",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "in", Required: true, Usage: "source JPEG file"},
		}, configFlags...),
		Action: func(c *cli.Context) error {
			_, view, err := decodeLuminance(c.String("in"))
			if err != nil {
				return err
			}
			n := stego.Capacity(view)
			fmt.Printf("%d usable blocks (%d bytes)\n", n, n)
			return nil
		},
	}
}

func energiesCommand() *cli.Command {
	return &cli.Command{
		Name:  "energies",
		Usage: "print per-block DC level and peak out-of-band AC energy",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "in", Required: true, Usage: "source JPEG file"},
		}, configFlags...),
		Action: func(c *cli.Context) error {
			_, view, err := decodeLuminance(c.String("in"))
			if err != nil {
				return err
			}
			logger := newColorLogger()
			reports := stego.PrintEnergies(view, c.Int("nlevels"), logger)
			if reports == nil {
				return fmt.Errorf("image cannot support embedding at nlevels=%d", c.Int("nlevels"))
			}
			return nil
		},
	}
}
