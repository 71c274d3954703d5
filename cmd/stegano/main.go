package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"strings"

	stegano "github.com/yyyoichi/stegano_zero"
	"github.com/yyyoichi/stegano_zero/internal/imageio"
	"github.com/yyyoichi/stegano_zero/internal/quality"
)

const usage = "usage: stegano <encode|decode|capacity> [flags]"

var errUsage = errors.New(usage)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()
	var err error
	switch os.Args[1] {
	case "encode":
		err = encodeMain(ctx, os.Args[2:])
	case "decode":
		err = decodeMain(ctx, os.Args[2:], os.Stdout)
	case "capacity":
		err = capacityMain(ctx, os.Args[2:], os.Stdout)
	default:
		err = errUsage
	}
	if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// commonFlags are shared by every subcommand.
type commonFlags struct {
	fs      *flag.FlagSet
	input   *string
	config  *string
	framing *string
}

func newCommonFlags(name string) commonFlags {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	return commonFlags{
		fs:      fs,
		input:   fs.String("input", "", "image file or http(s) URL (required)"),
		config:  fs.String("config", "", "YAML config file"),
		framing: fs.String("framing", "", "payload format: terminated, raw or golay (default terminated)"),
	}
}

// parse parses args and returns the config with explicitly set flags applied.
func (c commonFlags) parse(args []string, apply func(cfg *Config, name string)) (Config, error) {
	if err := c.fs.Parse(args); err != nil {
		return Config{}, err
	}
	if *c.input == "" {
		c.fs.PrintDefaults()
		return Config{}, errUsage
	}
	cfg, err := loadConfig(*c.config)
	if err != nil {
		return cfg, err
	}
	c.fs.Visit(func(f *flag.Flag) {
		if f.Name == "framing" {
			cfg.Framing = *c.framing
		}
		if apply != nil {
			apply(&cfg, f.Name)
		}
	})
	return cfg, cfg.validate()
}

func encodeMain(ctx context.Context, args []string) error {
	c := newCommonFlags("encode")
	output := c.fs.String("output", "", "output image, .png .bmp or .tiff (default "+imageio.DefaultOutput+")")
	text := c.fs.String("text", "", "text to hide")
	file := c.fs.String("file", "", "file whose contents to hide")
	opaque := c.fs.Bool("opaque", false, "write fully opaque pixels")
	cfg, err := c.parse(args, func(cfg *Config, name string) {
		switch name {
		case "output":
			cfg.Output = *output
		case "opaque":
			cfg.Opaque = *opaque
		}
	})
	if err != nil {
		return err
	}
	if _, err := imageio.FormatOf(cfg.Output); err != nil {
		return err
	}

	var msg []byte
	if *file != "" {
		msg, err = os.ReadFile(*file)
		if err != nil {
			return err
		}
	} else {
		msg = []byte(strings.TrimSpace(*text))
	}
	if len(msg) == 0 {
		return errors.New("enter a message to hide")
	}

	img, format, err := imageio.NewLoader(cfg.CacheDir).Load(ctx, *c.input)
	if err != nil {
		return err
	}
	rect := img.Bounds()
	log.Printf("Loaded %s (%s, %dx%d)", *c.input, format, rect.Dx(), rect.Dy())

	p, err := cfg.embedPayload(msg)
	if err != nil {
		return err
	}
	s, err := stegano.New(cfg.options()...)
	if err != nil {
		return err
	}
	marked, err := s.Embed(img, p)
	if err != nil {
		if errors.Is(err, stegano.ErrCapacityExceeded) {
			return fmt.Errorf("message too large for this image (%d bytes max): %w",
				stegano.MaxMessageLen(rect.Dx(), rect.Dy()), err)
		}
		return err
	}

	total := stegano.Capacity(rect.Dx(), rect.Dy())
	log.Printf("Embedded %d bytes as %d bits (%.2f%% of %d) with %s framing",
		len(msg), p.Len(), float64(p.Len())/float64(total)*100, total, cfg.Framing)
	if r, err := report(img, marked); err == nil {
		log.Printf("PSNR=%.2fdB Changed=%d/%d channels", r.PSNR, r.Changed, r.Total)
	}

	if err := imageio.Save(cfg.Output, marked); err != nil {
		return err
	}
	log.Printf("Image saved: %s", cfg.Output)
	return nil
}

func report(cover, marked image.Image) (quality.Report, error) {
	a, err := stegano.PixelBufferFromImage(cover)
	if err != nil {
		return quality.Report{}, err
	}
	b, err := stegano.PixelBufferFromImage(marked)
	if err != nil {
		return quality.Report{}, err
	}
	return quality.Compare(a, b)
}

func decodeMain(ctx context.Context, args []string, stdout io.Writer) error {
	c := newCommonFlags("decode")
	output := c.fs.String("output", "", "file to write the message to (default stdout)")
	cfg, err := c.parse(args, nil)
	if err != nil {
		return err
	}

	img, _, err := imageio.NewLoader(cfg.CacheDir).Load(ctx, *c.input)
	if err != nil {
		return err
	}
	s, err := stegano.New()
	if err != nil {
		return err
	}
	p := cfg.extractPayload()
	msg, err := s.Extract(img, p)
	if err != nil {
		return err
	}
	if r, ok := p.(*stegano.TerminatedReader); ok && !r.Terminated() {
		log.Printf("Warning: no terminator found, the image may not hold a message")
	}

	if *output != "" {
		if err := os.WriteFile(*output, msg, 0o644); err != nil {
			return err
		}
		log.Printf("Message written: %s (%d bytes)", *output, len(msg))
		return nil
	}
	_, err = fmt.Fprintln(stdout, string(msg))
	return err
}

func capacityMain(ctx context.Context, args []string, stdout io.Writer) error {
	c := newCommonFlags("capacity")
	cfg, err := c.parse(args, nil)
	if err != nil {
		return err
	}
	img, _, err := imageio.NewLoader(cfg.CacheDir).Load(ctx, *c.input)
	if err != nil {
		return err
	}
	rect := img.Bounds()
	_, err = fmt.Fprintf(stdout, "%dx%d: %d bits, up to %d message bytes\n",
		rect.Dx(), rect.Dy(), stegano.Capacity(rect.Dx(), rect.Dy()), max(stegano.MaxMessageLen(rect.Dx(), rect.Dy()), 0))
	return err
}
