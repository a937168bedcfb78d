package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/dustin/go-humanize"
	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/hwscaler/accelerator/software"
	"github.com/xaionaro-go/hwscaler/frame"
	"github.com/xaionaro-go/hwscaler/logger"
	"github.com/xaionaro-go/hwscaler/scaler"
	"github.com/xaionaro-go/hwscaler/types"
	"github.com/xaionaro-go/observability"
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "syntax: %s [flags] <image> [<image> ...]\n", os.Args[0])
		pflag.PrintDefaults()
	}

	loggerLevel := logger.LevelWarning
	pflag.Var(&loggerLevel, "log-level", "Log level")
	interpolation := software.InterpolationNearestNeighbor
	pflag.Var(&interpolation, "interpolation", "nearest, approx-bilinear, bilinear or catmull-rom")
	configPath := pflag.String("config", "", "path to a YAML config file")
	sizeString := pflag.String("size", "", "the output box, e.g. 1280x720 (overrides the config)")
	outDir := pflag.String("out-dir", ".", "the directory to write the scaled images to")
	dumpConfig := pflag.Bool("dump-config", false, "print the effective config and exit")
	netPprofAddr := pflag.String("net-pprof-listen-addr", "", "an address to listen for incoming net/pprof connections")
	pflag.Parse()

	l := logrus.Default().WithLevel(loggerLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	logger.SetDefault(func() logger.Logger {
		return l
	})
	defer belt.Flush(ctx)

	if *netPprofAddr != "" {
		observability.Go(ctx, func(ctx context.Context) { l.Error(http.ListenAndServe(*netPprofAddr, nil)) })
	}

	cfg := scaler.DefaultConfig()
	if *configPath != "" {
		f, err := os.Open(*configPath)
		if err != nil {
			l.Fatal(err)
		}
		cfg, err = scaler.ReadConfig(f)
		f.Close()
		if err != nil {
			l.Fatal(err)
		}
	}
	if *sizeString != "" {
		if err := cfg.Output.Geometry.Parse(*sizeString); err != nil {
			l.Fatal(err)
		}
	}

	if *dumpConfig {
		if _, err := cfg.WriteTo(os.Stdout); err != nil {
			l.Fatal(err)
		}
		return
	}

	if len(pflag.Args()) == 0 {
		pflag.Usage()
		os.Exit(1)
	}
	if cfg.Output.Geometry.IsZero() {
		l.Fatalf("the output size is not set (see --size)")
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		l.Fatal(err)
	}

	accel := software.New(interpolation)
	alloc := frame.NewPoolAllocator(frame.DefaultPitchAlignment)
	hw := scaler.NewHardware(accel, alloc, cfg.Options()...)
	defer hw.Close(ctx)

	var bar *progressbar.ProgressBar
	if len(pflag.Args()) > 1 {
		bar = progressbar.Default(int64(len(pflag.Args())), "scaling")
	}
	for _, path := range pflag.Args() {
		if err := scaleFile(ctx, hw, alloc, cfg, path, *outDir); err != nil {
			l.Errorf("unable to scale '%s': %v", path, err)
		}
		if bar != nil {
			bar.Add(1)
		}
	}

	stats := hw.GetStats()
	fmt.Printf(
		"scaled %d of %d frames (dropped: %d); uploaded %s, read back %s\n",
		stats.FramesProcessed, stats.FramesReceived, stats.FramesDroppedTotal(),
		humanize.Bytes(stats.BytesUploaded), humanize.Bytes(stats.BytesReadBack),
	)
}

func scaleFile(
	ctx context.Context,
	hw *scaler.Hardware,
	alloc frame.Allocator,
	cfg scaler.Config,
	path string,
	outDir string,
) error {
	ctx = logger.CtxWithField(ctx, "file", path)
	img, err := imgio.Open(path)
	if err != nil {
		return fmt.Errorf("unable to open the image: %w", err)
	}

	in, err := frame.FromImage(ctx, alloc, img)
	if err != nil {
		return fmt.Errorf("unable to convert the image: %w", err)
	}
	in.Geometry.Orientation = cfg.Input.Orientation

	inputFormat := types.VideoFormat{
		PixelFormat: in.PixelFormat,
		Geometry:    in.Geometry,
	}
	if err := hw.Negotiate(ctx, inputFormat, cfg.Output); err != nil {
		in.Release()
		return err
	}
	logger.Debugf(ctx, "scaling '%s' with %s", path, hw)

	out, err := hw.Scale(ctx, in)
	if err != nil {
		return err
	}
	defer out.Release()

	outImg, err := out.ToImage()
	if err != nil {
		return err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".png"
	if err := imgio.Save(filepath.Join(outDir, name), outImg, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("unable to save the image: %w", err)
	}
	logger.Infof(ctx, "wrote %s (%s)", name, out.Geometry)
	return nil
}
