// Command matte adds the white border to a single image file and writes the
// result as PNG, using the same export path as the page.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jo-hoe/whiteborder/internal/border"
	"github.com/jo-hoe/whiteborder/internal/core"
)

func main() {
	in := flag.String("in", "", "input image (PNG, JPEG, GIF, BMP, TIFF, WebP or SVG)")
	out := flag.String("out", "", "output PNG path; defaults to <name>-white-border.png next to the input")
	percent := flag.Int("percent", border.DefaultPercent, "border strength from 0 to 100")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	if *verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		log.Printf("failed to read %s: %v", *in, err)
		os.Exit(1)
	}

	session := core.NewSession(core.WithPercent(*percent))

	if _, err := session.Load(filepath.Base(*in), data); err != nil {
		log.Printf("failed to load %s: %v", *in, err)
		os.Exit(1)
	}

	artifact, err := session.Export()
	if err != nil {
		log.Printf("export failed: %v", err)
		os.Exit(1)
	}

	target := *out
	if target == "" {
		target = filepath.Join(filepath.Dir(*in), artifact.FileName)
	}
	if err := os.WriteFile(target, artifact.Data, 0644); err != nil {
		log.Printf("failed to write %s: %v", target, err)
		os.Exit(1)
	}
	log.Printf("wrote %s (%dx%d, border %dpx)", target, artifact.Width, artifact.Height, artifact.Border)
}
