package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/guide-inc-org/guidebook"
	"github.com/guide-inc-org/guidebook/internal/build"
	"github.com/guide-inc-org/guidebook/internal/search"
	"github.com/guide-inc-org/guidebook/internal/serve"
)

// bookDirArg returns the positional book directory, defaulting to ".".
func bookDirArg(fs *flag.FlagSet) string {
	if fs.NArg() > 0 {
		return fs.Arg(0)
	}
	return "."
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	out := fs.StringP("output", "o", "_book", "output directory")
	quiet := fs.BoolP("quiet", "q", false, "only show errors")
	if err := fs.Parse(args); err != nil {
		return err
	}

	bookDir := bookDirArg(fs)
	stats, err := build.New(build.Options{
		BookDir: bookDir,
		OutDir:  *out,
	}).Build()
	if err != nil {
		return err
	}

	if !*quiet {
		fmt.Printf("Built %d pages into %s", stats.Pages, *out)
		if stats.Warnings > 0 {
			fmt.Printf(" (%d warnings)", stats.Warnings)
		}
		fmt.Println()
	}
	return nil
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", "localhost:4000", "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	bookDir := bookDirArg(fs)
	outDir, err := os.MkdirTemp("", "guidebook-serve-*")
	if err != nil {
		return fmt.Errorf("creating serve directory: %w", err)
	}
	defer os.RemoveAll(outDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve.New(serve.Options{
		SourceDir: bookDir,
		ServeDir:  outDir,
		Addr:      *addr,
		Rebuild: func() error {
			_, err := build.New(build.Options{BookDir: bookDir, OutDir: outDir}).Build()
			return err
		},
	}).Run(ctx)
}

func runSearch(args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	out := fs.StringP("output", "o", "_book", "built book directory")
	max := fs.IntP("max", "n", 10, "maximum number of results")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("search needs a query")
	}

	idx, err := search.Open(*out)
	if err != nil {
		return err
	}
	defer idx.Close()

	query := fs.Arg(0)
	results, err := idx.Search(query, *max)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Printf("No results for %q\n", query)
		return nil
	}
	for _, r := range results {
		fmt.Printf("%-40s %s\n", r.Title, r.Path)
	}
	return nil
}

func runPDF(args []string) error {
	fs := flag.NewFlagSet("pdf", flag.ContinueOnError)
	out := fs.StringP("output", "o", "book.pdf", "output PDF path")
	timeout := fs.Duration("timeout", 2*time.Minute, "per-render browser timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	bookDir := bookDirArg(fs)
	doc, err := build.New(build.Options{BookDir: bookDir}).BuildPrintHTML()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp("", "guidebook-print-*.html")
	if err != nil {
		return fmt.Errorf("creating print file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(doc); err != nil {
		tmp.Close()
		return fmt.Errorf("writing print file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing print file: %w", err)
	}

	absPath, err := filepath.Abs(tmpPath)
	if err != nil {
		return err
	}

	exporter := guidebook.NewPDFExporter(*timeout)
	defer exporter.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pdf, err := exporter.RenderFromFile(ctx, absPath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, pdf, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", *out, err)
	}
	fmt.Printf("Wrote %s\n", *out)
	return nil
}
