package main

import (
	"fmt"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"
)

// Scaffold files written by "guidebook init". Existing files are never
// overwritten.
var scaffold = map[string]string{
	"book.yaml": `title: My Book
description: ""
author: ""
plugins: []
variables: {}
`,
	"SUMMARY.md": `# My Book

- [Introduction](README.md)
`,
	"README.md": `# Introduction

Welcome to your new book. Edit SUMMARY.md to add chapters.
`,
	"GLOSSARY.md": `# Glossary
`,
}

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	dir := bookDirArg(fs)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	for name, content := range scaffold {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("  skip %s (exists)\n", name)
			continue
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		fmt.Printf("  create %s\n", name)
	}

	fmt.Printf("Book scaffolded in %s\n", dir)
	return nil
}
