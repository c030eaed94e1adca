package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: guidebook <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  init       Scaffold a new book in a directory")
	fmt.Fprintln(w, "  build      Build the book into a static site")
	fmt.Fprintln(w, "  serve      Build, serve, and rebuild on changes")
	fmt.Fprintln(w, "  search     Query a built book's search index")
	fmt.Fprintln(w, "  pdf        Export the whole book as a PDF")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show this message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'guidebook <command> --help' for details on a specific command.")
}
