// Package build drives a whole-book build: it loads the configuration,
// parses the outline, renders every chapter, assembles pages from the
// embedded theme, and writes the output tree including the search index and
// copied assets.
package build
