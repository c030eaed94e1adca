// Package guidebook turns a directory of Markdown documents plus a
// SUMMARY.md outline into a linked static HTML book.
//
// The package exposes the three core transforms: the outline parser
// (ParseOutline), the content renderer (Renderer), and the glossary
// annotator (Glossary.Annotate). File walking, page templating and
// output writing live in internal/build; the guidebook CLI is in
// cmd/guidebook.
package guidebook
