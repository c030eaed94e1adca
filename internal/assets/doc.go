// Package assets holds the embedded HTML theme: page templates and the
// static stylesheet and script files written next to every built book.
package assets
