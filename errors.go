package guidebook

import "errors"

// Sentinel errors for library operations.
var (
	ErrOutlineNotFound = errors.New("SUMMARY.md not found")
	ErrConfigParse     = errors.New("failed to parse book config")

	// PDF export errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
)
