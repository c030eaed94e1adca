package assets

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrTemplateNotFound indicates the requested template does not exist.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrAssetWrite indicates an I/O error while writing theme files.
	ErrAssetWrite = errors.New("failed to write theme asset")
)
