package coursebook

import "errors"

// Sentinel errors for library operations.
var (
	// Manifest errors.
	ErrReadMaterials    = errors.New("failed to read materials manifest")
	ErrInvalidMaterials = errors.New("invalid materials manifest")
	ErrInvalidModule    = errors.New("invalid module")

	// Build errors.
	ErrInvalidLayout    = errors.New("invalid layout")
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrReadArt          = errors.New("failed to list art directory")
	ErrTitlePageRender  = errors.New("title page template rendering failed")
	ErrWriteTitlePage   = errors.New("failed to write title page")
	ErrWriteOutline     = errors.New("failed to write outline")

	// Notebook I/O errors.
	ErrReadNotebook  = errors.New("failed to read notebook")
	ErrWriteNotebook = errors.New("failed to write notebook")
	ErrTransform     = errors.New("notebook transform failed")

	// Run errors.
	ErrReadOutline      = errors.New("failed to read outline")
	ErrInvalidOutline   = errors.New("invalid outline")
	ErrExecution        = errors.New("notebook execution failed")
	ErrExecutorNotFound = errors.New("notebook executor not found")
)
