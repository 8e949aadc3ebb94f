package cli

import (
	"errors"
	"os"

	coursebook "github.com/alnah/go-coursebook"
	"github.com/alnah/go-coursebook/internal/config"
)

// Exit codes for the coursebook commands.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Everything succeeded
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, manifest or outline
	ExitIO      = 3 // File not found, permission denied, write failure
	ExitEngine  = 4 // Notebook engine missing or failing
)

// ErrUsage reports invalid command-line usage.
var ErrUsage = errors.New("invalid usage")

// ExitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Engine errors (exit 4)
	if errors.Is(err, coursebook.ErrExecutorNotFound) ||
		errors.Is(err, coursebook.ErrExecution) {
		return ExitEngine
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, coursebook.ErrReadMaterials) ||
		errors.Is(err, coursebook.ErrReadOutline) ||
		errors.Is(err, coursebook.ErrReadNotebook) ||
		errors.Is(err, coursebook.ErrWriteNotebook) ||
		errors.Is(err, coursebook.ErrReadArt) ||
		errors.Is(err, coursebook.ErrWriteTitlePage) ||
		errors.Is(err, coursebook.ErrWriteOutline) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrFieldRequired) ||
		errors.Is(err, config.ErrInvalidTimeout) ||
		errors.Is(err, coursebook.ErrInvalidMaterials) ||
		errors.Is(err, coursebook.ErrInvalidModule) ||
		errors.Is(err, coursebook.ErrInvalidLayout) ||
		errors.Is(err, coursebook.ErrInvalidAssetPath) ||
		errors.Is(err, coursebook.ErrInvalidOutline) {
		return ExitUsage
	}

	return ExitGeneral
}
