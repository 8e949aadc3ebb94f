package cli

import (
	"errors"
	"strings"

	coursebook "github.com/alnah/go-coursebook"
	"github.com/alnah/go-coursebook/internal/config"
	"github.com/alnah/go-coursebook/internal/hints"
)

// FormatError renders err for the terminal, appending an actionable hint
// when the failure has a known remedy. kernel is the configured kernel
// override, used in kernel hints.
func FormatError(err error, kernel string) string {
	if err == nil {
		return ""
	}
	return "error: " + err.Error() + hintFor(err, kernel)
}

func hintFor(err error, kernel string) string {
	msg := err.Error()

	switch {
	case errors.Is(err, coursebook.ErrExecutorNotFound):
		return hints.ForExecutorNotFound()
	case errors.Is(err, coursebook.ErrExecution) && strings.Contains(msg, "NoSuchKernel"):
		return hints.ForKernel(kernel)
	case errors.Is(err, coursebook.ErrExecution) && strings.Contains(msg, "Timeout"):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(triedPaths(msg))
	case errors.Is(err, coursebook.ErrReadMaterials):
		return hints.ForMaterials()
	case errors.Is(err, coursebook.ErrReadOutline):
		return hints.ForOutline()
	case errors.Is(err, coursebook.ErrWriteOutline),
		errors.Is(err, coursebook.ErrWriteTitlePage):
		return hints.ForOutputDirectory()
	}
	return ""
}

// triedPaths recovers the searched locations from a config lookup error
// ("...: tried a, b").
func triedPaths(msg string) []string {
	_, list, ok := strings.Cut(msg, "tried ")
	if !ok {
		return nil
	}
	return strings.Split(list, ", ")
}
