// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-coursebook/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForExecutorNotFound returns hints when the Jupyter executable cannot be started.
// Detects CI/Docker environments and suggests installing the engine in the image.
func ForExecutorNotFound() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if inCI || IsInContainer() {
		hints = append(hints, "install nbconvert and ipykernel in the build image")
	} else {
		hints = append(hints, "pip install nbconvert ipykernel")
	}

	if os.Getenv("COURSEBOOK_JUPYTER") == "" {
		hints = append(hints, "set COURSEBOOK_JUPYTER to the jupyter executable of your environment")
	}

	return formatHints(hints)
}

// ForKernel returns hints for kernel startup failures.
func ForKernel(kernel string) string {
	if kernel == "" {
		return format("set NB_KERNEL or --kernel to a name listed by `jupyter kernelspec list`")
	}
	return format("kernel " + kernel + " must appear in `jupyter kernelspec list`")
}

// ForTimeout returns a hint about increasing timeout for slow notebooks.
func ForTimeout() string {
	return format("for long-running notebooks, use --timeout flag or COURSEBOOK_TIMEOUT")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-coursebook/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-coursebook") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForMaterials returns hints when the materials manifest cannot be read.
func ForMaterials() string {
	return format("run from the course repository root, pass it as argument, or use --materials")
}

// ForOutline returns hints when the outline file cannot be read.
func ForOutline() string {
	return format("run generate-book first or pass the outline path as argument")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
