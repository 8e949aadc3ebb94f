package coursebook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-coursebook/internal/process"
)

// Executor runs a notebook and returns the executed document.
type Executor interface {
	Execute(ctx context.Context, req ExecuteRequest) ([]byte, error)
}

// ExecuteRequest describes one notebook execution.
type ExecuteRequest struct {
	Notebook []byte        // Notebook JSON
	Dir      string        // Working directory for the kernel
	Timeout  time.Duration // Per-cell timeout
	Kernel   string        // Empty keeps the notebook's kernel
}

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, dir string, stdin []byte, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner implements CommandRunner using os/exec. The command runs in
// its own process group, killed as a whole when ctx is cancelled.
type ExecRunner struct{}

// Compile-time interface implementation checks.
var (
	_ CommandRunner = (*ExecRunner)(nil)
	_ Executor      = (*NbconvertExecutor)(nil)
)

func (r *ExecRunner) Run(ctx context.Context, dir string, stdin []byte, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- executable comes from config
	process.Bind(cmd)
	cmd.Dir = dir
	cmd.Stdin = bytes.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// DefaultJupyterCommand is the executable NbconvertExecutor invokes.
const DefaultJupyterCommand = "jupyter"

// NbconvertExecutor executes notebooks with `jupyter nbconvert`, streaming
// the notebook through stdin and stdout. Cell errors are recorded in the
// output instead of stopping execution.
type NbconvertExecutor struct {
	Command string
	Runner  CommandRunner
}

// NewNbconvertExecutor creates an executor for the given jupyter executable.
// An empty command uses DefaultJupyterCommand.
func NewNbconvertExecutor(command string) *NbconvertExecutor {
	if command == "" {
		command = DefaultJupyterCommand
	}
	return &NbconvertExecutor{Command: command, Runner: &ExecRunner{}}
}

// Args returns the nbconvert arguments for req.
func (e *NbconvertExecutor) Args(req ExecuteRequest) []string {
	args := []string{
		"nbconvert",
		"--to", "notebook",
		"--execute",
		"--stdin",
		"--stdout",
		"--allow-errors",
		"--ExecutePreprocessor.timeout=" + strconv.Itoa(timeoutSeconds(req.Timeout)),
	}
	if req.Kernel != "" {
		args = append(args, "--ExecutePreprocessor.kernel_name="+req.Kernel)
	}
	return args
}

// timeoutSeconds converts d to whole seconds for nbconvert, rounding up so
// a positive timeout never becomes 0.
func timeoutSeconds(d time.Duration) int {
	return int((d + time.Second - 1) / time.Second)
}

// Execute runs the notebook and returns the executed JSON.
func (e *NbconvertExecutor) Execute(ctx context.Context, req ExecuteRequest) ([]byte, error) {
	stdout, stderr, err := e.Runner.Run(ctx, req.Dir, req.Notebook, e.Command, e.Args(req)...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %v", ErrExecutorNotFound, e.Command, err)
		}
		if msg := lastLine(stderr); msg != "" {
			return nil, fmt.Errorf("%w: %s: %v", ErrExecution, msg, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrExecution, err)
	}
	if len(bytes.TrimSpace(stdout)) == 0 {
		return nil, fmt.Errorf("%w: engine produced no output", ErrExecution)
	}
	return stdout, nil
}

// lastLine returns the last non-blank line of the engine's stderr, which
// carries the exception summary.
func lastLine(stderr []byte) string {
	lines := strings.Split(strings.TrimSpace(string(stderr)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
