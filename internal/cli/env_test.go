package cli

import (
	"bytes"
	"io"
	"os"
	"testing"
)

func TestDefaultEnv(t *testing.T) {
	t.Parallel()

	env := DefaultEnv()
	if env.Stdout != os.Stdout || env.Stderr != os.Stderr {
		t.Error("DefaultEnv() should write to os.Stdout and os.Stderr")
	}
	if env.Now == nil || env.LookupEnv == nil || env.Environ == nil {
		t.Error("DefaultEnv() left a function nil")
	}
}

func TestEnvironment_Notices(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	env := &Environment{Stdout: &out}

	if env.Notices(false) != io.Writer(&out) {
		t.Error("Notices(false) should return Stdout")
	}
	if env.Notices(true) != io.Discard {
		t.Error("Notices(true) should return io.Discard")
	}
}
