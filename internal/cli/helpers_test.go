package cli

import (
	"bytes"
	"context"
	"io"
	"testing"
)

// swapStdout redirects command output to w and returns a restore function.
func swapStdout(w io.Writer) func() {
	old := stdout
	stdout = w
	return func() { stdout = old }
}

// execute runs the root command with args and returns what it printed.
// The cache directory is redirected to a temporary directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var out bytes.Buffer
	defer swapStdout(&out)()

	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}
