// Package shell provides a PTY-backed process executor.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/creack/pty"
	"go.indexbridge.dev/core/internal/core/ports"
	"go.trai.ch/zerr"
)

// Executor implements ports.Executor using os/exec and a PTY, so tools that
// behave differently under a terminal (most compilers and build tools)
// produce the same output here as they would interactively.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{logger: logger}
}

// Run starts name with args in dir, streaming combined output to out. On
// context cancellation it sends an interrupt to the child and waits for it
// to exit on its own, rather than killing it outright, so partial output
// (e.g. a compiler's own cleanup) isn't lost mid-write.
func (e *Executor) Run(ctx context.Context, name string, args []string, dir string, env []string, out io.Writer) (ports.ProcessResult, error) {
	cmdEnv := resolveEnvironment(os.Environ(), env)

	executable := name
	if !filepath.IsAbs(name) {
		if lp, err := lookPath(name, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.Command(executable, args...) //nolint:gosec // caller-controlled build tool invocation
	if len(cmd.Args) > 0 {
		cmd.Args[0] = name
	}
	cmd.Dir = dir
	cmd.Env = cmdEnv

	e.logger.Debug("starting process", "executable", executable, "dir", dir)

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return ports.ProcessResult{}, zerr.Wrap(err, "failed to start process")
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		_, _ = io.Copy(out, ptmx)
	}()

	waitErr := make(chan error, 1)
	go func() { waitErr <- cmd.Wait() }()

	var cancelled bool
	var exitErr error
	select {
	case exitErr = <-waitErr:
	case <-ctx.Done():
		cancelled = true
		_ = cmd.Process.Signal(os.Interrupt)
		exitErr = <-waitErr
	}

	<-ioDone
	_ = ptmx.Close()

	result := resultFromExit(exitErr, cancelled)
	if result.ExitCode != 0 && !result.Cancelled {
		e.logger.Debug("process exited non-zero", "executable", executable, "exit_code", result.ExitCode)
	}
	return result, nil
}

func resultFromExit(err error, cancelled bool) ports.ProcessResult {
	if err == nil {
		return ports.ProcessResult{ExitCode: 0, Cancelled: cancelled}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		return ports.ProcessResult{
			ExitCode:  code,
			Signalled: code == -1,
			Cancelled: cancelled,
		}
	}

	return ports.ProcessResult{ExitCode: -1, Signalled: true, Cancelled: cancelled}
}

// allowListedEnvVars are the system environment variables inherited by every
// child process, keeping the rest of the invocation hermetic.
var allowListedEnvVars = map[string]struct{}{
	"HOME": {},
	"TERM": {},
	"USER": {},
	"PATH": {},
}

// resolveEnvironment merges the allow-listed system environment with the
// caller-supplied overrides, which win on conflict.
func resolveEnvironment(sysEnv, overrideEnv []string) []string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			if _, allowed := allowListedEnvVars[k]; allowed {
				envMap[k] = v
			}
		}
	}
	for _, entry := range overrideEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			envMap[k] = v
		}
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH
// entry of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}
	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
