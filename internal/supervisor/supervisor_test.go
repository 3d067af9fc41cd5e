package supervisor

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	internalerrors "github.com/jamesprial/mcp-oauth-2.1/internal/errors"
)

func requireProgram(t *testing.T, name string) string {
	t.Helper()
	path, err := exec.LookPath(name)
	if err != nil {
		t.Skipf("%s not available on this host: %v", name, err)
	}
	return path
}

func TestSupervisor_Run_Success(t *testing.T) {
	t.Parallel()

	echo := requireProgram(t, "echo")
	sup := New()

	result, err := sup.Run(context.Background(), Request{
		Program: echo,
		Args:    []string{"hello"},
		Timeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", result.ExitCode)
	}
	if string(result.Stdout) != "hello\n" {
		t.Errorf("Stdout = %q, want %q", result.Stdout, "hello\n")
	}
	if result.TimedOut {
		t.Error("TimedOut = true, want false")
	}
}

func TestSupervisor_Run_NonZeroExit(t *testing.T) {
	t.Parallel()

	sh := requireProgram(t, "false")
	sup := New()

	result, err := sup.Run(context.Background(), Request{
		Program: sh,
		Timeout: 2 * time.Second,
	})
	// Non-zero exit is not a supervisor error; the caller decides.
	if err != nil {
		t.Fatalf("Run() error = %v, want nil (non-zero exit is not a supervisor error)", err)
	}
	if result.ExitCode == 0 {
		t.Error("ExitCode = 0, want non-zero")
	}
}

func TestSupervisor_Run_Timeout(t *testing.T) {
	t.Parallel()

	sleep := requireProgram(t, "sleep")
	sup := New()

	start := time.Now()
	result, err := sup.Run(context.Background(), Request{
		Program:   sleep,
		Args:      []string{"10"},
		Timeout:   300 * time.Millisecond,
		KillGrace: 200 * time.Millisecond,
	})
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("Run() error = nil, want timeout error")
	}
	var de *internalerrors.DomainError
	if ok := errors.As(err, &de); !ok || !errors.Is(de.Kind, internalerrors.ErrTimeout) {
		t.Errorf("expected ErrTimeout kind, got %v", err)
	}
	if !result.TimedOut {
		t.Error("TimedOut = false, want true")
	}
	if elapsed > 2*time.Second {
		t.Errorf("elapsed = %v, took too long to reap after timeout", elapsed)
	}
}

func TestSupervisor_Run_SpawnFailure(t *testing.T) {
	t.Parallel()

	sup := New()
	_, err := sup.Run(context.Background(), Request{
		Program: "/no/such/binary-xyz",
		Timeout: time.Second,
	})
	if err == nil {
		t.Fatal("Run() error = nil, want spawn failure")
	}
	var de *internalerrors.DomainError
	if ok := errors.As(err, &de); !ok || !errors.Is(de.Kind, internalerrors.ErrExternal) {
		t.Errorf("expected ErrExternal kind, got %v", err)
	}
}

func TestSupervisor_Run_MissingProgram(t *testing.T) {
	t.Parallel()

	sup := New()
	_, err := sup.Run(context.Background(), Request{Timeout: time.Second})
	if err == nil {
		t.Fatal("Run() error = nil, want validation error")
	}
}
