package spcat

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/spectools/pkg/errors"
)

type call struct {
	name string
	args []string
}

// fakeExec records invocations and runs an optional side effect.
type fakeExec struct {
	calls []call
	fn    func(name string, args []string) error
}

func (f *fakeExec) Run(_ context.Context, name string, args ...string) error {
	f.calls = append(f.calls, call{name: name, args: args})
	if f.fn != nil {
		return f.fn(name, args)
	}
	return nil
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestRunSPCATCopiesPar(t *testing.T) {
	base := filepath.Join(t.TempDir(), "hc3n")
	writeFile(t, base+".int", "int\n")
	writeFile(t, base+".par", "par\n")

	fe := &fakeExec{}
	r := NewRunner(fe, quietLogger())
	if err := r.RunSPCAT(context.Background(), base); err != nil {
		t.Fatalf("RunSPCAT error: %v", err)
	}

	data, err := os.ReadFile(base + ".var")
	if err != nil {
		t.Fatalf("var file not created: %v", err)
	}
	if string(data) != "par\n" {
		t.Errorf("var content = %q, want %q", data, "par\n")
	}

	if len(fe.calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(fe.calls))
	}
	got := fe.calls[0]
	if got.name != DefaultSPCAT {
		t.Errorf("program = %q, want %q", got.name, DefaultSPCAT)
	}
	if strings.Join(got.args, " ") != base+".int "+base+".var" {
		t.Errorf("args = %v", got.args)
	}
}

func TestRunSPCATKeepsExistingVar(t *testing.T) {
	base := filepath.Join(t.TempDir(), "hc3n")
	writeFile(t, base+".var", "var\n")
	writeFile(t, base+".par", "par\n")

	r := NewRunner(&fakeExec{}, quietLogger())
	if err := r.RunSPCAT(context.Background(), base); err != nil {
		t.Fatalf("RunSPCAT error: %v", err)
	}
	data, _ := os.ReadFile(base + ".var")
	if string(data) != "var\n" {
		t.Errorf("var content = %q, want original", data)
	}
}

func TestRunSPCATMissingParams(t *testing.T) {
	base := filepath.Join(t.TempDir(), "hc3n")
	fe := &fakeExec{}
	r := NewRunner(fe, quietLogger())

	err := r.RunSPCAT(context.Background(), base)
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("RunSPCAT error = %v, want FILE_NOT_FOUND", err)
	}
	if len(fe.calls) != 0 {
		t.Errorf("program should not run, got %d calls", len(fe.calls))
	}
}

func TestRunSPCATInvalidBasename(t *testing.T) {
	r := NewRunner(&fakeExec{}, quietLogger())
	err := r.RunSPCAT(context.Background(), "hc3n.par")
	if !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("RunSPCAT error = %v, want INVALID_INPUT", err)
	}
}

func TestRunCalbak(t *testing.T) {
	tests := []struct {
		name     string
		lin      string
		wantCode errs.Code
	}{
		{"lines produced", "line 1\nline 2\n", ""},
		{"empty output", "\n  \n", errs.ErrCodeProcess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := filepath.Join(t.TempDir(), "hc3n")
			writeFile(t, base+".cat", "cat\n")

			fe := &fakeExec{fn: func(_ string, args []string) error {
				return os.WriteFile(args[1], []byte(tt.lin), 0644)
			}}
			r := NewRunner(fe, quietLogger())
			err := r.RunCalbak(context.Background(), base)

			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("RunCalbak error: %v", err)
				}
				return
			}
			if !errs.Is(err, tt.wantCode) {
				t.Errorf("RunCalbak error = %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestRunCalbakMissingCat(t *testing.T) {
	base := filepath.Join(t.TempDir(), "hc3n")
	r := NewRunner(&fakeExec{}, quietLogger())
	if err := r.RunCalbak(context.Background(), base); !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("RunCalbak error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestRunSPFIT(t *testing.T) {
	base := filepath.Join(t.TempDir(), "hc3n")
	fe := &fakeExec{}
	r := NewRunner(fe, quietLogger())

	if err := r.RunSPFIT(context.Background(), base); !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("RunSPFIT without .lin error = %v, want FILE_NOT_FOUND", err)
	}

	writeFile(t, base+".lin", "line\n")
	if err := r.RunSPFIT(context.Background(), base); err != nil {
		t.Fatalf("RunSPFIT error: %v", err)
	}
	if len(fe.calls) != 1 || fe.calls[0].name != DefaultSPFIT {
		t.Errorf("calls = %+v", fe.calls)
	}
}

func TestExecExecutorFailure(t *testing.T) {
	err := ExecExecutor{}.Run(context.Background(), filepath.Join(t.TempDir(), "no-such-program"))
	if !errs.Is(err, errs.ErrCodeProcess) {
		t.Errorf("Run error = %v, want PROCESS_FAILED", err)
	}
}
