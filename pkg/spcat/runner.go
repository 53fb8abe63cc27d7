package spcat

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/spectools/pkg/errors"
)

// Default executable names, looked up on PATH.
const (
	DefaultSPCAT  = "spcat"
	DefaultSPFIT  = "spfit"
	DefaultCalbak = "calbak"
)

// Executor runs an external program to completion.
type Executor interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecExecutor runs programs with os/exec. Stdout is discarded; stderr is
// captured and attached to the returned error.
type ExecExecutor struct {
	Dir string // working directory; empty means the current one
}

// Run implements Executor.
func (e ExecExecutor) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = e.Dir
	cmd.Stdout = io.Discard
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return errs.Wrap(errs.ErrCodeProcess, err, "%s failed", name)
		}
		return errs.Wrap(errs.ErrCodeProcess, err, "%s failed: %s", name, msg)
	}
	return nil
}

// Runner drives SPCAT, SPFIT and calbak on a job basename.
type Runner struct {
	Exec   Executor
	SPCAT  string
	SPFIT  string
	Calbak string
	Logger *log.Logger
}

// NewRunner creates a runner with the default executable names.
// A nil executor means ExecExecutor{}; a nil logger means log.Default().
func NewRunner(e Executor, logger *log.Logger) *Runner {
	if e == nil {
		e = ExecExecutor{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Exec:   e,
		SPCAT:  DefaultSPCAT,
		SPFIT:  DefaultSPFIT,
		Calbak: DefaultCalbak,
		Logger: logger,
	}
}

// RunSPCAT simulates the catalog for base from base.int and base.var.
// When base.var is missing, base.par is copied to base.var first.
func (r *Runner) RunSPCAT(ctx context.Context, base string) error {
	if err := errs.ValidateBasename(base); err != nil {
		return err
	}
	params := base + ".var"
	if !exists(params) {
		if !exists(base + ".par") {
			return errs.New(errs.ErrCodeFileNotFound, "no .var or .par file found for %s", base)
		}
		r.Logger.Warn("var file unavailable, using par file", "base", base)
		if err := copyFile(base+".par", params); err != nil {
			return err
		}
	}
	r.Logger.Debug("running spcat", "base", base)
	return r.Exec.Run(ctx, r.SPCAT, base+".int", params)
}

// RunCalbak regenerates base.lin from base.cat and fails when the result
// holds no lines.
func (r *Runner) RunCalbak(ctx context.Context, base string) error {
	if err := errs.ValidateBasename(base); err != nil {
		return err
	}
	if !exists(base + ".cat") {
		return errs.New(errs.ErrCodeFileNotFound, "%s.cat is missing; cannot run calbak", base)
	}
	r.Logger.Debug("running calbak", "base", base)
	if err := r.Exec.Run(ctx, r.Calbak, base+".cat", base+".lin"); err != nil {
		return err
	}
	n, err := countLines(base + ".lin")
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.New(errs.ErrCodeProcess, "no lines produced by calbak; check %s.cat", base)
	}
	return nil
}

// RunSPFIT fits the lines in base.lin using base.par.
func (r *Runner) RunSPFIT(ctx context.Context, base string) error {
	if err := errs.ValidateBasename(base); err != nil {
		return err
	}
	if !exists(base + ".lin") {
		return errs.New(errs.ErrCodeFileNotFound, "%s.lin is missing; cannot run spfit", base)
	}
	r.Logger.Debug("running spfit", "base", base)
	return r.Exec.Run(ctx, r.SPFIT, base+".lin", base+".par")
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, openError(path, err)
	}
	defer f.Close()

	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	if err := sc.Err(); err != nil {
		return 0, errs.Wrap(errs.ErrCodeInternal, err, "read %s", path)
	}
	return n, nil
}
