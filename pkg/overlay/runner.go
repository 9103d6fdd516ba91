package overlay

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/embeddedllama/reoverlay/pkg/errors"
	"github.com/embeddedllama/reoverlay/pkg/logging"
)

// filePermissions is the mode used when a reconciled target is created fresh;
// existing files keep their mode.
const filePermissions = 0o644

// Target binds one file, addressed relative to the repository root, to the
// reconcilers that maintain its overlay state.
type Target struct {
	// Path is the file location relative to the repository root.
	Path string

	// Optional marks targets whose absence is a legitimate no-op.
	Optional bool

	// Reconcilers run in order against the in-memory document.
	Reconcilers []Reconciler
}

// Runner executes a fixed set of targets in order against a repository root.
// Each target is read, reconciled in memory, and written back only when the
// final text differs from the original; a file is never partially written.
// Any fatal reconciler error aborts the whole run immediately.
type Runner struct {
	root    string
	targets []Target
	dryRun  bool
	logger  *zerolog.Logger
}

// Option is a functional option for configuring the Runner.
type Option func(*Runner)

// WithDryRun makes the run report changes without writing any file.
func WithDryRun() Option {
	return func(r *Runner) { r.dryRun = true }
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// New creates a Runner for the given repository root and targets.
func New(root string, targets []Target, opts ...Option) *Runner {
	r := &Runner{
		root:    root,
		targets: targets,
		logger:  logging.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reconciles every target in order and returns the aggregated report.
// Errors halt the run with nothing further applied; correctness of the
// overlay matters more than availability of the tool.
func (r *Runner) Run() (*Report, error) {
	report := &Report{}

	for _, target := range r.targets {
		if err := r.reconcile(target, report); err != nil {
			return nil, err
		}
	}

	return report, nil
}

// reconcile runs one target's reconcilers and persists the result if changed.
func (r *Runner) reconcile(target Target, report *Report) error {
	path := filepath.Join(r.root, target.Path)

	data, err := os.ReadFile(path)
	if err != nil {
		if target.Optional && os.IsNotExist(err) {
			r.logger.Debug().Str("file", target.Path).Msg("Optional target absent, skipping")
			return nil
		}
		return errors.WrapIO("read", path, err)
	}

	text := string(data)
	dirty := false

	for _, rec := range target.Reconcilers {
		out, changed, err := rec.Apply(text)
		if err != nil {
			return fmt.Errorf("%s: %w", target.Path, err)
		}
		if !changed {
			r.logger.Debug().
				Str("file", target.Path).
				Str("overlay", rec.Label()).
				Msg("Already reconciled")
			continue
		}
		text = out
		dirty = true
		report.Add(fmt.Sprintf("%s (%s)", target.Path, rec.Label()))
		r.logger.Info().
			Str("file", target.Path).
			Str("overlay", rec.Label()).
			Msg("Reapplied overlay")
	}

	if !dirty || r.dryRun {
		return nil
	}

	mode := os.FileMode(filePermissions)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(text), mode); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
