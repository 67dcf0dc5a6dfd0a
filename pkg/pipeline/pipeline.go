// Package pipeline runs scenarios through the layout engine.
//
// A run loads a scenario file, builds an engine from it, settles the initial
// layout, then applies each step and settles again, recording one snapshot
// per step. Results are cached by the content hash of the scenario so
// repeated runs of an unchanged file skip the engine entirely.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Path: "grid.toml"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data, _, err := runner.Export(ctx, result, pipeline.Options{Format: "text"})
//
// Several independent scenarios run concurrently with RunAll; each gets its
// own engine.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/colgrid/pkg/buildinfo"
	"github.com/matzehuels/colgrid/pkg/cache"
	"github.com/matzehuels/colgrid/pkg/errors"
	"github.com/matzehuels/colgrid/pkg/export"
	"github.com/matzehuels/colgrid/pkg/grid"
)

const (
	// DefaultMaxPasses bounds the passes Settle runs after each step. Two
	// are enough to pick up widths measured late during a rescan.
	DefaultMaxPasses = 4

	// DefaultFormat is the default export format.
	DefaultFormat = export.FormatText

	// DefaultParallelism bounds concurrent scenario runs in RunAll.
	DefaultParallelism = 4
)

// Options configures a run.
type Options struct {
	// Path is the scenario file. Ignored when Source is set.
	Path string `json:"path,omitempty"`

	// Source holds the scenario TOML directly.
	Source []byte `json:"-"`

	MaxPasses int    `json:"max_passes,omitempty"`
	Format    string `json:"format,omitempty"`
	Precision int    `json:"precision,omitempty"`

	// Refresh recomputes and rewrites cached results.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Path == "" && len(o.Source) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scenario path or source is required")
	}
	if err := o.ValidateForExport(); err != nil {
		return err
	}
	if o.MaxPasses <= 0 {
		o.MaxPasses = DefaultMaxPasses
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ValidateForExport validates and defaults the export options only.
func (o *Options) ValidateForExport() error {
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Precision == 0 {
		o.Precision = export.DefaultPrecision
	}
	return export.ValidateFormat(o.Format)
}

// ResultKeyOpts returns the cache key options of a layout result.
func (o *Options) ResultKeyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{MaxPasses: o.MaxPasses, Version: buildinfo.Version}
}

// ExportKeyOpts returns the cache key options of an export.
func (o *Options) ExportKeyOpts() cache.ExportKeyOpts {
	return cache.ExportKeyOpts{Format: o.Format, Precision: o.Precision}
}

// Result is the outcome of a scenario run.
type Result struct {
	Name string `json:"name"`

	// Hash is the content hash of the scenario bytes.
	Hash string `json:"hash"`

	// Steps holds the initial layout at index 0 and one entry per step.
	Steps []StepResult `json:"steps"`

	Stats grid.Stats `json:"stats"`

	// Runtime fields, never cached.
	Duration time.Duration `json:"-"`
	CacheHit bool          `json:"-"`
}

// StepResult is the settled layout after a step.
type StepResult struct {
	Index    int           `json:"index"`
	Step     string        `json:"step,omitempty"`
	Snapshot grid.Snapshot `json:"snapshot"`
}

// Final returns the snapshot after the last step.
func (r *Result) Final() grid.Snapshot {
	if len(r.Steps) == 0 {
		return grid.Snapshot{}
	}
	return r.Steps[len(r.Steps)-1].Snapshot
}

// Document converts r for the export package.
func (r *Result) Document() export.Document {
	doc := export.Document{Name: r.Name, Stats: r.Stats, Frames: make([]export.Frame, len(r.Steps))}
	for i, s := range r.Steps {
		doc.Frames[i] = export.Frame{Label: s.Step, Snapshot: s.Snapshot}
	}
	return doc
}
