package proxy

import (
	"errors"

	"go.uber.org/zap"
)

var (
	// ErrCycleOverflow aborts a traversal whose visit stack grew past the depth
	// threshold, which means a reference cycle escaped classification.
	ErrCycleOverflow = errors.New("probable reference cycle: visit depth exceeded")
	// ErrUnreachable signals a classification result with no proxy variant.
	ErrUnreachable = errors.New("unexpected code path")
)

// DiagKind classifies recoverable anomalies.
type DiagKind string

const (
	// DiagUnsupported is an attribute whose metadata or value cannot be loaded.
	DiagUnsupported DiagKind = "unsupported"
	// DiagReadOnly is a write aimed at a read-only destination.
	DiagReadOnly DiagKind = "read_only"
	// DiagWriteFailed is a write rejected by the live graph.
	DiagWriteFailed DiagKind = "write_failed"
	// DiagDestinationMissing is a save or update target that cannot be resolved.
	DiagDestinationMissing DiagKind = "destination_missing"
	// DiagDanglingReference is a reference whose entity is not in its top-level collection.
	DiagDanglingReference DiagKind = "dangling_reference"
	// DiagUnimplemented is a known gap: array-of-structs fields, batched write-back
	// and references written into collections.
	DiagUnimplemented DiagKind = "unimplemented"
)

// Diagnostic is one logged, non-fatal anomaly of a load, save or update pass.
type Diagnostic struct {
	Kind      DiagKind `json:"kind"`
	Path      string   `json:"path"`
	Attribute string   `json:"attribute"`
	Reason    string   `json:"reason"`
}

// DiagnosticHook receives every diagnostic as it is recorded.
type DiagnosticHook func(Diagnostic)

type recorder struct {
	log   *zap.Logger
	hook  DiagnosticHook
	diags []Diagnostic
}

// newRecorder logs to log, or nowhere when log is nil.
func newRecorder(log *zap.Logger, hook DiagnosticHook) recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return recorder{log: log, hook: hook}
}

func (r *recorder) report(kind DiagKind, path, attr, reason string) {
	d := Diagnostic{Kind: kind, Path: path, Attribute: attr, Reason: reason}
	r.diags = append(r.diags, d)
	r.log.Warn("Attribute skipped",
		zap.String("kind", string(kind)),
		zap.String("path", path),
		zap.String("attribute", attr),
		zap.String("reason", reason),
	)
	if r.hook != nil {
		r.hook(d)
	}
}

// Diagnostics returns the anomalies recorded so far.
func (r *recorder) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), r.diags...)
}

// ResetDiagnostics forgets the recorded anomalies.
func (r *recorder) ResetDiagnostics() {
	r.diags = nil
}

const DefaultMaxDepth = 50

type options struct {
	maxDepth int
	hook     DiagnosticHook
}

// Option configures a Loader or a Writer.
type Option func(*options)

// WithMaxDepth sets the visit depth past which a load fails with ErrCycleOverflow.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxDepth = n
		}
	}
}

// WithDiagnosticHook registers a callback for every recorded diagnostic.
func WithDiagnosticHook(h DiagnosticHook) Option {
	return func(o *options) {
		o.hook = h
	}
}

func buildOptions(opts []Option) options {
	o := options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
