package options

import (
	"context"
	"log/slog"
)

type Options struct {
	Logger       *slog.Logger
	Context      context.Context
	UseNamedPipe bool
	PipePath     string
}

type Option func(*Options)

func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

func WithContext(ctx context.Context) Option {
	return func(opts *Options) {
		opts.Context = ctx
	}
}

// WithNamedPipe routes all device access through a hidproxy helper
// listening on a local named pipe instead of the in-process backend.
func WithNamedPipe() Option {
	return func(opts *Options) {
		opts.UseNamedPipe = true
	}
}

// WithPipePath overrides the default hidproxy pipe path.
func WithPipePath(path string) Option {
	return func(opts *Options) {
		opts.PipePath = path
	}
}

func NewOptions(opts ...Option) *Options {
	oo := &Options{
		Logger:  slog.Default(),
		Context: context.Background(),
	}

	for _, opt := range opts {
		opt(oo)
	}

	return oo
}
