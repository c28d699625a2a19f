// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shaderview

import "github.com/gogpu/shaderview/diag"

// ResolverOption configures a Resolver.
//
// Example:
//
//	r, err := shaderview.NewResolver(lib,
//	    shaderview.WithWorkers(2),
//	    shaderview.WithSink(diag.NewZapSink(zl)),
//	)
type ResolverOption func(*resolverOptions)

type resolverOptions struct {
	workers   int
	queueSize int
	sink      diag.Sink
}

func defaultResolverOptions() resolverOptions {
	return resolverOptions{
		sink: loggerSink{},
	}
}

// WithWorkers sets the number of pool workers. Zero or less means
// runtime.GOMAXPROCS(0).
func WithWorkers(n int) ResolverOption {
	return func(o *resolverOptions) {
		o.workers = n
	}
}

// WithQueueSize sets the per-worker queue capacity. Zero or less picks a
// default proportional to the worker count.
func WithQueueSize(n int) ResolverOption {
	return func(o *resolverOptions) {
		o.queueSize = n
	}
}

// WithSink sends diagnostics to sink instead of the package logger.
// A nil sink discards them.
func WithSink(sink diag.Sink) ResolverOption {
	return func(o *resolverOptions) {
		if sink == nil {
			sink = diag.Discard
		}
		o.sink = sink
	}
}
