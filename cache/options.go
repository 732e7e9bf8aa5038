package cache

import "go.uber.org/zap"

// Options configures a ShardedLRUCache. The zero value is ready to use:
// no metrics hook and a no-op logger. Shard count and the eviction
// algorithm are fixed and not exposed here.
type Options struct {
	// Metrics, if non-nil, receives best-effort structural counters from
	// every shard. See MetricsHook for the event set.
	Metrics MetricsHook

	// Logger receives internal diagnostics: handle-table resizes and
	// misuse reports. Defaults to zap.NewNop() when nil.
	Logger *zap.Logger
}

func (o *Options) logger() *zap.Logger {
	if o == nil || o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}
