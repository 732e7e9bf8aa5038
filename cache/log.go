package cache

import "go.uber.org/zap"

// shardLog wraps the *zap.Logger a shard was built with, adding the
// shard id as a constant field so log lines from different shards are
// distinguishable without callers threading it through every call site.
type shardLog struct {
	l *zap.Logger
}

func newShardLog(base *zap.Logger, id int) shardLog {
	return shardLog{l: base.With(zap.Int("shard", id))}
}

func (s shardLog) resized(oldLength, newLength, elems uint32) {
	s.l.Debug("handle table resized",
		zap.Uint32("old_length", oldLength),
		zap.Uint32("new_length", newLength),
		zap.Uint32("elems", elems),
	)
}

func (s shardLog) closedWithPinned(pinned int) {
	s.l.Warn("shard closed with handles still pinned by callers",
		zap.Int("pinned", pinned),
	)
}
