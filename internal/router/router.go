// Package router implements the stateless shard dispatcher: it hashes a
// request's key to a shard id and forwards the request onto that
// shard's bounded channel, falling back from a non-blocking to a
// blocking enqueue when the sink is full.
package router

import (
	"fmt"

	"github.com/spaolacci/murmur3"

	"github.com/kvshard/kvshard/internal/logger"
	"github.com/kvshard/kvshard/internal/shard"
)

// Router holds an immutable vector of per-shard request sinks. It carries
// no mutable state of its own beyond that vector, so the same Router can
// be shared freely across every connection handler goroutine.
type Router struct {
	sinks []chan *shard.Request
	log   logger.Logger
}

// New returns a Router dispatching across sinks, indexed by shard id.
func New(sinks []chan *shard.Request, log logger.Logger) *Router {
	if log == nil {
		log = logger.Default()
	}
	return &Router{sinks: sinks, log: log}
}

// ShardCount reports how many shards this router dispatches across.
func (r *Router) ShardCount() int {
	return len(r.sinks)
}

// ShardFor returns the shard id a key routes to, without sending
// anything. Ping and empty keys route to shard 0.
func (r *Router) ShardFor(key []byte) int {
	if len(key) == 0 {
		return 0
	}
	return int(hash64(key) % uint64(len(r.sinks)))
}

// Route delivers req to the shard key hashes to. It first tries a
// non-blocking send; if the shard's channel is full it falls back to a
// blocking send, which is the system's backpressure mechanism. If the
// target sink turns out to be closed (shutdown race), the request is
// logged and dropped, and req.Reply is closed so the caller's blocking
// receive unblocks with ok == false instead of hanging forever.
func (r *Router) Route(req *shard.Request) {
	id := r.ShardFor(req.Key)
	sink := r.sinks[id]

	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("router: send on closed shard sink, dropping request", "shard", id, "op", req.Op.String())
			close(req.Reply)
		}
	}()

	select {
	case sink <- req:
		return
	default:
	}
	sink <- req
}

// hash64 computes a fast, non-cryptographic 64-bit hash of key. murmur3
// is deterministic, so a key routes to the same shard across restarts,
// which per-shard recovery of WAL and snapshot files depends on.
func hash64(key []byte) uint64 {
	return murmur3.Sum64(key)
}

// String renders a short diagnostic summary, useful in startup logs.
func (r *Router) String() string {
	return fmt.Sprintf("router{shards=%d}", len(r.sinks))
}
