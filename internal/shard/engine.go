package shard

import (
	"strconv"
	"time"

	"github.com/kvshard/kvshard/internal/logger"
	"github.com/kvshard/kvshard/internal/metric"
	"github.com/kvshard/kvshard/internal/snapshot"
	"github.com/kvshard/kvshard/internal/wal"
)

const (
	activeExpiryInterval = 100 * time.Millisecond
	activeExpiryCap      = 200
)

var (
	replyPong = []byte("PONG\n")
	replyOK   = []byte("OK\n")
	replyNil  = []byte("nil\n")
	replyOne  = []byte("1\n")
	replyZero = []byte("0\n")
)

// Options configures an Engine.
type Options struct {
	ID               int
	Requests         chan *Request
	WAL              *wal.Writer
	SnapshotWriter   *snapshot.Writer
	SnapshotInterval time.Duration
	Logger           logger.Logger

	// Metrics records snapshot duration, active-expiry reclaim counts,
	// and live key counts. Nil disables all of it.
	Metrics *metric.Registry

	// Data, TTL, and Expiry seed the engine's state, normally populated
	// by the Recovery Loader before Run is called. A nil Data/TTL is
	// treated as empty.
	Data   map[string][]byte
	TTL    map[string]uint64
	Expiry *ExpiryIndex
}

// Engine is the per-shard single-writer actor. Exactly one goroutine —
// the one running Run — ever reads or writes data, ttl, and expiry;
// every other task communicates through Requests.
type Engine struct {
	id       int
	shardID  string
	requests chan *Request

	data   map[string][]byte
	ttl    map[string]uint64
	expiry *ExpiryIndex

	wal          *wal.Writer
	snapWriter   *snapshot.Writer
	snapInterval time.Duration
	snapInFlight bool
	snapDone     chan snapshotResult

	log     logger.Logger
	metrics *metric.Registry

	stopped chan struct{}
}

type snapshotResult struct {
	err error
}

// NewEngine builds an Engine from opts. Call Run to start serving.
func NewEngine(opts Options) *Engine {
	data := opts.Data
	if data == nil {
		data = make(map[string][]byte)
	}
	ttl := opts.TTL
	if ttl == nil {
		ttl = make(map[string]uint64)
	}
	expiry := opts.Expiry
	if expiry == nil {
		expiry = NewExpiryIndex()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}
	interval := opts.SnapshotInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}

	return &Engine{
		id:           opts.ID,
		shardID:      strconv.Itoa(opts.ID),
		requests:     opts.Requests,
		data:         data,
		ttl:          ttl,
		expiry:       expiry,
		wal:          opts.WAL,
		snapWriter:   opts.SnapshotWriter,
		snapInterval: interval,
		snapDone:     make(chan snapshotResult, 1),
		log:          log.With("shard", opts.ID),
		metrics:      opts.Metrics,
		stopped:      make(chan struct{}),
	}
}

// Done returns a channel closed once Run has returned. Callers use it to
// know when the engine has stopped touching its WAL writer, so the
// writer can be closed safely behind it.
func (e *Engine) Done() <-chan struct{} {
	return e.stopped
}

// Run is the actor loop. It returns when the request channel closes.
func (e *Engine) Run() {
	defer close(e.stopped)

	expiryTicker := time.NewTicker(activeExpiryInterval)
	defer expiryTicker.Stop()

	snapTicker := time.NewTicker(e.snapInterval)
	defer snapTicker.Stop()

	for {
		select {
		case req, ok := <-e.requests:
			if !ok {
				e.log.Info("engine request channel closed, exiting")
				return
			}
			e.handle(req)

		case <-expiryTicker.C:
			e.activeExpire()
			if e.metrics != nil {
				e.metrics.ShardKeys.WithLabelValues(e.shardID).Set(float64(len(e.data)))
			}

		case <-snapTicker.C:
			e.startSnapshot()

		case res := <-e.snapDone:
			e.snapInFlight = false
			if res.err != nil {
				e.log.Error("snapshot failed, WAL not truncated", "error", res.err)
				continue
			}
			e.wal.Truncate()
		}
	}
}

func (e *Engine) handle(req *Request) {
	switch req.Op {
	case OpPing:
		req.Reply <- replyPong

	case OpSet:
		key := string(req.Key)
		e.data[key] = req.Value
		delete(e.ttl, key)
		e.wal.Append(wal.NewSet(req.Key, req.Value))
		req.Reply <- replyOK

	case OpSetEx:
		key := string(req.Key)
		e.data[key] = req.Value
		expiry := nowMillis() + uint64(req.TTLSeconds)*1000
		e.ttl[key] = expiry
		e.expiry.Push(expiry, key)
		e.wal.Append(wal.NewSetEx(req.Key, req.Value, req.TTLSeconds))
		req.Reply <- replyOK

	case OpGet:
		key := string(req.Key)
		e.lazyExpire(key)
		v, ok := e.data[key]
		if !ok {
			req.Reply <- replyNil
			return
		}
		req.Reply <- appendNewline(v)

	case OpDel:
		key := string(req.Key)
		_, existed := e.data[key]
		delete(e.data, key)
		delete(e.ttl, key)
		if existed {
			e.wal.Append(wal.NewDel(req.Key))
			req.Reply <- replyOne
		} else {
			req.Reply <- replyZero
		}

	case OpExists:
		// Deliberately no lazy expiry here: EX can transiently report 1
		// for a key whose expiry has passed but active expiration has
		// not yet reaped (spec's documented asymmetry).
		_, ok := e.data[string(req.Key)]
		if ok {
			req.Reply <- replyOne
		} else {
			req.Reply <- replyZero
		}

	case OpExpire:
		key := string(req.Key)
		if _, ok := e.data[key]; !ok {
			req.Reply <- replyZero
			return
		}
		expiry := nowMillis() + uint64(req.TTLSeconds)*1000
		e.ttl[key] = expiry
		e.expiry.Push(expiry, key)
		e.wal.Append(wal.NewExpire(req.Key, req.TTLSeconds))
		req.Reply <- replyOne

	case OpTTL:
		key := string(req.Key)
		e.lazyExpire(key)
		if _, ok := e.data[key]; !ok {
			req.Reply <- []byte("-2\n")
			return
		}
		expiry, hasTTL := e.ttl[key]
		if !hasTTL {
			req.Reply <- []byte("-1\n")
			return
		}
		now := nowMillis()
		var remaining int64
		if expiry > now {
			remaining = int64((expiry - now) / 1000)
		}
		req.Reply <- []byte(strconv.FormatInt(remaining, 10) + "\n")

	default:
		// Unrecognized ops never reach the engine — the protocol layer
		// filters them — but reply rather than leaving a caller hung.
		req.Reply <- []byte("nil\n")
	}
}

// lazyExpire removes key from data/ttl if its TTL has passed. The stale
// ExpiryIndex entry is left in place; active expiration filters it later.
func (e *Engine) lazyExpire(key string) {
	expiry, ok := e.ttl[key]
	if !ok {
		return
	}
	if expiry <= nowMillis() {
		delete(e.data, key)
		delete(e.ttl, key)
	}
}

// activeExpire pops up to activeExpiryCap hints whose expiry has passed,
// evicting only those that still agree with TtlMap.
func (e *Engine) activeExpire() {
	now := nowMillis()
	reclaimed := 0
	defer func() {
		if reclaimed > 0 && e.metrics != nil {
			e.metrics.ActiveExpiryReclaimed.WithLabelValues(e.shardID).Add(float64(reclaimed))
		}
	}()

	for i := 0; i < activeExpiryCap; i++ {
		expiry, ok := e.expiry.PeekExpiry()
		if !ok || expiry > now {
			return
		}
		expiry, key, ok := e.expiry.PopMin()
		if !ok {
			return
		}
		if current, live := e.ttl[key]; live && current == expiry {
			delete(e.data, key)
			delete(e.ttl, key)
			reclaimed++
		}
	}
}

// startSnapshot clones the current state and hands it to the snapshot
// writer on a background goroutine. The clone is the logical snapshot
// instant; no request is processed again until the clone completes
// because the loop doesn't select on e.requests while this runs.
func (e *Engine) startSnapshot() {
	if e.snapInFlight || e.snapWriter == nil {
		return
	}
	e.snapInFlight = true

	dataCopy := make(map[string][]byte, len(e.data))
	for k, v := range e.data {
		dataCopy[k] = append([]byte(nil), v...)
	}
	ttlCopy := make(map[string]uint64, len(e.ttl))
	for k, v := range e.ttl {
		ttlCopy[k] = v
	}

	go func() {
		start := time.Now()
		err := e.snapWriter.Create(e.id, dataCopy, ttlCopy)
		if e.metrics != nil {
			e.metrics.SnapshotDuration.WithLabelValues(e.shardID).Observe(time.Since(start).Seconds())
		}
		e.snapDone <- snapshotResult{err: err}
	}()
}

func appendNewline(v []byte) []byte {
	out := make([]byte, len(v)+1)
	copy(out, v)
	out[len(v)] = '\n'
	return out
}

func nowMillis() uint64 {
	return uint64(time.Now().UnixMilli())
}
