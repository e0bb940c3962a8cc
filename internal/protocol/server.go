package protocol

import (
	"bufio"
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/kvshard/kvshard/internal/logger"
	"github.com/kvshard/kvshard/internal/metric"
	"github.com/kvshard/kvshard/internal/router"
)

// Config holds the protocol server's listen address and per-connection
// timeouts and rate limits.
type Config struct {
	// ListenAddress is the TCP address to accept connections on.
	ListenAddress string
	// ReadTimeout bounds how long the server waits for a command line.
	// It applies only when IdleTimeout is zero; otherwise IdleTimeout is
	// the read deadline.
	ReadTimeout time.Duration
	// WriteTimeout bounds how long the server waits to write a reply.
	WriteTimeout time.Duration
	// IdleTimeout closes a connection that issues no commands for this long.
	IdleTimeout time.Duration
	// RateLimit caps commands per second per connection. Zero disables it.
	RateLimit int
}

// DefaultConfig returns the reference configuration from spec §6.
func DefaultConfig() Config {
	return Config{
		ListenAddress: "0.0.0.0:3000",
		ReadTimeout:   30 * time.Second,
		WriteTimeout:  30 * time.Second,
		IdleTimeout:   5 * time.Minute,
		RateLimit:     0,
	}
}

// Server accepts TCP connections and feeds parsed commands to a Router.
type Server struct {
	cfg     Config
	router  *router.Router
	log     logger.Logger
	metrics *metric.Registry

	ln      net.Listener
	wg      sync.WaitGroup
	closing atomic.Bool
}

// New builds a Server. metrics may be nil, in which case op counts are
// not recorded.
func New(cfg Config, rtr *router.Router, log logger.Logger, metrics *metric.Registry) *Server {
	if log == nil {
		log = logger.Default()
	}
	return &Server{cfg: cfg, router: rtr, log: log, metrics: metrics}
}

// Start binds the listen address and begins accepting connections. It
// returns once the listener is bound; connections are served on
// background goroutines until ctx is canceled or Close is called.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddress)
	if err != nil {
		return err
	}
	s.ln = ln
	s.log.Info("protocol server listening", "address", s.cfg.ListenAddress)

	s.wg.Add(1)
	go s.acceptLoop(ctx)
	return nil
}

// Close stops accepting new connections and waits for in-flight
// connection handlers to return.
func (s *Server) Close() error {
	s.closing.Store(true)
	var err error
	if s.ln != nil {
		err = s.ln.Close()
	}
	s.wg.Wait()
	return err
}

func (s *Server) acceptLoop(ctx context.Context) {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if s.closing.Load() {
				return
			}
			s.log.Error("accept failed", "error", err)
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(ctx, conn)
		}()
	}
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	var limiter *rate.Limiter
	if s.cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.cfg.RateLimit), s.cfg.RateLimit)
	}

	r := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if s.cfg.IdleTimeout > 0 {
			conn.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout))
		} else if s.cfg.ReadTimeout > 0 {
			conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		}

		line, err := r.ReadString('\n')
		if err != nil {
			return
		}

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
		}

		req, ok := parseCommand(line)
		if !ok {
			continue // unrecognized line: ignored, connection stays open (spec §6, §7)
		}

		s.router.Route(req)

		reply, ok := <-req.Reply
		if !ok {
			s.log.Warn("reply channel closed before reply, dropping connection")
			return
		}

		if s.metrics != nil {
			s.metrics.OpsTotal.WithLabelValues(req.Op.String()).Inc()
		}

		if s.cfg.WriteTimeout > 0 {
			conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
		}
		if _, err := w.Write(reply); err != nil {
			return
		}
		if err := w.Flush(); err != nil {
			return
		}
	}
}
