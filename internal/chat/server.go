package chat

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

type Options struct {
	Addr string
	// MaxSessions caps concurrent connections; 0 means unbounded.
	MaxSessions  int
	MaxFrameSize int
	WriteTimeout time.Duration
}

type Server struct {
	opts     Options
	logger   *slog.Logger
	reg      *Registry
	handler  *Handler
	sem      *semaphore.Weighted
	listener net.Listener

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	conns map[net.Conn]struct{}
	wg    sync.WaitGroup
}

func NewServer(opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	reg := NewRegistry(logger)
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		opts:    opts,
		logger:  logger,
		reg:     reg,
		handler: NewHandler(reg, logger, opts.MaxFrameSize, opts.WriteTimeout),
		ctx:     ctx,
		cancel:  cancel,
		conns:   make(map[net.Conn]struct{}),
	}
	if opts.MaxSessions > 0 {
		s.sem = semaphore.NewWeighted(int64(opts.MaxSessions))
	}
	return s
}

func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	s.listener = ln

	go s.acceptLoop(ln)

	s.logger.Info("server started", "addr", ln.Addr().String(), "max_sessions", s.opts.MaxSessions)
	return nil
}

// Addr is the bound listen address, valid after Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) Registry() *Registry {
	return s.reg
}

// Stop closes the listener and every live connection, then waits for all
// sessions to unregister.
func (s *Server) Stop() {
	s.logger.Info("shutting down")

	s.cancel()
	if s.listener != nil {
		s.listener.Close()
	}

	s.mu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()

	s.logger.Info("shutdown complete")
}

func (s *Server) acceptLoop(ln net.Listener) {
	for {
		// Waiting here leaves excess clients in the listen backlog.
		if s.sem != nil {
			if err := s.sem.Acquire(s.ctx, 1); err != nil {
				return
			}
		}

		conn, err := ln.Accept()
		if err != nil {
			s.release()
			// closed listener: normal shutdown
			return
		}

		s.logger.Info("client connected", "addr", conn.RemoteAddr().String())

		if !s.track(conn) {
			conn.Close()
			s.release()
			return
		}
		c := s.handler.NewClient(conn)
		go func() {
			defer s.wg.Done()
			defer s.release()
			defer s.untrack(conn)
			s.handler.Serve(c)
		}()
	}
}

// track records conn and adds it to the wait group unless Stop has begun.
func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		return false
	}
	s.conns[conn] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

func (s *Server) release() {
	if s.sem != nil {
		s.sem.Release(1)
	}
}
