package chat

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/google/uuid"
)

// Handler drives client sessions against a shared Registry.
type Handler struct {
	reg          *Registry
	logger       *slog.Logger
	maxFrameSize int
	writeTimeout time.Duration
}

func NewHandler(reg *Registry, logger *slog.Logger, maxFrameSize int, writeTimeout time.Duration) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		reg:          reg,
		logger:       logger,
		maxFrameSize: maxFrameSize,
		writeTimeout: writeTimeout,
	}
}

// NewClient wraps an accepted connection.
func (h *Handler) NewClient(conn net.Conn) *Client {
	return &Client{
		ID:   uuid.NewString(),
		Conn: conn,
		Sink: NewConnSink(conn, h.writeTimeout),
	}
}

// Serve runs one session until its connection closes or fails. It never
// returns an error: every failure ends only this session.
func (h *Handler) Serve(c *Client) {
	defer func() {
		_ = c.Conn.Close()
	}()

	log := h.logger.With("session_id", c.ID)
	frames := NewFrameReader(c.Conn, h.maxFrameSize)

	// Awaiting identity.
	username, err := frames.Next()
	if err != nil || username == "" {
		log.Debug("handshake failed", "error", err)
		return
	}
	if err := h.reg.Register(username, c.Sink); err != nil {
		log.Debug("register failed", "username", username, "error", err)
		return
	}
	c.Username = username
	log = log.With("username", username)
	log.Info("user connected")

	defer func() {
		if h.reg.UnregisterIfOwner(c.Username, c.Sink) {
			log.Info("user disconnected")
		} else {
			log.Info("displaced session closed")
		}
	}()

	for {
		frame, err := frames.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Debug("read failed", "error", err)
			}
			return
		}
		if frame == "" {
			return
		}
		if err := h.route(c, frame, log); err != nil {
			log.Debug("write to sender failed", "error", err)
			return
		}
	}
}

// route handles one inbound frame. The returned error is a failure writing
// to the sender's own connection; forwarding failures are swallowed.
func (h *Handler) route(c *Client, frame string, log *slog.Logger) error {
	start := time.Now()
	kind := frameInvalid
	defer func() {
		FramesTotal.WithLabelValues(kind).Inc()
		FrameProcessingDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}()

	msg, ok := ParseRouted(frame)
	if !ok {
		return c.Sink.Send(InvalidFormatNotice)
	}

	target, found := h.reg.Lookup(msg.Target)
	if !found {
		kind = frameNotFound
		return c.Sink.Send(NotFoundNotice(msg.Target))
	}

	kind = frameDelivered
	if err := target.Send(DeliveredFrame(c.Username, msg.Body)); err != nil {
		// Best effort: the sender is not told.
		kind = frameForwardFailed
		log.Debug("forward failed", "target", msg.Target, "error", err)
	}
	return nil
}
