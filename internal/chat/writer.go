package chat

import (
	"fmt"
	"io"
	"net"
	"sync"
	"time"
)

// ConnSink writes newline-terminated frames to a connection. Send is safe
// for concurrent use; each frame is written whole.
type ConnSink struct {
	mu           sync.Mutex
	conn         net.Conn
	writeTimeout time.Duration
}

func NewConnSink(conn net.Conn, writeTimeout time.Duration) *ConnSink {
	return &ConnSink{conn: conn, writeTimeout: writeTimeout}
}

func (s *ConnSink) Send(frame string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeTimeout > 0 {
		if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
			return fmt.Errorf("set write deadline: %w", err)
		}
	}
	if _, err := io.WriteString(s.conn, frame+frameDelimiter); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
