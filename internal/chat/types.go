package chat

import "net"

// Sink is the write side of a connected client.
type Sink interface {
	Send(frame string) error
}

type Client struct {
	ID       string
	Conn     net.Conn
	Username string
	Sink     *ConnSink
}

// RoutedMessage is a parsed "<target>:<body>" frame.
type RoutedMessage struct {
	Target string
	Body   string
}

var (
	ErrUsernameInvalid = errorString("username_invalid")
	ErrFrameTooLarge   = errorString("frame_too_large")
)

type errorString string

func (e errorString) Error() string { return string(e) }
