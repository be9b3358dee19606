package chat

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	frameDelimiter = "\n"

	DefaultMaxFrameSize = 4096

	InvalidFormatNotice = "[SERVER] Invalid format. Use 'Name:Message'"
)

func DeliveredFrame(sender, body string) string {
	return "message from " + sender + ": " + body
}

func NotFoundNotice(target string) string {
	return "[SERVER] User " + target + " not found."
}

// ParseRouted splits a frame on its first colon. The body keeps any further
// colons. ok is false when the frame has no colon at all.
func ParseRouted(frame string) (msg RoutedMessage, ok bool) {
	target, body, found := strings.Cut(frame, ":")
	if !found {
		return RoutedMessage{}, false
	}
	return RoutedMessage{Target: target, Body: body}, true
}

// FrameReader reads newline-delimited frames of at most maxSize bytes.
type FrameReader struct {
	sc *bufio.Scanner
}

func NewFrameReader(r io.Reader, maxSize int) *FrameReader {
	if maxSize <= 0 {
		maxSize = DefaultMaxFrameSize
	}
	sc := bufio.NewScanner(r)
	// +1 leaves room for the delimiter itself.
	sc.Buffer(make([]byte, 0, min(maxSize+1, 4096)), maxSize+1)
	return &FrameReader{sc: sc}
}

// Next returns the next frame without its delimiter. A final frame with no
// trailing newline is still returned; io.EOF follows it.
func (fr *FrameReader) Next() (string, error) {
	if fr.sc.Scan() {
		return strings.TrimSuffix(fr.sc.Text(), "\r"), nil
	}
	err := fr.sc.Err()
	switch {
	case err == nil:
		return "", io.EOF
	case errors.Is(err, bufio.ErrTooLong):
		return "", ErrFrameTooLarge
	default:
		return "", fmt.Errorf("read: %w", err)
	}
}
