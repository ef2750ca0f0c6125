package utils

import (
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"
)

// clientWriteTimeout bounds how long one log line may wait on a subscriber.
// A subscriber that cannot take a line in time is dropped.
const clientWriteTimeout = 100 * time.Millisecond

// Logger writes tagged lines to a base writer and, when listening, copies
// every line to all connected TCP clients.
type Logger struct {
	base     io.Writer
	Port     int
	Listener net.Listener

	mu      sync.Mutex
	clients []net.Conn
}

// NewLogger returns a logger writing to base (stderr when nil).
func NewLogger(base io.Writer) *Logger {
	if base == nil {
		base = os.Stderr
	}
	return &Logger{base: base}
}

// Listen starts a TCP listener on the given port. Port 0 picks a free port.
func (l *Logger) Listen(port int) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return err
	}
	l.Listener = ln
	l.Port = ln.Addr().(*net.TCPAddr).Port
	go l.acceptClients()
	return nil
}

// acceptClients accepts incoming TCP connections until the listener closes.
func (l *Logger) acceptClients() {
	for {
		conn, err := l.Listener.Accept()
		if err != nil {
			return
		}
		l.mu.Lock()
		l.clients = append(l.clients, conn)
		l.mu.Unlock()
	}
}

// Write implements io.Writer so the logger can back a *log.Logger.
func (l *Logger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n, err := l.base.Write(p)
	alive := l.clients[:0]
	for _, conn := range l.clients {
		if derr := conn.SetWriteDeadline(time.Now().Add(clientWriteTimeout)); derr != nil {
			_ = conn.Close()
			continue
		}
		if _, werr := conn.Write(p); werr != nil {
			_ = conn.Close()
			continue
		}
		alive = append(alive, conn)
	}
	l.clients = alive
	return n, err
}

// Tagged returns a *log.Logger whose lines start with "[TAG] ".
func (l *Logger) Tagged(tag string) *log.Logger {
	return log.New(l, "["+tag+"] ", log.LstdFlags|log.Lmsgprefix)
}

// Close stops the listener and drops all clients.
func (l *Logger) Close() error {
	l.mu.Lock()
	for _, conn := range l.clients {
		_ = conn.Close()
	}
	l.clients = nil
	l.mu.Unlock()

	if l.Listener != nil {
		return l.Listener.Close()
	}
	return nil
}

// Discard returns a tagged logger that drops everything. Handy in tests.
func Discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}
