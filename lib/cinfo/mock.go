package cinfo

import (
	"net"
	"strings"
	"sync"
)

type Notification struct {
	Block string
	Index int
}

// MockHost accepts client connections and records the notifications they
// send.
type MockHost struct {
	listener net.Listener
	mu       sync.Mutex
	conns    []net.Conn
	received chan Notification
}

func NewMockHost() (*MockHost, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	m := &MockHost{
		listener: ln,
		received: make(chan Notification, 256),
	}
	go m.serve()
	return m, nil
}

func (m *MockHost) Addr() string {
	return m.listener.Addr().String()
}

func (m *MockHost) Received() <-chan Notification {
	return m.received
}

func (m *MockHost) Close() error {
	err := m.listener.Close()
	m.mu.Lock()
	for _, conn := range m.conns {
		conn.Close()
	}
	m.mu.Unlock()
	return err
}

func (m *MockHost) serve() {
	for {
		conn, err := m.listener.Accept()
		if err != nil {
			return
		}
		m.mu.Lock()
		m.conns = append(m.conns, conn)
		m.mu.Unlock()
		go m.handleConn(conn)
	}
}

func (m *MockHost) handleConn(conn net.Conn) {
	buf := make([]byte, 0, 4096)
	tmp := make([]byte, 1024)
	for {
		n, err := conn.Read(tmp)
		if err != nil {
			return
		}
		buf = append(buf, tmp[:n]...)
		for {
			frame, rest, ok := extractSLIPFrame(buf)
			if !ok {
				break
			}
			buf = rest
			addr, args, err := parseOSC(frame)
			if err != nil || len(args) != 1 {
				continue
			}
			block, found := strings.CutPrefix(addr, "/cinfo/")
			index, isInt := args[0].(int32)
			if !found || !isInt {
				continue
			}
			m.received <- Notification{Block: block, Index: int(index)}
		}
	}
}
