package cinfo

import (
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"deckfw/lib/event"
)

const DefaultQueueSize = 64

// Client tells a connected host which component changed so it can mirror
// live state. Notify never blocks; messages are dropped when the queue is
// full.
type Client struct {
	conn    net.Conn
	queue   chan []byte
	done    chan struct{}
	once    sync.Once
	dropped atomic.Uint64
	log     *slog.Logger
}

func Dial(addr string, queueSize int, logger *slog.Logger) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("cinfo: dial %s: %w", addr, err)
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		conn:  conn,
		queue: make(chan []byte, queueSize),
		done:  make(chan struct{}),
		log:   logger,
	}
	go c.writeLoop()
	return c, nil
}

func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

func (c *Client) Dropped() uint64 { return c.dropped.Load() }

func (c *Client) Notify(block event.Block, index int) {
	msg := slipEncode(buildOSC("/cinfo/"+block.String(), int32(index)))
	select {
	case c.queue <- msg:
	default:
		c.dropped.Add(1)
	}
}

func (c *Client) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.queue:
			if _, err := c.conn.Write(msg); err != nil {
				c.log.Warn("cinfo: write failed", "err", err)
				c.Close()
				return
			}
		}
	}
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Notify(event.Block, int) {}
