package service

import (
	"context"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

type behavior int

const (
	refuse behavior = iota
	accept
	drop
)

// trackedConn 记录是否被关闭
type trackedConn struct {
	net.Conn
	closed atomic.Bool
}

func (c *trackedConn) Close() error {
	c.closed.Store(true)
	return c.Conn.Close()
}

// fakeNetwork 按端口返回预设的连接结果，没有配置的端口一律拒绝
type fakeNetwork struct {
	ports map[uint]behavior
	delay func(port uint) time.Duration

	mu    sync.Mutex
	conns []*trackedConn

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func newFakeNetwork(ports map[uint]behavior) *fakeNetwork {
	return &fakeNetwork{ports: ports}
}

func (n *fakeNetwork) dial(ctx context.Context, network, address string) (net.Conn, error) {
	cur := n.inFlight.Add(1)
	defer n.inFlight.Add(-1)
	for {
		prev := n.maxInFlight.Load()
		if cur <= prev || n.maxInFlight.CompareAndSwap(prev, cur) {
			break
		}
	}

	_, portStr, _ := net.SplitHostPort(address)
	p, _ := strconv.ParseUint(portStr, 10, 32)
	port := uint(p)

	if n.delay != nil {
		select {
		case <-time.After(n.delay(port)):
		case <-ctx.Done():
			return nil, &net.OpError{Op: "dial", Net: network, Err: ctx.Err()}
		}
	}

	switch n.ports[port] {
	case accept:
		c1, c2 := net.Pipe()
		_ = c2.Close()
		conn := &trackedConn{Conn: c1}
		n.mu.Lock()
		n.conns = append(n.conns, conn)
		n.mu.Unlock()
		return conn, nil
	case drop:
		<-ctx.Done()
		return nil, &net.OpError{Op: "dial", Net: network, Err: ctx.Err()}
	default:
		return nil, &net.OpError{Op: "dial", Net: network, Err: syscall.ECONNREFUSED}
	}
}

func (n *fakeNetwork) allClosed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, c := range n.conns {
		if !c.closed.Load() {
			return false
		}
	}
	return true
}
