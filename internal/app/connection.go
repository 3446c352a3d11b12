package app

import (
	"context"
	"errors"
	"sync"

	"github.com/joacominatel/dcon/internal/database"
)

// State is the lifecycle state of a Connection.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "Connecting"
	case StateConnected:
		return "Connected"
	default:
		return "Disconnected"
	}
}

// Dialer opens a client for cfg.
type Dialer func(ctx context.Context, cfg database.ConnectionConfig) (database.Client, error)

// ErrBusy is returned by Connect when the connection is not disconnected.
var ErrBusy = errors.New("connection already open or opening")

// Connection tracks one client through Disconnected, Connecting and
// Connected. A failed connect returns to Disconnected and keeps the error
// message. It is safe for concurrent use; the client it hands out is not.
type Connection struct {
	dial Dialer

	mu      sync.Mutex
	state   State
	client  database.Client
	cfg     database.ConnectionConfig
	lastErr string
}

// NewConnection returns a disconnected Connection.
func NewConnection(dial Dialer) *Connection {
	return &Connection{dial: dial}
}

// Connect dials cfg. It fails with ErrBusy unless the connection is
// currently disconnected.
func (c *Connection) Connect(ctx context.Context, cfg database.ConnectionConfig) (database.Client, error) {
	c.mu.Lock()
	if c.state != StateDisconnected {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.state = StateConnecting
	c.cfg = cfg
	c.lastErr = ""
	c.mu.Unlock()

	client, err := c.dial(ctx, cfg)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateDisconnected
		c.lastErr = err.Error()
		return nil, err
	}
	c.state = StateConnected
	c.client = client
	return client, nil
}

// Disconnect closes the client, if any, and returns to Disconnected. It
// fails with ErrBusy while a connect is in flight.
func (c *Connection) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateConnecting {
		c.mu.Unlock()
		return ErrBusy
	}
	client := c.client
	c.client = nil
	c.state = StateDisconnected
	c.mu.Unlock()

	if client == nil {
		return nil
	}
	return client.Close(ctx)
}

// State returns the current state.
func (c *Connection) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Client returns the open client.
func (c *Connection) Client() (database.Client, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client, c.client != nil
}

// Config returns the configuration of the last connect attempt.
func (c *Connection) Config() database.ConnectionConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// LastError returns the message of the last failed connect, or "".
func (c *Connection) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
