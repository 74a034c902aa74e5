// Copyright 2026 The gVisor Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rtkit

import (
	"context"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
	"gvisor.dev/rtsched/pkg/log"
)

const propertiesGet = "org.freedesktop.DBus.Properties.Get"

// Client is a Broker backed by a D-Bus connection.
type Client struct {
	conn    *dbus.Conn
	obj     dbus.BusObject
	timeout time.Duration
}

var _ Broker = (*Client)(nil)

// Dial opens a private connection to the bus at address, or to the system
// bus if address is empty, and returns a Client for the RealtimeKit object on
// it. Every call made by the client is bounded by timeout.
func Dial(address string, timeout time.Duration) (*Client, error) {
	var (
		conn *dbus.Conn
		err  error
	)
	if address == "" {
		conn, err = dbus.SystemBusPrivate()
	} else {
		conn, err = dbus.Dial(address)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to bus %q: %w", address, err)
	}
	if err := conn.Auth(nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("authenticating to bus %q: %w", address, err)
	}
	if err := conn.Hello(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("registering on bus %q: %w", address, err)
	}
	log.Debugf("Connected to bus %q as %v", address, conn.Names())

	c := NewClient(conn.Object(ServiceName, ObjectPath), timeout)
	c.conn = conn
	return c, nil
}

// NewClient returns a Client that sends requests to obj. The caller keeps
// ownership of the underlying connection.
func NewClient(obj dbus.BusObject, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{obj: obj, timeout: timeout}
}

// Close closes the connection if the client opened it.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *Client) call(ctx context.Context, method string, args ...any) *dbus.Call {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.obj.CallWithContext(ctx, method, 0, args...)
}

// property reads an integer property of the broker. RealtimeKit declares
// them as int32 or int64 depending on the version.
func (c *Client) property(ctx context.Context, name string) (int64, error) {
	var v dbus.Variant
	if err := c.call(ctx, propertiesGet, Interface, name).Store(&v); err != nil {
		return 0, fmt.Errorf("reading %s: %w", name, err)
	}
	switch val := v.Value().(type) {
	case int32:
		return int64(val), nil
	case int64:
		return val, nil
	default:
		return 0, fmt.Errorf("property %s has type %s, want int32 or int64", name, v.Signature())
	}
}

// MaxRealtimePriority implements Broker.MaxRealtimePriority.
func (c *Client) MaxRealtimePriority(ctx context.Context) (int64, error) {
	return c.property(ctx, PropMaxRealtimePriority)
}

// RTTimeUSecMax implements Broker.RTTimeUSecMax.
func (c *Client) RTTimeUSecMax(ctx context.Context) (int64, error) {
	return c.property(ctx, PropRTTimeUSecMax)
}

// MinNiceLevel implements Broker.MinNiceLevel.
func (c *Client) MinNiceLevel(ctx context.Context) (int64, error) {
	return c.property(ctx, PropMinNiceLevel)
}

// MakeThreadRealtime implements Broker.MakeThreadRealtime.
func (c *Client) MakeThreadRealtime(ctx context.Context, tid uint64, priority uint32) error {
	if err := c.call(ctx, MethodMakeThreadRealtime, tid, priority).Err; err != nil {
		return fmt.Errorf("MakeThreadRealtime(%d, %d): %w", tid, priority, err)
	}
	return nil
}

// MakeThreadRealtimeWithPID implements Broker.MakeThreadRealtimeWithPID.
func (c *Client) MakeThreadRealtimeWithPID(ctx context.Context, pid, tid uint64, priority uint32) error {
	if err := c.call(ctx, MethodMakeThreadRealtimeWithPID, pid, tid, priority).Err; err != nil {
		return fmt.Errorf("MakeThreadRealtimeWithPID(%d, %d, %d): %w", pid, tid, priority, err)
	}
	return nil
}
