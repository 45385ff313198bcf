// SPDX-License-Identifier: GPL-3.0-or-later

// Package bridge implements the protocol bridge to a message-queuing server:
// a handle-based session to a remote queue manager, queue discovery and
// administration over the PCF command sub-protocol, and message browse, put,
// get and delete operations. All wire marshaling lives in package mqwire;
// the actual transport is whatever mqi.Conn the Client is built on.
package bridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/queueworks/mqbridge/logger"
	"github.com/queueworks/mqbridge/mqi"
	"github.com/queueworks/mqbridge/mqwire"
)

// Client is the bridge facade. The underlying protocol calls are blocking
// and stateful per connection handle, so a Client serializes its operations
// internally; distinct Clients are independent and may run in parallel.
type Client struct {
	config Config
	conn   mqi.Conn
	log    *logger.Logger

	mu    sync.Mutex
	hConn mqi.Hconn
	qmgr  string
}

// NewClient creates a Client over the given call surface. The handle starts
// at the unusable sentinel; nothing touches the wire until Connect.
func NewClient(config Config, conn mqi.Conn, log *logger.Logger) *Client {
	return &Client{
		config: config,
		conn:   conn,
		log:    log,
		hConn:  mqi.UnusableHconn,
	}
}

// Connect validates the configuration locally, then establishes the session.
// Invalid input never reaches the protocol layer. If a session is already
// live it is silently torn down first, so a reconnect with fresh parameters
// always starts clean. On any failure the handle is forced back to the
// sentinel.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.validateConfig(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if c.hConn != mqi.UnusableHconn {
		c.disconnectLocked()
	}

	cno := mqwire.ConnOptions{
		Options: mqwire.CNOHandleShareBlock,
		Desc: mqwire.ConnDesc{
			ChannelName:    c.config.Channel,
			ChannelType:    mqwire.CHTClntconn,
			TransportType:  mqwire.XPTTCP,
			ConnectionName: fmt.Sprintf("%s(%d)", c.config.Host, c.config.Port),
		},
		User:     c.config.User,
		Password: c.config.Password,
	}

	h, compCode, reason := c.conn.Connx(c.config.QueueManager, cno.Encode())
	if compCode != mqwire.CCOK {
		c.hConn = mqi.UnusableHconn
		c.log.Errorf("MQCONNX failed for queue manager '%s' at %s:%d - completion code %d, reason %d (%s)",
			c.config.QueueManager, c.config.Host, c.config.Port, compCode, reason, mqwire.ReasonString(reason))
		return connectionFailed(reason, c.config.QueueManager)
	}

	c.hConn = h
	c.qmgr = c.config.QueueManager
	c.log.Infof("connected to queue manager %s on %s:%d via channel %s",
		c.config.QueueManager, c.config.Host, c.config.Port, c.config.Channel)
	return nil
}

func (c *Client) validateConfig() error {
	switch {
	case c.config.QueueManager == "":
		return configError("connect", "queue manager name must not be empty")
	case len(c.config.QueueManager) > mqwire.QMgrNameLength:
		return configError("connect", fmt.Sprintf("queue manager name exceeds %d characters", mqwire.QMgrNameLength))
	case c.config.Channel == "":
		return configError("connect", "channel name must not be empty")
	case len(c.config.Channel) > mqwire.ChannelNameLength:
		return configError("connect", fmt.Sprintf("channel name exceeds %d characters", mqwire.ChannelNameLength))
	case c.config.Host == "":
		return configError("connect", "host must not be empty")
	case c.config.Port < 1 || c.config.Port > 65535:
		return configError("connect", fmt.Sprintf("port %d outside 1..65535", c.config.Port))
	}
	return nil
}

// Disconnect tears down the session. It is idempotent: a no-op when already
// disconnected, and the handle is reset to the sentinel regardless of the
// wire call's outcome. Disconnect failures are swallowed so teardown always
// makes forward progress.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnectLocked()
}

func (c *Client) disconnectLocked() {
	if c.hConn == mqi.UnusableHconn {
		return
	}
	compCode, reason := c.conn.Disc(c.hConn)
	if compCode != mqwire.CCOK {
		c.log.Warningf("MQDISC from queue manager '%s' returned completion code %d, reason %d (%s)",
			c.qmgr, compCode, reason, mqwire.ReasonString(reason))
	} else {
		c.log.Debugf("disconnected from queue manager %s", c.qmgr)
	}
	c.hConn = mqi.UnusableHconn
	c.qmgr = ""
}

// IsConnected reports whether the session holds a live handle.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hConn != mqi.UnusableHconn
}

// handle returns the live connection handle. Downstream code calls this on
// every operation rather than caching the handle.
func (c *Client) handle(op string) (mqi.Hconn, error) {
	if c.hConn == mqi.UnusableHconn {
		return mqi.UnusableHconn, errNotConnected(op)
	}
	return c.hConn, nil
}
