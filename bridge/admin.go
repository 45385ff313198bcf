// SPDX-License-Identifier: GPL-3.0-or-later

package bridge

import (
	"context"

	"github.com/queueworks/mqbridge/mqwire"
)

// CreateQueueOptions carries the attributes of a queue definition beyond its
// name. Zero values defer to the queue manager's defaults.
type CreateQueueOptions struct {
	Type     QueueType // 0 means a local queue
	MaxDepth int32     // 0 means the queue manager default
}

// CreateQueue defines a new queue through the admin command channel.
// Creating a name that already exists fails; nothing is replaced.
func (c *Client) CreateQueue(ctx context.Context, queueName string, opts CreateQueueOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	const op = "createQueue"
	if err := validQueueName(op, queueName); err != nil {
		return err
	}
	if opts.MaxDepth < 0 {
		return configError(op, "maximum depth must not be negative")
	}
	qtype := opts.Type
	if qtype == 0 {
		qtype = QueueTypeLocal
	}
	if qtype.String() == "unknown" {
		return configError(op, "unknown queue type")
	}

	params := []mqwire.PCFParameter{
		mqwire.NewStringParameter(mqwire.CAQName, queueName),
		mqwire.NewIntParameter(mqwire.IAQType, int32(qtype)),
	}
	if opts.MaxDepth > 0 {
		params = append(params, mqwire.NewIntParameter(mqwire.IAMaxQDepth, opts.MaxDepth))
	}
	if _, err := c.runAdminCommand(ctx, mqwire.CmdCreateQ, params); err != nil {
		return err
	}
	c.log.Infof("%s: created %s queue %q", op, qtype, queueName)
	return nil
}

// DeleteQueue removes a queue definition, and with it any messages still on
// the queue.
func (c *Client) DeleteQueue(ctx context.Context, queueName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	const op = "deleteQueue"
	if err := validQueueName(op, queueName); err != nil {
		return err
	}

	params := []mqwire.PCFParameter{
		mqwire.NewStringParameter(mqwire.CAQName, queueName),
	}
	if _, err := c.runAdminCommand(ctx, mqwire.CmdDeleteQ, params); err != nil {
		return err
	}
	c.log.Infof("%s: deleted queue %q", op, queueName)
	return nil
}
