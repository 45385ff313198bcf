// SPDX-License-Identifier: GPL-3.0-or-later

package bridge

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/queueworks/mqbridge/mqwire"
)

// ListQueues discovers the queues matching the name filter and returns one
// QueueInfo per queue, sorted by name. The filter is a generic queue name,
// exact or with a trailing asterisk; empty means every queue. Discovery runs
// over the admin command channel; the runtime attributes of each discovered
// queue are then inquired directly. A queue whose attribute inquiry fails,
// typically on authorization, is skipped rather than failing the whole
// listing.
func (c *Client) ListQueues(ctx context.Context, filter string) ([]QueueInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	const op = "listQueues"
	if filter == "" {
		filter = "*"
	}
	discovered, err := c.inquireQueues(ctx, op, filter)
	if err != nil {
		var mqErr *Error
		if errors.As(err, &mqErr) && mqErr.Reason == mqwire.RCUnknownObjectName {
			// No queue matched the pattern. An empty manager is not an error.
			return []QueueInfo{}, nil
		}
		return nil, err
	}

	infos := make([]QueueInfo, 0, len(discovered))
	for _, d := range discovered {
		if isSystemQueue(d.name) {
			continue
		}
		info, err := c.inquireQueueAttrs(op, d)
		if err != nil {
			c.log.Warningf("%s: skipping queue %q: %v", op, d.name, err)
			continue
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// GetQueueInfo returns the attributes of one queue.
func (c *Client) GetQueueInfo(ctx context.Context, queueName string) (QueueInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	const op = "getQueueInfo"
	if err := validQueueName(op, queueName); err != nil {
		return QueueInfo{}, err
	}
	discovered, err := c.inquireQueues(ctx, op, queueName)
	if err != nil {
		return QueueInfo{}, err
	}
	if len(discovered) == 0 {
		return QueueInfo{}, mapError(op, mqwire.CCFailed, mqwire.RCUnknownObjectName, queueName)
	}
	return c.inquireQueueAttrs(op, discovered[0])
}

// discoveredQueue is one entry of an INQUIRE_Q reply: the command server
// sends one response message per matching queue.
type discoveredQueue struct {
	name  string
	qtype int32
}

func (c *Client) inquireQueues(ctx context.Context, op, pattern string) ([]discoveredQueue, error) {
	params := []mqwire.PCFParameter{
		mqwire.NewStringParameter(mqwire.CAQName, pattern),
		mqwire.NewIntParameter(mqwire.IAQType, mqwire.QTAll),
	}
	replies, err := c.runAdminCommand(ctx, mqwire.CmdInquireQ, params)
	if err != nil {
		return nil, err
	}

	var queues []discoveredQueue
	for _, msg := range replies {
		name, ok := msg.StringParameter(mqwire.CAQName)
		if !ok {
			c.log.Debugf("%s: reply message without a queue name, skipping", op)
			continue
		}
		qtype, ok := msg.IntParameter(mqwire.IAQType)
		if !ok {
			qtype = mqwire.QTLocal
		}
		queues = append(queues, discoveredQueue{name: name, qtype: qtype})
	}
	return queues, nil
}

// inquireQueueAttrs opens the queue for inquiry and reads its runtime
// integer attributes in one MQINQ call.
func (c *Client) inquireQueueAttrs(op string, d discoveredQueue) (QueueInfo, error) {
	scope, err := c.openObject(op, d.name, mqwire.OOInquire, "")
	if err != nil {
		return QueueInfo{}, err
	}
	defer scope.Close()

	hConn, err := c.handle(op)
	if err != nil {
		return QueueInfo{}, err
	}
	selectors := []int32{
		mqwire.IACurrentQDepth,
		mqwire.IAMaxQDepth,
		mqwire.IAOpenInputCount,
		mqwire.IAOpenOutputCount,
		mqwire.IAInhibitGet,
		mqwire.IAInhibitPut,
	}
	values, compCode, reason := c.conn.Inq(hConn, scope.hObj, selectors)
	if compCode != mqwire.CCOK {
		return QueueInfo{}, mapError(op, compCode, reason, d.name)
	}
	if len(values) != len(selectors) {
		return QueueInfo{}, operationError(op, mqwire.CCFailed, 0, "attribute inquiry returned a short value list")
	}
	return QueueInfo{
		Name:            d.name,
		Type:            QueueType(d.qtype),
		CurrentDepth:    values[0],
		MaxDepth:        values[1],
		OpenInputCount:  values[2],
		OpenOutputCount: values[3],
		GetInhibited:    values[4] == mqwire.QAGetInhibited,
		PutInhibited:    values[5] == mqwire.QAPutInhibited,
	}, nil
}

// isSystemQueue reports whether a queue belongs to the queue manager's own
// plumbing rather than to applications. Listings hide these, along with the
// transient reply queues this client creates.
func isSystemQueue(name string) bool {
	return strings.HasPrefix(name, "SYSTEM.") ||
		strings.HasPrefix(name, "AMQ.") ||
		strings.HasPrefix(name, "MQBRIDGE.REPLY.")
}

func validQueueName(op, queueName string) error {
	if queueName == "" {
		return configError(op, "queue name must not be empty")
	}
	if len(queueName) > mqwire.QNameLength {
		return configError(op, "queue name exceeds 48 characters")
	}
	return nil
}
