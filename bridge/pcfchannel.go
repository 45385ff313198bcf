// SPDX-License-Identifier: GPL-3.0-or-later

package bridge

import (
	"context"

	"github.com/queueworks/mqbridge/mqwire"
)

const (
	// Expiry of an admin command message, in tenths of a second. A reply
	// that never comes must not leave the command rotting on the queue.
	adminCommandExpiry = 1200

	// Bounded wait for the first reply message, milliseconds.
	adminFirstReplyWait = 5000
	// Shorter wait for continuation messages of a paginated reply.
	adminNextReplyWait = 1000

	// Ceiling on a single reply message, to bound allocation on a
	// misbehaving responder.
	maxAdminReplySize = 10 * 1024 * 1024

	// Prefix for the transient reply queue derived from the default model
	// queue; the trailing '*' is completed by the queue manager.
	replyQueuePrefix = "MQBRIDGE.REPLY.*"
)

// runAdminCommand performs one request/response round trip over the
// administrative command queue: it opens the command queue for output and a
// transient reply queue from the default model queue, puts the PCF command
// with a bounded expiry and new message/correlation ids, then drains the
// paginated reply until the message carrying the "last" control flag. Both
// queues are closed whatever happens; the dynamic reply queue is deleted
// with it.
func (c *Client) runAdminCommand(ctx context.Context, command int32, params []mqwire.PCFParameter) ([]*mqwire.PCFMessage, error) {
	op := mqwire.CommandString(command)

	cmdQueue, err := c.openObject(op, mqwire.AdminCommandQueue, mqwire.OOOutput, "")
	if err != nil {
		return nil, err
	}
	defer cmdQueue.Close()

	replyQueue, err := c.openObject(op, mqwire.DefaultModelQueue, mqwire.OOInputExclusive, replyQueuePrefix)
	if err != nil {
		return nil, err
	}
	replyQueue.deleteOnClose()
	defer replyQueue.Close()

	md := mqwire.MsgDesc{
		MsgType:      mqwire.MTRequest,
		Format:       mqwire.FormatAdmin,
		Expiry:       adminCommandExpiry,
		CodedCharSet: mqwire.CCSIUTF8,
		Priority:     mqwire.PriorityAsQDef,
		Persistence:  mqwire.PerNotPersistent,
		ReplyToQ:     replyQueue.name,
		ReplyToQMgr:  c.qmgr,
	}
	pmo := mqwire.PutOptions{
		Options: mqwire.PMONewMsgID | mqwire.PMONewCorrelID | mqwire.PMONoSyncpoint,
	}

	body := mqwire.EncodePCFCommand(command, params)
	hConn, err := c.handle(op)
	if err != nil {
		return nil, err
	}
	mdOut, compCode, reason := c.conn.Put(hConn, cmdQueue.hObj, md.Encode(), pmo.Encode(), body)
	if compCode != mqwire.CCOK {
		return nil, mapError(op, compCode, reason, mqwire.AdminCommandQueue)
	}
	sent, err := mqwire.DecodeMsgDesc(mdOut)
	if err != nil {
		return nil, operationError(op, mqwire.CCFailed, 0, "queue manager returned a malformed message descriptor")
	}
	c.log.Debugf("MQPUT %s params=%d msgId=%X bytes=%d", op, len(params), sent.MsgID, len(body))

	// Replies carry the request's message id as their correlation id.
	return c.collectAdminReplies(ctx, op, replyQueue, sent.MsgID)
}

// collectAdminReplies reads reply messages in emission order until one
// carries the "last" control flag. The flag, not the message count, is
// authoritative for termination. A reply whose embedded completion code
// indicates failure surfaces the embedded reason, not the transport's.
func (c *Client) collectAdminReplies(ctx context.Context, op string, replyQueue *objectScope, correlID []byte) ([]*mqwire.PCFMessage, error) {
	var messages []*mqwire.PCFMessage
	wait := int32(adminFirstReplyWait)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, compCode, reason, err := c.getAdminReply(op, replyQueue, correlID, wait)
		if err != nil {
			return nil, err
		}
		if reason == mqwire.RCNoMsgAvailable {
			if len(messages) == 0 {
				return nil, operationError(op, compCode, reason, "no response received from the command server")
			}
			c.log.Warningf("%s: reply stream ended without the last-message flag after %d messages", op, len(messages))
			return messages, nil
		}

		msg, err := mqwire.DecodePCFMessage(data)
		if err != nil {
			return nil, operationError(op, mqwire.CCFailed, 0, err.Error())
		}
		if msg.Header.CompCode != mqwire.CCOK {
			return nil, mapError(op, msg.Header.CompCode, msg.Header.Reason, "")
		}
		messages = append(messages, msg)

		if msg.Header.Control == mqwire.CFCLast {
			c.log.Debugf("%s: received last reply message, %d total", op, len(messages))
			return messages, nil
		}
		wait = adminNextReplyWait
	}
}

// getAdminReply fetches one reply message, sizing the buffer with a length
// probe first: a zero-length get is expected to fail with the truncation
// reason carrying the full length, after which the real get uses an exact
// buffer. Returns reason RCNoMsgAvailable (with nil data) when the bounded
// wait elapsed.
func (c *Client) getAdminReply(op string, replyQueue *objectScope, correlID []byte, wait int32) ([]byte, int32, int32, error) {
	hConn, err := c.handle(op)
	if err != nil {
		return nil, 0, 0, err
	}

	md := mqwire.MsgDesc{CorrelID: correlID}
	gmo := mqwire.GetOptions{
		Options:      mqwire.GMOWait | mqwire.GMONoSyncpoint | mqwire.GMOFailIfQuiescing,
		WaitInterval: wait,
		MatchOptions: mqwire.MOMatchCorrelID,
	}

	_, _, dataLength, compCode, reason := c.conn.Get(hConn, replyQueue.hObj, md.Encode(), gmo.Encode(), 0)
	if reason == mqwire.RCNoMsgAvailable {
		return nil, compCode, reason, nil
	}
	if reason != mqwire.RCTruncatedMsgFailed {
		if err := mapError(op, compCode, reason, replyQueue.name); err != nil {
			return nil, 0, 0, err
		}
		return nil, 0, 0, operationError(op, compCode, reason, "command server sent an empty reply")
	}
	if dataLength > maxAdminReplySize {
		return nil, 0, 0, operationError(op, compCode, reason, "reply message exceeds the maximum admissible size")
	}

	md = mqwire.MsgDesc{CorrelID: correlID}
	_, data, dataLength, compCode, reason := c.conn.Get(hConn, replyQueue.hObj, md.Encode(), gmo.Encode(), dataLength)
	if compCode != mqwire.CCOK {
		return nil, 0, 0, mapError(op, compCode, reason, replyQueue.name)
	}
	c.log.Debugf("MQGET %s reply bytes=%d", op, dataLength)
	return data[:dataLength], compCode, reason, nil
}
