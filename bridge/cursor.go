// SPDX-License-Identifier: GPL-3.0-or-later

package bridge

import (
	"context"

	"github.com/queueworks/mqbridge/mqwire"
)

// browseBufferSize is the default payload bound per browsed message when
// the caller passes no maxMessageSize. Larger messages come back truncated;
// TotalLength preserves the real size.
const browseBufferSize = 4096

// BrowseMessages walks the queue with a browse cursor, non-destructively,
// and returns up to limit messages in queue order. limit <= 0 means no
// limit. maxMessageSize bounds the payload carried back per message, <= 0
// meaning the default; longer payloads come back truncated with the full
// length in TotalLength. The browse does not wait: a queue with nothing
// more to show ends the walk immediately.
func (c *Client) BrowseMessages(ctx context.Context, queueName string, limit int, maxMessageSize int32) ([]Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.browseLocked(ctx, "browseMessages", queueName, limit, maxMessageSize)
}

// BrowseMessageAt returns the single message at the zero-based browse
// position, or a message-not-found error when the queue is shorter.
// maxMessageSize works as in BrowseMessages.
func (c *Client) BrowseMessageAt(ctx context.Context, queueName string, position int, maxMessageSize int32) (Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	const op = "browseMessageAt"
	if position < 0 {
		return Message{}, configError(op, "position must not be negative")
	}
	msgs, err := c.browseLocked(ctx, op, queueName, position+1, maxMessageSize)
	if err != nil {
		return Message{}, err
	}
	if position >= len(msgs) {
		return Message{}, messageNotFound(op, queueName)
	}
	return msgs[position], nil
}

func (c *Client) browseLocked(ctx context.Context, op, queueName string, limit int, maxMessageSize int32) ([]Message, error) {
	if err := validQueueName(op, queueName); err != nil {
		return nil, err
	}
	bufferSize := int32(browseBufferSize)
	if maxMessageSize > 0 {
		bufferSize = maxMessageSize
	}
	scope, err := c.openObject(op, queueName, mqwire.OOBrowse, "")
	if err != nil {
		return nil, err
	}
	defer scope.Close()

	messages := []Message{}
	browse := mqwire.GMOBrowseFirst
	for limit <= 0 || len(messages) < limit {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		hConn, err := c.handle(op)
		if err != nil {
			return nil, err
		}
		// Match fields must be cleared between gets or the cursor would
		// only revisit the previous message's ids.
		md := mqwire.MsgDesc{}
		gmo := mqwire.GetOptions{
			Options: browse | mqwire.GMONoWait | mqwire.GMOAcceptTruncatedMsg |
				mqwire.GMONoSyncpoint | mqwire.GMOFailIfQuiescing,
		}
		mdOut, data, dataLength, compCode, reason := c.conn.Get(hConn, scope.hObj, md.Encode(), gmo.Encode(), bufferSize)
		if reason == mqwire.RCNoMsgAvailable {
			break
		}
		if err := mapError(op, compCode, reason, queueName); err != nil {
			return nil, err
		}
		msg, err := buildMessage(op, len(messages), mdOut, data, dataLength)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
		browse = mqwire.GMOBrowseNext
	}
	c.log.Debugf("%s: %q returned %d messages", op, queueName, len(messages))
	return messages, nil
}

// buildMessage assembles the caller-facing message from the returned
// descriptor and (possibly truncated) payload.
func buildMessage(op string, position int, mdOut, data []byte, dataLength int32) (Message, error) {
	md, err := mqwire.DecodeMsgDesc(mdOut)
	if err != nil {
		return Message{}, operationError(op, mqwire.CCFailed, 0, "queue manager returned a malformed message descriptor")
	}
	payload := data
	if int32(len(payload)) > dataLength {
		payload = payload[:dataLength]
	}
	ts, _ := parsePutTimestamp(md.PutDate, md.PutTime)
	return Message{
		Position:            position,
		MessageID:           md.MsgID,
		CorrelationID:       md.CorrelID,
		Format:              md.Format,
		Type:                md.MsgType,
		Persistence:         md.Persistence,
		Priority:            md.Priority,
		ReplyToQueue:        md.ReplyToQ,
		ReplyToQueueManager: md.ReplyToQMgr,
		SequenceNumber:      md.SeqNumber,
		PutApplName:         md.PutApplName,
		PutTimestamp:        ts,
		Payload:             payload,
		TotalLength:         dataLength,
	}, nil
}

// SendMessage puts one message on the queue and returns the message id the
// queue manager assigned to it.
func (c *Client) SendMessage(ctx context.Context, queueName string, opts SendOptions) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	const op = "sendMessage"
	if err := validQueueName(op, queueName); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scope, err := c.openObject(op, queueName, mqwire.OOOutput, "")
	if err != nil {
		return nil, err
	}
	defer scope.Close()

	msgType := opts.Type
	if msgType == 0 {
		msgType = TypeDatagram
	}
	priority := mqwire.PriorityAsQDef
	if opts.Priority != nil {
		priority = *opts.Priority
	}
	md := mqwire.MsgDesc{
		MsgType:      msgType,
		Format:       mqwire.FormatString,
		Priority:     priority,
		Persistence:  opts.Persistence,
		CorrelID:     opts.CorrelationID,
		ReplyToQ:     opts.ReplyToQueue,
		CodedCharSet: mqwire.CCSIUTF8,
		Expiry:       mqwire.EIUnlimited,
	}
	pmoOptions := mqwire.PMONewMsgID | mqwire.PMONoSyncpoint
	if len(opts.CorrelationID) == 0 {
		pmoOptions |= mqwire.PMONewCorrelID
	}
	pmo := mqwire.PutOptions{Options: pmoOptions}

	hConn, err := c.handle(op)
	if err != nil {
		return nil, err
	}
	mdOut, compCode, reason := c.conn.Put(hConn, scope.hObj, md.Encode(), pmo.Encode(), opts.Payload)
	if err := mapError(op, compCode, reason, queueName); err != nil {
		return nil, err
	}
	sent, err := mqwire.DecodeMsgDesc(mdOut)
	if err != nil {
		return nil, operationError(op, mqwire.CCFailed, 0, "queue manager returned a malformed message descriptor")
	}
	c.log.Debugf("%s: put %d bytes on %q msgId=%X", op, len(opts.Payload), queueName, sent.MsgID)
	return sent.MsgID, nil
}

// DeleteMessage destructively removes the message with the given id. Other
// messages are untouched; an id that matches nothing reports message not
// found.
func (c *Client) DeleteMessage(ctx context.Context, queueName string, messageID []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	const op = "deleteMessage"
	if err := validQueueName(op, queueName); err != nil {
		return err
	}
	if len(messageID) == 0 {
		return configError(op, "message id must not be empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	scope, err := c.openObject(op, queueName, mqwire.OOInputShared, "")
	if err != nil {
		return err
	}
	defer scope.Close()

	hConn, err := c.handle(op)
	if err != nil {
		return err
	}
	md := mqwire.MsgDesc{MsgID: messageID}
	gmo := mqwire.GetOptions{
		Options: mqwire.GMONoWait | mqwire.GMOAcceptTruncatedMsg |
			mqwire.GMONoSyncpoint | mqwire.GMOFailIfQuiescing,
		MatchOptions: mqwire.MOMatchMsgID,
	}
	// The payload is discarded; a one-byte buffer with truncation accepted
	// still consumes the message.
	_, _, _, compCode, reason := c.conn.Get(hConn, scope.hObj, md.Encode(), gmo.Encode(), 1)
	if reason == mqwire.RCNoMsgAvailable {
		return messageNotFound(op, queueName)
	}
	if err := mapError(op, compCode, reason, queueName); err != nil {
		return err
	}
	c.log.Debugf("%s: removed msgId=%X from %q", op, messageID, queueName)
	return nil
}

// PurgeQueue destructively drains the queue and returns how many messages
// it removed. Purging an empty queue succeeds with a count of zero.
func (c *Client) PurgeQueue(ctx context.Context, queueName string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	const op = "purgeQueue"
	if err := validQueueName(op, queueName); err != nil {
		return 0, err
	}

	scope, err := c.openObject(op, queueName, mqwire.OOInputShared, "")
	if err != nil {
		return 0, err
	}
	defer scope.Close()

	purged := 0
	for {
		if err := ctx.Err(); err != nil {
			return purged, err
		}

		hConn, err := c.handle(op)
		if err != nil {
			return purged, err
		}
		md := mqwire.MsgDesc{}
		gmo := mqwire.GetOptions{
			Options: mqwire.GMONoWait | mqwire.GMOAcceptTruncatedMsg |
				mqwire.GMONoSyncpoint | mqwire.GMOFailIfQuiescing,
		}
		_, _, _, compCode, reason := c.conn.Get(hConn, scope.hObj, md.Encode(), gmo.Encode(), 1)
		if reason == mqwire.RCNoMsgAvailable {
			c.log.Infof("%s: removed %d messages from %q", op, purged, queueName)
			return purged, nil
		}
		if err := mapError(op, compCode, reason, queueName); err != nil {
			return purged, err
		}
		purged++
	}
}
