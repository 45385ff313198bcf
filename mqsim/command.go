// SPDX-License-Identifier: GPL-3.0-or-later

package mqsim

import (
	"sort"
	"strings"

	"github.com/queueworks/mqbridge/mqwire"
)

// serveCommand plays the role of the command server: it parses a PCF
// command put on the admin queue and places the reply messages on the
// requester's reply queue. Replies correlate to the request's message id.
// Called with qm.mu held.
func (qm *QueueManager) serveCommand(request *mqwire.MsgDesc, body []byte) {
	replyQueue, ok := qm.queues[request.ReplyToQ]
	if !ok {
		// Nowhere to answer; a real command server would dead-letter this.
		return
	}

	cmd, err := mqwire.DecodePCFMessage(body)
	if err != nil {
		qm.reply(replyQueue, request, 0, 1, mqwire.CFCLast, mqwire.CCFailed, mqwire.RCUnexpectedError, nil)
		return
	}

	switch cmd.Header.Command {
	case mqwire.CmdInquireQ:
		qm.serveInquireQ(replyQueue, request, cmd)
	case mqwire.CmdCreateQ:
		qm.serveCreateQ(replyQueue, request, cmd)
	case mqwire.CmdDeleteQ:
		qm.serveDeleteQ(replyQueue, request, cmd)
	default:
		qm.reply(replyQueue, request, cmd.Header.Command, 1, mqwire.CFCLast, mqwire.CCFailed, mqwire.RCUnexpectedError, nil)
	}
}

// serveInquireQ answers with one response message per matching queue, the
// final one flagged last. No match is a failed single response.
func (qm *QueueManager) serveInquireQ(replyQueue *queue, request *mqwire.MsgDesc, cmd *mqwire.PCFMessage) {
	pattern, ok := cmd.StringParameter(mqwire.CAQName)
	if !ok {
		qm.reply(replyQueue, request, cmd.Header.Command, 1, mqwire.CFCLast, mqwire.CCFailed, mqwire.RCUnexpectedError, nil)
		return
	}
	typeFilter, ok := cmd.IntParameter(mqwire.IAQType)
	if !ok {
		typeFilter = mqwire.QTAll
	}

	var matches []*queue
	for _, q := range qm.queues {
		if !nameMatches(q.name, pattern) {
			continue
		}
		if typeFilter != mqwire.QTAll && q.qtype != typeFilter {
			continue
		}
		matches = append(matches, q)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].name < matches[j].name })

	if len(matches) == 0 {
		qm.reply(replyQueue, request, cmd.Header.Command, 1, mqwire.CFCLast, mqwire.CCFailed, mqwire.RCUnknownObjectName, nil)
		return
	}
	for i, q := range matches {
		control := mqwire.CFCNotLast
		if i == len(matches)-1 {
			control = mqwire.CFCLast
		}
		params := []mqwire.PCFParameter{
			mqwire.NewStringParameter(mqwire.CAQName, q.name),
			mqwire.NewIntParameter(mqwire.IAQType, q.qtype),
		}
		qm.reply(replyQueue, request, cmd.Header.Command, int32(i+1), control, mqwire.CCOK, mqwire.RCNone, params)
	}
}

func (qm *QueueManager) serveCreateQ(replyQueue *queue, request *mqwire.MsgDesc, cmd *mqwire.PCFMessage) {
	name, ok := cmd.StringParameter(mqwire.CAQName)
	if !ok || name == "" {
		qm.reply(replyQueue, request, cmd.Header.Command, 1, mqwire.CFCLast, mqwire.CCFailed, mqwire.RCUnexpectedError, nil)
		return
	}
	if _, exists := qm.queues[name]; exists {
		qm.reply(replyQueue, request, cmd.Header.Command, 1, mqwire.CFCLast, mqwire.CCFailed, mqwire.RCObjectAlreadyExists, nil)
		return
	}
	qtype, ok := cmd.IntParameter(mqwire.IAQType)
	if !ok || qtype == mqwire.QTAll {
		qtype = mqwire.QTLocal
	}
	maxDepth, ok := cmd.IntParameter(mqwire.IAMaxQDepth)
	if !ok || maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	qm.queues[name] = &queue{name: name, qtype: qtype, maxDepth: maxDepth}
	qm.reply(replyQueue, request, cmd.Header.Command, 1, mqwire.CFCLast, mqwire.CCOK, mqwire.RCNone, nil)
}

func (qm *QueueManager) serveDeleteQ(replyQueue *queue, request *mqwire.MsgDesc, cmd *mqwire.PCFMessage) {
	name, ok := cmd.StringParameter(mqwire.CAQName)
	if !ok || name == "" {
		qm.reply(replyQueue, request, cmd.Header.Command, 1, mqwire.CFCLast, mqwire.CCFailed, mqwire.RCUnexpectedError, nil)
		return
	}
	if strings.HasPrefix(name, "SYSTEM.") {
		qm.reply(replyQueue, request, cmd.Header.Command, 1, mqwire.CFCLast, mqwire.CCFailed, mqwire.RCNotAuthorized, nil)
		return
	}
	q, exists := qm.queues[name]
	if !exists {
		qm.reply(replyQueue, request, cmd.Header.Command, 1, mqwire.CFCLast, mqwire.CCFailed, mqwire.RCUnknownObjectName, nil)
		return
	}
	if q.openInput > 0 || q.openOutput > 0 {
		qm.reply(replyQueue, request, cmd.Header.Command, 1, mqwire.CFCLast, mqwire.CCFailed, mqwire.RCObjectInUse, nil)
		return
	}
	delete(qm.queues, name)
	qm.reply(replyQueue, request, cmd.Header.Command, 1, mqwire.CFCLast, mqwire.CCOK, mqwire.RCNone, nil)
}

// reply places one PCF response message on the reply queue.
func (qm *QueueManager) reply(replyQueue *queue, request *mqwire.MsgDesc, command, seq, control, compCode, reason int32, params []mqwire.PCFParameter) {
	md := mqwire.MsgDesc{
		MsgType:     mqwire.MTReply,
		Format:      mqwire.FormatAdmin,
		Persistence: mqwire.PerNotPersistent,
		MsgID:       newMsgID(),
		CorrelID:    request.MsgID,
	}
	stampPut(&md)
	body := mqwire.EncodePCFResponse(command, seq, control, compCode, reason, params)
	replyQueue.messages = append(replyQueue.messages, &storedMessage{md: md, body: body})
}

// nameMatches applies the queue name pattern grammar: a bare '*' matches
// everything, a trailing '*' matches the prefix, anything else is exact.
func nameMatches(name, pattern string) bool {
	if pattern == "*" {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(name, pattern[:len(pattern)-1])
	}
	return name == pattern
}
