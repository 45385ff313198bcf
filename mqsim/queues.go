// SPDX-License-Identifier: GPL-3.0-or-later

package mqsim

import (
	"bytes"

	"github.com/queueworks/mqbridge/mqi"
	"github.com/queueworks/mqbridge/mqwire"
)

// Open resolves the object descriptor and issues an object handle. Opening
// a model queue creates a dynamic local queue and the returned descriptor
// carries its generated name.
func (qm *QueueManager) Open(h mqi.Hconn, od []byte, options int32) (mqi.Hobj, []byte, int32, int32) {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	s, ok := qm.sessions[h]
	if !ok {
		return mqi.UnusableHobj, nil, mqwire.CCFailed, mqwire.RCHconnError
	}
	desc, err := mqwire.DecodeObjectDesc(od)
	if err != nil {
		return mqi.UnusableHobj, nil, mqwire.CCFailed, mqwire.RCUnexpectedError
	}
	if qm.unauthorized[desc.ObjectName] {
		return mqi.UnusableHobj, nil, mqwire.CCFailed, mqwire.RCNotAuthorized
	}
	q, ok := qm.queues[desc.ObjectName]
	if !ok {
		return mqi.UnusableHobj, nil, mqwire.CCFailed, mqwire.RCUnknownObjectName
	}

	odOut := make([]byte, len(od))
	copy(odOut, od)

	if q.qtype == mqwire.QTModel {
		name := dynamicQueueName(desc.DynamicQName)
		if _, exists := qm.queues[name]; exists {
			return mqi.UnusableHobj, nil, mqwire.CCFailed, mqwire.RCObjectAlreadyExists
		}
		q = &queue{name: name, qtype: mqwire.QTLocal, maxDepth: q.maxDepth, dynamic: true}
		qm.queues[name] = q
		if err := mqwire.SetObjectName(odOut, name); err != nil {
			return mqi.UnusableHobj, nil, mqwire.CCFailed, mqwire.RCUnexpectedError
		}
	}

	wantsInput := options&(mqwire.OOInputShared|mqwire.OOInputExclusive) != 0
	if wantsInput {
		if q.exclusive || (options&mqwire.OOInputExclusive != 0 && q.openInput > 0) {
			return mqi.UnusableHobj, nil, mqwire.CCFailed, mqwire.RCObjectInUse
		}
		q.openInput++
		if options&mqwire.OOInputExclusive != 0 {
			q.exclusive = true
		}
	}
	if options&mqwire.OOOutput != 0 {
		q.openOutput++
	}

	qm.nextObj++
	obj := qm.nextObj
	s.objects[obj] = &openHandle{q: q, options: options, cursor: -1}
	return obj, odOut, mqwire.CCOK, mqwire.RCNone
}

// Close releases the object handle. A delete close option removes a dynamic
// queue along with its messages.
func (qm *QueueManager) Close(h mqi.Hconn, obj mqi.Hobj, options int32) (int32, int32) {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	s, ok := qm.sessions[h]
	if !ok {
		return mqwire.CCFailed, mqwire.RCHconnError
	}
	if _, ok := s.objects[obj]; !ok {
		return mqwire.CCFailed, mqwire.RCHobjError
	}
	qm.closeLocked(s, obj, options)
	return mqwire.CCOK, mqwire.RCNone
}

func (qm *QueueManager) closeLocked(s *session, obj mqi.Hobj, options int32) {
	oh := s.objects[obj]
	delete(s.objects, obj)

	if oh.options&(mqwire.OOInputShared|mqwire.OOInputExclusive) != 0 {
		oh.q.openInput--
		if oh.options&mqwire.OOInputExclusive != 0 {
			oh.q.exclusive = false
		}
	}
	if oh.options&mqwire.OOOutput != 0 {
		oh.q.openOutput--
	}
	if oh.q.dynamic && options&(mqwire.CODelete|mqwire.CODeletePurge) != 0 {
		delete(qm.queues, oh.q.name)
	}
}

// Put appends a message. A put on the admin command queue is handed to the
// command server instead of being stored; replies land on the descriptor's
// reply queue.
func (qm *QueueManager) Put(h mqi.Hconn, obj mqi.Hobj, md, pmo, body []byte) ([]byte, int32, int32) {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	oh, compCode, reason := qm.lookup(h, obj)
	if compCode != mqwire.CCOK {
		return nil, compCode, reason
	}
	if oh.options&mqwire.OOOutput == 0 {
		return nil, mqwire.CCFailed, mqwire.RCNotOpenForOutput
	}
	desc, err := mqwire.DecodeMsgDesc(md)
	if err != nil {
		return nil, mqwire.CCFailed, mqwire.RCUnexpectedError
	}
	opts, err := mqwire.DecodePutOptions(pmo)
	if err != nil {
		return nil, mqwire.CCFailed, mqwire.RCUnexpectedError
	}

	q := oh.q
	if q.putInhibited {
		return nil, mqwire.CCFailed, mqwire.RCPutInhibited
	}
	if q.name != mqwire.AdminCommandQueue && int32(len(q.messages)) >= q.maxDepth {
		return nil, mqwire.CCFailed, mqwire.RCQFull
	}

	if opts.Options&mqwire.PMONewMsgID != 0 || isZeroID(desc.MsgID) {
		desc.MsgID = newMsgID()
	}
	if opts.Options&mqwire.PMONewCorrelID != 0 {
		desc.CorrelID = newMsgID()
	}
	if desc.Priority == mqwire.PriorityAsQDef {
		desc.Priority = 0
	}
	if desc.Persistence == mqwire.PerPersistenceAsQDef {
		desc.Persistence = mqwire.PerNotPersistent
	}
	stampPut(desc)

	stored := make([]byte, len(body))
	copy(stored, body)

	if q.name == mqwire.AdminCommandQueue {
		qm.serveCommand(desc, stored)
	} else {
		q.messages = append(q.messages, &storedMessage{md: *desc, body: stored})
	}
	return desc.Encode(), mqwire.CCOK, mqwire.RCNone
}

// Get reads one message, browsing or destructively depending on the get
// options. All puts are synchronous, so a wait interval never helps: when
// nothing matches now, nothing will.
func (qm *QueueManager) Get(h mqi.Hconn, obj mqi.Hobj, md, gmo []byte, bufferLength int32) ([]byte, []byte, int32, int32, int32) {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	oh, compCode, reason := qm.lookup(h, obj)
	if compCode != mqwire.CCOK {
		return nil, nil, 0, compCode, reason
	}
	desc, err := mqwire.DecodeMsgDesc(md)
	if err != nil {
		return nil, nil, 0, mqwire.CCFailed, mqwire.RCUnexpectedError
	}
	opts, err := mqwire.DecodeGetOptions(gmo)
	if err != nil {
		return nil, nil, 0, mqwire.CCFailed, mqwire.RCUnexpectedError
	}

	browsing := opts.Options&(mqwire.GMOBrowseFirst|mqwire.GMOBrowseNext) != 0
	if browsing && oh.options&mqwire.OOBrowse == 0 {
		return nil, nil, 0, mqwire.CCFailed, mqwire.RCNotOpenForBrowse
	}
	if !browsing && oh.options&(mqwire.OOInputShared|mqwire.OOInputExclusive) == 0 {
		return nil, nil, 0, mqwire.CCFailed, mqwire.RCNotOpenForInput
	}
	if oh.q.getInhibited {
		return nil, nil, 0, mqwire.CCFailed, mqwire.RCGetInhibited
	}

	from := 0
	if opts.Options&mqwire.GMOBrowseNext != 0 {
		from = oh.cursor + 1
	}
	idx := findMessage(oh.q.messages, from, desc, opts.MatchOptions)
	if idx < 0 {
		return nil, nil, 0, mqwire.CCFailed, mqwire.RCNoMsgAvailable
	}

	msg := oh.q.messages[idx]
	full := int32(len(msg.body))
	mdOut := msg.md.Encode()

	if full > bufferLength {
		if opts.Options&mqwire.GMOAcceptTruncatedMsg == 0 {
			// Message stays; the caller re-gets with a buffer of the
			// returned length.
			return mdOut, nil, full, mqwire.CCWarning, mqwire.RCTruncatedMsgFailed
		}
		data := make([]byte, bufferLength)
		copy(data, msg.body)
		qm.consume(oh, browsing, idx)
		return mdOut, data, full, mqwire.CCWarning, mqwire.RCTruncatedMsgAccepted
	}

	data := make([]byte, full)
	copy(data, msg.body)
	qm.consume(oh, browsing, idx)
	return mdOut, data, full, mqwire.CCOK, mqwire.RCNone
}

func (qm *QueueManager) consume(oh *openHandle, browsing bool, idx int) {
	if browsing {
		oh.cursor = idx
		return
	}
	oh.q.messages = append(oh.q.messages[:idx], oh.q.messages[idx+1:]...)
	if oh.cursor >= idx {
		oh.cursor--
	}
}

// Inq answers integer attribute selectors against an open queue.
func (qm *QueueManager) Inq(h mqi.Hconn, obj mqi.Hobj, selectors []int32) ([]int32, int32, int32) {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	oh, compCode, reason := qm.lookup(h, obj)
	if compCode != mqwire.CCOK {
		return nil, compCode, reason
	}
	if oh.options&mqwire.OOInquire == 0 {
		return nil, mqwire.CCFailed, mqwire.RCNotOpenForInquire
	}

	q := oh.q
	values := make([]int32, 0, len(selectors))
	for _, sel := range selectors {
		switch sel {
		case mqwire.IACurrentQDepth:
			values = append(values, int32(len(q.messages)))
		case mqwire.IAMaxQDepth:
			values = append(values, q.maxDepth)
		case mqwire.IAOpenInputCount:
			values = append(values, int32(q.openInput))
		case mqwire.IAOpenOutputCount:
			values = append(values, int32(q.openOutput))
		case mqwire.IAInhibitGet:
			values = append(values, boolAttr(q.getInhibited))
		case mqwire.IAInhibitPut:
			values = append(values, boolAttr(q.putInhibited))
		case mqwire.IAQType:
			values = append(values, q.qtype)
		default:
			return nil, mqwire.CCFailed, mqwire.RCSelectorError
		}
	}
	return values, mqwire.CCOK, mqwire.RCNone
}

func (qm *QueueManager) lookup(h mqi.Hconn, obj mqi.Hobj) (*openHandle, int32, int32) {
	s, ok := qm.sessions[h]
	if !ok {
		return nil, mqwire.CCFailed, mqwire.RCHconnError
	}
	oh, ok := s.objects[obj]
	if !ok {
		return nil, mqwire.CCFailed, mqwire.RCHobjError
	}
	return oh, mqwire.CCOK, mqwire.RCNone
}

// findMessage returns the index of the first message at or after from that
// satisfies the match options, or -1.
func findMessage(messages []*storedMessage, from int, desc *mqwire.MsgDesc, matchOptions int32) int {
	if from < 0 {
		from = 0
	}
	for i := from; i < len(messages); i++ {
		m := messages[i]
		if matchOptions&mqwire.MOMatchMsgID != 0 && !idEqual(m.md.MsgID, desc.MsgID) {
			continue
		}
		if matchOptions&mqwire.MOMatchCorrelID != 0 && !idEqual(m.md.CorrelID, desc.CorrelID) {
			continue
		}
		return i
	}
	return -1
}

func idEqual(a, b []byte) bool {
	return bytes.Equal(padID(a), padID(b))
}

func padID(id []byte) []byte {
	out := make([]byte, mqwire.MsgIDLength)
	copy(out, id)
	return out
}

func isZeroID(id []byte) bool {
	for _, b := range id {
		if b != 0 {
			return false
		}
	}
	return true
}

func boolAttr(v bool) int32 {
	if v {
		return 1
	}
	return 0
}
