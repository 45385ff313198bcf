// SPDX-License-Identifier: GPL-3.0-or-later

// Package mqsim is an in-memory queue manager speaking the mqi.Conn call
// surface. It decodes the same wire structures a real queue manager would,
// enforces queue semantics (depth limits, inhibits, exclusive use, dynamic
// queues) and answers PCF administration commands put on the command queue.
// It exists to run the bridge end to end without a licensed server.
package mqsim

import (
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/queueworks/mqbridge/mqi"
	"github.com/queueworks/mqbridge/mqwire"
)

const defaultMaxDepth = 5000

// QueueManager is one simulated queue manager instance. The zero value is
// not usable; construct with New.
type QueueManager struct {
	name     string
	user     string
	password string

	mu           sync.Mutex
	nextConn     mqi.Hconn
	nextObj      mqi.Hobj
	sessions     map[mqi.Hconn]*session
	queues       map[string]*queue
	unauthorized map[string]bool
}

var _ mqi.Conn = (*QueueManager)(nil)

type session struct {
	objects map[mqi.Hobj]*openHandle
}

type openHandle struct {
	q       *queue
	options int32
	cursor  int // index of the last browsed message, -1 before browse-first
}

type queue struct {
	name         string
	qtype        int32
	maxDepth     int32
	getInhibited bool
	putInhibited bool
	dynamic      bool
	openInput    int
	openOutput   int
	exclusive    bool
	messages     []*storedMessage
}

type storedMessage struct {
	md   mqwire.MsgDesc
	body []byte
}

// Option configures a QueueManager at construction.
type Option func(*QueueManager)

// WithQueue predefines a local queue. maxDepth of 0 applies the default.
func WithQueue(name string, maxDepth int32) Option {
	return func(qm *QueueManager) {
		if maxDepth <= 0 {
			maxDepth = defaultMaxDepth
		}
		qm.queues[name] = &queue{name: name, qtype: mqwire.QTLocal, maxDepth: maxDepth}
	}
}

// WithUnauthorizedQueue predefines a local queue that every open fails on
// with a not-authorized reason.
func WithUnauthorizedQueue(name string) Option {
	return func(qm *QueueManager) {
		qm.queues[name] = &queue{name: name, qtype: mqwire.QTLocal, maxDepth: defaultMaxDepth}
		qm.unauthorized[name] = true
	}
}

// WithCredentials requires clients to present the given user id and
// password in their security parameters on connect.
func WithCredentials(user, password string) Option {
	return func(qm *QueueManager) {
		qm.user = user
		qm.password = password
	}
}

// New builds a queue manager carrying the standard system objects: the
// admin command queue and the default model queue.
func New(name string, opts ...Option) *QueueManager {
	qm := &QueueManager{
		name:         name,
		sessions:     make(map[mqi.Hconn]*session),
		queues:       make(map[string]*queue),
		unauthorized: make(map[string]bool),
	}
	qm.queues[mqwire.AdminCommandQueue] = &queue{
		name: mqwire.AdminCommandQueue, qtype: mqwire.QTLocal, maxDepth: defaultMaxDepth,
	}
	qm.queues[mqwire.DefaultModelQueue] = &queue{
		name: mqwire.DefaultModelQueue, qtype: mqwire.QTModel, maxDepth: defaultMaxDepth,
	}
	for _, opt := range opts {
		opt(qm)
	}
	return qm
}

// Seed appends string messages to a queue, bypassing inhibits and depth
// limits. It is test setup, not a queue operation.
func (qm *QueueManager) Seed(queueName string, payloads ...string) bool {
	qm.mu.Lock()
	defer qm.mu.Unlock()
	q, ok := qm.queues[queueName]
	if !ok {
		return false
	}
	for _, p := range payloads {
		md := mqwire.MsgDesc{
			MsgType:     mqwire.MTDatagram,
			Format:      mqwire.FormatString,
			Persistence: mqwire.PerNotPersistent,
			MsgID:       newMsgID(),
		}
		stampPut(&md)
		q.messages = append(q.messages, &storedMessage{md: md, body: []byte(p)})
	}
	return true
}

// SetGetInhibited toggles the queue's get inhibit.
func (qm *QueueManager) SetGetInhibited(queueName string, inhibited bool) bool {
	qm.mu.Lock()
	defer qm.mu.Unlock()
	q, ok := qm.queues[queueName]
	if ok {
		q.getInhibited = inhibited
	}
	return ok
}

// SetPutInhibited toggles the queue's put inhibit.
func (qm *QueueManager) SetPutInhibited(queueName string, inhibited bool) bool {
	qm.mu.Lock()
	defer qm.mu.Unlock()
	q, ok := qm.queues[queueName]
	if ok {
		q.putInhibited = inhibited
	}
	return ok
}

// Depth returns how many messages a queue holds.
func (qm *QueueManager) Depth(queueName string) (int, bool) {
	qm.mu.Lock()
	defer qm.mu.Unlock()
	q, ok := qm.queues[queueName]
	if !ok {
		return 0, false
	}
	return len(q.messages), true
}

// HasQueue reports whether a queue is defined.
func (qm *QueueManager) HasQueue(queueName string) bool {
	qm.mu.Lock()
	defer qm.mu.Unlock()
	_, ok := qm.queues[queueName]
	return ok
}

// Connx validates the connect options and issues a connection handle.
func (qm *QueueManager) Connx(qmgrName string, cno []byte) (mqi.Hconn, int32, int32) {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	opts, err := mqwire.DecodeConnOptions(cno)
	if err != nil {
		return mqi.UnusableHconn, mqwire.CCFailed, mqwire.RCUnexpectedError
	}
	if qmgrName != qm.name {
		return mqi.UnusableHconn, mqwire.CCFailed, mqwire.RCUnknownQMgr
	}
	if opts.Desc.ChannelName == "" {
		return mqi.UnusableHconn, mqwire.CCFailed, mqwire.RCUnknownChannelName
	}
	if qm.user != "" && (opts.User != qm.user || opts.Password != qm.password) {
		return mqi.UnusableHconn, mqwire.CCFailed, mqwire.RCNotAuthorized
	}

	qm.nextConn++
	h := qm.nextConn
	qm.sessions[h] = &session{objects: make(map[mqi.Hobj]*openHandle)}
	return h, mqwire.CCOK, mqwire.RCNone
}

// Disc releases the connection and every object it still holds open.
func (qm *QueueManager) Disc(h mqi.Hconn) (int32, int32) {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	s, ok := qm.sessions[h]
	if !ok {
		return mqwire.CCFailed, mqwire.RCHconnError
	}
	for obj := range s.objects {
		qm.closeLocked(s, obj, mqwire.CONone)
	}
	delete(qm.sessions, h)
	return mqwire.CCOK, mqwire.RCNone
}

// newMsgID builds a 24-byte message id in the conventional shape: a fixed
// eight-byte prefix followed by unique bytes.
func newMsgID() []byte {
	id := make([]byte, mqwire.MsgIDLength)
	copy(id, "AMQ MSIM")
	u := uuid.New()
	copy(id[8:], u[:])
	return id
}

// stampPut fills the server-side put fields of a descriptor.
func stampPut(md *mqwire.MsgDesc) {
	now := time.Now().UTC()
	md.PutDate = now.Format("20060102")
	hundredths := now.Nanosecond() / 10_000_000
	md.PutTime = now.Format("150405") + string([]byte{byte('0' + hundredths/10), byte('0' + hundredths%10)})
	md.PutApplName = "mqsim"
	md.PutApplType = 6
	if md.SeqNumber == 0 {
		md.SeqNumber = 1
	}
}

// dynamicQueueName completes a dynamic queue name: a trailing '*' is
// replaced with unique hex, an empty prefix gets the conventional one.
func dynamicQueueName(prefix string) string {
	if prefix == "" {
		prefix = "AMQ.*"
	}
	if !strings.HasSuffix(prefix, "*") {
		return prefix
	}
	u := uuid.New()
	suffix := strings.ToUpper(hex.EncodeToString(u[:]))
	name := prefix[:len(prefix)-1] + suffix
	if len(name) > mqwire.QNameLength {
		name = name[:mqwire.QNameLength]
	}
	return name
}
