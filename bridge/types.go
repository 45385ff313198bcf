// SPDX-License-Identifier: GPL-3.0-or-later

package bridge

import (
	"time"

	"github.com/queueworks/mqbridge/mqwire"
)

// Config identifies the queue manager a Client connects to.
type Config struct {
	QueueManager string
	Channel      string
	Host         string
	Port         int
	User         string
	Password     string
}

// QueueType is the defined type of a queue.
type QueueType int32

const (
	QueueTypeLocal   QueueType = QueueType(mqwire.QTLocal)
	QueueTypeModel   QueueType = QueueType(mqwire.QTModel)
	QueueTypeAlias   QueueType = QueueType(mqwire.QTAlias)
	QueueTypeRemote  QueueType = QueueType(mqwire.QTRemote)
	QueueTypeCluster QueueType = QueueType(mqwire.QTCluster)
)

func (t QueueType) String() string {
	switch t {
	case QueueTypeLocal:
		return "local"
	case QueueTypeModel:
		return "model"
	case QueueTypeAlias:
		return "alias"
	case QueueTypeRemote:
		return "remote"
	case QueueTypeCluster:
		return "cluster"
	default:
		return "unknown"
	}
}

// QueueInfo is a point-in-time snapshot of a queue's attributes. It has no
// identity beyond the name and is re-fetched on every inquiry, never cached.
type QueueInfo struct {
	Name            string
	Type            QueueType
	CurrentDepth    int32
	MaxDepth        int32
	OpenInputCount  int32
	OpenOutputCount int32
	GetInhibited    bool
	PutInhibited    bool
}

// Persistence values for SendMessage.
const (
	NotPersistent             = mqwire.PerNotPersistent
	Persistent                = mqwire.PerPersistent
	PersistenceAsQueueDefault = mqwire.PerPersistenceAsQDef
)

// Message type values for SendMessage.
const (
	TypeRequest  = mqwire.MTRequest
	TypeReply    = mqwire.MTReply
	TypeReport   = mqwire.MTReport
	TypeDatagram = mqwire.MTDatagram
)

// Message is one browsed or received message. Position is the zero-based
// index within the browse call that produced it; it has no relation to any
// server-side ordinal and is recomputed on every browse.
type Message struct {
	Position            int
	MessageID           []byte
	CorrelationID       []byte
	Format              string
	Type                int32
	Persistence         int32
	Priority            int32
	ReplyToQueue        string
	ReplyToQueueManager string
	SequenceNumber      int32
	PutApplName         string
	PutTimestamp        time.Time // zero when the put date/time fields were absent or malformed
	Payload             []byte
	TotalLength         int32 // full message length on the queue; exceeds len(Payload) when truncated
}

// PayloadString returns the payload as a string.
func (m *Message) PayloadString() string { return string(m.Payload) }

// HasReplyTo reports whether the sender named a reply queue.
func (m *Message) HasReplyTo() bool { return m.ReplyToQueue != "" }

// Truncated reports whether the payload was cut to fit the browse buffer.
func (m *Message) Truncated() bool { return int(m.TotalLength) > len(m.Payload) }

// HasPutTimestamp reports whether the server-side put timestamp was parsed.
func (m *Message) HasPutTimestamp() bool { return !m.PutTimestamp.IsZero() }

// SendOptions describes an outgoing message. Fields left at their zero
// values fall back to the documented defaults.
type SendOptions struct {
	Payload       []byte
	CorrelationID []byte // zero-padded to 24 bytes when shorter
	ReplyToQueue  string
	Type          int32  // defaults to TypeDatagram
	Persistence   int32  // NotPersistent unless set
	Priority      *int32 // nil means "as queue default"
}
