// SPDX-License-Identifier: GPL-3.0-or-later

// Package mqi defines the queue manager call surface: the seven MQI verbs a
// client issues against a connection, expressed over the codec-encoded byte
// structures of package mqwire. The protocol bridge is written against this
// interface; implementations carry the actual transport (an in-memory queue
// manager for tests and demos, or an adapter over the vendor client library).
package mqi

import "github.com/queueworks/mqbridge/mqwire"

// Hconn is a connection handle. It is meaningless outside the Conn that
// issued it.
type Hconn int32

// Hobj is an object handle, scoped to the connection that opened it.
type Hobj int32

// Unusable handle sentinels: the value a handle holds before connect/open
// and after disconnect/close.
const (
	UnusableHconn = Hconn(mqwire.HCUnusableHconn)
	UnusableHobj  = Hobj(mqwire.HOUnusableHobj)
)

// Conn is the raw MQI call surface. Every verb returns the completion code
// and reason code pair the queue manager produced; callers map them through
// the bridge's error taxonomy. Descriptor and option arguments are the
// encoded byte structures of package mqwire; verbs that update a descriptor
// on return (open resolving a dynamic queue name, put and get filling
// message descriptor fields) return the updated encoding.
//
// Calls are blocking and stateful per connection handle; see the session
// layer for the serialization this implies.
type Conn interface {
	// Connx establishes a connection to the named queue manager using the
	// encoded connect options block (which carries the channel definition
	// and, optionally, security parameters).
	Connx(qmgrName string, cno []byte) (h Hconn, compCode, reason int32)

	// Disc disconnects the handle. The handle is unusable afterwards
	// regardless of the outcome.
	Disc(h Hconn) (compCode, reason int32)

	// Open opens the object described by the encoded object descriptor with
	// the given open options. The returned descriptor carries any
	// server-resolved fields (the concrete name of a dynamic queue).
	Open(h Hconn, od []byte, options int32) (obj Hobj, odOut []byte, compCode, reason int32)

	// Close closes an object handle with the given close options.
	Close(h Hconn, obj Hobj, options int32) (compCode, reason int32)

	// Put appends a message to an open queue.
	Put(h Hconn, obj Hobj, md, pmo, body []byte) (mdOut []byte, compCode, reason int32)

	// Get reads a message from an open queue into a buffer of bufferLength
	// bytes. dataLength is the full length of the message, which exceeds
	// len(data) when the message was truncated.
	Get(h Hconn, obj Hobj, md, gmo []byte, bufferLength int32) (mdOut, data []byte, dataLength, compCode, reason int32)

	// Inq inquires integer attributes of an open object, one value per
	// selector, in selector order.
	Inq(h Hconn, obj Hobj, selectors []int32) (values []int32, compCode, reason int32)
}
