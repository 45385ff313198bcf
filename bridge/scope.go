// SPDX-License-Identifier: GPL-3.0-or-later

package bridge

import (
	"github.com/queueworks/mqbridge/mqi"
	"github.com/queueworks/mqbridge/mqwire"
)

// objectScope owns one open object handle for the duration of a single
// operation or cursor session. Callers defer Close immediately after a
// successful open so the handle is released on every exit path; Close is
// idempotent and always resets the handle to the sentinel.
type objectScope struct {
	c            *Client
	hObj         mqi.Hobj
	name         string // resolved name, which differs from the requested one for dynamic queues
	closeOptions int32
}

// openObject opens the named object and returns the owning scope. For model
// queues, dynamicPrefix seeds the server-generated reply queue name and the
// scope's name carries the concrete name the server assigned.
func (c *Client) openObject(op, queueName string, options int32, dynamicPrefix string) (*objectScope, error) {
	hConn, err := c.handle(op)
	if err != nil {
		return nil, err
	}

	od := mqwire.ObjectDesc{
		ObjectType:   mqwire.OTQ,
		ObjectName:   queueName,
		DynamicQName: dynamicPrefix,
	}
	hObj, odOut, compCode, reason := c.conn.Open(hConn, od.Encode(), options|mqwire.OOFailIfQuiescing)
	if compCode != mqwire.CCOK {
		c.log.Debugf("MQOPEN %s options=0x%x failed - completion code %d, reason %d (%s)",
			queueName, options, compCode, reason, mqwire.ReasonString(reason))
		return nil, mapError(op, compCode, reason, queueName)
	}

	resolved := queueName
	if decoded, err := mqwire.DecodeObjectDesc(odOut); err == nil && decoded.ObjectName != "" {
		resolved = decoded.ObjectName
	}
	return &objectScope{c: c, hObj: hObj, name: resolved, closeOptions: mqwire.CONone}, nil
}

// deleteOnClose asks for the object to be deleted (purging any messages)
// when the scope closes; used for dynamic reply queues.
func (s *objectScope) deleteOnClose() {
	s.closeOptions = mqwire.CODeletePurge
}

// Close releases the handle. Failures are swallowed to guarantee teardown,
// and a second Close is a no-op.
func (s *objectScope) Close() {
	if s.hObj == mqi.UnusableHobj {
		return
	}
	hConn, err := s.c.handle("close")
	if err == nil {
		compCode, reason := s.c.conn.Close(hConn, s.hObj, s.closeOptions)
		if compCode != mqwire.CCOK {
			s.c.log.Warningf("MQCLOSE %s returned completion code %d, reason %d (%s)",
				s.name, compCode, reason, mqwire.ReasonString(reason))
		}
	}
	s.hObj = mqi.UnusableHobj
}
