// SPDX-License-Identifier: GPL-3.0-or-later

package mqi

import "github.com/queueworks/mqbridge/mqwire"

// Unavailable is a Conn with no queue manager behind it: every call fails
// with MQRC_Q_MGR_NOT_AVAILABLE and handles stay at their sentinels. It is
// the default surface in builds without a transport, and a convenient way to
// exercise every connect-failure path in tests.
type Unavailable struct{}

var _ Conn = Unavailable{}

func (Unavailable) Connx(string, []byte) (Hconn, int32, int32) {
	return UnusableHconn, mqwire.CCFailed, mqwire.RCQMgrNotAvailable
}

func (Unavailable) Disc(Hconn) (int32, int32) {
	return mqwire.CCOK, mqwire.RCNone
}

func (Unavailable) Open(Hconn, []byte, int32) (Hobj, []byte, int32, int32) {
	return UnusableHobj, nil, mqwire.CCFailed, mqwire.RCQMgrNotAvailable
}

func (Unavailable) Close(Hconn, Hobj, int32) (int32, int32) {
	return mqwire.CCOK, mqwire.RCNone
}

func (Unavailable) Put(Hconn, Hobj, []byte, []byte, []byte) ([]byte, int32, int32) {
	return nil, mqwire.CCFailed, mqwire.RCQMgrNotAvailable
}

func (Unavailable) Get(Hconn, Hobj, []byte, []byte, int32) ([]byte, []byte, int32, int32, int32) {
	return nil, nil, 0, mqwire.CCFailed, mqwire.RCQMgrNotAvailable
}

func (Unavailable) Inq(Hconn, Hobj, []int32) ([]int32, int32, int32) {
	return nil, mqwire.CCFailed, mqwire.RCQMgrNotAvailable
}
