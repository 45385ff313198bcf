// SPDX-License-Identifier: GPL-3.0-or-later

package mqwire

import "fmt"

var reasonNames = map[int32]string{
	RCNone:                 "MQRC_NONE",
	RCConnectionBroken:     "MQRC_CONNECTION_BROKEN",
	RCGetInhibited:         "MQRC_GET_INHIBITED",
	RCMsgTooBigForQ:        "MQRC_MSG_TOO_BIG_FOR_Q",
	RCNoMsgAvailable:       "MQRC_NO_MSG_AVAILABLE",
	RCHconnError:           "MQRC_HCONN_ERROR",
	RCHobjError:            "MQRC_HOBJ_ERROR",
	RCNotOpenForBrowse:     "MQRC_NOT_OPEN_FOR_BROWSE",
	RCNotOpenForInput:      "MQRC_NOT_OPEN_FOR_INPUT",
	RCNotOpenForInquire:    "MQRC_NOT_OPEN_FOR_INQUIRE",
	RCNotOpenForOutput:     "MQRC_NOT_OPEN_FOR_OUTPUT",
	RCSelectorError:        "MQRC_SELECTOR_ERROR",
	RCNotAuthorized:        "MQRC_NOT_AUTHORIZED",
	RCObjectAlreadyExists:  "MQRC_OBJECT_ALREADY_EXISTS",
	RCObjectInUse:          "MQRC_OBJECT_IN_USE",
	RCPutInhibited:         "MQRC_PUT_INHIBITED",
	RCQFull:                "MQRC_Q_FULL",
	RCUnknownQMgr:          "MQRC_UNKNOWN_Q_MGR",
	RCQMgrNotAvailable:     "MQRC_Q_MGR_NOT_AVAILABLE",
	RCQMgrQuiescing:        "MQRC_Q_MGR_QUIESCING",
	RCTruncatedMsgAccepted: "MQRC_TRUNCATED_MSG_ACCEPTED",
	RCTruncatedMsgFailed:   "MQRC_TRUNCATED_MSG_FAILED",
	RCUnknownObjectName:    "MQRC_UNKNOWN_OBJECT_NAME",
	RCObjectDamaged:        "MQRC_OBJECT_DAMAGED",
	RCNotConverted:         "MQRC_NOT_CONVERTED",
	RCUnexpectedError:      "MQRC_UNEXPECTED_ERROR",
	RCNotAuthenticated:     "MQRC_SECURITY_ERROR",
	RCChannelNotAvailable:  "MQRC_CHANNEL_NOT_AVAILABLE",
	RCHostNotAvailable:     "MQRC_HOST_NOT_AVAILABLE",
	RCUnknownChannelName:   "MQRC_UNKNOWN_CHANNEL_NAME",
	RCSSLInitialization:    "MQRC_SSL_INITIALIZATION_ERROR",
	RCSSLCertificate:       "MQRC_SSL_CERTIFICATE_ERROR",
}

// ReasonString returns a human-readable name for an MQ reason code, or a
// numeric placeholder for codes outside the known set.
func ReasonString(reason int32) string {
	if name, ok := reasonNames[reason]; ok {
		return name
	}
	return fmt.Sprintf("MQRC_%d", reason)
}

var commandNames = map[int32]string{
	CmdCreateQ:  "MQCMD_CREATE_Q",
	CmdDeleteQ:  "MQCMD_DELETE_Q",
	CmdChangeQ:  "MQCMD_CHANGE_Q",
	CmdInquireQ: "MQCMD_INQUIRE_Q",
}

// CommandString returns a human-readable name for a PCF command code.
func CommandString(command int32) string {
	if name, ok := commandNames[command]; ok {
		return name
	}
	return fmt.Sprintf("MQCMD_%d", command)
}
