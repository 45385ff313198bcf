// SPDX-License-Identifier: GPL-3.0-or-later

package bridge

import (
	"fmt"

	"github.com/queueworks/mqbridge/mqwire"
)

// ErrorKind classifies a bridge error into the taxonomy surfaced to callers.
type ErrorKind string

const (
	KindConnection      ErrorKind = "connection"
	KindAuthorization   ErrorKind = "authorization"
	KindNetwork         ErrorKind = "network"
	KindQueue           ErrorKind = "queue"
	KindMessage         ErrorKind = "message"
	KindOperation       ErrorKind = "operation"
	KindConfiguration   ErrorKind = "configuration"
	KindCredentialStore ErrorKind = "credential-store"
	KindUnknown         ErrorKind = "unknown"
)

// Error is the structured error every failing bridge operation returns. The
// raw completion/reason pair is always preserved alongside the mapped text
// so diagnostics never lose the numeric codes.
type Error struct {
	Kind       ErrorKind
	Op         string
	Context    string // queue or queue manager name, when one applies
	CompCode   int32
	Reason     int32
	Message    string
	Suggestion string
}

func (e *Error) Error() string {
	s := e.Message
	if e.Context != "" {
		s = fmt.Sprintf("%s [%s]", s, e.Context)
	}
	if e.Reason != 0 {
		s = fmt.Sprintf("%s: %s (completion code %d, reason %d)", e.Op, s, e.CompCode, e.Reason)
	} else if e.Op != "" {
		s = fmt.Sprintf("%s: %s", e.Op, s)
	}
	return s
}

type reasonMapping struct {
	kind       ErrorKind
	message    string
	suggestion string
}

var reasonTable = map[int32]reasonMapping{
	mqwire.RCConnectionBroken:    {KindConnection, "connection to the queue manager was broken", "reconnect and retry the operation"},
	mqwire.RCQMgrQuiescing:       {KindConnection, "queue manager is quiescing", "wait for the queue manager to restart before reconnecting"},
	mqwire.RCNotAuthorized:       {KindAuthorization, "not authorized for the requested operation", "check the user's object authority records on the queue manager"},
	mqwire.RCNotAuthenticated:    {KindAuthorization, "authentication failed", "verify the user id and password for the channel"},
	mqwire.RCHostNotAvailable:    {KindNetwork, "host is not reachable", "verify the host name, port and that a listener is running"},
	mqwire.RCChannelNotAvailable: {KindNetwork, "channel is not available", "verify channel name and listener status"},
	mqwire.RCUnknownChannelName:  {KindNetwork, "channel name is not defined on the queue manager", "verify the channel name spelling"},
	mqwire.RCUnknownQMgr:         {KindNetwork, "queue manager name is unknown at the target host", "verify the queue manager name"},
	mqwire.RCQMgrNotAvailable:    {KindNetwork, "queue manager is not available", "check that the queue manager is running and accessible"},
	mqwire.RCSSLInitialization:   {KindNetwork, "TLS initialization failed", "verify the cipher specification and key repository"},
	mqwire.RCSSLCertificate:      {KindNetwork, "TLS certificate was rejected", "verify the certificate chain on both ends of the channel"},
	mqwire.RCUnknownObjectName:   {KindQueue, "queue does not exist", "verify the queue name"},
	mqwire.RCObjectAlreadyExists: {KindQueue, "an object with that name already exists", "pick a different queue name or delete the existing queue first"},
	mqwire.RCObjectInUse:         {KindQueue, "queue is open exclusively elsewhere", "retry after the other application closes the queue"},
	mqwire.RCObjectDamaged:       {KindQueue, "queue object is damaged", "contact the queue manager administrator"},
	mqwire.RCQFull:               {KindQueue, "queue is full", "drain the queue or raise its maximum depth"},
	mqwire.RCPutInhibited:        {KindQueue, "puts are inhibited on the queue", "enable puts on the queue"},
	mqwire.RCGetInhibited:        {KindQueue, "gets are inhibited on the queue", "enable gets on the queue"},
	mqwire.RCNoMsgAvailable:      {KindMessage, "no message available", ""},
	mqwire.RCTruncatedMsgFailed:  {KindMessage, "message exceeds the provided buffer", "retry with a larger buffer"},
	mqwire.RCMsgTooBigForQ:       {KindMessage, "message exceeds the queue's maximum message length", ""},
	mqwire.RCNotConverted:        {KindMessage, "message data could not be converted", ""},
}

// mapError translates a completion/reason pair into a structured error. A
// completion code of OK never produces an error; a warning carrying the
// truncated-but-accepted reason is not an error either (the read consumed
// the message). Unrecognized reasons map to the unknown kind with the code
// preserved; the mapper itself never fails.
func mapError(op string, compCode, reason int32, context string) error {
	if compCode == mqwire.CCOK {
		return nil
	}
	if compCode == mqwire.CCWarning && reason == mqwire.RCTruncatedMsgAccepted {
		return nil
	}
	if m, ok := reasonTable[reason]; ok {
		return &Error{
			Kind:       m.kind,
			Op:         op,
			Context:    context,
			CompCode:   compCode,
			Reason:     reason,
			Message:    fmt.Sprintf("%s: %s", mqwire.ReasonString(reason), m.message),
			Suggestion: m.suggestion,
		}
	}
	return &Error{
		Kind:     KindUnknown,
		Op:       op,
		Context:  context,
		CompCode: compCode,
		Reason:   reason,
		Message:  fmt.Sprintf("unrecognized reason code %s", mqwire.ReasonString(reason)),
	}
}

// operationError reports a failure that has no finer classification than the
// operation it happened in.
func operationError(op string, compCode, reason int32, message string) error {
	return &Error{
		Kind:     KindOperation,
		Op:       op,
		CompCode: compCode,
		Reason:   reason,
		Message:  message,
	}
}

// configError reports locally rejected input; it never touches the wire.
func configError(op, message string) error {
	return &Error{Kind: KindConfiguration, Op: op, Message: message}
}

func errNotConnected(op string) error {
	return &Error{
		Kind:       KindConnection,
		Op:         op,
		Message:    "not connected to a queue manager",
		Suggestion: "connect before issuing queue operations",
	}
}

func connectionFailed(reason int32, qmgr string) error {
	err := mapError("connect", mqwire.CCFailed, reason, qmgr)
	if e, ok := err.(*Error); ok && e.Kind == KindUnknown {
		e.Kind = KindConnection
	}
	return err
}

// messageNotFound reports a delete-by-id that matched nothing. It is
// distinct from the generic no-message-available mapping so callers can tell
// "queue drained" from "that id is not here".
func messageNotFound(op, queue string) error {
	return &Error{
		Kind:     KindMessage,
		Op:       op,
		Context:  queue,
		CompCode: mqwire.CCFailed,
		Reason:   mqwire.RCNoMsgAvailable,
		Message:  "message not found",
	}
}
