// SPDX-License-Identifier: GPL-3.0-or-later

package mqwire

import "fmt"

// Structure identifiers and total encoded lengths. The field order inside
// each structure follows the client header exactly; the lengths below are
// the full encoded widths, with fields this client never populates left
// zeroed.
const (
	CDLength  = 1312
	CNOLength = 20
	CSPLength = 28
	ODLength  = 168
	MDLength  = 364
	GMOLength = 108
	PMOLength = 128
)

// Byte offsets of the fields this client reads or writes. Encode and decode
// share these tables; a mismatch here corrupts adjacent fields, so the
// offsets are asserted in tests against the declared widths.
const (
	cdChannelNameOffset    = 0 // 20 chars
	cdVersionOffset        = 20
	cdChannelTypeOffset    = 24
	cdTransportTypeOffset  = 28
	cdMaxMsgLengthOffset   = 844
	cdConnectionNameOffset = 1024 // 264 chars

	odStrucIDOffset      = 0 // 4 chars
	odVersionOffset      = 4
	odObjectTypeOffset   = 8
	odObjectNameOffset   = 12  // 48 chars
	odObjectQMgrOffset   = 60  // 48 chars
	odDynamicQNameOffset = 108 // 48 chars
	odAltUserIDOffset    = 156 // 12 chars

	mdStrucIDOffset      = 0 // 4 chars
	mdVersionOffset      = 4
	mdReportOffset       = 8
	mdMsgTypeOffset      = 12
	mdExpiryOffset       = 16
	mdFeedbackOffset     = 20
	mdEncodingOffset     = 24
	mdCodedCharSetOffset = 28
	mdFormatOffset       = 32 // 8 chars
	mdPriorityOffset     = 40
	mdPersistenceOffset  = 44
	mdMsgIDOffset        = 48 // 24 bytes
	mdCorrelIDOffset     = 72 // 24 bytes
	mdBackoutCountOffset = 96
	mdReplyToQOffset     = 100 // 48 chars
	mdReplyToQMgrOffset  = 148 // 48 chars
	mdUserIDOffset       = 196 // 12 chars
	mdPutApplTypeOffset  = 272
	mdPutApplNameOffset  = 276 // 28 chars
	mdPutDateOffset      = 304 // 8 chars
	mdPutTimeOffset      = 312 // 8 chars
	mdSeqNumberOffset    = 348

	gmoStrucIDOffset      = 0 // 4 chars
	gmoVersionOffset      = 4
	gmoOptionsOffset      = 8
	gmoWaitIntervalOffset = 12
	gmoResolvedQOffset    = 24 // 48 chars
	gmoMatchOptionsOffset = 72
	gmoReturnedLenOffset  = 96

	pmoStrucIDOffset   = 0 // 4 chars
	pmoVersionOffset   = 4
	pmoOptionsOffset   = 8
	pmoResolvedQOffset = 32 // 48 chars
)

func putString(buf []byte, off int, s string, width int) {
	copy(buf[off:off+width], EncodeFixedString(s, width))
}

func getString(buf []byte, off, width int) string {
	return DecodeFixedString(buf[off : off+width])
}

func putBytes(buf []byte, off int, b []byte, width int) {
	field := make([]byte, width)
	copy(field, b)
	copy(buf[off:off+width], field)
}

func checkLength(name string, buf []byte, want int) error {
	if len(buf) != want {
		return fmt.Errorf("mqwire: %s is %d bytes, want %d", name, len(buf), want)
	}
	return nil
}

// ConnDesc is the channel definition (MQCD) the client sends on connect.
type ConnDesc struct {
	ChannelName    string // <=20 chars
	ChannelType    int32
	TransportType  int32
	MaxMsgLength   int32
	ConnectionName string // "host(port)", <=264 chars
}

func (d *ConnDesc) Encode() []byte {
	buf := make([]byte, CDLength)
	putString(buf, cdChannelNameOffset, d.ChannelName, ChannelNameLength)
	putInt32At(buf, cdVersionOffset, CDVersion11)
	putInt32At(buf, cdChannelTypeOffset, d.ChannelType)
	putInt32At(buf, cdTransportTypeOffset, d.TransportType)
	putInt32At(buf, cdMaxMsgLengthOffset, d.MaxMsgLength)
	putString(buf, cdConnectionNameOffset, d.ConnectionName, ConnNameLength)
	return buf
}

func DecodeConnDesc(buf []byte) (*ConnDesc, error) {
	if err := checkLength("connection descriptor", buf, CDLength); err != nil {
		return nil, err
	}
	return &ConnDesc{
		ChannelName:    getString(buf, cdChannelNameOffset, ChannelNameLength),
		ChannelType:    int32At(buf, cdChannelTypeOffset),
		TransportType:  int32At(buf, cdTransportTypeOffset),
		MaxMsgLength:   int32At(buf, cdMaxMsgLengthOffset),
		ConnectionName: getString(buf, cdConnectionNameOffset, ConnNameLength),
	}, nil
}

// ConnOptions is the connect options block (MQCNO). The channel definition
// and, when credentials are supplied, the security parameters (MQCSP) are
// appended behind the fixed part and referenced by offset, the way the C
// interface links them for distributed clients.
type ConnOptions struct {
	Options  int32
	Desc     ConnDesc
	User     string
	Password string
}

func (o *ConnOptions) Encode() []byte {
	hasCSP := o.User != "" || o.Password != ""

	w := NewWriter(CNOLength + CDLength + CSPLength + len(o.User) + len(o.Password))
	w.FixedString("CNO", 4)
	w.Int32(CNOVersion5)
	w.Int32(o.Options)
	w.Int32(int32(CNOLength)) // ClientConnOffset: MQCD follows the fixed part
	if hasCSP {
		w.Int32(int32(CNOLength + CDLength)) // SecurityParmsOffset
	} else {
		w.Int32(0)
	}
	w.Raw(o.Desc.Encode())

	if hasCSP {
		userOff := int32(CNOLength + CDLength + CSPLength)
		w.FixedString("CSP", 4)
		w.Int32(CSPVersion1)
		w.Int32(CSPAuthUserIDAndPwd)
		w.Int32(userOff)
		w.Int32(int32(len(o.User)))
		w.Int32(userOff + int32(len(o.User)))
		w.Int32(int32(len(o.Password)))
		w.Raw([]byte(o.User))
		w.Raw([]byte(o.Password))
	}
	return w.Buf()
}

func DecodeConnOptions(buf []byte) (*ConnOptions, error) {
	r := NewReader(buf)
	id, err := r.FixedString(4)
	if err != nil {
		return nil, err
	}
	if id != "CNO" {
		return nil, fmt.Errorf("mqwire: connect options StrucId %q, want \"CNO\"", id)
	}
	if _, err := r.Int32(); err != nil { // version
		return nil, err
	}
	options, err := r.Int32()
	if err != nil {
		return nil, err
	}
	cdOff, err := r.Int32()
	if err != nil {
		return nil, err
	}
	cspOff, err := r.Int32()
	if err != nil {
		return nil, err
	}

	out := &ConnOptions{Options: options}

	if int(cdOff)+CDLength > len(buf) {
		return nil, fmt.Errorf("mqwire: channel definition offset %d exceeds buffer of %d bytes", cdOff, len(buf))
	}
	cd, err := DecodeConnDesc(buf[cdOff : int(cdOff)+CDLength])
	if err != nil {
		return nil, err
	}
	out.Desc = *cd

	if cspOff != 0 {
		if int(cspOff)+CSPLength > len(buf) {
			return nil, fmt.Errorf("mqwire: security parms offset %d exceeds buffer of %d bytes", cspOff, len(buf))
		}
		cr := NewReader(buf[cspOff:])
		cid, err := cr.FixedString(4)
		if err != nil {
			return nil, err
		}
		if cid != "CSP" {
			return nil, fmt.Errorf("mqwire: security parms StrucId %q, want \"CSP\"", cid)
		}
		if err := cr.Skip(8); err != nil { // version, auth type
			return nil, err
		}
		userOff, err := cr.Int32()
		if err != nil {
			return nil, err
		}
		userLen, err := cr.Int32()
		if err != nil {
			return nil, err
		}
		pwdOff, err := cr.Int32()
		if err != nil {
			return nil, err
		}
		pwdLen, err := cr.Int32()
		if err != nil {
			return nil, err
		}
		if int(userOff)+int(userLen) > len(buf) || int(pwdOff)+int(pwdLen) > len(buf) || userLen < 0 || pwdLen < 0 {
			return nil, fmt.Errorf("mqwire: credential offsets exceed buffer of %d bytes", len(buf))
		}
		out.User = string(buf[userOff : userOff+userLen])
		out.Password = string(buf[pwdOff : pwdOff+pwdLen])
	}
	return out, nil
}

// ObjectDesc is the object descriptor (MQOD) passed to open. For model
// queues the queue manager replaces ObjectName with the generated dynamic
// queue name on return.
type ObjectDesc struct {
	ObjectType     int32
	ObjectName     string // <=48 chars
	ObjectQMgrName string // <=48 chars
	DynamicQName   string // <=48 chars, trailing '*' completed by the server
}

func (d *ObjectDesc) Encode() []byte {
	buf := make([]byte, ODLength)
	putString(buf, odStrucIDOffset, "OD", 4)
	putInt32At(buf, odVersionOffset, ODVersion4)
	putInt32At(buf, odObjectTypeOffset, d.ObjectType)
	putString(buf, odObjectNameOffset, d.ObjectName, QNameLength)
	putString(buf, odObjectQMgrOffset, d.ObjectQMgrName, QMgrNameLength)
	putString(buf, odDynamicQNameOffset, d.DynamicQName, QNameLength)
	return buf
}

func DecodeObjectDesc(buf []byte) (*ObjectDesc, error) {
	if err := checkLength("object descriptor", buf, ODLength); err != nil {
		return nil, err
	}
	if id := getString(buf, odStrucIDOffset, 4); id != "OD" {
		return nil, fmt.Errorf("mqwire: object descriptor StrucId %q, want \"OD\"", id)
	}
	return &ObjectDesc{
		ObjectType:     int32At(buf, odObjectTypeOffset),
		ObjectName:     getString(buf, odObjectNameOffset, QNameLength),
		ObjectQMgrName: getString(buf, odObjectQMgrOffset, QMgrNameLength),
		DynamicQName:   getString(buf, odDynamicQNameOffset, QNameLength),
	}, nil
}

// SetObjectName patches the object name field of an encoded descriptor in
// place, the way the queue manager returns the resolved dynamic queue name.
func SetObjectName(buf []byte, name string) error {
	if err := checkLength("object descriptor", buf, ODLength); err != nil {
		return err
	}
	putString(buf, odObjectNameOffset, name, QNameLength)
	return nil
}

// MsgDesc is the message descriptor (MQMD). The caller populates a subset on
// put; the queue manager fills the rest on return from put and get.
type MsgDesc struct {
	Report       int32
	MsgType      int32
	Expiry       int32
	Feedback     int32
	Encoding     int32
	CodedCharSet int32
	Format       string // 8 chars
	Priority     int32
	Persistence  int32
	MsgID        []byte // 24 bytes
	CorrelID     []byte // 24 bytes
	BackoutCount int32
	ReplyToQ     string // <=48 chars
	ReplyToQMgr  string // <=48 chars
	UserID       string // <=12 chars
	PutApplType  int32
	PutApplName  string // <=28 chars
	PutDate      string // 8 chars, YYYYMMDD
	PutTime      string // 8 chars, HHMMSSSS
	SeqNumber    int32
}

func (d *MsgDesc) Encode() []byte {
	buf := make([]byte, MDLength)
	putString(buf, mdStrucIDOffset, "MD", 4)
	putInt32At(buf, mdVersionOffset, MDVersion2)
	putInt32At(buf, mdReportOffset, d.Report)
	putInt32At(buf, mdMsgTypeOffset, d.MsgType)
	putInt32At(buf, mdExpiryOffset, d.Expiry)
	putInt32At(buf, mdFeedbackOffset, d.Feedback)
	putInt32At(buf, mdEncodingOffset, d.Encoding)
	putInt32At(buf, mdCodedCharSetOffset, d.CodedCharSet)
	putString(buf, mdFormatOffset, d.Format, FormatLength)
	putInt32At(buf, mdPriorityOffset, d.Priority)
	putInt32At(buf, mdPersistenceOffset, d.Persistence)
	putBytes(buf, mdMsgIDOffset, d.MsgID, MsgIDLength)
	putBytes(buf, mdCorrelIDOffset, d.CorrelID, CorrelIDLength)
	putInt32At(buf, mdBackoutCountOffset, d.BackoutCount)
	putString(buf, mdReplyToQOffset, d.ReplyToQ, QNameLength)
	putString(buf, mdReplyToQMgrOffset, d.ReplyToQMgr, QMgrNameLength)
	putString(buf, mdUserIDOffset, d.UserID, 12)
	putInt32At(buf, mdPutApplTypeOffset, d.PutApplType)
	putString(buf, mdPutApplNameOffset, d.PutApplName, PutApplNameLength)
	putString(buf, mdPutDateOffset, d.PutDate, PutDateLength)
	putString(buf, mdPutTimeOffset, d.PutTime, PutTimeLength)
	putInt32At(buf, mdSeqNumberOffset, d.SeqNumber)
	return buf
}

func DecodeMsgDesc(buf []byte) (*MsgDesc, error) {
	if err := checkLength("message descriptor", buf, MDLength); err != nil {
		return nil, err
	}
	if id := getString(buf, mdStrucIDOffset, 4); id != "MD" {
		return nil, fmt.Errorf("mqwire: message descriptor StrucId %q, want \"MD\"", id)
	}
	msgID := make([]byte, MsgIDLength)
	copy(msgID, buf[mdMsgIDOffset:])
	correlID := make([]byte, CorrelIDLength)
	copy(correlID, buf[mdCorrelIDOffset:])
	return &MsgDesc{
		Report:       int32At(buf, mdReportOffset),
		MsgType:      int32At(buf, mdMsgTypeOffset),
		Expiry:       int32At(buf, mdExpiryOffset),
		Feedback:     int32At(buf, mdFeedbackOffset),
		Encoding:     int32At(buf, mdEncodingOffset),
		CodedCharSet: int32At(buf, mdCodedCharSetOffset),
		Format:       getString(buf, mdFormatOffset, FormatLength),
		Priority:     int32At(buf, mdPriorityOffset),
		Persistence:  int32At(buf, mdPersistenceOffset),
		MsgID:        msgID,
		CorrelID:     correlID,
		BackoutCount: int32At(buf, mdBackoutCountOffset),
		ReplyToQ:     getString(buf, mdReplyToQOffset, QNameLength),
		ReplyToQMgr:  getString(buf, mdReplyToQMgrOffset, QMgrNameLength),
		UserID:       getString(buf, mdUserIDOffset, 12),
		PutApplType:  int32At(buf, mdPutApplTypeOffset),
		PutApplName:  getString(buf, mdPutApplNameOffset, PutApplNameLength),
		PutDate:      getString(buf, mdPutDateOffset, PutDateLength),
		PutTime:      getString(buf, mdPutTimeOffset, PutTimeLength),
		SeqNumber:    int32At(buf, mdSeqNumberOffset),
	}, nil
}

// GetOptions is the get message options block (MQGMO).
type GetOptions struct {
	Options      int32
	WaitInterval int32
	MatchOptions int32
}

func (o *GetOptions) Encode() []byte {
	buf := make([]byte, GMOLength)
	putString(buf, gmoStrucIDOffset, "GMO", 4)
	putInt32At(buf, gmoVersionOffset, GMOVersion2)
	putInt32At(buf, gmoOptionsOffset, o.Options)
	putInt32At(buf, gmoWaitIntervalOffset, o.WaitInterval)
	putInt32At(buf, gmoMatchOptionsOffset, o.MatchOptions)
	return buf
}

func DecodeGetOptions(buf []byte) (*GetOptions, error) {
	if err := checkLength("get options", buf, GMOLength); err != nil {
		return nil, err
	}
	if id := getString(buf, gmoStrucIDOffset, 4); id != "GMO" {
		return nil, fmt.Errorf("mqwire: get options StrucId %q, want \"GMO\"", id)
	}
	return &GetOptions{
		Options:      int32At(buf, gmoOptionsOffset),
		WaitInterval: int32At(buf, gmoWaitIntervalOffset),
		MatchOptions: int32At(buf, gmoMatchOptionsOffset),
	}, nil
}

// PutOptions is the put message options block (MQPMO).
type PutOptions struct {
	Options int32
}

func (o *PutOptions) Encode() []byte {
	buf := make([]byte, PMOLength)
	putString(buf, pmoStrucIDOffset, "PMO", 4)
	putInt32At(buf, pmoVersionOffset, PMOVersion2)
	putInt32At(buf, pmoOptionsOffset, o.Options)
	return buf
}

func DecodePutOptions(buf []byte) (*PutOptions, error) {
	if err := checkLength("put options", buf, PMOLength); err != nil {
		return nil, err
	}
	if id := getString(buf, pmoStrucIDOffset, 4); id != "PMO" {
		return nil, fmt.Errorf("mqwire: put options StrucId %q, want \"PMO\"", id)
	}
	return &PutOptions{Options: int32At(buf, pmoOptionsOffset)}, nil
}
