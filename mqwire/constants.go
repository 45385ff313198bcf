// SPDX-License-Identifier: GPL-3.0-or-later

// Package mqwire encodes and decodes the fixed-width binary structures of the
// IBM MQ client interface: the connection, object, message and option
// descriptors exchanged on every MQI call, and the PCF (Programmable Command
// Format) header and parameter structures used by the administrative command
// sub-protocol. All layouts are byte-offset exact; nothing in this package
// performs I/O or touches handles.
package mqwire

// Handle sentinels.
const (
	HCUnusableHconn int32 = -1
	HOUnusableHobj  int32 = -1
)

// Completion codes.
const (
	CCOK      int32 = 0
	CCWarning int32 = 1
	CCFailed  int32 = 2
)

// Reason codes.
const (
	RCNone                 int32 = 0
	RCConnectionBroken     int32 = 2009
	RCGetInhibited         int32 = 2016
	RCMsgTooBigForQ        int32 = 2030
	RCNoMsgAvailable       int32 = 2033
	RCNotAuthorized        int32 = 2035
	RCHconnError           int32 = 2018
	RCHobjError            int32 = 2019
	RCNotOpenForBrowse     int32 = 2036
	RCNotOpenForInput      int32 = 2037
	RCNotOpenForInquire    int32 = 2038
	RCNotOpenForOutput     int32 = 2039
	RCSelectorError        int32 = 2067
	RCObjectAlreadyExists  int32 = 2041
	RCObjectInUse          int32 = 2042
	RCPutInhibited         int32 = 2051
	RCQFull                int32 = 2053
	RCUnknownQMgr          int32 = 2058
	RCQMgrNotAvailable     int32 = 2059
	RCQMgrQuiescing        int32 = 2161
	RCTruncatedMsgAccepted int32 = 2079
	RCTruncatedMsgFailed   int32 = 2080
	RCUnknownObjectName    int32 = 2085
	RCObjectDamaged        int32 = 2101
	RCNotConverted         int32 = 2119
	RCUnexpectedError      int32 = 2195
	RCNotAuthenticated     int32 = 2063
	RCChannelNotAvailable  int32 = 2537
	RCHostNotAvailable     int32 = 2538
	RCUnknownChannelName   int32 = 2540
	RCSSLInitialization    int32 = 2393
	RCSSLCertificate       int32 = 2397
)

// Field widths.
const (
	QMgrNameLength    = 48
	QNameLength       = 48
	ChannelNameLength = 20
	ConnNameLength    = 264
	MsgIDLength       = 24
	CorrelIDLength    = 24
	FormatLength      = 8
	PutApplNameLength = 28
	PutDateLength     = 8
	PutTimeLength     = 8
)

// Queue types.
const (
	QTLocal   int32 = 1
	QTModel   int32 = 2
	QTAlias   int32 = 3
	QTRemote  int32 = 6
	QTCluster int32 = 7
	QTAll     int32 = 1001
)

// Object types.
const (
	OTQ    int32 = 1
	OTQMgr int32 = 5
)

// Open options.
const (
	OOInputShared     int32 = 2
	OOInputExclusive  int32 = 4
	OOBrowse          int32 = 8
	OOOutput          int32 = 16
	OOInquire         int32 = 32
	OOSet             int32 = 64
	OOFailIfQuiescing int32 = 8192
)

// Close options.
const (
	CONone        int32 = 0
	CODelete      int32 = 1
	CODeletePurge int32 = 2
)

// Get message options.
const (
	GMONoWait             int32 = 0
	GMOWait               int32 = 1
	GMOSyncpoint          int32 = 2
	GMONoSyncpoint        int32 = 4
	GMOBrowseFirst        int32 = 16
	GMOBrowseNext         int32 = 32
	GMOAcceptTruncatedMsg int32 = 64
	GMOFailIfQuiescing    int32 = 8192
	GMOConvert            int32 = 16384
)

// Put message options.
const (
	PMOSyncpoint   int32 = 2
	PMONoSyncpoint int32 = 4
	PMONewMsgID    int32 = 64
	PMONewCorrelID int32 = 128
)

// Match options.
const (
	MONone          int32 = 0
	MOMatchMsgID    int32 = 1
	MOMatchCorrelID int32 = 2
)

// Message types.
const (
	MTRequest  int32 = 1
	MTReply    int32 = 2
	MTReport   int32 = 4
	MTDatagram int32 = 8
)

// Persistence.
const (
	PerNotPersistent     int32 = 0
	PerPersistent        int32 = 1
	PerPersistenceAsQDef int32 = 2
)

// PriorityAsQDef asks the queue manager to apply the queue's default priority.
const PriorityAsQDef int32 = -1

// Structure versions and transport constants.
const (
	CDVersion11         int32 = 11
	CHTClntconn         int32 = 6
	XPTTCP              int32 = 2
	CNOVersion5         int32 = 5
	CNOHandleShareBlock int32 = 32
	CSPVersion1         int32 = 1
	CSPAuthUserIDAndPwd int32 = 1
	ODVersion4          int32 = 4
	MDVersion2          int32 = 2
	GMOVersion2         int32 = 2
	PMOVersion2         int32 = 2
)

// Queue attribute selectors (integer).
const (
	IACurrentQDepth   int32 = 3
	IAInhibitGet      int32 = 8
	IAInhibitPut      int32 = 10
	IAMaxQDepth       int32 = 15
	IAOpenInputCount  int32 = 17
	IAOpenOutputCount int32 = 18
	IAQType           int32 = 20
)

// Queue attribute selectors (character).
const CAQName int32 = 2016

// Inhibit values.
const (
	QAGetInhibited int32 = 1
	QAPutInhibited int32 = 1
	QAGetAllowed   int32 = 0
	QAPutAllowed   int32 = 0
)

// Coded character set.
const (
	CCSIDefault int32 = 0
	CCSIUTF8    int32 = 1208
)

// PCF structure types.
const (
	CFTCommand     int32 = 1
	CFTResponse    int32 = 2
	CFTInteger     int32 = 3
	CFTString      int32 = 4
	CFTIntegerList int32 = 5
	CFTStringList  int32 = 6
)

// PCF structure constants.
const (
	CFHVersion1          int32 = 1
	CFHStrucLength             = 36
	CFINStrucLength            = 16
	CFSTStrucLengthFixed       = 20

	CFCLast    int32 = 1
	CFCNotLast int32 = 0
)

// PCF command codes.
const (
	CmdCreateQ  int32 = 5
	CmdDeleteQ  int32 = 6
	CmdChangeQ  int32 = 8
	CmdInquireQ int32 = 13
)

// Message expiry.
const EIUnlimited int32 = -1

// Well-known object names.
const (
	AdminCommandQueue = "SYSTEM.ADMIN.COMMAND.QUEUE"
	DefaultModelQueue = "SYSTEM.DEFAULT.MODEL.QUEUE"
)

// FormatString is the MQMD format tag for plain string payloads.
const FormatString = "MQSTR"

// FormatAdmin is the MQMD format tag carried by PCF command messages.
const FormatAdmin = "MQADMIN"
