// SPDX-License-Identifier: GPL-3.0-or-later

package mqsim

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/queueworks/mqbridge/mqi"
	"github.com/queueworks/mqbridge/mqwire"
)

func connect(t *testing.T, qm *QueueManager) mqi.Hconn {
	t.Helper()
	cno := mqwire.ConnOptions{
		Desc: mqwire.ConnDesc{
			ChannelName:    "DEV.APP.SVRCONN",
			ChannelType:    mqwire.CHTClntconn,
			TransportType:  mqwire.XPTTCP,
			ConnectionName: "localhost(1414)",
		},
	}
	h, compCode, reason := qm.Connx("TEST.QM", cno.Encode())
	require.Equal(t, mqwire.CCOK, compCode, "reason %d", reason)
	return h
}

func open(t *testing.T, qm *QueueManager, h mqi.Hconn, name string, options int32) mqi.Hobj {
	t.Helper()
	od := mqwire.ObjectDesc{ObjectType: mqwire.OTQ, ObjectName: name}
	obj, _, compCode, reason := qm.Open(h, od.Encode(), options)
	require.Equal(t, mqwire.CCOK, compCode, "reason %d", reason)
	return obj
}

func TestOpenUnknownQueue(t *testing.T) {
	qm := New("TEST.QM")
	h := connect(t, qm)

	od := mqwire.ObjectDesc{ObjectType: mqwire.OTQ, ObjectName: "MISSING"}
	_, _, compCode, reason := qm.Open(h, od.Encode(), mqwire.OOBrowse)
	assert.Equal(t, mqwire.CCFailed, compCode)
	assert.Equal(t, mqwire.RCUnknownObjectName, reason)
}

func TestExclusiveOpenConflicts(t *testing.T) {
	qm := New("TEST.QM", WithQueue("Q", 0))
	h := connect(t, qm)

	open(t, qm, h, "Q", mqwire.OOInputExclusive)

	od := mqwire.ObjectDesc{ObjectType: mqwire.OTQ, ObjectName: "Q"}
	_, _, compCode, reason := qm.Open(h, od.Encode(), mqwire.OOInputShared)
	assert.Equal(t, mqwire.CCFailed, compCode)
	assert.Equal(t, mqwire.RCObjectInUse, reason)

	// Output and browse opens do not contend with the input lock.
	open(t, qm, h, "Q", mqwire.OOOutput)
	open(t, qm, h, "Q", mqwire.OOBrowse)
}

func TestModelQueueCreatesDynamicQueue(t *testing.T) {
	qm := New("TEST.QM")
	h := connect(t, qm)

	od := mqwire.ObjectDesc{
		ObjectType:   mqwire.OTQ,
		ObjectName:   mqwire.DefaultModelQueue,
		DynamicQName: "MQBRIDGE.REPLY.*",
	}
	obj, odOut, compCode, _ := qm.Open(h, od.Encode(), mqwire.OOInputExclusive)
	require.Equal(t, mqwire.CCOK, compCode)

	resolved, err := mqwire.DecodeObjectDesc(odOut)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resolved.ObjectName, "MQBRIDGE.REPLY."))
	assert.NotEqual(t, "MQBRIDGE.REPLY.*", resolved.ObjectName)
	assert.LessOrEqual(t, len(resolved.ObjectName), mqwire.QNameLength)
	assert.True(t, qm.HasQueue(resolved.ObjectName))

	// A purge close deletes the dynamic queue again.
	compCode, _ = qm.Close(h, obj, mqwire.CODeletePurge)
	require.Equal(t, mqwire.CCOK, compCode)
	assert.False(t, qm.HasQueue(resolved.ObjectName))
}

func TestGetTruncationLeavesMessageWithoutAccept(t *testing.T) {
	qm := New("TEST.QM", WithQueue("Q", 0))
	qm.Seed("Q", "twelve bytes")
	h := connect(t, qm)
	obj := open(t, qm, h, "Q", mqwire.OOInputShared)

	md := mqwire.MsgDesc{}
	gmo := mqwire.GetOptions{}

	_, data, dataLength, compCode, reason := qm.Get(h, obj, md.Encode(), gmo.Encode(), 0)
	assert.Equal(t, mqwire.CCWarning, compCode)
	assert.Equal(t, mqwire.RCTruncatedMsgFailed, reason)
	assert.Equal(t, int32(12), dataLength, "the probe learns the full length")
	assert.Nil(t, data)

	depth, _ := qm.Depth("Q")
	assert.Equal(t, 1, depth, "a failed truncation must not consume")

	// The re-get with an exact buffer consumes it.
	_, data, dataLength, compCode, _ = qm.Get(h, obj, md.Encode(), gmo.Encode(), dataLength)
	require.Equal(t, mqwire.CCOK, compCode)
	assert.Equal(t, "twelve bytes", string(data[:dataLength]))
	depth, _ = qm.Depth("Q")
	assert.Equal(t, 0, depth)
}

func TestGetRequiresMatchingOpenOptions(t *testing.T) {
	qm := New("TEST.QM", WithQueue("Q", 0))
	qm.Seed("Q", "payload")
	h := connect(t, qm)

	browseObj := open(t, qm, h, "Q", mqwire.OOBrowse)
	md := mqwire.MsgDesc{}

	_, _, _, compCode, reason := qm.Get(h, browseObj, md.Encode(), (&mqwire.GetOptions{}).Encode(), 128)
	assert.Equal(t, mqwire.CCFailed, compCode)
	assert.Equal(t, mqwire.RCNotOpenForInput, reason)

	outObj := open(t, qm, h, "Q", mqwire.OOOutput)
	gmo := mqwire.GetOptions{Options: mqwire.GMOBrowseFirst}
	_, _, _, compCode, reason = qm.Get(h, outObj, md.Encode(), gmo.Encode(), 128)
	assert.Equal(t, mqwire.CCFailed, compCode)
	assert.Equal(t, mqwire.RCNotOpenForBrowse, reason)
}

func TestPutRequiresOutputOpen(t *testing.T) {
	qm := New("TEST.QM", WithQueue("Q", 0))
	h := connect(t, qm)
	obj := open(t, qm, h, "Q", mqwire.OOBrowse)

	md := mqwire.MsgDesc{}
	pmo := mqwire.PutOptions{}
	_, compCode, reason := qm.Put(h, obj, md.Encode(), pmo.Encode(), []byte("x"))
	assert.Equal(t, mqwire.CCFailed, compCode)
	assert.Equal(t, mqwire.RCNotOpenForOutput, reason)
}

func TestStaleHandlesRejected(t *testing.T) {
	qm := New("TEST.QM", WithQueue("Q", 0))
	h := connect(t, qm)
	obj := open(t, qm, h, "Q", mqwire.OOInquire)

	compCode, reason := qm.Disc(h)
	require.Equal(t, mqwire.CCOK, compCode, "reason %d", reason)

	_, compCode, reason = qm.Inq(h, obj, []int32{mqwire.IACurrentQDepth})
	assert.Equal(t, mqwire.CCFailed, compCode)
	assert.Equal(t, mqwire.RCHconnError, reason)

	compCode, reason = qm.Disc(h)
	assert.Equal(t, mqwire.CCFailed, compCode)
	assert.Equal(t, mqwire.RCHconnError, reason)
}

func TestInqSelectors(t *testing.T) {
	qm := New("TEST.QM", WithQueue("Q", 300))
	qm.Seed("Q", "a", "b")
	qm.SetPutInhibited("Q", true)
	h := connect(t, qm)
	obj := open(t, qm, h, "Q", mqwire.OOInquire)

	values, compCode, reason := qm.Inq(h, obj, []int32{
		mqwire.IACurrentQDepth, mqwire.IAMaxQDepth, mqwire.IAInhibitPut, mqwire.IAInhibitGet, mqwire.IAQType,
	})
	require.Equal(t, mqwire.CCOK, compCode, "reason %d", reason)
	assert.Equal(t, []int32{2, 300, 1, 0, mqwire.QTLocal}, values)

	_, compCode, reason = qm.Inq(h, obj, []int32{999})
	assert.Equal(t, mqwire.CCFailed, compCode)
	assert.Equal(t, mqwire.RCSelectorError, reason)
}

// TestCommandServerPaginatedReply drives an inquire command through the raw
// verbs and checks the reply stream: one message per queue, last one
// flagged, all correlated to the request's message id.
func TestCommandServerPaginatedReply(t *testing.T) {
	qm := New("TEST.QM", WithQueue("APP.A", 0), WithQueue("APP.B", 0))
	h := connect(t, qm)

	// Reply queue from the model queue.
	modelOD := mqwire.ObjectDesc{
		ObjectType:   mqwire.OTQ,
		ObjectName:   mqwire.DefaultModelQueue,
		DynamicQName: "TEST.REPLY.*",
	}
	replyObj, odOut, compCode, _ := qm.Open(h, modelOD.Encode(), mqwire.OOInputExclusive)
	require.Equal(t, mqwire.CCOK, compCode)
	resolved, err := mqwire.DecodeObjectDesc(odOut)
	require.NoError(t, err)

	cmdObj := open(t, qm, h, mqwire.AdminCommandQueue, mqwire.OOOutput)

	md := mqwire.MsgDesc{
		MsgType:     mqwire.MTRequest,
		Format:      mqwire.FormatAdmin,
		ReplyToQ:    resolved.ObjectName,
		ReplyToQMgr: "TEST.QM",
	}
	pmo := mqwire.PutOptions{Options: mqwire.PMONewMsgID | mqwire.PMONewCorrelID}
	body := mqwire.EncodePCFCommand(mqwire.CmdInquireQ, []mqwire.PCFParameter{
		mqwire.NewStringParameter(mqwire.CAQName, "APP.*"),
		mqwire.NewIntParameter(mqwire.IAQType, mqwire.QTAll),
	})
	mdOut, compCode, reason := qm.Put(h, cmdObj, md.Encode(), pmo.Encode(), body)
	require.Equal(t, mqwire.CCOK, compCode, "reason %d", reason)
	request, err := mqwire.DecodeMsgDesc(mdOut)
	require.NoError(t, err)

	depth, _ := qm.Depth(resolved.ObjectName)
	require.Equal(t, 2, depth, "one reply message per matching queue")

	var names []string
	for i := 0; i < depth; i++ {
		getMD := mqwire.MsgDesc{CorrelID: request.MsgID}
		gmo := mqwire.GetOptions{MatchOptions: mqwire.MOMatchCorrelID}
		_, data, n, compCode, reason := qm.Get(h, replyObj, getMD.Encode(), gmo.Encode(), 1024)
		require.Equal(t, mqwire.CCOK, compCode, "reason %d", reason)

		msg, err := mqwire.DecodePCFMessage(data[:n])
		require.NoError(t, err)
		assert.Equal(t, mqwire.CFTResponse, msg.Header.Type)
		assert.Equal(t, int32(i+1), msg.Header.MsgSeqNumber)
		if i == depth-1 {
			assert.Equal(t, mqwire.CFCLast, msg.Header.Control)
		} else {
			assert.Equal(t, mqwire.CFCNotLast, msg.Header.Control)
		}
		name, ok := msg.StringParameter(mqwire.CAQName)
		require.True(t, ok)
		names = append(names, name)
	}
	assert.Equal(t, []string{"APP.A", "APP.B"}, names)
}

func TestDynamicQueueNameCompletion(t *testing.T) {
	a := dynamicQueueName("PFX.*")
	b := dynamicQueueName("PFX.*")
	assert.True(t, strings.HasPrefix(a, "PFX."))
	assert.NotEqual(t, a, b, "completions must be unique")
	assert.LessOrEqual(t, len(a), mqwire.QNameLength)

	assert.Equal(t, "FIXED.NAME", dynamicQueueName("FIXED.NAME"))
	assert.True(t, strings.HasPrefix(dynamicQueueName(""), "AMQ."))
}
