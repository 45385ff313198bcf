// SPDX-License-Identifier: GPL-3.0-or-later

package bridge

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/queueworks/mqbridge/mqsim"
	"github.com/queueworks/mqbridge/mqwire"
)

// newTestClient builds a connected client over a simulated queue manager
// seeded with three application queues of different depths.
func newTestClient(t *testing.T, opts ...mqsim.Option) (*Client, *mqsim.QueueManager) {
	t.Helper()

	base := []mqsim.Option{
		mqsim.WithQueue("DEV.QUEUE.1", 0),
		mqsim.WithQueue("DEV.QUEUE.2", 0),
		mqsim.WithQueue("DEV.QUEUE.3", 0),
	}
	qm := mqsim.New("TEST.QM", append(base, opts...)...)
	qm.Seed("DEV.QUEUE.1", "one", "two", "three", "four", "five")
	payloads := make([]string, 142)
	for i := range payloads {
		payloads[i] = fmt.Sprintf("message %d", i)
	}
	qm.Seed("DEV.QUEUE.3", payloads...)

	client := NewClient(validConfig(), qm, nil)
	require.NoError(t, client.Connect(context.Background()))
	t.Cleanup(client.Disconnect)
	return client, qm
}

func TestListQueues(t *testing.T) {
	client, _ := newTestClient(t)

	queues, err := client.ListQueues(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, queues, 3, "system and transient reply queues stay hidden")

	names := make([]string, len(queues))
	for i, q := range queues {
		names[i] = q.Name
		assert.Equal(t, QueueTypeLocal, q.Type)
	}
	assert.Equal(t, []string{"DEV.QUEUE.1", "DEV.QUEUE.2", "DEV.QUEUE.3"}, names, "sorted by name")

	assert.Equal(t, int32(5), queues[0].CurrentDepth)
	assert.Equal(t, int32(0), queues[1].CurrentDepth)
	assert.Equal(t, int32(142), queues[2].CurrentDepth)
	assert.Equal(t, int32(5000), queues[2].MaxDepth)
}

func TestListQueuesSkipsUnauthorized(t *testing.T) {
	client, _ := newTestClient(t, mqsim.WithUnauthorizedQueue("DEV.SECRET"))

	queues, err := client.ListQueues(context.Background(), "")
	require.NoError(t, err, "one unauthorized queue must not fail the listing")
	for _, q := range queues {
		assert.NotEqual(t, "DEV.SECRET", q.Name)
	}
	assert.Len(t, queues, 3)
}

func TestListQueuesFilter(t *testing.T) {
	client, _ := newTestClient(t, mqsim.WithQueue("ORDERS.IN", 0))
	ctx := context.Background()

	queues, err := client.ListQueues(ctx, "DEV.QUEUE.*")
	require.NoError(t, err)
	names := make([]string, len(queues))
	for i, q := range queues {
		names[i] = q.Name
	}
	assert.Equal(t, []string{"DEV.QUEUE.1", "DEV.QUEUE.2", "DEV.QUEUE.3"}, names)

	queues, err = client.ListQueues(ctx, "ORDERS.IN")
	require.NoError(t, err)
	require.Len(t, queues, 1, "exact names filter too")
	assert.Equal(t, "ORDERS.IN", queues[0].Name)

	queues, err = client.ListQueues(ctx, "NOPE.*")
	require.NoError(t, err, "a filter matching nothing is not an error")
	assert.Empty(t, queues)
}

func TestGetQueueInfo(t *testing.T) {
	client, qm := newTestClient(t)
	qm.SetGetInhibited("DEV.QUEUE.1", true)

	info, err := client.GetQueueInfo(context.Background(), "DEV.QUEUE.1")
	require.NoError(t, err)
	assert.Equal(t, "DEV.QUEUE.1", info.Name)
	assert.Equal(t, QueueTypeLocal, info.Type)
	assert.Equal(t, int32(5), info.CurrentDepth)
	assert.True(t, info.GetInhibited)
	assert.False(t, info.PutInhibited)
}

func TestGetQueueInfoUnknownQueue(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.GetQueueInfo(context.Background(), "NO.SUCH.QUEUE")
	var mqErr *Error
	require.ErrorAs(t, err, &mqErr)
	assert.Equal(t, KindQueue, mqErr.Kind)
	assert.Equal(t, mqwire.RCUnknownObjectName, mqErr.Reason)
}

func TestCreateQueue(t *testing.T) {
	client, qm := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.CreateQueue(ctx, "DEV.NEW", CreateQueueOptions{MaxDepth: 250}))
	assert.True(t, qm.HasQueue("DEV.NEW"))

	info, err := client.GetQueueInfo(ctx, "DEV.NEW")
	require.NoError(t, err)
	assert.Equal(t, int32(250), info.MaxDepth)
	assert.Equal(t, int32(0), info.CurrentDepth)
}

func TestCreateQueueAlreadyExists(t *testing.T) {
	client, _ := newTestClient(t)

	err := client.CreateQueue(context.Background(), "DEV.QUEUE.1", CreateQueueOptions{})
	var mqErr *Error
	require.ErrorAs(t, err, &mqErr)
	assert.Equal(t, KindQueue, mqErr.Kind)
	assert.Equal(t, mqwire.RCObjectAlreadyExists, mqErr.Reason)
}

func TestCreateQueueValidatesName(t *testing.T) {
	client, _ := newTestClient(t)

	var mqErr *Error
	err := client.CreateQueue(context.Background(), "", CreateQueueOptions{})
	require.ErrorAs(t, err, &mqErr)
	assert.Equal(t, KindConfiguration, mqErr.Kind)

	err = client.CreateQueue(context.Background(), strings.Repeat("Q", 49), CreateQueueOptions{})
	require.ErrorAs(t, err, &mqErr)
	assert.Equal(t, KindConfiguration, mqErr.Kind)
}

func TestCreateQueueWithType(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.CreateQueue(ctx, "DEV.ROUTE", CreateQueueOptions{Type: QueueTypeAlias}))
	info, err := client.GetQueueInfo(ctx, "DEV.ROUTE")
	require.NoError(t, err)
	assert.Equal(t, QueueTypeAlias, info.Type)

	var mqErr *Error
	err = client.CreateQueue(ctx, "DEV.BAD", CreateQueueOptions{Type: QueueType(99)})
	require.ErrorAs(t, err, &mqErr)
	assert.Equal(t, KindConfiguration, mqErr.Kind)
}

func TestDeleteQueue(t *testing.T) {
	client, qm := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.DeleteQueue(ctx, "DEV.QUEUE.2"))
	assert.False(t, qm.HasQueue("DEV.QUEUE.2"))

	var mqErr *Error
	err := client.DeleteQueue(ctx, "DEV.QUEUE.2")
	require.ErrorAs(t, err, &mqErr)
	assert.Equal(t, mqwire.RCUnknownObjectName, mqErr.Reason)

	err = client.DeleteQueue(ctx, mqwire.AdminCommandQueue)
	require.ErrorAs(t, err, &mqErr)
	assert.Equal(t, KindAuthorization, mqErr.Kind, "system objects stay protected")
}

func TestSendAndBrowse(t *testing.T) {
	client, qm := newTestClient(t)
	ctx := context.Background()

	priority := int32(7)
	msgID, err := client.SendMessage(ctx, "DEV.QUEUE.2", SendOptions{
		Payload:       []byte("hello"),
		CorrelationID: []byte("ORDER-1041"),
		ReplyToQueue:  "REPLY.Q",
		Persistence:   Persistent,
		Priority:      &priority,
	})
	require.NoError(t, err)
	require.Len(t, msgID, 24)

	messages, err := client.BrowseMessages(ctx, "DEV.QUEUE.2", 0, 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)

	m := messages[0]
	assert.Equal(t, 0, m.Position)
	assert.Equal(t, msgID, m.MessageID)
	assert.Equal(t, []byte("ORDER-1041"), m.CorrelationID[:10])
	assert.Equal(t, "hello", m.PayloadString())
	assert.Equal(t, mqwire.FormatString, m.Format)
	assert.Equal(t, Persistent, m.Persistence)
	assert.Equal(t, int32(7), m.Priority)
	assert.Equal(t, "REPLY.Q", m.ReplyToQueue)
	assert.True(t, m.HasReplyTo())
	assert.True(t, m.HasPutTimestamp())
	assert.False(t, m.Truncated())

	// Browsing is non-destructive.
	depth, ok := qm.Depth("DEV.QUEUE.2")
	require.True(t, ok)
	assert.Equal(t, 1, depth)

	again, err := client.BrowseMessages(ctx, "DEV.QUEUE.2", 0, 0)
	require.NoError(t, err)
	assert.Len(t, again, 1)
}

func TestBrowsePreservesQueueOrder(t *testing.T) {
	client, _ := newTestClient(t)

	messages, err := client.BrowseMessages(context.Background(), "DEV.QUEUE.1", 0, 0)
	require.NoError(t, err)
	require.Len(t, messages, 5)

	want := []string{"one", "two", "three", "four", "five"}
	for i, m := range messages {
		assert.Equal(t, i, m.Position)
		assert.Equal(t, want[i], m.PayloadString())
	}
}

func TestBrowseLimit(t *testing.T) {
	client, _ := newTestClient(t)

	messages, err := client.BrowseMessages(context.Background(), "DEV.QUEUE.3", 10, 0)
	require.NoError(t, err)
	assert.Len(t, messages, 10)
}

func TestBrowseEmptyQueue(t *testing.T) {
	client, _ := newTestClient(t)

	messages, err := client.BrowseMessages(context.Background(), "DEV.QUEUE.2", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestBrowseMessageAt(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	m, err := client.BrowseMessageAt(ctx, "DEV.QUEUE.1", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Position)
	assert.Equal(t, "three", m.PayloadString())

	var mqErr *Error
	_, err = client.BrowseMessageAt(ctx, "DEV.QUEUE.1", 9, 0)
	require.ErrorAs(t, err, &mqErr)
	assert.Equal(t, KindMessage, mqErr.Kind)

	_, err = client.BrowseMessageAt(ctx, "DEV.QUEUE.1", -1, 0)
	require.ErrorAs(t, err, &mqErr)
	assert.Equal(t, KindConfiguration, mqErr.Kind)
}

func TestBrowseTruncatesOversizedPayload(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	big := strings.Repeat("x", 6000)
	_, err := client.SendMessage(ctx, "DEV.QUEUE.2", SendOptions{Payload: []byte(big)})
	require.NoError(t, err)

	messages, err := client.BrowseMessages(ctx, "DEV.QUEUE.2", 0, 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)

	m := messages[0]
	assert.True(t, m.Truncated())
	assert.Equal(t, int32(6000), m.TotalLength)
	assert.Len(t, m.Payload, 4096)
}

func TestBrowseHonorsMaxMessageSize(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	payload := strings.Repeat("y", 100)
	_, err := client.SendMessage(ctx, "DEV.QUEUE.2", SendOptions{Payload: []byte(payload)})
	require.NoError(t, err)

	messages, err := client.BrowseMessages(ctx, "DEV.QUEUE.2", 0, 16)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.True(t, messages[0].Truncated())
	assert.Equal(t, int32(100), messages[0].TotalLength)
	assert.Equal(t, payload[:16], string(messages[0].Payload))

	m, err := client.BrowseMessageAt(ctx, "DEV.QUEUE.2", 0, 200)
	require.NoError(t, err, "a bound above the message size fetches it whole")
	assert.False(t, m.Truncated())
	assert.Equal(t, payload, string(m.Payload))
}

func TestBrowseUnknownQueue(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.BrowseMessages(context.Background(), "NO.SUCH.QUEUE", 0, 0)
	var mqErr *Error
	require.ErrorAs(t, err, &mqErr)
	assert.Equal(t, KindQueue, mqErr.Kind)
	assert.Equal(t, mqwire.RCUnknownObjectName, mqErr.Reason)
}

func TestBrowseGetInhibitedQueue(t *testing.T) {
	client, qm := newTestClient(t)
	qm.SetGetInhibited("DEV.QUEUE.1", true)

	_, err := client.BrowseMessages(context.Background(), "DEV.QUEUE.1", 0, 0)
	var mqErr *Error
	require.ErrorAs(t, err, &mqErr)
	assert.Equal(t, KindQueue, mqErr.Kind)
	assert.Equal(t, mqwire.RCGetInhibited, mqErr.Reason)
}

func TestSendDefaults(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	_, err := client.SendMessage(ctx, "DEV.QUEUE.2", SendOptions{Payload: []byte("plain")})
	require.NoError(t, err)

	m, err := client.BrowseMessageAt(ctx, "DEV.QUEUE.2", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, TypeDatagram, m.Type)
	assert.Equal(t, NotPersistent, m.Persistence)
	assert.Equal(t, int32(0), m.Priority, "queue default priority applies when none is given")
}

func TestSendToPutInhibitedQueue(t *testing.T) {
	client, qm := newTestClient(t)
	qm.SetPutInhibited("DEV.QUEUE.2", true)

	_, err := client.SendMessage(context.Background(), "DEV.QUEUE.2", SendOptions{Payload: []byte("x")})
	var mqErr *Error
	require.ErrorAs(t, err, &mqErr)
	assert.Equal(t, KindQueue, mqErr.Kind)
	assert.Equal(t, mqwire.RCPutInhibited, mqErr.Reason)
}

func TestSendToFullQueue(t *testing.T) {
	client, qm := newTestClient(t, mqsim.WithQueue("DEV.TINY", 2))
	qm.Seed("DEV.TINY", "a", "b")

	_, err := client.SendMessage(context.Background(), "DEV.TINY", SendOptions{Payload: []byte("c")})
	var mqErr *Error
	require.ErrorAs(t, err, &mqErr)
	assert.Equal(t, KindQueue, mqErr.Kind)
	assert.Equal(t, mqwire.RCQFull, mqErr.Reason)
}

func TestPurgeQueue(t *testing.T) {
	client, qm := newTestClient(t)
	ctx := context.Background()

	n, err := client.PurgeQueue(ctx, "DEV.QUEUE.1")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	depth, _ := qm.Depth("DEV.QUEUE.1")
	assert.Equal(t, 0, depth)

	n, err = client.PurgeQueue(ctx, "DEV.QUEUE.1")
	require.NoError(t, err, "purging an empty queue is not an error")
	assert.Equal(t, 0, n)
}

func TestFailedPurgeReleasesInputHandle(t *testing.T) {
	client, qm := newTestClient(t)
	ctx := context.Background()
	qm.SetGetInhibited("DEV.QUEUE.1", true)

	_, err := client.PurgeQueue(ctx, "DEV.QUEUE.1")
	var mqErr *Error
	require.ErrorAs(t, err, &mqErr)
	assert.Equal(t, mqwire.RCGetInhibited, mqErr.Reason)

	info, err := client.GetQueueInfo(ctx, "DEV.QUEUE.1")
	require.NoError(t, err)
	assert.Equal(t, int32(0), info.OpenInputCount, "the failed drain must not leave the queue open")

	depth, _ := qm.Depth("DEV.QUEUE.1")
	assert.Equal(t, 5, depth, "nothing was consumed")
}

func TestDeleteMessage(t *testing.T) {
	client, qm := newTestClient(t)
	ctx := context.Background()

	target, err := client.BrowseMessageAt(ctx, "DEV.QUEUE.1", 2, 0)
	require.NoError(t, err)

	require.NoError(t, client.DeleteMessage(ctx, "DEV.QUEUE.1", target.MessageID))

	depth, _ := qm.Depth("DEV.QUEUE.1")
	assert.Equal(t, 4, depth)

	remaining, err := client.BrowseMessages(ctx, "DEV.QUEUE.1", 0, 0)
	require.NoError(t, err)
	payloads := make([]string, len(remaining))
	for i, m := range remaining {
		payloads[i] = m.PayloadString()
	}
	assert.Equal(t, []string{"one", "two", "four", "five"}, payloads, "only the targeted message goes away")
}

func TestDeleteMessageUnknownID(t *testing.T) {
	client, qm := newTestClient(t)

	unknown := make([]byte, 24)
	copy(unknown, "NO.SUCH.MESSAGE.ID")
	err := client.DeleteMessage(context.Background(), "DEV.QUEUE.1", unknown)

	var mqErr *Error
	require.ErrorAs(t, err, &mqErr)
	assert.Equal(t, KindMessage, mqErr.Kind)
	assert.Contains(t, err.Error(), "message not found")

	depth, _ := qm.Depth("DEV.QUEUE.1")
	assert.Equal(t, 5, depth, "a failed delete must not consume anything")
}

func TestOperationsAfterDisconnect(t *testing.T) {
	client, _ := newTestClient(t)
	client.Disconnect()

	var mqErr *Error

	_, err := client.ListQueues(context.Background(), "")
	require.ErrorAs(t, err, &mqErr)
	assert.Equal(t, KindConnection, mqErr.Kind)

	_, err = client.SendMessage(context.Background(), "DEV.QUEUE.1", SendOptions{Payload: []byte("x")})
	require.ErrorAs(t, err, &mqErr)
	assert.Equal(t, KindConnection, mqErr.Kind)
}
