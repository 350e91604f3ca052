// Package queue defines the payloads exchanged over the message broker and
// the background consumer that records them.
package queue

// MessagePostedEvent is published whenever a message is stored through the
// HTTP API. It carries enough context for downstream consumers to log or
// trigger notifications without querying the primary database. This is an
// integration event, not client delivery: connected chat clients are not
// pushed to.
type MessagePostedEvent struct {
	MessageID   uint64 `json:"message_id"`
	ChannelID   uint64 `json:"channel_id"`
	ChannelName string `json:"channel_name"`
	SenderID    uint64 `json:"sender_id"`
	SenderLogin string `json:"sender_login"`
	Content     string `json:"content"`
	PostedAt    string `json:"posted_at"`
}

// QueueName is the durable queue both the publisher and consumer declare.
const QueueName = "message.posted"
