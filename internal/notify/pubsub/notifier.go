// Package pubsub publishes digests to a Google Cloud Pub/Sub topic, letting
// an external delivery service fan them out.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub/v2"
	"cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"

	"github.com/fransm/boe-watcher/internal/gazette"
	"github.com/fransm/boe-watcher/internal/notify"
)

// Notifier implements gazette.Notifier by publishing one digest event per run.
type Notifier struct {
	client    *pubsub.Client
	topicName string
}

// digestEvent is the published payload.
type digestEvent struct {
	Subject       string                 `json:"subject"`
	Body          string                 `json:"body"`
	Recipients    []string               `json:"recipients"`
	Announcements []gazette.Announcement `json:"announcements"`
}

// New creates a Pub/Sub client and verifies the topic is active. It
// authenticates using Application Default Credentials.
func New(ctx context.Context, projectID, topicID string) (*Notifier, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	name := fmt.Sprintf("projects/%s/topics/%s", projectID, topicID)
	topic, err := client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{Topic: name})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("get pubsub topic %q: %w", topicID, err)
	}
	if topic.State != pubsubpb.Topic_ACTIVE {
		_ = client.Close()
		return nil, fmt.Errorf("pubsub topic %q is not active", topicID)
	}

	return &Notifier{client: client, topicName: name}, nil
}

// NewWithClient wraps an existing client without probing the topic, for
// tests against an emulator.
func NewWithClient(client *pubsub.Client, topicName string) *Notifier {
	return &Notifier{client: client, topicName: topicName}
}

// Notify publishes the digest event and waits for the server ack.
func (n *Notifier) Notify(ctx context.Context, recipients []string, newlyInserted []gazette.Announcement) error {
	if len(recipients) == 0 || len(newlyInserted) == 0 {
		return nil
	}
	event := digestEvent{
		Subject:       notify.Subject(len(newlyInserted)),
		Body:          notify.Body(newlyInserted),
		Recipients:    recipients,
		Announcements: newlyInserted,
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal digest event: %w", err)
	}

	publisher := n.client.Publisher(n.topicName)
	result := publisher.Publish(ctx, &pubsub.Message{Data: data})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publish digest event: %w", err)
	}
	return nil
}

// Close releases the underlying client connection.
func (n *Notifier) Close() error {
	if err := n.client.Close(); err != nil {
		return fmt.Errorf("close pubsub client: %w", err)
	}
	return nil
}
