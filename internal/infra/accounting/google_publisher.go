package accounting

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"cloud.google.com/go/pubsub/v2"
	pubsubpb "cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"github.com/pkg/errors"

	"poscore/internal/domain/entity"
	"poscore/internal/domain/service"
)

// googlePublisher replays batches through Google Cloud Pub/Sub for stores
// whose accounting system consumes an event stream.
type googlePublisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	logger    *slog.Logger
}

// NewGooglePublisher creates a Pub/Sub backed accounting publisher.
func NewGooglePublisher(ctx context.Context, projectID, topicID string, logger *slog.Logger) (service.AccountingPublisher, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Check if topic exists using TopicAdminClient
	topicPath := fmt.Sprintf("projects/%s/topics/%s", projectID, topicID)
	_, err = client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{
		Topic: topicPath,
	})
	if err != nil {
		client.Close()

		return nil, errors.Wrapf(err, "failed to get topic %s", topicID)
	}

	publisher := client.Publisher(topicID)

	logger.Info("Google Pub/Sub accounting publisher initialized",
		slog.String("project_id", projectID),
		slog.String("topic_id", topicID),
	)

	return &googlePublisher{
		client:    client,
		publisher: publisher,
		logger:    logger,
	}, nil
}

func (p *googlePublisher) PublishTransactions(ctx context.Context, batch []entity.Transaction) (*service.BatchResult, error) {
	result := &service.BatchResult{}
	for _, tx := range batch {
		if err := p.publish(ctx, "transaction", tx.ID, tx); err != nil {
			result.Failed++
			p.logger.Warn("[GooglePubSub] Transaction publish failed",
				slog.String("transaction_id", tx.ID),
				slog.Any("error", err),
			)

			continue
		}
		result.Succeeded++
	}

	if result.Failed > 0 && result.Succeeded == 0 {
		return result, errors.Errorf("all %d transactions failed to publish", result.Failed)
	}

	return result, nil
}

func (p *googlePublisher) PublishInventoryDeltas(ctx context.Context, deltas []entity.InventoryDelta) (*service.BatchResult, error) {
	result := &service.BatchResult{}
	for i, delta := range deltas {
		if err := p.publish(ctx, "inventory", delta.ProductID+"-"+strconv.Itoa(i), delta); err != nil {
			result.Failed++

			continue
		}
		result.Succeeded++
	}

	return result, nil
}

func (p *googlePublisher) publish(ctx context.Context, kind, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return errors.WithStack(err)
	}

	msg := &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"kind": kind,
			"key":  key,
		},
	}

	// Wait for publish result so failures are retried on the next
	// reconciliation instead of silently dropped.
	if _, err := p.publisher.Publish(ctx, msg).Get(ctx); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// Ping reports reachability of the Pub/Sub control plane.
func (p *googlePublisher) Ping(ctx context.Context) error {
	_, err := p.client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{
		Topic: p.publisher.String(),
	})

	return errors.WithStack(err)
}

// Close releases Pub/Sub client resources.
func (p *googlePublisher) Close() error {
	if p.publisher != nil {
		p.publisher.Stop()
	}
	if p.client != nil {
		return errors.WithStack(p.client.Close())
	}

	return nil
}
