package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cloud.google.com/go/pubsub"

	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/services"
)

// PubSubPriceChangePublisher publishes each product's price changes as one Pub/Sub message.
type PubSubPriceChangePublisher struct {
	topic   *pubsub.Topic
	marshal func(any) ([]byte, error)
}

var _ services.PriceChangePublisher = (*PubSubPriceChangePublisher)(nil)

// NewPubSubPriceChangePublisher constructs a publisher for topic.
func NewPubSubPriceChangePublisher(topic *pubsub.Topic) (*PubSubPriceChangePublisher, error) {
	if topic == nil {
		return nil, errors.New("pubsub price change publisher: topic is required")
	}
	return &PubSubPriceChangePublisher{
		topic:   topic,
		marshal: json.Marshal,
	}, nil
}

// PublishPriceChanges sends msg and waits for the server to acknowledge it.
func (p *PubSubPriceChangePublisher) PublishPriceChanges(ctx context.Context, msg services.PriceChangeMessage) error {
	data, err := p.marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal price changes: %w", err)
	}

	attrs := map[string]string{
		"slowRun": strconv.FormatBool(msg.SlowRun),
		"changes": strconv.Itoa(len(msg.Changes)),
	}
	setAttr(attrs, "runId", msg.RunID)
	setAttr(attrs, "productId", msg.ProductID)

	result := p.topic.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: attrs,
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publish price changes: %w", err)
	}
	return nil
}

// Ping reports whether the topic exists, for readiness checks.
func (p *PubSubPriceChangePublisher) Ping(ctx context.Context) error {
	ok, err := p.topic.Exists(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("pubsub topic %s does not exist", p.topic.ID())
	}
	return nil
}

func setAttr(attrs map[string]string, key string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		attrs[key] = v
	}
}
