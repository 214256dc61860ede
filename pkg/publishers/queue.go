package publishers

import (
	"context"
	"fmt"
	"time"
)

// queueSender delivers one encoded event to a cloud queue or topic.
type queueSender interface {
	Send(ctx context.Context, evt Event) error
}

type senderFactory func(ctx context.Context, qc *QueuePublisherConfig, log Logger) (queueSender, error)

// queueSenders maps queue providers to their sender constructors.
var queueSenders = map[string]senderFactory{
	QueueProviderAWSSQS: func(ctx context.Context, qc *QueuePublisherConfig, log Logger) (queueSender, error) {
		return newAWSSQSSender(ctx, qc.AWS, log)
	},
	QueueProviderAWSSNS: func(ctx context.Context, qc *QueuePublisherConfig, log Logger) (queueSender, error) {
		return newAWSSNSSender(ctx, qc.SNS, log)
	},
	QueueProviderGCP: func(ctx context.Context, qc *QueuePublisherConfig, log Logger) (queueSender, error) {
		return newGCPPubSubSender(ctx, qc.GCP, log)
	},
}

// queuePublisher hands harvested stories to a cloud queue provider.
type queuePublisher struct {
	id       string
	typ      string
	provider string
	sender   queueSender
	log      Logger
}

// newQueuePublisher creates a queue publisher for the configured provider.
func newQueuePublisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.Queue == nil {
		return nil, fmt.Errorf("publisher %q missing queue configuration", cfg.ID)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	factory, ok := queueSenders[cfg.Queue.Provider]
	if !ok {
		return nil, fmt.Errorf("queue provider %q is not supported", cfg.Queue.Provider)
	}
	sender, err := factory(ctx, cfg.Queue, log)
	if err != nil {
		return nil, err
	}
	return newQueuePublisherWithSender(cfg, sender, log), nil
}

func newQueuePublisherWithSender(cfg PublisherConfig, sender queueSender, log Logger) *queuePublisher {
	provider := ""
	if cfg.Queue != nil {
		provider = cfg.Queue.Provider
	}
	return &queuePublisher{
		id:       cfg.ID,
		typ:      cfg.Type,
		provider: provider,
		sender:   sender,
		log:      ensureLogger(log),
	}
}

func (p *queuePublisher) ID() string   { return p.id }
func (p *queuePublisher) Type() string { return p.typ }

// Publish forwards the event to the queue provider.
func (p *queuePublisher) Publish(ctx context.Context, evt Event) error {
	start := time.Now()
	if err := p.sender.Send(ctx, evt); err != nil {
		return fmt.Errorf("queue provider %s send failed: %w", p.provider, err)
	}
	p.log.DebugObj("queue publish complete", "publisher_queue_delivery", map[string]any{
		"publisher_id": p.id,
		"provider":     p.provider,
		"event_id":     evt.ID,
		"elapsed_ms":   time.Since(start).Milliseconds(),
	})
	return nil
}
