package publishers

import (
	"context"
	"time"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/logger"
	"github.com/google/uuid"
)

// EventTypeStory is the only event type emitted by the harvester.
const EventTypeStory = "story.harvested"

// Logger is the structured logger publishers report delivery through.
type Logger = logger.Logger

// Publisher delivers harvest events to one sink.
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// Event is the payload sent downstream for one harvested record.
type Event struct {
	ID          string                `json:"id"`
	Type        string                `json:"type"`
	ProviderID  string                `json:"provider_id"`
	Summary     domain.SummaryRecord  `json:"summary"`
	Article     *domain.ArticleRecord `json:"article,omitempty"`
	HarvestedAt time.Time             `json:"harvested_at"`
}

// NewEvent builds an event for a story harvested from providerID.
func NewEvent(providerID string, story domain.Story) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        EventTypeStory,
		ProviderID:  providerID,
		Summary:     story.Summary,
		Article:     story.Article,
		HarvestedAt: time.Now().UTC(),
	}
}

// ensureLogger returns log or a no-op logger when nil.
func ensureLogger(log Logger) Logger {
	if log == nil {
		return logger.NopLogger{}
	}
	return log
}
