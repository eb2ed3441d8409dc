package providers

import (
	"context"

	"github.com/casalist/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to entity
// lifecycle events.
type EventBus interface {
	// Publish publishes an event to all subscribers of a channel.
	Publish(ctx context.Context, channel string, event *entities.EntityEvent) error

	// Subscribe subscribes to events on a channel. The returned channel is
	// closed when ctx is done.
	Subscribe(ctx context.Context, channel string) (<-chan *entities.EntityEvent, error)

	// Unsubscribe tears down the subscription for a channel.
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions.
	Close() error
}

// Event channels.
const (
	// EventChannelListingUpdates carries every listing lifecycle event.
	EventChannelListingUpdates = "listings:updates"

	// EventChannelListingPrefix is the prefix for listing-specific channels.
	EventChannelListingPrefix = "listing:"
)

// ListingChannel returns the channel name for a specific listing.
func ListingChannel(listingID string) string {
	return EventChannelListingPrefix + listingID
}
