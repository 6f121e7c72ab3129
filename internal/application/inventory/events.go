package inventory

import (
	"context"
	"errors"

	"github.com/bookstore/backend/internal/domain/inventory"
	"github.com/bookstore/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StockEvents turns committed ledger rows into StockChanged events
func StockEvents(logs []*inventory.InventoryLog) []shared.DomainEvent {
	events := make([]shared.DomainEvent, 0, len(logs))
	for _, l := range logs {
		events = append(events, inventory.NewStockChangedEvent(l))
	}
	return events
}

// PublishCommitted publishes events produced by a committed transaction.
// Publishing is best-effort: the write has already happened, so failures are
// only logged.
func PublishCommitted(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, events []shared.DomainEvent) {
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Warn("failed to publish domain events",
			zap.Int("event_count", len(events)),
			zap.Error(err),
		)
	}
}

// IsDomainError reports whether err carries a domain error code. Anything
// else is treated as an infrastructure failure.
func IsDomainError(err error) bool {
	var de *shared.DomainError
	return errors.As(err, &de)
}
