package ws

import (
	"encoding/json"

	"go.uber.org/zap"

	"roadwatch/internal/models"
)

// Dispatcher pushes newly created records to every registered subscriber.
// Delivery is best-effort, at-most-once per subscriber; a failed write evicts
// the subscriber and never surfaces to the caller.
type Dispatcher struct {
	registry *Registry
	logger   *zap.Logger
}

// NewDispatcher builds dispatcher over the registry.
func NewDispatcher(registry *Registry, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		logger:   logger,
	}
}

// Publish serializes the record once and delivers it to a point-in-time
// snapshot of the registry.
func (d *Dispatcher) Publish(record *models.ProcessedRecord) {
	data, err := json.Marshal(record)
	if err != nil {
		d.logger.Error("failed to serialize record for broadcast", zap.Int64("record_id", record.ID), zap.Error(err))
		return
	}

	subs := d.registry.Snapshot()
	for _, sub := range subs {
		if err := sub.Send(data); err != nil {
			d.registry.Remove(sub)
			sub.Close()
			d.logger.Warn("dropping subscriber after failed delivery", zap.Int64("record_id", record.ID), zap.Error(err))
		}
	}

	d.logger.Debug("record broadcast", zap.Int64("record_id", record.ID), zap.Int("subscribers", len(subs)))
}
