package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"roadwatch/internal/cache"
	"roadwatch/internal/models"
)

// AccelerometerPayload is the raw accelerometer reading block.
type AccelerometerPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// GpsPayload is the raw GPS block.
type GpsPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// AgentPayload groups one agent observation. The blocks are pointers so that
// an absent field is distinguishable from a zero-valued one.
type AgentPayload struct {
	UserID        *int64                `json:"user_id"`
	Accelerometer *AccelerometerPayload `json:"accelerometer"`
	Gps           *GpsPayload           `json:"gps"`
	Timestamp     models.Timestamp      `json:"timestamp"`
}

// RecordInput is the nested ingest payload submitted by field agents.
type RecordInput struct {
	RoadState string       `json:"road_state"`
	AgentData AgentPayload `json:"agent_data"`
}

// Validate checks structural shape before any store call.
func (in RecordInput) Validate() error {
	if in.RoadState == "" {
		return &models.ValidationError{Field: "road_state", Reason: "required"}
	}
	if in.AgentData.UserID == nil {
		return &models.ValidationError{Field: "user_id", Reason: "required"}
	}
	if in.AgentData.Accelerometer == nil {
		return &models.ValidationError{Field: "accelerometer", Reason: "required"}
	}
	if in.AgentData.Gps == nil {
		return &models.ValidationError{Field: "gps", Reason: "required"}
	}
	if in.AgentData.Timestamp.IsZero() {
		return &models.ValidationError{Field: "timestamp", Reason: "required"}
	}
	return nil
}

// Record flattens the payload into a store entity. Callers must Validate first.
func (in RecordInput) Record() *models.ProcessedRecord {
	return &models.ProcessedRecord{
		RoadState: in.RoadState,
		UserID:    *in.AgentData.UserID,
		X:         in.AgentData.Accelerometer.X,
		Y:         in.AgentData.Accelerometer.Y,
		Z:         in.AgentData.Accelerometer.Z,
		Latitude:  in.AgentData.Gps.Latitude,
		Longitude: in.AgentData.Gps.Longitude,
		Timestamp: in.AgentData.Timestamp.UTC(),
	}
}

// Repository is the durable store the service delegates persistence to.
type Repository interface {
	Insert(ctx context.Context, record *models.ProcessedRecord) error
	Get(ctx context.Context, id int64) (*models.ProcessedRecord, error)
	List(ctx context.Context) ([]models.ProcessedRecord, error)
	Update(ctx context.Context, id int64, record *models.ProcessedRecord) (*models.ProcessedRecord, error)
	Delete(ctx context.Context, id int64) (*models.ProcessedRecord, error)
}

// Publisher fans a committed record out to live subscribers.
type Publisher interface {
	Publish(record *models.ProcessedRecord)
}

// RecordCache is the optional redis side-cache for point lookups.
type RecordCache interface {
	Save(ctx context.Context, record *models.ProcessedRecord) error
	Get(ctx context.Context, id int64) (*models.ProcessedRecord, error)
	Delete(ctx context.Context, id int64) error
}

// RecordsService drives the record lifecycle: validate, persist, broadcast.
type RecordsService struct {
	repo      Repository
	publisher Publisher
	cache     RecordCache
	logger    *zap.Logger
}

// NewRecordsService builds service. cache may be nil.
func NewRecordsService(repo Repository, publisher Publisher, recordCache RecordCache, logger *zap.Logger) *RecordsService {
	return &RecordsService{
		repo:      repo,
		publisher: publisher,
		cache:     recordCache,
		logger:    logger,
	}
}

// Create validates and persists a new record, then broadcasts it to
// subscribers. The broadcast runs after commit in its own goroutine and its
// outcome never affects the returned result.
func (s *RecordsService) Create(ctx context.Context, input RecordInput) (*models.ProcessedRecord, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	record := input.Record()
	if err := s.repo.Insert(ctx, record); err != nil {
		return nil, err
	}

	s.cacheSave(ctx, record)

	if s.publisher != nil {
		go s.publisher.Publish(record)
	}

	return record, nil
}

// Get returns the record with the given id, consulting the cache first.
func (s *RecordsService) Get(ctx context.Context, id int64) (*models.ProcessedRecord, error) {
	if s.cache != nil {
		if record, err := s.cache.Get(ctx, id); err == nil {
			return record, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("record cache lookup failed", zap.Int64("record_id", id), zap.Error(err))
		}
	}

	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheSave(ctx, record)
	return record, nil
}

// List returns every stored record.
func (s *RecordsService) List(ctx context.Context) ([]models.ProcessedRecord, error) {
	return s.repo.List(ctx)
}

// Update atomically replaces all mutable fields of the record.
func (s *RecordsService) Update(ctx context.Context, id int64, input RecordInput) (*models.ProcessedRecord, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.Update(ctx, id, input.Record())
	if err != nil {
		return nil, err
	}

	s.cacheSave(ctx, record)
	return record, nil
}

// Delete removes the record permanently and returns its last state.
func (s *RecordsService) Delete(ctx context.Context, id int64) (*models.ProcessedRecord, error) {
	record, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, id); err != nil {
			s.logger.Warn("failed to evict cached record", zap.Int64("record_id", id), zap.Error(err))
		}
	}
	return record, nil
}

func (s *RecordsService) cacheSave(ctx context.Context, record *models.ProcessedRecord) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Save(ctx, record); err != nil {
		s.logger.Warn("failed to cache record", zap.Int64("record_id", record.ID), zap.Error(err))
	}
}
