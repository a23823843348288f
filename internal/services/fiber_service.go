package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fiberwatch/fiberwatch/internal/database"
)

// ErrInvalidFiberStatus is returned for status values outside the tracked set.
var ErrInvalidFiberStatus = errors.New("invalid fiber segment status")

// FiberService tracks the fiber plant and its status history.
type FiberService struct {
	db *gorm.DB
}

// NewFiberService creates a new fiber service
func NewFiberService(db *gorm.DB) *FiberService {
	return &FiberService{db: db}
}

// ListSegments returns all segments ordered by code, optionally narrowed to
// one client.
func (s *FiberService) ListSegments(client string) ([]database.FiberSegment, error) {
	query := s.db.Order("code ASC")
	if client != "" {
		query = query.Where("client = ?", client)
	}
	var segments []database.FiberSegment
	err := query.Find(&segments).Error
	return segments, err
}

// GetSegment returns one segment by id.
func (s *FiberService) GetSegment(id uint) (*database.FiberSegment, error) {
	var segment database.FiberSegment
	if err := s.db.First(&segment, id).Error; err != nil {
		return nil, err
	}
	return &segment, nil
}

// CreateSegment registers a new segment. The initial status is recorded as
// the first version so the history is complete from day one.
func (s *FiberService) CreateSegment(segment *database.FiberSegment) error {
	if segment.Status == "" {
		segment.Status = database.FiberStatusOperational
	}
	if !database.ValidFiberStatus(segment.Status) {
		return fmt.Errorf("%w: %s", ErrInvalidFiberStatus, segment.Status)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(segment).Error; err != nil {
			return err
		}
		version := &database.FiberSegmentVersion{
			SegmentID: segment.ID,
			Status:    segment.Status,
			Note:      "segment registered",
			ChangedAt: time.Now(),
		}
		return tx.Create(version).Error
	})
}

// UpdateStatus changes a segment's status, appending a version row. The
// history is append-only; versions are never rewritten.
func (s *FiberService) UpdateStatus(id uint, status, note, changedBy string) (*database.FiberSegment, error) {
	if !database.ValidFiberStatus(status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFiberStatus, status)
	}

	segment, err := s.GetSegment(id)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(segment).Update("status", status).Error; err != nil {
			return err
		}
		version := &database.FiberSegmentVersion{
			SegmentID: segment.ID,
			Status:    status,
			Note:      note,
			ChangedBy: changedBy,
			ChangedAt: time.Now(),
		}
		return tx.Create(version).Error
	})
	if err != nil {
		return nil, err
	}
	segment.Status = status
	return segment, nil
}

// History returns a segment's status changes, oldest first.
func (s *FiberService) History(id uint) ([]database.FiberSegmentVersion, error) {
	if _, err := s.GetSegment(id); err != nil {
		return nil, err
	}
	var versions []database.FiberSegmentVersion
	err := s.db.Where("segment_id = ?", id).Order("changed_at ASC, id ASC").Find(&versions).Error
	return versions, err
}
