package engine

import (
	"errors"
	"time"

	"github.com/noah-isme/attendance-planner-api/internal/models"
)

var (
	// ErrFutureClass rejects marking a class that has not started yet.
	ErrFutureClass = errors.New("cannot mark attendance for future classes")
	// ErrInvalidStatus rejects an unknown attendance status.
	ErrInvalidStatus = errors.New("invalid attendance status")
)

// CanMark reports whether attendance may be recorded for the instance at now.
func CanMark(instance models.ClassInstance, now time.Time) error {
	if now.Before(instance.StartTime) {
		return ErrFutureClass
	}
	return nil
}

// Mark returns a copy of the instance with the new status and audit fields set
// together. Any status may replace any other; the input is never modified.
func Mark(instance models.ClassInstance, status models.AttendanceStatus, actorID string, now time.Time) (models.ClassInstance, error) {
	if !status.Valid() {
		return instance, ErrInvalidStatus
	}
	if err := CanMark(instance, now); err != nil {
		return instance, err
	}

	updatedAt := now
	updatedBy := actorID
	marked := instance
	marked.Status = status
	marked.StatusUpdatedAt = &updatedAt
	marked.StatusUpdatedBy = &updatedBy
	return marked, nil
}
