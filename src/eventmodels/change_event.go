package eventmodels

import (
	"time"

	"github.com/google/uuid"
)

type ChangeDirection string

const (
	ChangeDirectionUp   ChangeDirection = "up"
	ChangeDirectionDown ChangeDirection = "down"
)

// ChangeEvent marks a previously known field that moved to a new value. It
// is only observable until ExpiresAt.
type ChangeEvent struct {
	ID        uuid.UUID       `json:"id"`
	Key       ContractKey     `json:"key"`
	Field     ContractField   `json:"field"`
	Old       float64         `json:"old"`
	New       float64         `json:"new"`
	Direction ChangeDirection `json:"direction"`
	Timestamp time.Time       `json:"timestamp"`
	ExpiresAt time.Time       `json:"expires_at"`
}

func NewChangeEvent(key ContractKey, field ContractField, old, new float64, now time.Time, ttl time.Duration) *ChangeEvent {
	direction := ChangeDirectionDown
	if new > old {
		direction = ChangeDirectionUp
	}

	return &ChangeEvent{
		ID:        uuid.New(),
		Key:       key,
		Field:     field,
		Old:       old,
		New:       new,
		Direction: direction,
		Timestamp: now,
		ExpiresAt: now.Add(ttl),
	}
}

func (e *ChangeEvent) IsExpired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}
