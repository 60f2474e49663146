package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
)

// Order is constructed once by the submitter and never mutated afterwards.
type Order struct {
	ID          uuid.UUID
	UserID      string
	Items       []CartLine
	Total       Money
	Status      OrderStatus
	SubmittedAt time.Time
}

type Identity struct {
	ID   string
	Name string
}
