package account

import (
	"time"

	"github.com/google/uuid"
)

type Account struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	PlanID       int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CreateAccountInput struct {
	Username     string
	PasswordHash string
	PlanID       int64
}

type UpdateAccountInput struct {
	PasswordHash *string
	PlanID       *int64
}
