package domain

import "time"

// Attempt is one redemption of a test access code. Its lifecycle is
// started -> submitted, nothing else: SubmittedAt transitions nil -> set
// exactly once and Score is immutable from then on.
type Attempt struct {
	ID     int64 `json:"id"`
	TestID int64 `json:"test_id" gorm:"index;not null"`
	Test   *Test `json:"-" gorm:"foreignKey:TestID"`

	// UserID is nil for anonymous attempts. When set, DisplayName is copied
	// from the account at start time, never taken from the client.
	UserID      *int64 `json:"user_id,omitempty" gorm:"index"`
	DisplayName string `json:"display_name" gorm:"not null"`

	StartedAt   time.Time  `json:"started_at" gorm:"not null"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty" gorm:"index"`

	Answers map[int64]string `json:"answers,omitempty" gorm:"serializer:json"`
	Score   *int             `json:"score,omitempty"`
}

func (a *Attempt) IsSubmitted() bool {
	return a.SubmittedAt != nil
}

// BelongsTo reports whether an authenticated attempt is owned by userID.
// Anonymous attempts belong to whoever holds the attempt id.
func (a *Attempt) BelongsTo(userID int64) bool {
	return a.UserID != nil && *a.UserID == userID
}
