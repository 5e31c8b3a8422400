package domain

import "time"

type TestStatus string

const (
	TestOpen   TestStatus = "open"
	TestClosed TestStatus = "closed"
)

type Test struct {
	ID               int64      `json:"id"`
	OwnerID          int64      `json:"owner_id" gorm:"index;not null"`
	Owner            *User      `json:"-" gorm:"foreignKey:OwnerID"`
	AccessCode       string     `json:"access_code" gorm:"size:16;uniqueIndex;not null"`
	Title            string     `json:"title" validate:"required" gorm:"not null"`
	TimeLimitSeconds int        `json:"time_limit_seconds" validate:"required,gt=0"`
	ExpiresAt        time.Time  `json:"expires_at" gorm:"not null"`
	Status           TestStatus `json:"status" gorm:"size:16;not null;default:open"`
	Questions        []Question `json:"questions,omitempty" gorm:"foreignKey:TestID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// IsAvailable reports whether new attempts may still be started.
// Expiry and closing collapse to the same outcome for participants.
func (t *Test) IsAvailable(now time.Time) bool {
	return t.Status == TestOpen && now.Before(t.ExpiresAt)
}

type Question struct {
	ID       int64    `json:"id"`
	TestID   int64    `json:"test_id" gorm:"index;not null"`
	Position int      `json:"position" gorm:"not null"`
	Prompt   string   `json:"prompt" gorm:"type:text;not null"`
	Options  []string `json:"options" gorm:"serializer:json;not null"`

	// CorrectAnswer is never serialized; owner views expose it explicitly
	// through their own DTOs.
	CorrectAnswer string `json:"-" gorm:"not null"`
}
