package progress

import (
	"time"

	"github.com/google/uuid"
)

// QuizAttempt rows are append-only. The unique index over
// (user_id, quiz_content_id, attempt_number) is what makes concurrent
// attempt-number races detectable; there is no soft delete on purpose.
type QuizAttempt struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index;index:idx_quiz_attempt_seq,unique" json:"user_id"`
	PageID           uuid.UUID `gorm:"type:uuid;not null;index" json:"page_id"`
	QuizContentID    uuid.UUID `gorm:"type:uuid;column:quiz_content_id;not null;index:idx_quiz_attempt_seq,unique" json:"quiz_content_id"`
	SelectedOptionID string    `gorm:"column:selected_option_id;not null" json:"selected_option_id"`
	IsCorrect        bool      `gorm:"column:is_correct;not null" json:"is_correct"`
	AttemptNumber    int       `gorm:"column:attempt_number;not null;index:idx_quiz_attempt_seq,unique" json:"attempt_number"`
	CreatedAt        time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (QuizAttempt) TableName() string { return "quiz_attempt" }
