package model

import "time"

// TranscriptMessage is one chat turn persisted for auditing. The live
// conversation state stays in the in-memory session store; this log is
// written asynchronously and never read on the hot path.
type TranscriptMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:64;not null;index" json:"user_id"`
	Role      string    `gorm:"size:16;not null;index" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Source    string    `gorm:"size:32" json:"source"` // cache, llm, guard
	Blocked   bool      `json:"blocked"`
	CreatedAt time.Time `json:"created_at"`
}
