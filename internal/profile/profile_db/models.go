package profiledb

import (
	"time"
)

type Profile struct {
	UserID    string
	Data      string
	UpdatedAt time.Time
}

type QuizSubmission struct {
	ID                string
	UserID            string
	RawAnswers        string
	NormalizedAnswers string
	CreatedAt         time.Time
}

type QuizResult struct {
	ID           string
	UserID       string
	SubmissionID string
	Data         string
	CreatedAt    time.Time
}
