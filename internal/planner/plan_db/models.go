package plandb

import (
	"time"
)

type MealPlan struct {
	UserID    string
	StartDate string
	Data      string
	CreatedAt time.Time
}
