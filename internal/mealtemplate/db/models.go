package templatedb

import (
	"time"
)

type MealTemplate struct {
	ID        string
	Category  string
	Position  int64
	Data      string
	UpdatedAt time.Time
}
