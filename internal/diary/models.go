package diary

import (
	"time"

	"github.com/google/uuid"

	"github.com/avp818/coach-hub/internal/storage"
)

// MealInput is one meal inside a sync payload.
type MealInput struct {
	Name      string  `json:"name"`
	TimeOfDay *string `json:"time_of_day,omitempty"` // HH:MM
	ProteinG  int     `json:"protein_g"`
	FatG      int     `json:"fat_g"`
	CarbsG    int     `json:"carbs_g"`
	FiberG    int     `json:"fiber_g"`
}

// SyncDayRequest replaces one whole diary day. An empty meal list is a valid
// payload and clears the day.
type SyncDayRequest struct {
	Date  string      `json:"date"` // YYYY-MM-DD
	Meals []MealInput `json:"meals"`
}

// MealDTO is the API shape of a stored meal.
type MealDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	TimeOfDay *string   `json:"time_of_day,omitempty"`
	ProteinG  int       `json:"protein_g"`
	FatG      int       `json:"fat_g"`
	CarbsG    int       `json:"carbs_g"`
	FiberG    int       `json:"fiber_g"`
}

// DayDTO is the API shape of a diary day with its meals.
type DayDTO struct {
	Date      string    `json:"date"`
	ProteinG  int       `json:"protein_g"`
	FatG      int       `json:"fat_g"`
	CarbsG    int       `json:"carbs_g"`
	FiberG    int       `json:"fiber_g"`
	Meals     []MealDTO `json:"meals"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DaySummaryDTO is a day row without meals, used in range listings.
type DaySummaryDTO struct {
	Date     string `json:"date"`
	ProteinG int    `json:"protein_g"`
	FatG     int    `json:"fat_g"`
	CarbsG   int    `json:"carbs_g"`
	FiberG   int    `json:"fiber_g"`
}

// SyncDayResponse reports the stored day and whether the row was created.
type SyncDayResponse struct {
	Day     DayDTO `json:"day"`
	Created bool   `json:"created"`
}

// DaysResponse is the response for a range listing.
type DaysResponse struct {
	Days []DaySummaryDTO `json:"days"`
}

func dayDTO(day storage.DiaryDay, meals []storage.Meal) DayDTO {
	mealDTOs := make([]MealDTO, len(meals))
	for i, m := range meals {
		mealDTOs[i] = MealDTO{
			ID:        m.ID,
			Name:      m.Name,
			TimeOfDay: m.TimeOfDay,
			ProteinG:  m.Macros.ProteinG,
			FatG:      m.Macros.FatG,
			CarbsG:    m.Macros.CarbsG,
			FiberG:    m.Macros.FiberG,
		}
	}
	return DayDTO{
		Date:      day.Date,
		ProteinG:  day.Totals.ProteinG,
		FatG:      day.Totals.FatG,
		CarbsG:    day.Totals.CarbsG,
		FiberG:    day.Totals.FiberG,
		Meals:     mealDTOs,
		UpdatedAt: day.UpdatedAt,
	}
}

func daySummary(day storage.DiaryDay) DaySummaryDTO {
	return DaySummaryDTO{
		Date:     day.Date,
		ProteinG: day.Totals.ProteinG,
		FatG:     day.Totals.FatG,
		CarbsG:   day.Totals.CarbsG,
		FiberG:   day.Totals.FiberG,
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
