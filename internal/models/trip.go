package models

import "time"

// Trip представляет поездку, созданную пользователем.
type Trip struct {
	ID          int       `json:"id"`
	UserUID     string    `json:"-"`
	Title       string    `json:"title"`
	Destination string    `json:"destination"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DummyTrip — входные данные для создания поездки, до разбора дат.
type DummyTrip struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Destination string `json:"destination" validate:"required,min=1,max=200"`
	StartDate   string `json:"start_date" validate:"required,datetime=02-01-2006"`
	EndDate     string `json:"end_date" validate:"required,datetime=02-01-2006"`
	Notes       string `json:"notes" validate:"max=2000"`
}
