package model

import "time"

// Event はモジュールと同じ構造を持つが、コスト集計の対象外
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	ProjectID   int64     `json:"project_id"`
}

// EventInput is the payload for creating an event.
type EventInput struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	ProjectID   int64
	EmployeeIDs []int64
}

// EventCreated is returned by event creation.
type EventCreated struct {
	Event      *Event        `json:"event"`
	Assignment *AssignResult `json:"assignment"`
}
