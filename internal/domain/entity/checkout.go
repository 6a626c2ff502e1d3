package entity

import "time"

// Checkout is one cart checkout as received by the checkout worker.
type Checkout struct {
	EventID    string    `json:"event_id"`
	Lessons    []Lesson  `json:"lessons"`
	CreatedAt  time.Time `json:"created_at"`  // When the user pressed checkout.
	ReceivedAt time.Time `json:"received_at"` // When the worker recorded it.
}
