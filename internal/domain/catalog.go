package domain

import "time"

// Area is a district users can pick as their location or dating area.
type Area struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Region    string    `json:"region" db:"region"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Interest struct {
	ID       string  `json:"id" db:"id"`
	Name     string  `json:"name" db:"name"`
	Icon     *string `json:"icon" db:"icon"`
	Category *string `json:"category" db:"category"`
}

type Prompt struct {
	ID        string    `json:"id" db:"id"`
	Question  string    `json:"question" db:"question"`
	Category  string    `json:"category" db:"category"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
