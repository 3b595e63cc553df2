package domain

import "time"

type UserProfile struct {
	ID                   int       `json:"id" db:"id"`
	UserID               int       `json:"user_id" db:"user_id"`
	Bio                  *string   `json:"bio" db:"bio"`
	Height               *string   `json:"height" db:"height"`
	Hometown             *string   `json:"hometown" db:"hometown"`
	Work                 *string   `json:"work" db:"work"`
	Education            *string   `json:"education" db:"education"`
	Religion             *string   `json:"religion" db:"religion"`
	Drinking             *string   `json:"drinking" db:"drinking"`
	Smoking              *string   `json:"smoking" db:"smoking"`
	Pronouns             *string   `json:"pronouns" db:"pronouns"`
	CurrentLocation      *string   `json:"current_location" db:"current_location"`
	PreferredDatingAreas []string  `json:"preferred_dating_areas" db:"preferred_dating_areas"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`
}

type UserPhoto struct {
	ID          int       `json:"id" db:"id"`
	UserID      int       `json:"user_id" db:"user_id"`
	PublicURL   string    `json:"public_url" db:"public_url"`
	StoragePath string    `json:"storage_path" db:"storage_path"`
	PhotoOrder  int       `json:"photo_order" db:"photo_order"`
	IsMain      bool      `json:"is_main" db:"is_main"`
	Blurhash    *string   `json:"blurhash" db:"blurhash"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type UserPrompt struct {
	ID         int       `json:"id" db:"id"`
	UserID     int       `json:"user_id" db:"user_id"`
	PromptID   string    `json:"prompt_id" db:"prompt_id"`
	Answer     string    `json:"answer" db:"answer"`
	OrderIndex int       `json:"order_index" db:"order_index"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
