package domain

import (
	"strings"
	"time"
)

type RelationshipType string

const (
	RelationshipMonogamous  RelationshipType = "monogamous"
	RelationshipOpen        RelationshipType = "open"
	RelationshipPolyamorous RelationshipType = "polyamorous"
)

// NormalizeRelationshipType coerces free text to the stored vocabulary.
// Anything unrecognised becomes monogamous.
func NormalizeRelationshipType(s string) RelationshipType {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(v, "poly"):
		return RelationshipPolyamorous
	case strings.Contains(v, "open"):
		return RelationshipOpen
	default:
		return RelationshipMonogamous
	}
}

type UserDatingPreferences struct {
	ID                 int       `json:"id" db:"id"`
	UserID             int       `json:"user_id" db:"user_id"`
	Sexuality          *string   `json:"sexuality" db:"sexuality"`
	RelationshipType   *string   `json:"relationship_type" db:"relationship_type"`
	DatingIntention    *string   `json:"dating_intention" db:"dating_intention"`
	SmokingPreference  *string   `json:"smoking_preference" db:"smoking_preference"`
	DrinkingPreference *string   `json:"drinking_preference" db:"drinking_preference"`
	ChildrenPreference *string   `json:"children_preference" db:"children_preference"`
	PetPreference      *string   `json:"pet_preference" db:"pet_preference"`
	ReligionImportance *string   `json:"religion_importance" db:"religion_importance"`
	MaxDistanceKm      *int      `json:"max_distance_km" db:"max_distance_km"`
	AgeRangeMin        *int      `json:"age_range_min" db:"age_range_min"`
	AgeRangeMax        *int      `json:"age_range_max" db:"age_range_max"`
	PreferredAreas     []string  `json:"preferred_areas" db:"preferred_areas"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

type UserAppPreferences struct {
	ID                 int       `json:"id" db:"id"`
	UserID             int       `json:"user_id" db:"user_id"`
	PushNotifications  bool      `json:"push_notifications" db:"push_notifications"`
	EmailNotifications bool      `json:"email_notifications" db:"email_notifications"`
	MarketingEmails    bool      `json:"marketing_emails" db:"marketing_emails"`
	AnalyticsSharing   bool      `json:"analytics_sharing" db:"analytics_sharing"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}
