package onboarding

import "strings"

type FirstNameInput struct {
	FirstName string  `json:"first_name" validate:"required,max=50"`
	LastName  *string `json:"last_name" validate:"omitempty,max=50"`
}

type DateOfBirthInput struct {
	Day   string `json:"day" validate:"required,numeric"`
	Month string `json:"month" validate:"required,numeric"`
	Year  string `json:"year" validate:"required,numeric,len=4"`
}

type NotificationsInput struct {
	PushNotifications  *bool `json:"push_notifications"`
	EmailNotifications *bool `json:"email_notifications"`
	MarketingEmails    *bool `json:"marketing_emails"`
	AnalyticsSharing   *bool `json:"analytics_sharing"`
}

type LocationInput struct {
	DistrictID string `json:"district_id" validate:"required"`
}

// TextInput carries single-answer steps such as pronouns or hometown.
type TextInput struct {
	Value string `json:"value" validate:"required,max=100"`
}

type GenderInput struct {
	Gender string `json:"gender" validate:"required,oneof=Male Female 'Non Binary'"`
}

type SexualityInput struct {
	Sexuality []string `json:"sexuality" validate:"min=1,max=3,unique,dive,oneof=Men Women Non-Binary"`
}

type RelationshipTypeInput struct {
	RelationshipType string `json:"relationship_type" validate:"required,max=50"`
}

type WorkInput struct {
	Work      string  `json:"work" validate:"required,max=100"`
	Education *string `json:"education" validate:"omitempty,max=100"`
}

type InterestsInput struct {
	InterestIDs []string `json:"interest_ids" validate:"min=3,max=10,unique,dive,required"`
}

type DatingAreasInput struct {
	AreaIDs []string `json:"area_ids" validate:"min=1,max=10,unique,dive,required"`
}

type PhotoInput struct {
	PublicURL   string  `json:"public_url" validate:"required,url"`
	StoragePath string  `json:"storage_path" validate:"required"`
	IsMain      bool    `json:"is_main"`
	Blurhash    *string `json:"blurhash" validate:"omitempty,max=100"`
}

type PhotosInput struct {
	Photos []PhotoInput `json:"photos" validate:"min=1,max=6,dive"`
}

type PromptAnswerInput struct {
	PromptID string `json:"prompt_id" validate:"required"`
	Answer   string `json:"answer" validate:"required,max=300"`
}

type PromptsInput struct {
	Prompts []PromptAnswerInput `json:"prompts" validate:"min=1,max=3,dive"`
}

func trimmed(s string) *string {
	v := strings.TrimSpace(s)
	return &v
}
