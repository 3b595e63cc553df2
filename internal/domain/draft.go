package domain

// DateOfBirth keeps the three fields exactly as entered; parsing and age
// checks happen at validation time.
type DateOfBirth struct {
	Day   string `json:"day"`
	Month string `json:"month"`
	Year  string `json:"year"`
}

type CoreIdentity struct {
	FirstName       *string      `json:"first_name,omitempty"`
	LastName        *string      `json:"last_name,omitempty"`
	DateOfBirth     *DateOfBirth `json:"date_of_birth,omitempty"`
	Gender          *string      `json:"gender,omitempty"`
	CurrentLocation *string      `json:"current_location,omitempty"`
}

type DraftPhoto struct {
	URI         string  `json:"uri"`
	StoragePath string  `json:"storage_path"`
	Order       int     `json:"order"`
	IsMain      bool    `json:"is_main"`
	Blurhash    *string `json:"blurhash,omitempty"`
}

type ExtendedProfile struct {
	Bio       *string      `json:"bio,omitempty"`
	Height    *string      `json:"height,omitempty"`
	Hometown  *string      `json:"hometown,omitempty"`
	Work      *string      `json:"work,omitempty"`
	Education *string      `json:"education,omitempty"`
	Religion  *string      `json:"religion,omitempty"`
	Drinking  *string      `json:"drinking,omitempty"`
	Smoking   *string      `json:"smoking,omitempty"`
	Pronouns  *string      `json:"pronouns,omitempty"`
	Photos    []DraftPhoto `json:"photos,omitempty"`
}

type DatingPreferences struct {
	Sexuality          *string `json:"sexuality,omitempty"`
	RelationshipType   *string `json:"relationship_type,omitempty"`
	DatingIntention    *string `json:"dating_intention,omitempty"`
	SmokingPreference  *string `json:"smoking_preference,omitempty"`
	DrinkingPreference *string `json:"drinking_preference,omitempty"`
	ChildrenPreference *string `json:"children_preference,omitempty"`
	PetPreference      *string `json:"pet_preference,omitempty"`
	ReligionImportance *string `json:"religion_importance,omitempty"`
	MaxDistance        *int    `json:"max_distance,omitempty"`
	AgeRangeMin        *int    `json:"age_range_min,omitempty"`
	AgeRangeMax        *int    `json:"age_range_max,omitempty"`
}

type AppPreferences struct {
	PushNotifications  *bool `json:"push_notifications,omitempty"`
	EmailNotifications *bool `json:"email_notifications,omitempty"`
	MarketingEmails    *bool `json:"marketing_emails,omitempty"`
	AnalyticsSharing   *bool `json:"analytics_sharing,omitempty"`
}

type DraftPrompt struct {
	PromptID string `json:"prompt_id"`
	Answer   string `json:"answer"`
	Order    int    `json:"order"`
}

// DraftProfile is the partially filled profile built up step by step.
// Every group stays nil until the step that owns it writes to it.
// Updates are synchronous, local, and last-write-wins per field.
type DraftProfile struct {
	Core              *CoreIdentity      `json:"core,omitempty"`
	Extended          *ExtendedProfile   `json:"extended,omitempty"`
	DatingPreferences *DatingPreferences `json:"dating_preferences,omitempty"`
	AppPreferences    *AppPreferences    `json:"app_preferences,omitempty"`
	Interests         []string           `json:"interests,omitempty"`
	Prompts           []DraftPrompt      `json:"prompts,omitempty"`
	DatingAreas       []string           `json:"dating_areas,omitempty"`
}

func (d *DraftProfile) UpdateCoreIdentity(p CoreIdentity) {
	if d.Core == nil {
		d.Core = &CoreIdentity{}
	}
	c := d.Core
	mergeString(&c.FirstName, p.FirstName)
	mergeString(&c.LastName, p.LastName)
	if p.DateOfBirth != nil {
		dob := *p.DateOfBirth
		c.DateOfBirth = &dob
	}
	mergeString(&c.Gender, p.Gender)
	mergeString(&c.CurrentLocation, p.CurrentLocation)
}

func (d *DraftProfile) UpdateExtendedProfile(p ExtendedProfile) {
	if d.Extended == nil {
		d.Extended = &ExtendedProfile{}
	}
	e := d.Extended
	mergeString(&e.Bio, p.Bio)
	mergeString(&e.Height, p.Height)
	mergeString(&e.Hometown, p.Hometown)
	mergeString(&e.Work, p.Work)
	mergeString(&e.Education, p.Education)
	mergeString(&e.Religion, p.Religion)
	mergeString(&e.Drinking, p.Drinking)
	mergeString(&e.Smoking, p.Smoking)
	mergeString(&e.Pronouns, p.Pronouns)
	if p.Photos != nil {
		e.Photos = append([]DraftPhoto(nil), p.Photos...)
	}
}

func (d *DraftProfile) UpdateDatingPreferences(p DatingPreferences) {
	if d.DatingPreferences == nil {
		d.DatingPreferences = &DatingPreferences{}
	}
	dp := d.DatingPreferences
	mergeString(&dp.Sexuality, p.Sexuality)
	mergeString(&dp.RelationshipType, p.RelationshipType)
	mergeString(&dp.DatingIntention, p.DatingIntention)
	mergeString(&dp.SmokingPreference, p.SmokingPreference)
	mergeString(&dp.DrinkingPreference, p.DrinkingPreference)
	mergeString(&dp.ChildrenPreference, p.ChildrenPreference)
	mergeString(&dp.PetPreference, p.PetPreference)
	mergeString(&dp.ReligionImportance, p.ReligionImportance)
	mergeInt(&dp.MaxDistance, p.MaxDistance)
	mergeInt(&dp.AgeRangeMin, p.AgeRangeMin)
	mergeInt(&dp.AgeRangeMax, p.AgeRangeMax)
}

func (d *DraftProfile) UpdateAppPreferences(p AppPreferences) {
	if d.AppPreferences == nil {
		d.AppPreferences = &AppPreferences{}
	}
	ap := d.AppPreferences
	mergeBool(&ap.PushNotifications, p.PushNotifications)
	mergeBool(&ap.EmailNotifications, p.EmailNotifications)
	mergeBool(&ap.MarketingEmails, p.MarketingEmails)
	mergeBool(&ap.AnalyticsSharing, p.AnalyticsSharing)
}

// UpdateInterests replaces the interest set, dropping duplicates but keeping
// first-seen order.
func (d *DraftProfile) UpdateInterests(ids []string) {
	d.Interests = uniqueStrings(ids)
}

func (d *DraftProfile) UpdateDatingAreas(ids []string) {
	d.DatingAreas = uniqueStrings(ids)
}

func (d *DraftProfile) UpdatePrompts(prompts []DraftPrompt) {
	d.Prompts = append(make([]DraftPrompt, 0, len(prompts)), prompts...)
}

// Clear drops everything collected so far.
func (d *DraftProfile) Clear() {
	*d = DraftProfile{}
}

func (d *DraftProfile) IsEmpty() bool {
	return d.Core == nil && d.Extended == nil && d.DatingPreferences == nil &&
		d.AppPreferences == nil && d.Interests == nil && d.Prompts == nil && d.DatingAreas == nil
}

// FirstName returns the collected first name or "".
func (d *DraftProfile) FirstName() string {
	if d.Core == nil || d.Core.FirstName == nil {
		return ""
	}
	return *d.Core.FirstName
}

func mergeString(dst **string, src *string) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func mergeInt(dst **int, src *int) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func mergeBool(dst **bool, src *bool) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func uniqueStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
