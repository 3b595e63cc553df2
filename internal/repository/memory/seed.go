package memory

import (
	"github.com/gdugdh24/dating-onboarding/internal/domain"
	"github.com/google/uuid"
)

// SeedDefaults fills the catalogs with the same rows the seed migration
// inserts, for running without Postgres.
func (s *Store) SeedDefaults() {
	now := s.now()
	for _, a := range [][2]string{
		{"Downtown", "Central"}, {"Old Town", "Central"}, {"Riverside", "Central"},
		{"Northgate", "North"}, {"Hillcrest", "North"},
		{"Harbor", "South"}, {"Southpark", "South"},
		{"Westfield", "West"}, {"Lakeshore", "West"},
		{"Eastwood", "East"},
	} {
		s.SeedAreas(domain.Area{ID: uuid.NewString(), Name: a[0], Region: a[1], IsActive: true, CreatedAt: now})
	}

	for _, i := range [][3]string{
		{"Hiking", "🥾", "Outdoors"}, {"Camping", "🏕️", "Outdoors"},
		{"Cycling", "🚴", "Sports"}, {"Running", "🏃", "Sports"}, {"Yoga", "🧘", "Sports"},
		{"Cooking", "🍳", "Food & Drink"}, {"Coffee", "☕", "Food & Drink"}, {"Wine", "🍷", "Food & Drink"},
		{"Photography", "📷", "Creative"}, {"Painting", "🎨", "Creative"}, {"Writing", "✍️", "Creative"},
		{"Concerts", "🎤", "Music"}, {"Guitar", "🎸", "Music"},
		{"Board Games", "🎲", "Entertainment"}, {"Movies", "🎬", "Entertainment"},
		{"Reading", "📚", ""}, {"Travel", "✈️", ""},
	} {
		interest := domain.Interest{ID: uuid.NewString(), Name: i[0]}
		icon := i[1]
		interest.Icon = &icon
		if i[2] != "" {
			category := i[2]
			interest.Category = &category
		}
		s.SeedInterests(interest)
	}

	for _, p := range [][2]string{
		{"My ideal Sunday", "About me"},
		{"I geek out on", "About me"},
		{"A life goal of mine", "About me"},
		{"The way to win me over is", "Dating"},
		{"We'll get along if", "Dating"},
		{"My most irrational fear", "Fun"},
		{"Two truths and a lie", "Fun"},
	} {
		s.SeedPrompts(domain.Prompt{ID: uuid.NewString(), Question: p[0], Category: p[1], IsActive: true, CreatedAt: now})
	}
}
