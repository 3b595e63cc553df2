package memory

import "github.com/gdugdh24/dating-onboarding/internal/repository"

var (
	_ repository.Transactor            = (*Transactor)(nil)
	_ repository.UserRepository        = (*UserRepository)(nil)
	_ repository.AuthRepository        = (*AuthRepository)(nil)
	_ repository.SessionRepository     = (*SessionRepository)(nil)
	_ repository.ProfileRepository     = (*ProfileRepository)(nil)
	_ repository.PreferencesRepository = (*PreferencesRepository)(nil)
	_ repository.PhotoRepository       = (*PhotoRepository)(nil)
	_ repository.AreaRepository        = (*AreaRepository)(nil)
	_ repository.InterestRepository    = (*InterestRepository)(nil)
	_ repository.PromptRepository      = (*PromptRepository)(nil)
	_ repository.DraftRepository       = (*DraftRepository)(nil)
	_ repository.CodeRepository        = (*CodeRepository)(nil)
)
