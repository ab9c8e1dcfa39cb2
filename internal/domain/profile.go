package domain

// UserProfile represents the signed-in user's server-owned record.
// The client only ever holds an immutable snapshot of it.
type UserProfile struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Image         *string `json:"image,omitempty"`
	FavoriteMovie *string `json:"favoriteMovie"`
	Onboarded     bool    `json:"onboarded"`
}

// HasFavoriteMovie checks if the user has picked a favorite movie
func (p *UserProfile) HasFavoriteMovie() bool {
	if p == nil || p.FavoriteMovie == nil {
		return false
	}
	return *p.FavoriteMovie != ""
}

// GetFavoriteMovie returns the favorite movie title or empty string
func (p *UserProfile) GetFavoriteMovie() string {
	if p == nil || p.FavoriteMovie == nil {
		return ""
	}
	return *p.FavoriteMovie
}

// DisplayName returns the user's name, falling back to the email address
func (p *UserProfile) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.Name != "" {
		return p.Name
	}
	return p.Email
}
