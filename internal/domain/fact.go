package domain

import "time"

// MovieFact is one AI-generated fact about a movie. The server appends
// facts and never updates them in place, so two fetches for the same
// movie may legitimately return different rows.
type MovieFact struct {
	ID        string    `json:"id"`
	Movie     string    `json:"movie"`
	Fact      string    `json:"fact"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsFor checks whether the fact belongs to the given movie title
func (f *MovieFact) IsFor(movie string) bool {
	if f == nil {
		return false
	}
	return f.Movie == movie
}

// Age returns how long ago the fact was generated
func (f *MovieFact) Age(now time.Time) time.Duration {
	if f == nil {
		return 0
	}
	return now.Sub(f.CreatedAt)
}
