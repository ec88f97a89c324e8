package domain

import "time"

// User is the signed-in account as far as the client knows it
type User struct {
	DisplayName    string                       `json:"displayName,omitempty"`
	AvatarURL      string                       `json:"avatarURL,omitempty"`
	CurrentGP      string                       `json:"currentGP,omitempty"`
	CurrentCredits string                       `json:"currentCredits,omitempty"`
	Greeting       *Greeting                    `json:"greeting,omitempty"`
	FavoriteNames  map[FavoritesCategory]string `json:"favoriteNames,omitempty"`
}

// FavoriteName returns the user's name for a folder, or the default name
func (u User) FavoriteName(c FavoritesCategory) string {
	if name := u.FavoriteNames[c]; name != "" {
		return name
	}
	return DefaultFavoriteName(c)
}

// UserUpdate is a partial user. Nil fields are left untouched when applied.
type UserUpdate struct {
	DisplayName    *string
	AvatarURL      *string
	CurrentGP      *string
	CurrentCredits *string
}

// Funds is the balance shown on the archive page
type Funds struct {
	GP      string
	Credits string
}

// Greeting is the daily "dawn of a new day" reward notice
type Greeting struct {
	GainedEXP     int        `json:"gainedEXP,omitempty"`
	GainedCredits int        `json:"gainedCredits,omitempty"`
	GainedGP      int        `json:"gainedGP,omitempty"`
	GainedHath    int        `json:"gainedHath,omitempty"`
	UpdateTime    *time.Time `json:"updateTime,omitempty"`
}

// IsEmpty reports whether the greeting carries no reward at all
func (g Greeting) IsEmpty() bool {
	return g.GainedEXP == 0 && g.GainedCredits == 0 && g.GainedGP == 0 && g.GainedHath == 0
}

// Newer reports whether g should replace stored. A greeting without an update
// time never replaces anything.
func (g Greeting) Newer(stored *Greeting) bool {
	if g.UpdateTime == nil {
		return false
	}
	if stored == nil {
		return true
	}
	if stored.UpdateTime == nil {
		return false
	}
	return g.UpdateTime.After(*stored.UpdateTime)
}
