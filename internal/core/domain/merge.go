package domain

// Patch types carry partial updates. An empty string or nil pointer means
// "no change requested": the existing value is preserved. Merging the same
// patch twice yields the same result as merging it once.

// UserPatch is a partial update for a User. Password and CreatedBy-style
// fields are deliberately absent: the password has its own flow and ids are
// immutable.
type UserPatch struct {
	Name     string
	Email    string
	Age      *int
	Role     string
	IsActive *bool
}

// IsZero reports whether the patch requests no changes at all.
func (p UserPatch) IsZero() bool {
	return p.Name == "" && p.Email == "" && p.Age == nil && p.Role == "" && p.IsActive == nil
}

// Merge applies the patch onto u and returns the result. u is not mutated.
func (u User) Merge(p UserPatch) User {
	if p.Name != "" {
		u.Name = p.Name
	}
	if p.Email != "" {
		u.Email = p.Email
	}
	if p.Age != nil {
		u.Age = *p.Age
	}
	if p.Role != "" {
		u.Role = p.Role
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	return u
}

// SongPatch is a partial update for a Song. CreatedBy is immutable and has
// no patch field.
type SongPatch struct {
	Title       string
	Author      string
	ReleaseYear *int
	Genre       string
	DurationSec *int
}

// IsZero reports whether the patch requests no changes at all.
func (p SongPatch) IsZero() bool {
	return p.Title == "" && p.Author == "" && p.ReleaseYear == nil && p.Genre == "" && p.DurationSec == nil
}

// Merge applies the patch onto s and returns the result. s is not mutated.
func (s Song) Merge(p SongPatch) Song {
	if p.Title != "" {
		s.Title = p.Title
	}
	if p.Author != "" {
		s.Author = p.Author
	}
	if p.ReleaseYear != nil {
		s.ReleaseYear = *p.ReleaseYear
	}
	if p.Genre != "" {
		s.Genre = p.Genre
	}
	if p.DurationSec != nil {
		s.DurationSec = *p.DurationSec
	}
	return s
}
