package domain

import "time"

// Movie is a catalog entry. DirectorName and GenreNames are denormalized
// read-side fields filled by the repository joins.
type Movie struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	ReleaseDate  *time.Time `json:"releaseDate,omitempty"`
	TotalRevenue float64    `json:"totalRevenue"`
	DirectorID   int64      `json:"directorId"`
	DirectorName string     `json:"directorName,omitempty"`
	GenreIDs     []int64    `json:"genreIds"`
	GenreNames   []string   `json:"genreNames,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Director is a movie director.
type Director struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	IsRetired bool      `json:"isRetired"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FullName returns the director's display name.
func (d *Director) FullName() string {
	return d.Name + " " + d.Surname
}

// Genre is a movie genre.
type Genre struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
