package entities

import "time"

// Genre is the controlled vocabulary for book genres.
type Genre string

const (
	GenreNovel             Genre = "novel"
	GenreHistoricalFiction Genre = "historical-fiction"
	GenreFantasyAdventure  Genre = "fantasy-adventure"
	GenreFantasyFiction    Genre = "fantasy-fiction"
	GenreMystery           Genre = "mystery"
	GenreHighFantasy       Genre = "high-fantasy"
	GenreFiction           Genre = "fiction"
	GenreFantasy           Genre = "fantasy"
)

// Genres lists every accepted genre value.
var Genres = []Genre{
	GenreNovel,
	GenreHistoricalFiction,
	GenreFantasyAdventure,
	GenreFantasyFiction,
	GenreMystery,
	GenreHighFantasy,
	GenreFiction,
	GenreFantasy,
}

// Valid reports whether g is one of the accepted genre values.
func (g Genre) Valid() bool {
	for _, known := range Genres {
		if g == known {
			return true
		}
	}
	return false
}

// Author represents a book author in the catalogue.
type Author struct {
	ID          uint      `gorm:"primaryKey" json:"authorID"`
	FirstName   string    `gorm:"size:100;not null" json:"firstName"`
	LastName    string    `gorm:"size:100;not null;index" json:"lastName"`
	Nationality string    `gorm:"size:100" json:"nationality"`
	BirthYear   int       `json:"birthYear"`
	DeathYear   *int      `json:"deathYear"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// Book represents a catalogued book. CoverImagePath is the public URL path
// of the cover image ("cover-images/<id>.jpg"), empty when no cover exists.
type Book struct {
	ID               uint      `gorm:"primaryKey" json:"bookID"`
	Title            string    `gorm:"size:100;not null;index" json:"bookTitle"`
	OriginalTitle    string    `gorm:"size:100" json:"originalTitle"`
	AuthorID         uint      `gorm:"not null;index" json:"authorID"`
	Author           *Author   `gorm:"foreignKey:AuthorID" json:"-"`
	YearPublished    int       `json:"yearPublished"`
	Genre            Genre     `gorm:"size:50" json:"genre"`
	MillionsSold     int       `json:"millionsSold"`
	OriginalLanguage string    `gorm:"size:50" json:"originalLanguage"`
	CoverImagePath   string    `gorm:"size:150" json:"coverImagePath"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"-"`
}
