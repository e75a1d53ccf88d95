package model

import "time"

// Book defines a catalog entry. AverageRating and RatingCount are derived
// from the book's ratings and are never written directly.
type Book struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	Description     string  `json:"description,omitempty"`
	PublicationYear int     `json:"publicationYear,omitempty"`
	ISBN            string  `json:"isbn,omitempty"`
	CoverImageURL   string  `json:"coverImageUrl,omitempty"`
	AverageRating   float64 `json:"averageRating"`
	RatingCount     int     `json:"ratingCount"`
	CountryID       *int64  `json:"countryId,omitempty"`
	CountryCode     string  `json:"countryCode,omitempty"`
	CountryName     string  `json:"countryName,omitempty"`
}

// Country defines a country books can originate from.
type Country struct {
	ID        int64    `json:"id"`
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// CountrySummary is a country together with aggregates over its books.
type CountrySummary struct {
	Country
	BookCount     int     `json:"bookCount"`
	AverageRating float64 `json:"averageRating"`
}

// CountryBooks is a country with its top rated books.
type CountryBooks struct {
	Country *Country `json:"country"`
	Books   []Book   `json:"books"`
}

// Genre defines a book genre.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Review is a rating with review text, shown on a book page.
type Review struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	Username   string    `json:"username"`
	Rating     int       `json:"rating"`
	ReviewText string    `json:"reviewText"`
	CreatedAt  time.Time `json:"createdAt"`
}

// BookDetails aggregates everything shown on a single book page.
type BookDetails struct {
	Book    Book     `json:"book"`
	Genres  []Genre  `json:"genres"`
	Reviews []Review `json:"reviews"`
}

// BookSort defines a sort key of a book listing.
type BookSort string

// Supported book sort keys.
const (
	BookSortRating = BookSort("rating")
	BookSortTitle  = BookSort("title")
	BookSortAuthor = BookSort("author")
	BookSortYear   = BookSort("year")
)

// SortOrder defines a sort direction.
type SortOrder string

// Supported sort directions.
const (
	SortAsc  = SortOrder("asc")
	SortDesc = SortOrder("desc")
)

// BookFilter narrows a book listing. Country is a country code, Author and
// Search are matched as substrings.
type BookFilter struct {
	Country string
	Author  string
	Search  string
	Sort    BookSort
	Order   SortOrder
	Limit   int
	Offset  int
}

// BookPage is one page of a book listing.
type BookPage struct {
	Books   []Book `json:"books"`
	Total   int    `json:"total"`
	Limit   int    `json:"limit"`
	Offset  int    `json:"offset"`
	HasMore bool   `json:"hasMore"`
}

// Favorite is a book saved by a user.
type Favorite struct {
	Book
	FavoritedAt time.Time `json:"favoritedAt"`
}

// User defines a registered reader.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
