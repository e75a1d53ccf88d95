// Package api describes the TaleTrail book gRPC service. Messages are plain
// Go structs exchanged with the JSON codec registered by internal/grpcutil.
package api

// Book is a book entry of a gRPC response.
type Book struct {
	BookID          int64   `json:"bookId"`
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	PublicationYear int     `json:"publicationYear,omitempty"`
	CoverImageURL   string  `json:"coverImageUrl,omitempty"`
	Country         string  `json:"country,omitempty"`
	CountryCode     string  `json:"countryCode,omitempty"`
	AverageRating   float64 `json:"averageRating"`
	RatingCount     int     `json:"ratingCount"`
}

// GetRecommendationsRequest asks for personalised recommendations.
type GetRecommendationsRequest struct {
	UserID int64 `json:"userId"`
	Limit  int32 `json:"limit,omitempty"`
}

// GetRecommendationsResponse carries personalised recommendations and the
// strategy that produced them.
type GetRecommendationsResponse struct {
	UserID   int64  `json:"userId"`
	Strategy string `json:"strategy"`
	Books    []Book `json:"books"`
}

// GetSimilarBooksRequest asks for books similar to a book.
type GetSimilarBooksRequest struct {
	BookID int64 `json:"bookId"`
	Limit  int32 `json:"limit,omitempty"`
}

// GetSimilarBooksResponse lists similar books.
type GetSimilarBooksResponse struct {
	BookID   int64  `json:"bookId"`
	Books    []Book `json:"books"`
	Fallback bool   `json:"fallback"`
}

// GetTrendingBooksRequest asks for trending books over a window of days.
type GetTrendingBooksRequest struct {
	Limit int32 `json:"limit,omitempty"`
	Days  int32 `json:"days,omitempty"`
}

// GetTrendingBooksResponse lists trending books.
type GetTrendingBooksResponse struct {
	Strategy   string `json:"strategy"`
	PeriodDays int32  `json:"periodDays"`
	Books      []Book `json:"books"`
}

// RateBookRequest submits a rating.
type RateBookRequest struct {
	UserID     int64  `json:"userId"`
	BookID     int64  `json:"bookId"`
	Rating     int32  `json:"rating"`
	ReviewText string `json:"reviewText,omitempty"`
}

// RateBookResponse returns the new aggregate of the rated book.
type RateBookResponse struct {
	BookID        int64   `json:"bookId"`
	AverageRating float64 `json:"averageRating"`
	RatingCount   int32   `json:"ratingCount"`
}
