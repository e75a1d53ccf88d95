package model

import (
	"fmt"
	"time"
)

// Rating defines an individual rating created by a user for a book.
// A user has at most one rating per book.
type Rating struct {
	UserID     int64     `json:"userId" validate:"gt=0"`
	BookID     int64     `json:"bookId" validate:"gt=0"`
	Value      int       `json:"rating" validate:"gte=1,lte=5"`
	ReviewText string    `json:"reviewText,omitempty" validate:"max=1000"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (r *Rating) String() string {
	return fmt.Sprintf("Rating{userId=%d, bookId=%d, value=%d}", r.UserID, r.BookID, r.Value)
}

// RatingSummary is the aggregate of all ratings of a book.
type RatingSummary struct {
	BookID        int64   `json:"bookId"`
	AverageRating float64 `json:"averageRating"`
	RatingCount   int     `json:"ratingCount"`
}

// UserRating is a rating as listed on the user's profile.
type UserRating struct {
	ID            int64     `json:"id"`
	BookID        int64     `json:"bookId"`
	Rating        int       `json:"rating"`
	ReviewText    string    `json:"reviewText,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	CoverImageURL string    `json:"coverImageUrl,omitempty"`
	CountryName   string    `json:"countryName,omitempty"`
}

// UserRatingPage is one page of a user's ratings.
type UserRatingPage struct {
	Ratings []UserRating `json:"ratings"`
	Total   int          `json:"total"`
	Limit   int          `json:"limit"`
	Offset  int          `json:"offset"`
}

// UserStats summarises a user's activity.
type UserStats struct {
	UserID             int64   `json:"userId"`
	BooksRated         int     `json:"booksRated"`
	AverageRatingGiven float64 `json:"averageRatingGiven"`
	CountriesExplored  int     `json:"countriesExplored"`
	Favorites          int     `json:"favorites"`
}

// RatingEvent defines an event containing rating information.
type RatingEvent struct {
	Rating
	ProviderID string          `json:"providerId"`
	EventType  RatingEventType `json:"eventType"`
}

func (ev *RatingEvent) String() string {
	return fmt.Sprintf("RatingEvent{Rating=%s, ProviderId=%s, EventType=%s}", ev.Rating.String(), ev.ProviderID, ev.EventType)
}

// RatingEventType defines the type of rating event.
type RatingEventType string

// Rating event types.
const (
	RatingEventTypePut    = RatingEventType("put")
	RatingEventTypeDelete = RatingEventType("delete")
)
