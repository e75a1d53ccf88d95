package testutil

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"taletrail/book/internal/repository/sqlite"
	"taletrail/book/internal/seed"
)

// NewSQLiteStore opens a private in-memory SQLite store closed at the end of the test.
func NewSQLiteStore(t testing.TB) *sqlite.Repository {
	t.Helper()
	store, err := sqlite.New(context.Background(), ":memory:", zap.NewNop())
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close sqlite store: %v", err)
		}
	})
	return store
}

// Seed writes a catalog into the store and returns the assigned ids.
func Seed(t testing.TB, store seed.Store, c *seed.Catalog) *seed.Result {
	t.Helper()
	res, err := seed.New(store, bcrypt.MinCost, zap.NewNop()).Apply(context.Background(), c)
	if err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	return res
}

// NewScenarioStore returns an in-memory store seeded with ScenarioCatalog.
func NewScenarioStore(t testing.TB) (*sqlite.Repository, *seed.Result) {
	t.Helper()
	store := NewSQLiteStore(t)
	return store, Seed(t, store, ScenarioCatalog())
}

// ScenarioCatalog is a small catalog used across tests.
//
//	book  title                 author           country  genres            avg  count
//	A     Pride and Prejudice   Jane Austen      GB       Romance, Classic  4.5  2
//	B     Moby-Dick             Herman Melville  US       -                 0    0
//	C     Me Before You         Jojo Moyes       GB       Romance           4.0  2
//	D     It                    Stephen King     US       Horror            3.0  2
//	E     Norwegian Wood        Haruki Murakami  JP       -                 5.0  2
//	F     Emma                  Jane Austen      GB       Classic, Romance  4.5  2
//	G     Pride and Prejudice   Jane Austen      GB       -                 5.0  1
//
// G duplicates A. "reader" favorites A and B, "austenite" favorites G,
// "newbie" has no favorites or ratings.
func ScenarioCatalog() *seed.Catalog {
	return &seed.Catalog{
		Countries: []seed.Country{
			{Code: "GB", Name: "United Kingdom", Latitude: ptr(55.37), Longitude: ptr(-3.43)},
			{Code: "US", Name: "United States", Latitude: ptr(37.09), Longitude: ptr(-95.71)},
			{Code: "JP", Name: "Japan", Latitude: ptr(36.2), Longitude: ptr(138.25)},
			{Code: "FR", Name: "France"},
		},
		Genres: []string{"Romance", "Classic", "Horror", "Fantasy"},
		Books: []seed.Book{
			{Key: "A", Title: "Pride and Prejudice", Author: "Jane Austen", Country: "GB", PublicationYear: 1813, Genres: []string{"Romance", "Classic"}},
			{Key: "B", Title: "Moby-Dick", Author: "Herman Melville", Country: "US", PublicationYear: 1851},
			{Key: "C", Title: "Me Before You", Author: "Jojo Moyes", Country: "GB", PublicationYear: 2012, Genres: []string{"Romance"}},
			{Key: "D", Title: "It", Author: "Stephen King", Country: "US", PublicationYear: 1986, Genres: []string{"Horror"}},
			{Key: "E", Title: "Norwegian Wood", Author: "Haruki Murakami", Country: "JP", PublicationYear: 1987, Description: "A 100% nostalgic story"},
			{Key: "F", Title: "Emma", Author: "Jane Austen", Country: "GB", PublicationYear: 1815, Genres: []string{"Classic", "Romance"}},
			{Key: "G", Title: "Pride and Prejudice", Author: "Jane Austen", Country: "GB", PublicationYear: 1813},
		},
		Users: []seed.User{
			{Username: "reader", Email: "reader@example.com", Password: "reader-pass"},
			{Username: "newbie", Email: "newbie@example.com", Password: "newbie-pass"},
			{Username: "critic", Email: "critic@example.com", Password: "critic-pass"},
			{Username: "fan", Email: "fan@example.com", Password: "fan-pass"},
			{Username: "austenite", Email: "austenite@example.com", Password: "austenite-pass"},
		},
		Ratings: []seed.Rating{
			{User: "critic", Book: "A", Rating: 5, Review: "Timeless"},
			{User: "critic", Book: "C", Rating: 4},
			{User: "critic", Book: "D", Rating: 3},
			{User: "critic", Book: "E", Rating: 5},
			{User: "critic", Book: "F", Rating: 4},
			{User: "critic", Book: "G", Rating: 5},
			{User: "fan", Book: "A", Rating: 4, Review: "Witty"},
			{User: "fan", Book: "D", Rating: 3},
			{User: "fan", Book: "E", Rating: 5},
			{User: "fan", Book: "F", Rating: 5},
			{User: "reader", Book: "C", Rating: 4, Review: "Made me cry"},
		},
		Favorites: []seed.Favorite{
			{User: "reader", Book: "A"},
			{User: "reader", Book: "B"},
			{User: "austenite", Book: "G"},
		},
	}
}

func ptr[T any](v T) *T {
	return &v
}
