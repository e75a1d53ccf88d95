package sqldb_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taletrail/book/internal/repository"
	"taletrail/book/internal/seed"
	"taletrail/book/pkg/model"
	"taletrail/book/pkg/testutil"
)

// keys maps books back to their catalog keys.
func keys(t *testing.T, res *seed.Result, books []model.Book) []string {
	t.Helper()
	byID := make(map[int64]string, len(res.Books))
	for k, id := range res.Books {
		byID[id] = k
	}
	out := make([]string, 0, len(books))
	for _, b := range books {
		k, ok := byID[b.ID]
		require.True(t, ok, "unknown book id %d", b.ID)
		out = append(out, k)
	}
	return out
}

func TestRecommendationQueries(t *testing.T) {
	ctx := context.Background()
	store, res := testutil.NewScenarioStore(t)
	reader := res.Users["reader"]
	newbie := res.Users["newbie"]
	austenite := res.Users["austenite"]

	tests := []struct {
		name  string
		query func() ([]model.Book, error)
		want  []string
	}{
		{
			name:  "genre overlap orders by shared genres",
			query: func() ([]model.Book, error) { return store.GenreOverlapBooks(ctx, reader, 10) },
			want:  []string{"F", "C"},
		},
		{
			name:  "genre overlap without favorite genres",
			query: func() ([]model.Book, error) { return store.GenreOverlapBooks(ctx, austenite, 10) },
			want:  []string{},
		},
		{
			name:  "favorite overlap by country or author",
			query: func() ([]model.Book, error) { return store.FavoriteOverlapBooks(ctx, reader, 10) },
			want:  []string{"G", "F", "C", "D"},
		},
		{
			name:  "favorite overlap ties broken by id",
			query: func() ([]model.Book, error) { return store.FavoriteOverlapBooks(ctx, austenite, 10) },
			want:  []string{"A", "F", "C"},
		},
		{
			name:  "popular excludes favorites",
			query: func() ([]model.Book, error) { return store.PopularBooks(ctx, reader, 10) },
			want:  []string{"E", "G", "F", "C", "D"},
		},
		{
			name:  "popular without favorites",
			query: func() ([]model.Book, error) { return store.PopularBooks(ctx, newbie, 10) },
			want:  []string{"E", "G", "A", "F", "C", "D", "B"},
		},
		{
			name:  "popular honours limit",
			query: func() ([]model.Book, error) { return store.PopularBooks(ctx, newbie, 2) },
			want:  []string{"E", "G"},
		},
		{
			name:  "trending collapses duplicates to the lowest id",
			query: func() ([]model.Book, error) { return store.TrendingBooks(ctx, 10) },
			want:  []string{"E", "A", "F", "C", "D"},
		},
		{
			name: "similar shares country or author",
			query: func() ([]model.Book, error) {
				b, err := store.GetBook(ctx, res.Books["A"])
				if err != nil {
					return nil, err
				}
				return store.SimilarBooks(ctx, b, 10)
			},
			want: []string{"G", "F", "C"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books, err := tt.query()
			require.NoError(t, err)
			assert.Equal(t, tt.want, keys(t, res, books))
		})
	}
}

func TestUpsertRatingRecomputesAggregates(t *testing.T) {
	ctx := context.Background()
	store, res := testutil.NewScenarioStore(t)
	book := res.Books["B"]
	now := time.Now()

	_, err := store.UpsertRating(ctx, &model.Rating{UserID: res.Users["critic"], BookID: book, Value: 4, CreatedAt: now})
	require.NoError(t, err)
	sum, err := store.UpsertRating(ctx, &model.Rating{UserID: res.Users["fan"], BookID: book, Value: 5, CreatedAt: now})
	require.NoError(t, err)
	assert.Equal(t, &model.RatingSummary{BookID: book, AverageRating: 4.5, RatingCount: 2}, sum)

	sum, err = store.UpsertRating(ctx, &model.Rating{UserID: res.Users["critic"], BookID: book, Value: 2, CreatedAt: now})
	require.NoError(t, err)
	assert.Equal(t, &model.RatingSummary{BookID: book, AverageRating: 3.5, RatingCount: 2}, sum)

	b, err := store.GetBook(ctx, book)
	require.NoError(t, err)
	assert.Equal(t, 3.5, b.AverageRating)
	assert.Equal(t, 2, b.RatingCount)

	sum, err = store.DeleteRating(ctx, res.Users["fan"], book)
	require.NoError(t, err)
	assert.Equal(t, &model.RatingSummary{BookID: book, AverageRating: 2, RatingCount: 1}, sum)

	_, err = store.DeleteRating(ctx, res.Users["fan"], book)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = store.UpsertRating(ctx, &model.Rating{UserID: res.Users["fan"], BookID: 9999, Value: 3, CreatedAt: now})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestConcurrentRatingsKeepAggregatesConsistent(t *testing.T) {
	ctx := context.Background()
	store, res := testutil.NewScenarioStore(t)
	book := res.Books["B"]
	users := []string{"reader", "newbie", "critic", "fan", "austenite"}

	var wg sync.WaitGroup
	errs := make(chan error, len(users)*3)
	for round := 0; round < 3; round++ {
		for i, u := range users {
			wg.Add(1)
			go func(userID int64, value int) {
				defer wg.Done()
				_, err := store.UpsertRating(ctx, &model.Rating{UserID: userID, BookID: book, Value: value, CreatedAt: time.Now()})
				errs <- err
			}(res.Users[u], i+1)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	b, err := store.GetBook(ctx, book)
	require.NoError(t, err)
	assert.Equal(t, 3.0, b.AverageRating)
	assert.Equal(t, 5, b.RatingCount)
}

func TestFavorites(t *testing.T) {
	ctx := context.Background()
	store, res := testutil.NewScenarioStore(t)
	user := res.Users["newbie"]
	book := res.Books["E"]
	first := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	require.NoError(t, store.AddFavorite(ctx, user, book, first))
	require.NoError(t, store.AddFavorite(ctx, user, book, second))

	favs, err := store.ListFavorites(ctx, user)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, book, favs[0].ID)
	assert.True(t, second.Equal(favs[0].FavoritedAt), "got %v", favs[0].FavoritedAt)

	ids, err := store.FavoriteBookIDs(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, []int64{book}, ids)

	require.NoError(t, store.RemoveFavorite(ctx, user, book))
	assert.ErrorIs(t, store.RemoveFavorite(ctx, user, book), repository.ErrNotFound)
}

func TestAssignGenres(t *testing.T) {
	ctx := context.Background()
	store, res := testutil.NewScenarioStore(t)
	book := res.Books["E"]
	fantasy := res.Genres["Fantasy"]

	require.NoError(t, store.AssignGenres(ctx, book, []int64{fantasy, fantasy}))
	require.NoError(t, store.AssignGenres(ctx, book, []int64{fantasy}))
	genres, err := store.BookGenres(ctx, book)
	require.NoError(t, err)
	assert.Equal(t, []model.Genre{{ID: fantasy, Name: "Fantasy"}}, genres)

	assert.ErrorIs(t, store.AssignGenres(ctx, book, []int64{fantasy, 9999}), repository.ErrNotFound)
	assert.ErrorIs(t, store.AssignGenres(ctx, 9999, []int64{fantasy}), repository.ErrNotFound)

	genres, err = store.BookGenres(ctx, book)
	require.NoError(t, err)
	assert.Len(t, genres, 1)
}

func TestListBooks(t *testing.T) {
	ctx := context.Background()
	store, res := testutil.NewScenarioStore(t)

	tests := []struct {
		name      string
		filter    model.BookFilter
		want      []string
		wantTotal int
	}{
		{
			name:      "author substring with duplicates collapsed",
			filter:    model.BookFilter{Author: "austen", Sort: model.BookSortTitle, Order: model.SortAsc, Limit: 10},
			want:      []string{"F", "A"},
			wantTotal: 2,
		},
		{
			name:      "country page",
			filter:    model.BookFilter{Country: "GB", Sort: model.BookSortTitle, Order: model.SortAsc, Limit: 1, Offset: 1},
			want:      []string{"C"},
			wantTotal: 3,
		},
		{
			name:      "percent sign matched literally",
			filter:    model.BookFilter{Search: "100%", Limit: 10},
			want:      []string{"E"},
			wantTotal: 1,
		},
		{
			name:      "underscore matched literally",
			filter:    model.BookFilter{Search: "_", Limit: 10},
			want:      []string{},
			wantTotal: 0,
		},
		{
			name:      "rating descending by default",
			filter:    model.BookFilter{Limit: 3},
			want:      []string{"E", "A", "F"},
			wantTotal: 6,
		},
		{
			name:      "year ascending",
			filter:    model.BookFilter{Sort: model.BookSortYear, Order: model.SortAsc, Limit: 2},
			want:      []string{"A", "F"},
			wantTotal: 6,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books, total, err := store.ListBooks(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, keys(t, res, books))
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}

func TestCountries(t *testing.T) {
	ctx := context.Background()
	store, res := testutil.NewScenarioStore(t)

	countries, err := store.ListCountries(ctx)
	require.NoError(t, err)
	require.Len(t, countries, 3)
	assert.Equal(t, "GB", countries[0].Code)
	assert.Equal(t, 4, countries[0].BookCount)
	assert.Equal(t, "US", countries[1].Code)
	assert.Equal(t, "JP", countries[2].Code)
	assert.Equal(t, 5.0, countries[2].AverageRating)
	require.NotNil(t, countries[2].Latitude)

	c, err := store.GetCountry(ctx, "FR")
	require.NoError(t, err)
	assert.Equal(t, res.Countries["FR"], c.ID)
	assert.Nil(t, c.Latitude)

	_, err = store.GetCountry(ctx, "XX")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	books, err := store.BooksByCountry(ctx, "GB", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "F"}, keys(t, res, books))
}

func TestUserQueries(t *testing.T) {
	ctx := context.Background()
	store, res := testutil.NewScenarioStore(t)

	ok, err := store.UserExists(ctx, res.Users["reader"])
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = store.UserExists(ctx, 9999)
	require.NoError(t, err)
	assert.False(t, ok)

	stats, err := store.UserStats(ctx, res.Users["reader"])
	require.NoError(t, err)
	assert.Equal(t, &model.UserStats{
		UserID:             res.Users["reader"],
		BooksRated:         1,
		AverageRatingGiven: 4,
		CountriesExplored:  2,
		Favorites:          2,
	}, stats)

	stats, err = store.UserStats(ctx, res.Users["newbie"])
	require.NoError(t, err)
	assert.Equal(t, &model.UserStats{UserID: res.Users["newbie"]}, stats)

	ratings, total, err := store.UserRatings(ctx, res.Users["critic"], 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 6, total)
	require.Len(t, ratings, 2)
	assert.Equal(t, res.Books["G"], ratings[0].BookID)
	assert.Equal(t, res.Books["F"], ratings[1].BookID)
	assert.Equal(t, "United Kingdom", ratings[0].CountryName)

	reviews, err := store.BookReviews(ctx, res.Books["A"], 10)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "Witty", reviews[0].ReviewText)
	assert.Equal(t, "fan", reviews[0].Username)
	assert.Equal(t, "Timeless", reviews[1].ReviewText)
}

func TestBooksByIDs(t *testing.T) {
	ctx := context.Background()
	store, res := testutil.NewScenarioStore(t)

	books, err := store.BooksByIDs(ctx, []int64{res.Books["C"], 9999, res.Books["A"], res.Books["C"]})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "C"}, keys(t, res, books))

	books, err = store.BooksByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, books)
}
