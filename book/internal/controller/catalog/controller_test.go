package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	gen "taletrail/gen/mock/book/catalog"

	"taletrail/book/internal/repository"
	"taletrail/book/internal/repository/memory"
	"taletrail/book/internal/seed"
	"taletrail/book/pkg/model"
	"taletrail/book/pkg/testutil"
)

func TestGetBookCache(t *testing.T) {
	book := &model.Book{ID: 7, Title: "Emma"}
	tests := []struct {
		name         string
		cacheRes     *model.Book
		cacheErr     error
		repoCall     bool
		repoRes      *model.Book
		repoErr      error
		cachePutCall bool
		wantErr      error
	}{
		{
			name:     "cache hit",
			cacheRes: book,
		},
		{
			name:         "cache miss",
			cacheErr:     repository.ErrNotFound,
			repoCall:     true,
			repoRes:      book,
			cachePutCall: true,
		},
		{
			name:     "not found",
			cacheErr: repository.ErrNotFound,
			repoCall: true,
			repoErr:  repository.ErrNotFound,
			wantErr:  ErrNotFound,
		},
		{
			name:     "unexpected error",
			cacheErr: repository.ErrNotFound,
			repoCall: true,
			repoErr:  errors.New("unexpected error"),
			wantErr:  errors.New("unexpected error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repoMock := gen.NewMockcatalogRepository(ctrl)
			cacheMock := gen.NewMockbookCache(ctrl)
			c := New(repoMock, cacheMock, zap.NewNop())
			ctx := context.Background()

			cacheMock.EXPECT().Get(gomock.Any(), book.ID).Return(tt.cacheRes, uint64(2), tt.cacheErr)
			if tt.repoCall {
				repoMock.EXPECT().GetBook(gomock.Any(), book.ID).Return(tt.repoRes, tt.repoErr)
			}
			if tt.cachePutCall {
				cacheMock.EXPECT().Put(gomock.Any(), book, uint64(2)).Return(nil)
			}
			if tt.wantErr == nil {
				repoMock.EXPECT().BookGenres(gomock.Any(), book.ID).Return([]model.Genre{{ID: 1, Name: "Classic"}}, nil)
				repoMock.EXPECT().BookReviews(gomock.Any(), book.ID, ReviewsPerBookPage).Return([]model.Review{}, nil)
			}

			res, err := c.GetBook(ctx, book.ID)
			assert.Equal(t, tt.wantErr, err)
			if tt.wantErr != nil {
				assert.Nil(t, res)
				return
			}
			require.NotNil(t, res)
			assert.Equal(t, *book, res.Book)
			assert.Len(t, res.Genres, 1)
		})
	}
}

func TestGetBookCachePutFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := gen.NewMockcatalogRepository(ctrl)
	cacheMock := gen.NewMockbookCache(ctrl)
	c := New(repoMock, cacheMock, zap.NewNop())
	book := &model.Book{ID: 3}

	cacheMock.EXPECT().Get(gomock.Any(), book.ID).Return(nil, uint64(0), repository.ErrNotFound)
	repoMock.EXPECT().GetBook(gomock.Any(), book.ID).Return(book, nil)
	cacheMock.EXPECT().Put(gomock.Any(), book, uint64(0)).Return(errors.New("full"))
	repoMock.EXPECT().BookGenres(gomock.Any(), book.ID).Return([]model.Genre{}, nil)
	repoMock.EXPECT().BookReviews(gomock.Any(), book.ID, ReviewsPerBookPage).Return([]model.Review{}, nil)

	_, err := c.GetBook(context.Background(), book.ID)
	assert.NoError(t, err)
}

func TestGetBookEvictedDuringRead(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := gen.NewMockcatalogRepository(ctrl)
	cache := memory.New(time.Hour, zap.NewNop())
	c := New(repoMock, cache, zap.NewNop())
	ctx := context.Background()
	stale := &model.Book{ID: 5, AverageRating: 4}
	fresh := &model.Book{ID: 5, AverageRating: 3.5}

	gomock.InOrder(
		repoMock.EXPECT().GetBook(gomock.Any(), stale.ID).DoAndReturn(func(ctx context.Context, id int64) (*model.Book, error) {
			// A rating commits and evicts the book after the row was read.
			require.NoError(t, cache.Delete(ctx, id))
			return stale, nil
		}),
		repoMock.EXPECT().GetBook(gomock.Any(), stale.ID).Return(fresh, nil),
	)
	repoMock.EXPECT().BookGenres(gomock.Any(), stale.ID).Return([]model.Genre{}, nil).Times(3)
	repoMock.EXPECT().BookReviews(gomock.Any(), stale.ID, ReviewsPerBookPage).Return([]model.Review{}, nil).Times(3)

	res, err := c.GetBook(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, res.Book.AverageRating)

	for range 2 {
		res, err = c.GetBook(ctx, stale.ID)
		require.NoError(t, err)
		assert.Equal(t, 3.5, res.Book.AverageRating)
	}
}

func TestGetBookDetails(t *testing.T) {
	store, res := testutil.NewScenarioStore(t)
	c := New(store, memory.New(time.Minute, zap.NewNop()), zap.NewNop())

	details, err := c.GetBook(context.Background(), res.Books["A"])
	require.NoError(t, err)
	assert.Equal(t, "Pride and Prejudice", details.Book.Title)
	assert.Equal(t, "GB", details.Book.CountryCode)

	var genres []string
	for _, g := range details.Genres {
		genres = append(genres, g.Name)
	}
	assert.ElementsMatch(t, []string{"Romance", "Classic"}, genres)

	var reviews []string
	for _, r := range details.Reviews {
		reviews = append(reviews, r.ReviewText)
	}
	assert.ElementsMatch(t, []string{"Timeless", "Witty"}, reviews)
}

func TestListBooks(t *testing.T) {
	store, res := testutil.NewScenarioStore(t)
	c := New(store, memory.New(time.Minute, zap.NewNop()), zap.NewNop())

	tests := []struct {
		name        string
		filter      model.BookFilter
		want        []string
		wantTotal   int
		wantLimit   int
		wantHasMore bool
	}{
		{
			name:      "defaults",
			want:      []string{"E", "A", "F", "C", "D", "B"},
			wantTotal: 6,
			wantLimit: DefaultPageLimit,
		},
		{
			name:        "second page",
			filter:      model.BookFilter{Limit: 2, Offset: 2},
			want:        []string{"F", "C"},
			wantTotal:   6,
			wantLimit:   2,
			wantHasMore: true,
		},
		{
			name:      "by title ascending",
			filter:    model.BookFilter{Sort: model.BookSortTitle, Order: model.SortAsc},
			want:      []string{"F", "D", "C", "B", "E", "A"},
			wantTotal: 6,
			wantLimit: DefaultPageLimit,
		},
		{
			name:      "country code is case insensitive",
			filter:    model.BookFilter{Country: " us "},
			want:      []string{"D", "B"},
			wantTotal: 2,
			wantLimit: DefaultPageLimit,
		},
		{
			name:      "percent sign matched literally",
			filter:    model.BookFilter{Search: "100%"},
			want:      []string{"E"},
			wantTotal: 1,
			wantLimit: DefaultPageLimit,
		},
		{
			name:      "limit above maximum",
			filter:    model.BookFilter{Limit: 1000, Offset: -1},
			want:      []string{"E", "A", "F", "C", "D", "B"},
			wantTotal: 6,
			wantLimit: MaxPageLimit,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := c.ListBooks(context.Background(), tt.filter)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, keys(res, page.Books)); diff != "" {
				t.Errorf("books mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.wantTotal, page.Total)
			assert.Equal(t, tt.wantLimit, page.Limit)
			assert.Equal(t, tt.wantHasMore, page.HasMore)
		})
	}
}

func TestListBooksValidation(t *testing.T) {
	c := New(nil, nil, zap.NewNop())
	_, err := c.ListBooks(context.Background(), model.BookFilter{Sort: "price", Order: "sideways"})
	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "sort")
	assert.Contains(t, verr.Fields, "order")
}

func TestCountries(t *testing.T) {
	ctx := context.Background()
	store, res := testutil.NewScenarioStore(t)
	c := New(store, memory.New(time.Minute, zap.NewNop()), zap.NewNop())

	country, err := c.GetCountry(ctx, "jp", 0)
	require.NoError(t, err)
	assert.Equal(t, "Japan", country.Country.Name)
	assert.Equal(t, []string{"E"}, keys(res, country.Books))

	_, err = c.GetCountry(ctx, "XX", 0)
	assert.ErrorIs(t, err, ErrNotFound)

	books, err := c.BooksByCountry(ctx, "XX", 5)
	require.NoError(t, err)
	assert.Empty(t, books)

	books, err = c.BooksByCountry(ctx, "gb", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "F"}, keys(res, books))

	countries, err := c.ListCountries(ctx)
	require.NoError(t, err)
	var codes []string
	for _, s := range countries {
		codes = append(codes, s.Code)
	}
	assert.NotContains(t, codes, "FR")
}

func TestAssignGenres(t *testing.T) {
	ctx := context.Background()
	store, res := testutil.NewScenarioStore(t)
	c := New(store, memory.New(time.Minute, zap.NewNop()), zap.NewNop())

	var verr *model.ValidationError
	assert.True(t, errors.As(c.AssignGenres(ctx, res.Books["B"], nil), &verr))
	assert.True(t, errors.As(c.AssignGenres(ctx, res.Books["B"], []int64{-1}), &verr))
	assert.ErrorIs(t, c.AssignGenres(ctx, 9999, []int64{res.Genres["Classic"]}), ErrNotFound)
	assert.ErrorIs(t, c.AssignGenres(ctx, res.Books["B"], []int64{9999}), ErrNotFound)

	require.NoError(t, c.AssignGenres(ctx, res.Books["B"], []int64{res.Genres["Classic"]}))
	require.NoError(t, c.AssignGenres(ctx, res.Books["B"], []int64{res.Genres["Classic"], res.Genres["Fantasy"]}))

	details, err := c.GetBook(ctx, res.Books["B"])
	require.NoError(t, err)
	assert.Len(t, details.Genres, 2)
}

func TestTrending(t *testing.T) {
	store, res := testutil.NewScenarioStore(t)
	c := New(store, memory.New(time.Minute, zap.NewNop()), zap.NewNop())

	books, err := c.Trending(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"E", "A", "F", "C", "D"}, keys(res, books))
}

func keys(res *seed.Result, books []model.Book) []string {
	names := map[int64]string{}
	for k, id := range res.Books {
		names[id] = k
	}
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, names[b.ID])
	}
	return out
}
