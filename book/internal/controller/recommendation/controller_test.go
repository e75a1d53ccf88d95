package recommendation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally/v6"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	gen "taletrail/gen/mock/book/recommendation"

	"taletrail/book/internal/gateway"
	"taletrail/book/internal/seed"
	"taletrail/book/pkg/model"
	"taletrail/book/pkg/testutil"
)

func bookKeys(t *testing.T, res *seed.Result, books []model.Book) []string {
	t.Helper()
	byID := make(map[int64]string, len(res.Books))
	for k, id := range res.Books {
		byID[id] = k
	}
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, byID[b.ID])
	}
	return out
}

func newController(repo bookRepository, ml mlGateway) *Controller {
	return New(repo, ml, Config{MLTimeout: time.Second}, tally.NoopScope, zap.NewNop())
}

func TestRecommendCascade(t *testing.T) {
	store, res := testutil.NewScenarioStore(t)
	c := newController(store, nil)

	tests := []struct {
		name         string
		user         string
		limit        int
		wantStrategy model.Strategy
		want         []string
	}{
		{
			name:         "shared genres win over everything else",
			user:         "reader",
			wantStrategy: model.StrategyGenreBased,
			want:         []string{"F", "C"},
		},
		{
			name:         "favorites without genres fall back to country and author",
			user:         "austenite",
			wantStrategy: model.StrategySimilarToFavorites,
			want:         []string{"A", "F", "C"},
		},
		{
			name:         "no favorites means popular",
			user:         "newbie",
			wantStrategy: model.StrategyPopular,
			want:         []string{"E", "G", "A", "F", "C", "D", "B"},
		},
		{
			name:         "limit applies",
			user:         "newbie",
			limit:        2,
			wantStrategy: model.StrategyPopular,
			want:         []string{"E", "G"},
		},
		{
			name:         "limit above maximum is clamped",
			user:         "newbie",
			limit:        1000,
			wantStrategy: model.StrategyPopular,
			want:         []string{"E", "G", "A", "F", "C", "D", "B"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Recommend(context.Background(), res.Users[tt.user], tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStrategy, got.Strategy)
			assert.Equal(t, tt.want, bookKeys(t, res, got.Books))
			assert.Equal(t, res.Users[tt.user], got.UserID)
		})
	}
}

func TestRecommendGenreScenario(t *testing.T) {
	store, res := testutil.NewScenarioStore(t)
	c := newController(store, nil)

	got, err := c.Recommend(context.Background(), res.Users["reader"], 10)
	require.NoError(t, err)
	assert.Equal(t, model.StrategyGenreBased, got.Strategy)
	keys := bookKeys(t, res, got.Books)
	assert.Contains(t, keys, "C")
	assert.NotContains(t, keys, "D")
	assert.NotContains(t, keys, "A")
	assert.NotContains(t, keys, "B")
}

func TestRecommendInvalidUser(t *testing.T) {
	store, _ := testutil.NewScenarioStore(t)
	c := newController(store, nil)

	for _, id := range []int64{0, -1, 9999} {
		got, err := c.Recommend(context.Background(), id, 10)
		assert.ErrorIs(t, err, ErrInvalidUser)
		assert.Nil(t, got)
	}
}

func TestRecommendEmptyCatalog(t *testing.T) {
	store := testutil.NewSQLiteStore(t)
	u := &model.User{Username: "lonely", Email: "lonely@example.com", PasswordHash: "x"}
	require.NoError(t, store.CreateUser(context.Background(), u))
	c := newController(store, nil)

	got, err := c.Recommend(context.Background(), u.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, model.StrategyPopular, got.Strategy)
	assert.Empty(t, got.Books)
}

func TestRecommendML(t *testing.T) {
	store, res := testutil.NewScenarioStore(t)
	reader := res.Users["reader"]

	tests := []struct {
		name         string
		expect       func(ml *gen.MockmlGateway)
		wantStrategy model.Strategy
		want         []string
	}{
		{
			name: "ml order is kept and unknown ids are dropped",
			expect: func(ml *gen.MockmlGateway) {
				ml.EXPECT().UserRecommendations(gomock.Any(), reader, 10).Return([]model.ScoredBook{
					{BookID: res.Books["E"], Score: 0.9},
					{BookID: res.Books["A"], Score: 0.8},
					{BookID: 9999, Score: 0.7},
					{BookID: res.Books["C"], Score: 0.6},
				}, nil)
			},
			wantStrategy: model.StrategyMLPersonalized,
			want:         []string{"E", "A", "C"},
		},
		{
			name: "ml failure falls through to genres",
			expect: func(ml *gen.MockmlGateway) {
				ml.EXPECT().UserRecommendations(gomock.Any(), reader, 10).Return(nil, gateway.ErrUnavailable)
			},
			wantStrategy: model.StrategyGenreBased,
			want:         []string{"F", "C"},
		},
		{
			name: "ml ids missing from the catalog fall through",
			expect: func(ml *gen.MockmlGateway) {
				ml.EXPECT().UserRecommendations(gomock.Any(), reader, 10).Return([]model.ScoredBook{{BookID: 9999}}, nil)
			},
			wantStrategy: model.StrategyGenreBased,
			want:         []string{"F", "C"},
		},
		{
			name: "ml timeout falls through",
			expect: func(ml *gen.MockmlGateway) {
				ml.EXPECT().UserRecommendations(gomock.Any(), reader, 10).DoAndReturn(
					func(ctx context.Context, _ int64, _ int) ([]model.ScoredBook, error) {
						<-ctx.Done()
						return nil, ctx.Err()
					})
			},
			wantStrategy: model.StrategyGenreBased,
			want:         []string{"F", "C"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			ml := gen.NewMockmlGateway(ctrl)
			tt.expect(ml)
			c := New(store, ml, Config{MLTimeout: 50 * time.Millisecond}, tally.NoopScope, zap.NewNop())

			got, err := c.Recommend(context.Background(), reader, 10)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStrategy, got.Strategy)
			assert.Equal(t, tt.want, bookKeys(t, res, got.Books))
		})
	}
}

func TestRecommendPersistenceFailures(t *testing.T) {
	dbErr := errors.New("connection refused")
	tests := []struct {
		name         string
		expect       func(repo *gen.MockbookRepository)
		wantStrategy model.Strategy
		wantBooks    int
		wantErr      error
	}{
		{
			name: "every stage failing is unavailable",
			expect: func(repo *gen.MockbookRepository) {
				repo.EXPECT().FavoriteBookIDs(gomock.Any(), int64(1)).Return(nil, dbErr).Times(1)
				repo.EXPECT().PopularBooks(gomock.Any(), int64(1), 10).Return(nil, dbErr)
			},
			wantErr: ErrUnavailable,
		},
		{
			name: "popular failing alone is unavailable",
			expect: func(repo *gen.MockbookRepository) {
				repo.EXPECT().FavoriteBookIDs(gomock.Any(), int64(1)).Return([]int64{}, nil)
				repo.EXPECT().PopularBooks(gomock.Any(), int64(1), 10).Return(nil, dbErr)
			},
			wantErr: ErrUnavailable,
		},
		{
			name: "zero rows are labelled by the last stage that answered",
			expect: func(repo *gen.MockbookRepository) {
				repo.EXPECT().FavoriteBookIDs(gomock.Any(), int64(1)).Return([]int64{5}, nil)
				repo.EXPECT().GenreOverlapBooks(gomock.Any(), int64(1), 10).Return(nil, dbErr)
				repo.EXPECT().FavoriteOverlapBooks(gomock.Any(), int64(1), 10).Return([]model.Book{}, nil)
				repo.EXPECT().PopularBooks(gomock.Any(), int64(1), 10).Return(nil, dbErr)
			},
			wantStrategy: model.StrategySimilarToFavorites,
		},
		{
			name: "a failing stage falls through to the next",
			expect: func(repo *gen.MockbookRepository) {
				repo.EXPECT().FavoriteBookIDs(gomock.Any(), int64(1)).Return([]int64{5}, nil)
				repo.EXPECT().GenreOverlapBooks(gomock.Any(), int64(1), 10).Return(nil, dbErr)
				repo.EXPECT().FavoriteOverlapBooks(gomock.Any(), int64(1), 10).Return([]model.Book{{ID: 8}}, nil)
			},
			wantStrategy: model.StrategySimilarToFavorites,
			wantBooks:    1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := gen.NewMockbookRepository(ctrl)
			repo.EXPECT().UserExists(gomock.Any(), int64(1)).Return(true, nil)
			tt.expect(repo)
			c := newController(repo, nil)

			got, err := c.Recommend(context.Background(), 1, 0)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStrategy, got.Strategy)
			assert.Len(t, got.Books, tt.wantBooks)
		})
	}
}

func TestRecommendUserLookupFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := gen.NewMockbookRepository(ctrl)
	repo.EXPECT().UserExists(gomock.Any(), int64(1)).Return(false, errors.New("boom"))
	c := newController(repo, nil)

	_, err := c.Recommend(context.Background(), 1, 10)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRecommendCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := gen.NewMockbookRepository(ctrl)
	ml := gen.NewMockmlGateway(ctrl)
	ctx, cancel := context.WithCancel(context.Background())
	repo.EXPECT().UserExists(gomock.Any(), int64(1)).Return(true, nil)
	ml.EXPECT().UserRecommendations(gomock.Any(), int64(1), 10).DoAndReturn(
		func(ctx context.Context, _ int64, _ int) ([]model.ScoredBook, error) {
			cancel()
			return nil, ctx.Err()
		})
	c := newController(repo, ml)

	_, err := c.Recommend(ctx, 1, 10)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimilar(t *testing.T) {
	store, res := testutil.NewScenarioStore(t)
	target := res.Books["A"]

	t.Run("unknown book", func(t *testing.T) {
		c := newController(store, nil)
		_, err := c.Similar(context.Background(), 9999, 5)
		assert.ErrorIs(t, err, ErrBookNotFound)
	})

	t.Run("fallback to country and author", func(t *testing.T) {
		c := newController(store, nil)
		got, err := c.Similar(context.Background(), target, 0)
		require.NoError(t, err)
		assert.True(t, got.Fallback)
		assert.Equal(t, []string{"G", "F", "C"}, bookKeys(t, res, got.Books))
	})

	t.Run("ml result without the target", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		ml := gen.NewMockmlGateway(ctrl)
		ml.EXPECT().SimilarBooks(gomock.Any(), target, 6).Return([]model.ScoredBook{
			{BookID: target}, {BookID: res.Books["D"]}, {BookID: res.Books["F"]},
		}, nil)
		c := newController(store, ml)

		got, err := c.Similar(context.Background(), target, 5)
		require.NoError(t, err)
		assert.False(t, got.Fallback)
		assert.Equal(t, []string{"D", "F"}, bookKeys(t, res, got.Books))
	})

	t.Run("ml failure uses fallback", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		ml := gen.NewMockmlGateway(ctrl)
		ml.EXPECT().SimilarBooks(gomock.Any(), target, 3).Return(nil, gateway.ErrUnavailable)
		c := newController(store, ml)

		got, err := c.Similar(context.Background(), target, 2)
		require.NoError(t, err)
		assert.True(t, got.Fallback)
		assert.Equal(t, []string{"G", "F"}, bookKeys(t, res, got.Books))
	})
}

func TestTrending(t *testing.T) {
	store, res := testutil.NewScenarioStore(t)

	t.Run("fallback ranking", func(t *testing.T) {
		c := newController(store, nil)
		got, err := c.Trending(context.Background(), 0, 0)
		require.NoError(t, err)
		assert.Equal(t, model.StrategyFallbackTrending, got.Strategy)
		assert.Equal(t, DefaultWindowDays, got.PeriodDays)
		assert.Equal(t, []string{"E", "A", "F", "C", "D"}, bookKeys(t, res, got.Books))
	})

	t.Run("ml ranking with clamped window", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		ml := gen.NewMockmlGateway(ctrl)
		ml.EXPECT().TrendingBooks(gomock.Any(), 3, MaxWindowDays).Return([]model.ScoredBook{
			{BookID: res.Books["D"]}, {BookID: res.Books["B"]},
		}, nil)
		c := newController(store, ml)

		got, err := c.Trending(context.Background(), 3, 5000)
		require.NoError(t, err)
		assert.Equal(t, model.StrategyTrending, got.Strategy)
		assert.Equal(t, MaxWindowDays, got.PeriodDays)
		assert.Equal(t, []string{"D", "B"}, bookKeys(t, res, got.Books))
	})

	t.Run("persistence failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := gen.NewMockbookRepository(ctrl)
		repo.EXPECT().TrendingBooks(gomock.Any(), 10).Return(nil, errors.New("boom"))
		c := newController(repo, nil)

		_, err := c.Trending(context.Background(), 10, 7)
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestTrain(t *testing.T) {
	c := newController(nil, nil)
	_, err := c.Train(context.Background())
	assert.ErrorIs(t, err, ErrMLDisabled)

	ctrl := gomock.NewController(t)
	ml := gen.NewMockmlGateway(ctrl)
	ml.EXPECT().Train(gomock.Any()).Return(&model.TrainResult{Message: "ok"}, nil)
	c = newController(nil, ml)
	got, err := c.Train(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", got.Message)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 10, clamp(0, 10, 100))
	assert.Equal(t, 1, clamp(-4, 10, 100))
	assert.Equal(t, 100, clamp(101, 10, 100))
	assert.Equal(t, 42, clamp(42, 10, 100))
}
