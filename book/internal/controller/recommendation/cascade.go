package recommendation

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"taletrail/book/pkg/model"
	"taletrail/pkg/logging"
)

// errSkipped marks a stage that does not apply to the request.
var errSkipped = errors.New("stage skipped")

// stage is one step of the recommendation cascade.
type stage struct {
	strategy model.Strategy
	// persistent stages count towards ErrUnavailable when they fail.
	persistent bool
	run        func(ctx context.Context, req *request) ([]model.Book, error)
}

// request carries the per-call state shared by the stages.
type request struct {
	userID int64
	limit  int
	repo   bookRepository

	favoritesLoaded bool
	favorites       []int64
	favoritesErr    error
}

// favoriteIDs loads the user's favorites once per request.
func (r *request) favoriteIDs(ctx context.Context) ([]int64, error) {
	if !r.favoritesLoaded {
		r.favorites, r.favoritesErr = r.repo.FavoriteBookIDs(ctx, r.userID)
		r.favoritesLoaded = true
	}
	return r.favorites, r.favoritesErr
}

func (c *Controller) stages() []stage {
	return []stage{
		{strategy: model.StrategyMLPersonalized, run: c.mlPersonalized},
		{strategy: model.StrategyGenreBased, persistent: true, run: withFavorites(c.repo.GenreOverlapBooks)},
		{strategy: model.StrategySimilarToFavorites, persistent: true, run: withFavorites(c.repo.FavoriteOverlapBooks)},
		{strategy: model.StrategyPopular, persistent: true, run: c.popular},
	}
}

// cascade runs the stages in order and returns the first non-empty result.
// The popularity stage is terminal: its result is returned even when empty.
func (c *Controller) cascade(ctx context.Context, req *request) (model.Strategy, []model.Book, error) {
	attempted, failed := 0, 0
	// answered is the last stage that ran without error.
	var answered model.Strategy
	for _, s := range c.stages() {
		if err := ctx.Err(); err != nil {
			return "", nil, err
		}
		books, err := s.run(ctx, req)
		if errors.Is(err, errSkipped) {
			continue
		}
		if s.persistent {
			attempted++
		}
		if err != nil {
			if s.persistent {
				failed++
			}
			c.logFailure(ctx, string(s.strategy), err, zap.Int64(logging.FieldUserID, req.userID))
			continue
		}
		answered = s.strategy
		if len(books) > 0 || s.strategy == model.StrategyPopular {
			return s.strategy, books, nil
		}
		c.logger.Debug("Recommendation stage returned no books",
			zap.String(logging.FieldStrategy, string(s.strategy)),
			zap.Int64(logging.FieldUserID, req.userID),
		)
	}
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	if attempted > 0 && attempted == failed {
		return "", nil, ErrUnavailable
	}
	if answered == "" {
		answered = model.StrategyPopular
	}
	c.logger.Warn("Recommendation cascade ended without books",
		zap.String(logging.FieldStrategy, string(answered)),
		zap.Int64(logging.FieldUserID, req.userID),
	)
	return answered, []model.Book{}, nil
}

func (c *Controller) mlPersonalized(ctx context.Context, req *request) ([]model.Book, error) {
	if c.ml == nil {
		return nil, errSkipped
	}
	return c.fromML(ctx, 0, req.limit, func(ctx context.Context) ([]model.ScoredBook, error) {
		return c.ml.UserRecommendations(ctx, req.userID, req.limit)
	})
}

// withFavorites runs a favorites based query, skipped for users without favorites.
func withFavorites(query func(ctx context.Context, userID int64, limit int) ([]model.Book, error)) func(context.Context, *request) ([]model.Book, error) {
	return func(ctx context.Context, req *request) ([]model.Book, error) {
		favs, err := req.favoriteIDs(ctx)
		if err != nil {
			return nil, err
		}
		if len(favs) == 0 {
			return nil, errSkipped
		}
		return query(ctx, req.userID, req.limit)
	}
}

func (c *Controller) popular(ctx context.Context, req *request) ([]model.Book, error) {
	return c.repo.PopularBooks(ctx, req.userID, req.limit)
}
