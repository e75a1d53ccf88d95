package model

// Strategy names the stage of the recommendation cascade that produced a result.
type Strategy string

// Recommendation strategies.
const (
	StrategyMLPersonalized     = Strategy("ml_personalized")
	StrategyGenreBased         = Strategy("genre_based")
	StrategySimilarToFavorites = Strategy("similar_to_favorites")
	StrategyPopular            = Strategy("popular")
	StrategyTrending           = Strategy("trending")
	StrategyFallbackTrending   = Strategy("fallback_trending")
)

// Recommendations is the ordered result of a personalised recommendation request.
type Recommendations struct {
	UserID   int64
	Strategy Strategy
	Books    []Book
}

// SimilarBooks lists books similar to a given book.
type SimilarBooks struct {
	BookID   int64
	Books    []Book
	Fallback bool
}

// TrendingBooks lists the currently trending books.
type TrendingBooks struct {
	Strategy   Strategy
	PeriodDays int
	Books      []Book
}

// TrainResult is the ML service answer to a retraining request.
type TrainResult struct {
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ScoredBook is a book id ranked by the ML service.
type ScoredBook struct {
	BookID int64
	Score  float64
}
