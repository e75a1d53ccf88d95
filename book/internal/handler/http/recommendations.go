package http

import (
	"net/http"

	"taletrail/book/pkg/model"
)

type recommendationItem struct {
	BookID             int64   `json:"bookId"`
	Title              string  `json:"title"`
	Author             string  `json:"author"`
	Description        string  `json:"description,omitempty"`
	PublicationYear    int     `json:"publicationYear,omitempty"`
	CoverImageURL      string  `json:"coverImageUrl,omitempty"`
	Country            string  `json:"country,omitempty"`
	CountryName        string  `json:"countryName,omitempty"`
	Rating             float64 `json:"rating"`
	RatingCount        int     `json:"ratingCount"`
	RecommendationType string  `json:"recommendationType"`
}

type recommendationsResponse struct {
	UserID             int64                `json:"userId"`
	Recommendations    []recommendationItem `json:"recommendations"`
	RecommendationType string               `json:"recommendationType"`
	Total              int                  `json:"total"`
}

type similarResponse struct {
	BookID       int64                `json:"bookId"`
	SimilarBooks []recommendationItem `json:"similarBooks"`
	Total        int                  `json:"total"`
	Fallback     bool                 `json:"fallback"`
}

type trendingResponse struct {
	TrendingBooks      []recommendationItem `json:"trendingBooks"`
	RecommendationType string               `json:"recommendationType"`
	PeriodDays         int                  `json:"periodDays"`
	Total              int                  `json:"total"`
}

func items(books []model.Book, strategy string) []recommendationItem {
	res := make([]recommendationItem, 0, len(books))
	for _, b := range books {
		res = append(res, recommendationItem{
			BookID:             b.ID,
			Title:              b.Title,
			Author:             b.Author,
			Description:        b.Description,
			PublicationYear:    b.PublicationYear,
			CoverImageURL:      b.CoverImageURL,
			Country:            b.CountryCode,
			CountryName:        b.CountryName,
			Rating:             b.AverageRating,
			RatingCount:        b.RatingCount,
			RecommendationType: strategy,
		})
	}
	return res
}

func (h *Handler) recommend(w http.ResponseWriter, req *http.Request) error {
	userID, err := idParam(req, "userId")
	if err != nil {
		return err
	}
	limit, err := intQuery(req, "limit")
	if err != nil {
		return err
	}
	res, err := h.ctrls.Recommendations.Recommend(req.Context(), userID, limit)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, recommendationsResponse{
		UserID:             res.UserID,
		Recommendations:    items(res.Books, string(res.Strategy)),
		RecommendationType: string(res.Strategy),
		Total:              len(res.Books),
	})
	return nil
}

func (h *Handler) similar(w http.ResponseWriter, req *http.Request) error {
	bookID, err := idParam(req, "bookId")
	if err != nil {
		return err
	}
	limit, err := intQuery(req, "limit")
	if err != nil {
		return err
	}
	res, err := h.ctrls.Recommendations.Similar(req.Context(), bookID, limit)
	if err != nil {
		return err
	}
	strategy := "similar"
	if res.Fallback {
		strategy = "similar_fallback"
	}
	h.writeJSON(w, http.StatusOK, similarResponse{
		BookID:       res.BookID,
		SimilarBooks: items(res.Books, strategy),
		Total:        len(res.Books),
		Fallback:     res.Fallback,
	})
	return nil
}

func (h *Handler) trending(w http.ResponseWriter, req *http.Request) error {
	limit, err := intQuery(req, "limit")
	if err != nil {
		return err
	}
	days, err := intQuery(req, "days")
	if err != nil {
		return err
	}
	res, err := h.ctrls.Recommendations.Trending(req.Context(), limit, days)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, trendingResponse{
		TrendingBooks:      items(res.Books, string(res.Strategy)),
		RecommendationType: string(res.Strategy),
		PeriodDays:         res.PeriodDays,
		Total:              len(res.Books),
	})
	return nil
}

func (h *Handler) train(w http.ResponseWriter, req *http.Request) error {
	res, err := h.ctrls.Recommendations.Train(req.Context())
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, res)
	return nil
}
