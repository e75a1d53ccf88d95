package http

import (
	"net/http"
)

func (h *Handler) listFavorites(w http.ResponseWriter, req *http.Request) error {
	userID, err := idParam(req, "userId")
	if err != nil {
		return err
	}
	favs, err := h.ctrls.Favorites.List(req.Context(), userID)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, favs)
	return nil
}

func (h *Handler) addFavorite(w http.ResponseWriter, req *http.Request) error {
	userID, bookID, err := userBookParams(req)
	if err != nil {
		return err
	}
	if err := h.ctrls.Favorites.Add(req.Context(), userID, bookID); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *Handler) removeFavorite(w http.ResponseWriter, req *http.Request) error {
	userID, bookID, err := userBookParams(req)
	if err != nil {
		return err
	}
	if err := h.ctrls.Favorites.Remove(req.Context(), userID, bookID); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

type rateRequest struct {
	BookID     int64  `json:"bookId"`
	Rating     int    `json:"rating"`
	ReviewText string `json:"reviewText"`
}

func (h *Handler) rateBook(w http.ResponseWriter, req *http.Request) error {
	userID, err := idParam(req, "userId")
	if err != nil {
		return err
	}
	var body rateRequest
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	summary, err := h.ctrls.Ratings.Rate(req.Context(), userID, body.BookID, body.Rating, body.ReviewText)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, summary)
	return nil
}

func (h *Handler) userRatings(w http.ResponseWriter, req *http.Request) error {
	userID, err := idParam(req, "userId")
	if err != nil {
		return err
	}
	limit, err := intQuery(req, "limit")
	if err != nil {
		return err
	}
	offset, err := intQuery(req, "offset")
	if err != nil {
		return err
	}
	page, err := h.ctrls.Ratings.UserRatings(req.Context(), userID, limit, offset)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, page)
	return nil
}

func (h *Handler) userStats(w http.ResponseWriter, req *http.Request) error {
	userID, err := idParam(req, "userId")
	if err != nil {
		return err
	}
	stats, err := h.ctrls.Ratings.UserStats(req.Context(), userID)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, stats)
	return nil
}

func userBookParams(req *http.Request) (int64, int64, error) {
	userID, err := idParam(req, "userId")
	if err != nil {
		return 0, 0, err
	}
	bookID, err := idParam(req, "bookId")
	if err != nil {
		return 0, 0, err
	}
	return userID, bookID, nil
}
