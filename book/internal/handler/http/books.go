package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"taletrail/book/pkg/model"
)

func (h *Handler) listBooks(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()
	limit, err := intQuery(req, "limit")
	if err != nil {
		return err
	}
	offset, err := intQuery(req, "offset")
	if err != nil {
		return err
	}
	page, err := h.ctrls.Catalog.ListBooks(req.Context(), model.BookFilter{
		Country: q.Get("country"),
		Author:  q.Get("author"),
		Search:  q.Get("search"),
		Sort:    model.BookSort(q.Get("sort")),
		Order:   model.SortOrder(q.Get("order")),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, page)
	return nil
}

func (h *Handler) trendingBooks(w http.ResponseWriter, req *http.Request) error {
	limit, err := intQuery(req, "limit")
	if err != nil {
		return err
	}
	books, err := h.ctrls.Catalog.Trending(req.Context(), limit)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, booksResponse{Books: books, Total: len(books)})
	return nil
}

func (h *Handler) booksByCountry(w http.ResponseWriter, req *http.Request) error {
	limit, err := intQuery(req, "limit")
	if err != nil {
		return err
	}
	books, err := h.ctrls.Catalog.BooksByCountry(req.Context(), chi.URLParam(req, "code"), limit)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, booksResponse{Books: books, Total: len(books)})
	return nil
}

func (h *Handler) getBook(w http.ResponseWriter, req *http.Request) error {
	id, err := idParam(req, "id")
	if err != nil {
		return err
	}
	details, err := h.ctrls.Catalog.GetBook(req.Context(), id)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, details)
	return nil
}

type assignGenresRequest struct {
	GenreIDs []int64 `json:"genreIds"`
}

func (h *Handler) assignGenres(w http.ResponseWriter, req *http.Request) error {
	id, err := idParam(req, "id")
	if err != nil {
		return err
	}
	var body assignGenresRequest
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	if err := h.ctrls.Catalog.AssignGenres(req.Context(), id, body.GenreIDs); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *Handler) listGenres(w http.ResponseWriter, req *http.Request) error {
	genres, err := h.ctrls.Catalog.ListGenres(req.Context())
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, genres)
	return nil
}

func (h *Handler) listCountries(w http.ResponseWriter, req *http.Request) error {
	countries, err := h.ctrls.Catalog.ListCountries(req.Context())
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, countries)
	return nil
}

func (h *Handler) getCountry(w http.ResponseWriter, req *http.Request) error {
	limit, err := intQuery(req, "limit")
	if err != nil {
		return err
	}
	res, err := h.ctrls.Catalog.GetCountry(req.Context(), chi.URLParam(req, "code"), limit)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, res)
	return nil
}

type booksResponse struct {
	Books []model.Book `json:"books"`
	Total int          `json:"total"`
}
