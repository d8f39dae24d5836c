package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/op47/clipchat/internal/server/models"
)

type wikiPageResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func toWikiPageResponse(p *models.WikiPage) wikiPageResponse {
	return wikiPageResponse{ID: p.ID, Title: p.Title, Content: p.Content, CreatedAt: p.CreatedAt}
}

func (s *Server) handleWikiTitles(w http.ResponseWriter, r *http.Request) {
	titles, err := s.wiki.ListTitles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, titles)
}

func (s *Server) handleWikiPage(w http.ResponseWriter, r *http.Request) {
	title := mux.Vars(r)["title"]

	page, err := s.wiki.GetPage(r.Context(), title)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toWikiPageResponse(page))
}

type wikiCreateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (s *Server) handleWikiCreate(w http.ResponseWriter, r *http.Request) {
	var req wikiCreateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	page, err := s.wiki.CreatePage(r.Context(), req.Title, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toWikiPageResponse(page))
}
