package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/op47/clipchat/internal/common"
	"github.com/op47/clipchat/internal/server/models"
)

type clipResponse struct {
	ID          int64  `json:"id"`
	CreatedAt   string `json:"created_at"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Channel     string `json:"channel"`
	CreatorName string `json:"creator_name"`
}

func toClipResponse(c *models.Clip) clipResponse {
	return clipResponse{
		ID:          c.ID,
		CreatedAt:   c.CreatedAt.Format("2006-01-02"),
		URL:         c.URL,
		Title:       c.Title,
		Channel:     c.Channel,
		CreatorName: c.CreatorName,
	}
}

type insertClipRequest struct {
	URL    string `json:"url"`
	Author string `json:"author"`
}

func (s *Server) handleInsertClip(w http.ResponseWriter, r *http.Request) {
	var req insertClipRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	// Attribute the clip to the caller unless an author was given.
	if req.Author == "" {
		if user, ok := UserFromContext(r.Context()); ok {
			req.Author = user.Username
		}
	}

	clip, err := s.clips.InsertFromURL(r.Context(), req.URL, req.Author)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toClipResponse(clip))
}

type removeClipRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleRemoveClip(w http.ResponseWriter, r *http.Request) {
	var req removeClipRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := s.clips.RemoveByURL(r.Context(), req.URL); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (s *Server) handleClipsByDate(w http.ResponseWriter, r *http.Request) {
	clips, err := s.clips.ListByDate(r.Context(), mux.Vars(r)["date"])
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]clipResponse, 0, len(clips))
	for _, c := range clips {
		out = append(out, toClipResponse(c))
	}

	writeJSON(w, http.StatusOK, out)
}

func clipIDVar(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: clip id must be numeric", common.ErrorValidation)
	}
	return id, nil
}

func (s *Server) handleClipUploadURL(w http.ResponseWriter, r *http.Request) {
	id, err := clipIDVar(r)
	if err != nil {
		writeError(w, err)
		return
	}

	url, err := s.clips.CreateUploadURL(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, urlResponse{URL: url})
}

func (s *Server) handleClipDownloadURL(w http.ResponseWriter, r *http.Request) {
	id, err := clipIDVar(r)
	if err != nil {
		writeError(w, err)
		return
	}

	url, err := s.clips.GetDownloadURL(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, urlResponse{URL: url})
}
