package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/op47/clipchat/internal/common"
	"github.com/op47/clipchat/internal/server/models"
)

type messageResponse struct {
	ID          int64  `json:"id"`
	Timestamp   int64  `json:"timestamp"`
	Channel     string `json:"channel"`
	User        string `json:"user"`
	Content     string `json:"content"`
	DisplayName string `json:"display_name"`
}

func toMessageResponses(msgs []*models.Message) []messageResponse {
	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageResponse{
			ID:          m.ID,
			Timestamp:   m.Timestamp.UnixMilli(),
			Channel:     m.Channel,
			User:        m.User,
			Content:     m.Content,
			DisplayName: m.DisplayName,
		})
	}
	return out
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.messages.ListRecent(r.Context(), mux.Vars(r)["channel"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMessageResponses(msgs))
}

func (s *Server) handleMessagesSince(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	since, err := strconv.ParseInt(vars["timestamp"], 10, 64)
	if err != nil {
		writeError(w, fmt.Errorf("%w: timestamp must be unix milliseconds", common.ErrorValidation))
		return
	}

	msgs, err := s.messages.ListSince(r.Context(), vars["channel"], since)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMessageResponses(msgs))
}

type insertMessageRequest struct {
	Timestamp   int64  `json:"timestamp"`
	Channel     string `json:"channel"`
	User        string `json:"user"`
	Content     string `json:"content"`
	DisplayName string `json:"display_name"`
}

func (s *Server) handleInsertMessage(w http.ResponseWriter, r *http.Request) {
	var req insertMessageRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	err := s.messages.Insert(r.Context(), req.Timestamp, req.Channel, req.User, req.Content, req.DisplayName)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}
