package http

import (
	"encoding/json"
	"net/http"

	"loan-advisor/domain"
	"loan-advisor/service"
)

type ChatHandler struct {
	service *service.ChatService
}

func NewChatHandler(service *service.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

// Chat handles one conversational turn. An unknown or expired session id
// is not an error; the reply carries the id to use next.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req domain.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	reply := h.service.HandleMessage(r.Context(), req)
	writeJSON(w, http.StatusOK, reply)
}
