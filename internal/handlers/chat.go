package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"tutormind-backend/internal/middleware"
	"tutormind-backend/internal/models"
	"tutormind-backend/internal/profile"
	"tutormind-backend/internal/stream"
	"tutormind-backend/internal/tutor"
)

// ChatHandler serves the tutoring conversation endpoints. The Socratic
// endpoints additionally fold each exchange into the student's learning
// profile; the direct endpoints are plain transcript Q&A.
type ChatHandler struct {
	generator *tutor.Generator
	relay     *stream.Relay
	store     profile.Store
	updater   *profile.Updater
}

func NewChatHandler(generator *tutor.Generator, relay *stream.Relay, store profile.Store, updater *profile.Updater) *ChatHandler {
	return &ChatHandler{
		generator: generator,
		relay:     relay,
		store:     store,
		updater:   updater,
	}
}

func (h *ChatHandler) decodeChatRequest(w http.ResponseWriter, r *http.Request) (*models.ChatRequest, bool) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return nil, false
	}
	if len(req.Messages) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Messages are required", r))
		return nil, false
	}

	if req.UserID == "" {
		req.UserID = middleware.GetUserID(r.Context())
	}
	return &req, true
}

// adaptProfile extracts style signals from the conversation, blends them into
// the stored profile and persists the result for identified students. The
// updated profile drives persona selection for this very reply. Profile
// failures never fail the chat: the reply is the product, adaptation is
// best-effort.
func (h *ChatHandler) adaptProfile(ctx context.Context, req *models.ChatRequest) *models.LearningStyleProfile {
	current, err := h.store.GetProfile(ctx, req.UserID)
	if err != nil {
		log.Printf("profile load failed for %q: %v", req.UserID, err)
		current = nil
	}
	if current == nil {
		current = models.NewLearningStyleProfile()
	}

	// Style and knowledge extraction reads the full exchange, assistant
	// turns included: the tutor's own phrasing is part of what the student
	// engaged with.
	history := messageTexts(req.Messages)
	fresh := profile.ExtractLearningStyles(history)
	ks := profile.UpdateKnowledgeTrace(history)

	if err := h.updater.Apply(ctx, req.UserID, current, fresh, ks, req.Messages); err != nil {
		log.Printf("profile update failed for %q: %v", req.UserID, err)
	}
	return current
}

func messageTexts(msgs []models.ChatMessage) []string {
	texts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		texts = append(texts, m.Content)
	}
	return texts
}

// Chat answers in a single response, adapting the persona to the student's
// dominant learning style from the profile updated this turn.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeChatRequest(w, r)
	if !ok {
		return
	}

	p := h.adaptProfile(r.Context(), req)
	reply := h.generator.Reply(r.Context(), tutor.ModeAdaptive, req.Transcript, req.Messages, p)
	writeJSON(w, http.StatusOK, models.ChatResponse{Message: reply})
}

// ChatStream streams through the Socratic persona; the profile still adapts
// on every turn.
func (h *ChatHandler) ChatStream(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeChatRequest(w, r)
	if !ok {
		return
	}

	p := h.adaptProfile(r.Context(), req)
	h.streamReply(w, r, tutor.ModeSocratic, req, p)
}

// ChatDirect answers factually from the transcript without Socratic
// scaffolding or profile adaptation.
func (h *ChatHandler) ChatDirect(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeChatRequest(w, r)
	if !ok {
		return
	}

	reply := h.generator.Reply(r.Context(), tutor.ModeDirect, req.Transcript, req.Messages, nil)
	writeJSON(w, http.StatusOK, models.ChatResponse{Message: reply})
}

// ChatDirectStream is the streaming variant of ChatDirect.
func (h *ChatHandler) ChatDirectStream(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeChatRequest(w, r)
	if !ok {
		return
	}

	h.streamReply(w, r, tutor.ModeDirect, req, nil)
}

func (h *ChatHandler) streamReply(w http.ResponseWriter, r *http.Request, mode tutor.Mode, req *models.ChatRequest, p *models.LearningStyleProfile) {
	sseHeaders(w)

	src, live, err := h.generator.OpenStream(r.Context(), mode, req.Transcript, req.Messages, p)
	if !live {
		h.relay.PipeMock(r.Context(), w, h.generator.MockReply(mode))
		return
	}
	if err != nil {
		// Same contract as a mid-stream failure: apology chunks, then done.
		h.relay.PipeMock(r.Context(), w, apologyFor(err))
		return
	}

	h.relay.Pipe(r.Context(), w, src)
}

func apologyFor(err error) string {
	return "I'm having trouble processing your question. Could you try asking in a different way? (Error: " + err.Error() + ")"
}
