package api

import (
	"net/http"
	"time"

	"campusbarter/engine"
	"campusbarter/metrics"
	"campusbarter/objects"
	"campusbarter/rabbit"
)

type createExchangeRequest struct {
	OfferedItemID *string `json:"offered_item_id"`
	Message       string  `json:"message"`
}

type updateStatusRequest struct {
	Action           string `json:"action"`
	MeetupLocationID *int   `json:"meetup_location_id"`
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

type messageResponse struct {
	ID         string    `json:"message_id"`
	ExchangeID string    `json:"exchange_id"`
	SenderID   string    `json:"sender_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

func messageView(message *objects.Message) messageResponse {
	return messageResponse{
		ID:         message.ID,
		ExchangeID: message.ExchangeID,
		SenderID:   message.SenderID,
		Content:    message.Content,
		CreatedAt:  message.CreatedAt,
	}
}

// handleCreateExchange opens a negotiation on the item in the path
func (s *Server) handleCreateExchange(w http.ResponseWriter, r *http.Request, user *objects.User) {
	var req createExchangeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	exchange, err := s.ctx.Engine.Create(user.ID, r.PathValue("id"), req.OfferedItemID, req.Message)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	metrics.RecordExchange("created")
	s.ctx.PublishExchangeEvent(rabbit.EventExchangeCreated, exchange.ID, user.ID)

	view, err := s.ctx.Engine.Detail(user.ID, exchange.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// handleListExchanges lists the caller's exchanges in one role. The role
// query parameter selects the perspective: requester or owner.
func (s *Server) handleListExchanges(w http.ResponseWriter, r *http.Request, user *objects.User) {
	role := r.URL.Query().Get("role")
	if role == "" {
		role = engine.RoleRequester
	}

	entries, err := s.ctx.Engine.ForUser(user.ID, role)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleExchangeDetail(w http.ResponseWriter, r *http.Request, user *objects.User) {
	view, err := s.ctx.Engine.Detail(user.ID, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleUpdateStatus is the owner's accept or reject decision
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request, user *objects.User) {
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	view, err := s.ctx.Engine.UpdateStatus(user.ID, r.PathValue("id"), req.Action, req.MeetupLocationID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	switch req.Action {
	case engine.ActionAccept:
		metrics.RecordExchange("accepted")
		s.ctx.PublishExchangeEvent(rabbit.EventExchangeAccepted, view.ID, user.ID)
	case engine.ActionReject:
		metrics.RecordExchange("rejected")
		s.ctx.PublishExchangeEvent(rabbit.EventExchangeRejected, view.ID, user.ID)
	}

	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleCancelExchange(w http.ResponseWriter, r *http.Request, user *objects.User) {
	view, err := s.ctx.Engine.Cancel(user.ID, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	metrics.RecordExchange("cancelled")
	s.ctx.PublishExchangeEvent(rabbit.EventExchangeCancelled, view.ID, user.ID)
	writeJSON(w, http.StatusOK, view)
}

// handleConfirmExchange records one party's completion confirmation. The
// second confirmation completes the exchange.
func (s *Server) handleConfirmExchange(w http.ResponseWriter, r *http.Request, user *objects.User) {
	view, err := s.ctx.Engine.Confirm(user.ID, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if view.Status == objects.ExchangeStatusCompleted {
		metrics.RecordExchange("completed")
		s.ctx.PublishExchangeEvent(rabbit.EventExchangeCompleted, view.ID, user.ID)
	} else {
		metrics.RecordExchange("confirmed")
	}

	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request, user *objects.User) {
	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	message, err := s.ctx.Engine.SendMessage(user.ID, r.PathValue("id"), req.Content)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	metrics.RecordMessage()
	s.ctx.PublishExchangeEvent(rabbit.EventMessageSent, message.ExchangeID, user.ID)
	writeJSON(w, http.StatusCreated, messageView(message))
}

func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request, user *objects.User) {
	messages, err := s.ctx.Engine.Messages(user.ID, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	views := make([]messageResponse, 0, len(messages))
	for _, message := range messages {
		views = append(views, messageView(message))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleListLocations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctx.Engine.ListLocations())
}
