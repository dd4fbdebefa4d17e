package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/oggyb/mollie-sms/internal/request"
	"github.com/oggyb/mollie-sms/internal/response"
	"github.com/oggyb/mollie-sms/internal/scheduler"
	"github.com/oggyb/mollie-sms/internal/service"
)

// MessageHandler wires HTTP endpoints to the message service
// and the background scheduler.
type MessageHandler struct {
	msgSvc service.MessageService
	schSvc scheduler.SchedulerService
}

// NewMessageHandler constructs a new MessageHandler with its dependencies.
func NewMessageHandler(msgSvc service.MessageService, schSvc scheduler.SchedulerService) *MessageHandler {
	return &MessageHandler{
		msgSvc: msgSvc,
		schSvc: schSvc,
	}
}

// StartStopScheduler godoc
// @Summary     Control scheduler
// @Description Starts or stops the background scheduler based on the given action.
// @Tags        scheduler
// @Accept      json
// @Produce     json
// @Param       request body request.SchedulerRequest true "Scheduler action (start|stop)"
// @Success     200 {object} response.SchedulerControlResponse
// @Failure     400 {object} response.ErrorResponse
// @Router      /scheduler [post]
func (h *MessageHandler) StartStopScheduler(w http.ResponseWriter, r *http.Request) {
	var req request.SchedulerRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var (
		err error
		msg string
	)
	switch req.Action {
	case "start":
		err = h.schSvc.Start()
		msg = "scheduler started"
	case "stop":
		err = h.schSvc.Stop()
		msg = "scheduler stopped"
	default:
		response.RespondError(w, http.StatusBadRequest, "action must be 'start' or 'stop'")
		return
	}

	if err != nil {
		response.RespondError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, response.SchedulerControlPayload{Message: msg})
}

// CreateMessage godoc
// @Summary     Queue a message
// @Description Stores an SMS for delivery on the next batch. With deliverAt the gateway holds it until then.
// @Tags        messages
// @Accept      json
// @Produce     json
// @Param       request body request.CreateMessageRequest true "Message to send"
// @Success     201 {object} response.MessageResponse
// @Failure     400 {object} response.ErrorResponse
// @Failure     409 {object} response.ErrorResponse
// @Failure     500 {object} response.ErrorResponse
// @Router      /messages [post]
func (h *MessageHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	var req request.CreateMessageRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	in := service.CreateInput{
		To:        req.To,
		Content:   req.Content,
		Reference: req.Reference,
	}
	if req.DeliverAt != "" {
		at, err := time.Parse(time.RFC3339, req.DeliverAt)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "deliverAt must be an RFC 3339 timestamp")
			return
		}
		in.DeliverAt = &at
	}

	msg, err := h.msgSvc.Create(r.Context(), in)
	if err != nil {
		response.RespondFailure(w, statusFor(err), err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, response.FromDomainMessage(msg))
}

// CancelMessage godoc
// @Summary     Cancel a scheduled message
// @Description Asks the gateway to drop a scheduled message that has not been delivered yet.
// @Tags        messages
// @Produce     json
// @Param       reference path string true "Reference given when the message was scheduled"
// @Success     200 {object} response.MessageResponse
// @Failure     400 {object} response.ErrorResponse
// @Failure     404 {object} response.ErrorResponse
// @Failure     409 {object} response.ErrorResponse
// @Failure     502 {object} response.ErrorResponse
// @Router      /messages/{reference}/cancel [post]
func (h *MessageHandler) CancelMessage(w http.ResponseWriter, r *http.Request) {
	msg, err := h.msgSvc.Cancel(r.Context(), r.PathValue("reference"))
	if err != nil {
		response.RespondFailure(w, statusFor(err), err)
		return
	}

	response.RespondJSON(w, http.StatusOK, response.FromDomainMessage(msg))
}

// GetSentMessages godoc
// @Summary     List sent messages
// @Description Returns a paginated list of messages the gateway accepted.
// @Tags        messages
// @Produce     json
// @Param       page  query int false "Page number"         default(1)
// @Param       limit query int false "Page size (max 100)" default(20)
// @Success     200 {object} response.SentMessagesResponse
// @Failure     500 {object} response.ErrorResponse
// @Router      /messages/sent [get]
func (h *MessageHandler) GetSentMessages(w http.ResponseWriter, r *http.Request) {
	pageStr := r.URL.Query().Get("page")
	limitStr := r.URL.Query().Get("limit")

	page := 1
	limit := 20

	if v, err := strconv.Atoi(pageStr); err == nil && v > 0 {
		page = v
	}

	if v, err := strconv.Atoi(limitStr); err == nil && v > 0 && v <= 100 {
		limit = v
	}

	items, total, err := h.msgSvc.GetSent(r.Context(), page, limit)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	payload := response.SentMessagesPayload{
		Items: response.FromDomainMessages(items),
		Total: total,
		Page:  page,
		Limit: limit,
	}

	response.RespondJSON(w, http.StatusOK, payload)
}
