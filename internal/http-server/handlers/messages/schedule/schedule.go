package schedule

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"hemam-service/api"
	"hemam-service/pkg/response"
	"hemam-service/pkg/sl"
)

type MessageScheduler interface {
	ScheduleMessage(ctx context.Context, req *api.MessageRequest) (*api.MessageResponse, error)
}

type Request struct {
	api.MessageRequest
}

type Response struct {
	response.Response
	Message api.MessageResponse `json:"message,omitempty"`
}

func New(log *slog.Logger, scheduler MessageScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.messages.schedule.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		log.Info("Request body decoded", slog.Any("request", req))

		if req.Recipient == "" {
			log.Error("recipient is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "recipient is required"))
			return
		}

		message, err := scheduler.ScheduleMessage(r.Context(), &req.MessageRequest)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("template not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "template not found"))
			return
		}

		if errors.Is(err, response.ErrInvalidInput) {
			log.Error("invalid message request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "invalid message request"))
			return
		}

		if err != nil {
			log.Error("Failed to schedule message", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to schedule message"))
			return
		}

		log.Info("Message scheduled", slog.String("message_id", message.MessageID))

		w.WriteHeader(http.StatusCreated)
		responseOK(w, r, message)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, message *api.MessageResponse) {
	render.JSON(w, r, Response{
		Message: *message,
	})
}
