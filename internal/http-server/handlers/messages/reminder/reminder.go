package reminder

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

type ReminderScheduler interface {
	ScheduleAppointmentReminder(ctx context.Context, req *api.ReminderRequest) (*api.MessageResponse, error)
}

type Request struct {
	api.ReminderRequest
}

type Response struct {
	response.Response
	Message api.MessageResponse `json:"message,omitempty"`
}

func New(log *slog.Logger, scheduler ReminderScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.messages.reminder.New"

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

		if req.PatientID == "" {
			log.Error("patient_id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "patient_id is required"))
			return
		}

		message, err := scheduler.ScheduleAppointmentReminder(r.Context(), &req.ReminderRequest)

		if errors.Is(err, response.ErrInvalidInput) {
			log.Error("invalid reminder request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "invalid reminder request"))
			return
		}

		if err != nil {
			log.Error("Failed to schedule reminder", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to schedule reminder"))
			return
		}

		log.Info("Reminder scheduled", slog.String("message_id", message.MessageID))

		w.WriteHeader(http.StatusCreated)
		responseOK(w, r, message)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, message *api.MessageResponse) {
	render.JSON(w, r, Response{
		Message: *message,
	})
}
