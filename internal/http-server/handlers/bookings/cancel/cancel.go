package cancel

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

type AppointmentCanceller interface {
	CancelAppointment(ctx context.Context, req *api.CancelRequest) (*api.CancelResponse, error)
}

type Request struct {
	api.CancelRequest
}

type Response struct {
	response.Response
	Cancel api.CancelResponse `json:"cancel,omitempty"`
}

func New(log *slog.Logger, canceller AppointmentCanceller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.bookings.cancel.New"

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

		if req.DoctorID == "" {
			log.Error("doctor_id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "doctor_id is required"))
			return
		}

		cancel, err := canceller.CancelAppointment(r.Context(), &req.CancelRequest)

		if errors.Is(err, response.ErrInvalidInput) {
			log.Error("invalid cancel request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "invalid cancel request"))
			return
		}

		if errors.Is(err, response.ErrRecordStore) {
			log.Error("record store failed", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error(string(response.RECORD_STORE), "record store request failed"))
			return
		}

		if err != nil {
			log.Error("Failed to cancel appointment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to cancel appointment"))
			return
		}

		if !cancel.Freed {
			log.Info("Nothing to cancel", slog.String("doctor_id", req.DoctorID), slog.String("start_time", req.StartTime))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "no booked slot at that time"))
			return
		}

		log.Info("Appointment cancelled", slog.Any("cancel", cancel))
		responseOK(w, r, cancel)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, cancel *api.CancelResponse) {
	render.JSON(w, r, Response{
		Cancel: *cancel,
	})
}
