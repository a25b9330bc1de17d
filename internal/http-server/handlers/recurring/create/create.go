package create

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

type RecurringCreator interface {
	CreateRecurringAppointment(ctx context.Context, req *api.RecurringRequest) (*api.RecurringResponse, error)
}

type Request struct {
	api.RecurringRequest
}

type Response struct {
	response.Response
	Recurring api.RecurringResponse `json:"recurring,omitempty"`
}

func New(log *slog.Logger, creator RecurringCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.recurring.create.New"

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

		if req.PatientID == "" {
			log.Error("patient_id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "patient_id is required"))
			return
		}

		recurring, err := creator.CreateRecurringAppointment(r.Context(), &req.RecurringRequest)

		if errors.Is(err, response.ErrInvalidInput) {
			log.Error("invalid recurring request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "invalid recurring request"))
			return
		}

		if err != nil {
			log.Error("Failed to create recurring appointment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create recurring appointment"))
			return
		}

		log.Info("Recurring series created",
			slog.Int("created", recurring.Created),
			slog.Int("skipped", recurring.Skipped),
		)

		w.WriteHeader(http.StatusCreated)
		responseOK(w, r, recurring)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, recurring *api.RecurringResponse) {
	render.JSON(w, r, Response{
		Recurring: *recurring,
	})
}
