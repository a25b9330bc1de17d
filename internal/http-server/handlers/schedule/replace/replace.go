package replace

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"hemam-service/api"
	"hemam-service/pkg/response"
	"hemam-service/pkg/sl"
)

type ScheduleReplacer interface {
	ReplaceSchedule(ctx context.Context, doctorID string, req *api.ScheduleReplaceRequest) (int, error)
}

type Request struct {
	api.ScheduleReplaceRequest
}

type Response struct {
	response.Response
	Count int `json:"count"`
}

func New(log *slog.Logger, replacer ScheduleReplacer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.schedule.replace.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		doctorID := chi.URLParam(r, "doctorId")
		if doctorID == "" {
			log.Error("doctor_id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "doctor_id is required"))
			return
		}

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		log.Info("Request body decoded", slog.Int("slots", len(req.Slots)))

		count, err := replacer.ReplaceSchedule(r.Context(), doctorID, &req.ScheduleReplaceRequest)

		if errors.Is(err, response.ErrInvalidInput) {
			log.Error("invalid slot payload", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "invalid slot payload"))
			return
		}

		if err != nil {
			log.Error("Failed to replace schedule", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to replace schedule"))
			return
		}

		log.Info("Schedule replaced", slog.String("doctor_id", doctorID), slog.Int("count", count))

		render.JSON(w, r, Response{
			Count: count,
		})
	}
}
