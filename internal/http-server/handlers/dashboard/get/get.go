package get

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

type DashboardGetter interface {
	GetDoctorDashboard(ctx context.Context, doctorID string) (*api.DashboardResponse, error)
}

type Response struct {
	response.Response
	Dashboard api.DashboardResponse `json:"dashboard,omitempty"`
}

func New(log *slog.Logger, getter DashboardGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.dashboard.get.New"

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

		dashboard, err := getter.GetDoctorDashboard(r.Context(), doctorID)

		if errors.Is(err, response.ErrRecordStore) {
			log.Error("record store failed", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error(string(response.RECORD_STORE), "record store request failed"))
			return
		}

		if err != nil {
			log.Error("Failed to get dashboard", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get dashboard"))
			return
		}

		log.Info("Dashboard retrieved",
			slog.String("doctor_id", doctorID),
			slog.Int("today", len(dashboard.TodayAppointments)),
			slog.Int("upcoming", len(dashboard.UpcomingAppointments)),
		)

		responseOK(w, r, dashboard)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, dashboard *api.DashboardResponse) {
	render.JSON(w, r, Response{
		Dashboard: *dashboard,
	})
}
