package notify

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"hemam-service/api"
	"hemam-service/pkg/response"
	"hemam-service/pkg/sl"
)

type FamilyNotifier interface {
	NotifyFamilyMember(ctx context.Context, req *api.FamilyNotifyRequest) (*api.MessageResponse, error)
}

type Request struct {
	api.FamilyNotifyRequest
}

type Response struct {
	response.Response
	Message api.MessageResponse `json:"message,omitempty"`
}

func New(log *slog.Logger, notifier FamilyNotifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.messages.notify.New"

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

		if req.FamilyMemberID == "" {
			log.Error("family_member_id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "family_member_id is required"))
			return
		}

		if req.Content == "" {
			log.Error("content is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "content is required"))
			return
		}

		message, err := notifier.NotifyFamilyMember(r.Context(), &req.FamilyNotifyRequest)

		if err != nil {
			log.Error("Failed to notify family member", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to notify family member"))
			return
		}

		log.Info("Family notification queued", slog.String("message_id", message.MessageID))

		w.WriteHeader(http.StatusCreated)
		responseOK(w, r, message)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, message *api.MessageResponse) {
	render.JSON(w, r, Response{
		Message: *message,
	})
}
