package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"submission_service/internal/service"
	"submission_service/pkg/logger"
)

func NewRouter(
	submissions service.SubmissionServiceInterface,
	records service.RecordServiceInterface,
	log *logger.Logger,
) chi.Router {
	r := chi.NewRouter()
	r.Use(NewLoggingMiddleware(log))
	r.Use(func(next http.Handler) http.Handler {
		return http.MaxBytesHandler(next, maxUploadSize)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	NewSubmissionHandler(submissions).RegisterRoutes(r)
	NewRecordHandler(records).RegisterRoutes(r)

	return r
}
