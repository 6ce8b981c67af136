package httpapi

import (
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"submission_service/internal/domain"
	"submission_service/internal/errdefs"
	"submission_service/internal/service"
)

const maxUploadSize = 32 << 20 // 32 MB

type SubmissionHandler struct {
	submissions service.SubmissionServiceInterface
}

func NewSubmissionHandler(submissions service.SubmissionServiceInterface) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

func (h *SubmissionHandler) RegisterRoutes(r chi.Router) {
	r.Post("/submissions", h.Submit)
	r.Put("/submissions/{id}", h.Resubmit)
	r.Delete("/submissions/{id}", h.Withdraw)
	r.Get("/submissions", h.List)
	r.Get("/submissions/{id}/file", h.Download)
}

// uploadedFile extracts the multipart "file" part plus its client-declared
// name and content type.
func uploadedFile(r *http.Request) (fileName, contentType string, file multipart.File, err error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return "", "", nil, fmt.Errorf("%w: malformed multipart body", errdefs.ErrValidation)
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		return "", "", nil, fmt.Errorf("%w: missing file part", errdefs.ErrValidation)
	}

	contentType = header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	} else if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = parsed
	}

	return header.Filename, contentType, f, nil
}

func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	taskID, err := formInt64(r, "task_id")
	if err != nil {
		writeError(w, fmt.Errorf("%w: task_id", errdefs.ErrValidation))
		return
	}
	studentID, err := formInt64(r, "student_id")
	if err != nil {
		writeError(w, fmt.Errorf("%w: student_id", errdefs.ErrValidation))
		return
	}

	fileName, contentType, file, err := uploadedFile(r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer func() { _ = file.Close() }()

	submission, err := h.submissions.Submit(r.Context(), taskID, studentID, fileName, contentType, file)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, submission)
}

func (h *SubmissionHandler) Resubmit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	fileName, contentType, file, err := uploadedFile(r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer func() { _ = file.Close() }()

	submission, err := h.submissions.Resubmit(r.Context(), id, fileName, contentType, file)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, submission)
}

func (h *SubmissionHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.submissions.Withdraw(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "withdrawn"})
}

func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	taskID, err := queryInt64(r, "task_id")
	if err != nil {
		writeError(w, fmt.Errorf("%w: task_id", errdefs.ErrValidation))
		return
	}

	var submissions []*domain.Submission
	if taskID != 0 {
		submissions, err = h.submissions.ListByTask(r.Context(), taskID)
	} else {
		submissions, err = h.submissions.List(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if submissions == nil {
		submissions = []*domain.Submission{}
	}

	writeJSON(w, http.StatusOK, submissions)
}

func (h *SubmissionHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.submissions.Fetch(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	// ?inline=1 serves the file for in-browser viewing instead of download.
	disposition := "attachment"
	if r.URL.Query().Get("inline") == "1" {
		disposition = "inline"
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, result.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Content)
}
