package httpapi_test

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"submission_service/internal/pool"
	"submission_service/internal/repository"
	"submission_service/internal/server/httpapi"
	"submission_service/internal/service"
)

// The record surface is mechanical pass-through, so it is tested end to end:
// real service and repositories over a mocked database.
func newRecordRouter(t *testing.T) (chi.Router, sqlmock.Sqlmock) {
	t.Helper()

	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, dbMock.ExpectationsWereMet())
		_ = db.Close()
	})

	records := service.NewRecordService(
		pool.New(db, 2),
		repository.NewUserRepository(),
		repository.NewTeacherRepository(),
		repository.NewStudentRepository(),
		repository.NewClassRepository(),
		repository.NewTaskRepository(),
		repository.NewStatusChangeRepository(),
	)

	r := chi.NewRouter()
	httpapi.NewRecordHandler(records).RegisterRoutes(r)
	return r, dbMock
}

func TestCreateUserReturnsCreated(t *testing.T) {
	router, dbMock := newRecordRouter(t)

	dbMock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (dni, password, role)")).
		WithArgs("12345678A", "secret", "student").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	req := httptest.NewRequest(http.MethodPost, "/users/",
		strings.NewReader(`{"dni":"12345678A","password":"secret","role":"student"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":1`)
}

func TestCreateUserMalformedBody(t *testing.T) {
	router, _ := newRecordRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/users/", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUserNotFound(t *testing.T) {
	router, dbMock := newRecordRouter(t)

	dbMock.ExpectQuery(regexp.QuoteMeta("SELECT id, dni, password, role FROM users WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "dni", "password", "role"}))

	req := httptest.NewRequest(http.MethodGet, "/users/99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteClassNotFound(t *testing.T) {
	router, dbMock := newRecordRouter(t)

	dbMock.ExpectExec(regexp.QuoteMeta("DELETE FROM classes WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	req := httptest.NewRequest(http.MethodDelete, "/classes/5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateTaskForClassReturnsCount(t *testing.T) {
	router, dbMock := newRecordRouter(t)

	dbMock.ExpectBegin()
	dbMock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM students WHERE class_id = $1")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)).AddRow(int64(11)))
	dbMock.ExpectExec(regexp.QuoteMeta("INSERT INTO tasks")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	dbMock.ExpectExec(regexp.QuoteMeta("INSERT INTO tasks")).
		WillReturnResult(sqlmock.NewResult(2, 1))
	dbMock.ExpectCommit()

	req := httptest.NewRequest(http.MethodPost, "/tasks/bulk",
		strings.NewReader(`{"name":"Reading log","instructions":"Summarize chapter 3","due_date":"2026-04-01T00:00:00Z","class_id":2,"status":"pending"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"created":2}`, rec.Body.String())
}

func TestListTasksForwardsFilter(t *testing.T) {
	router, dbMock := newRecordRouter(t)

	dbMock.ExpectQuery(regexp.QuoteMeta("AND student_id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "instructions", "due_date", "class_id", "student_id", "status"}))

	req := httptest.NewRequest(http.MethodGet, "/tasks/?student_id=3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestAppendStatusChangeRequiresStatus(t *testing.T) {
	router, _ := newRecordRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/status-changes/",
		strings.NewReader(`{"task_id":7,"status":""}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAppendStatusChangeRecordsManualLabel(t *testing.T) {
	router, dbMock := newRecordRouter(t)

	dbMock.ExpectExec(regexp.QuoteMeta("INSERT INTO status_changes (task_id, status, changed_at)")).
		WithArgs(int64(7), "graded", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	req := httptest.NewRequest(http.MethodPost, "/status-changes/",
		strings.NewReader(`{"task_id":7,"status":"graded"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
}
