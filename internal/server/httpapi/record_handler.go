package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"submission_service/internal/domain"
	"submission_service/internal/service"
)

// RecordHandler exposes the plain per-table CRUD surface. No invariants live
// here beyond referential fields supplied by the client.
type RecordHandler struct {
	records service.RecordServiceInterface
}

func NewRecordHandler(records service.RecordServiceInterface) *RecordHandler {
	return &RecordHandler{records: records}
}

func (h *RecordHandler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.CreateUser)
		r.Get("/", h.ListUsers)
		r.Get("/{id}", h.GetUser)
		r.Put("/{id}", h.UpdateUser)
		r.Delete("/{id}", h.DeleteUser)
	})

	r.Route("/teachers", func(r chi.Router) {
		r.Post("/", h.CreateTeacher)
		r.Get("/", h.ListTeachers)
		r.Get("/{id}", h.GetTeacher)
		r.Put("/{id}", h.UpdateTeacher)
		r.Delete("/{id}", h.DeleteTeacher)
	})

	r.Route("/students", func(r chi.Router) {
		r.Post("/", h.CreateStudent)
		r.Get("/", h.ListStudents)
		r.Get("/{id}", h.GetStudent)
		r.Put("/{id}", h.UpdateStudent)
		r.Delete("/{id}", h.DeleteStudent)
	})

	r.Route("/classes", func(r chi.Router) {
		r.Post("/", h.CreateClass)
		r.Get("/", h.ListClasses)
		r.Get("/{id}", h.GetClass)
		r.Put("/{id}", h.UpdateClass)
		r.Delete("/{id}", h.DeleteClass)
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", h.CreateTask)
		r.Post("/bulk", h.CreateTaskForClass)
		r.Get("/", h.ListTasks)
		r.Get("/{id}", h.GetTask)
		r.Put("/{id}", h.UpdateTask)
		r.Delete("/{id}", h.DeleteTask)
	})

	r.Route("/status-changes", func(r chi.Router) {
		r.Get("/", h.ListStatusChanges)
		r.Post("/", h.AppendStatusChange)
	})
}

func (h *RecordHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var user domain.User
	if err := readJSON(r, &user); err != nil {
		writeError(w, err)
		return
	}
	if err := h.records.CreateUser(r.Context(), &user); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *RecordHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	user, err := h.records.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *RecordHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var user domain.User
	if err := readJSON(r, &user); err != nil {
		writeError(w, err)
		return
	}
	user.ID = id
	if err := h.records.UpdateUser(r.Context(), &user); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *RecordHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.records.DeleteUser(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *RecordHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.records.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if users == nil {
		users = []*domain.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *RecordHandler) CreateTeacher(w http.ResponseWriter, r *http.Request) {
	var teacher domain.Teacher
	if err := readJSON(r, &teacher); err != nil {
		writeError(w, err)
		return
	}
	if err := h.records.CreateTeacher(r.Context(), &teacher); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, teacher)
}

func (h *RecordHandler) GetTeacher(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	teacher, err := h.records.GetTeacher(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, teacher)
}

func (h *RecordHandler) UpdateTeacher(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var teacher domain.Teacher
	if err := readJSON(r, &teacher); err != nil {
		writeError(w, err)
		return
	}
	teacher.ID = id
	if err := h.records.UpdateTeacher(r.Context(), &teacher); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, teacher)
}

func (h *RecordHandler) DeleteTeacher(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.records.DeleteTeacher(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *RecordHandler) ListTeachers(w http.ResponseWriter, r *http.Request) {
	teachers, err := h.records.ListTeachers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if teachers == nil {
		teachers = []*domain.Teacher{}
	}
	writeJSON(w, http.StatusOK, teachers)
}

func (h *RecordHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var student domain.Student
	if err := readJSON(r, &student); err != nil {
		writeError(w, err)
		return
	}
	if err := h.records.CreateStudent(r.Context(), &student); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, student)
}

func (h *RecordHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	student, err := h.records.GetStudent(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, student)
}

func (h *RecordHandler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var student domain.Student
	if err := readJSON(r, &student); err != nil {
		writeError(w, err)
		return
	}
	student.ID = id
	if err := h.records.UpdateStudent(r.Context(), &student); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, student)
}

func (h *RecordHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.records.DeleteStudent(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *RecordHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.records.ListStudents(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if students == nil {
		students = []*domain.Student{}
	}
	writeJSON(w, http.StatusOK, students)
}

func (h *RecordHandler) CreateClass(w http.ResponseWriter, r *http.Request) {
	var class domain.Class
	if err := readJSON(r, &class); err != nil {
		writeError(w, err)
		return
	}
	if err := h.records.CreateClass(r.Context(), &class); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, class)
}

func (h *RecordHandler) GetClass(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	class, err := h.records.GetClass(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, class)
}

func (h *RecordHandler) UpdateClass(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var class domain.Class
	if err := readJSON(r, &class); err != nil {
		writeError(w, err)
		return
	}
	class.ID = id
	if err := h.records.UpdateClass(r.Context(), &class); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, class)
}

func (h *RecordHandler) DeleteClass(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.records.DeleteClass(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *RecordHandler) ListClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := h.records.ListClasses(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if classes == nil {
		classes = []*domain.Class{}
	}
	writeJSON(w, http.StatusOK, classes)
}

func (h *RecordHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var task domain.Task
	if err := readJSON(r, &task); err != nil {
		writeError(w, err)
		return
	}
	if err := h.records.CreateTask(r.Context(), &task); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// CreateTaskForClass creates one copy of the posted task for every student of
// the class named in the payload.
func (h *RecordHandler) CreateTaskForClass(w http.ResponseWriter, r *http.Request) {
	var task domain.Task
	if err := readJSON(r, &task); err != nil {
		writeError(w, err)
		return
	}
	created, err := h.records.CreateTaskForClass(r.Context(), &task)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"created": created})
}

func (h *RecordHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	task, err := h.records.GetTask(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *RecordHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var task domain.Task
	if err := readJSON(r, &task); err != nil {
		writeError(w, err)
		return
	}
	task.ID = id
	if err := h.records.UpdateTask(r.Context(), &task); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *RecordHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.records.DeleteTask(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *RecordHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	studentID, err := queryInt64(r, "student_id")
	if err != nil {
		writeError(w, err)
		return
	}
	teacherID, err := queryInt64(r, "teacher_id")
	if err != nil {
		writeError(w, err)
		return
	}
	classID, err := queryInt64(r, "class_id")
	if err != nil {
		writeError(w, err)
		return
	}

	tasks, err := h.records.ListTasks(r.Context(), domain.TaskFilter{
		StudentID: studentID,
		TeacherID: teacherID,
		ClassID:   classID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *RecordHandler) ListStatusChanges(w http.ResponseWriter, r *http.Request) {
	taskID, err := queryInt64(r, "task_id")
	if err != nil {
		writeError(w, err)
		return
	}
	changes, err := h.records.ListStatusChanges(r.Context(), taskID)
	if err != nil {
		writeError(w, err)
		return
	}
	if changes == nil {
		changes = []*domain.StatusChange{}
	}
	writeJSON(w, http.StatusOK, changes)
}

func (h *RecordHandler) AppendStatusChange(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		TaskID int64  `json:"task_id"`
		Status string `json:"status"`
	}
	if err := readJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	if err := h.records.AppendStatusChange(r.Context(), payload.TaskID, payload.Status); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
}
