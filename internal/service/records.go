package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"submission_service/internal/domain"
	"submission_service/internal/errdefs"
	"submission_service/internal/pool"
	"submission_service/internal/repository"
)

type RecordServiceInterface interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id int64) error
	ListUsers(ctx context.Context) ([]*domain.User, error)

	CreateTeacher(ctx context.Context, teacher *domain.Teacher) error
	GetTeacher(ctx context.Context, id int64) (*domain.Teacher, error)
	UpdateTeacher(ctx context.Context, teacher *domain.Teacher) error
	DeleteTeacher(ctx context.Context, id int64) error
	ListTeachers(ctx context.Context) ([]*domain.Teacher, error)

	CreateStudent(ctx context.Context, student *domain.Student) error
	GetStudent(ctx context.Context, id int64) (*domain.Student, error)
	UpdateStudent(ctx context.Context, student *domain.Student) error
	DeleteStudent(ctx context.Context, id int64) error
	ListStudents(ctx context.Context) ([]*domain.Student, error)

	CreateClass(ctx context.Context, class *domain.Class) error
	GetClass(ctx context.Context, id int64) (*domain.Class, error)
	UpdateClass(ctx context.Context, class *domain.Class) error
	DeleteClass(ctx context.Context, id int64) error
	ListClasses(ctx context.Context) ([]*domain.Class, error)

	CreateTask(ctx context.Context, task *domain.Task) error
	CreateTaskForClass(ctx context.Context, task *domain.Task) (int, error)
	GetTask(ctx context.Context, id int64) (*domain.Task, error)
	UpdateTask(ctx context.Context, task *domain.Task) error
	DeleteTask(ctx context.Context, id int64) error
	ListTasks(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error)

	ListStatusChanges(ctx context.Context, taskID int64) ([]*domain.StatusChange, error)
	AppendStatusChange(ctx context.Context, taskID int64, status string) error
}

// recordService is the mechanical per-table surface: one pooled handle per
// call, no cross-record logic.
type recordService struct {
	pool      *pool.Pool
	users     *repository.UserRepository
	teachers  *repository.TeacherRepository
	students  *repository.StudentRepository
	classes   *repository.ClassRepository
	tasks     *repository.TaskRepository
	statusLog StatusLog
}

func NewRecordService(
	db *pool.Pool,
	users *repository.UserRepository,
	teachers *repository.TeacherRepository,
	students *repository.StudentRepository,
	classes *repository.ClassRepository,
	tasks *repository.TaskRepository,
	statusLog StatusLog,
) RecordServiceInterface {
	return &recordService{
		pool:      db,
		users:     users,
		teachers:  teachers,
		students:  students,
		classes:   classes,
		tasks:     tasks,
		statusLog: statusLog,
	}
}

func (s *recordService) CreateUser(ctx context.Context, user *domain.User) error {
	return s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		return s.users.Create(ctx, conn, user)
	})
}

func (s *recordService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var user *domain.User
	err := s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		var err error
		user, err = s.users.GetByID(ctx, conn, id)
		return err
	})
	return user, err
}

func (s *recordService) UpdateUser(ctx context.Context, user *domain.User) error {
	return s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		return s.users.Update(ctx, conn, user)
	})
}

func (s *recordService) DeleteUser(ctx context.Context, id int64) error {
	return s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		return s.users.Delete(ctx, conn, id)
	})
}

func (s *recordService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	err := s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		var err error
		users, err = s.users.List(ctx, conn)
		return err
	})
	return users, err
}

func (s *recordService) CreateTeacher(ctx context.Context, teacher *domain.Teacher) error {
	return s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		return s.teachers.Create(ctx, conn, teacher)
	})
}

func (s *recordService) GetTeacher(ctx context.Context, id int64) (*domain.Teacher, error) {
	var teacher *domain.Teacher
	err := s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		var err error
		teacher, err = s.teachers.GetByID(ctx, conn, id)
		return err
	})
	return teacher, err
}

func (s *recordService) UpdateTeacher(ctx context.Context, teacher *domain.Teacher) error {
	return s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		return s.teachers.Update(ctx, conn, teacher)
	})
}

func (s *recordService) DeleteTeacher(ctx context.Context, id int64) error {
	return s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		return s.teachers.Delete(ctx, conn, id)
	})
}

func (s *recordService) ListTeachers(ctx context.Context) ([]*domain.Teacher, error) {
	var teachers []*domain.Teacher
	err := s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		var err error
		teachers, err = s.teachers.List(ctx, conn)
		return err
	})
	return teachers, err
}

func (s *recordService) CreateStudent(ctx context.Context, student *domain.Student) error {
	return s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		return s.students.Create(ctx, conn, student)
	})
}

func (s *recordService) GetStudent(ctx context.Context, id int64) (*domain.Student, error) {
	var student *domain.Student
	err := s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		var err error
		student, err = s.students.GetByID(ctx, conn, id)
		return err
	})
	return student, err
}

func (s *recordService) UpdateStudent(ctx context.Context, student *domain.Student) error {
	return s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		return s.students.Update(ctx, conn, student)
	})
}

func (s *recordService) DeleteStudent(ctx context.Context, id int64) error {
	return s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		return s.students.Delete(ctx, conn, id)
	})
}

func (s *recordService) ListStudents(ctx context.Context) ([]*domain.Student, error) {
	var students []*domain.Student
	err := s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		var err error
		students, err = s.students.List(ctx, conn)
		return err
	})
	return students, err
}

func (s *recordService) CreateClass(ctx context.Context, class *domain.Class) error {
	return s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		return s.classes.Create(ctx, conn, class)
	})
}

func (s *recordService) GetClass(ctx context.Context, id int64) (*domain.Class, error) {
	var class *domain.Class
	err := s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		var err error
		class, err = s.classes.GetByID(ctx, conn, id)
		return err
	})
	return class, err
}

func (s *recordService) UpdateClass(ctx context.Context, class *domain.Class) error {
	return s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		return s.classes.Update(ctx, conn, class)
	})
}

func (s *recordService) DeleteClass(ctx context.Context, id int64) error {
	return s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		return s.classes.Delete(ctx, conn, id)
	})
}

func (s *recordService) ListClasses(ctx context.Context) ([]*domain.Class, error) {
	var classes []*domain.Class
	err := s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		var err error
		classes, err = s.classes.List(ctx, conn)
		return err
	})
	return classes, err
}

func (s *recordService) CreateTask(ctx context.Context, task *domain.Task) error {
	return s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		return s.tasks.Create(ctx, conn, task)
	})
}

// CreateTaskForClass creates one copy of the task per student currently in the
// class, all within a single transaction.
func (s *recordService) CreateTaskForClass(ctx context.Context, task *domain.Task) (int, error) {
	var created int
	err := s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("%w: begin transaction: %v", errdefs.ErrStoreUnavailable, err)
		}
		defer func() { _ = tx.Rollback() }()

		created, err = s.tasks.CreateForClass(ctx, tx, task)
		if err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, fmt.Errorf("create task for class %d: %w", task.ClassID, err)
	}
	return created, nil
}

func (s *recordService) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	var task *domain.Task
	err := s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		var err error
		task, err = s.tasks.GetByID(ctx, conn, id)
		return err
	})
	return task, err
}

func (s *recordService) UpdateTask(ctx context.Context, task *domain.Task) error {
	return s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		return s.tasks.Update(ctx, conn, task)
	})
}

func (s *recordService) DeleteTask(ctx context.Context, id int64) error {
	return s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		return s.tasks.Delete(ctx, conn, id)
	})
}

func (s *recordService) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		var err error
		tasks, err = s.tasks.ListByFilter(ctx, conn, filter)
		return err
	})
	return tasks, err
}

func (s *recordService) ListStatusChanges(ctx context.Context, taskID int64) ([]*domain.StatusChange, error) {
	var changes []*domain.StatusChange
	err := s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		var err error
		if taskID != 0 {
			changes, err = s.statusLog.ListByTask(ctx, conn, taskID)
		} else {
			changes, err = s.statusLog.List(ctx, conn)
		}
		return err
	})
	return changes, err
}

// AppendStatusChange records a manual, free-form status label for a task.
func (s *recordService) AppendStatusChange(ctx context.Context, taskID int64, status string) error {
	if status == "" {
		return fmt.Errorf("%w: status is required", errdefs.ErrValidation)
	}
	return s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		return s.statusLog.Append(ctx, conn, taskID, status, time.Now())
	})
}
