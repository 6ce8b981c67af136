package domain

import "time"

type User struct {
	ID       int64  `json:"id"`
	DNI      string `json:"dni"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type Teacher struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	DNI    string `json:"dni"`
	Email  string `json:"email"`
	UserID int64  `json:"user_id"`
}

type Student struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	DNI     string `json:"dni"`
	ClassID int64  `json:"class_id"`
	UserID  int64  `json:"user_id"`
}

type Class struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	TeacherID int64  `json:"teacher_id"`
}

type Task struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Instructions string    `json:"instructions"`
	DueDate      time.Time `json:"due_date"`
	ClassID      int64     `json:"class_id"`
	StudentID    int64     `json:"student_id"`
	Status       string    `json:"status"`
}

// TaskFilter narrows task listings; zero values mean "no constraint".
type TaskFilter struct {
	StudentID int64
	TeacherID int64
	ClassID   int64
}
