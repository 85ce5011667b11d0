package worker

import "time"

const (
	DefaultDepartment = "General"
	DefaultRole       = "worker"
)

type Worker struct {
	ID              string
	Name            string
	EmployeeCode    *string
	Department      string
	Role            string
	BaseHoursPerDay float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
