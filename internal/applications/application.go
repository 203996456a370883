// Package applications implements the job application domain: creation,
// partial update, deactivation, and version bookkeeping of application
// records scoped to a phone number.
package applications

import (
	"time"

	"github.com/google/uuid"
)

// Application is a stored application record. Only active records are ever
// read back, so the active flag is filtered on but not carried here.
type Application struct {
	ID          uuid.UUID
	Company     string
	Role        string
	Salary      *string
	Platform    string
	Status      string
	Contact     *string
	JobURL      string
	PhoneNumber string
	Interview   *time.Time
	Feedback    *string
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// View is the externally visible shape of an Application.
type View struct {
	ID          string     `json:"_id"`
	Company     string     `json:"company"`
	Role        string     `json:"role"`
	Salary      *string    `json:"salary"`
	Platform    string     `json:"platform"`
	Status      string     `json:"status"`
	Contact     *string    `json:"contact"`
	JobURL      string     `json:"jobUrl"`
	PhoneNumber string     `json:"phone_number"`
	Interview   *time.Time `json:"interview"`
	Feedback    *string    `json:"feedback"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Version     int        `json:"__v"`
}

// CreateCommand carries the fields accepted when creating an application.
// A blank Status is replaced with the configured default.
type CreateCommand struct {
	Company     string     `json:"company" validate:"required"`
	Role        string     `json:"role" validate:"required"`
	Salary      *string    `json:"salary"`
	Platform    string     `json:"platform" validate:"required"`
	Status      string     `json:"status"`
	Contact     *string    `json:"contact"`
	JobURL      string     `json:"jobUrl" validate:"required,http_url"`
	PhoneNumber string     `json:"phone_number" validate:"required"`
	Interview   *time.Time `json:"interview"`
	Feedback    *string    `json:"feedback"`
}

// UpdateCommand carries a partial update. Nil and empty values mean
// "no change"; there is no way to clear an optional field. The phone
// number is not updatable.
type UpdateCommand struct {
	Company   *string    `json:"company"`
	Role      *string    `json:"role"`
	Salary    *string    `json:"salary"`
	Platform  *string    `json:"platform"`
	Status    *string    `json:"status"`
	Contact   *string    `json:"contact"`
	JobURL    *string    `json:"jobUrl" validate:"omitempty,http_url"`
	Interview *time.Time `json:"interview"`
	Feedback  *string    `json:"feedback"`
}

// Fields is the set of columns written by Create and Update. Nil fields are
// left out of the statement entirely.
type Fields struct {
	Company     *string
	Role        *string
	Salary      *string
	Platform    *string
	Status      *string
	Contact     *string
	JobURL      *string
	PhoneNumber *string
	Interview   *time.Time
	Feedback    *string
}

// Empty reports whether no field is set.
func (f Fields) Empty() bool {
	return len(f.assignments()) == 0
}
