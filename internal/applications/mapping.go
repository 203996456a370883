package applications

import (
	"github.com/google/uuid"

	"github.com/JaimeStill/applytrack/pkg/query"
	"github.com/JaimeStill/applytrack/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "applications", "a").
	Project("id", "ID").
	Project("company", "Company").
	Project("role", "Role").
	Project("salary", "Salary").
	Project("platform", "Platform").
	Project("status", "Status").
	Project("contact", "Contact").
	Project("job_url", "JobURL").
	Project("phone_number", "PhoneNumber").
	Project("interview", "Interview").
	Project("feedback", "Feedback").
	Project("version", "Version").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Filter("active", "Active")

// activeOnly is the soft-delete predicate. Every statement that reads or
// writes applications applies it.
func activeOnly(b *query.Builder) *query.Builder {
	return b.WhereEquals("Active", true)
}

func byID(id uuid.UUID) query.Scope {
	return func(b *query.Builder) *query.Builder {
		return b.WhereEquals("ID", id)
	}
}

func byPhone(phone string) query.Scope {
	return func(b *query.Builder) *query.Builder {
		return b.WhereEquals("PhoneNumber", phone)
	}
}

// mutation stamps the update time and bumps the version alongside set.
func mutation(set ...query.Assignment) []query.Assignment {
	return append(set,
		query.Raw("UpdatedAt", "clock_timestamp()"),
		query.Raw("Version", "version + 1"),
	)
}

func (f Fields) assignments() []query.Assignment {
	set := make([]query.Assignment, 0, 10)
	set = appendSet(set, "Company", f.Company)
	set = appendSet(set, "Role", f.Role)
	set = appendSet(set, "Salary", f.Salary)
	set = appendSet(set, "Platform", f.Platform)
	set = appendSet(set, "Status", f.Status)
	set = appendSet(set, "Contact", f.Contact)
	set = appendSet(set, "JobURL", f.JobURL)
	set = appendSet(set, "PhoneNumber", f.PhoneNumber)
	set = appendSet(set, "Interview", f.Interview)
	set = appendSet(set, "Feedback", f.Feedback)
	return set
}

func appendSet[T any](set []query.Assignment, field string, v *T) []query.Assignment {
	if v == nil {
		return set
	}
	return append(set, query.Set(field, *v))
}

func scanApplication(s repository.Scanner) (Application, error) {
	var a Application
	err := s.Scan(
		&a.ID,
		&a.Company,
		&a.Role,
		&a.Salary,
		&a.Platform,
		&a.Status,
		&a.Contact,
		&a.JobURL,
		&a.PhoneNumber,
		&a.Interview,
		&a.Feedback,
		&a.Version,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

func toView(a Application) View {
	v := View{
		ID:          a.ID.String(),
		Company:     a.Company,
		Role:        a.Role,
		Salary:      a.Salary,
		Platform:    a.Platform,
		Status:      a.Status,
		Contact:     a.Contact,
		JobURL:      a.JobURL,
		PhoneNumber: a.PhoneNumber,
		Feedback:    a.Feedback,
		CreatedAt:   a.CreatedAt.UTC(),
		UpdatedAt:   a.UpdatedAt.UTC(),
		Version:     a.Version,
	}
	if a.Interview != nil {
		t := a.Interview.UTC()
		v.Interview = &t
	}
	return v
}

func toViews(apps []Application) []View {
	views := make([]View, len(apps))
	for i, a := range apps {
		views[i] = toView(a)
	}
	return views
}

func (c CreateCommand) fields(defaultStatus string) Fields {
	status := c.Status
	if status == "" {
		status = defaultStatus
	}
	return Fields{
		Company:     &c.Company,
		Role:        &c.Role,
		Salary:      c.Salary,
		Platform:    &c.Platform,
		Status:      &status,
		Contact:     c.Contact,
		JobURL:      &c.JobURL,
		PhoneNumber: &c.PhoneNumber,
		Interview:   c.Interview,
		Feedback:    c.Feedback,
	}
}

func (c UpdateCommand) fields() Fields {
	return Fields{
		Company:   present(c.Company),
		Role:      present(c.Role),
		Salary:    present(c.Salary),
		Platform:  present(c.Platform),
		Status:    present(c.Status),
		Contact:   present(c.Contact),
		JobURL:    present(c.JobURL),
		Interview: c.Interview,
		Feedback:  present(c.Feedback),
	}
}

func present(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
