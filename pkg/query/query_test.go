package query_test

import (
	"reflect"
	"testing"

	"github.com/JaimeStill/applytrack/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "applications", "a").
		Project("id", "id").
		Project("company", "company").
		Project("phone_number", "phoneNumber").
		Filter("active", "active")
}

func TestProjectionMap(t *testing.T) {
	p := testProjection()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"from", p.From(), "public.applications a"},
		{"into", p.Into(), "public.applications AS a"},
		{"columns", p.Columns(), "a.id, a.company, a.phone_number"},
		{"column lookup", p.Column("phoneNumber"), "a.phone_number"},
		{"filter column", p.Column("active"), "a.active"},
		{"unmapped column", p.Column("unknown"), "unknown"},
		{"bare name", p.Name("phoneNumber"), "phone_number"},
		{"bare filter name", p.Name("active"), "active"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	active := func(b *query.Builder) *query.Builder {
		return b.WhereEquals("active", true)
	}

	sql, args := query.NewBuilder(testProjection()).
		WhereEquals("phoneNumber", "555").
		Apply(active).
		Build()

	wantSQL := "SELECT a.id, a.company, a.phone_number FROM public.applications a WHERE a.phone_number = $1 AND a.active = $2"
	if sql != wantSQL {
		t.Errorf("sql:\n got %s\nwant %s", sql, wantSQL)
	}
	if !reflect.DeepEqual(args, []any{"555", true}) {
		t.Errorf("args: got %v", args)
	}
}

func TestBuildSingle(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).
		WhereEquals("id", "abc").
		BuildSingle()

	wantSQL := "SELECT a.id, a.company, a.phone_number FROM public.applications a WHERE a.id = $1 LIMIT 1"
	if sql != wantSQL {
		t.Errorf("sql:\n got %s\nwant %s", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "abc" {
		t.Errorf("args: got %v", args)
	}
}

func TestWhereEqualsSkipsNil(t *testing.T) {
	var phone *string
	sql, args := query.NewBuilder(testProjection()).
		WhereEquals("phoneNumber", phone).
		WhereEquals("company", nil).
		Build()

	wantSQL := "SELECT a.id, a.company, a.phone_number FROM public.applications a"
	if sql != wantSQL {
		t.Errorf("sql:\n got %s\nwant %s", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("args: got %v, want none", args)
	}
}

func TestBuildInsert(t *testing.T) {
	t.Run("assignments", func(t *testing.T) {
		sql, args := query.NewBuilder(testProjection()).BuildInsert([]query.Assignment{
			query.Set("company", "Acme"),
			query.Set("phoneNumber", "555"),
		})

		wantSQL := "INSERT INTO public.applications AS a (company, phone_number) VALUES ($1, $2) RETURNING a.id, a.company, a.phone_number"
		if sql != wantSQL {
			t.Errorf("sql:\n got %s\nwant %s", sql, wantSQL)
		}
		if !reflect.DeepEqual(args, []any{"Acme", "555"}) {
			t.Errorf("args: got %v", args)
		}
	})

	t.Run("raw expression", func(t *testing.T) {
		sql, args := query.NewBuilder(testProjection()).BuildInsert([]query.Assignment{
			query.Raw("active", "TRUE"),
			query.Set("company", "Acme"),
		})

		wantSQL := "INSERT INTO public.applications AS a (active, company) VALUES (TRUE, $1) RETURNING a.id, a.company, a.phone_number"
		if sql != wantSQL {
			t.Errorf("sql:\n got %s\nwant %s", sql, wantSQL)
		}
		if len(args) != 1 {
			t.Errorf("args: got %v", args)
		}
	})

	t.Run("no assignments", func(t *testing.T) {
		sql, _ := query.NewBuilder(testProjection()).BuildInsert(nil)

		wantSQL := "INSERT INTO public.applications AS a DEFAULT VALUES RETURNING a.id, a.company, a.phone_number"
		if sql != wantSQL {
			t.Errorf("sql:\n got %s\nwant %s", sql, wantSQL)
		}
	})
}

func TestBuildUpdate(t *testing.T) {
	t.Run("where params follow set params", func(t *testing.T) {
		sql, args := query.NewBuilder(testProjection()).
			WhereEquals("id", "abc").
			WhereEquals("active", true).
			BuildUpdate([]query.Assignment{
				query.Set("company", "Acme"),
				query.Raw("version", "a.version + 1"),
				query.Set("phoneNumber", "555"),
			}, true)

		wantSQL := "UPDATE public.applications a SET company = $1, version = a.version + 1, phone_number = $2 " +
			"WHERE a.id = $3 AND a.active = $4 RETURNING a.id, a.company, a.phone_number"
		if sql != wantSQL {
			t.Errorf("sql:\n got %s\nwant %s", sql, wantSQL)
		}
		if !reflect.DeepEqual(args, []any{"Acme", "555", "abc", true}) {
			t.Errorf("args: got %v", args)
		}
	})

	t.Run("without returning", func(t *testing.T) {
		sql, args := query.NewBuilder(testProjection()).
			WhereEquals("id", "abc").
			BuildUpdate([]query.Assignment{query.Set("active", false)}, false)

		wantSQL := "UPDATE public.applications a SET active = $1 WHERE a.id = $2"
		if sql != wantSQL {
			t.Errorf("sql:\n got %s\nwant %s", sql, wantSQL)
		}
		if !reflect.DeepEqual(args, []any{false, "abc"}) {
			t.Errorf("args: got %v", args)
		}
	})
}
