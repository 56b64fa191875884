package fields_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	marzipan "github.com/marzipan-go/marzipan"
	"github.com/marzipan-go/marzipan/fields"
)

func blogDefinitions(t *testing.T) (user, blog *marzipan.Definition) {
	t.Helper()
	user = marzipan.Define().
		Field("name", fields.String()).
		Field("email", fields.Email(fields.Required())).
		MustCompile()
	blog = marzipan.Define().
		Field("title", fields.String()).
		Field("author", fields.Nested(user)).
		MustCompile()
	return user, blog
}

func TestNested_DumpsSubMapping(t *testing.T) {
	_, blog := blogDefinitions(t)
	res, err := blog.MustBind().Dump(context.Background(), map[string]any{
		"title":  "Monty's blog",
		"author": map[string]any{"name": "Monty", "email": "monty@example.com"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	author, ok := res.Data.Value("author").(*marzipan.Dict)
	if !ok {
		t.Fatalf("expected nested Dict, got %T", res.Data.Value("author"))
	}
	if diff := cmp.Diff([]string{"name", "email"}, author.Keys()); diff != "" {
		t.Fatalf("nested order mismatch (-want +got):\n%s", diff)
	}
}

func TestNested_ChildErrorsNestUnderFieldName(t *testing.T) {
	_, blog := blogDefinitions(t)
	res, err := blog.MustBind().Dump(context.Background(), map[string]any{
		"title":  "x",
		"author": map[string]any{"name": "Monty", "email": "invalid"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rendered := res.Errors.AsMap()
	author, ok := rendered["author"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested error map, got %v", rendered)
	}
	if msgs, _ := author["email"].([]string); len(msgs) != 1 {
		t.Fatalf("expected one email error, got %v", author)
	}
}

func TestNested_OnlyRestrictsInner(t *testing.T) {
	user, _ := blogDefinitions(t)
	blog := marzipan.Define().
		Field("author", fields.Nested(user, fields.NestedOnly("name"))).
		MustCompile()

	res, err := blog.MustBind().Dump(context.Background(), map[string]any{
		"author": map[string]any{"name": "Monty", "email": "monty@example.com"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	author := res.Data.Value("author").(*marzipan.Dict)
	if diff := cmp.Diff([]string{"name"}, author.Keys()); diff != "" {
		t.Fatalf("only mismatch (-want +got):\n%s", diff)
	}
}

func TestNested_OnlyWinsOverExclude(t *testing.T) {
	user, _ := blogDefinitions(t)
	blog := marzipan.Define().
		Field("author", fields.Nested(user,
			fields.NestedOnly("name"),
			fields.NestedExclude("name", "email"))).
		MustCompile()

	res, err := blog.MustBind().Dump(context.Background(), map[string]any{
		"author": map[string]any{"name": "Monty", "email": "monty@example.com"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	author := res.Data.Value("author").(*marzipan.Dict)
	if got := author.Value("name"); got != "Monty" {
		t.Fatalf("only must win over exclude: want name=Monty, got %v (keys %v)", got, author.Keys())
	}
}

func TestNested_FlatExtractsScalar(t *testing.T) {
	user, _ := blogDefinitions(t)
	blog := marzipan.Define().
		Field("author", fields.Nested(user, fields.Flat("name"))).
		MustCompile()

	res, err := blog.MustBind().Dump(context.Background(), map[string]any{
		"author": map[string]any{"name": "Monty", "email": "monty@example.com"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := res.Data.Value("author"); got != "Monty" {
		t.Fatalf("expected bare scalar, got %v", got)
	}
}

func TestNested_ManyProcessesSequence(t *testing.T) {
	user, _ := blogDefinitions(t)
	blog := marzipan.Define().
		Field("collaborators", fields.Nested(user, fields.NestedMany(), fields.Flat("name"))).
		MustCompile()

	res, err := blog.MustBind().Dump(context.Background(), map[string]any{
		"collaborators": []any{
			map[string]any{"name": "Mike", "email": "m@example.com"},
			map[string]any{"name": "Joe", "email": "j@example.com"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := res.Data.Value("collaborators").([]any)
	if !ok {
		t.Fatalf("expected slice, got %T", res.Data.Value("collaborators"))
	}
	if diff := cmp.Diff([]any{"Mike", "Joe"}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestNested_SequenceWithoutManyIsDefinitionError(t *testing.T) {
	user, _ := blogDefinitions(t)
	blog := marzipan.Define().
		Field("collaborators", fields.Nested(user)).
		MustCompile()

	_, err := blog.MustBind().Dump(context.Background(), map[string]any{
		"collaborators": []any{map[string]any{"name": "Mike"}},
	})
	var de *marzipan.DefinitionError
	if !errors.As(err, &de) {
		t.Fatalf("expected DefinitionError, got %v", err)
	}
}

func TestNested_LoadValidatesChildren(t *testing.T) {
	_, blog := blogDefinitions(t)
	res, err := blog.MustBind().Load(context.Background(), map[string]any{
		"title":  "x",
		"author": map[string]any{"name": "Monty"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rendered := res.Errors.AsMap()
	author, ok := rendered["author"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested error map, got %v", rendered)
	}
	if msgs, _ := author["email"].([]string); len(msgs) != 1 || msgs[0] != marzipan.MissingRequiredMessage {
		t.Fatalf("expected missing-required under author.email, got %v", author)
	}
}

func TestNested_ContextPropagates(t *testing.T) {
	inner := marzipan.Define().
		Field("greeting", fields.Function(func(obj any, ctx marzipan.Context) (any, error) {
			return ctx["greeting"], nil
		})).
		MustCompile()
	outer := marzipan.Define().
		Field("child", fields.Nested(inner)).
		MustCompile()

	s := outer.MustBind()
	s.Context()["greeting"] = "hello"
	res, err := s.Dump(context.Background(), map[string]any{"child": map[string]any{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	child := res.Data.Value("child").(*marzipan.Dict)
	if got := child.Value("greeting"); got != "hello" {
		t.Fatalf("expected propagated context value, got %v", got)
	}
}

func TestSelf_TerminatesWithExclude(t *testing.T) {
	employee := marzipan.Define().
		Field("name", fields.String()).
		Field("employer", fields.Self(fields.NestedExclude("employer"))).
		MustCompile()

	res, err := employee.MustBind().Dump(context.Background(), map[string]any{
		"name":     "Tom",
		"employer": map[string]any{"name": "Douglas"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	boss, ok := res.Data.Value("employer").(*marzipan.Dict)
	if !ok {
		t.Fatalf("expected self-referential sub-mapping, got %T", res.Data.Value("employer"))
	}
	if got := boss.Value("name"); got != "Douglas" {
		t.Fatalf("expected Douglas, got %v", got)
	}
	if boss.Has("employer") {
		t.Fatalf("excluded field must not recurse")
	}
}

func TestNested_MissingSourceIsNull(t *testing.T) {
	_, blog := blogDefinitions(t)
	res, err := blog.MustBind().Dump(context.Background(), map[string]any{"title": "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := res.Data.Value("author"); got != nil {
		t.Fatalf("expected null for missing nested source, got %v", got)
	}
}
