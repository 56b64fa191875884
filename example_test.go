package marzipan_test

import (
	"context"
	"fmt"

	marzipan "github.com/marzipan-go/marzipan"
	"github.com/marzipan-go/marzipan/fields"
)

func Example() {
	person := marzipan.Define().
		Field("name", fields.String()).
		Field("email", fields.Email(fields.Required())).
		MustCompile()

	s := person.MustBind()
	out, _, _ := s.Dumps(context.Background(), map[string]any{
		"name":  "Monty",
		"email": "monty@python.org",
	})
	fmt.Println(string(out))
	// Output: {"name":"Monty","email":"monty@python.org"}
}

func ExampleSchema_Load() {
	person := marzipan.Define().
		Field("name", fields.String()).
		Field("age", fields.Int()).
		MustCompile()

	res, _ := person.MustBind().Load(context.Background(), map[string]any{
		"name": "Monty",
		"age":  "42",
	})
	data := res.Data.(map[string]any)
	fmt.Println(data["name"], data["age"])
	// Output: Monty 42
}

func ExampleMany() {
	person := marzipan.Define().
		Field("email", fields.Email(fields.Required())).
		MustCompile()

	s := person.MustBind(marzipan.Many())
	res, _ := s.Load(context.Background(), []any{
		map[string]any{"email": "ok@example.com"},
		map[string]any{},
	})
	for idx, errs := range res.Errors.ByIndex() {
		fmt.Println(idx, errs.Field("email")[0])
	}
	// Output: 1 Missing data for required field.
}

func ExampleBuilder_Extend() {
	base := marzipan.Define().
		Field("id", fields.Int()).
		MustCompile()

	derived := marzipan.Define().
		Extend(base).
		Field("title", fields.String()).
		MustCompile()

	fmt.Println(derived.FieldNames())
	// Output: [id title]
}
