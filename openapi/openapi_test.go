package openapi_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	marzipan "github.com/marzipan-go/marzipan"
	"github.com/marzipan-go/marzipan/openapi"
)

const petstore = `
openapi: "3.0.0"
info:
  title: pets
  version: "1.0"
paths: {}
components:
  schemas:
    Pet:
      type: object
      required: [name]
      properties:
        name:
          type: string
        tag:
          type: string
          default: unknown
        age:
          type: integer
        weight:
          type: number
        vaccinated:
          type: boolean
        kind:
          type: string
          enum: [cat, dog]
        owner_email:
          type: string
          format: email
        id:
          type: string
          format: uuid
        nicknames:
          type: array
          items:
            type: string
        home:
          type: object
          properties:
            city:
              type: string
`

func TestImportDocument_BuildsDefinitions(t *testing.T) {
	defs, diag, err := openapi.ImportDocument([]byte(petstore), openapi.Options{})
	require.NoError(t, err)
	require.Contains(t, defs, "Pet")
	assert.Empty(t, diag.Warnings())

	pet := defs["Pet"]
	assert.ElementsMatch(t,
		[]string{"age", "home", "id", "kind", "name", "nicknames", "owner_email", "tag", "vaccinated", "weight"},
		pet.FieldNames())
}

func TestImportDocument_RequiredAndTypesEnforced(t *testing.T) {
	defs, _, err := openapi.ImportDocument([]byte(petstore), openapi.Options{})
	require.NoError(t, err)

	s := defs["Pet"].MustBind()
	res, err := s.Load(context.Background(), map[string]any{
		"age":         "3",
		"kind":        "ferret",
		"owner_email": "not-an-email",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{marzipan.MissingRequiredMessage}, res.Errors.Field("name"))
	assert.Equal(t, []string{"'ferret' is not a valid choice for this field."}, res.Errors.Field("kind"))
	assert.Len(t, res.Errors.Field("owner_email"), 1)

	data := res.Data.(map[string]any)
	assert.Equal(t, int64(3), data["age"])
}

func TestImportDocument_DefaultsApplyOnDump(t *testing.T) {
	defs, _, err := openapi.ImportDocument([]byte(petstore), openapi.Options{})
	require.NoError(t, err)

	s := defs["Pet"].MustBind(marzipan.Only("tag"))
	res, err := s.Dump(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "unknown", res.Data.Value("tag"))
}

func TestImportDocument_NestedObject(t *testing.T) {
	defs, _, err := openapi.ImportDocument([]byte(petstore), openapi.Options{})
	require.NoError(t, err)

	s := defs["Pet"].MustBind(marzipan.Only("home"))
	res, err := s.Dump(context.Background(), map[string]any{
		"home": map[string]any{"city": "Ankara"},
	})
	require.NoError(t, err)

	home, ok := res.Data.Value("home").(*marzipan.Dict)
	require.True(t, ok, "expected nested Dict, got %T", res.Data.Value("home"))
	assert.Equal(t, "Ankara", home.Value("city"))
}

func TestImportDocument_StrictOption(t *testing.T) {
	defs, _, err := openapi.ImportDocument([]byte(petstore), openapi.Options{Strict: true})
	require.NoError(t, err)

	_, err = defs["Pet"].MustBind().Load(context.Background(), map[string]any{})
	var ue *marzipan.UnmarshallingError
	require.ErrorAs(t, err, &ue)
}

func TestImportDocument_NoComponents(t *testing.T) {
	doc := []byte("openapi: \"3.0.0\"\ninfo:\n  title: empty\n  version: \"1\"\npaths: {}\n")
	_, _, err := openapi.ImportDocument(doc, openapi.Options{})
	require.Error(t, err)
}
