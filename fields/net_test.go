package fields_test

import (
	"testing"

	guuid "github.com/google/uuid"

	"github.com/marzipan-go/marzipan/fields"
)

func TestURL_ValidatesAbsolute(t *testing.T) {
	s := one(t, "v", fields.URL())
	if got := loadValue(t, s, map[string]any{"v": "https://example.com/path"}); got != "https://example.com/path" {
		t.Fatalf("expected valid URL to pass, got %v", got)
	}
	want := `"www.example.com" is not a valid URL. Did you mean: "http://www.example.com"?`
	if msg := loadError(t, s, map[string]any{"v": "www.example.com"}); msg != want {
		t.Fatalf("expected %q, got %q", want, msg)
	}
}

func TestURL_RelativeOption(t *testing.T) {
	strict := one(t, "v", fields.URL())
	if msg := loadError(t, strict, map[string]any{"v": "/relative/path"}); msg == "" {
		t.Fatalf("expected relative reference to fail without the option")
	}
	relaxed := one(t, "v", fields.URL(fields.Relative()))
	if got := loadValue(t, relaxed, map[string]any{"v": "/relative/path"}); got != "/relative/path" {
		t.Fatalf("expected relative reference to pass, got %v", got)
	}
}

func TestURL_CustomValidator(t *testing.T) {
	always := func(s string, relative bool) (bool, string) { return true, "" }
	s := one(t, "v", fields.URL(fields.URLValidator(always)))
	if got := loadValue(t, s, map[string]any{"v": "anything goes"}); got != "anything goes" {
		t.Fatalf("expected substituted predicate to accept, got %v", got)
	}
}

func TestEmail_Validates(t *testing.T) {
	s := one(t, "v", fields.Email())
	if got := loadValue(t, s, map[string]any{"v": "joe@example.com"}); got != "joe@example.com" {
		t.Fatalf("expected valid address to pass, got %v", got)
	}
	want := `"invalid-email" is not a valid email address.`
	if msg := loadError(t, s, map[string]any{"v": "invalid-email"}); msg != want {
		t.Fatalf("expected %q, got %q", want, msg)
	}
}

func TestUUID_CanonicalBothWays(t *testing.T) {
	s := one(t, "v", fields.UUID())
	id := guuid.MustParse("12345678-1234-5678-1234-567812345678")

	if got := dumpValue(t, s, map[string]any{"v": id}); got != id.String() {
		t.Fatalf("expected canonical string, got %v", got)
	}
	got := loadValue(t, s, map[string]any{"v": id.String()})
	if u, ok := got.(guuid.UUID); !ok || u != id {
		t.Fatalf("expected parsed UUID, got %v (%T)", got, got)
	}
	want := "'not-a-uuid' is not a valid UUID."
	if msg := loadError(t, s, map[string]any{"v": "not-a-uuid"}); msg != want {
		t.Fatalf("expected %q, got %q", want, msg)
	}
}
