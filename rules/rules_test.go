package rules_test

import (
	"context"
	"testing"

	marzipan "github.com/marzipan-go/marzipan"
	"github.com/marzipan-go/marzipan/fields"
	"github.com/marzipan-go/marzipan/rules"
)

func TestLength(t *testing.T) {
	pred := rules.Length(2, 4)
	if pred("a") || !pred("ab") || !pred("abcd") || pred("abcde") {
		t.Fatalf("string length bounds violated")
	}
	if !pred([]any{1, 2, 3}) {
		t.Fatalf("expected slice length to count")
	}
	open := rules.Length(1, -1)
	if !open("a very long string indeed") {
		t.Fatalf("expected open upper bound")
	}
}

func TestRangeMinMax(t *testing.T) {
	if !rules.Range(0, 10)(int64(5)) || rules.Range(0, 10)(int64(11)) {
		t.Fatalf("range bounds violated")
	}
	if !rules.Min(18)(21.0) || rules.Min(18)(int64(17)) {
		t.Fatalf("min bound violated")
	}
	if !rules.Max(100)(int64(99)) || rules.Max(100)(101.0) {
		t.Fatalf("max bound violated")
	}
}

func TestOneOfNoneOf(t *testing.T) {
	if !rules.OneOf("red", "blue")("red") || rules.OneOf("red", "blue")("green") {
		t.Fatalf("one-of violated")
	}
	if rules.NoneOf("admin")("admin") || !rules.NoneOf("admin")("guest") {
		t.Fatalf("none-of violated")
	}
}

func TestMatchesAndNotBlank(t *testing.T) {
	hex := rules.Matches(`^[0-9a-f]+$`)
	if !hex("deadbeef") || hex("nope!") {
		t.Fatalf("pattern match violated")
	}
	if rules.NotBlank()("   ") || !rules.NotBlank()("x") {
		t.Fatalf("blank detection violated")
	}
}

func TestCombinators(t *testing.T) {
	short := rules.Length(0, 3)
	hex := rules.Matches(`^[0-9a-f]+$`)
	if !rules.And(short, hex)("abc") || rules.And(short, hex)("abcd") {
		t.Fatalf("and combinator violated")
	}
	if !rules.Or(short, hex)("abcd1") || rules.Or(short, hex)("too long and not hex!") {
		t.Fatalf("or combinator violated")
	}
	if rules.Not(short)("ab") {
		t.Fatalf("not combinator violated")
	}
}

func TestRules_WiredThroughSchema(t *testing.T) {
	def := marzipan.Define().
		Field("age", fields.Int(
			fields.Validate(rules.Range(0, 150)),
			fields.Error("Age out of range."),
		)).
		MustCompile()

	res, err := def.MustBind().Load(context.Background(), map[string]any{"age": 200})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := res.Errors.Field("age")
	if len(got) != 1 || got[0] != "Age out of range." {
		t.Fatalf("expected custom message, got %v", res.Errors)
	}
}
