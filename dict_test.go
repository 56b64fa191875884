package marzipan_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	marzipan "github.com/marzipan-go/marzipan"
)

func TestDict_PreservesInsertionOrder(t *testing.T) {
	d := marzipan.NewDict()
	d.Set("c", 1)
	d.Set("a", 2)
	d.Set("b", 3)

	want := []string{"c", "a", "b"}
	if diff := cmp.Diff(want, d.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestDict_OverwriteKeepsSlot(t *testing.T) {
	d := marzipan.NewDict()
	d.Set("a", 1)
	d.Set("b", 2)
	d.Set("a", 10)

	want := []string{"a", "b"}
	if diff := cmp.Diff(want, d.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if v := d.Value("a"); v != 10 {
		t.Fatalf("expected overwritten value 10, got %v", v)
	}
}

func TestDict_Delete(t *testing.T) {
	d := marzipan.NewDict()
	d.Set("a", 1)
	d.Set("b", 2)
	d.Set("c", 3)
	d.Delete("b")

	want := []string{"a", "c"}
	if diff := cmp.Diff(want, d.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if d.Has("b") {
		t.Fatalf("expected b to be gone")
	}
}

func TestDict_MarshalJSONOrder(t *testing.T) {
	d := marzipan.NewDict()
	d.Set("z", 1)
	d.Set("a", "x")

	inner := marzipan.NewDict()
	inner.Set("k2", true)
	inner.Set("k1", nil)
	d.Set("nested", inner)

	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"z":1,"a":"x","nested":{"k2":true,"k1":null}}`
	if string(b) != want {
		t.Fatalf("expected %s, got %s", want, b)
	}
}
