//go:build !integration

package gorevalidate_test

import (
	"context"
	"slices"
	"sync"
	"testing"

	gorevalidate "github.com/validstore/go-revalidate"
	"github.com/validstore/go-revalidate/stores/memory"
)

func TestInvalidationMarkConsumedOnce(t *testing.T) {
	t.Parallel()

	r := gorevalidate.NewInvalidationRegistry()
	r.MarkForInvalidation("/employees")

	if !r.Consume("/employees") {
		t.Fatal("first consume must observe the mark")
	}
	if r.Consume("/employees") {
		t.Fatal("a consumed mark must be gone for later reads")
	}
}

func TestInvalidationSnapshot(t *testing.T) {
	t.Parallel()

	r := gorevalidate.NewInvalidationRegistry()
	r.MarkForInvalidation("/employees", "/reports")

	keys := r.KeysMarkedForInvalidation()
	slices.Sort(keys)
	if len(keys) != 2 || keys[0] != "/employees" || keys[1] != "/reports" {
		t.Errorf("unexpected snapshot: %v", keys)
	}

	// The snapshot is read-only: taking it consumes nothing.
	if !r.Consume("/employees") {
		t.Error("snapshot must not consume marks")
	}
}

func TestInvalidationMarksNotLostUnderConcurrency(t *testing.T) {
	t.Parallel()

	r := gorevalidate.NewInvalidationRegistry()

	const marks = 200
	var wg sync.WaitGroup
	for i := range marks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.MarkForInvalidation(gorevalidate.StoreKey(rune('a' + i%26)))
			// Interleave reads of unrelated keys with the writes.
			r.Consume("/never-marked")
		}()
	}
	wg.Wait()

	consumed := 0
	for i := range 26 {
		if r.Consume(gorevalidate.StoreKey(rune('a' + i))) {
			consumed++
		}
	}
	if consumed != 26 {
		t.Errorf("expected all 26 distinct marks to survive, got %d", consumed)
	}
}

func TestMarkKeysByPart(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.New()
	for _, k := range []gorevalidate.StoreKey{
		"/employees",
		"/employees?page=2",
		"/Employees/7",
		"/reports",
	} {
		if err := store.Set(ctx, k, &gorevalidate.ValidatorValue{ETag: gorevalidate.ETag{Value: "x"}}); err != nil {
			t.Fatalf("seeding store: %v", err)
		}
	}

	r := gorevalidate.NewInvalidationRegistry()
	if err := r.MarkKeysByPart(ctx, store, "/employees", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	marked := r.KeysMarkedForInvalidation()
	slices.Sort(marked)
	expected := []gorevalidate.StoreKey{"/Employees/7", "/employees", "/employees?page=2"}
	if !slices.Equal(marked, expected) {
		t.Errorf("expected %v, got %v", expected, marked)
	}
}
