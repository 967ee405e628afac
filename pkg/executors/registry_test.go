package executors

import (
	"errors"
	"slices"
	"testing"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	names := List()
	want := []string{"actioncount", "average", "maxvalue", "urldedup", "wordcount"}
	if !slices.Equal(names, want) {
		t.Errorf("List() = %v, want %v", names, want)
	}

	for _, name := range names {
		if !IsValid(name) {
			t.Errorf("IsValid(%q) = false", name)
		}

		desc, err := Description(name)
		if err != nil || desc == "" {
			t.Errorf("Description(%q) = (%q, %v)", name, desc, err)
		}
	}
}

func TestRegistry_Unknown(t *testing.T) {
	t.Parallel()

	if IsValid("nope") {
		t.Error("IsValid(nope) = true")
	}

	if _, err := Get("nope"); !errors.Is(err, ErrUnknownExecutor) {
		t.Errorf("Get(nope) error = %v, want %v", err, ErrUnknownExecutor)
	}

	if _, err := Description("nope"); !errors.Is(err, ErrUnknownExecutor) {
		t.Errorf("Description(nope) error = %v, want %v", err, ErrUnknownExecutor)
	}
}
