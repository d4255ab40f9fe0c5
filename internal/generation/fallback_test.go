package generation

import (
	"reflect"
	"testing"
)

func TestFallbackStructureIsValidAndTopicTitled(t *testing.T) {
	s := FallbackStructure("Rust Systems Programming")
	if s.Title != "Rust Systems Programming" {
		t.Fatalf("fallback title = %q, want requested topic", s.Title)
	}
	if errs := validateStructure(s); len(errs) != 0 {
		t.Fatalf("fallback structure must satisfy invariants: %v", errs)
	}
	wantSections := []string{"Foundation", "Intermediate", "Advanced", "Specialization"}
	for i, sec := range s.Sections {
		if sec.Title != wantSections[i] {
			t.Fatalf("section %d = %q, want %q", i, sec.Title, wantSections[i])
		}
		if sec.Progress != 0 {
			t.Fatalf("section %d progress = %v, want 0", i, sec.Progress)
		}
	}
}

func TestFallbackStructureReturnsIndependentCopies(t *testing.T) {
	a := FallbackStructure("x")
	b := FallbackStructure("x")
	a.Sections[0].Subtasks[0].Title = "mutated"
	if b.Sections[0].Subtasks[0].Title == "mutated" {
		t.Fatalf("fallback copies must not share backing arrays")
	}
}

func TestPadDetailReachesEveryMinimum(t *testing.T) {
	padded := PadDetail(SubtaskDetail{}, "Learn pointers")
	if errs := validateDetail(padded); len(errs) != 0 {
		t.Fatalf("padded detail must satisfy invariants: %v", errs)
	}
	if padded.Prerequisites == nil {
		t.Fatalf("prerequisites must be non-nil after padding")
	}
}

func TestPadDetailIsDeterministicAndPreservesContent(t *testing.T) {
	base := SubtaskDetail{
		Description:        "short",
		Resources:          []Resource{{Title: "kept", URL: "https://kept.example", Type: "article", Description: "d"}},
		PracticalExercises: []string{"kept exercise"},
	}
	a := PadDetail(base, "topic")
	b := PadDetail(base, "topic")
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("padding must be deterministic")
	}
	if a.Resources[0].Title != "kept" || a.PracticalExercises[0] != "kept exercise" {
		t.Fatalf("padding must preserve genuine content: %#v", a)
	}
}
