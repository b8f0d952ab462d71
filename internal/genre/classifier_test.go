package genre_test

import (
	"testing"

	"rotation/internal/genre"
)

func TestAdmitDecisionOrder(t *testing.T) {
	c := genre.NewClassifier(
		[]string{"punk", "metal", "shoegaze"},
		[]string{"prog metal", "edm"},
	)

	tests := []struct {
		name string
		tags []string
		want bool
	}{
		{"exclude wins over include", []string{"punk", "edm"}, false},
		{"exclude substring in tag", []string{"melodic prog metal revival"}, false},
		{"tag substring in exclude", []string{"prog"}, false},
		{"no tags accepted", nil, true},
		{"include match", []string{"garage punk"}, true},
		{"include pattern contains tag", []string{"gaze"}, true},
		{"tag inside exclude outranks include", []string{"met"}, false},
		{"three off-profile tags rejected", []string{"jazz", "bossa nova", "swing"}, false},
		{"two off-profile tags accepted", []string{"jazz", "bossa nova"}, true},
		{"case insensitive", []string{"PUNK"}, true},
		{"whitespace trimmed", []string{"  punk  "}, true},
		{"blank tags ignored", []string{"", "   "}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Admit(tt.tags); got != tt.want {
				t.Errorf("Admit(%v) = %v, want %v", tt.tags, got, tt.want)
			}
		})
	}
}

func TestAdmitIsPure(t *testing.T) {
	c := genre.NewClassifier([]string{"punk"}, []string{"edm"})
	tags := []string{"noise rock", "powerviolence"}

	first := c.Admit(tags)
	second := c.Admit(tags)
	if first != second {
		t.Fatalf("Admit not idempotent: %v then %v", first, second)
	}
	if tags[0] != "noise rock" || tags[1] != "powerviolence" {
		t.Fatalf("Admit mutated its input: %v", tags)
	}
}

func TestNilClassifierAdmitsEverything(t *testing.T) {
	var c *genre.Classifier
	if !c.Admit([]string{"anything", "at", "all", "whatsoever"}) {
		t.Fatal("nil classifier should admit")
	}
}

func TestEmptyListsFallThrough(t *testing.T) {
	c := genre.NewClassifier(nil, nil)
	if !c.Admit([]string{"ambient"}) {
		t.Fatal("single unmatched tag should be accepted")
	}
	if c.Admit([]string{"a", "b", "c"}) {
		t.Fatal("three unmatched tags should be rejected")
	}
}
