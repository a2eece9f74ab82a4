package analysis_test

import (
	"slices"
	"testing"

	"github.com/readcoach-ai/readcoach/internal/analysis"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want string
	}{
		{"Hello,", "hello"},
		{"WORLD!", "world"},
		{"don't", "dont"},
		{"  padded  ", "padded"},
		{"...", ""},
		{"", ""},
		{"(brackets)", "brackets"},
	}
	for _, c := range cases {
		if got := analysis.Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	got := analysis.Tokenize("The quick, brown fox — jumped!")
	want := []string{"the", "quick", "brown", "fox", "jumped"}
	if !slices.Equal(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenize_EmptyInput(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "   ", "... !!!"} {
		if got := analysis.Tokenize(in); len(got) != 0 {
			t.Errorf("Tokenize(%q) = %v, want empty", in, got)
		}
	}
}

func TestTokenize_DuplicatesPreserved(t *testing.T) {
	t.Parallel()

	got := analysis.Tokenize("round and round and round")
	if len(got) != 5 {
		t.Errorf("len = %d, want 5 (duplicates must be preserved in order)", len(got))
	}
}
