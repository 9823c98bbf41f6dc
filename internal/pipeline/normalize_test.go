package pipeline

import (
	"testing"

	"lookbook/internal/vocab"
)

func TestCleanLine(t *testing.T) {
	v := vocab.Summer()
	cases := []struct {
		in   string
		want string
	}{
		{"i Loro Piana sandal", "Loro Piana sandal"},
		{"of Zegna linen shirt", "Zegna linen shirt"},
		{"12 Kiton polo", "Kiton polo"},
		{"*** Brioni blazer", "Brioni blazer"},
		{"_Cucinelli| “polo”", "Cucinelli polo"},
		{"Drake’s oxford shirt", "Drake's oxford shirt"},
		{"  spaced   out  ", "spaced out"},
		{"", ""},
	}
	for _, c := range cases {
		if got := CleanLine(v, c.in); got != c.want {
			t.Fatalf("CleanLine(%q)=%q want %q", c.in, got, c.want)
		}
	}
}

func TestCleanLineStackedArtifacts(t *testing.T) {
	v := vocab.Summer()
	got := CleanLine(v, "12 7 polo shirt")
	if got != "polo shirt" {
		t.Fatalf("got %q", got)
	}
	// Cleaning is idempotent.
	if again := CleanLine(v, got); again != got {
		t.Fatalf("second pass changed %q to %q", got, again)
	}
}

func TestCleanLineIdempotent(t *testing.T) {
	v := vocab.FallWinter()
	inputs := []string{
		"i of 3 The Row woolly trouser",
		"| Saint Laurent trench coat",
		"1 Brioni brown corduroy",
		"plain line with no junk",
	}
	for _, in := range inputs {
		once := CleanLine(v, in)
		twice := CleanLine(v, once)
		if once != twice {
			t.Fatalf("CleanLine(%q): %q then %q", in, once, twice)
		}
	}
}
