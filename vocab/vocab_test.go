package vocab

import "testing"

func TestCorrectDefaults(t *testing.T) {
	table := New(Defaults())

	cases := []struct {
		in, want string
	}{
		{"use n eight n for automation", "use n8n for automation"},
		{"NATEON is great", "n8n is great"},
		{"I prefer retail over other tools", "I prefer Retell over other tools"},
		{"re-tell the story", "Retell the story"},
		{"nothing to fix here", "nothing to fix here"},
	}
	for _, c := range cases {
		if got := table.Correct(c.in); got != c.want {
			t.Errorf("Correct(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCorrectWholeTokensOnly(t *testing.T) {
	table := New([]Entry{{Canonical: "n8n", Variants: []string{"A10"}}})

	// A10 inside A100 must not fire.
	if got := table.Correct("we rent an A100 GPU"); got != "we rent an A100 GPU" {
		t.Errorf("partial token rewritten: %q", got)
	}
	if got := table.Correct("we rent an A10 GPU"); got != "we rent an n8n GPU" {
		t.Errorf("whole token not rewritten: %q", got)
	}
}

func TestCorrectCaseInsensitive(t *testing.T) {
	table := New([]Entry{{Canonical: "Retell", Variants: []string{"retail"}}})

	if got := table.Correct("RETAIL and Retail and retail"); got != "Retell and Retell and Retell" {
		t.Errorf("got %q", got)
	}
}

func TestCorrectSequentialOrder(t *testing.T) {
	// The second entry rewrites text produced by the first.
	table := New([]Entry{
		{Canonical: "beta", Variants: []string{"alpha"}},
		{Canonical: "gamma", Variants: []string{"beta"}},
	})
	if got := table.Correct("alpha"); got != "gamma" {
		t.Errorf("got %q, want %q", got, "gamma")
	}
}

func TestCorrectIdempotentOnCleanText(t *testing.T) {
	table := New(Defaults())
	clean := "the quick brown fox"
	once := table.Correct(clean)
	if once != clean {
		t.Fatalf("variant-free text changed: %q", once)
	}
	if twice := table.Correct(once); twice != once {
		t.Errorf("Correct not idempotent: %q then %q", once, twice)
	}
}

func TestCorrectDeterministic(t *testing.T) {
	table := New(Defaults())
	in := "n eight n calls retail which calls n 8 n"
	first := table.Correct(in)
	for i := 0; i < 20; i++ {
		if got := table.Correct(in); got != first {
			t.Fatalf("run %d produced %q, first run produced %q", i, got, first)
		}
	}
}

func TestNewSkipsEmptyVariants(t *testing.T) {
	table := New([]Entry{
		{Canonical: "x", Variants: []string{"", "  ", "y"}},
		{Canonical: "", Variants: []string{"z"}},
	})
	if table.Len() != 1 {
		t.Errorf("Len() = %d, want 1", table.Len())
	}
	if got := table.Correct("y z"); got != "x z" {
		t.Errorf("got %q, want %q", got, "x z")
	}
}

func TestCorrectEmptyTable(t *testing.T) {
	table := New(nil)
	if got := table.Correct("hello world"); got != "hello world" {
		t.Errorf("empty table changed text: %q", got)
	}
}
