package canonical

import (
	"testing"

	"github.com/cognicore/lens/pkg/lens/config"
)

func newTestCanonicalizer() *Canonicalizer {
	return New(config.Default().Aliases)
}

func TestDimensionAliasShadowsGeneric(t *testing.T) {
	c := newTestCanonicalizer()

	if got := c.Value("payment_method", "Credit Card"); got != "CC" {
		t.Errorf("payment_method credit card = %q, want CC", got)
	}
	if got := c.Value("payment_method", "cash on delivery"); got != "COD" {
		t.Errorf("payment_method cash on delivery = %q, want COD", got)
	}
	// Outside the dimension the generic table applies.
	if got := c.Value("notes", "credit card"); got != "Credit Card" {
		t.Errorf("generic credit card = %q, want Credit Card", got)
	}
}

func TestValueIdempotent(t *testing.T) {
	c := newTestCanonicalizer()

	inputs := []struct{ dim, raw string }{
		{"payment_method", "Credit Card"},
		{"payment_method", "cod"},
		{"destination", "جدة"},
		{"carrier", "dhl"},
		{"notes", "  mixed   Case value "},
		{"status", "IN TRANSIT"},
	}
	for _, in := range inputs {
		once := c.Value(in.dim, in.raw)
		twice := c.Value(in.dim, once)
		if once != twice {
			t.Errorf("Value(%q, %q): not idempotent, %q then %q", in.dim, in.raw, once, twice)
		}
	}
}

func TestShortTokensUppercased(t *testing.T) {
	c := newTestCanonicalizer()
	if got := c.Value("carrier", "ups"); got != "UPS" {
		t.Errorf("ups = %q, want UPS", got)
	}
	if got := c.Value("carrier", "aramex"); got != "Aramex" {
		t.Errorf("aramex = %q, want Aramex", got)
	}
}

func TestRTLTokensUnchanged(t *testing.T) {
	c := newTestCanonicalizer()
	if got := c.Value("destination", "جدة"); got != "جدة" {
		t.Errorf("Arabic value changed: %q", got)
	}
	if got := c.Value("destination", "مدينة جدة"); got != "مدينة جدة" {
		t.Errorf("Arabic phrase changed: %q", got)
	}
}

func TestTitleCaseDefault(t *testing.T) {
	c := newTestCanonicalizer()
	if got := c.Value("city", "new york city"); got != "New York City" {
		t.Errorf("title case = %q", got)
	}
}

func TestWhitespaceCollapsed(t *testing.T) {
	c := newTestCanonicalizer()
	if got := c.Value("payment_method", "  credit    card "); got != "CC" {
		t.Errorf("whitespace-padded alias = %q, want CC", got)
	}
	if got := c.Value("x", "   "); got != "" {
		t.Errorf("blank value = %q, want empty", got)
	}
}
