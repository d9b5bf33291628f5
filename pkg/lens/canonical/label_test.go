package canonical

import "testing"

func TestDecodeLabelPlain(t *testing.T) {
	parts := DecodeLabel("Revenue", "rev")
	if parts.Primary != "Revenue" || parts.Combined != "Revenue" || parts.Secondary != "" {
		t.Errorf("plain label: %+v", parts)
	}
}

func TestDecodeLabelNearJSON(t *testing.T) {
	parts := DecodeLabel("{'en': 'Destination', 'ar': 'الوجهة'}", "destination")
	if parts.Primary != "Destination" {
		t.Errorf("primary = %q", parts.Primary)
	}
	if parts.Secondary != "الوجهة" {
		t.Errorf("secondary = %q", parts.Secondary)
	}
	if parts.Combined != "Destination (الوجهة)" {
		t.Errorf("combined = %q", parts.Combined)
	}
}

func TestDecodeLabelPythonLiterals(t *testing.T) {
	parts := DecodeLabel("{'en': 'Active', 'ar': None}", "active")
	if parts.Primary != "Active" || parts.Secondary != "" {
		t.Errorf("None handling: %+v", parts)
	}
	if parts.Combined != "Active" {
		t.Errorf("combined = %q", parts.Combined)
	}
}

func TestDecodeLabelRegexFallback(t *testing.T) {
	// Broken brace nesting defeats the JSON parse; the regex scan still
	// finds both keys.
	parts := DecodeLabel(`{'en': 'Status', 'ar': 'الحالة', 'meta': {broken`, "status")
	if parts.Primary != "Status" || parts.Secondary != "الحالة" {
		t.Errorf("regex fallback: %+v", parts)
	}
}

func TestDecodeLabelArabicOnly(t *testing.T) {
	parts := DecodeLabel("{'ar': 'المدينة'}", "city")
	if parts.Primary != "المدينة" || parts.Secondary != "" {
		t.Errorf("ar-only: %+v", parts)
	}
}

func TestDecodeLabelEmptyUsesFallback(t *testing.T) {
	parts := DecodeLabel("", "order_date")
	if parts.Primary != "order_date" {
		t.Errorf("fallback primary = %q", parts.Primary)
	}
	parts = DecodeLabel("{}", "order_date")
	if parts.Primary != "order_date" {
		t.Errorf("empty map fallback primary = %q", parts.Primary)
	}
}

func TestDecodeLabelSameBothLanguages(t *testing.T) {
	parts := DecodeLabel("{'en': 'SKU', 'ar': 'SKU'}", "sku")
	if parts.Combined != "SKU" {
		t.Errorf("identical languages should not duplicate: %q", parts.Combined)
	}
}
