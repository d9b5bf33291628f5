package insighttext

import "testing"

func TestStripPlainText(t *testing.T) {
	if got := Strip("COD rate rose  in Jeddah"); got != "COD rate rose in Jeddah" {
		t.Errorf("plain = %q", got)
	}
}

func TestStripMarkup(t *testing.T) {
	in := `<p>COD rate rose <b>12%</b> in <span class="dim">جدة</span></p>`
	want := "COD rate rose 12% in جدة"
	if got := Strip(in); got != want {
		t.Errorf("Strip = %q, want %q", got, want)
	}
}

func TestStripEmpty(t *testing.T) {
	if got := Strip(""); got != "" {
		t.Errorf("empty = %q", got)
	}
}
