package canonical

import (
	"encoding/json"
	"regexp"
	"strings"
)

// LabelParts is the decoded form of a bilingual column label.
type LabelParts struct {
	Primary   string
	Secondary string
	Combined  string
}

type encodedLabel struct {
	EN string `json:"en"`
	AR string `json:"ar"`
}

var (
	pyNone  = regexp.MustCompile(`\bNone\b`)
	pyTrue  = regexp.MustCompile(`\bTrue\b`)
	pyFalse = regexp.MustCompile(`\bFalse\b`)

	enKeyRe = regexp.MustCompile(`['"]en['"]\s*:\s*['"]([^'"]*)['"]`)
	arKeyRe = regexp.MustCompile(`['"]ar['"]\s*:\s*['"]([^'"]*)['"]`)
)

// DecodeLabel resolves a column label that may be plain text or a bilingual
// map serialized as a near-JSON string (single quotes, None/True/False).
// When both languages resolve to different strings, Combined is
// "primary (secondary)". The fallback is used when nothing decodes.
func DecodeLabel(raw, fallback string) LabelParts {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return plainLabel(fallback)
	}
	if !strings.HasPrefix(trimmed, "{") {
		return plainLabel(trimmed)
	}

	enc, ok := decodeEncoded(trimmed)
	if !ok {
		return plainLabel(firstNonEmpty(fallback, trimmed))
	}

	primary := strings.TrimSpace(enc.EN)
	secondary := strings.TrimSpace(enc.AR)
	if primary == "" {
		primary, secondary = secondary, ""
	}
	if primary == "" {
		return plainLabel(fallback)
	}

	parts := LabelParts{Primary: primary, Secondary: secondary, Combined: primary}
	if secondary != "" && secondary != primary {
		parts.Combined = primary + " (" + secondary + ")"
	}
	return parts
}

// decodeEncoded repairs a near-JSON map and parses it. On parse failure it
// regex-scans for the en/ar keys.
func decodeEncoded(s string) (encodedLabel, bool) {
	repaired := repairJSON(s)

	var enc encodedLabel
	if err := json.Unmarshal([]byte(repaired), &enc); err == nil {
		if enc.EN != "" || enc.AR != "" {
			return enc, true
		}
	}

	if m := enKeyRe.FindStringSubmatch(s); m != nil {
		enc.EN = m[1]
	}
	if m := arKeyRe.FindStringSubmatch(s); m != nil {
		enc.AR = m[1]
	}
	return enc, enc.EN != "" || enc.AR != ""
}

// repairJSON converts the Python-flavored encoding to valid JSON.
func repairJSON(s string) string {
	out := strings.ReplaceAll(s, "'", `"`)
	out = pyNone.ReplaceAllString(out, "null")
	out = pyTrue.ReplaceAllString(out, "true")
	out = pyFalse.ReplaceAllString(out, "false")
	return out
}

func plainLabel(s string) LabelParts {
	s = strings.TrimSpace(s)
	return LabelParts{Primary: s, Combined: s}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
