package previewengine

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func firstNonEmpty(v ...string) string {
	for _, s := range v {
		if strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func joinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, sep)
}

func statusTone(code StatusCode) string {
	switch code {
	case StatusAction:
		return "action"
	case StatusWarning:
		return "warn"
	default:
		return "ok"
	}
}

// stableRunID is a content-addressed run identifier for logs and summaries.
// It never appears in emitted artifacts, which must be byte-identical across
// reruns of the same input.
func stableRunID(inputPath string, payload []byte) string {
	h := sha256.New()
	h.Write([]byte(inputPath))
	h.Write([]byte{0})
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}
