package utils

// MaskSecret redacts a credential for log output, keeping the first four
// characters so operators can tell configured accounts apart.
func MaskSecret(s string) string {
	if len(s) <= 4 {
		return "***"
	}
	return s[:4] + "***"
}
