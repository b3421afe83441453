package structure

import "strings"

// stringsRawBytes joins strs NUL-separated with a trailing NUL terminator,
// the CHARSTAR8 payload convention this package reads and writes (mirrors
// composite.StringToRawBytes for the tree's own string leaves).
func stringsRawBytes(strs []string) []byte {
	joined := strings.Join(strs, "\x00")

	return append([]byte(joined), 0)
}

// StringsRawBytes exports stringsRawBytes for callers outside this package
// that write CHARSTAR8 payloads directly (builder.Builder.AddStringData).
func StringsRawBytes(strs []string) []byte { return stringsRawBytes(strs) }

// splitRawStrings reverses stringsRawBytes: it splits on NUL and drops the
// trailing empty element left by the terminating NUL.
func splitRawStrings(data []byte) []string {
	parts := strings.Split(string(data), "\x00")
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}

	return parts
}
