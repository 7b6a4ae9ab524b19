package normalize

import (
	"fmt"
	"strconv"
	"strings"
)

// KeySeparator joins the per-column parts of a composite key. The unit
// separator control character never appears in cell text, so a two-column
// key ("a", "bc") can never collide with ("ab", "c").
const KeySeparator = "\x1f"

// String converts any cell value into its canonical comparable form.
// Nil becomes the empty string, strings are trimmed of surrounding
// whitespace (case is preserved), and every other scalar is rendered
// through its standard string form before trimming. Every input has a
// defined result; this never fails.
func String(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case []byte:
		return strings.TrimSpace(string(v))
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

// Key builds a composite key from already-normalized parts.
func Key(parts []string) string {
	return strings.Join(parts, KeySeparator)
}

// KeyParts splits a composite key back into its normalized parts.
func KeyParts(key string) []string {
	return strings.Split(key, KeySeparator)
}

// SplitColumns parses a caller-supplied comma-delimited column list,
// trimming whitespace around each name and dropping empty entries.
func SplitColumns(list string) []string {
	raw := strings.Split(list, ",")
	cols := make([]string, 0, len(raw))
	for _, name := range raw {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cols = append(cols, trimmed)
		}
	}
	return cols
}

// ShortCode derives the report grouping code from a display name:
// the first 4 runes of the trimmed name.
func ShortCode(name string) string {
	runes := []rune(strings.TrimSpace(name))
	if len(runes) > 4 {
		runes = runes[:4]
	}
	return string(runes)
}
