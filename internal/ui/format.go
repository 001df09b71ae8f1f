package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is how dates are shown and typed.
const DateLayout = "2006-01-02"

// Format renders a value the way Write shows it.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case string:
		return x
	case bool:
		if x {
			return "True"
		}
		return "False"
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case time.Time:
		return x.Format(DateLayout)
	case []string:
		quoted := make([]string, len(x))
		for i, s := range x {
			quoted[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	case *UploadedFile:
		if x == nil {
			return "None"
		}
		return fmt.Sprintf("%s (%d bytes)", x.Name, x.Size)
	case fmt.Stringer:
		return x.String()
	case error:
		return x.Error()
	}
	return fmt.Sprint(v)
}
