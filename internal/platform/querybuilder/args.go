package querybuilder

import (
	"strconv"
	"strings"
)

// argList collects bind values and hands out postgres placeholders.
type argList struct {
	values []any
}

func (a *argList) bind(value any) string {
	a.values = append(a.values, value)
	return "$" + strconv.Itoa(len(a.values))
}

// rewrite replaces each '?' in expr with the next bound placeholder.
// Extra '?' without a matching value are kept as-is.
func (a *argList) rewrite(expr string, values []any) string {
	if len(values) == 0 {
		return expr
	}

	var out strings.Builder
	next := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] != '?' || next >= len(values) {
			out.WriteByte(expr[i])
			continue
		}
		out.WriteString(a.bind(values[next]))
		next++
	}
	return out.String()
}
