package querybuilder

import "strings"

type Condition interface {
	writeSQL(buf *strings.Builder, args *argList)
}

type eqCondition struct {
	column string
	value  any
}

func Eq(column string, value any) Condition {
	return eqCondition{column: column, value: value}
}

func (c eqCondition) writeSQL(buf *strings.Builder, args *argList) {
	buf.WriteString(c.column)
	buf.WriteString(" = ")
	buf.WriteString(args.bind(c.value))
}

type exprCondition struct {
	expr   string
	values []any
}

// Expr embeds a raw predicate. Use '?' for bind values.
func Expr(expr string, values ...any) Condition {
	return exprCondition{expr: expr, values: values}
}

func (c exprCondition) writeSQL(buf *strings.Builder, args *argList) {
	buf.WriteString(args.rewrite(c.expr, c.values))
}

func writeWhere(buf *strings.Builder, conditions []Condition, args *argList) {
	if len(conditions) == 0 {
		return
	}
	buf.WriteString(" WHERE ")
	for i, c := range conditions {
		if i > 0 {
			buf.WriteString(" AND ")
		}
		c.writeSQL(buf, args)
	}
}
