package types

import (
	"strings"
)

// DescribeParams renders a type parameter list as it would be declared, like '<out T : Number, U>'
func DescribeParams(params []*TypeParameter) string {
	if len(params) == 0 {
		return ""
	}
	strs := make([]string, len(params))
	for i, p := range params {
		strs[i] = p.String()
	}
	return "<" + strings.Join(strs, ", ") + ">"
}

// DescribeFunction renders the resolved signature of fn
func DescribeFunction(fn *FunctionDef) string {
	sb := strings.Builder{}
	sb.WriteString("fun ")
	if len(fn.TypeParams) > 0 {
		sb.WriteString(DescribeParams(fn.TypeParams))
		sb.WriteByte(' ')
	}
	sb.WriteString(fn.Name)
	sb.WriteByte('(')
	for i, p := range fn.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Name)
		sb.WriteString(": ")
		sb.WriteString(p.Type.String())
	}
	sb.WriteString("): ")
	sb.WriteString(fn.Return.String())
	return sb.String()
}
