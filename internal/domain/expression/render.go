package expression

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr/ast"
)

// FEEL operator precedence, loosest first.
const (
	precLowest = iota
	precIf
	precOr
	precAnd
	precCompare
	precAdd
	precMul
	precUnary
	precPrimary
)

var binaryOperators = map[string]struct {
	feel string
	prec int
}{
	"||":  {"or", precOr},
	"or":  {"or", precOr},
	"&&":  {"and", precAnd},
	"and": {"and", precAnd},
	"==":  {"=", precCompare},
	"!=":  {"!=", precCompare},
	"<":   {"<", precCompare},
	">":   {">", precCompare},
	"<=":  {"<=", precCompare},
	">=":  {">=", precCompare},
	"+":   {"+", precAdd},
	"-":   {"-", precAdd},
	"*":   {"*", precMul},
	"/":   {"/", precMul},
}

// renderer produces FEEL text for an expr AST. Unsupported nodes are still
// rendered, as close to the source as possible, and recorded as issues.
type renderer struct {
	contextObjects map[string]bool
	issues         []string
}

func (r *renderer) unsupported(format string, args ...any) {
	r.issues = append(r.issues, fmt.Sprintf(format, args...))
}

// node renders n; parent is the precedence of the enclosing operator.
func (r *renderer) node(n ast.Node, parent int) string {
	s, prec := r.render(n)
	if prec < parent {
		return "(" + s + ")"
	}
	return s
}

func (r *renderer) render(n ast.Node) (string, int) {
	switch n := n.(type) {
	case *ast.NilNode:
		return "null", precPrimary
	case *ast.BoolNode:
		return strconv.FormatBool(n.Value), precPrimary
	case *ast.IntegerNode:
		return strconv.Itoa(n.Value), precPrimary
	case *ast.FloatNode:
		return strconv.FormatFloat(n.Value, 'f', -1, 64), precPrimary
	case *ast.StringNode:
		return Quote(n.Value), precPrimary
	case *ast.IdentifierNode:
		if n.Value == "null" {
			return "null", precPrimary
		}
		if r.contextObjects[n.Value] {
			r.unsupported("engine context object %q", n.Value)
		}
		return n.Value, precPrimary
	case *ast.MemberNode:
		return r.member(n), precPrimary
	case *ast.ChainNode:
		return r.render(n.Node)
	case *ast.UnaryNode:
		return r.unary(n)
	case *ast.BinaryNode:
		return r.binary(n)
	case *ast.ConditionalNode:
		if n.Exp1 == n.Cond {
			r.unsupported("elvis operator ?:")
		}
		return fmt.Sprintf("if %s then %s else %s",
			r.node(n.Cond, precLowest), r.node(n.Exp1, precLowest), r.node(n.Exp2, precIf)), precIf
	case *ast.CallNode:
		callee := r.node(n.Callee, precPrimary)
		r.unsupported("method call %s()", callee)
		return callee + "(" + r.list(n.Arguments) + ")", precPrimary
	case *ast.BuiltinNode:
		r.unsupported("function call %s()", n.Name)
		return n.Name + "(" + r.list(n.Arguments) + ")", precPrimary
	case *ast.ArrayNode:
		r.unsupported("list literal")
		return "[" + r.list(n.Nodes) + "]", precPrimary
	default:
		r.unsupported("unsupported construct %T", n)
		return strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast."), precPrimary
	}
}

func (r *renderer) member(n *ast.MemberNode) string {
	base := r.node(n.Node, precPrimary)
	if n.Optional {
		r.unsupported("optional chaining")
	}
	if prop, ok := n.Property.(*ast.StringNode); ok && IsIdentifier(prop.Value) {
		return base + "." + prop.Value
	}
	idx := r.node(n.Property, precLowest)
	r.unsupported("index access %s[%s]", base, idx)
	return base + "[" + idx + "]"
}

func (r *renderer) unary(n *ast.UnaryNode) (string, int) {
	switch n.Operator {
	case "!", "not":
		return "not(" + r.node(n.Node, precLowest) + ")", precPrimary
	case "-":
		// -(-a), never --a
		return "-" + r.node(n.Node, precPrimary), precUnary
	case "+":
		return r.node(n.Node, precUnary), precUnary
	}
	r.unsupported("operator %q", n.Operator)
	return n.Operator + r.node(n.Node, precUnary), precUnary
}

func (r *renderer) binary(n *ast.BinaryNode) (string, int) {
	if arithmetic[n.Operator] && (isString(n.Left) || isString(n.Right)) {
		// EL coerces string operands to numbers, FEEL does not
		r.unsupported("arithmetic on string literal with %q", n.Operator)
	}
	if n.Operator == "%" {
		return "modulo(" + r.node(n.Left, precLowest) + ", " + r.node(n.Right, precLowest) + ")", precPrimary
	}
	op, ok := binaryOperators[n.Operator]
	if !ok {
		r.unsupported("operator %q", n.Operator)
		op.feel, op.prec = n.Operator, precCompare
	}
	left := r.node(n.Left, op.prec)
	// right operands of equal precedence keep explicit grouping: a - (b - c)
	right := r.node(n.Right, op.prec+1)
	return left + " " + op.feel + " " + right, op.prec
}

var arithmetic = map[string]bool{"+": true, "-": true, "*": true, "/": true, "%": true}

func isString(n ast.Node) bool {
	_, ok := n.(*ast.StringNode)
	return ok
}

func (r *renderer) list(nodes []ast.Node) string {
	parts := make([]string, len(nodes))
	for i, a := range nodes {
		parts[i] = r.node(a, precLowest)
	}
	return strings.Join(parts, ", ")
}
