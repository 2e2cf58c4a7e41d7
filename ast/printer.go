package ast

import (
	"strconv"
	"strings"
)

// Format renders n in the nested constructor notation used by the
// compiler's diagnostics, e.g. Code(Addition(Number(1),Number(2))).
func Format(n Node) string {
	s, _ := Visit[string](formatter{}, n)
	return s
}

// ToSExpr renders n as an s-expression, e.g. (code (binary "+" 1 2)).
func ToSExpr(n Node) string {
	s, _ := Visit[string](sexprPrinter{}, n)
	return s
}

type formatter struct{}

func (f formatter) VisitCode(n *Code) (string, error) {
	parts := make([]string, len(n.Statements))
	for i, stmt := range n.Statements {
		parts[i] = Format(stmt)
	}
	return "Code(" + strings.Join(parts, ",") + ")", nil
}

func (f formatter) VisitPrint(n *Print) (string, error) {
	return "Print(" + Format(n.Value) + ")", nil
}

func (f formatter) VisitAssign(n *Assign) (string, error) {
	return "Assign(" + n.Name + "," + Format(n.Value) + ")", nil
}

func (f formatter) VisitLoad(n *Load) (string, error) {
	return "Load(" + n.Name + ")", nil
}

func (f formatter) VisitBinOp(n *BinOp) (string, error) {
	return n.Op.String() + "(" + Format(n.Left) + "," + Format(n.Right) + ")", nil
}

func (f formatter) VisitNumber(n *Number) (string, error) {
	return "Number(" + strconv.FormatInt(n.Value, 10) + ")", nil
}

func (f formatter) VisitFunction(n *Function) (string, error) {
	return "Function(" + strings.Join(n.Params, " ") + " -> " + Format(n.Body) + ")", nil
}

type sexprPrinter struct{}

func (p sexprPrinter) VisitCode(n *Code) (string, error) {
	result := "(code"
	for _, stmt := range n.Statements {
		result += " " + ToSExpr(stmt)
	}
	return result + ")", nil
}

func (p sexprPrinter) VisitPrint(n *Print) (string, error) {
	return "(print " + ToSExpr(n.Value) + ")", nil
}

func (p sexprPrinter) VisitAssign(n *Assign) (string, error) {
	return "(assign " + strconv.Quote(n.Name) + " " + ToSExpr(n.Value) + ")", nil
}

func (p sexprPrinter) VisitLoad(n *Load) (string, error) {
	return "(var " + strconv.Quote(n.Name) + ")", nil
}

func (p sexprPrinter) VisitBinOp(n *BinOp) (string, error) {
	left := ToSExpr(n.Left)
	right := ToSExpr(n.Right)
	return "(binary " + strconv.Quote(n.Op.Symbol()) + " " + left + " " + right + ")", nil
}

func (p sexprPrinter) VisitNumber(n *Number) (string, error) {
	return strconv.FormatInt(n.Value, 10), nil
}

func (p sexprPrinter) VisitFunction(n *Function) (string, error) {
	params := make([]string, len(n.Params))
	for i, param := range n.Params {
		params[i] = strconv.Quote(param)
	}
	return "(fun (" + strings.Join(params, " ") + ") " + ToSExpr(n.Body) + ")", nil
}
