package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"

	"github.com/jiralite/tracker/internal/core/domain"
)

// issueFilterDeclarations lists the fields an AIP-160 issue filter may reference.
func issueFilterDeclarations() (*filtering.Declarations, error) {
	return filtering.NewDeclarations(
		filtering.DeclareStandardFunctions(),
		filtering.DeclareIdent("id", filtering.TypeInt),
		filtering.DeclareIdent("title", filtering.TypeString),
		filtering.DeclareIdent("status", filtering.TypeString),
		filtering.DeclareIdent("priority", filtering.TypeString),
		filtering.DeclareIdent("severity", filtering.TypeString),
		filtering.DeclareIdent("type", filtering.TypeString),
		filtering.DeclareIdent("assignee_id", filtering.TypeInt),
		filtering.DeclareIdent("reporter_id", filtering.TypeInt),
		filtering.DeclareIdent("created_at", filtering.TypeTimestamp),
	)
}

// parseIssueFilter applies an AIP-160 expression such as
//
//	status = "OPEN" AND title : "crash" AND created_at >= timestamp("2026-01-01T00:00:00Z")
//
// onto c. Only conjunctions are accepted since criteria are always ANDed.
func parseIssueFilter(raw string, c *domain.IssueCriteria) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	decls, err := issueFilterDeclarations()
	if err != nil {
		return fmt.Errorf("create declarations: %w", err)
	}
	filter, err := filtering.ParseFilterString(raw, decls)
	if err != nil {
		return fmt.Errorf("parse filter: %w", err)
	}
	return applyFilterExpr(filter.CheckedExpr.GetExpr(), c)
}

func applyFilterExpr(e *expr.Expr, c *domain.IssueCriteria) error {
	if e == nil {
		return nil
	}
	call, ok := e.ExprKind.(*expr.Expr_CallExpr)
	if !ok {
		return fmt.Errorf("unsupported expression: %T", e.ExprKind)
	}
	fn, args := call.CallExpr.Function, call.CallExpr.Args

	switch fn {
	case "_&&_", "AND":
		for _, arg := range args {
			if err := applyFilterExpr(arg, c); err != nil {
				return err
			}
		}
		return nil
	case "_==_", "=", ":", ">=", "<=":
		if len(args) != 2 {
			return fmt.Errorf("%s requires 2 arguments", fn)
		}
		field, err := filterField(args[0])
		if err != nil {
			return err
		}
		return applyComparison(field, fn, args[1], c)
	default:
		return fmt.Errorf("unsupported operator: %s", fn)
	}
}

func applyComparison(field, op string, value *expr.Expr, c *domain.IssueCriteria) error {
	if field == "created_at" {
		ts, err := filterTimestamp(value)
		if err != nil {
			return err
		}
		switch op {
		case ">=":
			return setOnce(&c.CreatedFrom, ts, field)
		case "<=":
			return setOnce(&c.CreatedTo, ts, field)
		}
		return fmt.Errorf("created_at supports only >= and <=")
	}

	if op == ">=" || op == "<=" {
		return fmt.Errorf("%s supports only equality", field)
	}
	if op == ":" && field != "title" {
		return fmt.Errorf("%s does not support ':'", field)
	}

	switch field {
	case "id", "assignee_id", "reporter_id":
		n, err := filterInt(value)
		if err != nil {
			return err
		}
		target := map[string]**int64{"id": &c.ID, "assignee_id": &c.AssigneeID, "reporter_id": &c.ReporterID}[field]
		return setOnce(target, n, field)
	}

	s, err := filterString(value)
	if err != nil {
		return err
	}
	switch field {
	case "title":
		return setOnce(&c.Title, s, field)
	case "status":
		v := domain.IssueStatus(s)
		if !v.Valid() {
			return fmt.Errorf("invalid status %q", s)
		}
		return setOnce(&c.Status, v, field)
	case "priority":
		v := domain.Priority(s)
		if !v.Valid() {
			return fmt.Errorf("invalid priority %q", s)
		}
		return setOnce(&c.Priority, v, field)
	case "severity":
		v := domain.Severity(s)
		if !v.Valid() {
			return fmt.Errorf("invalid severity %q", s)
		}
		return setOnce(&c.Severity, v, field)
	case "type":
		v := domain.IssueType(s)
		if !v.Valid() {
			return fmt.Errorf("invalid type %q", s)
		}
		return setOnce(&c.Type, v, field)
	}
	return fmt.Errorf("unknown field: %s", field)
}

// setOnce stores v in *dst, refusing to overwrite a constraint set earlier.
func setOnce[T any](dst **T, v T, field string) error {
	if *dst != nil {
		return fmt.Errorf("%s constrained more than once", field)
	}
	*dst = &v
	return nil
}

func filterField(e *expr.Expr) (string, error) {
	ident, ok := e.GetExprKind().(*expr.Expr_IdentExpr)
	if !ok {
		return "", fmt.Errorf("expected field name, got %T", e.GetExprKind())
	}
	return ident.IdentExpr.GetName(), nil
}

func filterString(e *expr.Expr) (string, error) {
	if s, ok := e.GetConstExpr().GetConstantKind().(*expr.Constant_StringValue); ok {
		return s.StringValue, nil
	}
	return "", fmt.Errorf("expected string value")
}

func filterInt(e *expr.Expr) (int64, error) {
	switch k := e.GetConstExpr().GetConstantKind().(type) {
	case *expr.Constant_Int64Value:
		return k.Int64Value, nil
	case *expr.Constant_StringValue:
		return strconv.ParseInt(k.StringValue, 10, 64)
	}
	return 0, fmt.Errorf("expected integer value")
}

func filterTimestamp(e *expr.Expr) (time.Time, error) {
	call := e.GetCallExpr()
	if call == nil || call.GetFunction() != "timestamp" || len(call.GetArgs()) != 1 {
		return time.Time{}, fmt.Errorf(`expected timestamp("RFC3339")`)
	}
	s, err := filterString(call.GetArgs()[0])
	if err != nil {
		return time.Time{}, err
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return ts.UTC(), nil
}
