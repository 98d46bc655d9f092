package dsl

import (
	"fmt"
	"math"
	"strconv"
	"time"

	formskema "github.com/reoring/formskema"
	"github.com/reoring/formskema/i18n"
)

// Node is the closed set of schema node kinds. Every implementation lives in
// this package; the engine and TypeOf switch over them exhaustively.
//
// Nodes are immutable values: builder methods and derivations return new
// nodes, so a node can be shared freely across goroutines and validations.
type Node interface {
	Kind() NodeKind
	sealed()
}

// NodeKind names the variant of a Node.
type NodeKind int

const (
	KindString NodeKind = iota
	KindNumber
	KindBool
	KindDate
	KindEnum
	KindOptional
	KindNullable
	KindDefault
	KindPreprocess
	KindObject
	KindArray
	KindRefined
)

func (k NodeKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindDate:
		return "date"
	case KindEnum:
		return "enum"
	case KindOptional:
		return "optional"
	case KindNullable:
		return "nullable"
	case KindDefault:
		return "default"
	case KindPreprocess:
		return "preprocess"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindRefined:
		return "refined"
	}
	return "unknown"
}

// check is one constraint of a primitive node. The message is resolved at
// validation time so that language switches apply to prebuilt schemas.
type check[V any] struct {
	code   string
	msgKey string
	params map[string]any
	custom string
	ok     func(V) bool
}

func (c check[V]) issue(path formskema.Path) formskema.Issue {
	msg := c.custom
	if msg == "" {
		msg = i18n.T(c.msgKey, stringParams(c.params))
	}
	return formskema.Issue{Path: path, Code: c.code, Message: msg, Params: c.params}
}

// appendCheck never writes into the backing array of checks, so sibling
// builders derived from the same node cannot observe each other.
func appendCheck[V any](checks []check[V], c check[V]) []check[V] {
	out := make([]check[V], len(checks), len(checks)+1)
	copy(out, checks)
	return append(out, c)
}

func runChecks[V any](checks []check[V], v V, path formskema.Path) formskema.Issues {
	var iss formskema.Issues
	for _, c := range checks {
		if !c.ok(v) {
			iss = formskema.AppendIssues(iss, c.issue(path))
		}
	}
	return iss
}

func firstMsg(msg []string) string {
	if len(msg) == 0 {
		return ""
	}
	return msg[0]
}

func stringParams(p map[string]any) map[string]string {
	if len(p) == 0 {
		return nil
	}
	out := make(map[string]string, len(p))
	for k, v := range p {
		out[k] = formatParam(v)
	}
	return out
}

func formatParam(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case []string:
		s := ""
		for i, x := range t {
			if i > 0 {
				s += " | "
			}
			s += strconv.Quote(x)
		}
		return s
	}
	return fmt.Sprint(v)
}

// typeIssue reports a type mismatch; received is derived from the raw input.
func typeIssue(path formskema.Path, expected string, in any) formskema.Issue {
	params := map[string]any{"expected": expected, "received": receivedType(in)}
	return formskema.Issue{Path: path, Code: formskema.CodeInvalidType, Message: i18n.T(formskema.CodeInvalidType, stringParams(params)), Params: params}
}

func requiredIssue(path formskema.Path) formskema.Issue {
	return formskema.Issue{Path: path, Code: formskema.CodeRequired, Message: i18n.T(formskema.CodeRequired, nil)}
}

func receivedType(in any) string {
	switch t := in.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64:
		if math.IsNaN(t) {
			return "nan"
		}
		return "number"
	case float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "number"
	case time.Time:
		return "date"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	}
	if formskema.IsUndefined(in) {
		return "undefined"
	}
	return fmt.Sprintf("%T", in)
}
