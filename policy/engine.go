// Package policy evaluates the chat admission policy with OPA.
package policy

import (
	"context"
	"fmt"
	"os"

	"github.com/open-policy-agent/opa/v1/rego"
)

// Decisions returned by the policy.
const (
	DecisionAllow  = "allow"
	DecisionReject = "reject"
)

// Input is the document the policy is evaluated against.
type Input struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	MaxLength int    `json:"max_length"`
}

// Result is the outcome of a policy evaluation.
type Result struct {
	Decision string
	Reason   string
}

// Allowed reports whether the message may proceed.
func (r Result) Allowed() bool {
	return r.Decision != DecisionReject
}

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given rego module. The
// module must declare package chat_policy.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.chat_policy"),
		rego.Module("chat_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// NewEngineFromFile loads the rego module at path, or DefaultPolicy when path is empty.
func NewEngineFromFile(ctx context.Context, path string) (*Engine, error) {
	if path == "" {
		return NewEngine(ctx, DefaultPolicy)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	return NewEngine(ctx, string(content))
}

// Evaluate checks a message against the policy. A policy that yields no
// decision allows the message.
func (e *Engine) Evaluate(ctx context.Context, input Input) (Result, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return Result{}, fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return Result{Decision: DecisionAllow}, nil
	}

	doc, ok := results[0].Expressions[0].Value.(map[string]interface{})
	if !ok {
		return Result{}, fmt.Errorf("unexpected policy document type %T", results[0].Expressions[0].Value)
	}

	res := Result{Decision: DecisionAllow}
	if d, ok := doc["decision"].(string); ok && d != "" {
		res.Decision = d
	}
	if r, ok := doc["reason"].(string); ok {
		res.Reason = r
	}
	return res, nil
}

// DefaultPolicy rejects blank messages and, when max_length is set, messages
// longer than max_length characters.
const DefaultPolicy = `
package chat_policy

default decision := "allow"

default reason := ""

blank if trim_space(input.message) == ""

too_long if {
	input.max_length > 0
	count(input.message) > input.max_length
}

decision := "reject" if blank

decision := "reject" if too_long

reason := "Error: prompt is empty." if blank

reason := "Error: prompt is too long." if {
	not blank
	too_long
}
`
