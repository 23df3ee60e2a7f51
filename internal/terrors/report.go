package terrors

import "github.com/triplang/tripc/internal/schema"

// Report is the JSON-serializable projection of an Error, used by CLI
// surfaces and tooling that want machine-readable diagnostics rather than a
// one-line message. It mirrors the teacher's errors.Report shape.
type Report struct {
	Schema  string `json:"schema"`
	Code    string `json:"code"`
	Phase   string `json:"phase"`
	Message string `json:"message"`
	Term    string `json:"term,omitempty"`
}

// ToReport converts an *Error to its JSON-serializable Report.
func (e *Error) ToReport() *Report {
	return &Report{
		Schema:  schema.ErrorV1,
		Code:    e.Code,
		Phase:   string(e.Kind),
		Message: e.Message,
		Term:    e.Term,
	}
}

// ToJSON renders the error as deterministic (sorted-key) JSON.
func (e *Error) ToJSON() (string, error) {
	data, err := schema.MarshalDeterministic(e.ToReport())
	if err != nil {
		return "", err
	}
	return string(data), nil
}
