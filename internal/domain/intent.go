package domain

// IntentKind is what the user wants done with the request.
type IntentKind string

// Intent kinds.
const (
	IntentCreate   IntentKind = "create"
	IntentModify   IntentKind = "modify"
	IntentQuestion IntentKind = "question"
)

// String returns the string representation of the IntentKind.
func (k IntentKind) String() string {
	return string(k)
}

// Intent is recomputed every turn from the request text and the record.
type Intent struct {
	Kind               IntentKind `json:"kind"`
	Confidence         float64    `json:"confidence"`
	NeedsClarification bool       `json:"needs_clarification"`
	Questions          []string   `json:"questions,omitempty"`
}
