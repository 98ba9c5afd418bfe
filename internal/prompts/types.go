package prompts

// PromptID identifies a specific prompt template.
type PromptID string

// String returns the string representation of the PromptID.
func (id PromptID) String() string {
	return string(id)
}

// Prompt identifiers for all provider prompts in forge.
const (
	// RoleRequest is the user turn sent to each role.
	RoleRequest PromptID = "generation/role_request"

	// Assembly asks for one final artifact built from the role outputs.
	Assembly PromptID = "generation/assembly"
)

// DocumentData is one attached document quoted into a prompt.
type DocumentData struct {
	Name string
	Text string
}

// RoleRequestData contains input data for a role request.
type RoleRequestData struct {
	// RoleName is the display name of the role.
	RoleName string
	// UserRequest is the original request text.
	UserRequest string
	// ContextFields carries the derived requirement fields; rendered in key order.
	ContextFields map[string]string
	// Documents are the attached documents, already capped.
	Documents []DocumentData
}

// RoleSection is one succeeded role output handed to the assembly prompt.
type RoleSection struct {
	RoleName string
	Output   string
}

// AssemblyData contains input data for the assembly request.
type AssemblyData struct {
	// UserRequest is the original request text.
	UserRequest string
	// ContextFields carries the derived requirement fields.
	ContextFields map[string]string
	// Sections are the succeeded role outputs in priority order.
	Sections []RoleSection
	// ExpectMultiFile asks for the multi-file payload rather than one document.
	ExpectMultiFile bool
}
