// Package review runs per-role heuristic scanners over generated content and
// escalates serious findings into collaboration sessions.
//
// Findings are diagnostic only. Nothing in this package gates artifact delivery.
package review

// Domain is the area of concern a scanner checks.
type Domain string

// Scanner domains.
const (
	DomainNone          Domain = ""
	DomainStructure     Domain = "structure"
	DomainVisual        Domain = "visual"
	DomainLogic         Domain = "logic"
	DomainSecurity      Domain = "security"
	DomainPerformance   Domain = "performance"
	DomainTesting       Domain = "testing"
	DomainAccessibility Domain = "accessibility"
)

// String returns the string representation of the Domain.
func (d Domain) String() string {
	return string(d)
}

//nolint:gochecknoglobals // Static role to domain table
var roleDomains = map[string]Domain{
	"architect":     DomainStructure,
	"designer":      DomainVisual,
	"mobile":        DomainVisual,
	"developer":     DomainLogic,
	"backend":       DomainLogic,
	"security":      DomainSecurity,
	"seo":           DomainPerformance,
	"performance":   DomainPerformance,
	"qa":            DomainTesting,
	"accessibility": DomainAccessibility,
}

// domainOwners names the role that reviews findings in each domain.
//
//nolint:gochecknoglobals // Static domain to reviewer table
var domainOwners = map[Domain]string{
	DomainStructure:     "architect",
	DomainVisual:        "designer",
	DomainLogic:         "developer",
	DomainSecurity:      "security",
	DomainPerformance:   "performance",
	DomainTesting:       "qa",
	DomainAccessibility: "accessibility",
}

// DomainFor returns the scanner domain for roleID, or DomainNone when the role
// has no scanner (documentation, unknown roles).
func DomainFor(roleID string) Domain {
	return roleDomains[roleID]
}

// Reviewers returns the participants of an escalation for a finding raised
// against originRoleID: the origin, the domain owner and qa, without duplicates.
func Reviewers(originRoleID string) []string {
	out := []string{originRoleID}
	add := func(id string) {
		for _, existing := range out {
			if existing == id {
				return
			}
		}
		out = append(out, id)
	}
	if owner, ok := domainOwners[DomainFor(originRoleID)]; ok {
		add(owner)
	}
	add("qa")
	return out
}
