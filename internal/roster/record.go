// Package roster provides the participant roster engine: tolerant tabular
// ingestion, the canonical in-memory roster, and the sorted/paged view and
// selection state derived from it. This package has no UI or transport
// dependencies and can be used by any frontend.
package roster

import "strings"

// Role is a participant's role label. The four baseline labels are
// canonical; any other non-empty label is kept as an organization-defined
// custom role.
type Role string

const (
	RoleParticipant Role = "participant"
	RoleSpeaker     Role = "speaker"
	RolePrizeWinner Role = "prize-winner"
	RoleWinner      Role = "winner"
)

// roleSynonyms maps recognized cell values (lowercase) to canonical roles.
// Russian labels come from the legacy import format.
var roleSynonyms = map[string]Role{
	"participant":  RoleParticipant,
	"участник":     RoleParticipant,
	"speaker":      RoleSpeaker,
	"докладчик":    RoleSpeaker,
	"prize-winner": RolePrizeWinner,
	"prizewinner":  RolePrizeWinner,
	"призер":       RolePrizeWinner,
	"призёр":       RolePrizeWinner,
	"winner":       RoleWinner,
	"победитель":   RoleWinner,
}

// rolePriority is the fixed sort order for roles. Custom labels share the
// baseline participant priority so the order of the known labels is never
// perturbed; ties fall back to original order.
var rolePriority = map[Role]int{
	RoleParticipant: 1,
	RoleSpeaker:     2,
	RolePrizeWinner: 3,
	RoleWinner:      4,
}

// ParseRole maps a raw cell value to a Role. Empty input yields the
// baseline participant role; unrecognized labels are kept verbatim.
func ParseRole(s string) Role {
	s = strings.TrimSpace(s)
	if s == "" {
		return RoleParticipant
	}
	if role, ok := roleSynonyms[strings.ToLower(s)]; ok {
		return role
	}
	return Role(s)
}

// Priority returns the role's position in the fixed sort order.
func (r Role) Priority() int {
	if p, ok := rolePriority[r]; ok {
		return p
	}
	return rolePriority[RoleParticipant]
}

// Record is one roster entry. Name and Email are never empty once a record
// has passed normalization. Rank is a positive integer when present; zero
// means unranked.
type Record struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Rank  int    `json:"rank,omitempty"`
}

// Ranked reports whether the record has a rank assigned.
func (r Record) Ranked() bool {
	return r.Rank > 0
}
