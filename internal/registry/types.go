package registry

// Role identifies what part an agent plays in the procurement network.
type Role string

const (
	RoleBuyer        Role = "buyer"
	RoleSupplier     Role = "supplier"
	RoleLogistics    Role = "logistics"
	RoleCompliance   Role = "compliance"
	RoleOrchestrator Role = "orchestrator"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleSupplier, RoleLogistics, RoleCompliance, RoleOrchestrator:
		return true
	}
	return false
}

// Certification is an attestation issued by an external authority
// (e.g. CE marking, UN38.3 battery transport).
type Certification struct {
	Authority     string `json:"authority"`
	Certification string `json:"certification"`
	CertID        string `json:"cert_id,omitempty"`
	ValidUntil    string `json:"valid_until,omitempty"`
}

// TrustProfile captures an agent's reputation layer.
// ReputationScore is always kept in [0,1].
type TrustProfile struct {
	Verified          bool    `json:"verified"`
	ReputationScore   float64 `json:"reputation_score"`
	TotalTransactions int     `json:"total_transactions"`
	DisputeRate       float64 `json:"dispute_rate"`
}

// AgentFacts is the identity record the registry holds for one agent.
// The registry owns the record while it is registered; callers receive copies.
type AgentFacts struct {
	AgentID         string          `json:"agent_id"`
	Name            string          `json:"name"`
	Role            Role            `json:"role"`
	Description     string          `json:"description,omitempty"`
	Capabilities    []string        `json:"capabilities"`
	Region          string          `json:"region"`
	Country         string          `json:"country,omitempty"`
	Currency        string          `json:"currency,omitempty"`
	AvgLeadTimeDays int             `json:"avg_lead_time_days"`
	Certifications  []Certification `json:"certifications,omitempty"`
	Trust           TrustProfile    `json:"trust"`
	Endpoint        string          `json:"endpoint,omitempty"`
}

// TrustReport is the three-layer attestation returned by Verify.
type TrustReport struct {
	AgentID    string          `json:"agent_id"`
	Name       string          `json:"name"`
	Verified   bool            `json:"verified"`
	Identity   IdentityLayer   `json:"identity"`
	Capability CapabilityLayer `json:"capability_attestation"`
	Reputation ReputationLayer `json:"reputation"`
}

// IdentityLayer attests who the agent is.
type IdentityLayer struct {
	DomainVerified bool   `json:"domain_verified"`
	Endpoint       string `json:"endpoint"`
}

// CapabilityLayer attests what the agent claims it can do.
type CapabilityLayer struct {
	SelfDeclared   []string        `json:"self_declared"`
	Certifications []Certification `json:"certifications"`
}

// ReputationLayer attests how the agent has behaved.
type ReputationLayer struct {
	Score             float64 `json:"score"`
	TotalTransactions int     `json:"total_transactions"`
	DisputeRate       float64 `json:"dispute_rate"`
}

// RankedAgent pairs an agent with its RFQ fitness score.
type RankedAgent struct {
	Agent AgentFacts `json:"agent"`
	Score float64    `json:"score"`
}
