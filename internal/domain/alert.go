package domain

// Severity is the alert tier.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityWarning  Severity = "WARNING"
	SeverityInfo     Severity = "INFO"
)

// Priority orders alerts in the feed.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Rank returns a comparable weight, higher is more urgent.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// PriorityFor maps a severity onto its feed priority.
func PriorityFor(s Severity) Priority {
	switch s {
	case SeverityCritical:
		return PriorityHigh
	case SeverityWarning:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// AlertScope tells whether an alert concerns a category or a tracked item.
type AlertScope string

const (
	ScopeCategory AlertScope = "CATEGORY"
	ScopeItem     AlertScope = "ITEM"
)

// RuleID identifies the rule that produced an alert.
type RuleID string

const (
	RuleLowInventory            RuleID = "LOW_INVENTORY"
	RuleNutritionalImbalance    RuleID = "NUTRITIONAL_IMBALANCE"
	RuleCapacity                RuleID = "CAPACITY"
	RuleNoDistributionsToday    RuleID = "NO_DISTRIBUTIONS_TODAY"
	RuleStagnantInventory       RuleID = "STAGNANT_INVENTORY"
	RuleDistributionOpportunity RuleID = "DISTRIBUTION_OPPORTUNITY"
	RuleSmallDistributions      RuleID = "SMALL_DISTRIBUTIONS"
	RuleExpired                 RuleID = "EXPIRED"
	RuleExpiringSoon            RuleID = "EXPIRING_SOON"
	RuleLowStock                RuleID = "LOW_STOCK"
)

// Alert is a derived, never-stored finding about the current inventory.
type Alert struct {
	Scope    AlertScope `json:"scope"`
	Severity Severity   `json:"severity"`
	Priority Priority   `json:"priority"`
	RuleID   RuleID     `json:"rule_id"`
	Category Category   `json:"category,omitempty"`
	ItemID   string     `json:"item_id,omitempty"`
	Message  string     `json:"message"`
	Action   string     `json:"recommended_action"`
}
