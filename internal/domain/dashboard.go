package domain

import "time"

// Dashboard is the combined compliance and alert view for one user.
type Dashboard struct {
	Snapshot       InventorySnapshot `json:"snapshot"`
	TotalWeight    float64           `json:"total_weight"`
	TargetCapacity float64           `json:"target_capacity"`
	Utilization    float64           `json:"utilization_pct"`
	Compliance     ComplianceReport  `json:"compliance"`
	BalanceScore   string            `json:"balance_score"`
	Metrics        OutgoingMetrics   `json:"metrics"`
	Alerts         []Alert           `json:"alerts"`
	Version        int64             `json:"version"`
	GeneratedAt    time.Time         `json:"generated_at"`
}
