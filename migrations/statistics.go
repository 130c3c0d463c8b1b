package migrations

import (
	"fmt"
	"log"
)

// GetFunnelStats returns lead and payment counts plus the conversion rate.
// Used by the operator stats endpoint.
func GetFunnelStats() (map[string]interface{}, error) {
	if db == nil {
		return nil, fmt.Errorf("db is not initialized")
	}

	var totalLeads int
	if err := db.QueryRow("SELECT COUNT(*) FROM leads").Scan(&totalLeads); err != nil {
		return nil, err
	}

	rows, err := db.Query("SELECT status, COUNT(*) FROM payments GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byStatus := map[string]int{}
	totalPayments := 0
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		byStatus[status] = count
		totalPayments += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var revenue float64
	if err := db.QueryRow("SELECT IFNULL(SUM(amount), 0) FROM payments WHERE status = 'approved'").Scan(&revenue); err != nil {
		return nil, err
	}

	conversion := 0.0
	if totalLeads > 0 {
		conversion = float64(byStatus["approved"]) / float64(totalLeads) * 100
	}

	log.Printf("[stats] leads=%d payments=%d approved=%d", totalLeads, totalPayments, byStatus["approved"])

	return map[string]interface{}{
		"total_leads":         totalLeads,
		"total_payments":      totalPayments,
		"payments_by_status":  byStatus,
		"approved_revenue":    revenue,
		"conversion_rate_pct": conversion,
	}, nil
}
