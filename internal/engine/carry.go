package engine

import "math"

// CarryMetrics holds the construction carry estimate against the funded
// interest reserve.
type CarryMetrics struct {
	CarryMonths         float64 `json:"carry_months"`
	AverageBalance      float64 `json:"average_balance"`
	InterestCarry       float64 `json:"interest_carry"`
	OperatingDeficit    float64 `json:"operating_deficit"`
	TotalCarryNeed      float64 `json:"total_carry_need"`
	InterestReserve     float64 `json:"interest_reserve"`
	CarryGap            float64 `json:"carry_gap"`
	ReserveIsSufficient bool    `json:"reserve_is_sufficient"`
}

// ComputeCarry estimates interest and operating carry through
// stabilization. The stabilization horizon falls back to construction
// plus lease-up months when not set explicitly, and the average drawn
// balance applies the utilization share clamped to [0, 1].
func ComputeCarry(deal DealTerms, carry CarryInputs) CarryMetrics {
	stabMonths := orDefault(carry.StabilizationMonths, carry.ConstructionMonths+carry.LeaseUpMonths)
	carryMonths := math.Max(0, stabMonths+carry.BufferMonths)

	avgBal := deal.LoanAmount * clamp(carry.AvgUtilizationPct/100, 0, 1)
	interestCarry := avgBal * deal.NoteRatePct / 100 * carryMonths / 12
	deficitCarry := carry.MonthlyLeaseUpDeficit * carryMonths
	need := interestCarry + deficitCarry

	return CarryMetrics{
		CarryMonths:         carryMonths,
		AverageBalance:      avgBal,
		InterestCarry:       interestCarry,
		OperatingDeficit:    deficitCarry,
		TotalCarryNeed:      need,
		InterestReserve:     carry.InterestReserve,
		CarryGap:            need - carry.InterestReserve,
		ReserveIsSufficient: need <= carry.InterestReserve,
	}
}
