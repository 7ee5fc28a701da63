package engine

import "math"

// ProjectionYear is one year of the multi-year operating projection.
type ProjectionYear struct {
	Year                 int     `json:"year"`
	GrossIncome          float64 `json:"gross_income"`
	EffectiveGrossIncome float64 `json:"effective_gross_income"`
	OperatingExpenses    float64 `json:"operating_expenses"`
	NOI                  float64 `json:"noi"`
	DebtService          float64 `json:"debt_service"`
	DSCR                 float64 `json:"dscr"`
}

// Project rolls the stabilized statement forward. Year one carries the
// stabilized figures unchanged; later years compound rent at the rent
// growth rate, other income at half that rate, and expenses at the
// expense growth rate. Debt service is held constant across the horizon.
func Project(stab StabilizedInputs, base StabilizedStatement, projectionYears, annualDebtService float64) []ProjectionYear {
	years := int(math.Max(1, math.Round(projectionYears)))

	rentGrowth := stab.RentGrowthPct / 100
	expGrowth := stab.ExpenseGrowthPct / 100

	rent := stab.GrossRent
	otherIncome := stab.OtherIncome
	opex := base.OperatingExpenses

	out := make([]ProjectionYear, 0, years)
	for y := 1; y <= years; y++ {
		if y > 1 {
			rent *= 1 + rentGrowth
			otherIncome *= 1 + rentGrowth/2
			opex *= 1 + expGrowth
		}
		grossIncome := rent + otherIncome
		egi := grossIncome * (1 - stab.VacancyPct/100 - stab.BadDebtPct/100)
		noi := egi - opex
		out = append(out, ProjectionYear{
			Year:                 y,
			GrossIncome:          grossIncome,
			EffectiveGrossIncome: egi,
			OperatingExpenses:    opex,
			NOI:                  noi,
			DebtService:          annualDebtService,
			DSCR:                 SafeDiv(noi, annualDebtService),
		})
	}
	return out
}
