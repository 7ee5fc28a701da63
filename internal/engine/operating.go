package engine

import "math"

// OperatingStatement is the derived historical income statement.
type OperatingStatement struct {
	GrossIncome          float64 `json:"gross_income"`
	VacancyLoss          float64 `json:"vacancy_loss"`
	EffectiveGrossIncome float64 `json:"effective_gross_income"`
	ManagementFee        float64 `json:"management_fee"`
	OperatingExpenses    float64 `json:"operating_expenses"`
	NOI                  float64 `json:"noi"`
}

// ComputeHistorical derives the in-place operating statement. The
// normalization adjustment only ever adds expense; a negative entry is
// ignored rather than flattering NOI.
func ComputeHistorical(in OperatingInputs) OperatingStatement {
	grossIncome := in.GrossRent + in.OtherIncome
	vacancyLoss := grossIncome * in.VacancyPct / 100
	egi := grossIncome - vacancyLoss
	management := egi * in.ManagementPct / 100
	opex := in.Taxes + in.Insurance + in.Repairs + in.Utilities + in.Payroll +
		in.OtherOpex + management + in.ReplacementReserves + math.Max(0, in.NormalizationAdj)

	return OperatingStatement{
		GrossIncome:          grossIncome,
		VacancyLoss:          vacancyLoss,
		EffectiveGrossIncome: egi,
		ManagementFee:        management,
		OperatingExpenses:    opex,
		NOI:                  egi - opex,
	}
}

// StabilizedStatement is the derived pro forma income statement.
type StabilizedStatement struct {
	GrossIncome          float64 `json:"gross_income"`
	VacancyLoss          float64 `json:"vacancy_loss"`
	BadDebtLoss          float64 `json:"bad_debt_loss"`
	EffectiveGrossIncome float64 `json:"effective_gross_income"`
	ManagementFee        float64 `json:"management_fee"`
	OperatingExpenses    float64 `json:"operating_expenses"`
	NOI                  float64 `json:"noi"`
}

// ComputeStabilized derives the pro forma statement. Each stabilized
// expense line defers to its historical counterpart when left at zero;
// the combined payroll and other-opex historical lines back the
// stabilized other-opex fallback.
func ComputeStabilized(stab StabilizedInputs, hist OperatingInputs) StabilizedStatement {
	taxes := orDefault(stab.Taxes, hist.Taxes)
	insurance := orDefault(stab.Insurance, hist.Insurance)
	repairs := orDefault(stab.Repairs, hist.Repairs)
	utilities := orDefault(stab.Utilities, hist.Utilities)
	otherOpex := orDefault(stab.OtherOpex, hist.Payroll+hist.OtherOpex)
	reserves := orDefault(stab.ReplacementReserves, hist.ReplacementReserves)

	grossIncome := stab.GrossRent + stab.OtherIncome
	vacancyLoss := grossIncome * stab.VacancyPct / 100
	badDebt := grossIncome * stab.BadDebtPct / 100
	egi := grossIncome - vacancyLoss - badDebt
	management := egi * stab.ManagementPct / 100
	opex := taxes + insurance + repairs + utilities + otherOpex + management + reserves + stab.Capex

	return StabilizedStatement{
		GrossIncome:          grossIncome,
		VacancyLoss:          vacancyLoss,
		BadDebtLoss:          badDebt,
		EffectiveGrossIncome: egi,
		ManagementFee:        management,
		OperatingExpenses:    opex,
		NOI:                  egi - opex,
	}
}
