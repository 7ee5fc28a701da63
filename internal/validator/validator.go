// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"underwriter/internal/engine"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("product", validateProduct)
		_ = v.RegisterValidation("lien_position", validateLienPosition)
		_ = v.RegisterValidation("recourse", validateRecourse)
		_ = v.RegisterValidation("answer", validateAnswer)
		_ = v.RegisterValidation("phase_result", validatePhaseResult)
		_ = v.RegisterValidation("pipeline_level", validatePipelineLevel)
		_ = v.RegisterValidation("vacancy_trend", validateVacancyTrend)
	}
}

func validateProduct(fl validator.FieldLevel) bool {
	_, ok := engine.DefaultsFor(engine.Product(fl.Field().String()))
	return ok
}

func validateLienPosition(fl validator.FieldLevel) bool {
	switch engine.LienPosition(fl.Field().String()) {
	case engine.LienFirst, engine.LienSecond:
		return true
	}
	return false
}

func validateRecourse(fl validator.FieldLevel) bool {
	switch engine.Recourse(fl.Field().String()) {
	case engine.RecourseFull, engine.RecourseLimited, engine.RecourseNon:
		return true
	}
	return false
}

func validateAnswer(fl validator.FieldLevel) bool {
	switch engine.Answer(fl.Field().String()) {
	case engine.AnswerYes, engine.AnswerNo, engine.AnswerUnknown:
		return true
	}
	return false
}

func validatePhaseResult(fl validator.FieldLevel) bool {
	switch engine.PhaseIResult(fl.Field().String()) {
	case engine.PhaseClean, engine.PhaseNotApplicable, engine.PhasePending, engine.PhaseRECsFound:
		return true
	}
	return false
}

func validatePipelineLevel(fl validator.FieldLevel) bool {
	switch engine.PipelineLevel(fl.Field().String()) {
	case engine.PipelineLow, engine.PipelineModerate, engine.PipelineHigh:
		return true
	}
	return false
}

func validateVacancyTrend(fl validator.FieldLevel) bool {
	switch engine.VacancyTrend(fl.Field().String()) {
	case engine.TrendImproving, engine.TrendStable, engine.TrendSoftening:
		return true
	}
	return false
}
