package strategycore

import (
	"github.com/arborist-labs/signalcore/internal/config"
	"github.com/arborist-labs/signalcore/internal/types"
	"github.com/arborist-labs/signalcore/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

var shapeValidator = validator.New()

const relativeTolerance = 1e-9

// validateSignal runs the shape-only struct tags first, then the §4.3.2
// price/position business rules, collecting every failure via multierr
// instead of stopping at the first one.
func validateSignal(dto types.SignalDto, currentVWAP decimal.Decimal, cfg config.EngineConfig) error {
	var combined error

	if err := shapeValidator.Struct(dto); err != nil {
		combined = multierr.Append(combined, err)
	}

	effectiveOpen := currentVWAP
	if dto.PriceOpen.IsSome() {
		effectiveOpen = dto.PriceOpen.Unwrap()
	}

	combined = multierr.Append(combined, validatePricesPositive(dto, effectiveOpen))
	combined = multierr.Append(combined, validateDistinctPrices(dto, effectiveOpen))
	combined = multierr.Append(combined, validatePositionRelations(dto, effectiveOpen))
	combined = multierr.Append(combined, validateDistances(dto, effectiveOpen, cfg))
	combined = multierr.Append(combined, validateLifetime(dto, cfg))

	if dto.PriceOpen.IsNone() {
		combined = multierr.Append(combined, validateImmediateNotPastTargets(dto, currentVWAP))
	}

	if combined != nil {
		return errors.Wrap(errors.ErrCodeValidationFailed, "signal failed validation", combined)
	}

	return nil
}

func validatePricesPositive(dto types.SignalDto, effectiveOpen decimal.Decimal) error {
	var err error

	if !effectiveOpen.IsPositive() {
		err = multierr.Append(err, errors.New(errors.ErrCodeValidationBadPrice, "priceOpen must be positive"))
	}

	if !dto.PriceTakeProfit.IsPositive() {
		err = multierr.Append(err, errors.New(errors.ErrCodeValidationBadPrice, "priceTakeProfit must be positive"))
	}

	if !dto.PriceStopLoss.IsPositive() {
		err = multierr.Append(err, errors.New(errors.ErrCodeValidationBadPrice, "priceStopLoss must be positive"))
	}

	return err
}

func validateDistinctPrices(dto types.SignalDto, effectiveOpen decimal.Decimal) error {
	if dto.PriceTakeProfit.Equal(dto.PriceStopLoss) || dto.PriceTakeProfit.Equal(effectiveOpen) || dto.PriceStopLoss.Equal(effectiveOpen) {
		return errors.New(errors.ErrCodeValidationBadPrice, "priceTakeProfit, priceStopLoss, and priceOpen must all differ")
	}

	return nil
}

func validatePositionRelations(dto types.SignalDto, effectiveOpen decimal.Decimal) error {
	switch dto.Position {
	case types.PositionLong:
		if !dto.PriceTakeProfit.GreaterThan(effectiveOpen) {
			return errors.New(errors.ErrCodeValidationBadPrice, "long priceTakeProfit must exceed priceOpen")
		}

		if !dto.PriceStopLoss.LessThan(effectiveOpen) {
			return errors.New(errors.ErrCodeValidationBadPrice, "long priceStopLoss must be below priceOpen")
		}
	case types.PositionShort:
		if !dto.PriceTakeProfit.LessThan(effectiveOpen) {
			return errors.New(errors.ErrCodeValidationBadPrice, "short priceTakeProfit must be below priceOpen")
		}

		if !dto.PriceStopLoss.GreaterThan(effectiveOpen) {
			return errors.New(errors.ErrCodeValidationBadPrice, "short priceStopLoss must exceed priceOpen")
		}
	default:
		return errors.New(errors.ErrCodeValidationMissingField, "position must be long or short")
	}

	return nil
}

func validateDistances(dto types.SignalDto, effectiveOpen decimal.Decimal, cfg config.EngineConfig) error {
	if !effectiveOpen.IsPositive() {
		return nil
	}

	var tpDistance, slDistance decimal.Decimal

	switch dto.Position {
	case types.PositionLong:
		tpDistance = dto.PriceTakeProfit.Sub(effectiveOpen).Div(effectiveOpen).Mul(decimal.NewFromInt(100))
		slDistance = effectiveOpen.Sub(dto.PriceStopLoss).Div(effectiveOpen).Mul(decimal.NewFromInt(100))
	case types.PositionShort:
		tpDistance = effectiveOpen.Sub(dto.PriceTakeProfit).Div(effectiveOpen).Mul(decimal.NewFromInt(100))
		slDistance = dto.PriceStopLoss.Sub(effectiveOpen).Div(effectiveOpen).Mul(decimal.NewFromInt(100))
	default:
		return nil
	}

	var err error

	if tpDistance.LessThan(cfg.MinTakeProfitDistancePct) {
		err = multierr.Append(err, errors.New(errors.ErrCodeValidationTPDistance, "take-profit distance below minimum"))
	}

	if slDistance.GreaterThan(cfg.MaxStopLossDistancePct) {
		err = multierr.Append(err, errors.New(errors.ErrCodeValidationSLDistance, "stop-loss distance above maximum"))
	}

	return err
}

func validateLifetime(dto types.SignalDto, cfg config.EngineConfig) error {
	if dto.MinuteEstimatedTime <= 0 {
		return errors.New(errors.ErrCodeValidationBadLifetime, "minuteEstimatedTime must be positive")
	}

	if dto.MinuteEstimatedTime > cfg.MaxSignalLifetimeMins {
		return errors.New(errors.ErrCodeValidationBadLifetime, "minuteEstimatedTime exceeds maximum signal lifetime")
	}

	return nil
}

func validateImmediateNotPastTargets(dto types.SignalDto, currentVWAP decimal.Decimal) error {
	switch dto.Position {
	case types.PositionLong:
		if currentVWAP.GreaterThanOrEqual(dto.PriceTakeProfit) {
			return errors.New(errors.ErrCodeValidationAlreadyPassed, "current price already at or beyond take-profit")
		}

		if currentVWAP.LessThanOrEqual(dto.PriceStopLoss) {
			return errors.New(errors.ErrCodeValidationAlreadyPassed, "current price already at or beyond stop-loss")
		}
	case types.PositionShort:
		if currentVWAP.LessThanOrEqual(dto.PriceTakeProfit) {
			return errors.New(errors.ErrCodeValidationAlreadyPassed, "current price already at or beyond take-profit")
		}

		if currentVWAP.GreaterThanOrEqual(dto.PriceStopLoss) {
			return errors.New(errors.ErrCodeValidationAlreadyPassed, "current price already at or beyond stop-loss")
		}
	}

	return nil
}

// closeEnoughToVWAP reports whether priceOpen is within relativeTolerance of
// currentVWAP, in which case a "scheduled" signal is really an immediate one.
func closeEnoughToVWAP(priceOpen, currentVWAP decimal.Decimal) bool {
	if currentVWAP.IsZero() {
		return priceOpen.IsZero()
	}

	diff := priceOpen.Sub(currentVWAP).Abs()

	return diff.Div(currentVWAP).LessThanOrEqual(decimal.NewFromFloat(relativeTolerance))
}
