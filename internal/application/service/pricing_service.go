package service

import (
	"context"
	"errors"
	"sort"

	"github.com/climasgama/pos-terminal/internal/config"
	"github.com/climasgama/pos-terminal/internal/domain/entity"
	"github.com/climasgama/pos-terminal/internal/domain/repository"
	"github.com/climasgama/pos-terminal/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Suggestion is the sale price proposed for a purchase price.
type Suggestion struct {
	Cost      decimal.Decimal     `json:"cost"`
	Range     *entity.MarginRange `json:"range,omitempty"`
	SalePrice *decimal.Decimal    `json:"sale_price,omitempty"`
}

// PricingService manages the markup bands and suggests sale prices from them.
type PricingService struct {
	gateway repository.MarginGateway
	logger  *logrus.Logger
}

// NewPricingService creates a new pricing service
func NewPricingService(gateway repository.MarginGateway) *PricingService {
	return &PricingService{gateway: gateway, logger: config.GetLogger()}
}

// List returns the bands ordered by their lower bound.
func (s *PricingService) List(ctx context.Context, session entity.Session) ([]entity.MarginRange, error) {
	ranges, err := s.gateway.ListMarginRanges(ctx, session)
	if err != nil {
		return nil, apperror.NewUpstreamError("No se pudieron cargar los rangos", err)
	}
	sort.SliceStable(ranges, func(i, j int) bool { return ranges[i].Min.LessThan(ranges[j].Min) })
	return ranges, nil
}

// ValidateRange checks the band on its own: non-negative bounds, max above
// min when present and a non-negative percentage.
func ValidateRange(r entity.MarginRange) error {
	var fields []apperror.FieldError
	if r.Min.IsNegative() {
		fields = append(fields, apperror.FieldError{Field: "min", Message: "debe ser mayor o igual a 0"})
	}
	if r.Max != nil && !r.Max.GreaterThan(r.Min) {
		fields = append(fields, apperror.FieldError{Field: "max", Message: "debe ser mayor que el mínimo"})
	}
	if r.Percentage.IsNegative() {
		fields = append(fields, apperror.FieldError{Field: "percentage", Message: "debe ser mayor o igual a 0"})
	}
	if len(fields) > 0 {
		return apperror.NewValidationError(fields)
	}
	return nil
}

// overlaps ignores bands that only touch at a bound; the lower band wins there.
func overlaps(a, b entity.MarginRange) bool {
	aBelowB := a.Max != nil && a.Max.LessThanOrEqual(b.Min)
	bBelowA := b.Max != nil && b.Max.LessThanOrEqual(a.Min)
	return !aBelowB && !bBelowA
}

func (s *PricingService) checkOverlap(ctx context.Context, session entity.Session, r entity.MarginRange) error {
	existing, err := s.List(ctx, session)
	if err != nil {
		return err
	}
	for _, other := range existing {
		if other.ID == r.ID {
			continue
		}
		if overlaps(r, other) {
			return apperror.NewConflictError("El rango se traslapa con otro existente")
		}
	}
	return nil
}

func (s *PricingService) Create(ctx context.Context, session entity.Session, r entity.MarginRange) (*entity.MarginRange, error) {
	if err := ValidateRange(r); err != nil {
		return nil, err
	}
	if err := s.checkOverlap(ctx, session, r); err != nil {
		return nil, err
	}
	created, err := s.gateway.CreateMarginRange(ctx, session, r)
	if err != nil {
		config.LogError(s.logger, "PricingService", "Create", "margin range create failed", r, err)
		return nil, apperror.NewUpstreamError("No se pudo guardar el rango", err)
	}
	return created, nil
}

func (s *PricingService) Update(ctx context.Context, session entity.Session, r entity.MarginRange) (*entity.MarginRange, error) {
	if err := ValidateRange(r); err != nil {
		return nil, err
	}
	if err := s.checkOverlap(ctx, session, r); err != nil {
		return nil, err
	}
	updated, err := s.gateway.UpdateMarginRange(ctx, session, r)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NewNotFoundError("Rango")
		}
		config.LogError(s.logger, "PricingService", "Update", "margin range update failed", r, err)
		return nil, apperror.NewUpstreamError("No se pudo guardar el rango", err)
	}
	return updated, nil
}

func (s *PricingService) Delete(ctx context.Context, session entity.Session, id int64) error {
	if err := s.gateway.DeleteMarginRange(ctx, session, id); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.NewNotFoundError("Rango")
		}
		return apperror.NewUpstreamError("No se pudo eliminar el rango", err)
	}
	return nil
}

// SuggestPrice applies the first band, in ascending order, that contains cost.
// A cost outside every band has no suggestion.
func SuggestPrice(ranges []entity.MarginRange, cost decimal.Decimal) Suggestion {
	out := Suggestion{Cost: cost}
	for i := range ranges {
		if ranges[i].Contains(cost) {
			r := ranges[i]
			price := r.SuggestedPrice(cost)
			out.Range, out.SalePrice = &r, &price
			break
		}
	}
	return out
}

// Suggest loads the bands and suggests a sale price for cost.
func (s *PricingService) Suggest(ctx context.Context, session entity.Session, cost decimal.Decimal) (*Suggestion, error) {
	if cost.IsNegative() {
		return nil, apperror.NewBadRequestError("El precio de compra no puede ser negativo")
	}
	ranges, err := s.List(ctx, session)
	if err != nil {
		return nil, err
	}
	sug := SuggestPrice(ranges, cost)
	return &sug, nil
}
