package service

import (
	"context"
	"errors"
	"sort"

	"github.com/climasgama/pos-terminal/internal/config"
	"github.com/climasgama/pos-terminal/internal/domain/entity"
	"github.com/climasgama/pos-terminal/internal/domain/repository"
	"github.com/climasgama/pos-terminal/pkg/apperror"
	"github.com/climasgama/pos-terminal/pkg/pagination"
	"github.com/climasgama/pos-terminal/pkg/textnorm"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// QuotationService handles quotation-related operations
type QuotationService struct {
	gateway  repository.QuotationGateway
	carts    *CartService
	receipts *ReceiptService
	logger   *logrus.Logger
}

// NewQuotationService creates a new quotation service
func NewQuotationService(gateway repository.QuotationGateway, carts *CartService, receipts *ReceiptService) *QuotationService {
	return &QuotationService{
		gateway:  gateway,
		carts:    carts,
		receipts: receipts,
		logger:   config.GetLogger(),
	}
}

// SavedQuotation is the backend's copy of a saved quotation and its document.
type SavedQuotation struct {
	Quotation *entity.Quotation `json:"quotation"`
	Receipt   *entity.Receipt   `json:"receipt"`
}

// Save creates the quotation, or replaces it when the cart was opened from
// an existing one, then reads it back. The cart is emptied once saved.
func (s *QuotationService) Save(ctx context.Context, session entity.Session, cartID string) (*SavedQuotation, error) {
	c, err := s.carts.Get(session, cartID)
	if err != nil {
		return nil, err
	}
	if c.Kind != entity.CartKindQuotation {
		return nil, apperror.NewBadRequestError("El ticket no es una cotización")
	}
	if c.IsEmpty() {
		return nil, apperror.ErrEmptyCart
	}

	req := entity.NewQuotationRequest(c, session.UserID)
	id := c.QuotationID
	if id != 0 {
		err = s.gateway.UpdateQuotation(ctx, session, id, req)
	} else {
		id, err = s.gateway.CreateQuotation(ctx, session, req)
	}
	if err != nil {
		config.LogError(s.logger, "QuotationService", "Save", "quotation save failed", cartID, err)
		return nil, s.upstreamError("No se pudo guardar la cotización", err)
	}

	q, err := s.Get(ctx, session, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.carts.Clear(session, cartID); err != nil {
		s.logger.WithField("cart_id", cartID).WithError(err).Warn("cart gone before it could be cleared")
	}

	s.logger.WithFields(logrus.Fields{
		"quotation_id": id,
		"user_id":      session.UserID,
		"updated":      c.QuotationID != 0,
	}).Info("quotation saved")

	return &SavedQuotation{Quotation: q, Receipt: s.receipts.FromQuotation(q)}, nil
}

// Get returns a quotation with its lines.
func (s *QuotationService) Get(ctx context.Context, session entity.Session, id int64) (*entity.Quotation, error) {
	q, err := s.gateway.GetQuotation(ctx, session, id)
	if err != nil {
		return nil, s.upstreamError("No se pudo cargar la cotización", err)
	}
	return q, nil
}

// Open loads a saved quotation into a new quotation cart for editing.
func (s *QuotationService) Open(ctx context.Context, session entity.Session, id int64) (*CartView, error) {
	q, err := s.Get(ctx, session, id)
	if err != nil {
		return nil, err
	}
	c := q.ToCart(uuid.New().String())
	s.carts.Put(session, c)
	return Summarize(c.Clone()), nil
}

// ListQuotationsInput represents the input for listing quotations
type ListQuotationsInput struct {
	Search     string
	Pagination *pagination.PaginationParams
}

// List returns quotations newest first. Every word of the search must appear
// in the id, the customer or the seller.
func (s *QuotationService) List(ctx context.Context, session entity.Session, input *ListQuotationsInput) (*pagination.PaginatedResult[entity.QuotationSummary], error) {
	all, err := s.gateway.ListQuotations(ctx, session)
	if err != nil {
		return nil, s.upstreamError("No se pudieron cargar las cotizaciones", err)
	}

	out := make([]entity.QuotationSummary, 0, len(all))
	for _, q := range all {
		if textnorm.MatchesAll(q.SearchText(), input.Search) {
			out = append(out, q)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID > out[j].ID
		}
		return out[i].Date.After(out[j].Date)
	})
	return pagination.Paginate(out, input.Pagination), nil
}

// Delete deletes a quotation
func (s *QuotationService) Delete(ctx context.Context, session entity.Session, id int64) error {
	if err := s.gateway.DeleteQuotation(ctx, session, id); err != nil {
		return s.upstreamError("No se pudo eliminar la cotización", err)
	}
	s.logger.WithFields(logrus.Fields{"quotation_id": id, "user_id": session.UserID}).Info("quotation deleted")
	return nil
}

// Export renders the letter-size quotation_<id>.pdf.
func (s *QuotationService) Export(ctx context.Context, session entity.Session, id int64) (*ExportedFile, error) {
	q, err := s.Get(ctx, session, id)
	if err != nil {
		return nil, err
	}
	return s.receipts.Render(s.receipts.FromQuotation(q))
}

// Backend 404/401/403 pass through; anything else is a gateway failure.
func (s *QuotationService) upstreamError(message string, err error) error {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		return apperror.NewNotFoundError("Cotización")
	case errors.Is(err, apperror.ErrUnauthorized), errors.Is(err, apperror.ErrForbidden):
		return err
	}
	return apperror.NewUpstreamError(message, err)
}
