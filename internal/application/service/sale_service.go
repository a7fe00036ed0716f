package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/climasgama/pos-terminal/internal/config"
	"github.com/climasgama/pos-terminal/internal/domain/entity"
	"github.com/climasgama/pos-terminal/internal/domain/repository"
	"github.com/climasgama/pos-terminal/internal/infrastructure/metrics"
	"github.com/climasgama/pos-terminal/pkg/apperror"
	"github.com/climasgama/pos-terminal/pkg/money"
	"github.com/climasgama/pos-terminal/pkg/pagination"
	"github.com/sirupsen/logrus"
)

// SubmitResult is what the counter gets back from a committed sale.
// Canonical is false when the backend accepted the sale but its line detail
// could not be read back; the receipt then shows the ticket as submitted.
type SubmitResult struct {
	Sale      *entity.Sale         `json:"sale"`
	Payment   entity.PaymentResult `json:"payment"`
	Receipt   *entity.Receipt      `json:"receipt"`
	Canonical bool                 `json:"canonical"`
}

// SaleService commits tickets to the backend and reads sales back.
type SaleService struct {
	carts    *CartService
	catalog  *CatalogService
	gateway  repository.SaleGateway
	locker   repository.Locker
	lockTTL  time.Duration
	receipts *ReceiptService
	metrics  *metrics.Metrics
	logger   *logrus.Logger
	now      func() time.Time
}

// NewSaleService creates a new sale service
func NewSaleService(
	carts *CartService,
	catalog *CatalogService,
	gateway repository.SaleGateway,
	locker repository.Locker,
	lockTTL time.Duration,
	receipts *ReceiptService,
	m *metrics.Metrics,
) *SaleService {
	return &SaleService{
		carts:    carts,
		catalog:  catalog,
		gateway:  gateway,
		locker:   locker,
		lockTTL:  lockTTL,
		receipts: receipts,
		metrics:  m,
		logger:   config.GetLogger(),
		now:      time.Now,
	}
}

// Validate runs every pre-submission check on c: not empty, enough stock for
// each line and, for cash, enough money tendered.
func (s *SaleService) Validate(c *entity.Cart) (entity.PaymentResult, error) {
	if c.Kind != entity.CartKindSale {
		return entity.PaymentResult{}, apperror.NewBadRequestError("Una cotización no se puede cobrar")
	}
	if c.IsEmpty() {
		return entity.PaymentResult{}, apperror.ErrEmptyCart
	}
	if shortage := entity.CheckStock(c.Lines, s.catalog.StockOf); shortage != nil {
		return entity.PaymentResult{}, apperror.NewInsufficientStockError(shortage.Line.Description, shortage.Line.Quantity, shortage.Available)
	}
	payment := EvaluatePayment(c.PaymentMethod, c.Total(), c.AmountTendered)
	if !payment.IsValid {
		return payment, apperror.NewInsufficientPaymentError(money.FormatMXN(payment.Shortfall))
	}
	return payment, nil
}

// Submit commits the cart. Nothing changes locally until the backend accepts
// the sale, and a failed commit is reported, never retried. Only one submit
// per cart may run at a time.
func (s *SaleService) Submit(ctx context.Context, session entity.Session, cartID string) (*SubmitResult, error) {
	snapshot, err := s.carts.Get(session, cartID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Validate(snapshot); err != nil {
		s.blocked(err)
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, "submit:"+cartID, s.lockTTL)
	if err != nil {
		if errors.Is(err, repository.ErrLockHeld) {
			s.metrics.SaleBlocked(string(apperror.ReasonSubmissionInProgress))
			return nil, apperror.ErrInProgress
		}
		config.LogError(s.logger, "SaleService", "Submit", "submit lock failed", cartID, err)
		return nil, apperror.NewUpstreamError("No se pudo reservar el ticket", err)
	}
	defer release()

	// the cart may have been edited while waiting for the lock; from here on
	// it is frozen until the outcome is known
	snapshot, finish, err := s.carts.beginSubmit(session, cartID)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() { finish(committed) }()

	payment, err := s.Validate(snapshot)
	if err != nil {
		s.blocked(err)
		return nil, err
	}

	saleID, err := s.gateway.CreateSale(ctx, session, entity.NewSaleRequest(snapshot, session.UserID))
	if err != nil {
		config.LogError(s.logger, "SaleService", "Submit", "sale commit failed", cartID, err)
		if apperror.HasReason(err, apperror.ReasonSubmissionUnconfirmed) {
			s.metrics.SaleBlocked(string(apperror.ReasonSubmissionUnconfirmed))
			return nil, err
		}
		s.metrics.SaleBlocked(string(apperror.ReasonSubmissionFailed))
		return nil, apperror.NewSubmissionError(err)
	}

	// The sale exists upstream from here on. The cart is cleared even if the
	// detail read fails so the same ticket cannot be sold twice.
	committed = true
	canonical := true
	lines, err := s.gateway.GetSaleLines(ctx, session, saleID)
	if err != nil || len(lines) == 0 {
		canonical = false
		s.logger.WithFields(logrus.Fields{
			"sale_id": saleID,
			"cart_id": cartID,
			"error":   err,
		}).Warn("sale committed but detail unavailable, printing from ticket")
		lines = linesFromCart(snapshot)
	}

	s.catalog.Invalidate(ctx)

	sale := &entity.Sale{
		ID:            saleID,
		Date:          s.now(),
		PaymentMethod: snapshot.PaymentMethod,
		Seller:        session.DisplayName(),
		Lines:         lines,
	}
	s.metrics.SaleSubmitted(sale.PaymentMethod.String())
	s.logger.WithFields(logrus.Fields{
		"sale_id": saleID,
		"user_id": session.UserID,
		"total":   sale.Total().StringFixed(2),
		"method":  sale.PaymentMethod.String(),
	}).Info("sale registered")

	return &SubmitResult{
		Sale:      sale,
		Payment:   payment,
		Receipt:   s.receipts.FromSale(sale, &payment, snapshot.AmountTendered),
		Canonical: canonical,
	}, nil
}

func (s *SaleService) blocked(err error) {
	reason := "invalid"
	if appErr := apperror.GetAppError(err); appErr.Reason != "" {
		reason = string(appErr.Reason)
	}
	s.metrics.SaleBlocked(reason)
}

func linesFromCart(c *entity.Cart) []entity.SaleLine {
	out := make([]entity.SaleLine, 0, len(c.Lines))
	for _, l := range c.Lines {
		out = append(out, entity.SaleLine{Description: l.Description, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	return out
}

// Get rebuilds a past sale from the history row and the backend's line detail.
func (s *SaleService) Get(ctx context.Context, session entity.Session, saleID int64) (*entity.Sale, error) {
	summaries, err := s.gateway.ListSales(ctx, session)
	if err != nil {
		return nil, apperror.NewUpstreamError("No se pudo cargar el historial de ventas", err)
	}
	var summary *entity.SaleSummary
	for i := range summaries {
		if summaries[i].ID == saleID {
			summary = &summaries[i]
			break
		}
	}
	if summary == nil {
		return nil, apperror.NewNotFoundError("Venta")
	}

	lines, err := s.gateway.GetSaleLines(ctx, session, saleID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NewNotFoundError("Venta")
		}
		return nil, apperror.NewUpstreamError("No se pudo cargar el detalle de la venta", err)
	}

	return &entity.Sale{
		ID:            summary.ID,
		Date:          summary.Date,
		PaymentMethod: summary.PaymentMethod,
		Seller:        summary.User,
		Lines:         lines,
	}, nil
}

// Receipt composes the ticket of a past sale for reprint or export.
func (s *SaleService) Receipt(ctx context.Context, session entity.Session, saleID int64) (*entity.Receipt, error) {
	sale, err := s.Get(ctx, session, saleID)
	if err != nil {
		return nil, err
	}
	return s.receipts.FromSale(sale, nil, nil), nil
}

// History lists past sales newest first, filtered and paginated locally.
func (s *SaleService) History(ctx context.Context, session entity.Session, filter entity.SaleHistoryFilter, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.SaleSummary], error) {
	summaries, err := s.gateway.ListSales(ctx, session)
	if err != nil {
		return nil, apperror.NewUpstreamError("No se pudo cargar el historial de ventas", err)
	}

	out := make([]entity.SaleSummary, 0, len(summaries))
	for _, sm := range summaries {
		if filter.Matches(sm) {
			out = append(out, sm)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID > out[j].ID
		}
		return out[i].Date.After(out[j].Date)
	})
	return pagination.Paginate(out, params), nil
}
