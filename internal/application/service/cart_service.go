package service

import (
	"context"
	"sync"
	"time"

	"github.com/climasgama/pos-terminal/internal/config"
	"github.com/climasgama/pos-terminal/internal/domain/entity"
	"github.com/climasgama/pos-terminal/internal/domain/enum"
	"github.com/climasgama/pos-terminal/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CartView is a cart together with the figures the counter shows next to it.
type CartView struct {
	Cart    *entity.Cart         `json:"cart"`
	Total   decimal.Decimal      `json:"total"`
	Units   int                  `json:"units"`
	Payment entity.PaymentResult `json:"payment"`
}

type cartEntry struct {
	owner int64
	cart  *entity.Cart
	// set while a submit of this cart is talking to the backend
	submitting bool
}

// CartService keeps the open tickets of every cashier in memory. A cart is
// only visible to the user who opened it.
type CartService struct {
	catalog *CatalogService
	logger  *logrus.Logger

	mu    sync.Mutex
	carts map[string]*cartEntry
}

// NewCartService creates a new cart service
func NewCartService(catalog *CatalogService) *CartService {
	return &CartService{
		catalog: catalog,
		logger:  config.GetLogger(),
		carts:   make(map[string]*cartEntry),
	}
}

// Summarize computes the totals and payment state of c.
func Summarize(c *entity.Cart) *CartView {
	total := c.Total()
	return &CartView{
		Cart:    c,
		Total:   total,
		Units:   c.Units(),
		Payment: EvaluatePayment(c.PaymentMethod, total, c.AmountTendered),
	}
}

// Create opens an empty cart for the session's user.
func (s *CartService) Create(session entity.Session, kind entity.CartKind) *CartView {
	c := entity.NewCart(uuid.New().String(), kind)
	s.Put(session, c)
	return Summarize(c.Clone())
}

// Put stores c under its id for the session's user, replacing any cart with that id.
func (s *CartService) Put(session entity.Session, c *entity.Cart) {
	s.mu.Lock()
	s.carts[c.ID] = &cartEntry{owner: session.UserID, cart: c}
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"cart_id": c.ID,
		"kind":    c.Kind,
		"user_id": session.UserID,
	}).Debug("cart opened")
}

// Get returns a copy of the cart.
func (s *CartService) Get(session entity.Session, cartID string) (*entity.Cart, error) {
	var out *entity.Cart
	err := s.read(session, cartID, func(c *entity.Cart) {
		out = c.Clone()
	})
	return out, err
}

// Summary returns the cart with its totals.
func (s *CartService) Summary(session entity.Session, cartID string) (*CartView, error) {
	c, err := s.Get(session, cartID)
	if err != nil {
		return nil, err
	}
	return Summarize(c), nil
}

// Delete discards the cart.
func (s *CartService) Delete(session entity.Session, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.carts[cartID]
	if !ok || e.owner != session.UserID {
		return apperror.NewNotFoundError("Ticket")
	}
	if e.submitting {
		return apperror.ErrInProgress
	}
	delete(s.carts, cartID)
	return nil
}

// AddProduct adds a catalog product by id.
func (s *CartService) AddProduct(ctx context.Context, session entity.Session, cartID string, productID int64) (*CartView, error) {
	if _, err := s.Get(session, cartID); err != nil {
		return nil, err
	}
	p, err := s.catalog.Product(ctx, session, productID)
	if err != nil {
		return nil, err
	}
	return s.update(session, cartID, func(c *entity.Cart) error {
		c.AddOrIncrement(*p)
		return nil
	})
}

// AddByToken resolves a scanned code or typed search and adds the product.
func (s *CartService) AddByToken(ctx context.Context, session entity.Session, cartID, token string) (*CartView, error) {
	if _, err := s.Get(session, cartID); err != nil {
		return nil, err
	}
	p, err := s.catalog.Lookup(ctx, session, token)
	if err != nil {
		return nil, err
	}
	return s.update(session, cartID, func(c *entity.Cart) error {
		c.AddOrIncrement(*p)
		return nil
	})
}

// SetQuantity applies a raw quantity entry to one line.
func (s *CartService) SetQuantity(session entity.Session, cartID string, productID int64, raw string) (*CartView, error) {
	return s.update(session, cartID, func(c *entity.Cart) error {
		if _, ok := c.SetQuantity(productID, raw); !ok {
			return apperror.NewNotFoundError("Producto en ticket")
		}
		return nil
	})
}

func (s *CartService) Remove(session entity.Session, cartID string, productID int64) (*CartView, error) {
	return s.update(session, cartID, func(c *entity.Cart) error {
		if !c.Remove(productID) {
			return apperror.NewNotFoundError("Producto en ticket")
		}
		return nil
	})
}

func (s *CartService) Clear(session entity.Session, cartID string) (*CartView, error) {
	return s.update(session, cartID, func(c *entity.Cart) error {
		c.Clear()
		return nil
	})
}

// SetPayment sets the payment method and, for cash, the amount tendered.
// The tendered amount is dropped for other methods.
func (s *CartService) SetPayment(session entity.Session, cartID string, method enum.PaymentMethod, tendered *decimal.Decimal) (*CartView, error) {
	if !method.IsValid() {
		return nil, apperror.NewBadRequestError("Forma de pago inválida")
	}
	if tendered != nil && tendered.IsNegative() {
		return nil, apperror.NewBadRequestError("El monto recibido no puede ser negativo")
	}
	return s.update(session, cartID, func(c *entity.Cart) error {
		c.PaymentMethod = method
		c.AmountTendered = nil
		if method.IsCash() && tendered != nil {
			t := *tendered
			c.AmountTendered = &t
		}
		return nil
	})
}

func (s *CartService) SetCustomer(session entity.Session, cartID, customer string) (*CartView, error) {
	return s.update(session, cartID, func(c *entity.Cart) error {
		c.Customer = customer
		return nil
	})
}

// Sweep drops carts untouched for longer than idle and returns how many went.
func (s *CartService) Sweep(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.carts {
		if !e.submitting && e.cart.UpdatedAt.Before(cutoff) {
			delete(s.carts, id)
			n++
		}
	}
	return n
}

func (s *CartService) read(session entity.Session, cartID string, fn func(*entity.Cart)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.carts[cartID]
	if !ok || e.owner != session.UserID {
		return apperror.NewNotFoundError("Ticket")
	}
	fn(e.cart)
	return nil
}

func (s *CartService) update(session entity.Session, cartID string, fn func(*entity.Cart) error) (*CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.carts[cartID]
	if !ok || e.owner != session.UserID {
		return nil, apperror.NewNotFoundError("Ticket")
	}
	if e.submitting {
		return nil, apperror.ErrInProgress
	}
	if err := fn(e.cart); err != nil {
		return nil, err
	}
	return Summarize(e.cart.Clone()), nil
}

// beginSubmit freezes the cart until finish is called and returns the copy
// that will be sold. Edits fail with ErrInProgress in between. finish(true)
// clears the ticket, finish(false) only unfreezes it.
func (s *CartService) beginSubmit(session entity.Session, cartID string) (*entity.Cart, func(committed bool), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.carts[cartID]
	if !ok || e.owner != session.UserID {
		return nil, nil, apperror.NewNotFoundError("Ticket")
	}
	if e.submitting {
		return nil, nil, apperror.ErrInProgress
	}
	e.submitting = true
	snapshot := e.cart.Clone()

	finish := func(committed bool) {
		s.mu.Lock()
		defer s.mu.Unlock()
		e.submitting = false
		if committed {
			e.cart.Clear()
		}
	}
	return snapshot, finish, nil
}
