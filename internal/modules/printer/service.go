package printer

import (
	"context"
	"log"
	"time"

	"github.com/georgemunganga/kasir-backend/internal/modules/order"
	"github.com/georgemunganga/kasir-backend/internal/modules/receipt"
)

// OrderSource looks up finalized orders by id.
type OrderSource interface {
	Get(id string) (order.Order, error)
}

// Options tunes the printer service. Zero values fall back to the defaults of
// the common BLE thermal printer profile.
type Options struct {
	Filter         DiscoveryFilter
	Characteristic string
	Encoding       string
	Timeout        time.Duration
	Logger         *log.Logger
}

type Service interface {
	Receipt(ctx context.Context, orderID string) (string, error)
	Print(ctx context.Context, orderID string) (*Result, error)
	PrintOrder(ctx context.Context, o order.Order) *Result
}

type service struct {
	channel   Channel
	orders    OrderSource
	formatter *receipt.Formatter
	encode    Encoder
	filter    DiscoveryFilter
	char      string
	timeout   time.Duration
	logger    *log.Logger

	// one session at a time
	sem chan struct{}
}

func NewService(channel Channel, orders OrderSource, formatter *receipt.Formatter, opts Options) (Service, error) {
	encode, err := NewEncoder(opts.Encoding)
	if err != nil {
		return nil, err
	}
	if formatter == nil {
		formatter = receipt.NewFormatter(receipt.DefaultTemplate())
	}
	filter := opts.Filter
	if filter.ServiceUUID == "" && filter.NamePrefix == "" && filter.Address == "" {
		filter = DefaultFilter()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &service{
		channel:   channel,
		orders:    orders,
		formatter: formatter,
		encode:    encode,
		filter:    filter,
		char:      opts.Characteristic,
		timeout:   opts.Timeout,
		logger:    logger,
		sem:       make(chan struct{}, 1),
	}, nil
}

func (s *service) Receipt(ctx context.Context, orderID string) (string, error) {
	o, err := s.orders.Get(orderID)
	if err != nil {
		return "", err
	}
	return s.formatter.Format(o), nil
}

func (s *service) Print(ctx context.Context, orderID string) (*Result, error) {
	o, err := s.orders.Get(orderID)
	if err != nil {
		return nil, err
	}
	return s.PrintOrder(ctx, o), nil
}

// PrintOrder runs a fresh attempt for o. Attempts are serialized; a caller
// whose context ends while waiting for the channel gets a cancelled result.
func (s *service) PrintOrder(ctx context.Context, o order.Order) *Result {
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return s.abort(o.ID, classify(ctx, KindCancelled, ctx.Err()))
	}
	defer func() { <-s.sem }()

	// select picks at random when both cases are ready
	if err := ctx.Err(); err != nil {
		return s.abort(o.ID, classify(ctx, KindCancelled, err))
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	payload, err := s.encode(s.formatter.Format(o))
	if err != nil {
		return s.abort(o.ID, &Failure{Kind: KindTransmission, Err: err})
	}

	attempt := NewAttempt(s.channel, s.filter, s.char, s.observe(o.ID))
	res := attempt.Run(ctx, payload)
	res.OrderID = o.ID
	if res.ReleaseErr != nil {
		s.logger.Printf("printer: order=%s release session: %v", o.ID, res.ReleaseErr)
	}
	return &res
}

// abort fails a print that never reached the channel.
func (s *service) abort(orderID string, f *Failure) *Result {
	s.logger.Printf("printer: order=%s %s -> %s (%v)", orderID, StateIdle, StateFailed, f)
	return &Result{
		OrderID: orderID,
		State:   StateFailed,
		Reason:  f.Kind,
		Message: f.CashierMessage(),
		Trail:   []State{StateIdle, StateFailed},
		Err:     f,
	}
}

func (s *service) observe(orderID string) Observer {
	return func(from, to State, f *Failure) {
		if f != nil {
			s.logger.Printf("printer: order=%s %s -> %s (%v)", orderID, from, to, f)
			return
		}
		s.logger.Printf("printer: order=%s %s -> %s", orderID, from, to)
	}
}

