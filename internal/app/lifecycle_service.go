package app

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sndrush/booking-api/internal/clock"
	"github.com/sndrush/booking-api/internal/domain"
	"github.com/sndrush/booking-api/internal/notify"
)

type LifecycleRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetReservation(ctx context.Context, id string) (domain.Reservation, error)
	GetReservationForUpdate(ctx context.Context, id string) (domain.Reservation, error)
	FindByDepositSession(ctx context.Context, sessionID string) (*domain.Reservation, error)
	SaveReservation(ctx context.Context, res domain.Reservation) error
	UpdateStatusIf(ctx context.Context, id string, expected, next domain.Status) (bool, error)
}

// LifecycleService drives every reservation status transition. Guard
// violations reject the operation with no partial mutation; notification
// failures never roll a transition back.
type LifecycleService struct {
	repo            LifecycleRepository
	clock           clock.Clock
	notifier        notify.Sender
	logger          *log.Logger
	securityDeposit decimal.Decimal
	changeNotice    time.Duration
}

const defaultChangeNotice = 5 * 24 * time.Hour

func NewLifecycleService(repo LifecycleRepository, clk clock.Clock, notifier notify.Sender, opts ...LifecycleServiceOption) *LifecycleService {
	svc := &LifecycleService{
		repo:         repo,
		clock:        clk,
		notifier:     notifier,
		logger:       log.Default(),
		changeNotice: defaultChangeNotice,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type LifecycleServiceOption func(*LifecycleService)

// WithSecurityDeposit configures the refundable security-deposit amount.
// Zero disables the authorization side-track.
func WithSecurityDeposit(amount decimal.Decimal) LifecycleServiceOption {
	return func(s *LifecycleService) {
		s.securityDeposit = amount
	}
}

// WithChangeNotice overrides the minimum notice for change requests.
func WithChangeNotice(d time.Duration) LifecycleServiceOption {
	return func(s *LifecycleService) {
		if d > 0 {
			s.changeNotice = d
		}
	}
}

// WithLifecycleLogger overrides the default process logger.
func WithLifecycleLogger(logger *log.Logger) LifecycleServiceOption {
	return func(s *LifecycleService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type ConfirmDepositInput struct {
	ReservationID string
	SessionID     string
}

// ConfirmDeposit applies an asynchronous deposit confirmation from the
// payment processor. Re-delivery for an already-paid reservation is a no-op.
func (s *LifecycleService) ConfirmDeposit(ctx context.Context, in ConfirmDepositInput) (domain.Reservation, error) {
	if in.SessionID == "" {
		return domain.Reservation{}, domain.ErrSessionRequired
	}

	now := s.clock.Now()
	var result domain.Reservation
	transitioned := false

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		res, err := s.lockReservation(txCtx, in)
		if err != nil {
			return err
		}

		if res.DepositPaidAt != nil {
			if res.DepositSessionID != in.SessionID {
				s.logger.Printf("WARN: deposit re-confirmation with new session reservation=%s session=%s", res.ID, in.SessionID)
			}
			result = res
			return nil
		}
		if res.Status != domain.StatusAwaitingPayment {
			return domain.ErrWrongStatus
		}

		res.DepositPaidAt = &now
		res.DepositSessionID = in.SessionID
		res.Status = domain.StatusConfirmed
		res.UpdatedAt = now
		if err := s.repo.SaveReservation(txCtx, res); err != nil {
			return err
		}
		result = res
		transitioned = true
		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}

	if transitioned {
		s.send(ctx, notify.Intent{
			Kind:          notify.KindDepositReceived,
			ReservationID: result.ID,
			Recipient:     result.CustomerEmail,
		})
	}
	return result, nil
}

// lockReservation resolves the webhook target either by reservation id or,
// for out-of-order deliveries that only carry the session, by session id.
func (s *LifecycleService) lockReservation(ctx context.Context, in ConfirmDepositInput) (domain.Reservation, error) {
	if in.ReservationID != "" {
		return s.repo.GetReservationForUpdate(ctx, in.ReservationID)
	}
	found, err := s.repo.FindByDepositSession(ctx, in.SessionID)
	if err != nil {
		return domain.Reservation{}, err
	}
	if found == nil {
		return domain.Reservation{}, domain.ErrReservationNotFound
	}
	return s.repo.GetReservationForUpdate(ctx, found.ID)
}

type ConfirmBalanceInput struct {
	ReservationID string
	SessionID     string
}

// ConfirmBalance records the balance payment. The deposit must already be
// paid; re-delivery of the same session is a no-op.
func (s *LifecycleService) ConfirmBalance(ctx context.Context, in ConfirmBalanceInput) (domain.Reservation, error) {
	if in.SessionID == "" {
		return domain.Reservation{}, domain.ErrSessionRequired
	}

	now := s.clock.Now()
	var result domain.Reservation
	transitioned := false

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		res, err := s.repo.GetReservationForUpdate(txCtx, in.ReservationID)
		if err != nil {
			return err
		}

		if res.BalancePaidAt != nil {
			if res.BalanceSessionID == in.SessionID {
				result = res
				return nil
			}
			return domain.ErrBalanceAlreadyPaid
		}
		if res.DepositPaidAt == nil {
			return domain.ErrDepositNotPaid
		}
		if res.Status.Terminal() {
			return domain.ErrWrongStatus
		}

		res.BalancePaidAt = &now
		res.BalanceSessionID = in.SessionID
		res.UpdatedAt = now
		if err := s.repo.SaveReservation(txCtx, res); err != nil {
			return err
		}
		result = res
		transitioned = true
		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}

	if transitioned {
		s.send(ctx, notify.Intent{
			Kind:          notify.KindBalanceReceived,
			ReservationID: result.ID,
			Recipient:     result.CustomerEmail,
		})
	}
	return result, nil
}

type ContractInput struct {
	ReservationID  string
	RequesterEmail string
}

// RequestContract moves a confirmed reservation into the signature flow.
func (s *LifecycleService) RequestContract(ctx context.Context, in ContractInput) (domain.Reservation, error) {
	now := s.clock.Now()
	var result domain.Reservation

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		res, err := s.repo.GetReservationForUpdate(txCtx, in.ReservationID)
		if err != nil {
			return err
		}
		if !res.Owner(in.RequesterEmail) {
			return domain.ErrOwnershipMismatch
		}
		if res.Status != domain.StatusConfirmed {
			return domain.ErrWrongStatus
		}

		res.Status = domain.StatusContractPending
		res.UpdatedAt = now
		if err := s.repo.SaveReservation(txCtx, res); err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}

	s.send(ctx, notify.Intent{
		Kind:          notify.KindContractRequested,
		ReservationID: result.ID,
		Recipient:     result.CustomerEmail,
	})
	return result, nil
}

// SignContract records the customer signature. A second signature or a
// non-owner is rejected without mutation.
func (s *LifecycleService) SignContract(ctx context.Context, in ContractInput) (domain.Reservation, error) {
	now := s.clock.Now()
	var result domain.Reservation

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		res, err := s.repo.GetReservationForUpdate(txCtx, in.ReservationID)
		if err != nil {
			return err
		}
		if !res.Owner(in.RequesterEmail) {
			return domain.ErrOwnershipMismatch
		}
		if res.ContractSignedAt != nil {
			return domain.ErrAlreadySigned
		}
		if res.Status != domain.StatusContractPending {
			return domain.ErrWrongStatus
		}

		res.ContractSignedAt = &now
		res.Status = domain.StatusContractSigned
		res.UpdatedAt = now
		if err := s.repo.SaveReservation(txCtx, res); err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}
	return result, nil
}

type RequestCancellationInput struct {
	ReservationID  string
	RequesterEmail string
	Reason         string
	// ClientPolicy is what the caller displayed; informational only.
	ClientPolicy domain.RefundPolicy
}

// RequestCancellation opens the cancellation workflow. The refund policy is
// recomputed server-side; a client mismatch is logged, not rejected.
func (s *LifecycleService) RequestCancellation(ctx context.Context, in RequestCancellationInput) (domain.Reservation, error) {
	now := s.clock.Now()
	var result domain.Reservation

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		res, err := s.repo.GetReservationForUpdate(txCtx, in.ReservationID)
		if err != nil {
			return err
		}
		if !res.Owner(in.RequesterEmail) {
			return domain.ErrOwnershipMismatch
		}
		if !res.EventStart.After(now) {
			return domain.ErrPastEvent
		}
		switch res.Status {
		case domain.StatusCancelled, domain.StatusCancelRequested, domain.StatusCompleted:
			return domain.ErrWrongStatus
		}

		policy := domain.RefundPolicyAt(res.EventStart, now)
		if in.ClientPolicy != "" && in.ClientPolicy != policy {
			s.logger.Printf("WARN: refund policy mismatch reservation=%s client=%s server=%s", res.ID, in.ClientPolicy, policy)
		}

		res.CancelRequest = &domain.CancelRequest{
			RequestedAt:    now,
			Reason:         in.Reason,
			Policy:         policy,
			PreviousStatus: res.Status,
		}
		res.Status = domain.StatusCancelRequested
		res.UpdatedAt = now
		if err := s.repo.SaveReservation(txCtx, res); err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}
	return result, nil
}

type ResolveInput struct {
	ReservationID string
	Approve       bool
}

// ResolveCancellation is the administrator decision: approve cancels the
// reservation for good, reject restores the interrupted status.
func (s *LifecycleService) ResolveCancellation(ctx context.Context, in ResolveInput) (domain.Reservation, error) {
	now := s.clock.Now()
	var result domain.Reservation

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		res, err := s.repo.GetReservationForUpdate(txCtx, in.ReservationID)
		if err != nil {
			return err
		}
		if res.Status != domain.StatusCancelRequested || res.CancelRequest == nil {
			return domain.ErrWrongStatus
		}

		if in.Approve {
			res.Status = domain.StatusCancelled
		} else {
			res.Status = res.CancelRequest.PreviousStatus
			res.CancelRequest = nil
		}
		res.UpdatedAt = now
		if err := s.repo.SaveReservation(txCtx, res); err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}

	kind := notify.KindCancelRejected
	fields := map[string]string{}
	if in.Approve {
		kind = notify.KindCancelApproved
		if result.CancelRequest != nil {
			fields["refund_policy"] = string(result.CancelRequest.Policy)
		}
	}
	s.send(ctx, notify.Intent{
		Kind:          kind,
		ReservationID: result.ID,
		Recipient:     result.CustomerEmail,
		Fields:        fields,
	})
	return result, nil
}

type RequestChangeInput struct {
	ReservationID  string
	RequesterEmail string
	Message        string
	Changes        domain.ChangeFields
}

// RequestChange opens the change workflow. At least five days of notice and
// a free-text message are required.
func (s *LifecycleService) RequestChange(ctx context.Context, in RequestChangeInput) (domain.Reservation, error) {
	if in.Message == "" {
		return domain.Reservation{}, domain.ErrMessageRequired
	}

	now := s.clock.Now()
	var result domain.Reservation

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		res, err := s.repo.GetReservationForUpdate(txCtx, in.ReservationID)
		if err != nil {
			return err
		}
		if !res.Owner(in.RequesterEmail) {
			return domain.ErrOwnershipMismatch
		}
		if res.EventStart.Sub(now) < s.changeNotice {
			return domain.ErrInsufficientNotice
		}
		switch res.Status {
		case domain.StatusCancelled, domain.StatusCancelRequested, domain.StatusCompleted, domain.StatusChangeRequested:
			return domain.ErrWrongStatus
		}

		res.ChangeRequest = &domain.ChangeRequest{
			RequestedAt:    now,
			Message:        in.Message,
			Changes:        in.Changes,
			PreviousStatus: res.Status,
		}
		res.Status = domain.StatusChangeRequested
		res.UpdatedAt = now
		if err := s.repo.SaveReservation(txCtx, res); err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}
	return result, nil
}

// ResolveChange applies or rejects the requested field changes.
func (s *LifecycleService) ResolveChange(ctx context.Context, in ResolveInput) (domain.Reservation, error) {
	now := s.clock.Now()
	var result domain.Reservation

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		res, err := s.repo.GetReservationForUpdate(txCtx, in.ReservationID)
		if err != nil {
			return err
		}
		if res.Status != domain.StatusChangeRequested || res.ChangeRequest == nil {
			return domain.ErrWrongStatus
		}

		if in.Approve {
			changes := res.ChangeRequest.Changes
			if changes.Address != "" {
				res.Address = changes.Address
			}
			if changes.EventStart != nil {
				res.EventStart = *changes.EventStart
			}
			if changes.EventEnd != nil {
				res.EventEnd = *changes.EventEnd
			}
			res.Status = domain.StatusConfirmed
		} else {
			res.Status = res.ChangeRequest.PreviousStatus
		}
		res.ChangeRequest = nil
		res.UpdatedAt = now
		if err := s.repo.SaveReservation(txCtx, res); err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}

	kind := notify.KindChangeRejected
	if in.Approve {
		kind = notify.KindChangeApproved
	}
	s.send(ctx, notify.Intent{
		Kind:          kind,
		ReservationID: result.ID,
		Recipient:     result.CustomerEmail,
	})
	return result, nil
}

type SecurityDepositInput struct {
	ReservationID string
	SessionRef    string
}

// AuthorizeSecurityDeposit stores the provider session reference for the
// refundable security deposit. It never changes the reservation status.
func (s *LifecycleService) AuthorizeSecurityDeposit(ctx context.Context, in SecurityDepositInput) (domain.Reservation, error) {
	if in.SessionRef == "" {
		return domain.Reservation{}, domain.ErrSessionRequired
	}
	if s.securityDeposit.IsZero() {
		return domain.Reservation{}, domain.ErrNoSecurityDeposit
	}

	now := s.clock.Now()
	var result domain.Reservation

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		res, err := s.repo.GetReservationForUpdate(txCtx, in.ReservationID)
		if err != nil {
			return err
		}
		if res.Status.Terminal() {
			return domain.ErrWrongStatus
		}

		res.SecurityDeposit = s.securityDeposit
		res.SecurityDepositSessionID = in.SessionRef
		res.UpdatedAt = now
		if err := s.repo.SaveReservation(txCtx, res); err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}
	return result, nil
}

// BeginRental marks the equipment handover on the event day. It touches the
// status column alone, so it goes through the conditional update and loses
// cleanly to any concurrent workflow instead of locking the row. Contract
// signature is the normal entry; confirmed covers bookings that skipped the
// contract flow.
func (s *LifecycleService) BeginRental(ctx context.Context, reservationID string) (domain.Reservation, error) {
	for _, from := range []domain.Status{domain.StatusContractSigned, domain.StatusConfirmed} {
		ok, err := s.repo.UpdateStatusIf(ctx, reservationID, from, domain.StatusInProgress)
		if err != nil {
			return domain.Reservation{}, err
		}
		if ok {
			return s.repo.GetReservation(ctx, reservationID)
		}
	}
	if _, err := s.repo.GetReservation(ctx, reservationID); err != nil {
		return domain.Reservation{}, err
	}
	return domain.Reservation{}, domain.ErrWrongStatus
}

// CompleteRental marks the equipment return, closing the reservation.
func (s *LifecycleService) CompleteRental(ctx context.Context, reservationID string) (domain.Reservation, error) {
	ok, err := s.repo.UpdateStatusIf(ctx, reservationID, domain.StatusInProgress, domain.StatusCompleted)
	if err != nil {
		return domain.Reservation{}, err
	}
	if !ok {
		if _, err := s.repo.GetReservation(ctx, reservationID); err != nil {
			return domain.Reservation{}, err
		}
		return domain.Reservation{}, domain.ErrWrongStatus
	}
	return s.repo.GetReservation(ctx, reservationID)
}

func (s *LifecycleService) send(ctx context.Context, intent notify.Intent) {
	if err := s.notifier.Send(ctx, intent); err != nil {
		s.logger.Printf("WARN: notify %s failed reservation=%s: %v", intent.Kind, intent.ReservationID, err)
	}
}
