package http

import (
	"context"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sndrush/booking-api/internal/app"
	"github.com/sndrush/booking-api/internal/domain"
)

const testAdminKey = "test-admin-key"

func sampleReservation() domain.Reservation {
	start := time.Date(2026, 10, 14, 18, 0, 0, 0, time.UTC)
	return domain.Reservation{
		ID:            "11111111-1111-1111-1111-111111111111",
		CustomerEmail: "marie@example.com",
		Status:        domain.StatusConfirmed,
		EventStart:    start,
		EventEnd:      start.Add(6 * time.Hour),
		PostalCode:    "75011",
		Zone:          domain.ZoneParis,
		PriceTotal:    decimal.NewFromInt(390),
		DepositAmount: decimal.NewFromInt(117),
		BalanceAmount: decimal.NewFromInt(273),
	}
}

type fakeBookingCreator struct {
	in     app.CreateBookingInput
	result app.CreateBookingResult
	err    error
}

func (f *fakeBookingCreator) CreateBooking(_ context.Context, in app.CreateBookingInput) (app.CreateBookingResult, error) {
	f.in = in
	if f.err != nil {
		return app.CreateBookingResult{}, f.err
	}
	return f.result, nil
}

type fakeTokenResolver struct {
	res       domain.Reservation
	err       error
	gotID     string
	gotPlain  string
	issued    app.EnsureTokenResult
	issueErr  error
	issuedFor string
}

func (f *fakeTokenResolver) ResolveByToken(_ context.Context, reservationID, plain string) (domain.Reservation, error) {
	f.gotID = reservationID
	f.gotPlain = plain
	if f.err != nil {
		return domain.Reservation{}, f.err
	}
	return f.res, nil
}

func (f *fakeTokenResolver) EnsurePublicToken(_ context.Context, reservationID string) (app.EnsureTokenResult, error) {
	f.issuedFor = reservationID
	if f.issueErr != nil {
		return app.EnsureTokenResult{}, f.issueErr
	}
	return f.issued, nil
}

// fakeLifecycle records the last call per operation and answers with res/err.
type fakeLifecycle struct {
	res  domain.Reservation
	err  error
	last string

	cancelIn app.RequestCancellationInput
	changeIn app.RequestChangeInput
	contract app.ContractInput
	security app.SecurityDepositInput
	deposit  app.ConfirmDepositInput
	balance  app.ConfirmBalanceInput
	resolve  app.ResolveInput
	rentalID string
}

func (f *fakeLifecycle) answer(op string) (domain.Reservation, error) {
	f.last = op
	if f.err != nil {
		return domain.Reservation{}, f.err
	}
	return f.res, nil
}

func (f *fakeLifecycle) RequestContract(_ context.Context, in app.ContractInput) (domain.Reservation, error) {
	f.contract = in
	return f.answer("request_contract")
}

func (f *fakeLifecycle) SignContract(_ context.Context, in app.ContractInput) (domain.Reservation, error) {
	f.contract = in
	return f.answer("sign_contract")
}

func (f *fakeLifecycle) RequestCancellation(_ context.Context, in app.RequestCancellationInput) (domain.Reservation, error) {
	f.cancelIn = in
	return f.answer("request_cancellation")
}

func (f *fakeLifecycle) RequestChange(_ context.Context, in app.RequestChangeInput) (domain.Reservation, error) {
	f.changeIn = in
	return f.answer("request_change")
}

func (f *fakeLifecycle) AuthorizeSecurityDeposit(_ context.Context, in app.SecurityDepositInput) (domain.Reservation, error) {
	f.security = in
	return f.answer("security_deposit")
}

func (f *fakeLifecycle) ConfirmDeposit(_ context.Context, in app.ConfirmDepositInput) (domain.Reservation, error) {
	f.deposit = in
	return f.answer("confirm_deposit")
}

func (f *fakeLifecycle) ConfirmBalance(_ context.Context, in app.ConfirmBalanceInput) (domain.Reservation, error) {
	f.balance = in
	return f.answer("confirm_balance")
}

func (f *fakeLifecycle) ResolveCancellation(_ context.Context, in app.ResolveInput) (domain.Reservation, error) {
	f.resolve = in
	return f.answer("resolve_cancellation")
}

func (f *fakeLifecycle) ResolveChange(_ context.Context, in app.ResolveInput) (domain.Reservation, error) {
	f.resolve = in
	return f.answer("resolve_change")
}

func (f *fakeLifecycle) BeginRental(_ context.Context, reservationID string) (domain.Reservation, error) {
	f.rentalID = reservationID
	return f.answer("begin_rental")
}

func (f *fakeLifecycle) CompleteRental(_ context.Context, reservationID string) (domain.Reservation, error) {
	f.rentalID = reservationID
	return f.answer("complete_rental")
}

type fakeReader struct {
	res domain.Reservation
	err error
}

func (f *fakeReader) GetReservation(_ context.Context, _ string) (domain.Reservation, error) {
	if f.err != nil {
		return domain.Reservation{}, f.err
	}
	return f.res, nil
}

type testRouter struct {
	handler   http.Handler
	bookings  *fakeBookingCreator
	access    *fakeTokenResolver
	lifecycle *fakeLifecycle
	reader    *fakeReader
}

func newTestRouter() *testRouter {
	bookings := &fakeBookingCreator{}
	access := &fakeTokenResolver{}
	lifecycle := &fakeLifecycle{}
	reader := &fakeReader{}

	handler := NewRouter(RouterConfig{
		Bookings:     bookings,
		Reservations: NewReservationHandlers(access, lifecycle),
		Payments:     lifecycle,
		Admin:        NewAdminHandlers(reader, lifecycle, access, lifecycle),
		AdminKey:     testAdminKey,
	})

	return &testRouter{
		handler:   handler,
		bookings:  bookings,
		access:    access,
		lifecycle: lifecycle,
		reader:    reader,
	}
}
