package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sndrush/booking-api/internal/domain"
)

// ReservationRepository persists the reservation aggregate. Workflow
// sub-records and booking-time snapshots are stored as JSONB columns.
type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

func (r *ReservationRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

const reservationColumns = `
id, customer_email, status, event_start, event_end, postal_code, address, zone,
price_total, deposit_amount, balance_amount, security_deposit,
deposit_paid_at, balance_paid_at,
deposit_session_id, balance_session_id, security_deposit_session_id,
contract_signed_at, public_token_hash, public_token_expires_at,
composition, quote_lines, cancel_request, change_request,
created_at, updated_at`

func (r *ReservationRepository) InsertReservation(ctx context.Context, res domain.Reservation) error {
	composition, quoteLines, cancelReq, changeReq, err := marshalSnapshots(res)
	if err != nil {
		return err
	}

	const stmt = `
INSERT INTO reservations (` + reservationColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
        $9, $10, $11, $12,
        $13, $14,
        $15, $16, $17,
        $18, $19, $20,
        $21, $22, $23, $24,
        $25, $26)`

	_, err = r.exec(ctx, stmt,
		res.ID, res.CustomerEmail, res.Status, res.EventStart, res.EventEnd, res.PostalCode, res.Address, res.Zone,
		res.PriceTotal, res.DepositAmount, res.BalanceAmount, res.SecurityDeposit,
		res.DepositPaidAt, res.BalancePaidAt,
		res.DepositSessionID, res.BalanceSessionID, res.SecurityDepositSessionID,
		res.ContractSignedAt, res.PublicTokenHash, res.PublicTokenExpiresAt,
		composition, quoteLines, cancelReq, changeReq,
		res.CreatedAt, res.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert reservation %s: duplicate: %w", res.ID, err)
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepository) GetReservation(ctx context.Context, id string) (domain.Reservation, error) {
	const query = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	return r.scanOne(r.queryRow(ctx, query, id))
}

func (r *ReservationRepository) GetReservationForUpdate(ctx context.Context, id string) (domain.Reservation, error) {
	const query = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.queryRow(ctx, query, id))
}

func (r *ReservationRepository) FindByDepositSession(ctx context.Context, sessionID string) (*domain.Reservation, error) {
	const query = `SELECT ` + reservationColumns + ` FROM reservations WHERE deposit_session_id = $1`
	res, err := r.scanOne(r.queryRow(ctx, query, sessionID))
	if err != nil {
		if err == domain.ErrReservationNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &res, nil
}

func (r *ReservationRepository) SaveReservation(ctx context.Context, res domain.Reservation) error {
	composition, quoteLines, cancelReq, changeReq, err := marshalSnapshots(res)
	if err != nil {
		return err
	}

	const stmt = `
UPDATE reservations SET
	customer_email = $2, status = $3, event_start = $4, event_end = $5,
	postal_code = $6, address = $7, zone = $8,
	price_total = $9, deposit_amount = $10, balance_amount = $11, security_deposit = $12,
	deposit_paid_at = $13, balance_paid_at = $14,
	deposit_session_id = $15, balance_session_id = $16, security_deposit_session_id = $17,
	contract_signed_at = $18, public_token_hash = $19, public_token_expires_at = $20,
	composition = $21, quote_lines = $22, cancel_request = $23, change_request = $24,
	updated_at = $25
WHERE id = $1`

	tag, err := r.exec(ctx, stmt,
		res.ID, res.CustomerEmail, res.Status, res.EventStart, res.EventEnd,
		res.PostalCode, res.Address, res.Zone,
		res.PriceTotal, res.DepositAmount, res.BalanceAmount, res.SecurityDeposit,
		res.DepositPaidAt, res.BalancePaidAt,
		res.DepositSessionID, res.BalanceSessionID, res.SecurityDepositSessionID,
		res.ContractSignedAt, res.PublicTokenHash, res.PublicTokenExpiresAt,
		composition, quoteLines, cancelReq, changeReq,
		res.UpdatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("save reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

// UpdateStatusIf performs the conditional status transition the lifecycle
// depends on: the update applies only while the persisted status still
// matches expected, so a racing writer loses cleanly instead of silently.
func (r *ReservationRepository) UpdateStatusIf(ctx context.Context, id string, expected, next domain.Status) (bool, error) {
	const stmt = `UPDATE reservations SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`
	tag, err := r.exec(ctx, stmt, id, expected, next)
	if err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrInvalidID
		}
		return false, fmt.Errorf("conditional status update: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ReservationRepository) UpdatePublicToken(ctx context.Context, id, hash string, expiresAt time.Time) error {
	const stmt = `UPDATE reservations SET public_token_hash = $2, public_token_expires_at = $3, updated_at = NOW() WHERE id = $1`
	tag, err := r.exec(ctx, stmt, id, hash, expiresAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update public token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

// ExpireStaleAwaitingPayment cancels unpaid reservations created before the
// cutoff, at most limit per call so the sweep never holds long locks.
func (r *ReservationRepository) ExpireStaleAwaitingPayment(ctx context.Context, cutoff time.Time, limit int) (int, error) {
	const stmt = `
UPDATE reservations SET status = $1, updated_at = NOW()
WHERE id IN (
	SELECT id FROM reservations
	WHERE status = $2 AND created_at < $3
	ORDER BY created_at
	LIMIT $4
	FOR UPDATE SKIP LOCKED
)`

	tag, err := r.exec(ctx, stmt, domain.StatusCancelled, domain.StatusAwaitingPayment, cutoff, limit)
	if err != nil {
		return 0, fmt.Errorf("expire stale reservations: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *ReservationRepository) scanOne(row pgx.Row) (domain.Reservation, error) {
	var res domain.Reservation
	var composition, quoteLines, cancelReq, changeReq []byte

	err := row.Scan(
		&res.ID, &res.CustomerEmail, &res.Status, &res.EventStart, &res.EventEnd,
		&res.PostalCode, &res.Address, &res.Zone,
		&res.PriceTotal, &res.DepositAmount, &res.BalanceAmount, &res.SecurityDeposit,
		&res.DepositPaidAt, &res.BalancePaidAt,
		&res.DepositSessionID, &res.BalanceSessionID, &res.SecurityDepositSessionID,
		&res.ContractSignedAt, &res.PublicTokenHash, &res.PublicTokenExpiresAt,
		&composition, &quoteLines, &cancelReq, &changeReq,
		&res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Reservation{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Reservation{}, domain.ErrReservationNotFound
		}
		return domain.Reservation{}, fmt.Errorf("scan reservation: %w", err)
	}

	if len(composition) > 0 {
		if err := json.Unmarshal(composition, &res.Composition); err != nil {
			return domain.Reservation{}, fmt.Errorf("decode composition: %w", err)
		}
	}
	if len(quoteLines) > 0 {
		if err := json.Unmarshal(quoteLines, &res.QuoteLines); err != nil {
			return domain.Reservation{}, fmt.Errorf("decode quote lines: %w", err)
		}
	}
	if len(cancelReq) > 0 {
		res.CancelRequest = &domain.CancelRequest{}
		if err := json.Unmarshal(cancelReq, res.CancelRequest); err != nil {
			return domain.Reservation{}, fmt.Errorf("decode cancel request: %w", err)
		}
	}
	if len(changeReq) > 0 {
		res.ChangeRequest = &domain.ChangeRequest{}
		if err := json.Unmarshal(changeReq, res.ChangeRequest); err != nil {
			return domain.Reservation{}, fmt.Errorf("decode change request: %w", err)
		}
	}
	return res, nil
}

func marshalSnapshots(res domain.Reservation) (composition, quoteLines, cancelReq, changeReq []byte, err error) {
	if composition, err = json.Marshal(res.Composition); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode composition: %w", err)
	}
	if quoteLines, err = json.Marshal(res.QuoteLines); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode quote lines: %w", err)
	}
	if res.CancelRequest != nil {
		if cancelReq, err = json.Marshal(res.CancelRequest); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("encode cancel request: %w", err)
		}
	}
	if res.ChangeRequest != nil {
		if changeReq, err = json.Marshal(res.ChangeRequest); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("encode change request: %w", err)
		}
	}
	return composition, quoteLines, cancelReq, changeReq, nil
}

func (r *ReservationRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *ReservationRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
