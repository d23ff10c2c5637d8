package mysql

import (
	"context"
	"database/sql"

	"travelapi/internal/domain"
)

func (r *Repo) CreatePayment(ctx context.Context, p *domain.Payment) error {
	var gatewayRef any
	if p.GatewayTxRef != "" {
		gatewayRef = p.GatewayTxRef
	}
	res, err := r.db.ExecContext(ctx, insertPaymentSQL,
		p.PaymentRef, p.BookingID, p.UserID, p.Amount, p.Currency,
		string(p.Status), p.CheckoutURL, gatewayRef)
	if err != nil {
		// uq_payments_booking: one payment per booking
		if isDuplicate(err) {
			return domain.ErrConflict
		}
		return err
	}
	p.ID, err = res.LastInsertId()
	return err
}

func (r *Repo) GetPaymentByRef(ctx context.Context, ref string) (domain.Payment, error) {
	var (
		p            domain.Payment
		status       string
		gatewayTxRef sql.NullString
		checkoutURL  sql.NullString
	)
	err := r.db.QueryRowContext(ctx, getPaymentByRefSQL, ref).Scan(
		&p.ID, &p.PaymentRef, &p.BookingID, &p.UserID, &p.Amount, &p.Currency,
		&status, &checkoutURL, &gatewayTxRef, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return domain.Payment{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Payment{}, err
	}
	p.Status = domain.PaymentStatus(status)
	p.CheckoutURL = checkoutURL.String
	p.GatewayTxRef = gatewayTxRef.String
	return p, nil
}

func (r *Repo) UpdatePaymentStatus(ctx context.Context, ref string, status domain.PaymentStatus, gatewayTxRef string) error {
	var gw any
	if gatewayTxRef != "" {
		gw = gatewayTxRef
	}
	res, err := r.db.ExecContext(ctx, updatePaymentStatusSQL, string(status), gw, ref)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var exists bool
		if e := r.db.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM payments WHERE payment_ref = ?)", ref,
		).Scan(&exists); e == nil && !exists {
			return domain.ErrNotFound
		}
	}
	return nil
}
