package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"shapagatBack/internal/models"
)

type DonationRepository struct {
	DB *sql.DB
}

const donationColumns = `id, campaign_id, donor_id, amount, message, is_anonymous, status, payment_intent_id, created_at, status_changed_at`

func scanDonation(row interface{ Scan(dest ...any) error }) (models.Donation, error) {
	var d models.Donation
	err := row.Scan(&d.ID, &d.CampaignID, &d.DonorID, &d.Amount, &d.Message, &d.IsAnonymous,
		&d.Status, &d.PaymentIntentID, &d.CreatedAt, &d.StatusChangedAt)
	return d, err
}

// CreateDonation inserts a new pending row. The payment_intent_id column
// carries a unique index; a collision means the provider handle was
// already recorded and is surfaced as ErrDuplicatePaymentIntent.
func (r *DonationRepository) CreateDonation(ctx context.Context, d models.Donation) (models.Donation, error) {
	query := `INSERT INTO donations (campaign_id, donor_id, amount, message, is_anonymous, status, payment_intent_id, created_at)
	          VALUES (?, ?, ?, ?, ?, 'pending', ?, NOW())`
	res, err := r.DB.ExecContext(ctx, query, d.CampaignID, d.DonorID, d.Amount, d.Message, d.IsAnonymous, d.PaymentIntentID)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return models.Donation{}, models.ErrDuplicatePaymentIntent
		}
		return models.Donation{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Donation{}, err
	}
	d.ID = int(id)
	d.Status = models.DonationPending
	return d, nil
}

func (r *DonationRepository) GetDonationByID(ctx context.Context, id int) (models.Donation, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+donationColumns+` FROM donations WHERE id = ?`, id)
	d, err := scanDonation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Donation{}, models.ErrDonationNotFound
	}
	return d, err
}

func (r *DonationRepository) GetDonationByPaymentIntentID(ctx context.Context, paymentIntentID string) (models.Donation, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+donationColumns+` FROM donations WHERE payment_intent_id = ?`, paymentIntentID)
	d, err := scanDonation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Donation{}, models.ErrDonationNotFound
	}
	return d, err
}

// SettleSuccess moves a donation to succeeded and credits its campaign in
// one transaction. The status UPDATE is conditional on the row still
// being pending, so concurrent redeliveries of the same provider event
// race on the gate: exactly one wins and applies the delta, the rest
// observe applied=false and treat the event as a no-op.
func (r *DonationRepository) SettleSuccess(ctx context.Context, paymentIntentID string, at time.Time) (bool, models.Donation, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, models.Donation{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE donations SET status = 'succeeded', status_changed_at = ? WHERE payment_intent_id = ? AND status = 'pending'`,
		at, paymentIntentID)
	if err != nil {
		return false, models.Donation{}, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, models.Donation{}, err
	}
	if rows == 0 {
		// Already terminal or unknown; nothing to credit.
		return false, models.Donation{}, nil
	}

	row := tx.QueryRowContext(ctx, `SELECT `+donationColumns+` FROM donations WHERE payment_intent_id = ?`, paymentIntentID)
	d, err := scanDonation(row)
	if err != nil {
		return false, models.Donation{}, err
	}

	if err := applyCampaignDelta(ctx, tx, d.CampaignID, d.Amount); err != nil {
		return false, models.Donation{}, err
	}

	if err := tx.Commit(); err != nil {
		return false, models.Donation{}, err
	}
	return true, d, nil
}

// SettleFailure records a failed or canceled outcome. Same conditional
// gate as SettleSuccess, no campaign delta.
func (r *DonationRepository) SettleFailure(ctx context.Context, paymentIntentID string, status models.DonationStatus, at time.Time) (bool, error) {
	if status != models.DonationFailed && status != models.DonationCanceled {
		return false, errors.New("repositories: status must be failed or canceled")
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE donations SET status = ?, status_changed_at = ? WHERE payment_intent_id = ? AND status = 'pending'`,
		string(status), at, paymentIntentID)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

// DeleteDonation removes a row and, when the row was succeeded,
// compensates the campaign total with a negative delta inside the same
// transaction so the ledger stays reconciled.
func (r *DonationRepository) DeleteDonation(ctx context.Context, id int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT `+donationColumns+` FROM donations WHERE id = ? FOR UPDATE`, id)
	d, err := scanDonation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrDonationNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM donations WHERE id = ?`, id); err != nil {
		return err
	}

	if d.Status == models.DonationSucceeded {
		if err := applyCampaignDelta(ctx, tx, d.CampaignID, -d.Amount); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *DonationRepository) GetDonationsByCampaign(ctx context.Context, campaignID int) ([]models.Donation, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+donationColumns+` FROM donations WHERE campaign_id = ? ORDER BY created_at DESC`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDonations(rows)
}

func (r *DonationRepository) GetDonationsByDonor(ctx context.Context, donorID int) ([]models.Donation, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+donationColumns+` FROM donations WHERE donor_id = ? ORDER BY created_at DESC`, donorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDonations(rows)
}

func (r *DonationRepository) GetDonations(ctx context.Context, status string) ([]models.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDonations(rows)
}

func collectDonations(rows *sql.Rows) ([]models.Donation, error) {
	var donations []models.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		donations = append(donations, d)
	}
	return donations, rows.Err()
}
