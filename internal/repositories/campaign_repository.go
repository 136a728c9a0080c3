package repositories

import (
	"context"
	"database/sql"
	"errors"

	"shapagatBack/internal/models"
)

type CampaignRepository struct {
	DB *sql.DB
}

// execer lets the campaign delta run either directly on the pool or
// inside an open transaction owned by the donation repository.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// applyCampaignDelta adds a signed amount to the running total as a
// single atomic read-modify-write. Callers are responsible for applying
// it at most once per settled donation.
func applyCampaignDelta(ctx context.Context, ex execer, campaignID int, delta int64) error {
	res, err := ex.ExecContext(ctx,
		`UPDATE campaigns SET current_amount = current_amount + ?, updated_at = NOW() WHERE id = ?`,
		delta, campaignID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrCampaignNotFound
	}
	return nil
}

// ApplyDelta mutates the campaign running total. Nothing outside the
// donation settle/delete paths and the drift sweep may write this column.
func (r *CampaignRepository) ApplyDelta(ctx context.Context, campaignID int, delta int64) error {
	return applyCampaignDelta(ctx, r.DB, campaignID, delta)
}

func (r *CampaignRepository) CreateCampaign(ctx context.Context, c models.Campaign) (models.Campaign, error) {
	if c.Status == "" {
		c.Status = models.CampaignActive
	}
	query := `INSERT INTO campaigns (title, description, image_url, goal_amount, current_amount, status, created_at)
	          VALUES (?, ?, ?, ?, 0, ?, NOW())`
	res, err := r.DB.ExecContext(ctx, query, c.Title, c.Description, c.ImageURL, c.GoalAmount, c.Status)
	if err != nil {
		return models.Campaign{}, err
	}
	id, _ := res.LastInsertId()
	c.ID = int(id)
	c.CurrentAmount = 0
	return c, nil
}

func (r *CampaignRepository) GetCampaignByID(ctx context.Context, id int) (models.Campaign, error) {
	var c models.Campaign
	query := `SELECT id, title, description, image_url, goal_amount, current_amount, status, created_at, updated_at
	          FROM campaigns WHERE id = ?`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Title, &c.Description, &c.ImageURL, &c.GoalAmount, &c.CurrentAmount, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Campaign{}, models.ErrCampaignNotFound
	}
	return c, err
}

func (r *CampaignRepository) GetCampaigns(ctx context.Context, status string) ([]models.Campaign, error) {
	query := `SELECT id, title, description, image_url, goal_amount, current_amount, status, created_at, updated_at
	          FROM campaigns`
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

	var campaigns []models.Campaign
	for rows.Next() {
		var c models.Campaign
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.ImageURL, &c.GoalAmount, &c.CurrentAmount, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// UpdateCampaign never touches current_amount; the total moves only
// through applyCampaignDelta.
func (r *CampaignRepository) UpdateCampaign(ctx context.Context, c models.Campaign) (models.Campaign, error) {
	query := `UPDATE campaigns SET title = ?, description = ?, image_url = ?, goal_amount = ?, status = ?, updated_at = NOW() WHERE id = ?`
	res, err := r.DB.ExecContext(ctx, query, c.Title, c.Description, c.ImageURL, c.GoalAmount, c.Status, c.ID)
	if err != nil {
		return models.Campaign{}, err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		if _, err := r.GetCampaignByID(ctx, c.ID); err != nil {
			return models.Campaign{}, err
		}
	}
	return r.GetCampaignByID(ctx, c.ID)
}

func (r *CampaignRepository) DeleteCampaign(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM campaigns WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return models.ErrCampaignNotFound
	}
	return nil
}

// RepairTotals rewrites every drifted running total from the sum of
// succeeded donations and returns how many campaigns were corrected.
// It backstops the incremental deltas after a crash between redeliveries.
func (r *CampaignRepository) RepairTotals(ctx context.Context) (int64, error) {
	query := `UPDATE campaigns c
	          SET c.current_amount = COALESCE((
	                  SELECT SUM(d.amount) FROM donations d
	                  WHERE d.campaign_id = c.id AND d.status = 'succeeded'), 0)
	          WHERE c.current_amount <> COALESCE((
	                  SELECT SUM(d.amount) FROM donations d
	                  WHERE d.campaign_id = c.id AND d.status = 'succeeded'), 0)`
	res, err := r.DB.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
