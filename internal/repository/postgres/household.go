package postgres

import (
	"context"
	"database/sql"
	"time"

	"hearthshare-backend/internal/domain"
	"hearthshare-backend/internal/repository"
)

type householdRepository struct {
	db *sql.DB
}

func NewHouseholdRepository(db *sql.DB) repository.HouseholdRepository {
	return &householdRepository{db: db}
}

func (r *householdRepository) Create(ctx context.Context, h *domain.Household) error {
	query := `INSERT INTO households (name, fairness_mode, max_members, active, auto_pilot, invite_code, head_of_household_id, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	h.CreatedOn = time.Now().Format("2006-01-02")
	return r.db.QueryRowContext(ctx, query, h.Name, h.FairnessMode, h.MaxMembers, h.Active, h.AutoPilot, h.InviteCode, h.HeadOfHouseholdID, h.CreatedOn).Scan(&h.ID)
}

func (r *householdRepository) GetByID(ctx context.Context, id int32) (*domain.Household, error) {
	h := &domain.Household{}
	query := `SELECT id, name, fairness_mode, max_members, active, auto_pilot, invite_code, head_of_household_id, created_on FROM households WHERE id = $1`
	var createdOn time.Time
	err := r.db.QueryRowContext(ctx, query, id).Scan(&h.ID, &h.Name, &h.FairnessMode, &h.MaxMembers, &h.Active, &h.AutoPilot, &h.InviteCode, &h.HeadOfHouseholdID, &createdOn)
	if err != nil {
		return nil, err
	}
	h.CreatedOn = createdOn.Format("2006-01-02")
	return h, nil
}

func (r *householdRepository) GetByInviteCode(ctx context.Context, code string) (*domain.Household, error) {
	h := &domain.Household{}
	query := `SELECT id, name, fairness_mode, max_members, active, auto_pilot, invite_code, head_of_household_id, created_on
	          FROM households WHERE LOWER(invite_code) = LOWER($1) AND active = true`
	var createdOn time.Time
	err := r.db.QueryRowContext(ctx, query, code).Scan(&h.ID, &h.Name, &h.FairnessMode, &h.MaxMembers, &h.Active, &h.AutoPilot, &h.InviteCode, &h.HeadOfHouseholdID, &createdOn)
	if err != nil {
		return nil, err
	}
	h.CreatedOn = createdOn.Format("2006-01-02")
	return h, nil
}

func (r *householdRepository) Update(ctx context.Context, h *domain.Household) error {
	query := `UPDATE households SET name=$1, fairness_mode=$2, max_members=$3, active=$4, auto_pilot=$5, head_of_household_id=$6 WHERE id=$7`
	_, err := r.db.ExecContext(ctx, query, h.Name, h.FairnessMode, h.MaxMembers, h.Active, h.AutoPilot, h.HeadOfHouseholdID, h.ID)
	return err
}

func (r *householdRepository) ListActiveIDs(ctx context.Context) ([]int32, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM households WHERE active = true ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int32
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *householdRepository) ApplyUpdate(ctx context.Context, id int32, upd domain.HouseholdUpdate) error {
	if upd.Empty() {
		return nil
	}
	query := `UPDATE households SET
	            name = COALESCE($1, name),
	            fairness_mode = COALESCE($2, fairness_mode),
	            auto_pilot = COALESCE($3, auto_pilot)
	          WHERE id = $4`
	_, err := r.db.ExecContext(ctx, query, upd.Name, (*string)(upd.FairnessMode), upd.AutoPilot, id)
	return err
}
