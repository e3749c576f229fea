package repository

import (
	"context"
	"fmt"
	"strings"

	model "github.com/zdziszkee/bankmap/internal/model"
)

const atmSelect = `SELECT a.id, a.branch_id, a.code, a.status, a.address, a.image,
a.latitude, a.longitude, a.created_at, a.updated_at,
br.name, br.code, b.id, b.name, b.code
FROM atms a
JOIN branches br ON br.id = a.branch_id
JOIN banks b ON b.id = br.bank_id`

// ATMRepository defines the data operations on ATMs
type ATMRepository interface {
	FindByID(ctx context.Context, id int64) (*model.ATM, error)
	FindByCode(ctx context.Context, code string) (*model.ATM, error)
	List(ctx context.Context) ([]model.ATM, error)
	ListByBank(ctx context.Context, bankID int64) ([]model.ATM, error)
	Save(ctx context.Context, atm *model.ATM) error
	UpdateStatus(ctx context.Context, ids []int64, status model.ATMStatus) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// SQLATMRepository implements ATMRepository on PostgreSQL
type SQLATMRepository struct {
	db DBTX
}

// NewSQLATMRepository creates a new ATM repository
func NewSQLATMRepository(db DBTX) ATMRepository {
	return &SQLATMRepository{db: db}
}

func (r *SQLATMRepository) FindByID(ctx context.Context, id int64) (*model.ATM, error) {
	atm, err := scanATM(r.db.QueryRowContext(ctx, atmSelect+" WHERE a.id = $1", id))
	if err != nil {
		return nil, wrapError("select atm", err)
	}
	return atm, nil
}

func (r *SQLATMRepository) FindByCode(ctx context.Context, code string) (*model.ATM, error) {
	atm, err := scanATM(r.db.QueryRowContext(ctx, atmSelect+" WHERE a.code = $1", code))
	if err != nil {
		return nil, wrapError("select atm", err)
	}
	return atm, nil
}

// List returns every ATM ordered by branch name, then code
func (r *SQLATMRepository) List(ctx context.Context) ([]model.ATM, error) {
	return r.query(ctx, atmSelect+" ORDER BY br.name, a.code")
}

// ListByBank returns the ATMs of every branch owned by the bank
func (r *SQLATMRepository) ListByBank(ctx context.Context, bankID int64) ([]model.ATM, error) {
	return r.query(ctx, atmSelect+" WHERE br.bank_id = $1 ORDER BY br.name, a.code", bankID)
}

// Save inserts or fully overwrites an ATM
func (r *SQLATMRepository) Save(ctx context.Context, atm *model.ATM) error {
	if atm.ID == 0 {
		query := `INSERT INTO atms (branch_id, code, status, address, image, latitude, longitude)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, created_at, updated_at`
		err := r.db.QueryRowContext(ctx, query,
			atm.BranchID, atm.Code, string(atm.Status), atm.Address, atm.Image, atm.Latitude, atm.Longitude,
		).Scan(&atm.ID, &atm.CreatedAt, &atm.UpdatedAt)
		return wrapError("insert atm", err)
	}

	query := `UPDATE atms SET branch_id = $1, code = $2, status = $3, address = $4, image = $5,
latitude = $6, longitude = $7, updated_at = now()
WHERE id = $8
RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		atm.BranchID, atm.Code, string(atm.Status), atm.Address, atm.Image, atm.Latitude, atm.Longitude, atm.ID,
	).Scan(&atm.CreatedAt, &atm.UpdatedAt)
	return wrapError("update atm", err)
}

// UpdateStatus sets the status of several ATMs at once and reports how many rows changed
func (r *SQLATMRepository) UpdateStatus(ctx context.Context, ids []int64, status model.ATMStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids)+1)
	args = append(args, string(status))
	for i, id := range ids {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
		args = append(args, id)
	}

	query := fmt.Sprintf("UPDATE atms SET status = $1, updated_at = now() WHERE id IN (%s)", strings.Join(placeholders, ", "))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, wrapError("update atm status", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("postgres update atm status failed: %w", err)
	}
	return n, nil
}

func (r *SQLATMRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM atms WHERE id = $1", id)
	if err != nil {
		return wrapError("delete atm", err)
	}
	return expectAffected("delete atm", res)
}

func (r *SQLATMRepository) query(ctx context.Context, query string, args ...any) ([]model.ATM, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapError("list atms", err)
	}
	defer rows.Close()

	atms := []model.ATM{}
	for rows.Next() {
		atm, err := scanATM(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres scan atm failed: %w", err)
		}
		atms = append(atms, *atm)
	}
	return atms, rows.Err()
}

func scanATM(scanner rowScanner) (*model.ATM, error) {
	var atm model.ATM
	err := scanner.Scan(
		&atm.ID,
		&atm.BranchID,
		&atm.Code,
		&atm.Status,
		&atm.Address,
		&atm.Image,
		&atm.Latitude,
		&atm.Longitude,
		&atm.CreatedAt,
		&atm.UpdatedAt,
		&atm.BranchName,
		&atm.BranchCode,
		&atm.BankID,
		&atm.BankName,
		&atm.BankCode,
	)
	if err != nil {
		return nil, err
	}
	return &atm, nil
}
