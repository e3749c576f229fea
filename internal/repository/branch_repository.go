package repository

import (
	"context"
	"fmt"

	model "github.com/zdziszkee/bankmap/internal/model"
)

const branchSelect = `SELECT br.id, br.bank_id, br.code, br.name, br.address, br.phone, br.image,
br.latitude, br.longitude, br.created_at, br.updated_at, b.name, b.code
FROM branches br
JOIN banks b ON b.id = br.bank_id`

// BranchRepository defines the data operations on branches
type BranchRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Branch, error)
	FindByBankAndCode(ctx context.Context, bankID int64, code string) (*model.Branch, error)
	List(ctx context.Context) ([]model.Branch, error)
	ListByBank(ctx context.Context, bankID int64) ([]model.Branch, error)
	Save(ctx context.Context, branch *model.Branch) error
	Delete(ctx context.Context, id int64) error
}

// SQLBranchRepository implements BranchRepository on PostgreSQL
type SQLBranchRepository struct {
	db DBTX
}

// NewSQLBranchRepository creates a new branch repository
func NewSQLBranchRepository(db DBTX) BranchRepository {
	return &SQLBranchRepository{db: db}
}

func (r *SQLBranchRepository) FindByID(ctx context.Context, id int64) (*model.Branch, error) {
	row := r.db.QueryRowContext(ctx, branchSelect+" WHERE br.id = $1", id)
	branch, err := scanBranch(row)
	if err != nil {
		return nil, wrapError("select branch", err)
	}
	return branch, nil
}

func (r *SQLBranchRepository) FindByBankAndCode(ctx context.Context, bankID int64, code string) (*model.Branch, error) {
	row := r.db.QueryRowContext(ctx, branchSelect+" WHERE br.bank_id = $1 AND br.code = $2", bankID, code)
	branch, err := scanBranch(row)
	if err != nil {
		return nil, wrapError("select branch", err)
	}
	return branch, nil
}

// List returns every branch ordered by bank name, then branch name
func (r *SQLBranchRepository) List(ctx context.Context) ([]model.Branch, error) {
	return r.query(ctx, branchSelect+" ORDER BY b.name, br.name, br.id")
}

// ListByBank returns the branches owned by one bank
func (r *SQLBranchRepository) ListByBank(ctx context.Context, bankID int64) ([]model.Branch, error) {
	return r.query(ctx, branchSelect+" WHERE br.bank_id = $1 ORDER BY br.name, br.id", bankID)
}

// Save inserts or fully overwrites a branch
func (r *SQLBranchRepository) Save(ctx context.Context, branch *model.Branch) error {
	if branch.ID == 0 {
		query := `INSERT INTO branches (bank_id, code, name, address, phone, image, latitude, longitude)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, created_at, updated_at`
		err := r.db.QueryRowContext(ctx, query,
			branch.BankID, branch.Code, branch.Name, branch.Address, branch.Phone, branch.Image,
			branch.Latitude, branch.Longitude,
		).Scan(&branch.ID, &branch.CreatedAt, &branch.UpdatedAt)
		return wrapError("insert branch", err)
	}

	query := `UPDATE branches SET bank_id = $1, code = $2, name = $3, address = $4, phone = $5, image = $6,
latitude = $7, longitude = $8, updated_at = now()
WHERE id = $9
RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		branch.BankID, branch.Code, branch.Name, branch.Address, branch.Phone, branch.Image,
		branch.Latitude, branch.Longitude, branch.ID,
	).Scan(&branch.CreatedAt, &branch.UpdatedAt)
	return wrapError("update branch", err)
}

// Delete removes a branch and, through the foreign key, its ATMs
func (r *SQLBranchRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM branches WHERE id = $1", id)
	if err != nil {
		return wrapError("delete branch", err)
	}
	return expectAffected("delete branch", res)
}

func (r *SQLBranchRepository) query(ctx context.Context, query string, args ...any) ([]model.Branch, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapError("list branches", err)
	}
	defer rows.Close()

	branches := []model.Branch{}
	for rows.Next() {
		branch, err := scanBranch(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres scan branch failed: %w", err)
		}
		branches = append(branches, *branch)
	}
	return branches, rows.Err()
}

func scanBranch(scanner rowScanner) (*model.Branch, error) {
	var branch model.Branch
	err := scanner.Scan(
		&branch.ID,
		&branch.BankID,
		&branch.Code,
		&branch.Name,
		&branch.Address,
		&branch.Phone,
		&branch.Image,
		&branch.Latitude,
		&branch.Longitude,
		&branch.CreatedAt,
		&branch.UpdatedAt,
		&branch.BankName,
		&branch.BankCode,
	)
	if err != nil {
		return nil, err
	}
	return &branch, nil
}
