package repository

import (
	"context"
	"fmt"

	model "github.com/zdziszkee/bankmap/internal/model"
)

const bankColumns = "id, code, name, address, phone, image, latitude, longitude, created_at, updated_at"

// BankRepository defines the data operations on banks
type BankRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Bank, error)
	FindByCode(ctx context.Context, code string) (*model.Bank, error)
	List(ctx context.Context) ([]model.Bank, error)
	Save(ctx context.Context, bank *model.Bank) error
	Delete(ctx context.Context, id int64) error
}

// SQLBankRepository implements BankRepository on PostgreSQL
type SQLBankRepository struct {
	db DBTX
}

// NewSQLBankRepository creates a new bank repository
func NewSQLBankRepository(db DBTX) BankRepository {
	return &SQLBankRepository{db: db}
}

// FindByID loads a bank by primary key
func (r *SQLBankRepository) FindByID(ctx context.Context, id int64) (*model.Bank, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+bankColumns+" FROM banks WHERE id = $1", id)
	bank, err := scanBank(row)
	if err != nil {
		return nil, wrapError("select bank", err)
	}
	return bank, nil
}

// FindByCode loads a bank by its unique code
func (r *SQLBankRepository) FindByCode(ctx context.Context, code string) (*model.Bank, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+bankColumns+" FROM banks WHERE code = $1", code)
	bank, err := scanBank(row)
	if err != nil {
		return nil, wrapError("select bank", err)
	}
	return bank, nil
}

// List returns all banks ordered by name
func (r *SQLBankRepository) List(ctx context.Context) ([]model.Bank, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+bankColumns+" FROM banks ORDER BY name, id")
	if err != nil {
		return nil, wrapError("list banks", err)
	}
	defer rows.Close()

	banks := []model.Bank{}
	for rows.Next() {
		bank, err := scanBank(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres scan bank failed: %w", err)
		}
		banks = append(banks, *bank)
	}
	return banks, rows.Err()
}

// Save inserts the bank when ID is zero, otherwise overwrites every column of
// the existing row. Timestamps are set by the store and copied back.
func (r *SQLBankRepository) Save(ctx context.Context, bank *model.Bank) error {
	if bank.ID == 0 {
		query := `INSERT INTO banks (code, name, address, phone, image, latitude, longitude)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, created_at, updated_at`
		err := r.db.QueryRowContext(ctx, query,
			bank.Code, bank.Name, bank.Address, bank.Phone, bank.Image, bank.Latitude, bank.Longitude,
		).Scan(&bank.ID, &bank.CreatedAt, &bank.UpdatedAt)
		return wrapError("insert bank", err)
	}

	query := `UPDATE banks SET code = $1, name = $2, address = $3, phone = $4, image = $5,
latitude = $6, longitude = $7, updated_at = now()
WHERE id = $8
RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		bank.Code, bank.Name, bank.Address, bank.Phone, bank.Image, bank.Latitude, bank.Longitude, bank.ID,
	).Scan(&bank.CreatedAt, &bank.UpdatedAt)
	return wrapError("update bank", err)
}

// Delete removes a bank; branches and their ATMs go with it through ON DELETE CASCADE
func (r *SQLBankRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM banks WHERE id = $1", id)
	if err != nil {
		return wrapError("delete bank", err)
	}
	return expectAffected("delete bank", res)
}

func scanBank(scanner rowScanner) (*model.Bank, error) {
	var bank model.Bank
	err := scanner.Scan(
		&bank.ID,
		&bank.Code,
		&bank.Name,
		&bank.Address,
		&bank.Phone,
		&bank.Image,
		&bank.Latitude,
		&bank.Longitude,
		&bank.CreatedAt,
		&bank.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &bank, nil
}
