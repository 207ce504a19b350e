package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/simfolio/paper-portfolio-backend/internal/apperrors"
	"github.com/simfolio/paper-portfolio-backend/internal/model"
)

// TransactionRepository provides data access methods for the transaction table.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = "id, asset_id, type, quantity, price, discount, date, total, profit_loss, profit_loss_percent"

func scanTransaction(scan func(dest ...any) error) (model.Transaction, error) {
	var t model.Transaction
	var dateStr string
	var discount, profitLoss, profitLossPercent sql.NullFloat64

	err := scan(
		&t.ID,
		&t.AssetID,
		&t.Type,
		&t.Quantity,
		&t.Price,
		&discount,
		&dateStr,
		&t.Total,
		&profitLoss,
		&profitLossPercent,
	)
	if err != nil {
		return model.Transaction{}, err
	}

	t.Date, err = ParseTime(dateStr)
	if err != nil {
		return model.Transaction{}, err
	}

	if discount.Valid {
		t.Discount = &discount.Float64
	}
	if profitLoss.Valid {
		t.ProfitLoss = &profitLoss.Float64
	}
	if profitLossPercent.Valid {
		t.ProfitLossPercent = &profitLossPercent.Float64
	}

	return t, nil
}

// GetTransactions retrieves all transactions ordered by date ascending.
// Returns an empty slice when nothing is stored.
func (r *TransactionRepository) GetTransactions() ([]model.Transaction, error) {
	rows, err := r.db.Query(`SELECT ` + transactionColumns + ` FROM "transaction" ORDER BY date ASC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction table results: %w", err)
		}
		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction table: %w", err)
	}

	return transactions, nil
}

// GetTransactionsByAsset retrieves all transactions referencing the given asset,
// ordered by date ascending.
func (r *TransactionRepository) GetTransactionsByAsset(assetID string) ([]model.Transaction, error) {
	rows, err := r.db.Query(
		`SELECT `+transactionColumns+` FROM "transaction" WHERE asset_id = ? ORDER BY date ASC, rowid ASC`,
		assetID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction table results: %w", err)
		}
		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction table: %w", err)
	}

	return transactions, nil
}

// GetTransaction retrieves a single transaction by ID.
// Returns apperrors.ErrTransactionNotFound when no such row exists.
func (r *TransactionRepository) GetTransaction(transactionID string) (model.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRow(
		`SELECT `+transactionColumns+` FROM "transaction" WHERE id = ?`, transactionID,
	).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to scan transaction table results: %w", err)
	}
	return t, nil
}

// InsertTransaction stores a new transaction record.
func (r *TransactionRepository) InsertTransaction(t *model.Transaction) error {
	var discount, profitLoss, profitLossPercent any
	if t.Discount != nil {
		discount = *t.Discount
	}
	if t.ProfitLoss != nil {
		profitLoss = *t.ProfitLoss
	}
	if t.ProfitLossPercent != nil {
		profitLossPercent = *t.ProfitLossPercent
	}

	_, err := r.db.Exec(
		`INSERT INTO "transaction" (`+transactionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.AssetID, t.Type, t.Quantity, t.Price, discount,
		FormatTime(t.Date), t.Total, profitLoss, profitLossPercent,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// DeleteTransaction removes a single transaction record.
func (r *TransactionRepository) DeleteTransaction(transactionID string) error {
	result, err := r.db.Exec(`DELETE FROM "transaction" WHERE id = ?`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// DeleteByAsset removes all transactions referencing an asset. The schema
// cascades this on asset deletion already; the explicit path exists so the
// ledger owns the cascade semantics rather than relying on the store.
func (r *TransactionRepository) DeleteByAsset(assetID string) error {
	if _, err := r.db.Exec(`DELETE FROM "transaction" WHERE asset_id = ?`, assetID); err != nil {
		return fmt.Errorf("failed to delete asset transactions: %w", err)
	}
	return nil
}

// DeleteAll clears the transaction table (reset and import paths).
func (r *TransactionRepository) DeleteAll() error {
	if _, err := r.db.Exec(`DELETE FROM "transaction"`); err != nil {
		return fmt.Errorf("failed to clear transaction table: %w", err)
	}
	return nil
}
