package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/simfolio/paper-portfolio-backend/internal/apperrors"
	"github.com/simfolio/paper-portfolio-backend/internal/model"
)

// AssetRepository provides data access methods for the asset table.
type AssetRepository struct {
	db *sql.DB
}

// NewAssetRepository creates a new AssetRepository with the provided database connection.
func NewAssetRepository(db *sql.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

const assetColumns = "id, symbol, name, quantity, current_price, initial_price, last_price_update"

func scanAsset(scan func(dest ...any) error) (model.Asset, error) {
	var a model.Asset
	var lastUpdateStr string

	err := scan(
		&a.ID,
		&a.Symbol,
		&a.Name,
		&a.Quantity,
		&a.CurrentPrice,
		&a.InitialPrice,
		&lastUpdateStr,
	)
	if err != nil {
		return model.Asset{}, err
	}

	a.LastPriceUpdate, err = ParseTime(lastUpdateStr)
	if err != nil {
		return model.Asset{}, err
	}

	return a, nil
}

// GetAssets retrieves all assets, depleted ones included, in insertion order.
// Returns an empty slice when nothing is stored.
func (r *AssetRepository) GetAssets() ([]model.Asset, error) {
	rows, err := r.db.Query(`SELECT ` + assetColumns + ` FROM asset ORDER BY rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query asset table: %w", err)
	}
	defer rows.Close()

	assets := []model.Asset{}
	for rows.Next() {
		a, err := scanAsset(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset table results: %w", err)
		}
		assets = append(assets, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset table: %w", err)
	}

	return assets, nil
}

// GetAsset retrieves a single asset by ID.
// Returns apperrors.ErrAssetNotFound when no such row exists.
func (r *AssetRepository) GetAsset(assetID string) (model.Asset, error) {
	a, err := scanAsset(r.db.QueryRow(
		`SELECT `+assetColumns+` FROM asset WHERE id = ?`, assetID,
	).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Asset{}, apperrors.ErrAssetNotFound
	}
	if err != nil {
		return model.Asset{}, fmt.Errorf("failed to scan asset table results: %w", err)
	}
	return a, nil
}

// SymbolExists reports whether any asset, depleted ones included, carries the
// given symbol.
func (r *AssetRepository) SymbolExists(symbol string) (bool, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(1) FROM asset WHERE symbol = ?`, symbol).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to query asset table: %w", err)
	}
	return count > 0, nil
}

// InsertAsset stores a new asset.
func (r *AssetRepository) InsertAsset(a *model.Asset) error {
	_, err := r.db.Exec(
		`INSERT INTO asset (`+assetColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Symbol, a.Name, a.Quantity, a.CurrentPrice, a.InitialPrice,
		FormatTime(a.LastPriceUpdate),
	)
	if err != nil {
		return fmt.Errorf("failed to insert asset: %w", err)
	}
	return nil
}

// UpdateAsset persists the mutable fields of an asset.
func (r *AssetRepository) UpdateAsset(a *model.Asset) error {
	_, err := r.db.Exec(
		`UPDATE asset SET quantity = ?, current_price = ?, initial_price = ?, last_price_update = ? WHERE id = ?`,
		a.Quantity, a.CurrentPrice, a.InitialPrice, FormatTime(a.LastPriceUpdate), a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update asset: %w", err)
	}
	return nil
}

// DeleteAsset removes an asset. The schema's ON DELETE CASCADE removes its
// transactions alongside it.
func (r *AssetRepository) DeleteAsset(assetID string) error {
	result, err := r.db.Exec(`DELETE FROM asset WHERE id = ?`, assetID)
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrAssetNotFound
	}
	return nil
}

// DeleteAll clears the asset table (reset and import paths).
func (r *AssetRepository) DeleteAll() error {
	if _, err := r.db.Exec(`DELETE FROM asset`); err != nil {
		return fmt.Errorf("failed to clear asset table: %w", err)
	}
	return nil
}
