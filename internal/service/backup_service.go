package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/simfolio/paper-portfolio-backend/internal/apperrors"
	"github.com/simfolio/paper-portfolio-backend/internal/model"
	"github.com/simfolio/paper-portfolio-backend/internal/repository"
)

// backupVersion is the export document version.
const backupVersion = "1.0"

// State keys used inside the export document for table-backed data.
const (
	assetsBackupKey       = repository.StateNamespace + "assets"
	transactionsBackupKey = repository.StateNamespace + "transactions"
)

// BackupService exports and imports the full portfolio state as a single JSON
// document of namespaced keys, interchangeable with the original storage
// layout. When an encryption key is configured the document travels as a
// fernet token instead of plain JSON.
type BackupService struct {
	assetRepo       *repository.AssetRepository
	transactionRepo *repository.TransactionRepository
	stateRepo       *repository.StateRepository
	ledgerService   *LedgerService
	key             *fernet.Key
}

// NewBackupService creates a new BackupService. encryptionKey is an optional
// base64 fernet key; empty means plain JSON backups.
func NewBackupService(
	assetRepo *repository.AssetRepository,
	transactionRepo *repository.TransactionRepository,
	stateRepo *repository.StateRepository,
	ledgerService *LedgerService,
	encryptionKey string,
) (*BackupService, error) {
	s := &BackupService{
		assetRepo:       assetRepo,
		transactionRepo: transactionRepo,
		stateRepo:       stateRepo,
		ledgerService:   ledgerService,
	}

	if encryptionKey != "" {
		key, err := fernet.DecodeKey(encryptionKey)
		if err != nil {
			return nil, fmt.Errorf("invalid backup encryption key: %w", err)
		}
		s.key = key
	}

	return s, nil
}

// Export assembles the backup document from every namespaced key plus the
// table-backed assets and transactions, and returns it serialized (and
// encrypted when a key is configured).
func (s *BackupService) Export() ([]byte, error) {
	data, err := s.stateRepo.All()
	if err != nil {
		return nil, err
	}

	assets, err := s.assetRepo.GetAssets()
	if err != nil {
		return nil, err
	}
	assetsJSON, err := json.Marshal(assets)
	if err != nil {
		return nil, fmt.Errorf("failed to encode assets: %w", err)
	}
	data[assetsBackupKey] = string(assetsJSON)

	transactions, err := s.transactionRepo.GetTransactions()
	if err != nil {
		return nil, err
	}
	transactionsJSON, err := json.Marshal(transactions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transactions: %w", err)
	}
	data[transactionsBackupKey] = string(transactionsJSON)

	// Balance and settings may never have been written explicitly; export
	// their effective values so an import reproduces them exactly.
	if _, ok := data[repository.BalanceKey]; !ok {
		balance, err := s.ledgerService.Balance()
		if err != nil {
			return nil, err
		}
		data[repository.BalanceKey] = strconv.FormatFloat(balance, 'g', -1, 64)
	}
	if _, ok := data[repository.SettingsKey]; !ok {
		settingsJSON, err := json.Marshal(model.DefaultSettings())
		if err != nil {
			return nil, fmt.Errorf("failed to encode settings: %w", err)
		}
		data[repository.SettingsKey] = string(settingsJSON)
	}

	doc, err := json.MarshalIndent(model.Backup{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Version:    backupVersion,
		Data:       data,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}

	if s.key != nil {
		token, err := fernet.EncryptAndSign(doc, s.key)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt backup: %w", err)
		}
		return token, nil
	}

	return doc, nil
}

// Import fully replaces portfolio state from a backup document: every
// namespaced key is deleted, then rewritten from the document
// (delete-then-write). The document must carry a non-null, non-array data
// object or the import is rejected as malformed before any state is touched.
func (s *BackupService) Import(raw []byte) error {
	raw = bytes.TrimSpace(raw)

	// Accept fernet tokens when a key is configured.
	if s.key != nil && len(raw) > 0 && raw[0] != '{' {
		decrypted := fernet.VerifyAndDecrypt(raw, 0, []*fernet.Key{s.key})
		if decrypted == nil {
			return apperrors.ErrMalformedImport
		}
		raw = decrypted
	}

	var doc struct {
		ExportedAt string          `json:"exportedAt"`
		Version    string          `json:"version"`
		Data       json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return apperrors.ErrMalformedImport
	}

	data, err := decodeBackupData(doc.Data)
	if err != nil {
		return err
	}

	// Parse table-backed payloads up front so a malformed document is
	// rejected with no state touched.
	var assets []model.Asset
	if rawAssets, ok := data[assetsBackupKey]; ok {
		if err := json.Unmarshal([]byte(rawAssets), &assets); err != nil {
			return apperrors.ErrMalformedImport
		}
	}
	var transactions []model.Transaction
	if rawTransactions, ok := data[transactionsBackupKey]; ok {
		if err := json.Unmarshal([]byte(rawTransactions), &transactions); err != nil {
			return apperrors.ErrMalformedImport
		}
	}

	if err := s.transactionRepo.DeleteAll(); err != nil {
		return err
	}
	if err := s.assetRepo.DeleteAll(); err != nil {
		return err
	}
	if err := s.stateRepo.DeleteNamespace(); err != nil {
		return err
	}

	for i := range assets {
		if err := s.assetRepo.InsertAsset(&assets[i]); err != nil {
			return err
		}
	}
	for i := range transactions {
		if err := s.transactionRepo.InsertTransaction(&transactions[i]); err != nil {
			return err
		}
	}

	for key, value := range data {
		if key == assetsBackupKey || key == transactionsBackupKey {
			continue
		}
		if !strings.HasPrefix(key, repository.StateNamespace) {
			continue
		}
		if err := s.stateRepo.Set(key, value); err != nil {
			return err
		}
	}

	return nil
}

// decodeBackupData validates that data is a non-null, non-array JSON object
// of string values.
func decodeBackupData(raw json.RawMessage) (map[string]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, apperrors.ErrMalformedImport
	}

	var data map[string]string
	if err := json.Unmarshal(trimmed, &data); err != nil {
		return nil, apperrors.ErrMalformedImport
	}
	return data, nil
}
