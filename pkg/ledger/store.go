package ledger

import (
	"errors"
	"time"

	"recpay/models"

	"gorm.io/gorm"
)

// Gate setting values. The gate controls whether new payments are accepted;
// it never blocks admin operations on existing records.
const (
	GateActive = "active"
	GatePaused = "paused"
	// GateSettingKey is the settings-table row holding the gate value.
	GateSettingKey = "payment_status"
)

// Store wraps the payments, receipts and settings tables. All bulk state
// transitions run as a single SQL statement so concurrent readers never see
// a partially applied batch.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

// Insert persists a new payment. The database unique index on
// transaction_id is the authoritative guard against id races; a collision
// is reported as ErrDuplicateTransactionID so the caller can retry
// generation.
func (s *Store) Insert(p *models.Payment) error {
	if p.Status == "" {
		p.Status = models.PaymentStatusSuccess
	}
	if err := s.db.Create(p).Error; err != nil {
		if IsUniqueConstraintError(err) {
			return ErrDuplicateTransactionID
		}
		return err
	}
	return nil
}

// CountCreatedSince counts payments (any trashed state) created at or after t.
func (s *Store) CountCreatedSince(t time.Time) (int64, error) {
	var cnt int64
	err := s.db.Model(&models.Payment{}).Where("created_at >= ?", t).Count(&cnt).Error
	return cnt, err
}

// ListActive returns non-trashed payments, newest first.
func (s *Store) ListActive() ([]models.Payment, error) {
	var items []models.Payment
	err := s.db.Where("trashed = ?", false).Order("id desc").Find(&items).Error
	return items, err
}

// ListTrashed returns trashed payments, newest first.
func (s *Store) ListTrashed() ([]models.Payment, error) {
	var items []models.Payment
	err := s.db.Where("trashed = ?", true).Order("id desc").Find(&items).Error
	return items, err
}

// FindByTransactionID fetches a payment by its public transaction id.
func (s *Store) FindByTransactionID(txid string) (*models.Payment, error) {
	var p models.Payment
	if err := s.db.Where("transaction_id = ?", txid).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Trash soft-deletes a payment. Missing or already-trashed ids are a soft
// no-op: (false, nil).
func (s *Store) Trash(id uint) (bool, error) {
	res := s.db.Model(&models.Payment{}).Where("id = ? AND trashed = ?", id, false).Update("trashed", true)
	return res.RowsAffected > 0, res.Error
}

// Restore clears the trashed flag; symmetric to Trash.
func (s *Store) Restore(id uint) (bool, error) {
	res := s.db.Model(&models.Payment{}).Where("id = ? AND trashed = ?", id, true).Update("trashed", false)
	return res.RowsAffected > 0, res.Error
}

// Purge permanently removes a payment, and only a trashed one; purging an
// active or missing id is a soft no-op.
func (s *Store) Purge(id uint) (bool, error) {
	res := s.db.Where("id = ? AND trashed = ?", id, true).Delete(&models.Payment{})
	return res.RowsAffected > 0, res.Error
}

// TrashAll trashes every active payment in one statement.
func (s *Store) TrashAll() (int64, error) {
	res := s.db.Model(&models.Payment{}).Where("trashed = ?", false).Update("trashed", true)
	return res.RowsAffected, res.Error
}

// RestoreAll restores every trashed payment in one statement.
func (s *Store) RestoreAll() (int64, error) {
	res := s.db.Model(&models.Payment{}).Where("trashed = ?", true).Update("trashed", false)
	return res.RowsAffected, res.Error
}

// PurgeAllTrashed permanently removes every trashed payment in one statement.
func (s *Store) PurgeAllTrashed() (int64, error) {
	res := s.db.Where("trashed = ?", true).Delete(&models.Payment{})
	return res.RowsAffected, res.Error
}

// GateStatus reads the payment gate. A missing row reads as active, the
// initialization default.
func (s *Store) GateStatus() (string, error) {
	var set models.Setting
	if err := s.db.First(&set, "key = ?", GateSettingKey).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GateActive, nil
		}
		return "", err
	}
	return set.Value, nil
}

// SetGateStatus durably updates the gate. Read-after-write consistency comes
// from the single settings row being updated in place.
func (s *Store) SetGateStatus(value string) error {
	if value != GateActive && value != GatePaused {
		return ErrInvalidGateStatus
	}
	res := s.db.Model(&models.Setting{}).Where("key = ?", GateSettingKey).Update("value", value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return s.db.Create(&models.Setting{Key: GateSettingKey, Value: value}).Error
	}
	return nil
}

// InsertReceipt stores a proof-of-payment upload row.
func (s *Store) InsertReceipt(r *models.Receipt) error {
	return s.db.Create(r).Error
}

// ListReceipts returns uploaded receipts, newest first.
func (s *Store) ListReceipts() ([]models.Receipt, error) {
	var items []models.Receipt
	err := s.db.Order("id desc").Find(&items).Error
	return items, err
}
