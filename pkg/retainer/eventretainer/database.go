package eventretainer

import (
	"gorm.io/gorm"

	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/collection-pricing/pkg/storage/sqlstore"
	"github.com/iotaledger/hive.go/ierrors"
)

var dbTables = []interface{}{
	&ReceiptRecord{},
	&EventRecord{},
}

// retainerDatabase is a wrapper around the gorm database to store receipts and events.
type retainerDatabase struct {
	dbExecFunc sqlstore.ExecFunc
}

func newRetainerDatabase(dbExecFunc sqlstore.ExecFunc) (*retainerDatabase, error) {
	// the schema does not change while the node is running, so migrating once is sufficient
	if err := dbExecFunc(func(db *gorm.DB) error {
		return db.AutoMigrate(dbTables...)
	}); err != nil {
		return nil, ierrors.Wrap(err, "failed to auto migrate tables")
	}

	return &retainerDatabase{
		dbExecFunc: dbExecFunc,
	}, nil
}

// StoreReceipt stores the receipt and the given events in a single database transaction.
func (r *retainerDatabase) StoreReceipt(receipt *ReceiptRecord, events []*EventRecord) error {
	if err := r.dbExecFunc(func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(receipt).Error; err != nil {
				return err
			}

			// events are keyed by their ledger index, storing them again is a no-op
			for _, event := range events {
				if err := tx.Save(event).Error; err != nil {
					return err
				}
			}

			return nil
		})
	}); err != nil {
		return ierrors.Wrap(err, "failed to store receipt")
	}

	return nil
}

// ReceiptByTransactionID returns the committed receipt of the transaction if there is one, and the latest receipt
// otherwise.
func (r *retainerDatabase) ReceiptByTransactionID(transactionID model.TransactionID) (*ReceiptRecord, error) {
	receipt := &ReceiptRecord{}

	if err := r.dbExecFunc(func(dbTx *gorm.DB) error {
		// a committed receipt is final
		if err := dbTx.First(receipt, &ReceiptRecord{TransactionID: transactionID[:], Committed: true}).Error; err == nil {
			return nil
		} else if !ierrors.Is(err, gorm.ErrRecordNotFound) {
			return ierrors.Wrapf(err, "failed to check if a committed receipt exists for %s", transactionID.ToHex())
		}

		return dbTx.Where("transaction_id = ?", transactionID[:]).Order("id desc").First(receipt).Error
	}); err != nil {
		if ierrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ierrors.Wrapf(ErrEntryNotFound, "receipt of %s", transactionID.ToHex())
		}

		return nil, ierrors.Wrap(err, "failed to query receipt")
	}

	return receipt, nil
}

// EventsByTopic returns at most limit events of the topic with an index of at least startIndex in ascending order.
func (r *retainerDatabase) EventsByTopic(topic model.Identity, startIndex uint64, limit int) ([]*EventRecord, error) {
	var results []*EventRecord

	if err := r.dbExecFunc(func(db *gorm.DB) error {
		return db.Model(&EventRecord{}).
			Where("topic = ? AND `index` >= ?", topic[:], startIndex).
			Order("`index` asc").
			Limit(limit).Find(&results).Error
	}); err != nil {
		return nil, ierrors.Wrapf(err, "failed to query events of topic %s", topic)
	}

	return results, nil
}

// EventsByTransactionID returns all events emitted by the transaction in ascending order.
func (r *retainerDatabase) EventsByTransactionID(transactionID model.TransactionID) ([]*EventRecord, error) {
	var results []*EventRecord

	if err := r.dbExecFunc(func(db *gorm.DB) error {
		return db.Model(&EventRecord{}).
			Where("transaction_id = ?", transactionID[:]).
			Order("`index` asc").
			Find(&results).Error
	}); err != nil {
		return nil, ierrors.Wrapf(err, "failed to query events of transaction %s", transactionID.ToHex())
	}

	return results, nil
}

// PruneReceipts deletes all receipts of failed executions that are older than the given unix timestamp.
func (r *retainerDatabase) PruneReceipts(before int64) (int64, error) {
	var deleted int64

	if err := r.dbExecFunc(func(db *gorm.DB) error {
		result := db.Where("committed = ? AND timestamp < ?", false, before).Delete(&ReceiptRecord{})
		deleted = result.RowsAffected

		return result.Error
	}); err != nil {
		return 0, ierrors.Wrap(err, "failed to prune receipts")
	}

	return deleted, nil
}
