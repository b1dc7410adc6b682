package pipeline

import "gorm.io/gorm"

// loader partitions admitted records into fixed-size, order-preserving
// batches and commits each batch as one transaction. A failed batch rolls
// back alone; committed batches stay committed and later batches still run.
type loader[T Record] struct {
	db        *gorm.DB
	batchSize int
}

func newLoader[T Record](db *gorm.DB, batchSize int) *loader[T] {
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &loader[T]{db: db, batchSize: batchSize}
}

// Load inserts the records batch by batch, updating the summary counters.
// The returned error is non-nil only when the connection is lost mid-run.
func (l *loader[T]) Load(records []T, res *Summary) error {
	for start := 0; start < len(records); start += l.batchSize {
		end := start + l.batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		err := l.db.Transaction(func(tx *gorm.DB) error {
			// One multi-row insert per batch, not per-row round trips.
			return tx.Create(&batch).Error
		})
		if err != nil {
			if IsConnectionLost(err) {
				return err
			}
			res.Errors += len(batch)
			res.FailedBatches++
			continue
		}
		res.Inserted += len(batch)
		res.Batches++
	}
	return nil
}
