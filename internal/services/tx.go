package services

import "gorm.io/gorm"

// inTx runs fn inside the caller's transaction when one is supplied, and
// opens a fresh one otherwise. Multi-write workflows (client deletion
// cascade, batch creation) go through this so all steps commit together or
// not at all.
func inTx(db *gorm.DB, tx *gorm.DB, fn func(tx *gorm.DB) error) error {
	if tx != nil {
		return fn(tx)
	}
	return db.Transaction(fn)
}
