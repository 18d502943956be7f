package repository

import (
	"colpy_backend/internal/model"

	"gorm.io/gorm"
)

type TransactionRepository struct {
	DB *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

func (r *TransactionRepository) Create(txn *model.PaymentTransaction) error {
	return r.DB.Create(txn).Error
}

func (r *TransactionRepository) FindByReference(reference string) (*model.PaymentTransaction, error) {
	var txn model.PaymentTransaction
	err := r.DB.Where("reference = ?", reference).First(&txn).Error
	return &txn, err
}

func (r *TransactionRepository) UpdateStatus(reference string, status model.PaymentStatus) error {
	return r.DB.Model(&model.PaymentTransaction{}).
		Where("reference = ?", reference).
		Update("status", status).Error
}
