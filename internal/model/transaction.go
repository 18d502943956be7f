package model

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "PENDING"
	PaymentSuccessful PaymentStatus = "SUCCESSFUL"
	PaymentFailed     PaymentStatus = "FAILED"
)

// PaymentTransaction Paystack 交易记录，reference 唯一
// swagger:model PaymentTransaction
type PaymentTransaction struct {
	UUIDBase
	UserID    uint          `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	CourseID  string        `gorm:"index;type:varchar(36);not null" json:"courseId"`
	Amount    float64       `gorm:"not null" json:"amount"`
	Reference string        `gorm:"size:100;uniqueIndex;not null" json:"reference"`
	Status    PaymentStatus `gorm:"size:20;default:'PENDING'" json:"status"`
}

func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}
