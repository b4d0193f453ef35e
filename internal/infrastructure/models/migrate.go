package models

import "gorm.io/gorm"

// All lists every table owned by this service, in creation order.
func All() []interface{} {
	return []interface{}{
		&Wallet{},
		&WalletTransaction{},
		&VirtualAccount{},
		&ProviderTransaction{},
		&QuotePayment{},
		&HandoffPayment{},
		&CommissionEvent{},
		&Notification{},
		&PayoutAccount{},
		&PayoutRequest{},
	}
}

// AutoMigrate creates or updates the schema
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
