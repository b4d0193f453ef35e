package usecases

import "time"

const (
	// ReasonSettlementCredit is the posting reason of inbound bank transfers
	ReasonSettlementCredit = "settlement_credit"
	// ReferenceProviderTransaction points a wallet transaction at its settlement audit row
	ReferenceProviderTransaction = "provider_transaction"
)

// Settlement acknowledgement messages
const (
	SettlementMessageSuccess   = "success"
	SettlementMessageDuplicate = "duplicate transaction"
	SettlementMessageRejected  = "rejected transaction"
	SettlementMessageRetry     = "system failure, retry"
)

const (
	// ProvisionLockTTL bounds a stuck provisioning lock
	ProvisionLockTTL = 30 * time.Second
	// ReconcilerActor marks payouts recorded paid by the intent sweeper
	ReconcilerActor = "system:reconciler"
	// StaleIntentBatch is how many expired transfer intents one sweep releases
	StaleIntentBatch = 50
)
