package metering

import "errors"

// Domain errors for metering operations
var (
	// Service construction errors
	ErrCounterStoreRequired = errors.New("metering.errors.counter_store_required")
	ErrLedgerRequired       = errors.New("metering.errors.ledger_required")
	ErrSummaryStoreRequired = errors.New("metering.errors.summary_store_required")
	ErrAlertStoreRequired   = errors.New("metering.errors.alert_store_required")
	ErrLimitSourceRequired  = errors.New("metering.errors.limit_source_required")

	// Input validation errors
	ErrInvalidPeriodKind = errors.New("metering.errors.invalid_period_kind")
	ErrInvalidEventKind  = errors.New("metering.errors.invalid_event_kind")

	// Plan/limit resolution errors
	ErrNoActivePlan = errors.New("metering.errors.no_active_plan")

	// Store operation errors
	ErrFailedToRecordEvent   = errors.New("metering.errors.failed_to_record_event")
	ErrFailedToAdjustCounter = errors.New("metering.errors.failed_to_adjust_counter")
	ErrFailedToReadCounter   = errors.New("metering.errors.failed_to_read_counter")
	ErrFailedToUpsertSummary = errors.New("metering.errors.failed_to_upsert_summary")
	ErrFailedToCreateAlert   = errors.New("metering.errors.failed_to_create_alert")
)
