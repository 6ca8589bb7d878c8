package services

import "errors"

var (
	// ErrRepricingInvalidInput signals malformed product, offer or settings input.
	ErrRepricingInvalidInput = errors.New("repricing: invalid input")
	// ErrRepricingMissingVendorSetting is returned when an own vendor has no vendor setting.
	ErrRepricingMissingVendorSetting = errors.New("repricing: own vendor has no setting")
	// ErrRepricingMissingTrigger is returned when a price decrease has no competitor that caused it.
	ErrRepricingMissingTrigger = errors.New("repricing: price decrease without triggering vendor")
	// ErrRepricingLogicDefect is returned in strict mode when the rule chain falls through to ERROR.
	ErrRepricingLogicDefect = errors.New("repricing: rule chain produced ERROR")
	// ErrRepricingStoreMissing indicates the settings store dependency is absent.
	ErrRepricingStoreMissing = errors.New("repricing service: settings store is not configured")
	// ErrRepricingSnapshotStoreMissing indicates the offer snapshot store is absent.
	ErrRepricingSnapshotStoreMissing = errors.New("repricing service: offer snapshot store is not configured")
	// ErrRepricingAuditStoreMissing indicates the decision audit store is absent.
	ErrRepricingAuditStoreMissing = errors.New("repricing service: decision audit store is not configured")
)
