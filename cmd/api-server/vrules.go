package main

import (
	"github.com/protomem/shift-tracker/internal/model"
	"github.com/protomem/shift-tracker/internal/validator"
)

// Validation rules

func validatePauseReason(v *validator.Validator, reason model.PauseReason) {
	v.CheckField(reason.Valid(), "reason", "must be one of: break, other")
}

func validateActivityKind(v *validator.Validator, kind model.ActivityKind) {
	v.CheckField(kind.Valid(), "kind", "must be one of: work, break, meeting, training, other")
}

func validateNotes(v *validator.Validator, notes string) {
	v.CheckField(validator.MaxRunes(notes, 1000), "notes", "must not be longer than 1000 characters")
}

func validateHistoryWindow(v *validator.Validator, limit, offset int) {
	v.CheckField(validator.Between(limit, 1, 500), "limit", "must be between 1 and 500")
	v.CheckField(offset >= 0, "offset", "must not be negative")
}

func validateCleanupThreshold(v *validator.Validator, hours int) {
	v.CheckField(validator.Between(hours, 1, 24*30), "thresholdHours", "must be between 1 and 720")
}
