// Package errors provides structured error handling for the combat-api project.
//
// This package provides:
//   - Structured errors with codes, messages, and metadata
//   - A fixed code taxonomy for combat mechanics failures
//   - Error context preservation through wrapping
//   - Validation error helpers
//   - Type-safe error checking
//
// # Basic Usage
//
// Creating errors:
//
//	err := errors.UnknownParticipant("participant not in encounter")
//	err := errors.InvalidDief("cannot roll a d%d", sides)
//
// Adding metadata:
//
//	err := errors.NotFound("character not found").
//	    WithMeta("character_id", charID)
//
// Wrapping errors:
//
//	if err := repo.Get(ctx, id); err != nil {
//	    return errors.Wrap(err, "failed to get character")
//	}
//
// # Error Checking
//
//	if errors.IsMalformedNotation(err) {
//	    // surface the parse failure verbatim to the caller
//	}
//
//	code := errors.GetCode(err)
//	message := errors.GetMessage(err)
//
// # Validation Errors
//
// Using the validation builder:
//
//	vb := errors.NewValidationBuilder()
//	if cfg.Roller == nil {
//	    vb.RequiredField("Roller")
//	}
//	if err := vb.Build(); err != nil {
//	    return err
//	}
//
// # Error Codes
//
// Dice engine: InvalidDie, InvalidCount, MalformedNotation.
// Encounter: InvalidAmount, UnknownParticipant, EncounterConcluded.
// Plumbing: InvalidArgument, NotFound, AlreadyExists, Internal, Unavailable.
//
// All domain codes are local, recoverable conditions; none indicate
// corruption of in-memory state. Validation happens before any mutation.
package errors
