package service

import "github.com/driftgate/driftgate/internal/core/domain"

// actionByClass is the corrective decision table. Missing desired state
// is the provisioning engine's job to create, conflicts must never be
// auto-resolved, so only the two identity-drift classes act.
var actionByClass = map[domain.DriftClass]domain.Action{
	domain.ClassInSync:               domain.ActionNone,
	domain.ClassMissingEverywhere:    domain.ActionNone,
	domain.ClassOrphanedLive:         domain.ActionImport,
	domain.ClassIdentityMismatch:     domain.ActionReimport,
	domain.ClassUnresolvableConflict: domain.ActionNone,
}

func ActionFor(class domain.DriftClass) domain.Action {
	if action, ok := actionByClass[class]; ok {
		return action
	}
	return domain.ActionNone
}
