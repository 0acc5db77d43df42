package services

import "context"

// DispatcherSvcFacade drives the unresolved-transaction backlog.
type DispatcherSvcFacade interface {
	// ProcessPending drains the backlog of UNRESOLVED transactions in batches,
	// matching and applying each one, and returns how many transactions it
	// settled. Safe to invoke concurrently or redundantly.
	ProcessPending(ctx context.Context) (int, error)
}
