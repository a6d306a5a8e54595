// Package checks implements the status checkers the orchestrator runs:
// connectivity health, permission-set provisioning, orphaned account
// assignments (with the cleanup workflow), external sync monitoring and
// summary statistics, plus the on-demand resource inspector.
//
// Each checker queries the remote collaborators through the interfaces in
// package identity and returns one typed result from package status.
// Checkers return errors for collaborator failures; converting those into
// degraded results is the executor's job, not theirs.
package checks
