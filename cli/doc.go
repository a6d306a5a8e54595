// Package cli implements the idctl command tree.
//
// Commands load a profile, build the observability stack and the identity
// clients, and drive the status orchestrator. Viper stays contained in
// config.go; every command receives an explicit Profile struct. A report
// that was produced always exits 0 regardless of its overall level; only a
// run that could not construct a report at all exits non-zero.
package cli
