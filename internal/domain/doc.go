// Package domain contains the core value types of a standby pair: the
// process role, the counter handed from primary to backup, and the sentinel
// errors shared by the application and adapter layers.
//
// Types in this package have no dependencies on infrastructure and are safe
// to use from any layer.
package domain
