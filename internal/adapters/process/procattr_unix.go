//go:build unix

package process

import "syscall"

// detachedProcAttr puts the child in its own process group so a terminal
// interrupt delivered to the primary does not also take down its backup.
func detachedProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}
