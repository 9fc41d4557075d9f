//go:build windows

package process

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// detachedProcAttr starts the child in a new process group so Ctrl+C in the
// primary's console is not delivered to the backup.
func detachedProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{CreationFlags: windows.CREATE_NEW_PROCESS_GROUP}
}
