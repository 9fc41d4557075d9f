//go:build !unix && !windows

package process

import "syscall"

func detachedProcAttr() *syscall.SysProcAttr {
	return nil
}
