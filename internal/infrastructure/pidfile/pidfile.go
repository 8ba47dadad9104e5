// Package pidfile enforces a single running planner server per host.
// Two servers sharing one database would double-apply draft and ledger
// writes, so the serve command takes this lock before binding.
package pidfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// PIDFile is a filesystem lock keyed on the owning process ID
type PIDFile struct {
	path string
}

// New creates a lock at the given path; nothing is written until Acquire
func New(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Acquire claims the lock for the current process. A file left by a
// dead process is treated as stale and replaced; a live owner is an
// error.
func (p *PIDFile) Acquire() error {
	if owner, ok := p.currentOwner(); ok {
		if processAlive(owner) {
			return fmt.Errorf("server is already running (PID %d)", owner)
		}
		_ = os.Remove(p.path)
	}

	contents := fmt.Sprintf("%d\n", os.Getpid())
	if err := os.WriteFile(p.path, []byte(contents), 0644); err != nil {
		return fmt.Errorf("write pid file %s: %w", p.path, err)
	}
	return nil
}

// Release removes the lock file; releasing an absent lock is not an error
func (p *PIDFile) Release() error {
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove pid file %s: %w", p.path, err)
	}
	return nil
}

// currentOwner reads the PID recorded in the lock file. A missing or
// unparseable file means there is no owner; garbage is cleaned up.
func (p *PIDFile) currentOwner() (int, bool) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		_ = os.Remove(p.path)
		return 0, false
	}
	return pid, true
}

// processAlive probes a PID with signal 0. EPERM still means the
// process exists, just under another user.
func processAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	return err == syscall.EPERM
}
