package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Access is the permission a check requires.
type Access uint32

const (
	// Read requires listing and reading a directory.
	Read Access = unix.R_OK | unix.X_OK
	// Write requires creating files in a directory.
	Write Access = unix.W_OK | unix.X_OK
)

func (a Access) String() string {
	switch a {
	case Read:
		return "read"
	case Write:
		return "write"
	default:
		return fmt.Sprintf("access(%d)", uint32(a))
	}
}

// CheckDirectoryAccess verifies that the directory exists and grants mode.
func CheckDirectoryAccess(name, path string, mode Access) Result {
	if path == "" {
		return Result{Name: name, Detail: "no path configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, uint32(mode)); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s ok)", path, mode)}
}

// CheckFileReadable verifies that path is a readable regular file.
func CheckFileReadable(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read ok)", path)}
}
