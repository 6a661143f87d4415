//go:build linux || darwin || freebsd || netbsd || openbsd

package envtags

import "golang.org/x/sys/unix"

func machine() string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return goarchMachine()
	}
	if m := unix.ByteSliceToString(uts.Machine[:]); m != "" {
		return m
	}
	return goarchMachine()
}
