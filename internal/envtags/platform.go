package envtags

import (
	"runtime"
	"strings"
)

// Machine names as reported by uname, keyed by GOARCH. Used where uname is
// not available.
var goarchMachines = map[string]string{
	"amd64":   "x86_64",
	"386":     "i686",
	"arm64":   "aarch64",
	"arm":     "armv7l",
	"ppc64le": "ppc64le",
	"ppc64":   "ppc64",
	"s390x":   "s390x",
	"riscv64": "riscv64",
}

// Platform returns the live platform tag, e.g. linux_x86_64
func Platform() string {
	return platformTag(runtime.GOOS, machine())
}

func platformTag(goos, machine string) string {
	return strings.ToLower(goos + "_" + machine)
}

func goarchMachine() string {
	if m, ok := goarchMachines[runtime.GOARCH]; ok {
		return m
	}
	return runtime.GOARCH
}
