//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package envtags

func machine() string {
	return goarchMachine()
}
