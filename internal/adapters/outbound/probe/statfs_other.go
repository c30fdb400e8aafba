//go:build !unix

package probe

import "errors"

func FreeBytes(string) (uint64, error) {
	return 0, errors.New("free disk space lookup not supported on this platform")
}
