//go:build !linux && !darwin && !freebsd

package infrastructure

import "errors"

func availableSpace(string) (uint64, error) {
	return 0, errors.New("available space is not supported on this platform")
}
