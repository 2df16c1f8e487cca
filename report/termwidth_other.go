//go:build !linux

package report

import "io"

func terminalWidth(io.Writer) (int, bool) {
	return 0, false
}
