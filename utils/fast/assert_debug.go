//go:build fastdebug
// +build fastdebug

package fast

import "fmt"

// assertLimit checks the NewReaderLimit precondition in debug builds.
func assertLimit(bb []byte, n int) {
	if n < 0 || n > len(bb) {
		panic(fmt.Sprintf("fast: limit %d outside buffer of %d bytes", n, len(bb)))
	}
}
