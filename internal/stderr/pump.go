// Package stderr captures output that native audio libraries (ALSA) write
// straight to file descriptor 2, so it cannot corrupt the terminal UI.
package stderr

import (
	"bufio"
	"io"
	"strings"
)

const bufferSize = 100

// pump copies non-empty trimmed lines from r to out until r is exhausted,
// then closes out. Lines are dropped while out is full.
func pump(r io.Reader, out chan<- string) {
	defer close(out)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		select {
		case out <- line:
		default:
		}
	}
}
