package stderr

import (
	"bufio"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// forward logs each non-blank line read from r and passes it to onLine.
// Returns when r is exhausted.
func forward(r io.Reader, log logrus.FieldLogger, onLine func(string)) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		log.WithField("source", "stderr").Warn(line)
		if onLine != nil {
			onLine(line)
		}
	}
}
