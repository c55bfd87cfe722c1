package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const refAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewReference returns "BY", five random characters from [A-Z0-9] and the last four
// digits of the current epoch milliseconds, e.g. BYK3Z9Q4821.
func NewReference() (string, error) {
	return newReference(time.Now())
}

func newReference(now time.Time) (string, error) {
	buf := make([]byte, 5)
	max := big.NewInt(int64(len(refAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		buf[i] = refAlphabet[n.Int64()]
	}
	return fmt.Sprintf("BY%s%04d", buf, now.UnixMilli()%10000), nil
}
