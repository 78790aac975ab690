package utils

import (
	"crypto/rand"
	"strconv"
	"time"
)

// NewDigits returns n random decimal digits, used for throwaway
// anonymous nicknames.
func NewDigits(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// Fallback to timestamp digits if crypto/rand is unavailable.
		ts := strconv.FormatInt(time.Now().UnixNano(), 10)
		if len(ts) > n {
			ts = ts[len(ts)-n:]
		}
		return ts
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = '0' + b%10
	}
	return string(out)
}
