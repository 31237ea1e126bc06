package receiptocr

import "errors"

// ErrNoAmount is returned when no plausible rupee amount can be extracted.
var ErrNoAmount = errors.New("no amount detected")
