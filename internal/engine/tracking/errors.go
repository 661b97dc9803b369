package tracking

import "errors"

// ErrBracket is wrapped by the panic raised when Start and Finish calls do
// not pair up.
var ErrBracket = errors.New("tracking: unbalanced edit bracket")
