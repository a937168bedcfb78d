package types

import (
	"context"
)

// Closer is implemented by everything holding a resource which must be
// given back explicitly (accelerator handles, scalers).
type Closer interface {
	Close(context.Context) error
}
