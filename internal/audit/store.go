package audit

import (
	"context"
	"errors"

	"github.com/mr1hm/go-air-alerts/internal/models"
)

// ErrDuplicate is returned by a Store when the key already exists. The
// existing entry is left untouched.
var ErrDuplicate = errors.New("audit entry already exists")

// Entry is one audit record ready to be written under Key.
type Entry struct {
	Key    string
	Record models.DispatchRecord
	Body   []byte
}

type Store interface {
	Name() string
	Put(ctx context.Context, e Entry) error
	Close() error
}
