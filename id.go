package prismarest

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var entropy = &ulid.LockedMonotonicReader{
	MonotonicReader: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
}

// NewUUID returns a random UUID string. Generated services use it for
// identifier fields declared with a uuid() default.
func NewUUID() string {
	return uuid.NewString()
}

// NewULID returns a lexicographically sortable unique id string.
// Generated services use it for identifier fields declared with a
// cuid() default, which it replaces with an equivalent sortable id.
func NewULID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
