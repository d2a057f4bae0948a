package cartsync

import (
	"strings"

	"github.com/google/uuid"
)

// pendingPrefix tags client-generated placeholder ids so they can never
// collide with server-assigned identifiers.
const pendingPrefix = "tmp_"

// ItemID identifies a cart line either by a client-generated pending token
// or by the durable identifier the persistence service assigned. The two
// variants are never interchangeable: a pending id must not be sent to the
// server, and a durable id must not be rebound.
type ItemID struct {
	value   string
	pending bool
}

// NewPendingID mints a fresh placeholder id for an optimistic line item.
func NewPendingID() ItemID {
	return ItemID{value: pendingPrefix + uuid.NewString(), pending: true}
}

// DurableID wraps a server-assigned identifier.
func DurableID(value string) ItemID {
	return ItemID{value: value}
}

// ParseItemID classifies a raw identifier string by its prefix. It exists
// for callers that receive ids over a wire format where the variant is not
// carried separately.
func ParseItemID(raw string) ItemID {
	if strings.HasPrefix(raw, pendingPrefix) {
		return ItemID{value: raw, pending: true}
	}
	return ItemID{value: raw}
}

// IsPending reports whether the id is a client-side placeholder.
func (id ItemID) IsPending() bool {
	return id.pending
}

// IsZero reports whether the id carries no value at all.
func (id ItemID) IsZero() bool {
	return id.value == ""
}

func (id ItemID) String() string {
	return id.value
}

// Equal compares both the value and the variant.
func (id ItemID) Equal(other ItemID) bool {
	return id.value == other.value && id.pending == other.pending
}
