package cartsync

// ItemKey is the logical identity of a cart line. Two lines sharing the
// same key are the same entry and must be combined, never duplicated.
type ItemKey struct {
	ProductID string
	Size      string
}

// LineItem is one entry in the cart. Name, PriceCents and Image are a
// display snapshot taken when the item was added; they are not refreshed
// against the catalog.
type LineItem struct {
	ID         ItemID
	ProductID  string
	Name       string
	PriceCents int64
	Image      string
	Quantity   int
	Size       string
}

// Key returns the merge identity of the line.
func (li LineItem) Key() ItemKey {
	return ItemKey{ProductID: li.ProductID, Size: li.Size}
}

// Candidate is the caller-supplied input to AddItem. It is a LineItem
// missing only its id, which the store assigns.
type Candidate struct {
	ProductID  string
	Name       string
	PriceCents int64
	Image      string
	Quantity   int
	Size       string
}

// Key returns the merge identity of the candidate.
func (c Candidate) Key() ItemKey {
	return ItemKey{ProductID: c.ProductID, Size: c.Size}
}
