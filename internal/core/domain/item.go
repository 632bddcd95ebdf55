package domain

// Item is the stored inventory record for one named item.
type Item struct {
	ID       int64  `json:"item_id"`
	Name     string `json:"item_name"`
	Quantity int64  `json:"quantity"`
}

// Removal describes the outcome of a remove-quantity request. When the
// remaining quantity would drop to zero or below, the item is deleted
// instead and Deleted is set.
type Removal struct {
	ItemID  int64
	Name    string
	Removed int64
	Prior   int64
	Deleted bool
}
