package model

// CrimeOption is one committable crime from the crimes listing.
type CrimeOption struct {
	ID      string
	Name    string
	Success int
	Nerve   int
}

// InventoryItem is one item from the player's inventory listing.
type InventoryItem struct {
	ID   int64  `json:"ID"`
	Name string `json:"name"`
	Type string `json:"type"`
}
