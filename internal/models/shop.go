package models

// ShopItem represents an item offered in the shop. The catalog is shared by all chats.
type ShopItem struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Type        string `json:"type" db:"type"` // "job", "gift" or "upgrade"
	Price       int64  `json:"price" db:"price"`
	Description string `json:"description" db:"description"`
	Position    int    `json:"position" db:"position"`
}
