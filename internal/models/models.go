package models

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null"                 json:"name"`
	Description string  `json:"description"`
	Author      string  `json:"author"`
	Image       string  `json:"image"`
	Price       float64 `gorm:"not null;index"           json:"price"`
	Quantity    int     `gorm:"not null;default:0"       json:"quantity"`
}

// CartItem keeps a snapshot of the product it points at so a cart can be
// rendered without joining products.
type CartItem struct {
	ID           uint    `gorm:"primaryKey"                 json:"id"`
	UserID       uint    `gorm:"index;not null"             json:"user_id"`
	ProductID    uint    `gorm:"index;not null"             json:"product_id"`
	Quantity     uint    `gorm:"default:1;check:quantity>0" json:"quantity"`
	ProductName  string  `json:"product_name"`
	ProductPrice float64 `json:"product_price"`

	Product Product `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

// Page is a zero-based window over a product listing.
type Page struct {
	Content       []Product `json:"content"`
	TotalElements int64     `json:"totalElements"`
	TotalPages    int       `json:"totalPages"`
	Number        int       `json:"number"`
	Size          int       `json:"size"`
}

func NewPage(items []Product, total int64, page, size int) *Page {
	if items == nil {
		items = []Product{}
	}
	pages := 0
	if size > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}
	return &Page{
		Content:       items,
		TotalElements: total,
		TotalPages:    pages,
		Number:        page,
		Size:          size,
	}
}
