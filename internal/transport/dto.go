package transport

// ProductRequest is the body of create and update calls. A missing quantity
// is stored as zero. Description, author and image are left as they are on
// update unless the body carries them.
type ProductRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Description *string `json:"description"`
	Author      *string `json:"author"`
	Image       *string `json:"image"`
	Price       float64 `json:"price"       validate:"gte=0"`
	Quantity    *int    `json:"quantity"    validate:"omitempty,gte=0"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
