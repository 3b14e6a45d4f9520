package product

// Product is a read-only snapshot of a row in the `product` table.
// This service never mutates products; inventory management lives in the
// surrounding application. JSON tags follow the camelCase convention used
// elsewhere in the project.
type Product struct {
	ID          int     `json:"productID"`
	Name        string  `json:"productName"`
	SupplierID  int     `json:"supplierID"`
	Price       float64 `json:"productPrice"`
	Description *string `json:"productDesc,omitempty"`
	Pic         *string `json:"productImg,omitempty"`
}
