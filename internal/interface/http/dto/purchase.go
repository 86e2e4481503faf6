package dto

// CreatePurchaseRequest HTTP购买请求
type CreatePurchaseRequest struct {
	BookID   uint `json:"book_id" binding:"required" example:"1"`
	Quantity int  `json:"quantity" binding:"required,min=1,max=999" example:"2"`
	BuyerID  uint `json:"buyer_id" binding:"required" example:"7"`
}

// PurchaseResponse HTTP购买记录响应
type PurchaseResponse struct {
	ID          uint   `json:"id" example:"1"`
	BookID      uint   `json:"book_id" example:"1"`
	BookTitle   string `json:"book_title" example:"Go语言实战"`
	BookImage   string `json:"book_image" example:"https://example.com/cover.jpg"`
	BookPrice   string `json:"book_price" example:"12.99"`
	Quantity    int    `json:"quantity" example:"2"`
	TotalPrice  string `json:"total_price" example:"25.98"`
	PurchasedAt string `json:"purchased_at" example:"2024-11-06 10:30:00"`
	BuyerID     uint   `json:"buyer_id" example:"7"`
	Replayed    bool   `json:"replayed,omitempty"` // 幂等键命中,返回的是首次购买的结果
}

// ListPurchasesRequest HTTP购买记录列表请求
type ListPurchasesRequest struct {
	BuyerID  uint `form:"buyer_id" example:"7"` // 0表示全部买家
	Page     int  `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int  `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
}
