package dto

// CategoryRequest HTTP分类创建/重命名请求
type CategoryRequest struct {
	Name string `json:"name" binding:"required,max=50" example:"Programming"`
}

// CategoryResponse HTTP分类响应
type CategoryResponse struct {
	ID        uint   `json:"id" example:"4"`
	Name      string `json:"name" example:"Programming"`
	CreatedAt string `json:"created_at" example:"2024-01-15 10:30:00"`
}
