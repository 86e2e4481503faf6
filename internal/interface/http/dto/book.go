package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BookRequest HTTP上架/编辑请求
// validator tag说明:
// - required: 必填字段
// - min/max: 数值、长度范围校验
// 价格、ISBN的业务规则由领域层校验,这里只做格式层面的限制
// 价格支持JSON字符串或数字,推荐字符串("12.99"),避免浮点误差
type BookRequest struct {
	Title           string          `json:"title" binding:"required,max=200" example:"Go语言实战"`
	Author          string          `json:"author" binding:"required,max=100" example:"威廉·肯尼迪"`
	CategoryID      *uint           `json:"category_id" example:"4"`
	Price           decimal.Decimal `json:"price" swaggertype:"string" example:"59.00"`
	ISBN            *string         `json:"isbn" binding:"omitempty,max=20" example:"9787115428028"`
	PublicationDate string          `json:"publication_date" binding:"omitempty,datetime=2006-01-02" example:"2017-05-01"`
	Description     string          `json:"description" binding:"max=5000" example:"这是一本关于Go语言的实战书籍"`
	ImageURL        string          `json:"image_url" binding:"omitempty,url,max=500" example:"https://example.com/cover.jpg"`
}

// ParsedPublicationDate 解析出版日期(空字符串表示未知)
func (r BookRequest) ParsedPublicationDate() (*time.Time, error) {
	s := strings.TrimSpace(r.PublicationDate)
	if s == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// PublishBookRequest HTTP上架请求
type PublishBookRequest struct {
	BookRequest
	Quantity int `json:"quantity" binding:"min=0" example:"100"` // 初始库存
}

// RestockRequest HTTP补货请求
type RestockRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=100000" example:"20"`
}

// ListBooksRequest HTTP图书列表请求
type ListBooksRequest struct {
	Page       int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	CategoryID *uint  `form:"category_id" example:"4"`
	Keyword    string `form:"keyword" binding:"omitempty,max=100" example:"Go"`
}
