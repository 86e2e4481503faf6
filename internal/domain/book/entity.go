package book

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. Book是图书聚合的根实体,包含图书的核心属性
// 2. 价格使用decimal.Decimal存储(精确十进制,两位小数,禁止使用浮点数)
// 3. CategoryID为nil表示"未分类",不使用0之类的哨兵值
// 4. ISBN可选,存在时数据库层保证唯一
// 5. Quantity是当前库存,只能通过仓储的原子操作修改
type Book struct {
	ID              uint
	Title           string          // 书名
	Author          string          // 作者
	CategoryID      *uint           // 所属分类(nil表示未分类)
	Price           decimal.Decimal // 单价(元,两位小数)
	Quantity        int             // 库存数量
	ISBN            *string         // ISBN号(可选)
	PublicationDate *time.Time      // 出版日期(可选)
	Description     string          // 图书描述
	ImageURL        string          // 封面图片地址
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Attributes 图书的可编辑属性(不含库存)
// 创建与编辑共用,库存单独通过StockStore维护
type Attributes struct {
	Title           string
	Author          string
	CategoryID      *uint
	Price           decimal.Decimal
	ISBN            *string
	PublicationDate *time.Time
	Description     string
	ImageURL        string
}

// NewBook 创建新图书(工厂方法)
// 业务规则:
// - 书名、作者不能为空
// - 价格必须>0且最多两位小数
// - 初始库存必须>=0
// - ISBN存在时必须是10位或13位数字
func NewBook(attrs Attributes, quantity int) (*Book, error) {
	if quantity < 0 {
		return nil, ErrInvalidStock
	}
	attrs, err := attrs.normalize()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Book{
		Title:           attrs.Title,
		Author:          attrs.Author,
		CategoryID:      attrs.CategoryID,
		Price:           attrs.Price,
		Quantity:        quantity,
		ISBN:            attrs.ISBN,
		PublicationDate: attrs.PublicationDate,
		Description:     attrs.Description,
		ImageURL:        attrs.ImageURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Apply 用新属性覆盖图书信息(领域行为)
// 注意:不修改Quantity,编辑图书不能覆盖并发购买产生的库存变化
func (b *Book) Apply(attrs Attributes) error {
	attrs, err := attrs.normalize()
	if err != nil {
		return err
	}
	b.Title = attrs.Title
	b.Author = attrs.Author
	b.CategoryID = attrs.CategoryID
	b.Price = attrs.Price
	b.ISBN = attrs.ISBN
	b.PublicationDate = attrs.PublicationDate
	b.Description = attrs.Description
	b.ImageURL = attrs.ImageURL
	b.UpdatedAt = time.Now()
	return nil
}

// HasCategory 是否已分类
func (b *Book) HasCategory() bool {
	return b.CategoryID != nil
}

// CanSupply 当前库存是否能满足购买数量
// 仅用于展示,真正的判断由DecrementStockIfAvailable原子完成
func (b *Book) CanSupply(quantity int) bool {
	return quantity > 0 && b.Quantity >= quantity
}

// IsLowStock 库存是否低于阈值
func (b *Book) IsLowStock(threshold int) bool {
	return b.Quantity < threshold
}

// normalize 校验并规整属性
func (a Attributes) normalize() (Attributes, error) {
	a.Title = strings.TrimSpace(a.Title)
	a.Author = strings.TrimSpace(a.Author)
	if a.Title == "" {
		return a, ErrEmptyTitle
	}
	if a.Author == "" {
		return a, ErrEmptyAuthor
	}
	if !IsValidPrice(a.Price) {
		return a, ErrInvalidPrice
	}
	a.Price = a.Price.Round(2)

	if a.ISBN != nil {
		isbn := strings.TrimSpace(*a.ISBN)
		if isbn == "" {
			a.ISBN = nil
		} else {
			if !isValidISBN(isbn) {
				return a, ErrInvalidISBN
			}
			a.ISBN = &isbn
		}
	}
	return a, nil
}

// =========================================
// 辅助函数:业务规则校验
// =========================================

// IsValidPrice 价格必须>0且最多两位小数
func IsValidPrice(price decimal.Decimal) bool {
	if !price.IsPositive() {
		return false
	}
	return price.Equal(price.Round(2))
}

var nonDigit = regexp.MustCompile(`[^0-9]`)

// isValidISBN 校验ISBN格式
// 支持:
// - ISBN-10: 10位数字
// - ISBN-13: 13位数字,如978-7-115-42802-8
// 简化实现:只检查位数(不校验校验位)
func isValidISBN(isbn string) bool {
	clean := nonDigit.ReplaceAllString(isbn, "")
	return len(clean) == 10 || len(clean) == 13
}
