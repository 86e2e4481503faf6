package purchase

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/bookstore-inventory/internal/domain/book"
)

// Purchase 购买记录实体
// 教学要点:
// 1. 记录一经写入不可修改(账本只追加)
// 2. BookTitle/BookImage/BookPrice是下单时的快照,之后图书改价、改名、删除都不影响历史记录
// 3. BookID只是历史引用,不做外键约束,也不级联删除
// 4. TotalPrice = BookPrice × Quantity,使用精确十进制计算
type Purchase struct {
	ID          uint
	BookID      uint            // 图书ID(历史引用)
	BookTitle   string          // 书名快照
	BookImage   string          // 封面快照
	BookPrice   decimal.Decimal // 单价快照
	Quantity    int             // 购买数量(>0)
	TotalPrice  decimal.Decimal // 总价
	PurchasedAt time.Time       // 购买时间(由账本在写入时设置)
	UserID      uint            // 买家用户ID
}

// NewPurchase 根据图书快照创建购买记录(工厂方法)
// 注意:快照取自购买流程第一步读到的图书,而不是扣减库存之后重新读取
func NewPurchase(snapshot *book.Book, quantity int, userID uint) (*Purchase, error) {
	if snapshot == nil {
		return nil, ErrMissingSnapshot
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return &Purchase{
		BookID:     snapshot.ID,
		BookTitle:  snapshot.Title,
		BookImage:  snapshot.ImageURL,
		BookPrice:  snapshot.Price,
		Quantity:   quantity,
		TotalPrice: TotalFor(snapshot.Price, quantity),
		UserID:     userID,
	}, nil
}

// TotalFor 计算总价 price × quantity
func TotalFor(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// IsConsistent 总价是否等于单价×数量
func (p *Purchase) IsConsistent() bool {
	return p.Quantity > 0 && p.TotalPrice.Equal(TotalFor(p.BookPrice, p.Quantity))
}
