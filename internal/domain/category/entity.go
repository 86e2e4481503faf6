package category

import (
	"strings"
	"time"
	"unicode/utf8"
)

// 分类名最大长度(字符数)
const maxNameLength = 50

// Category 图书分类实体
// 删除分类时,所属图书变为"未分类",图书本身不受影响
type Category struct {
	ID        uint
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCategory 创建分类
func NewCategory(name string) (*Category, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Category{Name: name, CreatedAt: now, UpdatedAt: now}, nil
}

// Rename 重命名分类
func (c *Category) Rename(name string) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	c.Name = name
	c.UpdatedAt = time.Now()
	return nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}
