package mysql

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookstore-inventory/internal/infrastructure/config"
)

// DefaultCategories 初始化时写入的分类
var DefaultCategories = []string{"Fiction", "Science", "History", "Programming"}

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 按配置自动迁移表结构并写入默认分类
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	// 1. 配置GORM日志
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	// 2. 连接数据库
	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 3. 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// 4. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}
	slog.Info("数据库连接成功", slog.String("host", cfg.Database.Host), slog.String("db", cfg.Database.DBName))

	// 5. 自动迁移表结构（开发环境）
	// 注意：生产环境应使用版本化的迁移脚本
	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	return db, nil
}

// AutoMigrate 自动迁移表结构，分类表为空时写入默认分类
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&CategoryModel{},
		&BookModel{},
		&PurchaseModel{},
	); err != nil {
		return err
	}

	var count int64
	if err := db.Model(&CategoryModel{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	seeds := make([]CategoryModel, len(DefaultCategories))
	for i, name := range DefaultCategories {
		seeds[i] = CategoryModel{Name: name}
	}
	return db.Create(&seeds).Error
}

// Close 关闭数据库连接
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CategoryModel GORM分类模型
type CategoryModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;size:50;not null;comment:分类名"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (CategoryModel) TableName() string {
	return "categories"
}

// BookModel GORM图书模型
// 设计说明:
// 1. 价格使用DECIMAL(10,2),Go侧对应decimal.Decimal(实现了Scanner/Valuer)
// 2. category_id可为NULL,表示未分类(删除分类时置NULL)
// 3. ISBN可为NULL,有唯一索引(MySQL唯一索引允许多个NULL)
// 4. 软删除:历史购买记录只保存快照,不受影响
type BookModel struct {
	ID              uint            `gorm:"primaryKey"`
	Title           string          `gorm:"index:idx_search;size:200;not null;comment:书名"`
	Author          string          `gorm:"index:idx_search;size:100;not null;comment:作者"`
	CategoryID      *uint           `gorm:"index;comment:分类ID(NULL表示未分类)"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null;comment:单价"`
	Quantity        int             `gorm:"not null;default:0;comment:库存数量"`
	ISBN            *string         `gorm:"column:isbn;uniqueIndex;size:20;comment:ISBN号"`
	PublicationDate *time.Time      `gorm:"type:date;comment:出版日期"`
	Description     string          `gorm:"type:text;comment:图书描述"`
	ImageURL        string          `gorm:"size:500;comment:封面图片地址"`
	CreatedAt       time.Time       `gorm:"comment:创建时间"`
	UpdatedAt       time.Time       `gorm:"comment:更新时间"`
	DeletedAt       gorm.DeletedAt  `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// PurchaseModel GORM购买记录模型
// 教学要点:
// 1. 只插入不更新,没有UpdatedAt/DeletedAt
// 2. book_id不建外键:图书删除后购买记录依然完整
// 3. purchase_date由GORM在插入时填充(autoCreateTime)
type PurchaseModel struct {
	ID           uint            `gorm:"primaryKey"`
	BookID       uint            `gorm:"index;not null;comment:图书ID(历史引用)"`
	BookTitle    string          `gorm:"size:200;not null;comment:书名快照"`
	BookImage    string          `gorm:"size:500;comment:封面快照"`
	BookPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null;comment:单价快照"`
	Quantity     int             `gorm:"not null;comment:购买数量"`
	TotalPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null;comment:总价"`
	PurchaseDate time.Time       `gorm:"autoCreateTime;index;comment:购买时间"`
	UserID       uint            `gorm:"index;not null;comment:买家用户ID"`
}

// TableName 指定表名
func (PurchaseModel) TableName() string {
	return "purchases"
}
