package mysql

import (
	"errors"
	"fmt"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/xiebiao/bookstore-inventory/internal/domain/book"
	apperrors "github.com/xiebiao/bookstore-inventory/pkg/errors"
)

// MySQL错误码
const (
	errNumDuplicateEntry = 1062 // Duplicate entry 'xxx' for key 'yyy'
	errNumLockWaitTimout = 1205 // Lock wait timeout exceeded
	errNumDeadlock       = 1213 // Deadlock found when trying to get lock
)

// isDuplicateError 唯一索引冲突(books.isbn、categories.name)
func isDuplicateError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return mysqlErrorNumber(err) == errNumDuplicateEntry
}

// isLockConflict 行锁等待超时或死锁
// 条件扣减在高并发下可能遇到,调用方按数据库错误处理,不当作库存不足
func isLockConflict(err error) bool {
	n := mysqlErrorNumber(err)
	return n == errNumLockWaitTimout || n == errNumDeadlock
}

// stockConflict 包装锁冲突错误
// 锁等待超时和死锁时InnoDB已回滚该语句,errors.Is(err, book.ErrStockConflict)的错误可以重试
func stockConflict(err error) error {
	return apperrors.WithCode(book.ErrStockConflict.Code,
		fmt.Errorf("%w: %w", book.ErrStockConflict, err), book.ErrStockConflict.Message)
}

func mysqlErrorNumber(err error) uint16 {
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number
	}
	return 0
}
