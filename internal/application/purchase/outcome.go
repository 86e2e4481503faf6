package purchase

import (
	"github.com/xiebiao/bookstore-inventory/internal/domain/purchase"
)

// Outcome 购买结果
// 教学要点:预期内的失败(图书不存在、库存不足)是结果而不是错误
// 返回值error只用于参数违例、存储故障和取消
type Outcome int

const (
	OutcomeSuccess           Outcome = iota // 购买成功
	OutcomeBookNotFound                     // 图书不存在
	OutcomeInsufficientStock                // 库存不足
	OutcomeLedgerFailure                    // 购买记录写入失败,库存已恢复
	// OutcomeLedgerFailureCompensationFailed 购买记录写入失败,库存回补也失败
	// 库存已扣减但没有对应的购买记录,需要人工对账
	OutcomeLedgerFailureCompensationFailed
)

// String 结果标签(用于日志和指标)
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeBookNotFound:
		return "book_not_found"
	case OutcomeInsufficientStock:
		return "insufficient_stock"
	case OutcomeLedgerFailure:
		return "ledger_failure"
	case OutcomeLedgerFailureCompensationFailed:
		return "compensation_failed"
	default:
		return "unknown"
	}
}

// Result 一次购买的结果
type Result struct {
	Outcome    Outcome
	PurchaseID uint               // Success时有效
	Purchase   *purchase.Purchase // Success时的购买记录(幂等重放时为重新查询的记录)
	Replayed   bool               // 是否为幂等键命中的历史结果
	Cause      error              // 写入失败时的底层错误(不对外展示)
}

// Succeeded 是否购买成功
func (r Result) Succeeded() bool {
	return r.Outcome == OutcomeSuccess
}
