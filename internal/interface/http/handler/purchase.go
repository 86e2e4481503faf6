package handler

import (
	"github.com/gin-gonic/gin"

	apppurchase "github.com/xiebiao/bookstore-inventory/internal/application/purchase"
	"github.com/xiebiao/bookstore-inventory/internal/domain/purchase"
	"github.com/xiebiao/bookstore-inventory/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookstore-inventory/pkg/errors"
	"github.com/xiebiao/bookstore-inventory/pkg/response"
)

// IdempotencyKeyHeader 幂等键请求头
const IdempotencyKeyHeader = "Idempotency-Key"

// 面向用户的提示
// 写入失败时只给出通用提示,不暴露内部状态
const (
	msgInsufficientStock = "库存不足,请减少购买数量"
	msgBookNotFound      = "图书不存在或已下架"
	msgRetryLater        = "购买失败,请稍后重试或联系客服"
)

// PurchaseHandler 购买HTTP处理器
type PurchaseHandler struct {
	purchaser *apppurchase.IdempotentPurchaser
	queries   *apppurchase.QueryUseCase
}

// NewPurchaseHandler 创建购买处理器
func NewPurchaseHandler(purchaser *apppurchase.IdempotentPurchaser, queries *apppurchase.QueryUseCase) *PurchaseHandler {
	return &PurchaseHandler{
		purchaser: purchaser,
		queries:   queries,
	}
}

// CreatePurchase 购买图书
// @Summary      购买图书
// @Description  扣减库存并写入购买记录;同一个Idempotency-Key只会购买一次
// @Tags         购买
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string                    false "幂等键"
// @Param        request         body   dto.CreatePurchaseRequest true  "购买信息"
// @Success      200 {object} response.Response{data=dto.PurchaseResponse} "购买成功"
// @Failure      200 {object} response.Response "40001 库存不足 / 40402 图书不存在 / 40006 重复提交 / 50010 购买失败"
// @Router       /api/v1/purchases [post]
//
// 教学说明:结果映射
// - Success → 购买记录
// - InsufficientStock / BookNotFound → 可纠正的提示
// - LedgerFailure / LedgerFailureCompensationFailed → 通用提示,细节只进日志
func (h *PurchaseHandler) CreatePurchase(c *gin.Context) {
	// 1. 参数绑定与验证
	var req dto.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	// 2. 调用应用层用例
	key := c.GetHeader(IdempotencyKeyHeader)
	result, err := h.purchaser.Purchase(c.Request.Context(), key, req.BookID, req.Quantity, req.BuyerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. 结果映射
	switch result.Outcome {
	case apppurchase.OutcomeSuccess:
		resp := dto.PurchaseResponse{ID: result.PurchaseID, Replayed: result.Replayed}
		if result.Purchase != nil {
			resp = toPurchaseResponse(result.Purchase)
			resp.Replayed = result.Replayed
		}
		response.Success(c, resp)
	case apppurchase.OutcomeInsufficientStock:
		response.ErrorWithCode(c, apperrors.ErrCodeInsufficientStock, msgInsufficientStock)
	case apppurchase.OutcomeBookNotFound:
		response.ErrorWithCode(c, apperrors.ErrCodeBookNotFound, msgBookNotFound)
	default:
		response.ErrorWithCode(c, apperrors.ErrCodeLedgerFailure, msgRetryLater)
	}
}

// GetPurchase 购买记录详情
// @Summary      购买记录详情
// @Tags         购买
// @Produce      json
// @Param        id path int true "购买记录ID"
// @Success      200 {object} response.Response{data=dto.PurchaseResponse}
// @Router       /api/v1/purchases/{id} [get]
func (h *PurchaseHandler) GetPurchase(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.queries.GetPurchase(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toPurchaseResponse(p))
}

// ListPurchases 购买记录列表(最新的在前)
// @Summary      购买记录列表
// @Tags         购买
// @Produce      json
// @Param        buyer_id  query int false "买家ID(不传表示全部)"
// @Param        page      query int false "页码"
// @Param        page_size query int false "每页数量"
// @Success      200 {object} response.Response{data=response.PageData{list=[]dto.PurchaseResponse}}
// @Router       /api/v1/purchases [get]
func (h *PurchaseHandler) ListPurchases(c *gin.Context) {
	var req dto.ListPurchasesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	var (
		page *apppurchase.Page
		err  error
	)
	if req.BuyerID > 0 {
		page, err = h.queries.ListByUser(c.Request.Context(), req.BuyerID, req.Page, req.PageSize)
	} else {
		page, err = h.queries.List(c.Request.Context(), req.Page, req.PageSize)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]dto.PurchaseResponse, len(page.List))
	for i, p := range page.List {
		list[i] = toPurchaseResponse(p)
	}
	response.SuccessWithPage(c, list, page.Total, page.Page, page.PageSize)
}

func toPurchaseResponse(p *purchase.Purchase) dto.PurchaseResponse {
	return dto.PurchaseResponse{
		ID:          p.ID,
		BookID:      p.BookID,
		BookTitle:   p.BookTitle,
		BookImage:   p.BookImage,
		BookPrice:   p.BookPrice.StringFixed(2),
		Quantity:    p.Quantity,
		TotalPrice:  p.TotalPrice.StringFixed(2),
		PurchasedAt: p.PurchasedAt.Format("2006-01-02 15:04:05"),
		BuyerID:     p.UserID,
	}
}
