package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookstore-inventory/internal/application/book"
	"github.com/xiebiao/bookstore-inventory/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookstore-inventory/pkg/errors"
	"github.com/xiebiao/bookstore-inventory/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	publishBookUseCase *appbook.PublishBookUseCase
	listBooksUseCase   *appbook.ListBooksUseCase
	editBookUseCase    *appbook.EditBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	publishBookUseCase *appbook.PublishBookUseCase,
	listBooksUseCase *appbook.ListBooksUseCase,
	editBookUseCase *appbook.EditBookUseCase,
) *BookHandler {
	return &BookHandler{
		publishBookUseCase: publishBookUseCase,
		listBooksUseCase:   listBooksUseCase,
		editBookUseCase:    editBookUseCase,
	}
}

// PublishBook 上架图书
// @Summary      上架图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request body dto.PublishBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=appbook.BookDetail}
// @Failure      200 {object} response.Response "40004 ISBN已存在 / 40404 分类不存在 / 40900 参数错误"
// @Router       /api/v1/books [post]
func (h *BookHandler) PublishBook(c *gin.Context) {
	// 1. 参数绑定与验证
	var req dto.PublishBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	input, ok := toBookInput(c, req.BookRequest)
	if !ok {
		return
	}

	// 2. 调用应用层用例
	result, err := h.publishBookUseCase.Execute(c.Request.Context(), appbook.PublishBookRequest{
		BookInput: input,
		Quantity:  req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. 构建HTTP响应
	response.Success(c, result)
}

// ListBooks 图书列表
// @Summary      图书列表(分页、分类过滤、关键词搜索)
// @Tags         图书
// @Produce      json
// @Param        page        query int    false "页码"
// @Param        page_size   query int    false "每页数量"
// @Param        category_id query int    false "分类ID"
// @Param        keyword     query string false "关键词(标题、作者、ISBN、分类名)"
// @Success      200 {object} response.Response{data=appbook.ListBooksResponse}
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req dto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.listBooksUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:       req.Page,
		PageSize:   req.PageSize,
		CategoryID: req.CategoryID,
		Keyword:    req.Keyword,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=appbook.BookDetail}
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	result, err := h.editBookUseCase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateBook 编辑图书(不修改库存)
// @Summary      编辑图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        id      path int             true "图书ID"
// @Param        request body dto.BookRequest true "图书信息"
// @Success      200 {object} response.Response{data=appbook.BookDetail}
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	input, ok := toBookInput(c, req)
	if !ok {
		return
	}

	result, err := h.editBookUseCase.Update(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteBook 删除图书
// @Summary      删除图书(历史购买记录保留)
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.editBookUseCase.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Restock 补货
// @Summary      补货
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        id      path int                true "图书ID"
// @Param        request body dto.RestockRequest true "补货数量"
// @Success      200 {object} response.Response{data=appbook.BookDetail}
// @Router       /api/v1/books/{id}/restock [post]
func (h *BookHandler) Restock(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.editBookUseCase.Restock(c.Request.Context(), id, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func toBookInput(c *gin.Context, req dto.BookRequest) (appbook.BookInput, bool) {
	published, err := req.ParsedPublicationDate()
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "出版日期格式应为YYYY-MM-DD")
		return appbook.BookInput{}, false
	}
	return appbook.BookInput{
		Title:           req.Title,
		Author:          req.Author,
		CategoryID:      req.CategoryID,
		Price:           req.Price,
		ISBN:            req.ISBN,
		PublicationDate: published,
		Description:     req.Description,
		ImageURL:        req.ImageURL,
	}, true
}
