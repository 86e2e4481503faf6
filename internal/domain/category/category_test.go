package category_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookstore-inventory/internal/domain/category"
	"github.com/xiebiao/bookstore-inventory/internal/infrastructure/persistence/memory"
)

func TestNewCategory(t *testing.T) {
	c, err := category.NewCategory("  科幻  ")
	require.NoError(t, err)
	assert.Equal(t, "科幻", c.Name)

	_, err = category.NewCategory(" ")
	assert.ErrorIs(t, err, category.ErrInvalidName)

	// 按字符计数,50个汉字合法
	_, err = category.NewCategory(strings.Repeat("书", 50))
	assert.NoError(t, err)
	_, err = category.NewCategory(strings.Repeat("书", 51))
	assert.ErrorIs(t, err, category.ErrInvalidName)
}

func TestService(t *testing.T) {
	ctx := context.Background()
	svc := category.NewService(memory.NewCategories())

	fiction, err := svc.CreateCategory(ctx, "Fiction")
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, "History")
	require.NoError(t, err)

	_, err = svc.CreateCategory(ctx, "Fiction")
	assert.ErrorIs(t, err, category.ErrNameDuplicate)

	renamed, err := svc.RenameCategory(ctx, fiction.ID, "Novels")
	require.NoError(t, err)
	assert.Equal(t, "Novels", renamed.Name)

	_, err = svc.RenameCategory(ctx, fiction.ID, "History")
	assert.ErrorIs(t, err, category.ErrNameDuplicate)

	list, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "History", list[0].Name)
	assert.Equal(t, "Novels", list[1].Name)

	require.NoError(t, svc.DeleteCategory(ctx, fiction.ID))
	_, err = svc.GetCategory(ctx, fiction.ID)
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)
	assert.ErrorIs(t, svc.DeleteCategory(ctx, fiction.ID), category.ErrCategoryNotFound)
}
