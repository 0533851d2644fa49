package usecase_test

import (
	"errors"
	"fmt"
	"testing"

	"marketplace/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByKind(t *testing.T) {
	err := usecase.NewError(usecase.KindAlreadyShipped, "order already shipped")

	assert.ErrorIs(t, err, usecase.ErrAlreadyShipped)
	assert.NotErrorIs(t, err, usecase.ErrInvalidTransition)

	wrapped := fmt.Errorf("advance: %w", err)
	assert.ErrorIs(t, wrapped, usecase.ErrAlreadyShipped)
	assert.Equal(t, usecase.KindAlreadyShipped, usecase.KindOf(wrapped))
	assert.Equal(t, "advance: order already shipped", wrapped.Error())
}

func TestKindOf_UnknownIsInternal(t *testing.T) {
	assert.Equal(t, usecase.KindInternal, usecase.KindOf(errors.New("boom")))

	e, ok := usecase.AsError(errors.New("boom"))
	assert.False(t, ok)
	assert.Nil(t, e)
}

func TestError_MessageFallsBackToKind(t *testing.T) {
	err := &usecase.Error{Kind: usecase.KindNotFound}
	assert.Equal(t, "NotFound", err.Error())
}
