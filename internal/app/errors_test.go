package app

import (
	"errors"
	"fmt"
	"testing"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestError_ErrorString(t *testing.T) {
	err := Errorf(ErrNotFound, "application %s not found", "app-1")
	assert.Equal(t, "NOT_FOUND: application app-1 not found", err.Error())

	cause := errors.New("disk full")
	wrapped := NewError(ErrPersistence, "saving status", cause)
	assert.Equal(t, "PERSISTENCE: saving status: disk full", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
}

func TestCodeOf_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("job item: %w", Errorf(ErrInvalidState, "already answered"))
	assert.Equal(t, ErrInvalidState, CodeOf(err))
	assert.True(t, IsCode(err, ErrInvalidState))
	assert.False(t, IsCode(err, ErrNotFound))

	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
	assert.False(t, IsCode(nil, ErrUnexpected))
}

func TestErrorCodes_AreDistinct(t *testing.T) {
	codes := []ErrorCode{ErrNotFound, ErrUnauthorized, ErrInvalidState, ErrValidation, ErrPersistence, ErrUnexpected}
	seen := make(map[ErrorCode]bool)
	for _, c := range codes {
		assert.False(t, seen[c], "duplicate code %s", c)
		seen[c] = true
	}
}

func TestAmendedProperties_HasChanges(t *testing.T) {
	assert.False(t, AmendedProperties{}.HasChanges())
	assert.True(t, AmendedProperties{Restocking: map[string]map[string]string{"r": {"Area": "2"}}}.HasChanges())
}

func TestStatusDurationsResponse_TotalDays(t *testing.T) {
	resp := StatusDurationsResponse{Durations: []domain.StatusDuration{
		{Status: domain.StatusDraft, Days: 4},
		{Status: domain.StatusSubmitted, Days: 6},
	}}
	assert.Equal(t, 10, resp.TotalDays())
	assert.Equal(t, 0, StatusDurationsResponse{}.TotalDays())
}
