package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleForUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		want     UserRole
	}{
		{name: "admin literal", username: "admin", want: RoleAdmin},
		{name: "regular user", username: "alice", want: RoleUser},
		{name: "case sensitive", username: "Admin", want: RoleUser},
		{name: "prefix is not admin", username: "admin2", want: RoleUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoleForUsername(tt.username))
		})
	}
}

func TestUserProfile_Status(t *testing.T) {
	var absent *UserProfile
	assert.Equal(t, ProfileStatusNone, absent.Status())
	assert.False(t, absent.IsPublished())

	draft := &UserProfile{}
	assert.Equal(t, ProfileStatusPending, draft.Status())
	assert.False(t, draft.IsPublished())

	published := &UserProfile{IsCompleted: true}
	assert.Equal(t, ProfileStatusPublished, published.Status())
	assert.True(t, published.IsPublished())
}

func TestReviewQueueItem_Status(t *testing.T) {
	id := uint(7)
	yes, no := true, false
	name := "Alice A."

	assert.Equal(t, ProfileStatusNone, ReviewQueueItem{Username: "bob"}.Status())
	assert.Equal(t, ProfileStatusPending, ReviewQueueItem{ProfileID: &id, IsCompleted: &no}.Status())
	assert.Equal(t, ProfileStatusPending, ReviewQueueItem{ProfileID: &id}.Status())
	assert.Equal(t, ProfileStatusPublished, ReviewQueueItem{ProfileID: &id, IsCompleted: &yes}.Status())

	assert.Equal(t, "bob", ReviewQueueItem{Username: "bob"}.DisplayName())
	assert.Equal(t, "Alice A.", ReviewQueueItem{Username: "alice", FullName: &name}.DisplayName())
}
