package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUser_IsAdmin(t *testing.T) {
	tests := []struct {
		name string
		user User
		want bool
	}{
		{
			name: "root user is always admin",
			user: User{IsRoot: true, Role: RoleMember},
			want: true,
		},
		{
			name: "admin role",
			user: User{Role: RoleAdmin},
			want: true,
		},
		{
			name: "member role",
			user: User{Role: RoleMember},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.IsAdmin())
		})
	}
}

func TestUser_Name(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{
			name: "display name wins",
			user: User{DisplayName: "Bookworm", FirstName: "Ada", Email: "ada@example.com"},
			want: "Bookworm",
		},
		{
			name: "first and last name",
			user: User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
			want: "Ada Lovelace",
		},
		{
			name: "first name only",
			user: User{FirstName: "Ada", Email: "ada@example.com"},
			want: "Ada",
		},
		{
			name: "last name only",
			user: User{LastName: "Lovelace", Email: "ada@example.com"},
			want: "Lovelace",
		},
		{
			name: "falls back to email",
			user: User{Email: "ada@example.com"},
			want: "ada@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.Name())
		})
	}
}

func TestSession_IsExpired(t *testing.T) {
	expired := Session{ExpiresAt: time.Now().Add(-time.Hour)}
	assert.True(t, expired.IsExpired())

	active := Session{ExpiresAt: time.Now().Add(time.Hour)}
	assert.False(t, active.IsExpired())
}

func TestSession_DisplayName(t *testing.T) {
	tests := []struct {
		name    string
		session Session
		want    string
	}{
		{
			name:    "device name wins",
			session: Session{DeviceName: "Ada's iPhone", Platform: "iOS", ClientName: "ShelfLife Mobile"},
			want:    "Ada's iPhone",
		},
		{
			name:    "platform next",
			session: Session{Platform: "iOS", ClientName: "ShelfLife Mobile"},
			want:    "iOS",
		},
		{
			name:    "client name with version",
			session: Session{ClientName: "ShelfLife Web", ClientVersion: "1.2.0"},
			want:    "ShelfLife Web 1.2.0",
		},
		{
			name:    "client name without version",
			session: Session{ClientName: "ShelfLife Web"},
			want:    "ShelfLife Web",
		},
		{
			name:    "nothing known",
			session: Session{},
			want:    "Unknown Device",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.session.DisplayName())
		})
	}
}
