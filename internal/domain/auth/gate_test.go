package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name     string
		sess     *Session
		required Role
		want     Decision
	}{
		{
			name:     "anonymous",
			sess:     nil,
			required: RoleManager,
			want:     Decision{RedirectTo: "/", Flash: Info("Please log in to access this page.")},
		},
		{
			name:     "session without user",
			sess:     &Session{Role: RoleManager},
			required: RoleManager,
			want:     Decision{RedirectTo: "/", Flash: Info("Please log in to access this page.")},
		},
		{
			name:     "matching role",
			sess:     &Session{UserID: "u1", Role: RoleManager},
			required: RoleManager,
			want:     Decision{Allowed: true},
		},
		{
			name:     "any logged in user",
			sess:     &Session{UserID: "u1", Role: RoleWorker},
			required: "",
			want:     Decision{Allowed: true},
		},
		{
			name:     "worker on manager page",
			sess:     &Session{UserID: "u1", Role: RoleWorker},
			required: RoleManager,
			want: Decision{
				RedirectTo: "/worker/dashboard",
				Flash:      Warning("Access denied. This page is for managers only."),
			},
		},
		{
			name:     "manager on worker page",
			sess:     &Session{UserID: "u1", Role: RoleManager},
			required: RoleWorker,
			want: Decision{
				RedirectTo: "/manager/dashboard",
				Flash:      Warning("Access denied. This page is for workers only."),
			},
		},
		{
			name:     "unknown role goes home",
			sess:     &Session{UserID: "u1", Role: "admin"},
			required: RoleWorker,
			want: Decision{
				RedirectTo: "/",
				Flash:      Warning("Access denied. This page is for workers only."),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Authorize(tt.sess, tt.required))
		})
	}
}
