package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"

	"github.com/kdrivas1989/tunnel-sessions/internal/accounts/auth"
	accountserrors "github.com/kdrivas1989/tunnel-sessions/internal/accounts/errors"
	apperrors "github.com/kdrivas1989/tunnel-sessions/pkg/errors"
	"github.com/kdrivas1989/tunnel-sessions/pkg/logger"
	"github.com/kdrivas1989/tunnel-sessions/pkg/model"
)

type mockRepository struct {
	getAdminFunc            func(ctx context.Context) (*model.Admin, error)
	createAdminFunc         func(ctx context.Context, admin *model.Admin) error
	updateAdminPasswordFunc func(ctx context.Context, username, hash string) error
	createHostFunc          func(ctx context.Context, host *model.Host) error
	findHostByEmailFunc     func(ctx context.Context, email string) (*model.Host, error)
	deleteHostFunc          func(ctx context.Context, id string) error
	listHostsFunc           func(ctx context.Context) ([]*model.Host, error)
	createUserFunc          func(ctx context.Context, user *model.User) error
	findUserByEmailFunc     func(ctx context.Context, email string) (*model.User, error)
	findUserByIDFunc        func(ctx context.Context, id string) (*model.User, error)
	updatePermissionsFunc   func(ctx context.Context, id string, permissions []string) error
	toggleFavoriteFunc      func(ctx context.Context, id, sessionID string) (bool, error)
}

func (m *mockRepository) GetAdmin(ctx context.Context) (*model.Admin, error) {
	return m.getAdminFunc(ctx)
}

func (m *mockRepository) CreateAdmin(ctx context.Context, admin *model.Admin) error {
	return m.createAdminFunc(ctx, admin)
}

func (m *mockRepository) UpdateAdminPassword(ctx context.Context, username, hash string) error {
	return m.updateAdminPasswordFunc(ctx, username, hash)
}

func (m *mockRepository) CreateHost(ctx context.Context, host *model.Host) error {
	return m.createHostFunc(ctx, host)
}

func (m *mockRepository) FindHostByEmail(ctx context.Context, email string) (*model.Host, error) {
	return m.findHostByEmailFunc(ctx, email)
}

func (m *mockRepository) DeleteHost(ctx context.Context, id string) error {
	return m.deleteHostFunc(ctx, id)
}

func (m *mockRepository) ListHosts(ctx context.Context) ([]*model.Host, error) {
	return m.listHostsFunc(ctx)
}

func (m *mockRepository) CreateUser(ctx context.Context, user *model.User) error {
	return m.createUserFunc(ctx, user)
}

func (m *mockRepository) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.findUserByEmailFunc(ctx, email)
}

func (m *mockRepository) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	return m.findUserByIDFunc(ctx, id)
}

func (m *mockRepository) UpdateUserPermissions(ctx context.Context, id string, permissions []string) error {
	return m.updatePermissionsFunc(ctx, id, permissions)
}

func (m *mockRepository) ToggleFavorite(ctx context.Context, id, sessionID string) (bool, error) {
	return m.toggleFavoriteFunc(ctx, id, sessionID)
}

type stubIDs struct{}

func (stubIDs) NewID() string                { return "test-id" }
func (stubIDs) NewCancellationToken() string { return "cancel_test" }

func newService(repo *mockRepository) AccountService {
	log := logger.New(logger.Config{Level: "error", Output: io.Discard})
	tokens := auth.NewTokens("test-secret", time.Hour)
	return NewAccountService(repo, tokens, stubIDs{}, log)
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return hash
}

func TestBootstrapAdmin(t *testing.T) {
	t.Run("creates the admin with a hash", func(t *testing.T) {
		var created *model.Admin
		repo := &mockRepository{
			createAdminFunc: func(_ context.Context, admin *model.Admin) error {
				created = admin
				return nil
			},
		}

		err := newService(repo).BootstrapAdmin(context.Background(), "boss", "supersecret")
		if err != nil {
			t.Fatalf("BootstrapAdmin: %v", err)
		}
		if created == nil || created.Username != "boss" {
			t.Fatalf("unexpected admin: %+v", created)
		}
		if created.PasswordHash == "" || created.PasswordHash == "supersecret" {
			t.Error("password was not hashed")
		}
	})

	t.Run("rejects a second admin", func(t *testing.T) {
		repo := &mockRepository{
			createAdminFunc: func(context.Context, *model.Admin) error {
				return accountserrors.ErrAdminAlreadyExists
			},
		}

		err := newService(repo).BootstrapAdmin(context.Background(), "boss", "supersecret")
		if !apperrors.IsCode(err, apperrors.CodeConflict) {
			t.Fatalf("expected CONFLICT, got %v", err)
		}
	})

	t.Run("rejects a short password", func(t *testing.T) {
		repo := &mockRepository{}
		err := newService(repo).BootstrapAdmin(context.Background(), "boss", "short")
		if !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
			t.Fatalf("expected INVALID_INPUT, got %v", err)
		}
	})
}

func TestLoginAdmin(t *testing.T) {
	hash := ""
	repo := &mockRepository{
		getAdminFunc: func(context.Context) (*model.Admin, error) {
			return &model.Admin{Username: "boss", PasswordHash: hash}, nil
		},
	}
	svc := newService(repo)

	t.Run("issues a token on the right password", func(t *testing.T) {
		hash = mustHash(t, "supersecret")
		token, err := svc.LoginAdmin(context.Background(), "boss", "supersecret")
		if err != nil {
			t.Fatalf("LoginAdmin: %v", err)
		}

		claims, err := auth.NewTokens("test-secret", time.Hour).Parse(token)
		if err != nil {
			t.Fatalf("Parse issued token: %v", err)
		}
		if claims.Role != auth.RoleAdmin || claims.Subject != "boss" {
			t.Errorf("unexpected claims: %+v", claims)
		}
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		hash = mustHash(t, "supersecret")
		_, err := svc.LoginAdmin(context.Background(), "boss", "wrong")
		if !apperrors.IsCode(err, apperrors.CodeUnauthorized) {
			t.Fatalf("expected UNAUTHORIZED, got %v", err)
		}
	})

	t.Run("rejects a wrong username", func(t *testing.T) {
		hash = mustHash(t, "supersecret")
		_, err := svc.LoginAdmin(context.Background(), "intruder", "supersecret")
		if !apperrors.IsCode(err, apperrors.CodeUnauthorized) {
			t.Fatalf("expected UNAUTHORIZED, got %v", err)
		}
	})
}

func TestCreateHost(t *testing.T) {
	t.Run("normalizes the email and assigns an id", func(t *testing.T) {
		var created *model.Host
		repo := &mockRepository{
			createHostFunc: func(_ context.Context, host *model.Host) error {
				created = host
				return nil
			},
		}

		host, err := newService(repo).CreateHost(context.Background(), " Host@Example.COM ", "supersecret")
		if err != nil {
			t.Fatalf("CreateHost: %v", err)
		}
		if host.Email != "host@example.com" {
			t.Errorf("email = %q, want normalized", host.Email)
		}
		if created.ID != "test-id" {
			t.Errorf("id = %q, want generated", created.ID)
		}
	})

	t.Run("taken email", func(t *testing.T) {
		repo := &mockRepository{
			createHostFunc: func(context.Context, *model.Host) error {
				return accountserrors.ErrEmailTaken
			},
		}
		_, err := newService(repo).CreateHost(context.Background(), "host@example.com", "supersecret")
		if !apperrors.IsCode(err, apperrors.CodeConflict) {
			t.Fatalf("expected CONFLICT, got %v", err)
		}
	})
}

func TestLoginUser(t *testing.T) {
	hash := ""
	repo := &mockRepository{
		findUserByEmailFunc: func(_ context.Context, email string) (*model.User, error) {
			if email != "rider@example.com" {
				return nil, accountserrors.ErrUserNotFound
			}
			return &model.User{ID: "u1", Email: email, PasswordHash: hash}, nil
		},
	}
	svc := newService(repo)

	t.Run("success", func(t *testing.T) {
		hash = mustHash(t, "supersecret")
		token, err := svc.LoginUser(context.Background(), "Rider@Example.com", "supersecret")
		if err != nil {
			t.Fatalf("LoginUser: %v", err)
		}
		claims, err := auth.NewTokens("test-secret", time.Hour).Parse(token)
		if err != nil {
			t.Fatalf("Parse issued token: %v", err)
		}
		if claims.Role != auth.RoleUser || claims.Subject != "u1" {
			t.Errorf("unexpected claims: %+v", claims)
		}
	})

	t.Run("unknown email maps to unauthorized", func(t *testing.T) {
		_, err := svc.LoginUser(context.Background(), "nobody@example.com", "supersecret")
		if !apperrors.IsCode(err, apperrors.CodeUnauthorized) {
			t.Fatalf("expected UNAUTHORIZED, got %v", err)
		}
	})
}

func TestCanManage(t *testing.T) {
	repo := &mockRepository{
		findUserByIDFunc: func(_ context.Context, id string) (*model.User, error) {
			if id == "secretary-user" {
				return &model.User{ID: id, Permissions: []string{model.PermissionSecretary}}, nil
			}
			return &model.User{ID: id, Permissions: []string{}}, nil
		},
	}
	svc := newService(repo)
	ctx := context.Background()

	tests := []struct {
		name   string
		claims *auth.Claims
		want   bool
	}{
		{"nil claims", nil, false},
		{"admin", &auth.Claims{Subject: "boss", Role: auth.RoleAdmin}, true},
		{"host", &auth.Claims{Subject: "h1", Role: auth.RoleHost}, true},
		{"plain user", &auth.Claims{Subject: "u1", Role: auth.RoleUser}, false},
		{"secretary user", &auth.Claims{Subject: "secretary-user", Role: auth.RoleUser}, true},
		{"unknown role", &auth.Claims{Subject: "x", Role: "ghost"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.CanManage(ctx, tt.claims); got != tt.want {
				t.Errorf("CanManage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToggleFavorite(t *testing.T) {
	repo := &mockRepository{
		toggleFavoriteFunc: func(_ context.Context, id, sessionID string) (bool, error) {
			return true, nil
		},
	}
	svc := newService(repo)

	favorited, err := svc.ToggleFavorite(context.Background(), "u1", "s1")
	if err != nil {
		t.Fatalf("ToggleFavorite: %v", err)
	}
	if !favorited {
		t.Error("expected favorited=true")
	}

	if _, err := svc.ToggleFavorite(context.Background(), "", "s1"); !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}
