package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	accountserrors "github.com/kdrivas1989/tunnel-sessions/internal/accounts/errors"
	"github.com/kdrivas1989/tunnel-sessions/pkg/config"
	mongotx "github.com/kdrivas1989/tunnel-sessions/pkg/db/mongo"
	"github.com/kdrivas1989/tunnel-sessions/pkg/model"
)

const (
	AdminCollection = "Admin"
	HostCollection  = "Hosts"
	UserCollection  = "Users"
)

type AccountRepository interface {
	GetAdmin(ctx context.Context) (*model.Admin, error)
	CreateAdmin(ctx context.Context, admin *model.Admin) error
	UpdateAdminPassword(ctx context.Context, username, passwordHash string) error

	CreateHost(ctx context.Context, host *model.Host) error
	FindHostByEmail(ctx context.Context, email string) (*model.Host, error)
	DeleteHost(ctx context.Context, id string) error
	ListHosts(ctx context.Context) ([]*model.Host, error)

	CreateUser(ctx context.Context, user *model.User) error
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	FindUserByID(ctx context.Context, id string) (*model.User, error)
	UpdateUserPermissions(ctx context.Context, id string, permissions []string) error
	ToggleFavorite(ctx context.Context, id, sessionID string) (favorited bool, err error)
}

type mongoAccountRepository struct {
	cfg       *config.Config
	admins    *mongo.Collection
	hosts     *mongo.Collection
	users     *mongo.Collection
	txManager mongotx.TransactionManager
}

func NewMongoAccountRepository(cfg *config.Config) AccountRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAccountRepository{
		cfg:       cfg,
		admins:    db.Collection(AdminCollection),
		hosts:     db.Collection(HostCollection),
		users:     db.Collection(UserCollection),
		txManager: mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoAccountRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoAccountRepository) GetAdmin(ctx context.Context) (*model.Admin, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var admin model.Admin
	if err := r.admins.FindOne(ctx, bson.M{}).Decode(&admin); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, accountserrors.ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}
	return &admin, nil
}

func (r *mongoAccountRepository) CreateAdmin(ctx context.Context, admin *model.Admin) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	count, err := r.admins.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return accountserrors.ErrAdminAlreadyExists
	}

	if _, err := r.admins.InsertOne(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

func (r *mongoAccountRepository) UpdateAdminPassword(ctx context.Context, username, passwordHash string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.admins.UpdateOne(ctx,
		bson.M{"_id": username},
		bson.M{"$set": bson.M{"password_hash": passwordHash}},
	)
	if err != nil {
		return fmt.Errorf("failed to update admin password: %w", err)
	}
	if result.MatchedCount == 0 {
		return accountserrors.ErrAdminNotFound
	}
	return nil
}

func (r *mongoAccountRepository) CreateHost(ctx context.Context, host *model.Host) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	count, err := r.hosts.CountDocuments(ctx, bson.M{"email": host.Email})
	if err != nil {
		return fmt.Errorf("failed to count hosts: %w", err)
	}
	if count > 0 {
		return accountserrors.ErrEmailTaken
	}

	if _, err := r.hosts.InsertOne(ctx, host); err != nil {
		return fmt.Errorf("failed to create host: %w", err)
	}
	return nil
}

func (r *mongoAccountRepository) FindHostByEmail(ctx context.Context, email string) (*model.Host, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var host model.Host
	if err := r.hosts.FindOne(ctx, bson.M{"email": email}).Decode(&host); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, accountserrors.ErrHostNotFound
		}
		return nil, fmt.Errorf("failed to find host: %w", err)
	}
	return &host, nil
}

func (r *mongoAccountRepository) DeleteHost(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.hosts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete host: %w", err)
	}
	if result.DeletedCount == 0 {
		return accountserrors.ErrHostNotFound
	}
	return nil
}

func (r *mongoAccountRepository) ListHosts(ctx context.Context) ([]*model.Host, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.hosts.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list hosts: %w", err)
	}
	defer cursor.Close(ctx)

	var hosts []*model.Host
	if err := cursor.All(ctx, &hosts); err != nil {
		return nil, fmt.Errorf("failed to decode hosts: %w", err)
	}
	return hosts, nil
}

func (r *mongoAccountRepository) CreateUser(ctx context.Context, user *model.User) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	count, err := r.users.CountDocuments(ctx, bson.M{"email": user.Email})
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return accountserrors.ErrEmailTaken
	}

	if _, err := r.users.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *mongoAccountRepository) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var user model.User
	if err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, accountserrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (r *mongoAccountRepository) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var user model.User
	if err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, accountserrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (r *mongoAccountRepository) UpdateUserPermissions(ctx context.Context, id string, permissions []string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.users.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"permissions": permissions}},
	)
	if err != nil {
		return fmt.Errorf("failed to update permissions: %w", err)
	}
	if result.MatchedCount == 0 {
		return accountserrors.ErrUserNotFound
	}
	return nil
}

// ToggleFavorite flips the session id in the user's favorites inside a
// transaction, so concurrent toggles cannot drop each other's writes.
func (r *mongoAccountRepository) ToggleFavorite(ctx context.Context, id, sessionID string) (bool, error) {
	var favorited bool

	err := r.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		var user model.User
		if err := r.users.FindOne(sessCtx, bson.M{"_id": id}).Decode(&user); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return accountserrors.ErrUserNotFound
			}
			return fmt.Errorf("failed to find user: %w", err)
		}

		favorites := make([]string, 0, len(user.Favorites)+1)
		favorited = true
		for _, f := range user.Favorites {
			if f == sessionID {
				favorited = false
				continue
			}
			favorites = append(favorites, f)
		}
		if favorited {
			favorites = append(favorites, sessionID)
		}

		if _, err := r.users.UpdateOne(sessCtx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{"favorites": favorites}},
		); err != nil {
			return fmt.Errorf("failed to update favorites: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return favorited, nil
}
