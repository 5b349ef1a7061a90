package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storefront/accounts-api/internal/core/domain"
)

const (
	collectionAccounts = "accounts"
	collectionRoles    = "roles"

	indexUsername = "uniq_username"
	indexEmail    = "uniq_email"
	indexRoleName = "uniq_role_name"
)

// emailCollation makes the email index and lookups case-insensitive.
var emailCollation = &options.Collation{Locale: "en", Strength: 2}

// AccountRepository implements ports.CredentialStore on MongoDB. Uniqueness
// of usernames, emails and role names is enforced by unique indexes, so
// EnsureIndexes must run before the repository is used.
type AccountRepository struct {
	accounts *mongo.Collection
	roles    *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{
		accounts: db.Collection(collectionAccounts),
		roles:    db.Collection(collectionRoles),
	}
}

type mongoAccount struct {
	ID           primitive.ObjectID `bson:"_id"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Roles        []string           `bson:"roles"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

type mongoRole struct {
	ID   primitive.ObjectID `bson:"_id"`
	Name string             `bson:"name"`
}

func (r *AccountRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.accounts.CountDocuments(ctx, bson.M{"username": username}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count accounts by username: %w", err)
	}
	return n > 0, nil
}

func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Count().SetLimit(1).SetCollation(emailCollation)
	n, err := r.accounts.CountDocuments(ctx, bson.M{"email": email}, opts)
	if err != nil {
		return false, fmt.Errorf("count accounts by email: %w", err)
	}
	return n > 0, nil
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoAccount
	if err := r.accounts.FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return doc.toDomain()
}

// Insert writes the account in a single InsertOne; a unique index violation
// is reported as *domain.DuplicateKeyError naming the offending field.
func (r *AccountRepository) Insert(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoAccount{
		ID:           primitive.NewObjectID(),
		Username:     account.Username,
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		Roles:        domain.RoleNames(account.Roles),
		CreatedAt:    account.CreatedAt.UTC(),
		UpdatedAt:    account.UpdatedAt.UTC(),
	}

	if _, err := r.accounts.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &domain.DuplicateKeyError{Field: duplicateField(err)}
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return doc.toDomain()
}

func (r *AccountRepository) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.accounts.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	var docs []mongoAccount
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}

	out := make([]*domain.Account, 0, len(docs))
	for _, d := range docs {
		a, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *AccountRepository) CountRoles(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.roles.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count roles: %w", err)
	}
	return n, nil
}

func (r *AccountRepository) InsertRole(ctx context.Context, role domain.Role) (*domain.RoleRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoRole{ID: primitive.NewObjectID(), Name: string(role)}
	if _, err := r.roles.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &domain.DuplicateKeyError{Field: "name"}
		}
		return nil, fmt.Errorf("insert role: %w", err)
	}
	return &domain.RoleRecord{ID: doc.ID.Hex(), Name: role}, nil
}

func (r *AccountRepository) FindRoleByName(ctx context.Context, name domain.Role) (*domain.RoleRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoRole
	if err := r.roles.FindOne(ctx, bson.M{"name": string(name)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	role, err := domain.ParseRole(doc.Name)
	if err != nil {
		return nil, fmt.Errorf("role %q: %w", doc.Name, err)
	}
	return &domain.RoleRecord{ID: doc.ID.Hex(), Name: role}, nil
}

// EnsureIndexes creates the unique indexes the repository relies on.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.accounts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName(indexUsername).SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName(indexEmail).SetUnique(true).SetCollation(emailCollation),
		},
	})
	if err != nil {
		return fmt.Errorf("account indexes: %w", err)
	}

	_, err = r.roles.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetName(indexRoleName).SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("role indexes: %w", err)
	}
	return nil
}

func (d mongoAccount) toDomain() (*domain.Account, error) {
	roles, err := domain.ParseRoles(d.Roles)
	if err != nil {
		return nil, fmt.Errorf("account %s roles: %w", d.Username, err)
	}
	return &domain.Account{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Roles:        roles,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}, nil
}

// duplicateField names the account field whose unique index rejected a write.
func duplicateField(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, indexUsername):
		return "username"
	case strings.Contains(msg, indexEmail):
		return "email"
	default:
		return "unknown"
	}
}
