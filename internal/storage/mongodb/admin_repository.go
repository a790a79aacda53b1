package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type adminRepository struct {
	coll *mongo.Collection
}

// NewAdminRepository создаёт документную реализацию AdminRepository.
func NewAdminRepository(store *Store) domain.AdminRepository {
	return &adminRepository{coll: store.Collection(collAdmins)}
}

func (r *adminRepository) Create(user domain.AdminUser) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	email := strings.ToLower(user.Email)

	// Проверка и вставка без уникального индекса по email: гонка здесь
	// не критична, seed выполняется однократно при развёртывании.
	count, err := r.coll.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return fmt.Errorf("check admin existence: %w", err)
	}
	if count > 0 {
		return domain.ErrAdminExists
	}

	doc := adminDoc{
		ID:           user.ID,
		Email:        email,
		PasswordHash: user.PasswordHash,
		IsAdmin:      user.IsAdmin,
		CreatedAt:    user.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAdminExists
		}
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

func (r *adminRepository) GetByEmail(email string) (domain.AdminUser, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var doc adminDoc
	err := r.coll.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.AdminUser{}, domain.ErrAdminNotFound
		}
		return domain.AdminUser{}, fmt.Errorf("find admin: %w", err)
	}
	return domain.AdminUser{
		ID:           doc.ID,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		IsAdmin:      doc.IsAdmin,
		CreatedAt:    doc.CreatedAt,
	}, nil
}

var _ domain.AdminRepository = (*adminRepository)(nil)
