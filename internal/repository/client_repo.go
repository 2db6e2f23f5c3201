package repository

import (
	"context"

	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/dto"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClientRepository is the data access contract for tenant-scoped clients.
// The Tx variants run inside the order transaction — callers must pass the
// live tx instance so client resolution commits or rolls back with the order.
type ClientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Client, error)
	FindByDNITx(tx *gorm.DB, tenantID uuid.UUID, dni string) (*model.Client, error)
	FindByEmailTx(tx *gorm.DB, tenantID uuid.UUID, email string) (*model.Client, error)
	CreateTx(tx *gorm.DB, c *model.Client) error
	UpdateTx(tx *gorm.DB, c *model.Client) error
	List(ctx context.Context, tenantID uuid.UUID, filter dto.ClientFilter) ([]model.Client, int64, error)
	DB() *gorm.DB
}

type clientRepo struct{ db *gorm.DB }

func NewClientRepository(db *gorm.DB) ClientRepository { return &clientRepo{db: db} }

func (r *clientRepo) DB() *gorm.DB { return r.db }

func (r *clientRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	var c model.Client
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *clientRepo) FindByDNITx(tx *gorm.DB, tenantID uuid.UUID, dni string) (*model.Client, error) {
	var c model.Client
	err := tx.Where("tenant_id = ? AND dni = ?", tenantID, dni).First(&c).Error
	return &c, err
}

func (r *clientRepo) FindByEmailTx(tx *gorm.DB, tenantID uuid.UUID, email string) (*model.Client, error) {
	var c model.Client
	err := tx.Where("tenant_id = ? AND email = ?", tenantID, email).First(&c).Error
	return &c, err
}

func (r *clientRepo) CreateTx(tx *gorm.DB, c *model.Client) error {
	return tx.Create(c).Error
}

func (r *clientRepo) UpdateTx(tx *gorm.DB, c *model.Client) error {
	return tx.Save(c).Error
}

func (r *clientRepo) List(ctx context.Context, tenantID uuid.UUID, filter dto.ClientFilter) ([]model.Client, int64, error) {
	var clients []model.Client
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Client{}).Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("name ILIKE ? OR dni LIKE ? OR email ILIKE ?", like, filter.Search+"%", like)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Offset(offset).Limit(filter.Limit).Find(&clients).Error
	return clients, total, err
}
