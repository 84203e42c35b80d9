package postgres

import (
	"database/sql"

	"toolcrib-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.ToolRepository
	repository.OrderRepository
	repository.UsageRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		ToolRepository:         NewToolRepository(db),
		OrderRepository:        NewOrderRepository(db),
		UsageRepository:        NewUsageRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
