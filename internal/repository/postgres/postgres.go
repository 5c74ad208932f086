package postgres

import (
	"database/sql"

	"approvals-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.ApprovalRepository
	repository.EventOutboxRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		ApprovalRepository:    NewApprovalRepository(db),
		EventOutboxRepository: NewEventOutboxRepository(db),
	}
}
