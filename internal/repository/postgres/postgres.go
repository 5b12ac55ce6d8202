// Package postgres implements the repository interfaces over database/sql
// with the lib/pq driver.
package postgres

import (
	"database/sql"

	"hearthshare-backend/internal/repository"

	_ "github.com/lib/pq"
)

// Store bundles every repository over one database handle.
type Store struct {
	DB            *sql.DB
	Users         repository.UserRepository
	Households    repository.HouseholdRepository
	Members       repository.MemberRepository
	Karma         repository.KarmaRepository
	Points        repository.PointsRepository
	Swaps         repository.SwapRepository
	Notifications repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		DB:            db,
		Users:         NewUserRepository(db),
		Households:    NewHouseholdRepository(db),
		Members:       NewMemberRepository(db),
		Karma:         NewKarmaRepository(db),
		Points:        NewPointsRepository(db),
		Swaps:         NewSwapRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}
