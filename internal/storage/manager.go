// Package storage wires the PostgreSQL connection, the repositories, and
// the embedded schema migrations together behind a small manager.
package storage

import (
	"context"
	"database/sql"

	"github.com/HuongLanTo/miu-cloud-computing-final-project/internal/users"
)

type Manager interface {
	Conn() *sql.DB
	Users() users.Repository
	Close() error
	RunMigrations(ctx context.Context) error
}
