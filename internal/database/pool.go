package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrTxAlreadyOpen = errors.New("transaction already open")
	ErrNoTransaction = errors.New("no open transaction")
)

// Pool hands out dedicated connections.
type Pool interface {
	GetConnection(ctx context.Context) (Conn, error)
}

// Conn is a connection taken from the pool. It must be released on every
// path; Release rolls back a transaction that is still open.
type Conn interface {
	// Handle returns the GORM handle bound to this connection, or to the
	// open transaction if there is one.
	Handle() *gorm.DB
	BeginTransaction() error
	Commit() error
	Rollback() error
	Release() error
}

// GormPool is a Pool over the sql.DB behind a GORM handle.
type GormPool struct {
	db *gorm.DB
}

// NewGormPool creates a new GormPool.
func NewGormPool(db *gorm.DB) *GormPool {
	return &GormPool{db: db}
}

// GetConnection reserves one connection of the pool for the caller.
func (p *GormPool) GetConnection(ctx context.Context) (Conn, error) {
	sqlDB, err := p.db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql pool: %w", err)
	}

	raw, err := sqlDB.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}

	session := p.db.Session(&gorm.Session{NewDB: true, Context: ctx})
	session.Statement.ConnPool = raw

	return &gormConn{raw: raw, db: session}, nil
}

type gormConn struct {
	raw      *sql.Conn
	db       *gorm.DB
	tx       *gorm.DB
	released bool
}

func (c *gormConn) Handle() *gorm.DB {
	if c.tx != nil {
		return c.tx
	}
	return c.db
}

func (c *gormConn) BeginTransaction() error {
	if c.tx != nil {
		return ErrTxAlreadyOpen
	}
	tx := c.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	c.tx = tx
	return nil
}

func (c *gormConn) Commit() error {
	if c.tx == nil {
		return ErrNoTransaction
	}
	tx := c.tx
	c.tx = nil
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (c *gormConn) Rollback() error {
	if c.tx == nil {
		return ErrNoTransaction
	}
	tx := c.tx
	c.tx = nil
	if err := tx.Rollback().Error; err != nil {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

func (c *gormConn) Release() error {
	if c.released {
		return nil
	}
	c.released = true

	var errs []error
	// a transaction cut short by its context is already rolled back and has
	// discarded the connection
	if c.tx != nil {
		if err := c.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			errs = append(errs, err)
		}
	}
	if err := c.raw.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		errs = append(errs, fmt.Errorf("failed to release connection: %w", err))
	}
	return errors.Join(errs...)
}
