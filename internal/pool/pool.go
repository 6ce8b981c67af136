package pool

import (
	"context"
	"database/sql"
	"fmt"

	"submission_service/internal/errdefs"
)

// Pool bounds access to the database to a fixed number of independent
// connection handles. Handles are opened lazily up to the bound, handed to
// exactly one caller at a time and reused after release.
type Pool struct {
	db   *sql.DB
	size int

	idle  chan *sql.Conn
	slots chan struct{}
}

func New(db *sql.DB, size int) *Pool {
	if size < 1 {
		size = 1
	}

	db.SetMaxOpenConns(size)

	p := &Pool{
		db:    db,
		size:  size,
		idle:  make(chan *sql.Conn, size),
		slots: make(chan struct{}, size),
	}
	for i := 0; i < size; i++ {
		p.slots <- struct{}{}
	}
	return p
}

func (p *Pool) Size() int {
	return p.size
}

// Acquire returns an idle handle if one is available, opens a new one while
// the bound has not been reached, and otherwise blocks until a handle is
// released or ctx is done. The returned handle is owned by the caller until
// Release.
func (p *Pool) Acquire(ctx context.Context) (*sql.Conn, error) {
	select {
	case conn := <-p.idle:
		return conn, nil
	default:
	}

	select {
	case conn := <-p.idle:
		return conn, nil
	case <-p.slots:
		conn, err := p.db.Conn(ctx)
		if err != nil {
			// The slot must go back, otherwise the bound shrinks forever.
			p.slots <- struct{}{}
			return nil, fmt.Errorf("%w: open connection: %v", errdefs.ErrStoreUnavailable, err)
		}
		return conn, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a handle obtained from Acquire. It must be called exactly
// once per successful Acquire.
func (p *Pool) Release(conn *sql.Conn) {
	if conn == nil {
		return
	}
	p.idle <- conn
}

// WithConn runs fn with an acquired handle and guarantees the release on every
// exit path.
func (p *Pool) WithConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer p.Release(conn)

	return fn(conn)
}

// Close closes all idle handles. Handles still held by callers are closed by
// their holders through Release followed by Close, or when the owning *sql.DB
// is closed.
func (p *Pool) Close() error {
	var firstErr error
	for {
		select {
		case conn := <-p.idle:
			if err := conn.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
			p.slots <- struct{}{}
		default:
			return firstErr
		}
	}
}
