package engine

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func execWithTimeout(ctx context.Context, e execer, stmt string, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	_, err := e.ExecContext(ctx, stmt)
	return err
}

// execBatch runs stmts in one transaction on conn and reports progress after
// each statement. The transaction is rolled back on the first failure, but
// statements that commit implicitly (Oracle DDL, MySQL ALTER TABLE) or change
// session state stay in effect.
func execBatch(ctx context.Context, conn *sql.Conn, stmts []string, timeout time.Duration, onProgress func(done, total int)) error {
	if len(stmts) == 0 {
		return nil
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin reset transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			tx.Rollback()
		}
	}()

	for i, stmt := range stmts {
		if err := execWithTimeout(ctx, tx, stmt, timeout); err != nil {
			return fmt.Errorf("failed to execute %q: %w", summarize(stmt), err)
		}
		if onProgress != nil {
			onProgress(i+1, len(stmts))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reset transaction: %w", err)
	}
	tx = nil
	return nil
}

// execEach runs stmts one by one outside a transaction, stopping at the first failure.
func execEach(ctx context.Context, e execer, stmts []string, timeout time.Duration) error {
	for _, stmt := range stmts {
		if err := execWithTimeout(ctx, e, stmt, timeout); err != nil {
			return fmt.Errorf("failed to execute %q: %w", summarize(stmt), err)
		}
	}
	return nil
}

// summarize shortens a statement to its first line for error messages.
func summarize(stmt string) string {
	const limit = 80

	s := strings.TrimSpace(stmt)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i] + " ..."
	}
	if len(s) > limit {
		s = s[:limit] + "..."
	}
	return s
}
