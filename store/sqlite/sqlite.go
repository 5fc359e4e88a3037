// Package sqlite 是基于 SQLite 的内容目录、用户历史与推荐结果存储。
//
// 用户自己保存的内容就是他的交互历史；推荐时排除这些内容。
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rushteam/contentrec/core"
)

// Store 实现 core.CatalogReader、core.HistoryReader 与 core.RecommendationSink。
type Store struct {
	db        *sql.DB
	closeOnce sync.Once
	closeErr  error
}

// Open 打开（或创建）数据库并执行迁移。
// 以 WAL 模式打开，单连接写入。
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput, "store: sqlite path is empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses _pragma=name(value) syntax
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, core.WrapDomainError(core.ModuleStore, core.ErrorCodeUnavailable, "store: sqlite unreachable", err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

// Close 关闭数据库，可重复调用。
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}

// DB 返回底层连接。
func (s *Store) DB() *sql.DB {
	return s.db
}

// Category 是内容分类，ID 即 slug。
type Category struct {
	ID          string
	Name        string
	Description string
}

// PutCategory 写入或更新分类。
func (s *Store) PutCategory(ctx context.Context, c Category) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, description) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, description = excluded.description
	`, c.ID, c.Name, c.Description)
	if err != nil {
		return fmt.Errorf("put category %s: %w", c.ID, err)
	}
	return nil
}

// PutItem 写入或更新内容及其标签（标签整体替换）。OwnerID 必填。
func (s *Store) PutItem(ctx context.Context, item core.CandidateItem) (err error) {
	if item.ID == "" || item.OwnerID == "" {
		return core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput, "catalog: item id and owner id are required")
	}
	status := item.Status
	if status == "" {
		status = core.StatusNew
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO content_items (id, owner_id, title, url, content_type, category_id, status, created_at_unix_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  owner_id = excluded.owner_id,
		  title = excluded.title,
		  url = excluded.url,
		  content_type = excluded.content_type,
		  category_id = excluded.category_id,
		  status = excluded.status,
		  created_at_unix_ms = excluded.created_at_unix_ms
	`, item.ID, item.OwnerID, item.Title, item.URL, string(item.ContentType),
		nullString(item.CategoryID), string(status), item.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("put item %s: %w", item.ID, err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM item_tags WHERE item_id = ?`, item.ID); err != nil {
		return fmt.Errorf("clear tags %s: %w", item.ID, err)
	}
	for _, tag := range core.DedupTags(item.Tags) {
		if _, err = tx.ExecContext(ctx, `INSERT INTO item_tags (item_id, tag) VALUES (?, ?)`, item.ID, tag); err != nil {
			return fmt.Errorf("put tag %s/%s: %w", item.ID, tag, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

const itemColumns = `id, owner_id, title, url, content_type, COALESCE(category_id, ''), status, created_at_unix_ms`

// FindCandidates 返回不在 exclude 中的内容，按创建时间降序、ID 升序，最多 limit 条。
func (s *Store) FindCandidates(ctx context.Context, exclude map[string]struct{}, limit int) ([]core.CandidateItem, error) {
	if limit <= 0 {
		return []core.CandidateItem{}, nil
	}

	query := `SELECT ` + itemColumns + ` FROM content_items`
	args := make([]any, 0, len(exclude)+1)
	if len(exclude) > 0 {
		ids := make([]string, 0, len(exclude))
		for id := range exclude {
			ids = append(ids, id)
		}
		query += ` WHERE id NOT IN (` + placeholders(len(ids)) + `)`
		for _, id := range ids {
			args = append(args, id)
		}
	}
	query += ` ORDER BY created_at_unix_ms DESC, id ASC LIMIT ?`
	args = append(args, limit)

	items, err := s.queryItems(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}
	return items, nil
}

// CountItemsSharingAnyTag 返回至少带有其中一个标签的内容数。
func (s *Store) CountItemsSharingAnyTag(ctx context.Context, tags []string) (int, error) {
	tags = core.DedupTags(tags)
	if len(tags) == 0 {
		return 0, nil
	}
	args := make([]any, len(tags))
	for i, t := range tags {
		args[i] = t
	}
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT item_id) FROM item_tags WHERE tag IN (`+placeholders(len(tags))+`)`,
		args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count items sharing tags: %w", err)
	}
	return n, nil
}

// GetEngagementRecords 以用户自己保存的内容作为历史，按创建时间升序。
func (s *Store) GetEngagementRecords(ctx context.Context, userID string) ([]core.EngagementRecord, error) {
	items, err := s.queryItems(ctx,
		`SELECT `+itemColumns+` FROM content_items WHERE owner_id = ? ORDER BY created_at_unix_ms ASC, id ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("get history %s: %w", userID, err)
	}
	out := make([]core.EngagementRecord, 0, len(items))
	for _, it := range items {
		out = append(out, core.EngagementFromItem(it))
	}
	return out, nil
}

// SaveRecommendations 写入推荐记录（单事务）。
func (s *Store) SaveRecommendations(ctx context.Context, recs []core.Recommendation) (err error) {
	if len(recs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO recommendations (id, user_id, item_id, score, reason, created_at_unix_ms)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range recs {
		if _, err = stmt.ExecContext(ctx, r.ID, r.UserID, r.ItemID, r.Score, r.Reason, r.CreatedAt.UnixMilli()); err != nil {
			return fmt.Errorf("save recommendation %s: %w", r.ID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ListRecommendations 返回用户最近保存的推荐，按分数降序。
func (s *Store) ListRecommendations(ctx context.Context, userID string, limit int) ([]core.Recommendation, error) {
	if limit <= 0 {
		return []core.Recommendation{}, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, item_id, score, reason, created_at_unix_ms
		FROM recommendations WHERE user_id = ?
		ORDER BY score DESC, created_at_unix_ms DESC LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	defer rows.Close()

	out := make([]core.Recommendation, 0, limit)
	for rows.Next() {
		var (
			r  core.Recommendation
			ms int64
		)
		if err := rows.Scan(&r.ID, &r.UserID, &r.ItemID, &r.Score, &r.Reason, &ms); err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		r.CreatedAt = time.UnixMilli(ms).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) queryItems(ctx context.Context, query string, args ...any) ([]core.CandidateItem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]core.CandidateItem, 0)
	for rows.Next() {
		var (
			it      core.CandidateItem
			ct, st  string
			created int64
		)
		if err := rows.Scan(&it.ID, &it.OwnerID, &it.Title, &it.URL, &ct, &it.CategoryID, &st, &created); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		it.ContentType = core.ContentType(ct)
		it.Status = core.Status(st)
		it.CreatedAt = time.UnixMilli(created).UTC()
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.loadTags(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// loadTags 按写入顺序填充标签。
func (s *Store) loadTags(ctx context.Context, items []core.CandidateItem) error {
	if len(items) == 0 {
		return nil
	}
	index := make(map[string]int, len(items))
	args := make([]any, len(items))
	for i, it := range items {
		index[it.ID] = i
		args[i] = it.ID
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id, tag FROM item_tags WHERE item_id IN (`+placeholders(len(items))+`) ORDER BY rowid`,
		args...)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return fmt.Errorf("scan tag: %w", err)
		}
		if i, ok := index[id]; ok {
			items[i].Tags = append(items[i].Tags, tag)
		}
	}
	return rows.Err()
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// migrate 按版本执行迁移。
func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_meta (
		  version INTEGER PRIMARY KEY,
		  applied_at_unix_ms INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("create schema_meta: %w", err)
	}

	currentVersion := 0
	row := s.db.QueryRowContext(ctx, `SELECT version FROM schema_meta ORDER BY version DESC LIMIT 1`)
	if err := row.Scan(&currentVersion); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{version: 1, sql: migrationV1},
	}
	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.ExecContext(ctx, m.sql); err != nil {
			return fmt.Errorf("migration v%d failed: %w", m.version, err)
		}
		if _, err := s.db.ExecContext(ctx, `
			INSERT OR REPLACE INTO schema_meta (version, applied_at_unix_ms) VALUES (?, ?)
		`, m.version, time.Now().UnixMilli()); err != nil {
			return fmt.Errorf("failed to record migration v%d: %w", m.version, err)
		}
	}
	return nil
}

// migrationV1 creates the initial schema.
const migrationV1 = `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS content_items (
  id TEXT PRIMARY KEY,
  owner_id TEXT NOT NULL,
  title TEXT NOT NULL,
  url TEXT NOT NULL DEFAULT '',
  content_type TEXT NOT NULL DEFAULT 'article',
  category_id TEXT REFERENCES categories(id) ON DELETE SET NULL,
  status TEXT NOT NULL DEFAULT 'new',
  created_at_unix_ms INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_content_items_owner ON content_items(owner_id, created_at_unix_ms);
CREATE INDEX IF NOT EXISTS idx_content_items_created ON content_items(created_at_unix_ms DESC, id);

CREATE TABLE IF NOT EXISTS item_tags (
  item_id TEXT NOT NULL REFERENCES content_items(id) ON DELETE CASCADE,
  tag TEXT NOT NULL,
  PRIMARY KEY (item_id, tag)
);

CREATE INDEX IF NOT EXISTS idx_item_tags_tag ON item_tags(tag);

CREATE TABLE IF NOT EXISTS recommendations (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  item_id TEXT NOT NULL REFERENCES content_items(id) ON DELETE CASCADE,
  score REAL NOT NULL,
  reason TEXT NOT NULL,
  created_at_unix_ms INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_recommendations_user ON recommendations(user_id, score DESC);
`

var (
	_ core.CatalogReader      = (*Store)(nil)
	_ core.HistoryReader      = (*Store)(nil)
	_ core.RecommendationSink = (*Store)(nil)
)
