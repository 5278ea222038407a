package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteFactory serves an entity from a local SQLite database instead of the
// remote service. Records are stored as JSON documents, one table per entity.
// Used for local development and integration tests; the credential is ignored
// since the cookie gate already ran.
type SQLiteFactory struct {
	db      *sql.DB
	table   string
	idField string
	keyed   bool // string-key entities address rows by key instead of rowid
}

// OpenLocal opens (creating if needed) the local database file. The returned
// handle is shared by every local factory.
func OpenLocal(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open local db: %w", err)
	}
	return db, nil
}

// NewSQLiteFactory creates the entity's table if missing and returns a
// factory over it.
func NewSQLiteFactory(db *sql.DB, table, idField string, keyed bool) (*SQLiteFactory, error) {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		key TEXT UNIQUE,
		doc TEXT NOT NULL
	)`, table)
	if _, err := db.Exec(ddl); err != nil {
		return nil, fmt.Errorf("create table %s: %w", table, err)
	}
	return &SQLiteFactory{db: db, table: table, idField: idField, keyed: keyed}, nil
}

func (f *SQLiteFactory) Bind(string) Adapter { return (*sqliteAdapter)(f) }

type sqliteAdapter SQLiteFactory

func (a *sqliteAdapter) List(ctx context.Context, params ListParams) (*ListResult, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	size := params.PageSize
	if size < 1 {
		size = 20
	}

	where := ""
	var args []any
	for k, v := range params.Filter {
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += "json_extract(doc, '$.' || ?) = ?"
		args = append(args, k, v)
	}

	var total int
	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM %q%s", a.table, where)
	if err := a.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count %s: %w", a.table, err)
	}

	listSQL := fmt.Sprintf("SELECT doc FROM %q%s ORDER BY id LIMIT ? OFFSET ?", a.table, where)
	rows, err := a.db.QueryContext(ctx, listSQL, append(args, size, (page-1)*size)...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", a.table, err)
	}
	defer rows.Close()

	items := []Record{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan %s: %w", a.table, err)
		}
		var rec Record
		if err := json.Unmarshal([]byte(doc), &rec); err != nil {
			return nil, fmt.Errorf("decode %s row: %w", a.table, err)
		}
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", a.table, err)
	}

	totalPages := (total + size - 1) / size
	return &ListResult{
		Items: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   size,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

func (a *sqliteAdapter) GetByID(ctx context.Context, id int64) (Record, error) {
	return a.fetch(ctx, "id", id)
}

func (a *sqliteAdapter) GetByKey(ctx context.Context, key string) (Record, error) {
	return a.fetch(ctx, "key", key)
}

func (a *sqliteAdapter) fetch(ctx context.Context, column string, arg any) (Record, error) {
	q := fmt.Sprintf("SELECT doc FROM %q WHERE %s = ?", a.table, column)
	var doc string
	err := a.db.QueryRowContext(ctx, q, arg).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", a.table, err)
	}
	var rec Record
	if err := json.Unmarshal([]byte(doc), &rec); err != nil {
		return nil, fmt.Errorf("decode %s row: %w", a.table, err)
	}
	return rec, nil
}

func (a *sqliteAdapter) Create(ctx context.Context, payload Record) (Record, error) {
	rec := make(Record, len(payload)+1)
	for k, v := range payload {
		rec[k] = v
	}

	var key any
	if a.keyed {
		k, _ := rec[a.idField].(string)
		if k == "" {
			return nil, fmt.Errorf("create %s: missing %s", a.table, a.idField)
		}
		key = k
	}

	doc, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", a.table, err)
	}

	insertSQL := fmt.Sprintf("INSERT INTO %q (key, doc) VALUES (?, ?)", a.table)
	res, err := a.db.ExecContext(ctx, insertSQL, key, string(doc))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", a.table, err)
	}

	if !a.keyed {
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", a.table, err)
		}
		rec[a.idField] = id
		doc, err = json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", a.table, err)
		}
		updateSQL := fmt.Sprintf("UPDATE %q SET doc = ? WHERE id = ?", a.table)
		if _, err := a.db.ExecContext(ctx, updateSQL, string(doc), id); err != nil {
			return nil, fmt.Errorf("create %s: %w", a.table, err)
		}
	}
	return rec, nil
}

func (a *sqliteAdapter) Update(ctx context.Context, id ID, payload Record) (Record, error) {
	current, err := Get(ctx, a, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("update %s: %s not found", a.table, id)
	}

	for k, v := range payload {
		current[k] = v
	}
	doc, err := json.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", a.table, err)
	}

	col, arg := a.whereID(id)
	updateSQL := fmt.Sprintf("UPDATE %q SET doc = ? WHERE %s = ?", a.table, col)
	if _, err := a.db.ExecContext(ctx, updateSQL, string(doc), arg); err != nil {
		return nil, fmt.Errorf("update %s: %w", a.table, err)
	}
	return current, nil
}

func (a *sqliteAdapter) Delete(ctx context.Context, id ID) error {
	col, arg := a.whereID(id)
	deleteSQL := fmt.Sprintf("DELETE FROM %q WHERE %s = ?", a.table, col)
	if _, err := a.db.ExecContext(ctx, deleteSQL, arg); err != nil {
		return fmt.Errorf("delete %s: %w", a.table, err)
	}
	return nil
}

func (a *sqliteAdapter) whereID(id ID) (column string, arg any) {
	switch v := id.(type) {
	case NumericID:
		return "id", int64(v)
	default:
		return "key", id.String()
	}
}
