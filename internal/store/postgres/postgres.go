// Package postgres implements store.Store on PostgreSQL via the pgx stdlib
// driver.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/permissionhub/server/internal/model"
	"github.com/permissionhub/server/internal/store"
)

// Open opens a PostgreSQL connection and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the permission tables if they do not exist. Kept here
// rather than in migrations because the demo deployment is a single schema.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS permissions (
            id SERIAL PRIMARY KEY,
            user_id INTEGER NOT NULL,
            type TEXT NOT NULL,
            name TEXT NOT NULL,
            app_name TEXT NOT NULL,
            description TEXT,
            contract_address TEXT,
            function_signature TEXT,
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            max_amount TEXT,
            amount_per_second TEXT,
            total_amount TEXT,
            max_calls INTEGER,
            calls_used INTEGER NOT NULL DEFAULT 0,
            expiry_time TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            additional_data JSONB
        )`,
		`CREATE INDEX IF NOT EXISTS permissions_user_idx ON permissions(user_id)`,
		`CREATE TABLE IF NOT EXISTS permission_requests (
            id SERIAL PRIMARY KEY,
            user_id INTEGER NOT NULL,
            type TEXT NOT NULL,
            app_name TEXT NOT NULL,
            description TEXT,
            contract_address TEXT,
            function_signature TEXT,
            max_amount TEXT,
            amount_per_second TEXT,
            max_calls INTEGER,
            expiry_time TIMESTAMPTZ,
            requested_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            additional_data JSONB
        )`,
		`CREATE INDEX IF NOT EXISTS permission_requests_user_idx ON permission_requests(user_id)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// NewWithDB wraps an opened database as a store.Store.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Permissions() store.Permissions { return &permissions{db: s.db} }
func (s *pgStore) Requests() store.Requests       { return &requests{db: s.db} }

// HealthPing reports backend reachability.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// --- Permissions ---

type permissions struct{ db *sql.DB }

func (p *permissions) Create(ctx context.Context, in *model.Permission) (*model.Permission, error) {
	var (
		id      int
		created time.Time
	)
	row := p.db.QueryRowContext(ctx, `
        INSERT INTO permissions (user_id, type, name, app_name, description, contract_address,
            function_signature, is_active, max_amount, amount_per_second, total_amount,
            max_calls, calls_used, expiry_time, additional_data)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,0,$13,$14)
        RETURNING id, created_at
    `, in.UserID, string(in.Type), in.Name, in.AppName, in.Description, in.ContractAddress,
		in.FunctionSignature, in.IsActive, in.MaxAmount, in.AmountPerSecond, in.TotalAmount,
		in.MaxCalls, in.ExpiryTime, marshalExtra(in.AdditionalData))
	if err := row.Scan(&id, &created); err != nil {
		return nil, err
	}

	out := *in
	out.ID = id
	out.CreatedAt = created
	out.CallsUsed = 0
	return &out, nil
}

const permissionCols = `id, user_id, type, name, app_name, description, contract_address,
       function_signature, is_active, max_amount, amount_per_second, total_amount,
       max_calls, calls_used, expiry_time, created_at, additional_data`

func (p *permissions) Get(ctx context.Context, id int) (*model.Permission, error) {
	row := p.db.QueryRowContext(ctx, `SELECT `+permissionCols+` FROM permissions WHERE id=$1`, id)
	return scanPermission(row)
}

func (p *permissions) List(ctx context.Context, userID int) ([]*model.Permission, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT `+permissionCols+` FROM permissions WHERE user_id=$1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.Permission
	for rows.Next() {
		rec, err := scanPermission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (p *permissions) Update(ctx context.Context, id int, patch model.PermissionPatch) (*model.Permission, error) {
	set, args := buildPatch(patch)
	if len(set) > 0 {
		query := "UPDATE permissions SET " + set + fmt.Sprintf(" WHERE id=$%d", len(args)+1)
		args = append(args, id)
		res, err := p.db.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, model.ErrNotFound
		}
	}
	return p.Get(ctx, id)
}

func (p *permissions) Delete(ctx context.Context, id int) (bool, error) {
	res, err := p.db.ExecContext(ctx, `DELETE FROM permissions WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// --- Requests ---

const requestCols = `id, user_id, type, app_name, description, contract_address,
       function_signature, max_amount, amount_per_second, max_calls, expiry_time,
       requested_at, additional_data`

type requests struct{ db *sql.DB }

func (r *requests) Create(ctx context.Context, in *model.PermissionRequest) (*model.PermissionRequest, error) {
	var (
		id        int
		requested time.Time
	)
	row := r.db.QueryRowContext(ctx, `
        INSERT INTO permission_requests (user_id, type, app_name, description, contract_address,
            function_signature, max_amount, amount_per_second, max_calls, expiry_time, additional_data)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, requested_at
    `, in.UserID, string(in.Type), in.AppName, in.Description, in.ContractAddress,
		in.FunctionSignature, in.MaxAmount, in.AmountPerSecond, in.MaxCalls, in.ExpiryTime,
		marshalExtra(in.AdditionalData))
	if err := row.Scan(&id, &requested); err != nil {
		return nil, err
	}

	out := *in
	out.ID = id
	out.RequestedAt = requested
	return &out, nil
}

func (r *requests) Get(ctx context.Context, id int) (*model.PermissionRequest, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+requestCols+` FROM permission_requests WHERE id=$1`, id)
	return scanRequest(row)
}

func (r *requests) List(ctx context.Context, userID int) ([]*model.PermissionRequest, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+requestCols+` FROM permission_requests WHERE user_id=$1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.PermissionRequest
	for rows.Next() {
		rec, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *requests) Delete(ctx context.Context, id int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM permission_requests WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// --- row mapping ---

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPermission(row rowScanner) (*model.Permission, error) {
	var (
		out       model.Permission
		typ       string
		desc      sql.NullString
		contract  sql.NullString
		fnSig     sql.NullString
		maxAmount sql.NullString
		perSecond sql.NullString
		total     sql.NullString
		maxCalls  sql.NullInt64
		expiry    sql.NullTime
		extra     []byte
	)
	err := row.Scan(&out.ID, &out.UserID, &typ, &out.Name, &out.AppName, &desc, &contract,
		&fnSig, &out.IsActive, &maxAmount, &perSecond, &total, &maxCalls, &out.CallsUsed,
		&expiry, &out.CreatedAt, &extra)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	out.Type = model.PermissionType(typ)
	out.Description = nullStr(desc)
	out.ContractAddress = nullStr(contract)
	out.FunctionSignature = nullStr(fnSig)
	out.MaxAmount = nullStr(maxAmount)
	out.AmountPerSecond = nullStr(perSecond)
	out.TotalAmount = nullStr(total)
	out.MaxCalls = nullInt(maxCalls)
	out.ExpiryTime = nullTime(expiry)
	out.AdditionalData = unmarshalExtra(extra)
	return &out, nil
}

func scanRequest(row rowScanner) (*model.PermissionRequest, error) {
	var (
		out       model.PermissionRequest
		typ       string
		desc      sql.NullString
		contract  sql.NullString
		fnSig     sql.NullString
		maxAmount sql.NullString
		perSecond sql.NullString
		maxCalls  sql.NullInt64
		expiry    sql.NullTime
		extra     []byte
	)
	err := row.Scan(&out.ID, &out.UserID, &typ, &out.AppName, &desc, &contract, &fnSig,
		&maxAmount, &perSecond, &maxCalls, &expiry, &out.RequestedAt, &extra)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	out.Type = model.PermissionType(typ)
	out.Description = nullStr(desc)
	out.ContractAddress = nullStr(contract)
	out.FunctionSignature = nullStr(fnSig)
	out.MaxAmount = nullStr(maxAmount)
	out.AmountPerSecond = nullStr(perSecond)
	out.MaxCalls = nullInt(maxCalls)
	out.ExpiryTime = nullTime(expiry)
	out.AdditionalData = unmarshalExtra(extra)
	return &out, nil
}

// buildPatch renders the SET clause with positional placeholders starting at $1.
func buildPatch(patch model.PermissionPatch) (string, []interface{}) {
	var set string
	var args []interface{}
	add := func(col string, v interface{}) {
		if set != "" {
			set += ", "
		}
		args = append(args, v)
		set += fmt.Sprintf("%s=$%d", col, len(args))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.AppName != nil {
		add("app_name", *patch.AppName)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.ContractAddress != nil {
		add("contract_address", *patch.ContractAddress)
	}
	if patch.FunctionSignature != nil {
		add("function_signature", *patch.FunctionSignature)
	}
	if patch.IsActive != nil {
		add("is_active", *patch.IsActive)
	}
	if patch.MaxAmount != nil {
		add("max_amount", *patch.MaxAmount)
	}
	if patch.AmountPerSecond != nil {
		add("amount_per_second", *patch.AmountPerSecond)
	}
	if patch.TotalAmount != nil {
		add("total_amount", *patch.TotalAmount)
	}
	if patch.MaxCalls != nil {
		add("max_calls", *patch.MaxCalls)
	}
	if patch.CallsUsed != nil {
		add("calls_used", *patch.CallsUsed)
	}
	if patch.ExpiryTime != nil {
		add("expiry_time", *patch.ExpiryTime)
	}
	if patch.AdditionalData != nil {
		add("additional_data", marshalExtra(patch.AdditionalData))
	}
	return set, args
}

func marshalExtra(m map[string]interface{}) interface{} {
	if len(m) == 0 {
		return nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return b
}

func unmarshalExtra(b []byte) map[string]interface{} {
	if len(b) == 0 {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil
	}
	return m
}

func nullStr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func nullTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
