// Package sqlite implements store.Store on an embedded SQLite database.
// It serves single-binary deployments where Postgres is overkill but state
// should survive restarts.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/permissionhub/server/internal/model"
	"github.com/permissionhub/server/internal/store"
)

// New wraps an opened database as a store.Store. Callers run EnsureSchema
// first.
func New(db *sql.DB) store.Store { return &sqliteStore{db: db} }

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) Permissions() store.Permissions { return &permissions{db: s.db} }
func (s *sqliteStore) Requests() store.Requests       { return &requests{db: s.db} }

const permissionCols = `id, user_id, type, name, app_name, description, contract_address,
       function_signature, is_active, max_amount, amount_per_second, total_amount,
       max_calls, calls_used, expiry_time, created_at, additional_data`

type permissions struct{ db *sql.DB }

func (p *permissions) Create(ctx context.Context, in *model.Permission) (*model.Permission, error) {
	created := time.Now().UTC()
	res, err := p.db.ExecContext(ctx, `
        INSERT INTO permissions (user_id, type, name, app_name, description, contract_address,
            function_signature, is_active, max_amount, amount_per_second, total_amount,
            max_calls, calls_used, expiry_time, created_at, additional_data)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?,0,?,?,?)
    `, in.UserID, string(in.Type), in.Name, in.AppName, in.Description, in.ContractAddress,
		in.FunctionSignature, in.IsActive, in.MaxAmount, in.AmountPerSecond, in.TotalAmount,
		in.MaxCalls, in.ExpiryTime, created, marshalExtra(in.AdditionalData))
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	out := *in
	out.ID = int(id)
	out.CreatedAt = created
	out.CallsUsed = 0
	return &out, nil
}

func (p *permissions) Get(ctx context.Context, id int) (*model.Permission, error) {
	row := p.db.QueryRowContext(ctx, `SELECT `+permissionCols+` FROM permissions WHERE id = ?`, id)
	return scanPermission(row)
}

func (p *permissions) List(ctx context.Context, userID int) ([]*model.Permission, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT `+permissionCols+` FROM permissions WHERE user_id = ? ORDER BY id`, userID)
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
		query := "UPDATE permissions SET " + joinSet(set) + " WHERE id = ?"
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
	res, err := p.db.ExecContext(ctx, `DELETE FROM permissions WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

const requestCols = `id, user_id, type, app_name, description, contract_address,
       function_signature, max_amount, amount_per_second, max_calls, expiry_time,
       requested_at, additional_data`

type requests struct{ db *sql.DB }

func (r *requests) Create(ctx context.Context, in *model.PermissionRequest) (*model.PermissionRequest, error) {
	requested := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
        INSERT INTO permission_requests (user_id, type, app_name, description, contract_address,
            function_signature, max_amount, amount_per_second, max_calls, expiry_time,
            requested_at, additional_data)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
    `, in.UserID, string(in.Type), in.AppName, in.Description, in.ContractAddress,
		in.FunctionSignature, in.MaxAmount, in.AmountPerSecond, in.MaxCalls, in.ExpiryTime,
		requested, marshalExtra(in.AdditionalData))
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	out := *in
	out.ID = int(id)
	out.RequestedAt = requested
	return &out, nil
}

func (r *requests) Get(ctx context.Context, id int) (*model.PermissionRequest, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+requestCols+` FROM permission_requests WHERE id = ?`, id)
	return scanRequest(row)
}

func (r *requests) List(ctx context.Context, userID int) ([]*model.PermissionRequest, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+requestCols+` FROM permission_requests WHERE user_id = ? ORDER BY id`, userID)
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM permission_requests WHERE id = ?`, id)
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
		extra     sql.NullString
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
		extra     sql.NullString
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

// buildPatch emits SET fragments in a fixed order so updates are
// deterministic and testable.
func buildPatch(patch model.PermissionPatch) ([]string, []interface{}) {
	var set []string
	var args []interface{}
	add := func(col string, v interface{}) {
		set = append(set, col+" = ?")
		args = append(args, v)
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

func joinSet(set []string) string {
	out := set[0]
	for _, s := range set[1:] {
		out += ", " + s
	}
	return out
}

func marshalExtra(m map[string]interface{}) interface{} {
	if len(m) == 0 {
		return nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return string(b)
}

func unmarshalExtra(s sql.NullString) map[string]interface{} {
	if !s.Valid || s.String == "" {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(s.String), &m); err != nil {
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
