package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"

	"usuariosapi/internal/adapter/database/sqlite"
	"usuariosapi/internal/core/domain"
	"usuariosapi/internal/core/port"
	tel "usuariosapi/internal/core/telemetry"
)

type UsuarioRepository struct {
	db        *sqlite.DB
	scanner   *sqlite.Scanner
	telemetry port.Telemetry
}

func NewUsuarioRepository(db *sqlite.DB, telemetry port.Telemetry) port.UsuarioRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &UsuarioRepository{
		db:        db,
		scanner:   sqlite.NewScanner(),
		telemetry: telemetry,
	}
}

func (ur *UsuarioRepository) ExistsByDocument(ctx context.Context, document string) (bool, error) {
	query := ur.db.QueryBuilder.Select("COUNT(1)").
		From("usuarios").
		Where(sq.Eq{"document": document})

	stmt, args, err := query.ToSql()

	if err != nil {
		return false, err
	}

	var count int

	if err := ur.db.QueryRowContext(ctx, stmt, args...).Scan(&count); err != nil {
		return false, sqlite.MapError(err)
	}

	return count > 0, nil
}

func (ur *UsuarioRepository) GetByID(ctx context.Context, id int64) (domain.Usuario, error) {
	query := ur.db.QueryBuilder.Select("*").
		From("usuarios").
		Where(sq.Eq{"id": id}).
		Limit(1)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Usuario{}, err
	}

	rows, err := ur.db.QueryContext(ctx, stmt, args...)

	if err != nil {
		return domain.Usuario{}, sqlite.MapError(err)
	}

	defer rows.Close()

	var data domain.Usuario

	if err := ur.scanner.ScanRowToStruct(rows, &data); err != nil {
		return domain.Usuario{}, sqlite.MapError(err)
	}

	return data, nil
}

func (ur *UsuarioRepository) GetAll(ctx context.Context) ([]domain.Usuario, error) {
	query := ur.db.QueryBuilder.Select("*").
		From("usuarios").
		OrderBy("id")

	stmt, args, err := query.ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := ur.db.QueryContext(ctx, stmt, args...)

	if err != nil {
		return nil, sqlite.MapError(err)
	}

	defer rows.Close()

	var usuarios []domain.Usuario

	if err := ur.scanner.ScanRowsToSlice(rows, &usuarios); err != nil {
		return nil, sqlite.MapError(err)
	}

	return usuarios, nil
}

func (ur *UsuarioRepository) Save(ctx context.Context, usuario domain.Usuario) (domain.Usuario, error) {
	ctx, span := ur.telemetry.StartRepositorySpan(ctx, "Save", "usuario", map[string]interface{}{
		"db.system": "sqlite",
		"db.table":  "usuarios",
		"usuario.persisted": usuario.IsPersisted(),
	})
	defer span.End()

	startTime := time.Now()

	saved, err := ur.save(ctx, usuario)

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		ur.telemetry.RecordRepositoryOperation(ctx, "Save", "usuario", time.Since(startTime), err)
		return domain.Usuario{}, err
	}

	span.SetStatus("ok", "")
	ur.telemetry.RecordRepositoryOperation(ctx, "Save", "usuario", time.Since(startTime), nil)

	return saved, nil
}

func (ur *UsuarioRepository) save(ctx context.Context, usuario domain.Usuario) (domain.Usuario, error) {
	// Transaction keeps the write and the read-back on one connection.
	tx, err := ur.db.BeginTx(ctx, nil)

	if err != nil {
		slog.Error("Error starting transaction", "error", err)
		return domain.Usuario{}, err
	}

	defer tx.Rollback()

	var id int64

	if usuario.IsPersisted() {
		query := ur.db.QueryBuilder.Update("usuarios").
			SetMap(map[string]interface{}{
				"name":           usuario.Name,
				"birth_date":     usuario.BirthDate,
				"document":       usuario.Document,
				"zip":            usuario.Zip,
				"address_number": usuario.AddressNumber,
				"address_line":   usuario.AddressLine,
				"city":           usuario.City,
				"state":          usuario.State,
				"updated_at":     usuario.UpdatedAt,
			}).
			Where(sq.Eq{"id": usuario.ID})

		stmt, args, err := query.ToSql()

		if err != nil {
			return domain.Usuario{}, err
		}

		ur.telemetry.RecordRepositoryQuery(ctx, "Save", "usuario", stmt, args)

		result, err := tx.ExecContext(ctx, stmt, args...)

		if err != nil {
			return domain.Usuario{}, sqlite.MapError(err)
		}

		if affected, _ := result.RowsAffected(); affected == 0 {
			return domain.Usuario{}, domain.ErrUsuarioNotFound
		}

		id = usuario.ID
	} else {
		query := ur.db.QueryBuilder.Insert("usuarios").
			Columns("name", "birth_date", "document", "zip", "address_number", "address_line", "city", "state", "created_at", "updated_at").
			Values(usuario.Name, usuario.BirthDate, usuario.Document, usuario.Zip, usuario.AddressNumber, usuario.AddressLine, usuario.City, usuario.State, usuario.CreatedAt, usuario.UpdatedAt)

		stmt, args, err := query.ToSql()

		if err != nil {
			return domain.Usuario{}, err
		}

		ur.telemetry.RecordRepositoryQuery(ctx, "Save", "usuario", stmt, args)

		result, err := tx.ExecContext(ctx, stmt, args...)

		if err != nil {
			return domain.Usuario{}, sqlite.MapError(err)
		}

		id, err = result.LastInsertId()

		if err != nil {
			return domain.Usuario{}, err
		}
	}

	saved, err := ur.getByIDTx(ctx, tx, id)

	if err != nil {
		return domain.Usuario{}, err
	}

	return saved, tx.Commit()
}

func (ur *UsuarioRepository) getByIDTx(ctx context.Context, tx *sql.Tx, id int64) (domain.Usuario, error) {
	query := ur.db.QueryBuilder.Select("*").
		From("usuarios").
		Where(sq.Eq{"id": id}).
		Limit(1)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Usuario{}, err
	}

	rows, err := tx.QueryContext(ctx, stmt, args...)

	if err != nil {
		return domain.Usuario{}, sqlite.MapError(err)
	}

	defer rows.Close()

	var data domain.Usuario

	if err := ur.scanner.ScanRowToStruct(rows, &data); err != nil {
		return domain.Usuario{}, sqlite.MapError(err)
	}

	return data, nil
}

func (ur *UsuarioRepository) DeleteByID(ctx context.Context, id int64) error {
	query := ur.db.QueryBuilder.Delete("usuarios").
		Where(sq.Eq{"id": id})

	stmt, args, err := query.ToSql()

	if err != nil {
		return err
	}

	result, err := ur.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		return sqlite.MapError(err)
	}

	rowsAffected, err := result.RowsAffected()

	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrUsuarioNotFound
	}

	return nil
}
