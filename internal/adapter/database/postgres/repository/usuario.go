package repository

import (
	"context"
	"log/slog"

	sq "github.com/Masterminds/squirrel"

	database "usuariosapi/internal/adapter/database/postgres"
	"usuariosapi/internal/core/domain"
	"usuariosapi/internal/core/port"
)

const usuarioColumns = "id, name, birth_date, document, zip, address_number, address_line, city, state, created_at, updated_at"

type UsuarioRepository struct {
	db *database.DB
}

func NewUsuarioRepository(db *database.DB) port.UsuarioRepository {
	return &UsuarioRepository{db: db}
}

func (ur *UsuarioRepository) scanUsuario(row interface{ Scan(...any) error }) (domain.Usuario, error) {
	var data domain.Usuario

	err := row.Scan(
		&data.ID,
		&data.Name,
		&data.BirthDate,
		&data.Document,
		&data.Zip,
		&data.AddressNumber,
		&data.AddressLine,
		&data.City,
		&data.State,
		&data.CreatedAt,
		&data.UpdatedAt,
	)

	if err != nil {
		return domain.Usuario{}, database.MapError(err)
	}

	return data, nil
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

	if err := ur.db.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return false, database.MapError(err)
	}

	return count > 0, nil
}

func (ur *UsuarioRepository) GetByID(ctx context.Context, id int64) (domain.Usuario, error) {
	query := ur.db.QueryBuilder.Select(usuarioColumns).
		From("usuarios").
		Where(sq.Eq{"id": id}).
		Limit(1)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Usuario{}, err
	}

	return ur.scanUsuario(ur.db.QueryRow(ctx, stmt, args...))
}

func (ur *UsuarioRepository) GetAll(ctx context.Context) ([]domain.Usuario, error) {
	query := ur.db.QueryBuilder.Select(usuarioColumns).
		From("usuarios").
		OrderBy("id")

	stmt, args, err := query.ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := ur.db.Query(ctx, stmt, args...)

	if err != nil {
		return nil, database.MapError(err)
	}

	defer rows.Close()

	var usuarios []domain.Usuario

	for rows.Next() {
		usuario, err := ur.scanUsuario(rows)

		if err != nil {
			return nil, err
		}

		usuarios = append(usuarios, usuario)
	}

	return usuarios, rows.Err()
}

func (ur *UsuarioRepository) Save(ctx context.Context, usuario domain.Usuario) (domain.Usuario, error) {
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
			Where(sq.Eq{"id": usuario.ID}).
			Suffix("RETURNING " + usuarioColumns)

		stmt, args, err := query.ToSql()

		if err != nil {
			return domain.Usuario{}, err
		}

		return ur.scanUsuario(ur.db.QueryRow(ctx, stmt, args...))
	}

	query := ur.db.QueryBuilder.Insert("usuarios").
		Columns("name", "birth_date", "document", "zip", "address_number", "address_line", "city", "state", "created_at", "updated_at").
		Values(usuario.Name, usuario.BirthDate, usuario.Document, usuario.Zip, usuario.AddressNumber, usuario.AddressLine, usuario.City, usuario.State, usuario.CreatedAt, usuario.UpdatedAt).
		Suffix("RETURNING " + usuarioColumns)

	stmt, args, err := query.ToSql()

	if err != nil {
		slog.Error("Error building insert", "error", err)
		return domain.Usuario{}, err
	}

	return ur.scanUsuario(ur.db.QueryRow(ctx, stmt, args...))
}

func (ur *UsuarioRepository) DeleteByID(ctx context.Context, id int64) error {
	query := ur.db.QueryBuilder.Delete("usuarios").
		Where(sq.Eq{"id": id})

	stmt, args, err := query.ToSql()

	if err != nil {
		return err
	}

	result, err := ur.db.Exec(ctx, stmt, args...)

	if err != nil {
		return database.MapError(err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrUsuarioNotFound
	}

	return nil
}
