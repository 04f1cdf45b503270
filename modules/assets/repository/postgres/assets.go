package postgres

import (
	"context"

	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/assetdeal/registry-network/modules/assets/assets"
	"github.com/assetdeal/registry-network/modules/assets/internal/entity"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
)

const selectClassColumns = `id, name, symbol, supply_cap, metadata_uri, class_owner, ledger_address, minted_count`

func (r *Repository) scanClass(row pgx.Row) (*entity.AssetClass, error) {
	var m classModel
	if err := row.Scan(&m.Id, &m.Name, &m.Symbol, &m.SupplyCap, &m.MetadataURI, &m.ClassOwner, &m.LedgerAddress, &m.MintedCount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	class, err := mapClassModelToType(m)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return class, nil
}

func (r *Repository) GetClassById(ctx context.Context, id assets.ClassId) (*entity.AssetClass, error) {
	row := r.db.QueryRow(ctx, `SELECT `+selectClassColumns+` FROM asset_classes WHERE id = $1`, id.String())
	return r.scanClass(row)
}

func (r *Repository) GetClassByLedgerAddress(ctx context.Context, ledgerAddress common.Address) (*entity.AssetClass, error) {
	row := r.db.QueryRow(ctx, `SELECT `+selectClassColumns+` FROM asset_classes WHERE ledger_address = $1`, ledgerAddress.String())
	return r.scanClass(row)
}

func (r *Repository) GetClasses(ctx context.Context, limit int32, offset int32) ([]*entity.AssetClass, error) {
	rows, err := r.db.Query(ctx, `SELECT `+selectClassColumns+` FROM asset_classes ORDER BY name, id LIMIT NULLIF($1, -1) OFFSET $2`, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	defer rows.Close()

	classes := make([]*entity.AssetClass, 0)
	for rows.Next() {
		var m classModel
		if err := rows.Scan(&m.Id, &m.Name, &m.Symbol, &m.SupplyCap, &m.MetadataURI, &m.ClassOwner, &m.LedgerAddress, &m.MintedCount); err != nil {
			return nil, errors.Wrap(err, "error during scan")
		}
		class, err := mapClassModelToType(m)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		classes = append(classes, class)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error during iteration")
	}
	return classes, nil
}

func (r *Repository) CreateClass(ctx context.Context, class *entity.AssetClass) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO asset_classes (id, name, symbol, supply_cap, metadata_uri, class_owner, ledger_address, minted_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		class.Id.String(), class.Name, class.Symbol, int64(class.SupplyCap), class.MetadataURI, class.ClassOwner.String(), class.LedgerAddress.String(), int64(class.MintedCount),
	)
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) SetClassMintedCount(ctx context.Context, classId assets.ClassId, mintedCount uint64) error {
	tag, err := r.db.Exec(ctx, `UPDATE asset_classes SET minted_count = $2 WHERE id = $1`, classId.String(), int64(mintedCount))
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	if tag.RowsAffected() == 0 {
		return errors.WithStack(errs.NotFound)
	}
	return nil
}

const selectTokenColumns = `class_id, token_id, owner, token_uri, approved_spender, owner_index`

func (r *Repository) scanToken(row pgx.Row) (*entity.Token, error) {
	var m tokenModel
	if err := row.Scan(&m.ClassId, &m.TokenId, &m.Owner, &m.TokenURI, &m.ApprovedSpender, &m.OwnerIndex); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	token, err := mapTokenModelToType(m)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return token, nil
}

func (r *Repository) GetToken(ctx context.Context, classId assets.ClassId, tokenId uint64) (*entity.Token, error) {
	row := r.db.QueryRow(ctx, `SELECT `+selectTokenColumns+` FROM tokens WHERE class_id = $1 AND token_id = $2`, classId.String(), int64(tokenId))
	return r.scanToken(row)
}

func (r *Repository) CountTokensByOwner(ctx context.Context, classId assets.ClassId, owner common.Address) (uint64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tokens WHERE class_id = $1 AND owner = $2`, classId.String(), owner.String()).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "error during query")
	}
	return uint64(count), nil
}

func (r *Repository) GetTokenByOwnerIndex(ctx context.Context, classId assets.ClassId, owner common.Address, index uint64) (*entity.Token, error) {
	row := r.db.QueryRow(ctx, `SELECT `+selectTokenColumns+` FROM tokens WHERE class_id = $1 AND owner = $2 AND owner_index = $3`, classId.String(), owner.String(), int64(index))
	return r.scanToken(row)
}

func (r *Repository) GetTokensByOwner(ctx context.Context, classId assets.ClassId, owner common.Address) ([]*entity.Token, error) {
	rows, err := r.db.Query(ctx, `SELECT `+selectTokenColumns+` FROM tokens WHERE class_id = $1 AND owner = $2 ORDER BY owner_index`, classId.String(), owner.String())
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	defer rows.Close()

	tokens := make([]*entity.Token, 0)
	for rows.Next() {
		var m tokenModel
		if err := rows.Scan(&m.ClassId, &m.TokenId, &m.Owner, &m.TokenURI, &m.ApprovedSpender, &m.OwnerIndex); err != nil {
			return nil, errors.Wrap(err, "error during scan")
		}
		token, err := mapTokenModelToType(m)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error during iteration")
	}
	return tokens, nil
}

func (r *Repository) CreateToken(ctx context.Context, token *entity.Token) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO tokens (class_id, token_id, owner, token_uri, approved_spender, owner_index)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		token.ClassId.String(), int64(token.TokenId), token.Owner.String(), token.TokenURI, approvedSpenderToModel(token.ApprovedSpender), int64(token.OwnerIndex),
	)
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

func (r *Repository) UpdateToken(ctx context.Context, token *entity.Token) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE tokens SET owner = $3, token_uri = $4, approved_spender = $5, owner_index = $6
		WHERE class_id = $1 AND token_id = $2`,
		token.ClassId.String(), int64(token.TokenId), token.Owner.String(), token.TokenURI, approvedSpenderToModel(token.ApprovedSpender), int64(token.OwnerIndex),
	)
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	if tag.RowsAffected() == 0 {
		return errors.WithStack(errs.NotFound)
	}
	return nil
}

func (r *Repository) DeleteToken(ctx context.Context, classId assets.ClassId, tokenId uint64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tokens WHERE class_id = $1 AND token_id = $2`, classId.String(), int64(tokenId))
	if err != nil {
		return errors.Wrap(err, "error during exec")
	}
	if tag.RowsAffected() == 0 {
		return errors.WithStack(errs.NotFound)
	}
	return nil
}
