package memory

import (
	"context"
	"sync"

	"github.com/assetdeal/registry-network/common"
	"github.com/assetdeal/registry-network/common/errs"
	"github.com/assetdeal/registry-network/modules/assets/assets"
	"github.com/assetdeal/registry-network/modules/assets/datagateway"
	"github.com/assetdeal/registry-network/modules/assets/internal/entity"
	"github.com/cockroachdb/errors"
)

// Repository is the in-memory AssetsDataGateway. Transactions are
// snapshot-based: Begin copies the whole state, writes go to the copy and
// Commit swaps it in. Mutations are serialized by the processor's state lock,
// so concurrent transactions never race on the swap; the internal RWMutex
// only protects readers against a concurrent commit.
type Repository struct {
	mu    sync.RWMutex
	state *state
}

type state struct {
	classes       map[assets.ClassId]*entity.AssetClass
	classByLedger map[common.Address]assets.ClassId
	tokens        map[assets.ClassId]map[uint64]*entity.Token
}

var (
	_ datagateway.AssetsDataGateway       = (*Repository)(nil)
	_ datagateway.AssetsDataGatewayWithTx = (*txGateway)(nil)
)

func NewRepository() *Repository {
	return &Repository{
		state: &state{
			classes:       make(map[assets.ClassId]*entity.AssetClass),
			classByLedger: make(map[common.Address]assets.ClassId),
			tokens:        make(map[assets.ClassId]map[uint64]*entity.Token),
		},
	}
}

func (s *state) clone() *state {
	next := &state{
		classes:       make(map[assets.ClassId]*entity.AssetClass, len(s.classes)),
		classByLedger: make(map[common.Address]assets.ClassId, len(s.classByLedger)),
		tokens:        make(map[assets.ClassId]map[uint64]*entity.Token, len(s.tokens)),
	}
	for id, class := range s.classes {
		c := *class
		next.classes[id] = &c
	}
	for addr, id := range s.classByLedger {
		next.classByLedger[addr] = id
	}
	for id, classTokens := range s.tokens {
		tokens := make(map[uint64]*entity.Token, len(classTokens))
		for tokenId, token := range classTokens {
			t := *token
			tokens[tokenId] = &t
		}
		next.tokens[id] = tokens
	}
	return next
}

func (r *Repository) BeginAssetsTx(ctx context.Context) (datagateway.AssetsDataGatewayWithTx, error) {
	r.mu.RLock()
	work := r.state.clone()
	r.mu.RUnlock()
	return &txGateway{repo: r, work: work}, nil
}

type txGateway struct {
	repo *Repository
	work *state
}

func (tx *txGateway) Commit(ctx context.Context) error {
	tx.repo.mu.Lock()
	tx.repo.state = tx.work
	tx.repo.mu.Unlock()
	return nil
}

func (tx *txGateway) Rollback(ctx context.Context) error {
	// discarding the working copy is enough; no-op after commit
	return nil
}

// BeginAssetsTx on a transaction gateway nests on the same working copy.
func (tx *txGateway) BeginAssetsTx(ctx context.Context) (datagateway.AssetsDataGatewayWithTx, error) {
	return tx, nil
}

// reader methods

func (r *Repository) GetClassById(ctx context.Context, id assets.ClassId) (*entity.AssetClass, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.getClassById(id)
}

func (tx *txGateway) GetClassById(ctx context.Context, id assets.ClassId) (*entity.AssetClass, error) {
	return tx.work.getClassById(id)
}

func (s *state) getClassById(id assets.ClassId) (*entity.AssetClass, error) {
	class, ok := s.classes[id]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	c := *class
	return &c, nil
}

func (r *Repository) GetClassByLedgerAddress(ctx context.Context, ledgerAddress common.Address) (*entity.AssetClass, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.getClassByLedgerAddress(ledgerAddress)
}

func (tx *txGateway) GetClassByLedgerAddress(ctx context.Context, ledgerAddress common.Address) (*entity.AssetClass, error) {
	return tx.work.getClassByLedgerAddress(ledgerAddress)
}

func (s *state) getClassByLedgerAddress(ledgerAddress common.Address) (*entity.AssetClass, error) {
	id, ok := s.classByLedger[ledgerAddress]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	return s.getClassById(id)
}

func (r *Repository) GetClasses(ctx context.Context, limit int32, offset int32) ([]*entity.AssetClass, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.getClasses(limit, offset)
}

func (tx *txGateway) GetClasses(ctx context.Context, limit int32, offset int32) ([]*entity.AssetClass, error) {
	return tx.work.getClasses(limit, offset)
}

func (s *state) getClasses(limit int32, offset int32) ([]*entity.AssetClass, error) {
	classes := make([]*entity.AssetClass, 0, len(s.classes))
	for _, class := range s.classes {
		c := *class
		classes = append(classes, &c)
	}
	sortClassesByName(classes)
	if offset > 0 {
		if int(offset) >= len(classes) {
			return []*entity.AssetClass{}, nil
		}
		classes = classes[offset:]
	}
	if limit >= 0 && int(limit) < len(classes) {
		classes = classes[:limit]
	}
	return classes, nil
}

func (r *Repository) GetToken(ctx context.Context, classId assets.ClassId, tokenId uint64) (*entity.Token, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.getToken(classId, tokenId)
}

func (tx *txGateway) GetToken(ctx context.Context, classId assets.ClassId, tokenId uint64) (*entity.Token, error) {
	return tx.work.getToken(classId, tokenId)
}

func (s *state) getToken(classId assets.ClassId, tokenId uint64) (*entity.Token, error) {
	token, ok := s.tokens[classId][tokenId]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	t := *token
	return &t, nil
}

func (r *Repository) CountTokensByOwner(ctx context.Context, classId assets.ClassId, owner common.Address) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.countTokensByOwner(classId, owner)
}

func (tx *txGateway) CountTokensByOwner(ctx context.Context, classId assets.ClassId, owner common.Address) (uint64, error) {
	return tx.work.countTokensByOwner(classId, owner)
}

func (s *state) countTokensByOwner(classId assets.ClassId, owner common.Address) (uint64, error) {
	var count uint64
	for _, token := range s.tokens[classId] {
		if token.Owner == owner {
			count++
		}
	}
	return count, nil
}

func (r *Repository) GetTokenByOwnerIndex(ctx context.Context, classId assets.ClassId, owner common.Address, index uint64) (*entity.Token, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.getTokenByOwnerIndex(classId, owner, index)
}

func (tx *txGateway) GetTokenByOwnerIndex(ctx context.Context, classId assets.ClassId, owner common.Address, index uint64) (*entity.Token, error) {
	return tx.work.getTokenByOwnerIndex(classId, owner, index)
}

func (s *state) getTokenByOwnerIndex(classId assets.ClassId, owner common.Address, index uint64) (*entity.Token, error) {
	for _, token := range s.tokens[classId] {
		if token.Owner == owner && token.OwnerIndex == index {
			t := *token
			return &t, nil
		}
	}
	return nil, errors.WithStack(errs.NotFound)
}

func (r *Repository) GetTokensByOwner(ctx context.Context, classId assets.ClassId, owner common.Address) ([]*entity.Token, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.getTokensByOwner(classId, owner)
}

func (tx *txGateway) GetTokensByOwner(ctx context.Context, classId assets.ClassId, owner common.Address) ([]*entity.Token, error) {
	return tx.work.getTokensByOwner(classId, owner)
}

func (s *state) getTokensByOwner(classId assets.ClassId, owner common.Address) ([]*entity.Token, error) {
	tokens := make([]*entity.Token, 0)
	for _, token := range s.tokens[classId] {
		if token.Owner == owner {
			t := *token
			tokens = append(tokens, &t)
		}
	}
	sortTokensByOwnerIndex(tokens)
	return tokens, nil
}

// writer methods (transaction only)

func (tx *txGateway) CreateClass(ctx context.Context, class *entity.AssetClass) error {
	if _, ok := tx.work.classes[class.Id]; ok {
		return errors.Errorf("class %s already exists", class.Id)
	}
	c := *class
	tx.work.classes[class.Id] = &c
	tx.work.classByLedger[class.LedgerAddress] = class.Id
	tx.work.tokens[class.Id] = make(map[uint64]*entity.Token)
	return nil
}

func (tx *txGateway) SetClassMintedCount(ctx context.Context, classId assets.ClassId, mintedCount uint64) error {
	class, ok := tx.work.classes[classId]
	if !ok {
		return errors.WithStack(errs.NotFound)
	}
	class.MintedCount = mintedCount
	return nil
}

func (tx *txGateway) CreateToken(ctx context.Context, token *entity.Token) error {
	classTokens, ok := tx.work.tokens[token.ClassId]
	if !ok {
		return errors.WithStack(errs.NotFound)
	}
	if _, ok := classTokens[token.TokenId]; ok {
		return errors.Errorf("token %d already exists in class %s", token.TokenId, token.ClassId)
	}
	t := *token
	classTokens[token.TokenId] = &t
	return nil
}

func (tx *txGateway) UpdateToken(ctx context.Context, token *entity.Token) error {
	classTokens, ok := tx.work.tokens[token.ClassId]
	if !ok {
		return errors.WithStack(errs.NotFound)
	}
	if _, ok := classTokens[token.TokenId]; !ok {
		return errors.WithStack(errs.NotFound)
	}
	t := *token
	classTokens[token.TokenId] = &t
	return nil
}

func (tx *txGateway) DeleteToken(ctx context.Context, classId assets.ClassId, tokenId uint64) error {
	classTokens, ok := tx.work.tokens[classId]
	if !ok {
		return errors.WithStack(errs.NotFound)
	}
	if _, ok := classTokens[tokenId]; !ok {
		return errors.WithStack(errs.NotFound)
	}
	delete(classTokens, tokenId)
	return nil
}

// writer methods on the root repository run as implicit single-statement
// transactions.

func (r *Repository) CreateClass(ctx context.Context, class *entity.AssetClass) error {
	return r.autoCommit(ctx, func(tx *txGateway) error { return tx.CreateClass(ctx, class) })
}

func (r *Repository) SetClassMintedCount(ctx context.Context, classId assets.ClassId, mintedCount uint64) error {
	return r.autoCommit(ctx, func(tx *txGateway) error { return tx.SetClassMintedCount(ctx, classId, mintedCount) })
}

func (r *Repository) CreateToken(ctx context.Context, token *entity.Token) error {
	return r.autoCommit(ctx, func(tx *txGateway) error { return tx.CreateToken(ctx, token) })
}

func (r *Repository) UpdateToken(ctx context.Context, token *entity.Token) error {
	return r.autoCommit(ctx, func(tx *txGateway) error { return tx.UpdateToken(ctx, token) })
}

func (r *Repository) DeleteToken(ctx context.Context, classId assets.ClassId, tokenId uint64) error {
	return r.autoCommit(ctx, func(tx *txGateway) error { return tx.DeleteToken(ctx, classId, tokenId) })
}

func (r *Repository) autoCommit(ctx context.Context, fn func(tx *txGateway) error) error {
	txDg, err := r.BeginAssetsTx(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	tx := txDg.(*txGateway)
	if err := fn(tx); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(tx.Commit(ctx))
}
