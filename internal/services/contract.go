package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/data/repos"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/domain"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/platform/apierr"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/platform/dates"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/platform/logger"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/requests"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/validation"
)

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

// ContractListQuery is the decoded query string of the contract listing
// endpoint. Sort is "field,asc|desc" against a whitelist of view fields.
type ContractListQuery struct {
	ActiveOnly   bool
	UpdatedSince *time.Time
	Page         int
	Size         int
	Sort         string
}

type ContractPage struct {
	Items      []*domain.Contract
	Page       int
	Size       int
	TotalItems int64
	TotalPages int
}

type ContractService interface {
	Create(ctx context.Context, tx *gorm.DB, clientID uint, req *requests.ContractCreate) (*domain.Contract, error)
	CreateBatch(ctx context.Context, tx *gorm.DB, clientID uint, items []requests.ContractCreate) ([]*domain.Contract, error)
	UpdateCost(ctx context.Context, tx *gorm.DB, id uint, req *requests.ContractCostUpdate) (*domain.Contract, error)
	ListForClient(ctx context.Context, tx *gorm.DB, clientID uint, q ContractListQuery) (*ContractPage, error)
	SumActive(ctx context.Context, tx *gorm.DB, clientID uint) (decimal.Decimal, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type contractService struct {
	db           *gorm.DB
	log          *logger.Logger
	clientRepo   repos.ClientRepo
	contractRepo repos.ContractRepo
}

func NewContractService(
	db *gorm.DB,
	baseLog *logger.Logger,
	clientRepo repos.ClientRepo,
	contractRepo repos.ContractRepo,
) ContractService {
	serviceLog := baseLog.With("service", "ContractService")
	return &contractService{
		db:           db,
		log:          serviceLog,
		clientRepo:   clientRepo,
		contractRepo: contractRepo,
	}
}

func (cs *contractService) Create(ctx context.Context, tx *gorm.DB, clientID uint, req *requests.ContractCreate) (*domain.Contract, error) {
	transaction := tx
	if transaction == nil {
		transaction = cs.db
	}

	if err := cs.requireClient(ctx, transaction, clientID); err != nil {
		return nil, err
	}
	if errs := validation.ContractCreate(req); len(errs) > 0 {
		return nil, apierr.Validation(errs)
	}

	contract := buildContract(clientID, req)
	if _, err := cs.contractRepo.Create(ctx, transaction, []*domain.Contract{contract}); err != nil {
		cs.log.Error("Create contract failed", "error", err, "client_id", clientID)
		return nil, fmt.Errorf("create contract: %w", err)
	}
	return contract, nil
}

// CreateBatch validates every item up front (errors carry the item index)
// and inserts in list order inside one transaction, so no contract from a
// failed batch ever persists.
func (cs *contractService) CreateBatch(ctx context.Context, tx *gorm.DB, clientID uint, items []requests.ContractCreate) ([]*domain.Contract, error) {
	if len(items) == 0 {
		return nil, apierr.BadRequest("batch must contain at least one contract")
	}
	if errs := validation.ContractCreateBatch(items); len(errs) > 0 {
		return nil, apierr.Validation(errs)
	}

	contracts := make([]*domain.Contract, 0, len(items))
	err := inTx(cs.db, tx, func(tx *gorm.DB) error {
		if err := cs.requireClient(ctx, tx, clientID); err != nil {
			return err
		}
		for i := range items {
			contracts = append(contracts, buildContract(clientID, &items[i]))
		}
		if _, err := cs.contractRepo.Create(ctx, tx, contracts); err != nil {
			return fmt.Errorf("create contracts: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return contracts, nil
}

func buildContract(clientID uint, req *requests.ContractCreate) *domain.Contract {
	start := dates.Today()
	if req.StartDate != nil {
		start = dates.Midnight(req.StartDate.Time)
	}
	var end *time.Time
	if req.EndDate != nil {
		e := dates.Midnight(req.EndDate.Time)
		end = &e
	}
	return &domain.Contract{
		ClientID:      clientID,
		StartDate:     start,
		EndDate:       end,
		CostAmount:    *req.CostAmount,
		LastUpdatedAt: time.Now().UTC(),
	}
}

// UpdateCost refreshes lastUpdatedAt as a side effect of the mutation; the
// caller cannot set it.
func (cs *contractService) UpdateCost(ctx context.Context, tx *gorm.DB, id uint, req *requests.ContractCostUpdate) (*domain.Contract, error) {
	if errs := validation.ContractCostUpdate(req); len(errs) > 0 {
		return nil, apierr.Validation(errs)
	}

	contract, err := cs.get(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := cs.contractRepo.UpdateCost(ctx, tx, id, *req.CostAmount, now); err != nil {
		cs.log.Error("Update contract cost failed", "error", err, "contract_id", id)
		return nil, fmt.Errorf("update contract cost: %w", err)
	}

	contract.CostAmount = *req.CostAmount
	contract.LastUpdatedAt = now
	return contract, nil
}

func (cs *contractService) ListForClient(ctx context.Context, tx *gorm.DB, clientID uint, q ContractListQuery) (*ContractPage, error) {
	if err := cs.requireClient(ctx, tx, clientID); err != nil {
		return nil, err
	}

	orderBy, err := parseSort(q.Sort)
	if err != nil {
		return nil, err
	}

	page := q.Page
	if page < 0 {
		page = 0
	}
	size := q.Size
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	filter := repos.ContractFilter{UpdatedSince: q.UpdatedSince}
	if q.ActiveOnly {
		today := dates.Today()
		filter.ActiveOn = &today
	}

	items, total, err := cs.contractRepo.ListByClient(ctx, tx, clientID, filter, repos.PageSpec{
		Offset:  page * size,
		Limit:   size,
		OrderBy: orderBy,
	})
	if err != nil {
		cs.log.Error("List contracts failed", "error", err, "client_id", clientID)
		return nil, fmt.Errorf("list contracts: %w", err)
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	return &ContractPage{
		Items:      items,
		Page:       page,
		Size:       size,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

// SumActive returns zero, not an error, when the client has no active
// contracts. "Active" is evaluated against today at call time.
func (cs *contractService) SumActive(ctx context.Context, tx *gorm.DB, clientID uint) (decimal.Decimal, error) {
	if err := cs.requireClient(ctx, tx, clientID); err != nil {
		return decimal.Zero, err
	}
	sum, err := cs.contractRepo.SumActiveByClient(ctx, tx, clientID, dates.Today())
	if err != nil {
		cs.log.Error("Sum active contracts failed", "error", err, "client_id", clientID)
		return decimal.Zero, fmt.Errorf("sum active contracts: %w", err)
	}
	return sum, nil
}

func (cs *contractService) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if _, err := cs.get(ctx, tx, id); err != nil {
		return err
	}
	if _, err := cs.contractRepo.Delete(ctx, tx, id); err != nil {
		cs.log.Error("Delete contract failed", "error", err, "contract_id", id)
		return fmt.Errorf("delete contract: %w", err)
	}
	return nil
}

func (cs *contractService) get(ctx context.Context, tx *gorm.DB, id uint) (*domain.Contract, error) {
	contract, err := cs.contractRepo.GetByID(ctx, tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("Contract", id)
		}
		return nil, fmt.Errorf("get contract: %w", err)
	}
	return contract, nil
}

func (cs *contractService) requireClient(ctx context.Context, tx *gorm.DB, clientID uint) error {
	if _, err := cs.clientRepo.GetByID(ctx, tx, clientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierr.NotFound("Client", clientID)
		}
		return fmt.Errorf("get client: %w", err)
	}
	return nil
}

var contractSortColumns = map[string]string{
	"id":            "id",
	"startDate":     "start_date",
	"endDate":       "end_date",
	"costAmount":    "cost_amount",
	"lastUpdatedAt": "last_updated_at",
}

// parseSort turns "field,asc|desc" into an ORDER BY clause. Only
// whitelisted fields reach the database.
func parseSort(sort string) (string, error) {
	if strings.TrimSpace(sort) == "" {
		return "id asc", nil
	}

	parts := strings.SplitN(sort, ",", 2)
	column, ok := contractSortColumns[strings.TrimSpace(parts[0])]
	if !ok {
		return "", apierr.Validation([]apierr.FieldError{{
			Parameter:     "sort",
			Message:       "unsupported sort field",
			RejectedValue: sort,
		}})
	}

	direction := "asc"
	if len(parts) == 2 {
		switch strings.ToLower(strings.TrimSpace(parts[1])) {
		case "", "asc":
		case "desc":
			direction = "desc"
		default:
			return "", apierr.Validation([]apierr.FieldError{{
				Parameter:     "sort",
				Message:       "sort direction must be asc or desc",
				RejectedValue: sort,
			}})
		}
	}
	return column + " " + direction, nil
}
