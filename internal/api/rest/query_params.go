package rest

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/peridotvault/peridot-core/internal/api/shared/constants"
	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/store"
)

// PageQueryParams holds pagination query parameters
type PageQueryParams struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset,default=0"`
}

func (p *PageQueryParams) normalize() error {
	if p.Offset < 0 {
		return fmt.Errorf("offset must not be negative")
	}
	if p.Limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}
	if p.Limit == 0 {
		p.Limit = constants.DEFAULT_PAGE_SIZE
	}
	if p.Limit > constants.MAX_PAGE_SIZE {
		p.Limit = constants.MAX_PAGE_SIZE
	}
	return nil
}

// ParsePageQuery parses query parameters for registry listings
func ParsePageQuery(c *gin.Context) (*PageQueryParams, error) {
	var params PageQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	if err := params.normalize(); err != nil {
		return nil, err
	}
	return &params, nil
}

// ListGamesQueryParams holds query parameters for GET /games
type ListGamesQueryParams struct {
	PageQueryParams
	Publisher string `form:"publisher"`
	Active    *bool  `form:"active"`
}

// ParseListGamesQuery parses query parameters for GET /games
func ParseListGamesQuery(c *gin.Context) (*store.GameFilter, error) {
	var params ListGamesQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	if err := params.normalize(); err != nil {
		return nil, err
	}
	if params.Publisher != "" && !common.IsHexAddress(params.Publisher) {
		return nil, fmt.Errorf("publisher must be a hex address")
	}

	return &store.GameFilter{
		Publisher: params.Publisher,
		Active:    params.Active,
		Limit:     params.Limit,
		Offset:    params.Offset,
	}, nil
}

// ListPurchasesQueryParams holds query parameters for GET /purchases
type ListPurchasesQueryParams struct {
	PageQueryParams
	SaleContract string `form:"sale_contract"`
	Buyer        string `form:"buyer"`
}

// ParseListPurchasesQuery parses query parameters for GET /purchases
func ParseListPurchasesQuery(c *gin.Context) (*store.PurchaseFilter, error) {
	var params ListPurchasesQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	if err := params.normalize(); err != nil {
		return nil, err
	}
	if params.SaleContract != "" && !common.IsHexAddress(params.SaleContract) {
		return nil, fmt.Errorf("sale_contract must be a hex address")
	}
	if params.Buyer != "" && !common.IsHexAddress(params.Buyer) {
		return nil, fmt.Errorf("buyer must be a hex address")
	}

	return &store.PurchaseFilter{
		SaleContract: params.SaleContract,
		Buyer:        params.Buyer,
		Limit:        params.Limit,
		Offset:       params.Offset,
	}, nil
}

// ParseMetadataKindQuery parses the kind query parameter, defaulting to game metadata
func ParseMetadataKindQuery(c *gin.Context) (domain.MetadataKind, error) {
	kind := domain.MetadataKind(c.DefaultQuery("kind", string(domain.MetadataKindGame)))
	if !domain.IsValidMetadataKind(kind) {
		return "", fmt.Errorf("unsupported metadata kind: %s", kind)
	}
	return kind, nil
}

// ParseAccountQuery parses the optional account query parameter
func ParseAccountQuery(c *gin.Context) (*common.Address, error) {
	account := c.Query("account")
	if account == "" {
		return nil, nil
	}
	addr, err := domain.ParseAddress(account)
	if err != nil {
		return nil, err
	}
	return &addr, nil
}
