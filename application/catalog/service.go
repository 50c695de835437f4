/*
Package catalog 商品目录应用服务。

每次调用从工厂获取一个工作单元，查询通过规格完成，写操作暂存后由 Complete 一次性提交。
提交影响行数为 0 时返回 CommitFailure。
*/
package catalog

import (
	"context"

	"storefront/domain"
	"storefront/domain/catalog"
	"storefront/domain/shared"
	"storefront/pkg/logger"

	"go.uber.org/zap"
)

// Service Catalog application service
type Service struct {
	uows   domain.UnitOfWorkFactory
	apiURL string
}

// NewService apiURL is prepended to stored picture paths.
func NewService(uows domain.UnitOfWorkFactory, apiURL string) *Service {
	return &Service{uows: uows, apiURL: apiURL}
}

// GetProducts returns one page of products matching params together with the total match count.
func (s *Service) GetProducts(ctx context.Context, params catalog.ProductSpecParams) (shared.Pagination[ProductResponse], error) {
	if err := params.Normalize(); err != nil {
		return shared.Pagination[ProductResponse]{}, err
	}

	uow, err := s.uows.New(ctx)
	if err != nil {
		return shared.Pagination[ProductResponse]{}, err
	}
	defer uow.Release()

	total, err := uow.Products().Count(ctx, catalog.NewProductsWithFiltersForCountSpec(params))
	if err != nil {
		return shared.Pagination[ProductResponse]{}, err
	}
	products, err := uow.Products().ListWithSpec(ctx, catalog.NewProductsWithTypesAndBrandsSpec(params))
	if err != nil {
		return shared.Pagination[ProductResponse]{}, err
	}

	return shared.NewPagination(params.PageIndex, params.PageSize, total, toProductResponses(products, s.apiURL)), nil
}

func (s *Service) GetProduct(ctx context.Context, id int) (*ProductResponse, error) {
	uow, err := s.uows.New(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Release()

	return s.loadProduct(ctx, uow, id)
}

func (s *Service) loadProduct(ctx context.Context, uow domain.UnitOfWork, id int) (*ProductResponse, error) {
	product, err := uow.Products().GetEntityWithSpec(ctx, catalog.NewProductWithTypesAndBrandsSpec(id))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, shared.NewNotFoundError("product")
	}
	resp := toProductResponse(*product, s.apiURL)
	return &resp, nil
}

func (s *Service) GetBrands(ctx context.Context) ([]catalog.ProductBrand, error) {
	uow, err := s.uows.New(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Release()

	return uow.ProductBrands().ListWithSpec(ctx, catalog.NewBrandsSpec())
}

func (s *Service) GetTypes(ctx context.Context) ([]catalog.ProductType, error) {
	uow, err := s.uows.New(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Release()

	return uow.ProductTypes().ListWithSpec(ctx, catalog.NewTypesSpec())
}

// CreateProduct stores a new product and returns it with brand and type names resolved.
func (s *Service) CreateProduct(ctx context.Context, req ProductRequest) (*ProductResponse, error) {
	var product catalog.Product
	applyRequest(&product, req)
	if err := product.Validate(); err != nil {
		return nil, err
	}

	uow, err := s.uows.New(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Release()

	if err := s.checkReferences(ctx, uow, product); err != nil {
		return nil, err
	}

	uow.Products().Add(&product)
	if err := domain.CompleteOrFail(ctx, uow, "product", "creating"); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Product created", zap.Int("product_id", product.ID))
	return s.loadProduct(ctx, uow, product.ID)
}

func (s *Service) UpdateProduct(ctx context.Context, id int, req ProductRequest) (*ProductResponse, error) {
	uow, err := s.uows.New(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Release()

	product, err := uow.Products().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, shared.NewNotFoundError("product")
	}

	applyRequest(product, req)
	if err := product.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, uow, *product); err != nil {
		return nil, err
	}

	uow.Products().Update(product)
	if err := domain.CompleteOrFail(ctx, uow, "product", "updating"); err != nil {
		return nil, err
	}
	return s.loadProduct(ctx, uow, id)
}

// DeleteProduct removes the product; its photos go with it.
func (s *Service) DeleteProduct(ctx context.Context, id int) error {
	uow, err := s.uows.New(ctx)
	if err != nil {
		return err
	}
	defer uow.Release()

	product, err := uow.Products().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return shared.NewNotFoundError("product")
	}

	uow.Products().Delete(product)
	if err := domain.CompleteOrFail(ctx, uow, "product", "deleting"); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("Product deleted", zap.Int("product_id", id))
	return nil
}

// checkReferences reports unknown brand or type ids as validation errors instead of storage conflicts.
func (s *Service) checkReferences(ctx context.Context, uow domain.UnitOfWork, p catalog.Product) error {
	brand, err := uow.ProductBrands().GetByID(ctx, p.ProductBrandID)
	if err != nil {
		return err
	}
	if brand == nil {
		return shared.NewValidationError("product", "productBrandId", "product brand does not exist")
	}

	typ, err := uow.ProductTypes().GetByID(ctx, p.ProductTypeID)
	if err != nil {
		return err
	}
	if typ == nil {
		return shared.NewValidationError("product", "productTypeId", "product type does not exist")
	}
	return nil
}
