package service

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductService defines the product use cases exposed to transports.
type ProductService interface {
	CreateProduct(ctx context.Context, cmd CreateProductCommand) (Result[*ProductDto], error)
	UpdateProduct(ctx context.Context, cmd UpdateProductCommand) (Result[*ProductDto], error)
	UpdateProductStock(ctx context.Context, cmd UpdateProductStockCommand) (Result[*ProductDto], error)
	ActivateProduct(ctx context.Context, cmd ActivateProductCommand) (Result[*ProductDto], error)
	DeactivateProduct(ctx context.Context, cmd DeactivateProductCommand) (Result[*ProductDto], error)
	DeleteProduct(ctx context.Context, cmd DeleteProductCommand) (Result[*ProductDto], error)
	GetProduct(ctx context.Context, q GetProductByIDQuery) (Result[*ProductDto], error)
	ListProducts(ctx context.Context, q GetAllProductsQuery) (Result[[]ProductDto], error)
}

type productService struct {
	newUnitOfWork UnitOfWorkProvider
	logger        *zap.Logger

	createValidators     []Validator[CreateProductCommand]
	updateValidators     []Validator[UpdateProductCommand]
	stockValidators      []Validator[UpdateProductStockCommand]
	activateValidators   []Validator[ActivateProductCommand]
	deactivateValidators []Validator[DeactivateProductCommand]
	deleteValidators     []Validator[DeleteProductCommand]
}

// NewProductService creates a new instance of ProductService
func NewProductService(provider UnitOfWorkProvider, logger *zap.Logger) ProductService {
	v := NewValidate()

	return &productService{
		newUnitOfWork: provider,
		logger:        logger,
		createValidators: []Validator[CreateProductCommand]{
			NewStructValidator[CreateProductCommand](v, productMessages),
			validPrice(func(c CreateProductCommand) decimal.Decimal { return c.Amount }),
		},
		updateValidators: []Validator[UpdateProductCommand]{
			NewStructValidator[UpdateProductCommand](v, productMessages),
			validPrice(func(c UpdateProductCommand) decimal.Decimal { return c.Amount }),
		},
		stockValidators:      []Validator[UpdateProductStockCommand]{NewStructValidator[UpdateProductStockCommand](v, productMessages)},
		activateValidators:   []Validator[ActivateProductCommand]{NewStructValidator[ActivateProductCommand](v, productMessages)},
		deactivateValidators: []Validator[DeactivateProductCommand]{NewStructValidator[DeactivateProductCommand](v, productMessages)},
		deleteValidators:     []Validator[DeleteProductCommand]{NewStructValidator[DeleteProductCommand](v, productMessages)},
	}
}

// send runs req through logging, validation and transaction behaviors on a
// fresh unit of work, which is closed before returning.
func send[Req Request, Res any](
	ctx context.Context,
	s *productService,
	req Req,
	handler func(UnitOfWork) HandlerFunc[Req, Res],
	validators []Validator[Req],
) (Result[Res], error) {
	uow := s.newUnitOfWork()
	defer func() {
		if err := uow.Close(); err != nil {
			s.logger.Warn("Failed to close unit of work", zap.String("request", req.RequestName()), zap.Error(err))
		}
	}()

	h := Chain(handler(uow),
		LoggingBehavior[Req, Res](s.logger),
		ValidationBehavior[Req, Res](validators...),
		TransactionBehavior[Req, Res](uow),
	)
	return h(ctx, req)
}

func (s *productService) CreateProduct(ctx context.Context, cmd CreateProductCommand) (Result[*ProductDto], error) {
	return send(ctx, s, cmd, createProduct, s.createValidators)
}

func (s *productService) UpdateProduct(ctx context.Context, cmd UpdateProductCommand) (Result[*ProductDto], error) {
	return send(ctx, s, cmd, updateProduct, s.updateValidators)
}

func (s *productService) UpdateProductStock(ctx context.Context, cmd UpdateProductStockCommand) (Result[*ProductDto], error) {
	return send(ctx, s, cmd, updateProductStock, s.stockValidators)
}

func (s *productService) ActivateProduct(ctx context.Context, cmd ActivateProductCommand) (Result[*ProductDto], error) {
	return send(ctx, s, cmd, activateProduct, s.activateValidators)
}

func (s *productService) DeactivateProduct(ctx context.Context, cmd DeactivateProductCommand) (Result[*ProductDto], error) {
	return send(ctx, s, cmd, deactivateProduct, s.deactivateValidators)
}

func (s *productService) DeleteProduct(ctx context.Context, cmd DeleteProductCommand) (Result[*ProductDto], error) {
	return send(ctx, s, cmd, deleteProduct, s.deleteValidators)
}

func (s *productService) GetProduct(ctx context.Context, q GetProductByIDQuery) (Result[*ProductDto], error) {
	return send(ctx, s, q, getProduct, nil)
}

func (s *productService) ListProducts(ctx context.Context, q GetAllProductsQuery) (Result[[]ProductDto], error) {
	return send(ctx, s, q, listProducts, nil)
}
