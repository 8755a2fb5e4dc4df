package service

import (
	"context"
	"errors"

	"catalog-api/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateProductCommand struct {
	Name        string `validate:"notblank,max=200"`
	Description string `validate:"notblank,max=1000"`
	Amount      decimal.Decimal
	Currency    string    `validate:"notblank,len=3,alpha"`
	Stock       int       `validate:"gte=0"`
	CategoryID  uuid.UUID `validate:"required"`
}

func (CreateProductCommand) RequestName() string { return "CreateProductCommand" }
func (CreateProductCommand) Transactional() bool { return true }

type UpdateProductCommand struct {
	ID          uuid.UUID `validate:"required"`
	Name        string    `validate:"notblank,max=200"`
	Description string    `validate:"notblank,max=1000"`
	Amount      decimal.Decimal
	Currency    string `validate:"notblank,len=3,alpha"`
}

func (UpdateProductCommand) RequestName() string { return "UpdateProductCommand" }
func (UpdateProductCommand) Transactional() bool { return true }

type UpdateProductStockCommand struct {
	ID    uuid.UUID `validate:"required"`
	Stock int       `validate:"gte=0"`
}

func (UpdateProductStockCommand) RequestName() string { return "UpdateProductStockCommand" }
func (UpdateProductStockCommand) Transactional() bool { return true }

type ActivateProductCommand struct {
	ID uuid.UUID `validate:"required"`
}

func (ActivateProductCommand) RequestName() string { return "ActivateProductCommand" }
func (ActivateProductCommand) Transactional() bool { return true }

type DeactivateProductCommand struct {
	ID uuid.UUID `validate:"required"`
}

func (DeactivateProductCommand) RequestName() string { return "DeactivateProductCommand" }
func (DeactivateProductCommand) Transactional() bool { return true }

type DeleteProductCommand struct {
	ID uuid.UUID `validate:"required"`
}

func (DeleteProductCommand) RequestName() string { return "DeleteProductCommand" }
func (DeleteProductCommand) Transactional() bool { return true }

var productMessages = map[string]string{
	"ID.required":          MsgProductIDRequired,
	"Name.notblank":        MsgProductNameRequired,
	"Name.max":             MsgProductNameTooLong,
	"Description.notblank": MsgProductDescriptionRequired,
	"Description.max":      MsgProductDescriptionTooLong,
	"Currency.notblank":    MsgCurrencyRequired,
	"Currency.len":         MsgCurrencyLength,
	"Currency.alpha":       MsgCurrencyLetters,
	"Stock.gte":            MsgStockNegative,
	"CategoryID.required":  MsgCategoryIDRequired,
}

// maxPrice is the first amount a NUMERIC(18, 2) price column cannot hold.
var maxPrice = decimal.New(1, 16)

// validPrice rejects amounts that are not positive or that the price
// column would round or overflow.
func validPrice[Req Request](amount func(Req) decimal.Decimal) ValidatorFunc[Req] {
	return func(_ context.Context, req Req) ([]string, error) {
		a := amount(req)
		if !a.IsPositive() {
			return []string{MsgProductPricePositive}, nil
		}

		var msgs []string
		if !a.Equal(a.Round(2)) {
			msgs = append(msgs, MsgProductPricePrecision)
		}
		if a.GreaterThanOrEqual(maxPrice) {
			msgs = append(msgs, MsgProductPriceTooLarge)
		}
		return msgs, nil
	}
}

func createProduct(uow UnitOfWork) HandlerFunc[CreateProductCommand, *ProductDto] {
	return func(ctx context.Context, cmd CreateProductCommand) (Result[*ProductDto], error) {
		category, err := uow.Categories().GetByID(ctx, cmd.CategoryID)
		if err != nil {
			return Result[*ProductDto]{}, err
		}
		if category == nil {
			return Failure[*ProductDto](MsgCategoryNotFound), nil
		}

		price, err := domain.NewMoney(cmd.Amount, cmd.Currency)
		if err != nil {
			return Failure[*ProductDto](MsgValidationFailed, err.Error()), nil
		}

		product, err := domain.NewProduct(cmd.Name, cmd.Description, price, cmd.Stock, cmd.CategoryID)
		if err != nil {
			return Failure[*ProductDto](MsgValidationFailed, err.Error()), nil
		}

		if err := uow.Products().Add(ctx, product); err != nil {
			return Result[*ProductDto]{}, err
		}
		if err := uow.SaveChanges(ctx); err != nil {
			return Result[*ProductDto]{}, err
		}

		dto := toProductDto(product, category.Name())
		return Success(&dto, MsgProductCreated), nil
	}
}

// invalidChangeError marks a domain rule violation raised while applying a change.
type invalidChangeError struct{ err error }

func (e invalidChangeError) Error() string { return e.err.Error() }
func (e invalidChangeError) Unwrap() error { return e.err }

func invalidChange(err error) error {
	return invalidChangeError{err: err}
}

// changeProduct loads the product named by id, applies change and saves it.
// A missing product is reported as a failed result with no write.
func changeProduct[Req Request](
	uow UnitOfWork,
	id func(Req) uuid.UUID,
	change func(*domain.Product, Req) error,
	message string,
) HandlerFunc[Req, *ProductDto] {
	return func(ctx context.Context, req Req) (Result[*ProductDto], error) {
		found, err := uow.Products().GetWithCategory(ctx, id(req))
		if err != nil {
			return Result[*ProductDto]{}, err
		}
		if found == nil {
			return Failure[*ProductDto](MsgProductNotFound), nil
		}

		if err := change(found.Product, req); err != nil {
			var invalid invalidChangeError
			if errors.As(err, &invalid) {
				return Failure[*ProductDto](MsgValidationFailed, invalid.Error()), nil
			}
			return Result[*ProductDto]{}, err
		}

		if err := uow.Products().Update(ctx, found.Product); err != nil {
			return Result[*ProductDto]{}, err
		}
		if err := uow.SaveChanges(ctx); err != nil {
			return Result[*ProductDto]{}, err
		}

		dto := toProductDto(found.Product, found.CategoryName)
		return Success(&dto, message), nil
	}
}

func updateProduct(uow UnitOfWork) HandlerFunc[UpdateProductCommand, *ProductDto] {
	return changeProduct(uow,
		func(cmd UpdateProductCommand) uuid.UUID { return cmd.ID },
		func(p *domain.Product, cmd UpdateProductCommand) error {
			price, err := domain.NewMoney(cmd.Amount, cmd.Currency)
			if err != nil {
				return invalidChange(err)
			}
			p.UpdateDetails(cmd.Name, cmd.Description, price)
			return nil
		},
		MsgProductUpdated,
	)
}

func updateProductStock(uow UnitOfWork) HandlerFunc[UpdateProductStockCommand, *ProductDto] {
	return changeProduct(uow,
		func(cmd UpdateProductStockCommand) uuid.UUID { return cmd.ID },
		func(p *domain.Product, cmd UpdateProductStockCommand) error {
			if err := p.UpdateStock(cmd.Stock); err != nil {
				return invalidChange(err)
			}
			return nil
		},
		MsgProductStockUpdated,
	)
}

func activateProduct(uow UnitOfWork) HandlerFunc[ActivateProductCommand, *ProductDto] {
	return changeProduct(uow,
		func(cmd ActivateProductCommand) uuid.UUID { return cmd.ID },
		func(p *domain.Product, _ ActivateProductCommand) error {
			p.Activate()
			return nil
		},
		MsgProductActivated,
	)
}

func deactivateProduct(uow UnitOfWork) HandlerFunc[DeactivateProductCommand, *ProductDto] {
	return changeProduct(uow,
		func(cmd DeactivateProductCommand) uuid.UUID { return cmd.ID },
		func(p *domain.Product, _ DeactivateProductCommand) error {
			p.Deactivate()
			return nil
		},
		MsgProductDeactivated,
	)
}

func deleteProduct(uow UnitOfWork) HandlerFunc[DeleteProductCommand, *ProductDto] {
	return func(ctx context.Context, cmd DeleteProductCommand) (Result[*ProductDto], error) {
		product, err := uow.Products().GetByID(ctx, cmd.ID)
		if err != nil {
			return Result[*ProductDto]{}, err
		}
		if product == nil {
			return Failure[*ProductDto](MsgProductNotFound), nil
		}

		if err := uow.Products().Delete(ctx, product); err != nil {
			return Result[*ProductDto]{}, err
		}
		if err := uow.SaveChanges(ctx); err != nil {
			return Result[*ProductDto]{}, err
		}

		return Success[*ProductDto](nil, MsgProductDeleted), nil
	}
}
