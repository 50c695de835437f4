package domain

import (
	"context"

	"storefront/domain/catalog"
	"storefront/domain/identity"
	"storefront/domain/shared"
)

// UnitOfWork 工作单元接口
// 职责：
// 1. 按实体类型提供仓储（首次访问时创建并缓存）
// 2. 收集仓储上暂存的 Add/Update/Delete
// 3. Complete 时在一个事务内按暂存顺序提交，全部成功或全部回滚
//
// 使用模式：
//
//	uow, err := factory.New(ctx)
//	if err != nil { ... }
//	defer uow.Release()
//
//	uow.Products().Add(&product)
//	n, err := uow.Complete(ctx)
//	if err == nil && n <= 0 { ... } // 提交成功但没有影响任何行
//
// 一个 UnitOfWork 只属于一个请求，不支持并发使用。
type UnitOfWork interface {
	Products() shared.Repository[catalog.Product, int]
	ProductBrands() shared.Repository[catalog.ProductBrand, int]
	ProductTypes() shared.Repository[catalog.ProductType, int]
	Photos() shared.Repository[catalog.Photo, int]

	Users() shared.Repository[identity.AppUser, string]
	Roles() shared.Repository[identity.Role, string]
	UserRoles() shared.Repository[identity.UserRole, identity.UserRoleKey]
	Addresses() shared.Repository[identity.Address, int]

	// Complete 提交所有暂存的变更，返回受影响的行数
	// 任一操作失败则整体回滚并返回错误，不做重试
	Complete(ctx context.Context) (int64, error)

	// Release 丢弃未提交的变更并释放会话，之后不可再使用
	Release()
}

// UnitOfWorkFactory 工作单元工厂
type UnitOfWorkFactory interface {
	// New 为一次请求创建新的工作单元
	New(ctx context.Context) (UnitOfWork, error)
}

// CompleteOrFail 提交工作单元；提交成功但没有影响任何行时返回 CommitFailure 错误
func CompleteOrFail(ctx context.Context, uow UnitOfWork, entity, action string) error {
	n, err := uow.Complete(ctx)
	if err != nil {
		return err
	}
	if n <= 0 {
		return shared.NewCommitFailureError(entity, action)
	}
	return nil
}
