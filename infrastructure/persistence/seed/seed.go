/*
Package seed 初始化数据：角色、管理员、品牌、类型、商品与图片。

所有写入都通过工作单元完成，因此内存后端与数据库后端共用同一份种子逻辑。
分阶段提交：外键依赖的自增主键要在上一阶段提交后才能取得。
每个阶段只在对应的表为空时执行，重复启动不会写入重复数据。
*/
package seed

import (
	"context"
	"fmt"
	"path"
	"time"

	"storefront/domain"
	"storefront/domain/catalog"
	"storefront/domain/identity"
	"storefront/domain/shared"
	"storefront/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Admin is the first administrator account.
type Admin struct {
	DisplayName string
	Email       string
	Password    string
}

type Seeder struct {
	uows  domain.UnitOfWorkFactory
	admin Admin
	now   func() time.Time
}

func New(uows domain.UnitOfWorkFactory, admin Admin) *Seeder {
	return &Seeder{uows: uows, admin: admin, now: time.Now}
}

// Run executes every phase whose tables are still empty.
func (s *Seeder) Run(ctx context.Context) error {
	phases := []struct {
		name string
		fn   func(context.Context, domain.UnitOfWork) (bool, error)
	}{
		{"identity", s.seedIdentity},
		{"catalog lookups", s.seedLookups},
		{"products", s.seedProducts},
		{"photos", s.seedPhotos},
	}
	for _, p := range phases {
		if err := s.runPhase(ctx, p.name, p.fn); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) runPhase(ctx context.Context, name string, fn func(context.Context, domain.UnitOfWork) (bool, error)) error {
	uow, err := s.uows.New(ctx)
	if err != nil {
		return err
	}
	defer uow.Release()

	staged, err := fn(ctx, uow)
	if err != nil {
		return fmt.Errorf("seed %s: %w", name, err)
	}
	if !staged {
		logger.Debug("Seed phase skipped", zap.String("phase", name))
		return nil
	}
	n, err := uow.Complete(ctx)
	if err != nil {
		return fmt.Errorf("seed %s: %w", name, err)
	}
	logger.Info("Seed phase completed", zap.String("phase", name), zap.Int64("rows", n))
	return nil
}

func isEmpty[T shared.Entity[K], K comparable](ctx context.Context, repo shared.Repository[T, K]) (bool, error) {
	n, err := repo.Count(ctx, shared.NewCountSpecification[T]())
	return n == 0, err
}

// seedIdentity creates the roles and the administrator holding both roles.
func (s *Seeder) seedIdentity(ctx context.Context, uow domain.UnitOfWork) (bool, error) {
	empty, err := isEmpty(ctx, uow.Roles())
	if err != nil || !empty {
		return false, err
	}

	roles := make([]identity.Role, len(roleNames))
	for i, name := range roleNames {
		roles[i] = identity.Role{ID: uuid.NewString(), Name: name}
		uow.Roles().Add(&roles[i])
	}

	if s.admin.Email == "" {
		return true, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(s.admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	email := identity.NormalizeEmail(s.admin.Email)
	admin := identity.AppUser{
		ID:             uuid.NewString(),
		DisplayName:    s.admin.DisplayName,
		UserName:       email,
		Email:          email,
		PasswordHash:   string(hash),
		LockoutEnabled: true,
		CreatedAt:      s.now(),
	}
	uow.Users().Add(&admin)
	for _, r := range roles {
		uow.UserRoles().Add(&identity.UserRole{UserID: admin.ID, RoleID: r.ID})
	}
	return true, nil
}

func (s *Seeder) seedLookups(ctx context.Context, uow domain.UnitOfWork) (bool, error) {
	empty, err := isEmpty(ctx, uow.ProductBrands())
	if err != nil || !empty {
		return false, err
	}
	for _, name := range brandNames {
		uow.ProductBrands().Add(&catalog.ProductBrand{Name: name})
	}
	for _, name := range typeNames {
		uow.ProductTypes().Add(&catalog.ProductType{Name: name})
	}
	return true, nil
}

func (s *Seeder) seedProducts(ctx context.Context, uow domain.UnitOfWork) (bool, error) {
	empty, err := isEmpty(ctx, uow.Products())
	if err != nil || !empty {
		return false, err
	}

	brands, err := lookup(ctx, uow.ProductBrands(), func(b catalog.ProductBrand) string { return b.Name })
	if err != nil {
		return false, err
	}
	types, err := lookup(ctx, uow.ProductTypes(), func(t catalog.ProductType) string { return t.Name })
	if err != nil {
		return false, err
	}

	for _, p := range products {
		brand, ok := brands[p.brand]
		if !ok {
			return false, fmt.Errorf("brand %q is missing", p.brand)
		}
		typ, ok := types[p.typ]
		if !ok {
			return false, fmt.Errorf("type %q is missing", p.typ)
		}
		uow.Products().Add(&catalog.Product{
			Name:           p.name,
			Description:    p.description,
			Price:          p.price,
			ProductBrandID: brand.ID,
			ProductTypeID:  typ.ID,
		})
	}
	return true, nil
}

// seedPhotos attaches the main photo of every seeded product still present.
func (s *Seeder) seedPhotos(ctx context.Context, uow domain.UnitOfWork) (bool, error) {
	empty, err := isEmpty(ctx, uow.Photos())
	if err != nil || !empty {
		return false, err
	}

	byName, err := lookup(ctx, uow.Products(), func(p catalog.Product) string { return p.Name })
	if err != nil {
		return false, err
	}
	staged := false
	for _, p := range products {
		product, ok := byName[p.name]
		if !ok {
			continue
		}
		uow.Photos().Add(&catalog.Photo{
			PictureURL: p.picture,
			FileName:   path.Base(p.picture),
			IsMain:     true,
			ProductID:  product.ID,
		})
		staged = true
	}
	return staged, nil
}

func lookup[T shared.Entity[int]](ctx context.Context, repo shared.Repository[T, int], name func(T) string) (map[string]T, error) {
	all, err := repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]T, len(all))
	for _, v := range all {
		out[name(v)] = v
	}
	return out, nil
}
