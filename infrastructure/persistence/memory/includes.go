package memory

import (
	"fmt"

	"storefront/domain/catalog"
	"storefront/domain/identity"
	"storefront/domain/shared"
)

type productIncluder struct{ s *snapshot }

func (i productIncluder) Include(p *catalog.Product, relation string) error {
	switch relation {
	case catalog.IncludeProductBrand:
		if b, ok := tableOf[catalog.ProductBrand, int](i.s, catalog.KindProductBrand).get(p.ProductBrandID); ok {
			p.ProductBrand = &b
		}
	case catalog.IncludeProductType:
		if t, ok := tableOf[catalog.ProductType, int](i.s, catalog.KindProductType).get(p.ProductTypeID); ok {
			p.ProductType = &t
		}
	case catalog.IncludePhotos:
		p.Photos = tableOf[catalog.Photo, int](i.s, catalog.KindPhoto).where(func(ph catalog.Photo) bool {
			return ph.ProductID == p.ID
		})
	default:
		return unsupportedRelation(catalog.KindProduct, relation)
	}
	return nil
}

type userIncluder struct{ s *snapshot }

func (i userIncluder) Include(u *identity.AppUser, relation string) error {
	switch relation {
	case identity.IncludeRoles:
		roles := tableOf[identity.Role, string](i.s, identity.KindRole)
		u.Roles = nil
		for _, link := range tableOf[identity.UserRole, identity.UserRoleKey](i.s, identity.KindUserRole).where(func(ur identity.UserRole) bool {
			return ur.UserID == u.ID
		}) {
			if r, ok := roles.get(link.RoleID); ok {
				u.Roles = append(u.Roles, r)
			}
		}
	case identity.IncludeAddress:
		u.Address = nil
		if found := tableOf[identity.Address, int](i.s, identity.KindAddress).where(func(a identity.Address) bool {
			return a.AppUserID == u.ID
		}); len(found) > 0 {
			u.Address = &found[0]
		}
	default:
		return unsupportedRelation(identity.KindUser, relation)
	}
	return nil
}

// noRelations serves entities without navigations.
type noRelations[T any] struct{ kind shared.EntityKind }

func (n noRelations[T]) Include(_ *T, relation string) error {
	return unsupportedRelation(n.kind, relation)
}

func unsupportedRelation(kind shared.EntityKind, relation string) error {
	return fmt.Errorf("%s: unsupported relation %q", kind, relation)
}
