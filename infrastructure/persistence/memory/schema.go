package memory

import (
	"fmt"
	"strings"

	"storefront/domain/catalog"
	"storefront/domain/identity"
	"storefront/domain/shared"

	"github.com/google/uuid"
)

// newSnapshot registers one table per entity kind together with its constraints.
// The constraints mirror the foreign keys and unique indexes the SQL schema declares.
func newSnapshot() *snapshot {
	s := &snapshot{tables: make(map[shared.EntityKind]tabler)}

	s.tables[catalog.KindProductBrand] = newTable[catalog.ProductBrand, int](catalog.KindProductBrand, &rules[catalog.ProductBrand]{
		assignKey: func(b *catalog.ProductBrand, next func() int) {
			if b.ID == 0 {
				b.ID = next()
			}
		},
		onDelete: func(s *snapshot, b catalog.ProductBrand) error {
			return restrict[catalog.Product, int](s, catalog.KindProduct, func(p catalog.Product) bool { return p.ProductBrandID == b.ID })
		},
	})

	s.tables[catalog.KindProductType] = newTable[catalog.ProductType, int](catalog.KindProductType, &rules[catalog.ProductType]{
		assignKey: func(t *catalog.ProductType, next func() int) {
			if t.ID == 0 {
				t.ID = next()
			}
		},
		onDelete: func(s *snapshot, t catalog.ProductType) error {
			return restrict[catalog.Product, int](s, catalog.KindProduct, func(p catalog.Product) bool { return p.ProductTypeID == t.ID })
		},
	})

	s.tables[catalog.KindProduct] = newTable[catalog.Product, int](catalog.KindProduct, &rules[catalog.Product]{
		assignKey: func(p *catalog.Product, next func() int) {
			if p.ID == 0 {
				p.ID = next()
			}
		},
		strip: func(p *catalog.Product) {
			p.ProductBrand = nil
			p.ProductType = nil
			p.Photos = nil
		},
		check: func(s *snapshot, p catalog.Product) error {
			if !tableOf[catalog.ProductBrand, int](s, catalog.KindProductBrand).has(p.ProductBrandID) {
				return foreignKeyViolation(catalog.KindProduct, catalog.KindProductBrand, p.ProductBrandID)
			}
			if !tableOf[catalog.ProductType, int](s, catalog.KindProductType).has(p.ProductTypeID) {
				return foreignKeyViolation(catalog.KindProduct, catalog.KindProductType, p.ProductTypeID)
			}
			return nil
		},
		// photos cascade
		onDelete: func(s *snapshot, p catalog.Product) error {
			photos := tableOf[catalog.Photo, int](s, catalog.KindPhoto)
			for _, ph := range photos.where(func(ph catalog.Photo) bool { return ph.ProductID == p.ID }) {
				delete(photos.rows, ph.ID)
			}
			return nil
		},
	})

	s.tables[catalog.KindPhoto] = newTable[catalog.Photo, int](catalog.KindPhoto, &rules[catalog.Photo]{
		assignKey: func(ph *catalog.Photo, next func() int) {
			if ph.ID == 0 {
				ph.ID = next()
			}
		},
		check: func(s *snapshot, ph catalog.Photo) error {
			if !tableOf[catalog.Product, int](s, catalog.KindProduct).has(ph.ProductID) {
				return foreignKeyViolation(catalog.KindPhoto, catalog.KindProduct, ph.ProductID)
			}
			return nil
		},
	})

	s.tables[identity.KindRole] = newTable[identity.Role, string](identity.KindRole, &rules[identity.Role]{
		assignKey: func(r *identity.Role, _ func() int) {
			if r.ID == "" {
				r.ID = uuid.NewString()
			}
		},
		check: func(s *snapshot, r identity.Role) error {
			return unique[identity.Role, string](s, identity.KindRole, r, "name", func(o identity.Role) bool { return o.Name == r.Name })
		},
		onDelete: func(s *snapshot, r identity.Role) error {
			return restrict[identity.UserRole, identity.UserRoleKey](s, identity.KindUserRole, func(ur identity.UserRole) bool { return ur.RoleID == r.ID })
		},
	})

	s.tables[identity.KindUser] = newTable[identity.AppUser, string](identity.KindUser, &rules[identity.AppUser]{
		assignKey: func(u *identity.AppUser, _ func() int) {
			if u.ID == "" {
				u.ID = uuid.NewString()
			}
		},
		strip: func(u *identity.AppUser) {
			u.Address = nil
			u.Roles = nil
		},
		check: func(s *snapshot, u identity.AppUser) error {
			if err := unique[identity.AppUser, string](s, identity.KindUser, u, "email", func(o identity.AppUser) bool {
				return strings.EqualFold(o.Email, u.Email)
			}); err != nil {
				return err
			}
			return unique[identity.AppUser, string](s, identity.KindUser, u, "user_name", func(o identity.AppUser) bool {
				return strings.EqualFold(o.UserName, u.UserName)
			})
		},
		// address cascades, role links restrict
		onDelete: func(s *snapshot, u identity.AppUser) error {
			if err := restrict[identity.UserRole, identity.UserRoleKey](s, identity.KindUserRole, func(ur identity.UserRole) bool { return ur.UserID == u.ID }); err != nil {
				return err
			}
			addresses := tableOf[identity.Address, int](s, identity.KindAddress)
			for _, a := range addresses.where(func(a identity.Address) bool { return a.AppUserID == u.ID }) {
				delete(addresses.rows, a.ID)
			}
			return nil
		},
	})

	s.tables[identity.KindUserRole] = newTable[identity.UserRole, identity.UserRoleKey](identity.KindUserRole, &rules[identity.UserRole]{
		check: func(s *snapshot, ur identity.UserRole) error {
			if !tableOf[identity.AppUser, string](s, identity.KindUser).has(ur.UserID) {
				return foreignKeyViolation(identity.KindUserRole, identity.KindUser, ur.UserID)
			}
			if !tableOf[identity.Role, string](s, identity.KindRole).has(ur.RoleID) {
				return foreignKeyViolation(identity.KindUserRole, identity.KindRole, ur.RoleID)
			}
			return nil
		},
	})

	s.tables[identity.KindAddress] = newTable[identity.Address, int](identity.KindAddress, &rules[identity.Address]{
		assignKey: func(a *identity.Address, next func() int) {
			if a.ID == 0 {
				a.ID = next()
			}
		},
		check: func(s *snapshot, a identity.Address) error {
			if !tableOf[identity.AppUser, string](s, identity.KindUser).has(a.AppUserID) {
				return foreignKeyViolation(identity.KindAddress, identity.KindUser, a.AppUserID)
			}
			return unique[identity.Address, int](s, identity.KindAddress, a, "app_user_id", func(o identity.Address) bool {
				return o.AppUserID == a.AppUserID
			})
		},
	})

	return s
}

// restrict fails when any row of the referencing kind matches.
func restrict[T shared.Entity[K], K comparable](s *snapshot, referencing shared.EntityKind, references func(T) bool) error {
	if rows := tableOf[T, K](s, referencing).where(references); len(rows) > 0 {
		return shared.NewConflictError(string(referencing),
			fmt.Sprintf("still referenced by %d %s row(s)", len(rows), referencing))
	}
	return nil
}

// unique fails when another row of kind collides with entity on column.
func unique[T shared.Entity[K], K comparable](s *snapshot, kind shared.EntityKind, entity T, column string, collides func(T) bool) error {
	id := entity.GetID()
	for _, other := range tableOf[T, K](s, kind).where(collides) {
		if other.GetID() != id {
			return shared.NewConflictError(string(kind), fmt.Sprintf("duplicate %s %s", kind, column))
		}
	}
	return nil
}

func foreignKeyViolation(kind, parent shared.EntityKind, key any) error {
	return shared.NewConflictError(string(kind), fmt.Sprintf("%s references missing %s %v", kind, parent, key))
}
