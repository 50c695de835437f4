/*
Package memory 是进程内的存储后端，用于本地开发与测试。

Store 为每种实体维护一张表。读操作在读锁下访问当前快照；工作单元提交时先克隆快照，
在副本上依次应用暂存的写操作，全部成功后才替换当前快照，失败则整体丢弃。
*/
package memory

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"sync"

	"storefront/domain/identity"
	"storefront/domain/shared"
)

// Store holds the committed state shared by all units of work.
type Store struct {
	mu   sync.RWMutex
	snap *snapshot
}

// NewStore creates an empty store with every table registered.
func NewStore() *Store {
	return &Store{snap: newSnapshot()}
}

// read runs fn against the committed snapshot.
func (s *Store) read(fn func(snap *snapshot) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.snap)
}

// write applies fn to a copy of the committed snapshot and publishes the copy only when fn succeeds.
func (s *Store) write(fn func(next *snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snap.clone()
	if err := fn(next); err != nil {
		return err
	}
	s.snap = next
	return nil
}

type tabler interface {
	clone() tabler
}

type snapshot struct {
	tables map[shared.EntityKind]tabler
}

func (s *snapshot) clone() *snapshot {
	cp := &snapshot{tables: make(map[shared.EntityKind]tabler, len(s.tables))}
	for kind, t := range s.tables {
		cp.tables[kind] = t.clone()
	}
	return cp
}

// tableOf returns the table registered for kind. A missing or mistyped table is a programming error.
func tableOf[T shared.Entity[K], K comparable](s *snapshot, kind shared.EntityKind) *table[T, K] {
	t, ok := s.tables[kind]
	if !ok {
		panic(fmt.Sprintf("memory: no table registered for %s", kind))
	}
	return t.(*table[T, K])
}

type row[T any] struct {
	value T
	seq   uint64
}

// rules describe the integrity constraints of one table.
type rules[T any] struct {
	// assignKey fills in a generated key when the entity has none.
	assignKey func(entity *T, next func() int)
	// strip clears relation fields; only columns are stored.
	strip func(entity *T)
	// check runs after an insert or update.
	check func(s *snapshot, entity T) error
	// onDelete enforces restrict and cascade rules before the row is removed.
	onDelete func(s *snapshot, entity T) error
}

type table[T shared.Entity[K], K comparable] struct {
	kind   shared.EntityKind
	rows   map[K]row[T]
	seq    uint64
	nextID int
	rules  *rules[T]
}

func newTable[T shared.Entity[K], K comparable](kind shared.EntityKind, r *rules[T]) *table[T, K] {
	return &table[T, K]{kind: kind, rows: make(map[K]row[T]), rules: r}
}

func (t *table[T, K]) clone() tabler {
	cp := *t
	cp.rows = maps.Clone(t.rows)
	return &cp
}

func (t *table[T, K]) get(id K) (T, bool) {
	r, ok := t.rows[id]
	return r.value, ok
}

func (t *table[T, K]) has(id K) bool {
	_, ok := t.rows[id]
	return ok
}

// all returns the rows in insertion order.
func (t *table[T, K]) all() []T {
	rows := slices.SortedFunc(maps.Values(t.rows), func(a, b row[T]) int {
		return cmp.Compare(a.seq, b.seq)
	})
	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = r.value
	}
	return out
}

// byKey returns the rows in primary key order, the order the SQL backend uses to break ties.
func (t *table[T, K]) byKey() []T {
	out := t.all()
	slices.SortStableFunc(out, func(a, b T) int {
		return compareKeys(a.GetID(), b.GetID())
	})
	return out
}

func compareKeys[K comparable](a, b K) int {
	switch x := any(a).(type) {
	case int:
		return cmp.Compare(x, any(b).(int))
	case string:
		return cmp.Compare(x, any(b).(string))
	case identity.UserRoleKey:
		y := any(b).(identity.UserRoleKey)
		return cmp.Or(cmp.Compare(x.UserID, y.UserID), cmp.Compare(x.RoleID, y.RoleID))
	default:
		return 0
	}
}

// where returns the rows satisfying match in insertion order.
func (t *table[T, K]) where(match func(T) bool) []T {
	var out []T
	for _, v := range t.all() {
		if match(v) {
			out = append(out, v)
		}
	}
	return out
}

func (t *table[T, K]) allocID() int {
	t.nextID++
	return t.nextID
}

// observe keeps the id counter ahead of explicitly supplied integer keys.
func (t *table[T, K]) observe(id K) {
	if n, ok := any(id).(int); ok && n > t.nextID {
		t.nextID = n
	}
}

func (t *table[T, K]) insert(s *snapshot, entity *T) (int64, error) {
	if t.rules.assignKey != nil {
		t.rules.assignKey(entity, t.allocID)
	}
	value := *entity
	if t.rules.strip != nil {
		t.rules.strip(&value)
	}
	id := value.GetID()
	if t.has(id) {
		return 0, shared.NewConflictError(string(t.kind), fmt.Sprintf("%s %v already exists", t.kind, id))
	}
	if t.rules.check != nil {
		if err := t.rules.check(s, value); err != nil {
			return 0, err
		}
	}
	t.observe(id)
	t.seq++
	t.rows[id] = row[T]{value: value, seq: t.seq}
	return 1, nil
}

// update replaces an existing row. A missing row affects nothing.
func (t *table[T, K]) update(s *snapshot, entity *T) (int64, error) {
	value := *entity
	if t.rules.strip != nil {
		t.rules.strip(&value)
	}
	id := value.GetID()
	current, ok := t.rows[id]
	if !ok {
		return 0, nil
	}
	if t.rules.check != nil {
		if err := t.rules.check(s, value); err != nil {
			return 0, err
		}
	}
	t.rows[id] = row[T]{value: value, seq: current.seq}
	return 1, nil
}

// remove deletes the row with the entity's key. A missing row affects nothing.
func (t *table[T, K]) remove(s *snapshot, entity *T) (int64, error) {
	id := (*entity).GetID()
	current, ok := t.rows[id]
	if !ok {
		return 0, nil
	}
	if t.rules.onDelete != nil {
		if err := t.rules.onDelete(s, current.value); err != nil {
			return 0, err
		}
	}
	delete(t.rows, id)
	return 1, nil
}
