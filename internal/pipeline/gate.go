package pipeline

import "gorm.io/gorm"

// gate decides admit/skip per natural key. The check set is the union of
// store contents and keys already admitted in this run, so a key appearing
// twice in one file is skipped the second time even before anything is
// committed.
type gate[T Record] struct {
	db       *gorm.DB
	exists   func(db *gorm.DB, rec T) (bool, error)
	admitted map[string]struct{}
}

func newGate[T Record](db *gorm.DB, exists func(*gorm.DB, T) (bool, error)) *gate[T] {
	return &gate[T]{
		db:       db,
		exists:   exists,
		admitted: make(map[string]struct{}),
	}
}

// Admit returns true when the record's key is new to both the store and this
// run. Admitted keys are remembered immediately.
func (g *gate[T]) Admit(rec T) (bool, error) {
	key := rec.Key()
	if _, seen := g.admitted[key]; seen {
		return false, nil
	}
	found, err := g.exists(g.db, rec)
	if err != nil {
		return false, err
	}
	if found {
		return false, nil
	}
	g.admitted[key] = struct{}{}
	return true, nil
}
