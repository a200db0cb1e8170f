package replica

// Cloner allows types to provide their own duplication logic.
//
// The Clone method returns the copy that is written into the new storage.
// For simple value types with no pointers, slices, or maps, Clone can return
// the receiver value:
//
//	func (u User) Clone() User { return u }
//
// For types with reference fields, copy the referents as well so that the
// clone and the original do not share state:
//
//	func (o Order) Clone() Order {
//	    items := make([]Item, len(o.Items))
//	    copy(items, o.Items)
//	    return Order{ID: o.ID, Items: items}
//	}
type Cloner[T any] interface {
	Clone() T
}

// FallibleCloner is a Cloner whose duplication can fail.
// A non-nil error aborts the clone and is returned wrapped in a DuplicationError.
type FallibleCloner[T any] interface {
	Clone() (T, error)
}
