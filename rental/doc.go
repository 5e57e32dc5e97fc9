// Package rental provides the core of a movie rental business: the rental ledger,
// the inventory/customer guard, the identifier allocator, and the field validation rules,
// plus the customer, movie, and producer catalogs built on the same storage dependency.
//
// The package defines the record types (Customer, Movie, Producer, Rental), the derived
// rental fields (status and late fee), the list filter, and the sentinel errors shared by
// all storage implementations. Storage is injected through the Store interface; see the
// postgresengine and memengine sub-packages.
//
// Derived fields are never stored. A rental is Returned once its return date is set,
// otherwise Overdue when today is past the due date, otherwise Active. The late fee is
// max(0, daysLate) * 2.00, evaluated against the return date if set, else against today.
//
// Common usage pattern:
//
//	store, _ := postgresengine.NewStoreFromPGXPool(pool)
//	ledger := rental.NewLedger(store)
//
//	issued, err := ledger.Issue(ctx, customerID, movieID, 7)
//	if errors.Is(err, rental.ErrConflict) {
//		// movie is already on loan
//	}
//
//	settlement, err := ledger.Return(ctx, issued.ID)
//	fmt.Println(settlement.DaysLate, settlement.LateFee.StringFixed(2))
package rental
