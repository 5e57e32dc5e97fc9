package memengine

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/AntonStoeckl/movierental-go/rental"
)

var _ rental.Store = (*Store)(nil)

// Store is an in-memory rental.Store. A single mutex serializes every operation,
// so each mutation is atomic with respect to the exclusivity rule.
type Store struct {
	mu        sync.Mutex
	customers map[int64]rental.Customer
	movies    map[int64]rental.Movie
	producers map[int64]rental.Producer
	rentals   map[int64]rental.Rental
	failWith  error
}

// NewStore creates an empty Store seeded with producers.
func NewStore(producers ...rental.Producer) *Store {
	s := &Store{
		customers: make(map[int64]rental.Customer),
		movies:    make(map[int64]rental.Movie),
		producers: make(map[int64]rental.Producer),
		rentals:   make(map[int64]rental.Rental),
	}

	for _, p := range producers {
		s.producers[p.ID] = p
	}

	return s
}

// FailWith makes every following operation fail with err joined to rental.ErrStorage. Nil restores normal operation.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failWith = err
}

func (s *Store) failure() error {
	if s.failWith == nil {
		return nil
	}

	return errors.Join(rental.ErrStorage, s.failWith)
}

func (s *Store) MaxID(_ context.Context, kind rental.EntityKind) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure(); err != nil {
		return 0, err
	}

	switch kind {
	case rental.KindCustomer:
		return maxKey(s.customers), nil
	case rental.KindMovie:
		return maxKey(s.movies), nil
	case rental.KindProducer:
		return maxKey(s.producers), nil
	case rental.KindRental:
		return maxKey(s.rentals), nil
	default:
		return 0, errors.Join(rental.ErrStorage, errors.New("unknown entity kind: "+string(kind)))
	}
}

/***** Customers *****/

func (s *Store) InsertCustomer(_ context.Context, customer rental.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure(); err != nil {
		return err
	}

	if _, taken := s.customers[customer.ID]; taken {
		return rental.ErrConcurrencyConflict
	}

	s.customers[customer.ID] = customer

	return nil
}

func (s *Store) UpdateCustomer(_ context.Context, customer rental.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure(); err != nil {
		return err
	}

	if _, ok := s.customers[customer.ID]; !ok {
		return rental.NotFoundError(rental.KindCustomer, customer.ID)
	}

	s.customers[customer.ID] = customer

	return nil
}

func (s *Store) DeleteCustomer(_ context.Context, customerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure(); err != nil {
		return err
	}

	if _, ok := s.customers[customerID]; !ok {
		return rental.NotFoundError(rental.KindCustomer, customerID)
	}

	if s.hasOpenRental(func(r rental.Rental) bool { return r.CustomerID == customerID }) {
		return rental.ConflictError("customer %d has open rentals", customerID)
	}

	delete(s.customers, customerID)

	return nil
}

func (s *Store) GetCustomer(_ context.Context, customerID int64) (rental.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure(); err != nil {
		return rental.Customer{}, err
	}

	customer, ok := s.customers[customerID]
	if !ok {
		return rental.Customer{}, rental.NotFoundError(rental.KindCustomer, customerID)
	}

	return customer, nil
}

func (s *Store) FindCustomers(_ context.Context, filter rental.CustomerFilter) ([]rental.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure(); err != nil {
		return nil, err
	}

	found := make([]rental.Customer, 0)
	for _, c := range s.customers {
		if filter.ID != 0 && c.ID != filter.ID {
			continue
		}

		if filter.NameContains != "" &&
			!containsFold(c.FirstName, filter.NameContains) &&
			!containsFold(c.LastName, filter.NameContains) {
			continue
		}

		found = append(found, c)
	}

	slices.SortFunc(found, func(a, b rental.Customer) int { return cmp.Compare(a.ID, b.ID) })

	return found, nil
}

/***** Movies *****/

func (s *Store) InsertMovie(_ context.Context, movie rental.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure(); err != nil {
		return err
	}

	if _, taken := s.movies[movie.ID]; taken {
		return rental.ErrConcurrencyConflict
	}

	s.movies[movie.ID] = movie

	return nil
}

func (s *Store) UpdateMovie(_ context.Context, movie rental.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure(); err != nil {
		return err
	}

	if _, ok := s.movies[movie.ID]; !ok {
		return rental.NotFoundError(rental.KindMovie, movie.ID)
	}

	s.movies[movie.ID] = movie

	return nil
}

func (s *Store) DeleteMovie(_ context.Context, movieID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure(); err != nil {
		return err
	}

	if _, ok := s.movies[movieID]; !ok {
		return rental.NotFoundError(rental.KindMovie, movieID)
	}

	if s.hasOpenRental(func(r rental.Rental) bool { return r.MovieID == movieID }) {
		return rental.ConflictError("movie %d is on loan", movieID)
	}

	delete(s.movies, movieID)

	return nil
}

func (s *Store) GetMovie(_ context.Context, movieID int64) (rental.MovieView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure(); err != nil {
		return rental.MovieView{}, err
	}

	movie, ok := s.movies[movieID]
	if !ok {
		return rental.MovieView{}, rental.NotFoundError(rental.KindMovie, movieID)
	}

	return s.view(movie), nil
}

func (s *Store) FindMovies(_ context.Context, filter rental.MovieFilter) ([]rental.MovieView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure(); err != nil {
		return nil, err
	}

	found := make([]rental.MovieView, 0)
	for _, m := range s.movies {
		if filter.TitleContains != "" && !containsFold(m.Title, filter.TitleContains) {
			continue
		}

		if filter.Genre != "" && m.Genre != filter.Genre {
			continue
		}

		if filter.Year != 0 && m.ReleaseYear != filter.Year {
			continue
		}

		if filter.PriceMin != nil && m.RentalPrice.LessThan(*filter.PriceMin) {
			continue
		}

		if filter.PriceMax != nil && m.RentalPrice.GreaterThan(*filter.PriceMax) {
			continue
		}

		found = append(found, s.view(m))
	}

	slices.SortFunc(found, func(a, b rental.MovieView) int { return cmp.Compare(a.ID, b.ID) })

	return found, nil
}

func (s *Store) AvailableMovies(_ context.Context) ([]rental.MovieView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure(); err != nil {
		return nil, err
	}

	found := make([]rental.MovieView, 0)
	for _, m := range s.movies {
		if s.hasOpenRental(func(r rental.Rental) bool { return r.MovieID == m.ID }) {
			continue
		}

		found = append(found, s.view(m))
	}

	slices.SortFunc(found, func(a, b rental.MovieView) int {
		return cmp.Or(cmp.Compare(a.Title, b.Title), cmp.Compare(a.ID, b.ID))
	})

	return found, nil
}

func (s *Store) view(movie rental.Movie) rental.MovieView {
	return rental.MovieView{Movie: movie, ProducerName: s.producers[movie.ProducerID].Name}
}

/***** Producers *****/

func (s *Store) ListProducers(_ context.Context) ([]rental.Producer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure(); err != nil {
		return nil, err
	}

	found := make([]rental.Producer, 0, len(s.producers))
	for _, p := range s.producers {
		found = append(found, p)
	}

	slices.SortFunc(found, func(a, b rental.Producer) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})

	return found, nil
}

func (s *Store) GetProducer(_ context.Context, producerID int64) (rental.Producer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure(); err != nil {
		return rental.Producer{}, err
	}

	producer, ok := s.producers[producerID]
	if !ok {
		return rental.Producer{}, rental.NotFoundError(rental.KindProducer, producerID)
	}

	return producer, nil
}

/***** Rentals *****/

func (s *Store) InsertRental(_ context.Context, r rental.Rental) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure(); err != nil {
		return err
	}

	if _, taken := s.rentals[r.ID]; taken {
		return rental.ErrConcurrencyConflict
	}

	if s.hasOpenRental(func(open rental.Rental) bool { return open.MovieID == r.MovieID }) {
		return rental.ConflictError("movie %d is already on loan", r.MovieID)
	}

	r.ReturnDate = nil
	s.rentals[r.ID] = r

	return nil
}

func (s *Store) GetRental(_ context.Context, rentalID int64) (rental.Rental, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure(); err != nil {
		return rental.Rental{}, err
	}

	r, ok := s.rentals[rentalID]
	if !ok {
		return rental.Rental{}, rental.NotFoundError(rental.KindRental, rentalID)
	}

	return copyRental(r), nil
}

func (s *Store) CloseRental(_ context.Context, rentalID int64, returnDate time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure(); err != nil {
		return err
	}

	r, ok := s.rentals[rentalID]
	if !ok {
		return rental.NotFoundError(rental.KindRental, rentalID)
	}

	if !r.IsOpen() {
		return errors.Join(rental.ErrAlreadyReturned, errors.New("rental is closed"))
	}

	d := rental.CalendarDate(returnDate)
	r.ReturnDate = &d
	s.rentals[rentalID] = r

	return nil
}

func (s *Store) HasOpenRentalForMovie(_ context.Context, movieID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure(); err != nil {
		return false, err
	}

	return s.hasOpenRental(func(r rental.Rental) bool { return r.MovieID == movieID }), nil
}

func (s *Store) HasOpenRentalForCustomer(_ context.Context, customerID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure(); err != nil {
		return false, err
	}

	return s.hasOpenRental(func(r rental.Rental) bool { return r.CustomerID == customerID }), nil
}

func (s *Store) FindRentals(
	_ context.Context,
	filter rental.RentalFilter,
	today time.Time,
) ([]rental.RentalRecord, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure(); err != nil {
		return nil, err
	}

	found := make([]rental.RentalRecord, 0)
	for _, r := range s.rentals {
		record := s.record(r)
		if filter.Matches(record, today) {
			found = append(found, record)
		}
	}

	slices.SortFunc(found, func(a, b rental.RentalRecord) int {
		c := cmp.Or(a.IssueDate.Compare(b.IssueDate), cmp.Compare(a.ID, b.ID))
		if filter.Order() == rental.NewestFirst {
			return -c
		}

		return c
	})

	return found, nil
}

func (s *Store) record(r rental.Rental) rental.RentalRecord {
	record := rental.RentalRecord{Rental: copyRental(r)}

	if c, ok := s.customers[r.CustomerID]; ok {
		record.CustomerName = c.FullName()
		record.CustomerPhone = c.Phone
		record.CustomerEmail = c.Email
	}

	if m, ok := s.movies[r.MovieID]; ok {
		record.MovieTitle = m.Title
		record.MovieGenre = m.Genre
		record.RentalPrice = m.RentalPrice
	}

	return record
}

func (s *Store) hasOpenRental(match func(rental.Rental) bool) bool {
	for _, r := range s.rentals {
		if r.IsOpen() && match(r) {
			return true
		}
	}

	return false
}

func copyRental(r rental.Rental) rental.Rental {
	if r.ReturnDate != nil {
		d := *r.ReturnDate
		r.ReturnDate = &d
	}

	return r
}

func maxKey[V any](m map[int64]V) int64 {
	var current int64
	for id := range m {
		current = max(current, id)
	}

	return current
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
