package rental

import (
	"context"
	"strings"
)

/***** Customers *****/

// Customers manages the customer records. Deletion is gated by the Guard.
type Customers struct {
	store     Store
	guard     Guard
	allocator Allocator
	settings
}

// NewCustomers creates a customer catalog on top of store.
func NewCustomers(store Store, options ...Option) (Customers, error) {
	if store == nil {
		return Customers{}, ErrNilStore
	}

	s, err := newSettings(options)
	if err != nil {
		return Customers{}, err
	}

	return Customers{store: store, guard: Guard{checker: store}, allocator: Allocator{ids: store}, settings: s}, nil
}

// Add validates input, assigns the next customer id and persists the customer.
func (c Customers) Add(ctx context.Context, input CustomerInput) (Customer, error) {
	customer, err := input.Validate()
	if err != nil {
		return Customer{}, err
	}

	meta, err := retry(ctx, c.retries, func(ctx context.Context) error {
		id, allocErr := c.allocator.NextID(ctx, KindCustomer)
		if allocErr != nil {
			return allocErr
		}

		customer.ID = id

		return c.store.InsertCustomer(ctx, customer)
	})

	c.logRetries(ctx, logActionAddCustomer, meta)

	if err != nil {
		c.logError(ctx, logActionAddCustomer, err)

		return Customer{}, err
	}

	c.logOperation(ctx, logActionAddCustomer, logAttrCustomerID, customer.ID)

	return customer, nil
}

// Update validates input and replaces the fields of customerID.
func (c Customers) Update(ctx context.Context, customerID int64, input CustomerInput) (Customer, error) {
	customer, err := input.Validate()
	if err != nil {
		return Customer{}, err
	}

	customer.ID = customerID

	if err = c.store.UpdateCustomer(ctx, customer); err != nil {
		c.logError(ctx, logActionUpdateCustomer, err, logAttrCustomerID, customerID)

		return Customer{}, err
	}

	c.logOperation(ctx, logActionUpdateCustomer, logAttrCustomerID, customerID)

	return customer, nil
}

// Delete removes customerID unless it has an open rental, which yields ErrConflict.
// Closed rentals of the customer are kept.
func (c Customers) Delete(ctx context.Context, customerID int64) error {
	if _, err := c.store.GetCustomer(ctx, customerID); err != nil {
		return err
	}

	if err := c.guard.requireCustomerDeletable(ctx, customerID); err != nil {
		return err
	}

	if err := c.store.DeleteCustomer(ctx, customerID); err != nil {
		c.logError(ctx, logActionDeleteCustomer, err, logAttrCustomerID, customerID)

		return err
	}

	c.logOperation(ctx, logActionDeleteCustomer, logAttrCustomerID, customerID)

	return nil
}

func (c Customers) Get(ctx context.Context, customerID int64) (Customer, error) {
	return c.store.GetCustomer(ctx, customerID)
}

// Search returns the customers matching filter ordered by id.
func (c Customers) Search(ctx context.Context, filter CustomerFilter) ([]Customer, error) {
	filter.NameContains = strings.TrimSpace(filter.NameContains)

	return c.store.FindCustomers(ctx, filter)
}

/***** Movies *****/

// Movies manages the movie catalog. Deletion is gated by the Guard.
type Movies struct {
	store     Store
	guard     Guard
	allocator Allocator
	settings
}

// NewMovies creates a movie catalog on top of store.
func NewMovies(store Store, options ...Option) (Movies, error) {
	if store == nil {
		return Movies{}, ErrNilStore
	}

	s, err := newSettings(options)
	if err != nil {
		return Movies{}, err
	}

	return Movies{store: store, guard: Guard{checker: store}, allocator: Allocator{ids: store}, settings: s}, nil
}

// Add validates input, checks that the producer exists, assigns the next movie id and persists the movie.
func (m Movies) Add(ctx context.Context, input MovieInput) (MovieView, error) {
	movie, err := input.Validate()
	if err != nil {
		return MovieView{}, err
	}

	producer, err := m.store.GetProducer(ctx, movie.ProducerID)
	if err != nil {
		return MovieView{}, err
	}

	meta, err := retry(ctx, m.retries, func(ctx context.Context) error {
		id, allocErr := m.allocator.NextID(ctx, KindMovie)
		if allocErr != nil {
			return allocErr
		}

		movie.ID = id

		return m.store.InsertMovie(ctx, movie)
	})

	m.logRetries(ctx, logActionAddMovie, meta)

	if err != nil {
		m.logError(ctx, logActionAddMovie, err, logAttrProducerID, movie.ProducerID)

		return MovieView{}, err
	}

	m.logOperation(ctx, logActionAddMovie, logAttrMovieID, movie.ID, logAttrProducerID, movie.ProducerID)

	return MovieView{Movie: movie, ProducerName: producer.Name}, nil
}

// Update validates input and replaces the fields of movieID.
func (m Movies) Update(ctx context.Context, movieID int64, input MovieInput) (MovieView, error) {
	movie, err := input.Validate()
	if err != nil {
		return MovieView{}, err
	}

	producer, err := m.store.GetProducer(ctx, movie.ProducerID)
	if err != nil {
		return MovieView{}, err
	}

	movie.ID = movieID

	if err = m.store.UpdateMovie(ctx, movie); err != nil {
		m.logError(ctx, logActionUpdateMovie, err, logAttrMovieID, movieID)

		return MovieView{}, err
	}

	m.logOperation(ctx, logActionUpdateMovie, logAttrMovieID, movieID)

	return MovieView{Movie: movie, ProducerName: producer.Name}, nil
}

// Delete removes movieID unless it is on loan, which yields ErrConflict.
func (m Movies) Delete(ctx context.Context, movieID int64) error {
	if _, err := m.store.GetMovie(ctx, movieID); err != nil {
		return err
	}

	if err := m.guard.requireMovieDeletable(ctx, movieID); err != nil {
		return err
	}

	if err := m.store.DeleteMovie(ctx, movieID); err != nil {
		m.logError(ctx, logActionDeleteMovie, err, logAttrMovieID, movieID)

		return err
	}

	m.logOperation(ctx, logActionDeleteMovie, logAttrMovieID, movieID)

	return nil
}

func (m Movies) Get(ctx context.Context, movieID int64) (MovieView, error) {
	return m.store.GetMovie(ctx, movieID)
}

// Search returns the movies matching filter ordered by id.
func (m Movies) Search(ctx context.Context, filter MovieFilter) ([]MovieView, error) {
	filter.TitleContains = strings.TrimSpace(filter.TitleContains)

	return m.store.FindMovies(ctx, filter)
}

// Available returns the movies without an open rental ordered by title.
func (m Movies) Available(ctx context.Context) ([]MovieView, error) {
	return m.store.AvailableMovies(ctx)
}

/***** Producers *****/

// Producers reads the producer reference data.
type Producers struct {
	store ProducerStore
}

func NewProducers(store ProducerStore) (Producers, error) {
	if store == nil {
		return Producers{}, ErrNilStore
	}

	return Producers{store: store}, nil
}

// List returns all producers ordered by name.
func (p Producers) List(ctx context.Context) ([]Producer, error) {
	return p.store.ListProducers(ctx)
}

func (p Producers) Get(ctx context.Context, producerID int64) (Producer, error) {
	return p.store.GetProducer(ctx, producerID)
}
