package report

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/movierental-go/rental"
)

const (
	topMovies    = 10
	topCustomers = 10
	topProducers = 20
)

// ErrNilSource is returned when a nil data source is supplied.
var ErrNilSource = errors.New("report source must not be nil")

// RentalLister is satisfied by rental.Ledger.
type RentalLister interface {
	List(ctx context.Context, filter rental.RentalFilter) ([]rental.Listing, error)
}

// MovieSearcher is satisfied by rental.Movies.
type MovieSearcher interface {
	Search(ctx context.Context, filter rental.MovieFilter) ([]rental.MovieView, error)
}

// CustomerSearcher is satisfied by rental.Customers.
type CustomerSearcher interface {
	Search(ctx context.Context, filter rental.CustomerFilter) ([]rental.Customer, error)
}

// Generator loads the data for a report and aggregates it.
type Generator struct {
	rentals   RentalLister
	movies    MovieSearcher
	customers CustomerSearcher
	now       func() time.Time
}

// NewGenerator creates a Generator. now stamps the reports; nil means time.Now.
func NewGenerator(rentals RentalLister, movies MovieSearcher, customers CustomerSearcher, now func() time.Time) (Generator, error) {
	if rentals == nil || movies == nil || customers == nil {
		return Generator{}, ErrNilSource
	}

	if now == nil {
		now = time.Now
	}

	return Generator{rentals: rentals, movies: movies, customers: customers, now: now}, nil
}

/***** Movie report *****/

// MovieRow is one movie with its rental counts.
type MovieRow struct {
	ID              int64           `json:"id"`
	Title           string          `json:"title"`
	ReleaseYear     int             `json:"release_year"`
	Genre           rental.Genre    `json:"genre"`
	RentalPrice     decimal.Decimal `json:"rental_price"`
	Producer        string          `json:"producer"`
	TotalRentals    int             `json:"total_rentals"`
	CurrentlyRented bool            `json:"currently_rented"`
}

// GenreMovieStats summarizes the movies of one genre.
type GenreMovieStats struct {
	Genre        rental.Genre    `json:"genre"`
	Movies       int             `json:"movies"`
	Rentals      int             `json:"rentals"`
	AveragePrice decimal.Decimal `json:"average_price"`
}

// MovieReport lists movies by rental count, with genre statistics and the most rented titles.
type MovieReport struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Movies      []MovieRow        `json:"movies"`
	Genres      []GenreMovieStats `json:"genres"`
	TopRented   []MovieRow        `json:"top_rented"`
}

// Movies loads all movies and rentals and builds the movie report.
func (g Generator) Movies(ctx context.Context) (MovieReport, error) {
	movies, listings, err := g.loadMoviesAndListings(ctx)
	if err != nil {
		return MovieReport{}, err
	}

	return BuildMovieReport(movies, listings, g.now()), nil
}

// BuildMovieReport aggregates the movie report. Rentals of deleted movies are not counted.
func BuildMovieReport(movies []rental.MovieView, listings []rental.Listing, generatedAt time.Time) MovieReport {
	perMovie := countRentals(listings)

	rows := make([]MovieRow, 0, len(movies))
	for _, m := range movies {
		counts := perMovie[m.ID]
		rows = append(rows, MovieRow{
			ID:              m.ID,
			Title:           m.Title,
			ReleaseYear:     m.ReleaseYear,
			Genre:           m.Genre,
			RentalPrice:     m.RentalPrice,
			Producer:        m.ProducerName,
			TotalRentals:    counts.total,
			CurrentlyRented: counts.open > 0,
		})
	}

	slices.SortStableFunc(rows, func(a, b MovieRow) int {
		return cmp.Or(cmp.Compare(b.TotalRentals, a.TotalRentals), cmp.Compare(a.ID, b.ID))
	})

	genres := make([]GenreMovieStats, 0)
	for _, genre := range rental.Genres() {
		stats := GenreMovieStats{Genre: genre, AveragePrice: decimal.Zero}
		prices := make([]decimal.Decimal, 0)

		for _, row := range rows {
			if row.Genre != genre {
				continue
			}

			stats.Movies++
			stats.Rentals += row.TotalRentals
			prices = append(prices, row.RentalPrice)
		}

		if stats.Movies == 0 {
			continue
		}

		stats.AveragePrice = average(prices)
		genres = append(genres, stats)
	}

	return MovieReport{
		GeneratedAt: generatedAt,
		Movies:      rows,
		Genres:      genres,
		TopRented:   slices.Clone(rows[:min(topMovies, len(rows))]),
	}
}

/***** Customer report *****/

// CustomerRow is one customer with rental counts and fees accrued on open overdue rentals.
type CustomerRow struct {
	ID              int64           `json:"id"`
	Title           rental.Title    `json:"title"`
	FullName        string          `json:"full_name"`
	Phone           string          `json:"phone"`
	Email           string          `json:"email"`
	TotalRentals    int             `json:"total_rentals"`
	ActiveRentals   int             `json:"active_rentals"`
	PendingLateFees decimal.Decimal `json:"pending_late_fees"`
}

// CustomerReport lists customers by rental count with the top renters and those owing late fees.
type CustomerReport struct {
	GeneratedAt     time.Time     `json:"generated_at"`
	Customers       []CustomerRow `json:"customers"`
	TopCustomers    []CustomerRow `json:"top_customers"`
	WithPendingFees []CustomerRow `json:"with_pending_fees"`
}

// Customers loads all customers and rentals and builds the customer report.
func (g Generator) Customers(ctx context.Context) (CustomerReport, error) {
	customers, err := g.customers.Search(ctx, rental.CustomerFilter{})
	if err != nil {
		return CustomerReport{}, err
	}

	listings, err := g.rentals.List(ctx, rental.BuildRentalFilter().Finalize())
	if err != nil {
		return CustomerReport{}, err
	}

	return BuildCustomerReport(customers, listings, g.now()), nil
}

// BuildCustomerReport aggregates the customer report.
// Pending late fees are the fees of open overdue rentals as of the listings' assessment date.
func BuildCustomerReport(customers []rental.Customer, listings []rental.Listing, generatedAt time.Time) CustomerReport {
	type tally struct {
		total, active int
		pending       decimal.Decimal
	}

	perCustomer := make(map[int64]tally)
	for _, l := range listings {
		t := perCustomer[l.CustomerID]
		t.total++

		if l.IsOpen() {
			t.active++
		}

		if l.Status == rental.StatusOverdue {
			t.pending = t.pending.Add(l.LateFee)
		}

		perCustomer[l.CustomerID] = t
	}

	rows := make([]CustomerRow, 0, len(customers))
	for _, c := range customers {
		t := perCustomer[c.ID]
		rows = append(rows, CustomerRow{
			ID:              c.ID,
			Title:           c.Title,
			FullName:        c.FullName(),
			Phone:           c.Phone,
			Email:           c.Email,
			TotalRentals:    t.total,
			ActiveRentals:   t.active,
			PendingLateFees: t.pending,
		})
	}

	slices.SortStableFunc(rows, func(a, b CustomerRow) int {
		return cmp.Or(cmp.Compare(b.TotalRentals, a.TotalRentals), cmp.Compare(a.ID, b.ID))
	})

	withFees := make([]CustomerRow, 0)
	for _, row := range rows {
		if row.PendingLateFees.IsPositive() {
			withFees = append(withFees, row)
		}
	}

	slices.SortStableFunc(withFees, func(a, b CustomerRow) int {
		return cmp.Or(b.PendingLateFees.Cmp(a.PendingLateFees), cmp.Compare(a.ID, b.ID))
	})

	return CustomerReport{
		GeneratedAt:     generatedAt,
		Customers:       rows,
		TopCustomers:    slices.Clone(rows[:min(topCustomers, len(rows))]),
		WithPendingFees: withFees,
	}
}

/***** Rental report *****/

// RentalRow is one open rental with its days overdue and accrued late fee.
type RentalRow struct {
	RentalID      int64           `json:"rental_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	CustomerEmail string          `json:"customer_email"`
	MovieTitle    string          `json:"movie_title"`
	Genre         rental.Genre    `json:"genre"`
	IssueDate     time.Time       `json:"issue_date"`
	DueDate       time.Time       `json:"due_date"`
	DaysOverdue   int             `json:"days_overdue"`
	LateFee       decimal.Decimal `json:"late_fee"`
}

// GenreRentalStats counts the rentals of one genre.
type GenreRentalStats struct {
	Genre        rental.Genre    `json:"genre"`
	Total        int             `json:"total"`
	Active       int             `json:"active"`
	Completed    int             `json:"completed"`
	AveragePrice decimal.Decimal `json:"average_price"`
}

// ProducerStats counts the rentals of one producer's movies.
// Revenue is the sum of the rental price over those rentals.
type ProducerStats struct {
	Producer     string          `json:"producer"`
	TotalRentals int             `json:"total_rentals"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// RentalReport lists open and overdue rentals with genre and producer statistics.
type RentalReport struct {
	GeneratedAt     time.Time          `json:"generated_at"`
	CurrentlyRented []RentalRow        `json:"currently_rented"`
	Overdue         []RentalRow        `json:"overdue"`
	Genres          []GenreRentalStats `json:"genres"`
	TopProducers    []ProducerStats    `json:"top_producers"`
}

// Rentals loads all movies and rentals and builds the rental report.
func (g Generator) Rentals(ctx context.Context) (RentalReport, error) {
	movies, listings, err := g.loadMoviesAndListings(ctx)
	if err != nil {
		return RentalReport{}, err
	}

	return BuildRentalReport(movies, listings, g.now()), nil
}

// BuildRentalReport aggregates the rental report.
func BuildRentalReport(movies []rental.MovieView, listings []rental.Listing, generatedAt time.Time) RentalReport {
	current := make([]RentalRow, 0)
	overdue := make([]RentalRow, 0)

	for _, l := range listings {
		if !l.IsOpen() {
			continue
		}

		row := RentalRow{
			RentalID:      l.ID,
			CustomerName:  l.CustomerName,
			CustomerPhone: l.CustomerPhone,
			CustomerEmail: l.CustomerEmail,
			MovieTitle:    l.MovieTitle,
			Genre:         l.MovieGenre,
			IssueDate:     l.IssueDate,
			DueDate:       l.DueDate,
			DaysOverdue:   l.DaysLate,
			LateFee:       l.LateFee,
		}

		current = append(current, row)
		if l.Status == rental.StatusOverdue {
			overdue = append(overdue, row)
		}
	}

	slices.SortStableFunc(current, func(a, b RentalRow) int {
		return cmp.Or(a.DueDate.Compare(b.DueDate), cmp.Compare(a.RentalID, b.RentalID))
	})

	slices.SortStableFunc(overdue, func(a, b RentalRow) int {
		return cmp.Or(cmp.Compare(b.DaysOverdue, a.DaysOverdue), cmp.Compare(a.RentalID, b.RentalID))
	})

	return RentalReport{
		GeneratedAt:     generatedAt,
		CurrentlyRented: current,
		Overdue:         overdue,
		Genres:          genreRentalStats(movies, listings),
		TopProducers:    producerStats(movies, listings),
	}
}

func genreRentalStats(movies []rental.MovieView, listings []rental.Listing) []GenreRentalStats {
	perMovie := countRentals(listings)

	stats := make([]GenreRentalStats, 0)
	for _, genre := range rental.Genres() {
		s := GenreRentalStats{Genre: genre, AveragePrice: decimal.Zero}
		prices := make([]decimal.Decimal, 0)

		for _, m := range movies {
			if m.Genre != genre {
				continue
			}

			counts := perMovie[m.ID]
			s.Total += counts.total
			s.Active += counts.open
			s.Completed += counts.total - counts.open
			prices = append(prices, m.RentalPrice)
		}

		if len(prices) == 0 {
			continue
		}

		s.AveragePrice = average(prices)
		stats = append(stats, s)
	}

	slices.SortStableFunc(stats, func(a, b GenreRentalStats) int {
		return cmp.Compare(b.Total, a.Total)
	})

	return stats
}

func producerStats(movies []rental.MovieView, listings []rental.Listing) []ProducerStats {
	type key struct {
		id   int64
		name string
	}

	byMovie := make(map[int64]rental.MovieView, len(movies))
	perProducer := make(map[key]*ProducerStats)
	order := make([]key, 0)

	for _, m := range movies {
		byMovie[m.ID] = m

		k := key{id: m.ProducerID, name: m.ProducerName}
		if m.ProducerName == "" {
			continue
		}

		if _, seen := perProducer[k]; !seen {
			perProducer[k] = &ProducerStats{Producer: m.ProducerName, Revenue: decimal.Zero}
			order = append(order, k)
		}
	}

	for _, l := range listings {
		m, ok := byMovie[l.MovieID]
		if !ok || m.ProducerName == "" {
			continue
		}

		s := perProducer[key{id: m.ProducerID, name: m.ProducerName}]
		s.TotalRentals++
		s.Revenue = s.Revenue.Add(m.RentalPrice)
	}

	stats := make([]ProducerStats, 0, len(order))
	for _, k := range order {
		stats = append(stats, *perProducer[k])
	}

	slices.SortStableFunc(stats, func(a, b ProducerStats) int {
		return cmp.Or(cmp.Compare(b.TotalRentals, a.TotalRentals), cmp.Compare(a.Producer, b.Producer))
	})

	return stats[:min(topProducers, len(stats))]
}

/***** Helpers *****/

type rentalCounts struct {
	total, open int
}

func countRentals(listings []rental.Listing) map[int64]rentalCounts {
	perMovie := make(map[int64]rentalCounts)

	for _, l := range listings {
		c := perMovie[l.MovieID]
		c.total++

		if l.IsOpen() {
			c.open++
		}

		perMovie[l.MovieID] = c
	}

	return perMovie
}

func average(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}

	return decimal.Sum(values[0], values[1:]...).Div(decimal.NewFromInt(int64(len(values)))).Round(2)
}

func (g Generator) loadMoviesAndListings(ctx context.Context) ([]rental.MovieView, []rental.Listing, error) {
	movies, err := g.movies.Search(ctx, rental.MovieFilter{})
	if err != nil {
		return nil, nil, err
	}

	listings, err := g.rentals.List(ctx, rental.BuildRentalFilter().Finalize())
	if err != nil {
		return nil, nil, err
	}

	return movies, listings, nil
}
