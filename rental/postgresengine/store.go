package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/movierental-go/rental"
	"github.com/AntonStoeckl/movierental-go/rental/postgresengine/internal/adapters"
)

const (
	dialectPostgres  = "postgres"
	dateLayout       = "2006-01-02"
	aliasRental      = "r"
	aliasCustomer    = "c"
	aliasMovie       = "m"
	aliasProducer    = "p"
	aliasOpen        = "o"
	aliasMaxID       = "MaxID"
	aliasIsOpen      = "IsOpen"
	aliasProdName    = "ProducerName"
	aliasCustName    = "CustomerName"
	aliasCustPhone   = "CustomerPhone"
	aliasCustEmail   = "CustomerEmail"
	aliasMovieTitle  = "MovieTitle"
	aliasMovieGenre  = "MovieGenre"
	aliasMoviePrice  = "MovieRentalPrice"
	castInteger      = "?::integer"
	castDate         = "?::date"
	castNumeric      = "?::numeric"
	likeEscapeTokens = `\%_`
)

// ErrUnknownEntityKind is returned by MaxID for a kind without a table.
var ErrUnknownEntityKind = errors.New("unknown entity kind")

var _ rental.Store = Store{}

// Store implements rental.Store on PostgreSQL.
//
// Statements are rendered by goqu as prepared statements, so every user supplied value is bound
// as a parameter. Mutations that must respect the open-rental rule carry the rule in their WHERE clause:
// the outcome is decided by the database at statement time, not by an earlier read.
type Store struct {
	storage Storage
	builder goqu.DialectWrapper
}

// statement is any goqu dataset that renders to SQL with bound parameters.
type statement interface {
	ToSQL() (string, []any, error)
}

// NewStoreFromPGXPool creates a new Store using a pgx Pool with optional configuration.
func NewStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapter(db), options)
}

// NewStoreFromPGXPoolWithReplica creates a new Store that sends queries to the replica pool
// and every statement that writes to the primary.
// A MaxID read that lags behind the primary ends in an identifier collision, which the ledger retries.
func NewStoreFromPGXPoolWithReplica(primary *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (Store, error) {
	if primary == nil || replica == nil {
		return Store{}, ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapterWithReplica(primary, replica), options)
}

// NewStoreFromSQLDB creates a new Store using a sql.DB with optional configuration.
func NewStoreFromSQLDB(db *sql.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLAdapter(db), options)
}

// NewStoreFromSQLX creates a new Store using a sqlx.DB with optional configuration.
func NewStoreFromSQLX(db *sqlx.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLXAdapter(db), options)
}

func newStore(db adapters.DBAdapter, options []Option) (Store, error) {
	s := Store{
		storage: Storage{db: db},
		builder: goqu.Dialect(dialectPostgres),
	}

	for _, option := range options {
		if err := option(&s); err != nil {
			return Store{}, err
		}
	}

	return s, nil
}

// Storage exposes the underlying query interface, e.g. for reports that need ad-hoc reads.
func (s Store) Storage() Storage {
	return s.storage
}

/***** Identifiers *****/

func (s Store) MaxID(ctx context.Context, kind rental.EntityKind) (int64, error) {
	table, column, err := keyOf(kind)
	if err != nil {
		return 0, errors.Join(rental.ErrStorage, err)
	}

	stmt := s.builder.
		From(table).
		Prepared(true).
		Select(goqu.COALESCE(goqu.MAX(column), 0).As(aliasMaxID))

	row, _, err := s.queryOne(ctx, stmt)
	if err != nil {
		return 0, err
	}

	maxID, err := row.Int64(aliasMaxID)
	if err != nil {
		return 0, errors.Join(rental.ErrStorage, err)
	}

	return maxID, nil
}

func keyOf(kind rental.EntityKind) (table string, column string, err error) {
	switch kind {
	case rental.KindCustomer:
		return tableCustomer, colCustomerID, nil
	case rental.KindMovie:
		return tableMovies, colMovieID, nil
	case rental.KindProducer:
		return tableProducers, colProducerID, nil
	case rental.KindRental:
		return tableIssueTran, colIssueID, nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnknownEntityKind, kind)
	}
}

/***** Customers *****/

func (s Store) InsertCustomer(ctx context.Context, customer rental.Customer) error {
	stmt := s.builder.
		Insert(tableCustomer).
		Prepared(true).
		Rows(goqu.Record{
			colCustomerID: customer.ID,
			colTitle:      string(customer.Title),
			colFirstName:  customer.FirstName,
			colLastName:   customer.LastName,
			colPhone:      customer.Phone,
			colEmail:      customer.Email,
		})

	_, err := s.exec(ctx, stmt, rental.KindCustomer, customer.ID)

	return err
}

func (s Store) UpdateCustomer(ctx context.Context, customer rental.Customer) error {
	stmt := s.builder.
		Update(tableCustomer).
		Prepared(true).
		Set(goqu.Record{
			colTitle:     string(customer.Title),
			colFirstName: customer.FirstName,
			colLastName:  customer.LastName,
			colPhone:     customer.Phone,
			colEmail:     customer.Email,
		}).
		Where(goqu.C(colCustomerID).Eq(customer.ID))

	affected, err := s.exec(ctx, stmt, rental.KindCustomer, customer.ID)
	if err != nil {
		return err
	}

	if affected == 0 {
		return rental.NotFoundError(rental.KindCustomer, customer.ID)
	}

	return nil
}

func (s Store) DeleteCustomer(ctx context.Context, customerID int64) error {
	stmt := s.builder.
		Delete(tableCustomer).
		Prepared(true).
		Where(
			goqu.C(colCustomerID).Eq(customerID),
			goqu.L("NOT EXISTS ?", s.openRentals(goqu.I(aliasOpen+"."+colCustomerID).Eq(customerID))),
		)

	affected, err := s.exec(ctx, stmt, rental.KindCustomer, customerID)
	if err != nil {
		return err
	}

	if affected > 0 {
		return nil
	}

	if _, err = s.GetCustomer(ctx, customerID); err != nil {
		return err
	}

	s.storage.logOperation(ctx, logMsgMutationBlocked, logAttrEntity, rental.KindCustomer, logAttrID, customerID)

	return rental.ConflictError("customer %d has open rentals", customerID)
}

func (s Store) GetCustomer(ctx context.Context, customerID int64) (rental.Customer, error) {
	stmt := s.customerSelect().Where(goqu.C(colCustomerID).Eq(customerID))

	row, found, err := s.queryOne(ctx, stmt)
	if err != nil {
		return rental.Customer{}, err
	}

	if !found {
		return rental.Customer{}, rental.NotFoundError(rental.KindCustomer, customerID)
	}

	return customerFromRow(row)
}

func (s Store) FindCustomers(ctx context.Context, filter rental.CustomerFilter) ([]rental.Customer, error) {
	stmt := s.customerSelect().Order(goqu.C(colCustomerID).Asc())

	if filter.NameContains != "" {
		pattern := likePattern(filter.NameContains)
		stmt = stmt.Where(goqu.Or(
			goqu.C(colFirstName).ILike(pattern),
			goqu.C(colLastName).ILike(pattern),
		))
	}

	if filter.ID != 0 {
		stmt = stmt.Where(goqu.C(colCustomerID).Eq(filter.ID))
	}

	rows, err := s.queryAll(ctx, stmt)
	if err != nil {
		return nil, err
	}

	customers := make([]rental.Customer, 0, len(rows))
	for _, row := range rows {
		customer, decodeErr := customerFromRow(row)
		if decodeErr != nil {
			return nil, decodeErr
		}

		customers = append(customers, customer)
	}

	return customers, nil
}

func (s Store) customerSelect() *goqu.SelectDataset {
	return s.builder.
		From(tableCustomer).
		Prepared(true).
		Select(colCustomerID, colTitle, colFirstName, colLastName, colPhone, colEmail)
}

func customerFromRow(row Row) (rental.Customer, error) {
	r := rowReader{row: row}
	customer := rental.Customer{
		ID:        r.int64(colCustomerID),
		Title:     rental.Title(r.string(colTitle)),
		FirstName: r.string(colFirstName),
		LastName:  r.string(colLastName),
		Phone:     r.string(colPhone),
		Email:     r.string(colEmail),
	}

	return customer, r.result()
}

/***** Movies *****/

func (s Store) InsertMovie(ctx context.Context, movie rental.Movie) error {
	stmt := s.builder.
		Insert(tableMovies).
		Prepared(true).
		Rows(goqu.Record{
			colMovieID:     movie.ID,
			colTitle:       movie.Title,
			colReleaseYear: movie.ReleaseYear,
			colGenre:       string(movie.Genre),
			colRentalPrice: goqu.L(castNumeric, movie.RentalPrice.String()),
			colProducerID:  movie.ProducerID,
		})

	_, err := s.exec(ctx, stmt, rental.KindMovie, movie.ID)

	return err
}

func (s Store) UpdateMovie(ctx context.Context, movie rental.Movie) error {
	stmt := s.builder.
		Update(tableMovies).
		Prepared(true).
		Set(goqu.Record{
			colTitle:       movie.Title,
			colReleaseYear: movie.ReleaseYear,
			colGenre:       string(movie.Genre),
			colRentalPrice: goqu.L(castNumeric, movie.RentalPrice.String()),
			colProducerID:  movie.ProducerID,
		}).
		Where(goqu.C(colMovieID).Eq(movie.ID))

	affected, err := s.exec(ctx, stmt, rental.KindMovie, movie.ID)
	if err != nil {
		return err
	}

	if affected == 0 {
		return rental.NotFoundError(rental.KindMovie, movie.ID)
	}

	return nil
}

func (s Store) DeleteMovie(ctx context.Context, movieID int64) error {
	stmt := s.builder.
		Delete(tableMovies).
		Prepared(true).
		Where(
			goqu.C(colMovieID).Eq(movieID),
			goqu.L("NOT EXISTS ?", s.openRentals(goqu.I(aliasOpen+"."+colMovieID).Eq(movieID))),
		)

	affected, err := s.exec(ctx, stmt, rental.KindMovie, movieID)
	if err != nil {
		return err
	}

	if affected > 0 {
		return nil
	}

	if _, err = s.GetMovie(ctx, movieID); err != nil {
		return err
	}

	s.storage.logOperation(ctx, logMsgMutationBlocked, logAttrEntity, rental.KindMovie, logAttrID, movieID)

	return rental.ConflictError("movie %d is on loan", movieID)
}

func (s Store) GetMovie(ctx context.Context, movieID int64) (rental.MovieView, error) {
	stmt := s.movieSelect().Where(goqu.I(aliasMovie + "." + colMovieID).Eq(movieID))

	row, found, err := s.queryOne(ctx, stmt)
	if err != nil {
		return rental.MovieView{}, err
	}

	if !found {
		return rental.MovieView{}, rental.NotFoundError(rental.KindMovie, movieID)
	}

	return movieFromRow(row)
}

func (s Store) FindMovies(ctx context.Context, filter rental.MovieFilter) ([]rental.MovieView, error) {
	stmt := s.movieSelect().Order(goqu.I(aliasMovie + "." + colMovieID).Asc())

	if filter.TitleContains != "" {
		stmt = stmt.Where(goqu.I(aliasMovie + "." + colTitle).ILike(likePattern(filter.TitleContains)))
	}

	if filter.Genre != "" {
		stmt = stmt.Where(goqu.I(aliasMovie + "." + colGenre).Eq(string(filter.Genre)))
	}

	if filter.Year != 0 {
		stmt = stmt.Where(goqu.I(aliasMovie + "." + colReleaseYear).Eq(filter.Year))
	}

	if filter.PriceMin != nil {
		stmt = stmt.Where(goqu.I(aliasMovie + "." + colRentalPrice).Gte(goqu.L(castNumeric, filter.PriceMin.String())))
	}

	if filter.PriceMax != nil {
		stmt = stmt.Where(goqu.I(aliasMovie + "." + colRentalPrice).Lte(goqu.L(castNumeric, filter.PriceMax.String())))
	}

	return s.queryMovies(ctx, stmt)
}

func (s Store) AvailableMovies(ctx context.Context) ([]rental.MovieView, error) {
	stmt := s.movieSelect().
		Where(goqu.L("NOT EXISTS ?", s.openRentals(goqu.I(aliasOpen+"."+colMovieID).Eq(goqu.I(aliasMovie+"."+colMovieID))))).
		Order(goqu.I(aliasMovie+"."+colTitle).Asc(), goqu.I(aliasMovie+"."+colMovieID).Asc())

	return s.queryMovies(ctx, stmt)
}

func (s Store) queryMovies(ctx context.Context, stmt statement) ([]rental.MovieView, error) {
	rows, err := s.queryAll(ctx, stmt)
	if err != nil {
		return nil, err
	}

	movies := make([]rental.MovieView, 0, len(rows))
	for _, row := range rows {
		movie, decodeErr := movieFromRow(row)
		if decodeErr != nil {
			return nil, decodeErr
		}

		movies = append(movies, movie)
	}

	return movies, nil
}

func (s Store) movieSelect() *goqu.SelectDataset {
	m := func(column string) exp.IdentifierExpression { return goqu.I(aliasMovie + "." + column) }

	return s.builder.
		From(goqu.T(tableMovies).As(aliasMovie)).
		Prepared(true).
		LeftJoin(
			goqu.T(tableProducers).As(aliasProducer),
			goqu.On(goqu.I(aliasProducer+"."+colProducerID).Eq(m(colProducerID))),
		).
		Select(
			m(colMovieID), m(colTitle), m(colReleaseYear), m(colGenre), m(colRentalPrice), m(colProducerID),
			goqu.COALESCE(goqu.I(aliasProducer+"."+colProducerName), goqu.L("''")).As(aliasProdName),
		)
}

func movieFromRow(row Row) (rental.MovieView, error) {
	r := rowReader{row: row}
	movie := rental.MovieView{
		Movie: rental.Movie{
			ID:          r.int64(colMovieID),
			Title:       r.string(colTitle),
			ReleaseYear: int(r.int64(colReleaseYear)),
			Genre:       rental.Genre(r.string(colGenre)),
			RentalPrice: r.decimal(colRentalPrice),
		},
		ProducerName: r.string(aliasProdName),
	}

	if !row.IsNull(colProducerID) {
		movie.ProducerID = r.int64(colProducerID)
	}

	return movie, r.result()
}

/***** Producers *****/

func (s Store) ListProducers(ctx context.Context) ([]rental.Producer, error) {
	stmt := s.producerSelect().Order(goqu.C(colProducerName).Asc(), goqu.C(colProducerID).Asc())

	rows, err := s.queryAll(ctx, stmt)
	if err != nil {
		return nil, err
	}

	producers := make([]rental.Producer, 0, len(rows))
	for _, row := range rows {
		producer, decodeErr := producerFromRow(row)
		if decodeErr != nil {
			return nil, decodeErr
		}

		producers = append(producers, producer)
	}

	return producers, nil
}

func (s Store) GetProducer(ctx context.Context, producerID int64) (rental.Producer, error) {
	stmt := s.producerSelect().Where(goqu.C(colProducerID).Eq(producerID))

	row, found, err := s.queryOne(ctx, stmt)
	if err != nil {
		return rental.Producer{}, err
	}

	if !found {
		return rental.Producer{}, rental.NotFoundError(rental.KindProducer, producerID)
	}

	return producerFromRow(row)
}

func (s Store) producerSelect() *goqu.SelectDataset {
	return s.builder.From(tableProducers).Prepared(true).Select(colProducerID, colProducerName)
}

func producerFromRow(row Row) (rental.Producer, error) {
	r := rowReader{row: row}
	producer := rental.Producer{ID: r.int64(colProducerID), Name: r.string(colProducerName)}

	return producer, r.result()
}

/***** Rentals *****/

// InsertRental inserts the rental only if the movie has no open rental at statement time.
// A concurrent insert that slips past the NOT EXISTS check is rejected by the partial unique index.
func (s Store) InsertRental(ctx context.Context, r rental.Rental) error {
	values := s.builder.
		Select(
			goqu.L(castInteger, r.ID),
			goqu.L(castInteger, r.CustomerID),
			goqu.L(castInteger, r.MovieID),
			goqu.L(castDate, formatDate(r.IssueDate)),
			goqu.L(castDate, formatDate(r.DueDate)),
		).
		Where(goqu.L("NOT EXISTS ?", s.openRentals(goqu.I(aliasOpen+"."+colMovieID).Eq(r.MovieID))))

	stmt := s.builder.
		Insert(tableIssueTran).
		Prepared(true).
		Cols(colIssueID, colCustomerID, colMovieID, colIssueDate, colDueDate).
		FromQuery(values)

	affected, err := s.exec(ctx, stmt, rental.KindRental, r.ID)
	if err != nil {
		return err
	}

	if affected == 0 {
		s.storage.logOperation(ctx, logMsgMutationBlocked, logAttrEntity, rental.KindMovie, logAttrID, r.MovieID)

		return rental.ConflictError("movie %d is already on loan", r.MovieID)
	}

	return nil
}

func (s Store) GetRental(ctx context.Context, rentalID int64) (rental.Rental, error) {
	stmt := s.builder.
		From(goqu.T(tableIssueTran).As(aliasRental)).
		Prepared(true).
		Select(rentalColumns()...).
		Where(goqu.I(aliasRental + "." + colIssueID).Eq(rentalID))

	row, found, err := s.queryOne(ctx, stmt)
	if err != nil {
		return rental.Rental{}, err
	}

	if !found {
		return rental.Rental{}, rental.NotFoundError(rental.KindRental, rentalID)
	}

	r := rowReader{row: row}
	result := rentalFromRow(&r)

	return result, r.result()
}

// CloseRental sets the return date only while it is unset, so of two concurrent returns exactly one succeeds.
func (s Store) CloseRental(ctx context.Context, rentalID int64, returnDate time.Time) error {
	stmt := s.builder.
		Update(tableIssueTran).
		Prepared(true).
		Set(goqu.Record{colReturnDate: goqu.L(castDate, formatDate(returnDate))}).
		Where(goqu.C(colIssueID).Eq(rentalID), goqu.C(colReturnDate).IsNull())

	affected, err := s.exec(ctx, stmt, rental.KindRental, rentalID)
	if err != nil {
		return err
	}

	if affected > 0 {
		return nil
	}

	if _, err = s.GetRental(ctx, rentalID); err != nil {
		return err
	}

	return errors.Join(rental.ErrAlreadyReturned, fmt.Errorf("rental %d is closed", rentalID))
}

func (s Store) HasOpenRentalForMovie(ctx context.Context, movieID int64) (bool, error) {
	return s.hasOpenRental(ctx, goqu.I(aliasOpen+"."+colMovieID).Eq(movieID))
}

func (s Store) HasOpenRentalForCustomer(ctx context.Context, customerID int64) (bool, error) {
	return s.hasOpenRental(ctx, goqu.I(aliasOpen+"."+colCustomerID).Eq(customerID))
}

func (s Store) hasOpenRental(ctx context.Context, match exp.Expression) (bool, error) {
	stmt := s.builder.
		Select(goqu.L("EXISTS ?", s.openRentals(match)).As(aliasIsOpen)).
		Prepared(true)

	row, _, err := s.queryOne(ctx, stmt)
	if err != nil {
		return false, err
	}

	isOpen, err := row.Bool(aliasIsOpen)
	if err != nil {
		return false, errors.Join(rental.ErrStorage, err)
	}

	return isOpen, nil
}

// openRentals selects the open rentals matching the given predicate, for use in EXISTS clauses.
func (s Store) openRentals(match exp.Expression) *goqu.SelectDataset {
	return s.builder.
		From(goqu.T(tableIssueTran).As(aliasOpen)).
		Select(goqu.L("1")).
		Where(match, goqu.I(aliasOpen+"."+colReturnDate).IsNull())
}

func (s Store) FindRentals(
	ctx context.Context,
	filter rental.RentalFilter,
	today time.Time,
) ([]rental.RentalRecord, error) {

	stmt := s.buildRentalsQuery(filter, today)

	rows, err := s.queryAll(ctx, stmt)
	if err != nil {
		return nil, err
	}

	records := make([]rental.RentalRecord, 0, len(rows))
	for _, row := range rows {
		r := rowReader{row: row}
		record := rental.RentalRecord{
			Rental:        rentalFromRow(&r),
			CustomerName:  r.string(aliasCustName),
			CustomerPhone: r.string(aliasCustPhone),
			CustomerEmail: r.string(aliasCustEmail),
			MovieTitle:    r.string(aliasMovieTitle),
			MovieGenre:    rental.Genre(r.string(aliasMovieGenre)),
			RentalPrice:   r.decimal(aliasMoviePrice),
		}

		if err = r.result(); err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, nil
}

func (s Store) buildRentalsQuery(filter rental.RentalFilter, today time.Time) *goqu.SelectDataset {
	r := func(column string) exp.IdentifierExpression { return goqu.I(aliasRental + "." + column) }
	c := func(column string) exp.IdentifierExpression { return goqu.I(aliasCustomer + "." + column) }
	m := func(column string) exp.IdentifierExpression { return goqu.I(aliasMovie + "." + column) }

	customerName := goqu.L("concat_ws(' ', ?, ?)", c(colFirstName), c(colLastName))
	empty := goqu.L("''")

	columns := append(
		rentalColumns(),
		customerName.As(aliasCustName),
		goqu.COALESCE(c(colPhone), empty).As(aliasCustPhone),
		goqu.COALESCE(c(colEmail), empty).As(aliasCustEmail),
		goqu.COALESCE(m(colTitle), empty).As(aliasMovieTitle),
		goqu.COALESCE(m(colGenre), empty).As(aliasMovieGenre),
		goqu.COALESCE(m(colRentalPrice), 0).As(aliasMoviePrice),
	)

	stmt := s.builder.
		From(goqu.T(tableIssueTran).As(aliasRental)).
		Prepared(true).
		LeftJoin(goqu.T(tableCustomer).As(aliasCustomer), goqu.On(c(colCustomerID).Eq(r(colCustomerID)))).
		LeftJoin(goqu.T(tableMovies).As(aliasMovie), goqu.On(m(colMovieID).Eq(r(colMovieID)))).
		Select(columns...)

	if name := filter.CustomerNameContains(); name != "" {
		stmt = stmt.Where(customerName.ILike(likePattern(name)))
	}

	if title := filter.MovieTitleContains(); title != "" {
		stmt = stmt.Where(m(colTitle).ILike(likePattern(title)))
	}

	if issueDate, ok := filter.IssueDate(); ok {
		stmt = stmt.Where(r(colIssueDate).Eq(goqu.L(castDate, formatDate(issueDate))))
	}

	if filter.OpenOnly() {
		stmt = stmt.Where(r(colReturnDate).IsNull())
	}

	todayParam := goqu.L(castDate, formatDate(today))

	switch filter.Status() {
	case rental.StatusReturned:
		stmt = stmt.Where(r(colReturnDate).IsNotNull())
	case rental.StatusActive:
		stmt = stmt.Where(r(colReturnDate).IsNull(), r(colDueDate).Gte(todayParam))
	case rental.StatusOverdue:
		stmt = stmt.Where(r(colReturnDate).IsNull(), r(colDueDate).Lt(todayParam))
	}

	if filter.Order() == rental.OldestFirst {
		return stmt.Order(r(colIssueDate).Asc(), r(colIssueID).Asc())
	}

	return stmt.Order(r(colIssueDate).Desc(), r(colIssueID).Desc())
}

func rentalColumns() []any {
	r := func(column string) exp.IdentifierExpression { return goqu.I(aliasRental + "." + column) }

	return []any{
		r(colIssueID), r(colCustomerID), r(colMovieID), r(colIssueDate), r(colDueDate), r(colReturnDate),
	}
}

func rentalFromRow(r *rowReader) rental.Rental {
	return rental.Rental{
		ID:         r.int64(colIssueID),
		CustomerID: r.int64(colCustomerID),
		MovieID:    r.int64(colMovieID),
		IssueDate:  r.date(colIssueDate),
		DueDate:    r.date(colDueDate),
		ReturnDate: r.nullableDate(colReturnDate),
	}
}

/***** Statement execution *****/

func (s Store) exec(ctx context.Context, stmt statement, kind rental.EntityKind, id int64) (int64, error) {
	sqlQuery, args, err := stmt.ToSQL()
	if err != nil {
		return 0, s.buildFailed(ctx, err)
	}

	affected, err := s.storage.Execute(ctx, sqlQuery, args...)
	if err != nil {
		classified := classify(err)
		if errors.Is(classified, rental.ErrConcurrencyConflict) {
			s.storage.logOperation(ctx, logMsgConcurrencyConflict, logAttrEntity, kind, logAttrID, id)
		}

		return 0, classified
	}

	return affected, nil
}

func (s Store) queryAll(ctx context.Context, stmt statement) ([]Row, error) {
	sqlQuery, args, err := stmt.ToSQL()
	if err != nil {
		return nil, s.buildFailed(ctx, err)
	}

	rows, err := s.storage.QueryAll(ctx, sqlQuery, args...)
	if err != nil {
		return nil, classify(err)
	}

	return rows, nil
}

func (s Store) queryOne(ctx context.Context, stmt statement) (Row, bool, error) {
	sqlQuery, args, err := stmt.ToSQL()
	if err != nil {
		return nil, false, s.buildFailed(ctx, err)
	}

	row, found, err := s.storage.QueryOne(ctx, sqlQuery, args...)
	if err != nil {
		return nil, false, classify(err)
	}

	return row, found, nil
}

func (s Store) buildFailed(ctx context.Context, err error) error {
	s.storage.logError(ctx, logMsgBuildStatementFailed, err)

	return errors.Join(rental.ErrStorage, ErrBuildingQueryFailed, err)
}

/***** Helpers *****/

// likePattern turns user input into a contains pattern, with LIKE wildcards in the input matched literally.
func likePattern(input string) string {
	var b strings.Builder

	b.WriteByte('%')

	for _, ch := range input {
		if strings.ContainsRune(likeEscapeTokens, ch) {
			b.WriteByte('\\')
		}

		b.WriteRune(ch)
	}

	b.WriteByte('%')

	return b.String()
}

func formatDate(t time.Time) string {
	return rental.CalendarDate(t).Format(dateLayout)
}

// rowReader decodes columns of a Row and keeps the first decoding error.
type rowReader struct {
	row Row
	err error
}

func (r *rowReader) int64(column string) int64 {
	v, err := r.row.Int64(column)
	r.keep(err)

	return v
}

func (r *rowReader) string(column string) string {
	v, err := r.row.String(column)
	r.keep(err)

	return v
}

func (r *rowReader) decimal(column string) decimal.Decimal {
	v, err := r.row.Decimal(column)
	r.keep(err)

	return v
}

func (r *rowReader) date(column string) time.Time {
	v, err := r.row.Date(column)
	r.keep(err)

	return v
}

func (r *rowReader) nullableDate(column string) *time.Time {
	v, err := r.row.NullableDate(column)
	r.keep(err)

	return v
}

func (r *rowReader) keep(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

func (r *rowReader) result() error {
	if r.err != nil {
		return errors.Join(rental.ErrStorage, r.err)
	}

	return nil
}
