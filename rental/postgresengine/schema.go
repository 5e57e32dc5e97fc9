package postgresengine

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/movierental-go/rental"
)

const (
	tableCustomer  = "customer"
	tableMovies    = "movies"
	tableProducers = "producers"
	tableIssueTran = "issuetran"

	colCustomerID   = "CustomerID"
	colTitle        = "Title"
	colFirstName    = "FirstName"
	colLastName     = "LastName"
	colPhone        = "Phone"
	colEmail        = "Email"
	colMovieID      = "MovieID"
	colReleaseYear  = "ReleaseYear"
	colGenre        = "Genre"
	colRentalPrice  = "RentalPrice"
	colProducerID   = "ProducerID"
	colProducerName = "Name"
	colIssueID      = "IssueID"
	colIssueDate    = "IssueDate"
	colDueDate      = "dueDate"
	colReturnDate   = "ReturnDate"

	constraintCustomerPK         = "customer_pkey"
	constraintMoviePK            = "movies_pkey"
	constraintProducerPK         = "producers_pkey"
	constraintIssuePK            = "issuetran_pkey"
	constraintOpenRentalPerMovie = "issuetran_open_rental_per_movie"
)

// issuetran has no foreign keys, so closed rentals outlive deleted customers and movies.
// The partial unique index enforces at most one open rental per movie.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS producers (
		"ProducerID" integer NOT NULL,
		"Name"       text    NOT NULL,
		CONSTRAINT producers_pkey PRIMARY KEY ("ProducerID")
	)`,
	`CREATE TABLE IF NOT EXISTS customer (
		"CustomerID" integer NOT NULL,
		"Title"      text    NOT NULL,
		"FirstName"  text    NOT NULL,
		"LastName"   text    NOT NULL,
		"Phone"      text    NOT NULL,
		"Email"      text    NOT NULL,
		CONSTRAINT customer_pkey PRIMARY KEY ("CustomerID")
	)`,
	`CREATE TABLE IF NOT EXISTS movies (
		"MovieID"     integer       NOT NULL,
		"Title"       text          NOT NULL,
		"ReleaseYear" integer       NOT NULL,
		"Genre"       text          NOT NULL,
		"RentalPrice" numeric(10,2) NOT NULL CHECK ("RentalPrice" >= 0),
		"ProducerID"  integer       REFERENCES producers ("ProducerID"),
		CONSTRAINT movies_pkey PRIMARY KEY ("MovieID")
	)`,
	`CREATE TABLE IF NOT EXISTS issuetran (
		"IssueID"    integer NOT NULL,
		"CustomerID" integer NOT NULL,
		"MovieID"    integer NOT NULL,
		"IssueDate"  date    NOT NULL,
		"dueDate"    date    NOT NULL CHECK ("dueDate" > "IssueDate"),
		"ReturnDate" date,
		CONSTRAINT issuetran_pkey PRIMARY KEY ("IssueID")
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS issuetran_open_rental_per_movie
		ON issuetran ("MovieID") WHERE "ReturnDate" IS NULL`,
	`CREATE INDEX IF NOT EXISTS issuetran_customer_idx ON issuetran ("CustomerID")`,
}

// DefaultProducers is the reference data the CLI seeds with ApplySchema.
func DefaultProducers() []rental.Producer {
	return []rental.Producer{
		{ID: 1, Name: "Warner Bros."},
		{ID: 2, Name: "Universal Pictures"},
		{ID: 3, Name: "Paramount Pictures"},
		{ID: 4, Name: "Columbia Pictures"},
		{ID: 5, Name: "20th Century Studios"},
	}
}

// ApplySchema creates the tables and indexes if they do not exist and seeds producers.
// Producers whose id exists already are left untouched.
func (s Store) ApplySchema(ctx context.Context, producers ...rental.Producer) error {
	for _, statement := range schemaStatements {
		if _, err := s.storage.Execute(ctx, statement); err != nil {
			return errors.Join(rental.ErrStorage, err)
		}
	}

	for _, producer := range producers {
		stmt := s.builder.
			Insert(tableProducers).
			Prepared(true).
			Rows(goqu.Record{colProducerID: producer.ID, colProducerName: producer.Name}).
			OnConflict(goqu.DoNothing())

		if _, err := s.exec(ctx, stmt, rental.KindProducer, producer.ID); err != nil {
			return err
		}
	}

	s.storage.logOperation(ctx, logMsgSchemaApplied, logAttrStatements, len(schemaStatements))

	return nil
}

// TruncateAll removes all rows. It exists for integration tests.
func (s Store) TruncateAll(ctx context.Context) error {
	statement := fmt.Sprintf("TRUNCATE TABLE %s, %s, %s, %s", tableIssueTran, tableMovies, tableCustomer, tableProducers)

	if _, err := s.storage.Execute(ctx, statement); err != nil {
		return classify(err)
	}

	return nil
}
