package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/AntonStoeckl/movierental-go/rental"
)

type movieFlags struct {
	input rental.MovieInput
}

func (f *movieFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.input.Title, "title", "", "movie title")
	flags.StringVar(&f.input.ReleaseYear, "year", "", "release year")
	flags.StringVar(&f.input.Genre, "genre", "", "genre: Action, Comedy or Drama")
	flags.StringVar(&f.input.RentalPrice, "price", "", "rental price, e.g. 3.50")
	flags.StringVar(&f.input.ProducerID, "producer", "", "producer id")
}

// mergeInto overrides the fields of current whose flags were set.
func (f *movieFlags) mergeInto(flags *pflag.FlagSet, current rental.MovieView) rental.MovieInput {
	merged := rental.MovieInput{
		Title:       current.Title,
		ReleaseYear: strconv.Itoa(current.ReleaseYear),
		Genre:       string(current.Genre),
		RentalPrice: current.RentalPrice.String(),
		ProducerID:  itoa(current.ProducerID),
	}

	set := map[string]func(){
		"title":    func() { merged.Title = f.input.Title },
		"year":     func() { merged.ReleaseYear = f.input.ReleaseYear },
		"genre":    func() { merged.Genre = f.input.Genre },
		"price":    func() { merged.RentalPrice = f.input.RentalPrice },
		"producer": func() { merged.ProducerID = f.input.ProducerID },
	}

	flags.Visit(func(flag *pflag.Flag) {
		if apply, ok := set[flag.Name]; ok {
			apply()
		}
	})

	return merged
}

type movieSearchFlags struct {
	title, genre       string
	year               int
	minPrice, maxPrice string
}

func (f movieSearchFlags) filter() (rental.MovieFilter, error) {
	filter := rental.MovieFilter{TitleContains: f.title, Genre: rental.Genre(f.genre), Year: f.year}

	bound := func(raw string) (*decimal.Decimal, error) {
		if raw == "" {
			return nil, nil
		}

		price, err := rental.ParsePrice(raw)
		if err != nil {
			return nil, err
		}

		return &price, nil
	}

	var err error
	if filter.PriceMin, err = bound(f.minPrice); err != nil {
		return rental.MovieFilter{}, err
	}

	if filter.PriceMax, err = bound(f.maxPrice); err != nil {
		return rental.MovieFilter{}, err
	}

	return filter, nil
}

func newMovieCommand(c *cli) *cobra.Command {
	movie := &cobra.Command{
		Use:   "movie",
		Short: "Movie catalog commands",
	}

	var addFlags movieFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a movie to the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			created, err := c.app.movies.Add(cmd.Context(), addFlags.input)
			if err != nil {
				return err
			}

			return c.renderMovies(cmd, false, created)
		},
	}
	addFlags.register(add.Flags())

	var updateFlags movieFlags
	update := &cobra.Command{
		Use:   "update [movie-id]",
		Short: "Change a movie, unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(fieldMovieID, args[0])
			if err != nil {
				return err
			}

			current, err := c.app.movies.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			updated, err := c.app.movies.Update(cmd.Context(), id, updateFlags.mergeInto(cmd.Flags(), current))
			if err != nil {
				return err
			}

			return c.renderMovies(cmd, false, updated)
		},
	}
	updateFlags.register(update.Flags())

	remove := &cobra.Command{
		Use:   "delete [movie-id]",
		Short: "Delete a movie that is not on loan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(fieldMovieID, args[0])
			if err != nil {
				return err
			}

			if err := c.app.movies.Delete(cmd.Context(), id); err != nil {
				return err
			}

			return c.message(cmd, fmt.Sprintf("movie %d deleted", id))
		},
	}

	get := &cobra.Command{
		Use:   "get [movie-id]",
		Short: "Show one movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(fieldMovieID, args[0])
			if err != nil {
				return err
			}

			found, err := c.app.movies.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			return c.renderMovies(cmd, false, found)
		},
	}

	var searchFlags movieSearchFlags
	search := &cobra.Command{
		Use:   "search",
		Short: "Search the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := searchFlags.filter()
			if err != nil {
				return err
			}

			found, err := c.app.movies.Search(cmd.Context(), filter)
			if err != nil {
				return err
			}

			return c.renderMovies(cmd, true, found...)
		},
	}
	search.Flags().StringVar(&searchFlags.title, "title", "", "substring of the title")
	search.Flags().StringVar(&searchFlags.genre, "genre", "", "genre")
	search.Flags().IntVar(&searchFlags.year, "year", 0, "release year")
	search.Flags().StringVar(&searchFlags.minPrice, "min-price", "", "lowest rental price")
	search.Flags().StringVar(&searchFlags.maxPrice, "max-price", "", "highest rental price")

	available := &cobra.Command{
		Use:   "available",
		Short: "List the movies that can be issued now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			found, err := c.app.movies.Available(cmd.Context())
			if err != nil {
				return err
			}

			return c.renderMovies(cmd, true, found...)
		},
	}

	movie.AddCommand(add, update, remove, get, search, available)

	return movie
}

func (c *cli) renderMovies(cmd *cobra.Command, list bool, movies ...rental.MovieView) error {
	var value any = movies
	if !list && len(movies) == 1 {
		value = movies[0]
	}

	return c.render(cmd, value, func(w io.Writer) {
		row(w, "ID", "TITLE", "YEAR", "GENRE", "PRICE", "PRODUCER")
		for _, m := range movies {
			row(w, itoa(m.ID), m.Title, strconv.Itoa(m.ReleaseYear), string(m.Genre), m.RentalPrice.StringFixed(2), m.ProducerName)
		}
	})
}
