package report

// Workbook converts the movie report into its sheets.
func (r MovieReport) Workbook() Workbook {
	movieHeader := []string{"MovieID", "Title", "ReleaseYear", "Genre", "RentalPrice", "Producer", "TotalRentals", "CurrentlyRented"}

	movieRows := func(rows []MovieRow) [][]any {
		out := make([][]any, 0, len(rows))
		for _, m := range rows {
			out = append(out, []any{
				m.ID, m.Title, m.ReleaseYear, string(m.Genre), m.RentalPrice, m.Producer, m.TotalRentals, yesNo(m.CurrentlyRented),
			})
		}

		return out
	}

	genres := make([][]any, 0, len(r.Genres))
	for _, g := range r.Genres {
		genres = append(genres, []any{string(g.Genre), g.Movies, g.Rentals, g.AveragePrice})
	}

	return Workbook{
		Kind:        "Movie",
		GeneratedAt: r.GeneratedAt,
		Sheets: []Sheet{
			{Name: "Movies", Header: movieHeader, Rows: movieRows(r.Movies)},
			{Name: "Genre Statistics", Header: []string{"Genre", "Total Movies", "Total Rentals", "Avg Price"}, Rows: genres},
			{Name: "Top 10 Movies", Header: movieHeader, Rows: movieRows(r.TopRented)},
		},
	}
}

// Workbook converts the customer report into its sheets.
func (r CustomerReport) Workbook() Workbook {
	header := []string{"CustomerID", "Title", "FullName", "Phone", "Email", "TotalRentals", "ActiveRentals", "PendingLateFees"}

	rows := func(customers []CustomerRow) [][]any {
		out := make([][]any, 0, len(customers))
		for _, c := range customers {
			out = append(out, []any{
				c.ID, string(c.Title), c.FullName, c.Phone, c.Email, c.TotalRentals, c.ActiveRentals, c.PendingLateFees,
			})
		}

		return out
	}

	return Workbook{
		Kind:        "Customer",
		GeneratedAt: r.GeneratedAt,
		Sheets: []Sheet{
			{Name: "Customers", Header: header, Rows: rows(r.Customers)},
			{Name: "Top 10 Customers", Header: header, Rows: rows(r.TopCustomers)},
			{Name: "Pending Late Fees", Header: header, Rows: rows(r.WithPendingFees)},
		},
	}
}

// Workbook converts the rental report into its sheets.
func (r RentalReport) Workbook() Workbook {
	header := []string{"IssueID", "CustomerName", "Phone", "Email", "MovieTitle", "Genre", "IssueDate", "DueDate", "DaysOverdue", "LateFee"}

	rows := func(rentals []RentalRow) [][]any {
		out := make([][]any, 0, len(rentals))
		for _, l := range rentals {
			out = append(out, []any{
				l.RentalID, l.CustomerName, l.CustomerPhone, l.CustomerEmail, l.MovieTitle, string(l.Genre),
				l.IssueDate, l.DueDate, l.DaysOverdue, l.LateFee,
			})
		}

		return out
	}

	genres := make([][]any, 0, len(r.Genres))
	for _, g := range r.Genres {
		genres = append(genres, []any{string(g.Genre), g.Total, g.Active, g.Completed, g.AveragePrice})
	}

	producers := make([][]any, 0, len(r.TopProducers))
	for _, p := range r.TopProducers {
		producers = append(producers, []any{p.Producer, p.TotalRentals, p.Revenue})
	}

	return Workbook{
		Kind:        "Rental",
		GeneratedAt: r.GeneratedAt,
		Sheets: []Sheet{
			{Name: "Currently Rented", Header: header, Rows: rows(r.CurrentlyRented)},
			{Name: "Overdue Rentals", Header: header, Rows: rows(r.Overdue)},
			{
				Name:   "Statistics by Genre",
				Header: []string{"Genre", "TotalRentals", "ActiveRentals", "CompletedRentals", "AvgRentalPrice"},
				Rows:   genres,
			},
			{Name: "Top Producers", Header: []string{"Producer", "TotalRentals", "TotalRevenue"}, Rows: producers},
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}

	return "no"
}
