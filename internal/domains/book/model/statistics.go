package model

// GenreAvailabilityCount is one row of
// SELECT genre, availability, COUNT(*) ... GROUP BY genre, availability
type GenreAvailabilityCount struct {
	Genre        string `db:"genre"`
	Availability bool   `db:"availability"`
	Count        int    `db:"count"`
}

type Statistics struct {
	Total       int            `json:"total"`
	Available   int            `json:"available"`
	Unavailable int            `json:"unavailable"`
	ByGenre     map[string]int `json:"byGenre"`
}

// FoldStatistics reduces grouped counts to the four figures. Every figure comes
// from the same rows, so Available+Unavailable == Total always holds.
func FoldStatistics(rows []GenreAvailabilityCount) Statistics {
	stats := Statistics{ByGenre: make(map[string]int)}
	for _, row := range rows {
		stats.Total += row.Count
		if row.Availability {
			stats.Available += row.Count
		} else {
			stats.Unavailable += row.Count
		}
		stats.ByGenre[row.Genre] += row.Count
	}
	return stats
}
