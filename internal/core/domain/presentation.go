package domain

// Slide holds the tables found on one presentation slide.
type Slide struct {
	Title   *string      `json:"Title"`
	Content SlideContent `json:"Content"`
}

// SlideContent wraps the slide tables.
type SlideContent struct {
	Tables []Table `json:"Tables"`
}

// Table is a slide table; the first row becomes the column headers.
type Table struct {
	TableNo int        `json:"table_no"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}
