package model

// TableSummary describes a table without its rows.
type TableSummary struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	PrimaryKey  string   `json:"primaryKey"`
	Columns     []string `json:"columns"`
}

// TableData is a table with all of its rows.
type TableData struct {
	Label       string   `json:"label"`
	Description string   `json:"description"`
	PrimaryKey  string   `json:"primaryKey"`
	Columns     []string `json:"columns"`
	Rows        []Row    `json:"rows"`
}
