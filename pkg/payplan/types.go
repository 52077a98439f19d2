package payplan

// pageResponse is the DataTables-style envelope returned by the pay plan
// endpoint. Rows arrive as positional string arrays in upstream column
// order; recordsTotal is a pointer so a missing field is distinguishable
// from a legitimate zero.
type pageResponse struct {
	Draw            int        `json:"draw"`
	RecordsTotal    *int       `json:"recordsTotal"`
	RecordsFiltered int        `json:"recordsFiltered"`
	Data            [][]string `json:"data"`
}
