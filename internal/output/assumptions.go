package output

// DefaultAssumptions lists the modeling assumptions rendered in the HTML report
var DefaultAssumptions = []string{
	"Federal brackets, deductions and thresholds are those of the selected tax year, not indexed forward",
	"Long-term gains and qualified dividends stack on top of taxable ordinary income",
	"State tax is estimated on taxable ordinary income plus net long-term gains",
	"Credits are non-refundable; any excess over gross tax is lost",
	"Projections compound yearly with contributions added at the start of each year",
}
