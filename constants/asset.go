package constants

// Defaults stamped on every asset row.
const (
	DefaultLocation = "Naples Office"
	Requestable     = "true"
)

// CSVColumns is the fixed output column order.
var CSVColumns = []string{
	"Item Name",
	"Category",
	"Location",
	"Purchase Date",
	"Purchase Cost",
	"Model Name",
	"Model Number",
	"Serial Number",
	"Order Number",
	"Requestable",
	"Last Audit",
}
