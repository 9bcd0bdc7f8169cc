package constants

const (
	// Output precision for monetary columns
	AmountPlaces = 4

	// Input columns
	ColumnType   = "type"
	ColumnClient = "client"
	ColumnTx     = "tx"
	ColumnAmount = "amount"
)
