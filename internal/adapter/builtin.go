package adapter

// Chase returns the adapter for Chase checking and card exports, which
// carry a single signed amount column.
func Chase() Adapter {
	return New("chase", map[string]string{
		"post date":        FieldDate,
		"posting date":     FieldDate,
		"transaction date": FieldDate,
		"date":             FieldDate,
		"description":      FieldName,
		"amount":           FieldAmount,
	})
}

// Discover returns the adapter for Discover card exports, which label the
// payee column "Merchant".
func Discover() Adapter {
	return New("discover", map[string]string{
		"transaction date": FieldDate,
		"trans date":       FieldDate,
		"date":             FieldDate,
		"merchant":         FieldName,
		"merchant name":    FieldName,
		"description":      FieldName,
		"amount":           FieldAmount,
	})
}

// Citi returns the adapter for Citi card exports, which split inflow and
// outflow into separate Credit and Debit columns.
func Citi() Adapter {
	return New("citi", map[string]string{
		"date":         FieldDate,
		"payment date": FieldDate,
		"posting date": FieldDate,
		"description":  FieldName,
		"debit":        fieldDebit,
		"credit":       fieldCredit,
	})
}
