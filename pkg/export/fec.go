package export

import (
	"encoding/csv"
	"io"
)

// Account numbers used by the ledger export. Debits go to a cash or bank
// account, credits to revenue and collected-VAT accounts, so every entry
// balances by construction.
const (
	AccountBank       = "512000"
	AccountCashTill   = "530000"
	AccountRevenue    = "707000"
	AccountVAT        = "445710"
	journalCode       = "VEN"
	journalLabel      = "Ventes"
	fecDateLayout     = "20060102"
	labelBank         = "Banque"
	labelCashTill     = "Caisse"
	labelRevenue      = "Ventes de marchandises"
	labelVAT          = "TVA collectee"
)

var fecHeader = []string{
	"JournalCode", "JournalLib", "EcritureNum", "EcritureDate",
	"CompteNum", "CompteLib", "CompAuxNum", "CompAuxLib",
	"PieceRef", "PieceDate", "EcritureLib", "Debit", "Credit",
	"EcritureLet", "DateLet", "ValidDate", "Montantdevise", "Idevise",
}

// WriteFEC writes the fixed-column double-entry export: per sale one debit
// line to the cash/bank account and credit lines to revenue and collected
// VAT. Tab-separated with the standard 18 FEC columns.
func WriteFEC(w io.Writer, rows []SaleRow) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := cw.Write(fecHeader); err != nil {
		return err
	}

	for _, row := range rows {
		date := row.Date.Format(fecDateLayout)

		debitAccount, debitLabel := AccountBank, labelBank
		if row.PaymentMethod == "cash" {
			debitAccount, debitLabel = AccountCashTill, labelCashTill
		}

		write := func(account, accountLabel, debit, credit string) error {
			return cw.Write([]string{
				journalCode, journalLabel, row.Number, date,
				account, accountLabel, "", "",
				row.Number, date, row.Customer, debit, credit,
				"", "", date, "", "",
			})
		}

		// Debit: full amount received.
		if err := write(debitAccount, debitLabel, Cents(row.Total), "0.00"); err != nil {
			return err
		}
		// Credit: net revenue (subtotal less discount).
		if err := write(AccountRevenue, labelRevenue, "0.00", Cents(row.SubTotal-row.Discount)); err != nil {
			return err
		}
		// Credit: collected VAT.
		if row.Tax != 0 {
			if err := write(AccountVAT, labelVAT, "0.00", Cents(row.Tax)); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
