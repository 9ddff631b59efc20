package importer

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"saldo/internal/core"
)

// ParseStatement reads an OFX/QFX statement and converts its bank and
// credit card transactions into owner-scoped transactions. Negative
// amounts become expenses, positive ones income; zero-amount entries are
// skipped.
func ParseStatement(r io.Reader, ownerKey string, rules *RuleSet) ([]core.Transaction, error) {
	resp, err := ofxgo.ParseResponse(r)
	if err != nil {
		return nil, fmt.Errorf("parse OFX statement: %w", err)
	}

	var lists []*ofxgo.TransactionList
	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		lists = append(lists, stmt.BankTranList)
	}
	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		lists = append(lists, stmt.BankTranList)
	}

	if len(lists) == 0 {
		return nil, fmt.Errorf("no bank or credit card transactions in OFX statement")
	}

	var out []core.Transaction
	for _, list := range lists {
		for _, txn := range list.Transactions {
			t, ok := convertTransaction(txn, ownerKey, rules)
			if !ok {
				continue
			}
			out = append(out, t)
		}
	}
	return out, nil
}

func convertTransaction(txn ofxgo.Transaction, ownerKey string, rules *RuleSet) (core.Transaction, bool) {
	sign := txn.TrnAmt.Sign()
	if sign == 0 {
		slog.Warn("Skipping zero-amount statement entry", "fit_id", txn.FiTID.String())
		return core.Transaction{}, false
	}

	amount, err := decimal.NewFromString(txn.TrnAmt.FloatString(2))
	if err != nil {
		slog.Warn("Skipping statement entry with unreadable amount",
			"fit_id", txn.FiTID.String(), "error", err)
		return core.Transaction{}, false
	}

	kind := core.KindIncome
	if sign < 0 {
		kind = core.KindExpense
		amount = amount.Neg()
	}

	description := strings.TrimSpace(txn.Name.String())
	if description == "" {
		description = strings.TrimSpace(txn.Memo.String())
	}
	if description == "" {
		description = "imported transaction"
	}

	occurred := ""
	date := txn.DtPosted.Time
	if date.IsZero() {
		date = txn.DtUser.Time
	}
	if !date.IsZero() {
		occurred = date.Format(core.DateLayout)
	}

	return core.Transaction{
		ID:            uuid.New(),
		OwnerKey:      ownerKey,
		Amount:        amount,
		Kind:          kind,
		Category:      rules.Categorize(description),
		Establishment: strings.TrimSpace(txn.Name.String()),
		Description:   description,
		OccurredAt:    occurred,
	}, true
}
