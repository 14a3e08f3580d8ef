package enums

import "strings"

// CurrencyKind - вид валюты в кошельке персонажа/поселения.
type CurrencyKind uint8

const (
	CurrencyUnknown CurrencyKind = iota
	CurrencyGold
	CurrencyGems
)

var currencyToString = map[CurrencyKind]string{
	CurrencyGold: "GOLD",
	CurrencyGems: "GEMS",
}

var currencyStringToType = map[string]CurrencyKind{
	"GOLD": CurrencyGold,
	"GEMS": CurrencyGems,
}

func (c CurrencyKind) String() string {
	if val, ok := currencyToString[c]; ok {
		return val
	}
	return "UNKNOWN"
}

func ParseCurrencyKind(s string) CurrencyKind {
	upper := strings.ToUpper(s)
	if val, ok := currencyStringToType[upper]; ok {
		return val
	}
	return CurrencyUnknown
}

// TransactionDirection - направление операции в леджере валют.
type TransactionDirection uint8

const (
	TransactionCredit TransactionDirection = iota + 1 // пополнение
	TransactionDebit                                  // списание
)

func (d TransactionDirection) String() string {
	switch d {
	case TransactionCredit:
		return "CREDIT"
	case TransactionDebit:
		return "DEBIT"
	}
	return "UNKNOWN"
}
