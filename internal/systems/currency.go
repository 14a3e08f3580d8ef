package systems

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"homestead-server/internal/core/types"
	"homestead-server/internal/core/types/enums"
	"homestead-server/internal/domain"
	"homestead-server/internal/ecs"
	"homestead-server/pkg/logger"
)

// Transaction - запись леджера валютных операций.
type Transaction struct {
	ID        string                     `json:"id"`
	EntityID  types.EntityID             `json:"entityId"`
	Direction enums.TransactionDirection `json:"direction"`
	Currency  enums.CurrencyKind         `json:"currency"`
	Amount    int                        `json:"amount"`
	Balance   int                        `json:"balance"` // баланс ПОСЛЕ операции
	Reason    string                     `json:"reason"`
	Timestamp time.Time                  `json:"timestamp"`
}

// CurrencySystem - кошельки и леджер.
//
// Инварианты: баланс никогда не уходит в минус; списание
// все-или-ничего; каждая успешная операция оставляет запись в
// append-only леджере с балансом после нее.
type CurrencySystem struct {
	ecs.BaseSystem
	ledger []Transaction
	clock  func() time.Time
	log    *logrus.Entry
}

func NewCurrencySystem(base ecs.BaseSystem, clock func() time.Time) *CurrencySystem {
	if clock == nil {
		clock = time.Now
	}
	return &CurrencySystem{
		BaseSystem: base,
		clock:      clock,
		log:        logger.WithSystem("currency_system"),
	}
}

func (s *CurrencySystem) Name() string { return "currency" }

func (s *CurrencySystem) RequiredKinds() []ecs.Kind {
	return []ecs.Kind{domain.KindWallet}
}

// Update - no-op: кошельки чисто реактивны.
func (s *CurrencySystem) Update(dt time.Duration) {}

// Balance возвращает текущий баланс валюты.
func (s *CurrencySystem) Balance(id types.EntityID, currency enums.CurrencyKind) int {
	wallet := ecs.GetAs[domain.WalletComponent](s.Store, id, domain.KindWallet)
	if wallet == nil {
		return 0
	}
	return wallet.Balances[currency]
}

// CanAfford проверяет достаточность средств без побочных эффектов.
func (s *CurrencySystem) CanAfford(id types.EntityID, currency enums.CurrencyKind, amount int) bool {
	return amount >= 0 && s.Balance(id, currency) >= amount
}

// Add пополняет кошелек. Возвращает баланс после операции.
// Неположительные суммы отклоняются.
func (s *CurrencySystem) Add(id types.EntityID, currency enums.CurrencyKind, amount int, reason string) (int, OpResult) {
	wallet := ecs.GetAs[domain.WalletComponent](s.Store, id, domain.KindWallet)
	if wallet == nil {
		return 0, Fail(FailurePrecondition, "у сущности нет кошелька")
	}
	if amount <= 0 {
		return wallet.Balances[currency], Fail(FailurePrecondition, "сумма должна быть положительной")
	}

	wallet.Balances[currency] += amount
	balance := wallet.Balances[currency]
	s.record(id, enums.TransactionCredit, currency, amount, balance, reason)
	return balance, Success()
}

// Subtract списывает средства. Все-или-ничего: при нехватке возвращает
// отказ, баланс не тронут.
func (s *CurrencySystem) Subtract(id types.EntityID, currency enums.CurrencyKind, amount int, reason string) (int, OpResult) {
	wallet := ecs.GetAs[domain.WalletComponent](s.Store, id, domain.KindWallet)
	if wallet == nil {
		return 0, Fail(FailurePrecondition, "у сущности нет кошелька")
	}
	if amount <= 0 {
		return wallet.Balances[currency], Fail(FailurePrecondition, "сумма должна быть положительной")
	}
	if wallet.Balances[currency] < amount {
		return wallet.Balances[currency], FailMissing("не хватает средств", []MissingItem{{
			ItemID:   currency.String(),
			Required: amount,
			Have:     wallet.Balances[currency],
		}})
	}

	wallet.Balances[currency] -= amount
	balance := wallet.Balances[currency]
	s.record(id, enums.TransactionDebit, currency, amount, balance, reason)
	return balance, Success()
}

// Transfer переводит средства между кошельками атомарно.
func (s *CurrencySystem) Transfer(from, to types.EntityID, currency enums.CurrencyKind, amount int, reason string) OpResult {
	if ecs.GetAs[domain.WalletComponent](s.Store, to, domain.KindWallet) == nil {
		return Fail(FailurePrecondition, "у получателя нет кошелька")
	}
	if _, result := s.Subtract(from, currency, amount, reason); !result.OK {
		return result
	}
	// Получатель проверен выше, пополнение не может отказать
	s.Add(to, currency, amount, reason)
	return Success()
}

// record пишет транзакцию в леджер и эмитит currency_changed.
func (s *CurrencySystem) record(id types.EntityID, direction enums.TransactionDirection, currency enums.CurrencyKind, amount, balance int, reason string) {
	now := s.clock()
	tx := Transaction{
		ID:        uuid.NewString(),
		EntityID:  id,
		Direction: direction,
		Currency:  currency,
		Amount:    amount,
		Balance:   balance,
		Reason:    reason,
		Timestamp: now,
	}
	s.ledger = append(s.ledger, tx)

	s.Bus.Emit(domain.CurrencyChangedEvent{
		EventMeta:     domain.Meta(now),
		EntityID:      id,
		Direction:     direction,
		Currency:      currency,
		Amount:        amount,
		Reason:        reason,
		TransactionID: tx.ID,
	})

	s.log.WithFields(logrus.Fields{
		"entity":    id.String(),
		"direction": direction.String(),
		"currency":  currency.String(),
		"amount":    amount,
		"balance":   balance,
		"reason":    reason,
	}).Debug("Currency transaction recorded.")
}

// History возвращает транзакции сущности в порядке записи.
func (s *CurrencySystem) History(id types.EntityID) []Transaction {
	out := make([]Transaction, 0)
	for _, tx := range s.ledger {
		if tx.EntityID == id {
			out = append(out, tx)
		}
	}
	return out
}
