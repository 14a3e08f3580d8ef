package systems

// FailureKind различает причины отказа операции, чтобы вызывающий код
// мог отличить «не хватает ресурсов» от «уже занят» без разбора строк.
type FailureKind uint8

const (
	FailureNone FailureKind = iota
	// FailurePrecondition - нарушено предусловие: нет компонента,
	// несуществующая сущность, неизвестный слот/ID.
	FailurePrecondition
	// FailureInsufficiency - не хватает ресурсов: золота, материалов,
	// места в инвентаре. Состояние при этом не тронуто.
	FailureInsufficiency
	// FailureConflict - конфликт занятости: уже работает, уже крафтит,
	// предмет уже экипирован в другом месте.
	FailureConflict
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "NONE"
	case FailurePrecondition:
		return "PRECONDITION"
	case FailureInsufficiency:
		return "INSUFFICIENCY"
	case FailureConflict:
		return "CONFLICT"
	}
	return "UNKNOWN"
}

// MissingItem - недостающая позиция при проверке ресурсов.
type MissingItem struct {
	ItemID   string `json:"itemId"`
	Required int    `json:"required"`
	Have     int    `json:"have"`
}

// OpResult - результат игровой операции.
// Валидационные отказы гасятся на границе операции: наружу уходит
// результат с причиной, а не паника или необработанная ошибка.
type OpResult struct {
	OK      bool          `json:"ok"`
	Failure FailureKind   `json:"failure,omitempty"`
	Reason  string        `json:"reason,omitempty"`
	Missing []MissingItem `json:"missing,omitempty"`
}

func Success() OpResult {
	return OpResult{OK: true}
}

func Fail(kind FailureKind, reason string) OpResult {
	return OpResult{OK: false, Failure: kind, Reason: reason}
}

func FailMissing(reason string, missing []MissingItem) OpResult {
	return OpResult{OK: false, Failure: FailureInsufficiency, Reason: reason, Missing: missing}
}
