package keys

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "repair-tracker/pkg/errors"
)

// Префиксы ключей в стиле JIRA: RO-1, RU-7, ST-2, AS-3.
const (
	RepairOrderPrefix = "RO"
	RepairUnitPrefix  = "RU"
	StatusPrefix      = "ST"
	AssigneePrefix    = "AS"
)

// Format собирает ключ вида "RO-123" из префикса и числового ID.
func Format(prefix string, id uint64) string {
	return fmt.Sprintf("%s-%d", prefix, id)
}

// Parse разбирает ключ "RO-123" на префикс и ID. Проверка того, что префикс
// соответствует ожидаемой сущности, остаётся за вызывающим кодом.
func Parse(key string) (string, uint64, error) {
	parts := strings.Split(key, "-")
	if len(parts) != 2 {
		return "", 0, apperrors.ErrInvalidKeyFormat
	}

	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return "", 0, apperrors.ErrInvalidKeyFormat
	}

	return parts[0], id, nil
}

// ParseAs разбирает ключ и проверяет, что его префикс совпадает с ожидаемым.
func ParseAs(key, expectedPrefix string) (uint64, error) {
	prefix, id, err := Parse(key)
	if err != nil {
		return 0, err
	}
	if prefix != expectedPrefix {
		return 0, apperrors.ErrWrongKeyKind
	}
	return id, nil
}
