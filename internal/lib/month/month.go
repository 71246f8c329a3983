// Package month содержит календарную арифметику для расчёта периода абонемента.
package month

import (
	"time"
)

// AddMonths прибавляет к дате n календарных месяцев. Если в целевом месяце
// меньше дней, чем в исходной дате, день фиксируется на последнем дне месяца:
// 31 января + 1 месяц = 29 февраля (високосный год) или 28 февраля.
// time.AddDate здесь не подходит: он нормализует переполнение и переносит
// дату в следующий месяц.
func AddMonths(t time.Time, n int) time.Time {
	year, m, day := t.Date()
	month := int(m) + n

	// time.Date нормализует месяцы за пределами [1, 12]
	last := lastDayOfMonth(year, month, t.Location())
	if day > last {
		day = last
	}
	return time.Date(year, time.Month(month), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// IsActive сообщает, действует ли период с датой окончания endDate
// в момент now. Период активен строго до даты окончания: в момент
// endDate и позже он уже считается завершённым.
func IsActive(endDate, now time.Time) bool {
	return now.Before(endDate)
}

func lastDayOfMonth(year, month int, loc *time.Location) int {
	// День 0 следующего месяца — последний день текущего
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, loc).Day()
}
