package recurring

import (
	"time"

	"Grana/internal/pkg"

	"github.com/teambition/rrule-go"
)

const (
	defaultPreviewCount = 12
	maxPreviewCount     = 60
)

// NextOccurrence calcula a ocorrência seguinte a partir de uma data, sem
// consultar nada além dos argumentos. O intervalo multiplica a unidade da
// frequência: DAILY avança interval dias, WEEKLY interval semanas, MONTHLY
// interval meses, YEARLY interval anos e CUSTOM interval dias. MONTHLY e
// YEARLY ancoram no dia da data de origem e fixam no último dia do mês quando
// o mês de destino é mais curto (31 de janeiro avança para 28 ou 29 de
// fevereiro). Frequência desconhecida devolve o tempo zero; quem chama valida
// a frequência antes.
func NextOccurrence(frequency FrequencyType, interval int, from time.Time) time.Time {
	from = pkg.DateOnly(from)
	if interval < 1 {
		interval = 1
	}

	switch frequency {
	case FrequencyDaily:
		return from.AddDate(0, 0, interval)
	case FrequencyWeekly:
		return from.AddDate(0, 0, 7*interval)
	case FrequencyMonthly:
		return addMonthsClamped(from, interval)
	case FrequencyYearly:
		return addYearsClamped(from, interval)
	case FrequencyCustom:
		return from.AddDate(0, 0, interval)
	}

	return time.Time{}
}

// addMonthsClamped soma meses preservando o dia, sem o transbordo do AddDate
// (31 de janeiro + 1 mês é 28/29 de fevereiro, nunca 2/3 de março).
func addMonthsClamped(from time.Time, months int) time.Time {
	year, month, day := from.Date()
	total := int(month-1) + months
	year += total / 12
	month = time.Month(total%12) + 1
	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func addYearsClamped(from time.Time, years int) time.Time {
	year, month, day := from.Date()
	year += years
	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// PreviewOccurrences projeta as próximas ocorrências a partir do cursor da
// regra, sem materializar nada. A projeção respeita a data final e é limitada
// a maxPreviewCount entradas.
func PreviewOccurrences(rule *RecurrenceRule, count int) []time.Time {
	if count < 1 {
		count = defaultPreviewCount
	}
	if count > maxPreviewCount {
		count = maxPreviewCount
	}

	occurrences := make([]time.Time, 0, count)
	cursor := pkg.DateOnly(rule.NextRunDate)
	for len(occurrences) < count {
		if rule.EndDate != nil && cursor.After(*rule.EndDate) {
			break
		}
		occurrences = append(occurrences, cursor)

		next := NextOccurrence(rule.Frequency, rule.Interval, cursor)
		if !next.After(cursor) {
			break
		}
		cursor = next
	}

	return occurrences
}

// RRuleString expõe a cadência da regra como um RRULE RFC 5545, para clientes
// que exportam recorrências para calendários. A string é apenas informativa:
// o avanço do cursor usa NextOccurrence, que trava no fim do mês em vez de
// pular meses curtos como o RFC faz.
func (r *RecurrenceRule) RRuleString() string {
	opt := rrule.ROption{
		Dtstart: r.StartDate,
	}

	switch r.Frequency {
	case FrequencyDaily, FrequencyCustom:
		opt.Freq = rrule.DAILY
	case FrequencyWeekly:
		opt.Freq = rrule.WEEKLY
	case FrequencyMonthly:
		opt.Freq = rrule.MONTHLY
	case FrequencyYearly:
		opt.Freq = rrule.YEARLY
	default:
		return ""
	}

	if r.Interval > 1 {
		opt.Interval = r.Interval
	}

	if r.EndDate != nil {
		opt.Until = *r.EndDate
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return ""
	}
	return rule.String()
}
