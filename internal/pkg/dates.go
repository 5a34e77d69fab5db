package pkg

import "time"

// DateOnly descarta o horário e devolve a meia-noite UTC do mesmo dia.
// Todas as datas de agendamento e de transações são armazenadas nessa forma.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
