package transaction

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	appErrors "Grana/internal/errors"
	"Grana/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

var csvHeader = []string{
	"date", "type", "amount", "description", "category_id",
	"payment_method", "reference", "notes", "tags", "recurrence_rule_id",
}

func (s *Service) ExportCSV(ctx context.Context, userID ulid.ULID, filters *Filters, w io.Writer) error {
	if err := s.EnsureUserExists(ctx, userID); err != nil {
		return err
	}

	transactions, err := s.Repository.GetAllForExport(ctx, userID, filters)
	if err != nil {
		return appErrors.NewDatabaseError(err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return appErrors.ErrInternalServer.WithError(err)
	}

	for _, t := range transactions {
		record := []string{
			t.Date.Format("2006-01-02"),
			string(t.Type),
			t.Amount.StringFixed(2),
			t.Description,
			ulidPtrString(t.CategoryId),
			t.PaymentMethod,
			t.Reference,
			t.Notes,
			strings.Join(t.Tags, "|"),
			ulidPtrString(t.RecurrenceRuleId),
		}
		if err := writer.Write(record); err != nil {
			return appErrors.ErrInternalServer.WithError(err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return appErrors.ErrInternalServer.WithError(err)
	}
	return nil
}

type ImportRowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

type ImportResult struct {
	Imported int              `json:"imported"`
	Skipped  int              `json:"skipped"`
	Errors   []ImportRowError `json:"errors,omitempty"`
}

// ImportCSV grava as linhas válidas e relata as inválidas por número de linha.
// Uma linha ruim nunca aborta a importação das demais.
func (s *Service) ImportCSV(ctx context.Context, userID ulid.ULID, r io.Reader) (*ImportResult, error) {
	if err := s.EnsureUserExists(ctx, userID); err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, appErrors.NewValidationError("file", "arquivo CSV vazio ou ilegível").WithError(err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "type", "amount"} {
		if _, ok := columns[required]; !ok {
			return nil, appErrors.NewValidationError("file", fmt.Sprintf("coluna obrigatória ausente: %s", required))
		}
	}

	result := &ImportResult{}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, ImportRowError{Line: line, Message: "linha malformada"})
			continue
		}

		t, problem := s.parseImportRow(ctx, userID, columns, record)
		if problem != "" {
			result.Skipped++
			result.Errors = append(result.Errors, ImportRowError{Line: line, Message: problem})
			continue
		}

		TransactionCreateStruct(t)
		if err := s.Repository.Create(ctx, t); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, ImportRowError{Line: line, Message: "falha ao gravar transação"})
			continue
		}
		result.Imported++
	}

	return result, nil
}

func (s *Service) parseImportRow(ctx context.Context, userID ulid.ULID, columns map[string]int, record []string) (*Transaction, string) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	date, err := time.Parse("2006-01-02", field("date"))
	if err != nil {
		return nil, "data inválida, formato esperado AAAA-MM-DD"
	}

	flow := Types(strings.ToUpper(field("type")))
	if !flow.IsValid() {
		return nil, "tipo deve ser INCOME ou EXPENSE"
	}

	amount, err := decimal.NewFromString(field("amount"))
	if err != nil || amount.Sign() <= 0 {
		return nil, "valor deve ser um número maior que zero"
	}

	t := &Transaction{
		UserId:        userID,
		Type:          flow,
		Amount:        amount,
		Description:   field("description"),
		Notes:         field("notes"),
		PaymentMethod: field("payment_method"),
		Reference:     field("reference"),
		Date:          date,
	}

	if tags := field("tags"); tags != "" {
		t.Tags = datatypes.NewJSONSlice(strings.Split(tags, "|"))
	}

	if rawCategory := field("category_id"); rawCategory != "" {
		categoryID, err := pkg.ParseULID(rawCategory)
		if err != nil {
			return nil, "categoria inválida"
		}
		if err := s.Categories.EnsureExists(ctx, categoryID, userID); err != nil {
			return nil, "categoria não encontrada"
		}
		t.CategoryId = &categoryID
	}

	return t, ""
}

func ulidPtrString(id *ulid.ULID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
